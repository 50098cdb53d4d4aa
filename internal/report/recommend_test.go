package report

import (
	"testing"

	"expensetracker/internal/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func totals(pairs ...any) []core.CategoryTotal {
	var out []core.CategoryTotal
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, core.CategoryTotal{
			Category: pairs[i].(string),
			Amount:   decimal.NewFromInt(int64(pairs[i+1].(int))),
		})
	}
	return out
}

func TestRecommend(t *testing.T) {
	dining := DefaultRules()[0].Message
	entertainment := DefaultRules()[1].Message

	tests := []struct {
		name   string
		totals []core.CategoryTotal
		want   []string
	}{
		{
			name:   "no spending",
			totals: nil,
			want:   []string{AffirmingMessage},
		},
		{
			name:   "dining at 25 percent",
			totals: totals("Dining Out", 25, "Rent", 75),
			want:   []string{dining},
		},
		{
			name:   "dining exactly at threshold does not fire",
			totals: totals("Dining Out", 20, "Rent", 80),
			want:   []string{AffirmingMessage},
		},
		{
			name:   "case-insensitive substring match",
			totals: totals("weekend DINING OUT", 30, "Rent", 70),
			want:   []string{dining},
		},
		{
			name:   "matching categories are combined",
			totals: totals("Dining Out lunch", 12, "dining out dinner", 12, "Rent", 76),
			want:   []string{dining},
		},
		{
			name:   "entertainment above 15 percent",
			totals: totals("Entertainment", 16, "Rent", 84),
			want:   []string{entertainment},
		},
		{
			name:   "both fire in rule order",
			totals: totals("Entertainment", 30, "Dining Out", 30, "Rent", 40),
			want:   []string{dining, entertainment},
		},
		{
			name:   "unrelated categories only",
			totals: totals("Food", 60, "Rent", 40),
			want:   []string{AffirmingMessage},
		},
		{
			name:   "food and dining out",
			totals: totals("Food", 60, "Dining Out", 40),
			want:   []string{dining},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Recommend(tt.totals, DefaultRules()))
		})
	}
}

func TestRecommendCustomRules(t *testing.T) {
	rules := []Rule{{Keyword: "Travel", Threshold: decimal.RequireFromString("0.5"), Message: "travel less"}}
	assert.Equal(t, []string{"travel less"}, Recommend(totals("Travel", 6, "Food", 4), rules))
	assert.Equal(t, []string{AffirmingMessage}, Recommend(totals("Travel", 5, "Food", 5), rules))
}
