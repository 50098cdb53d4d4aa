package report

import (
	"strings"

	"expensetracker/internal/core"

	"github.com/shopspring/decimal"
)

// AffirmingMessage is returned when no rule fires.
const AffirmingMessage = "You're doing great! Keep up the good work."

// Rule flags spending on categories whose name contains Keyword
// (case-insensitive) when their combined share of total spending is strictly
// greater than Threshold.
type Rule struct {
	Keyword   string
	Threshold decimal.Decimal
	Message   string
}

// DefaultRules returns the built-in rules in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		{
			Keyword:   "Dining Out",
			Threshold: decimal.RequireFromString("0.20"),
			Message:   "Consider reducing spending on dining out to save more.",
		},
		{
			Keyword:   "Entertainment",
			Threshold: decimal.RequireFromString("0.15"),
			Message:   "Think about cutting down on entertainment expenses.",
		},
	}
}

// Recommend evaluates rules in order against category totals. With no
// spending at all only the affirming message is returned.
func Recommend(totals []core.CategoryTotal, rules []Rule) []string {
	spent := core.SumCategories(totals)

	var out []string
	if spent.IsPositive() {
		for _, r := range rules {
			matched := matchingSpend(totals, r.Keyword)
			if matched.GreaterThan(spent.Mul(r.Threshold)) {
				out = append(out, r.Message)
			}
		}
	}
	if len(out) == 0 {
		out = append(out, AffirmingMessage)
	}
	return out
}

func matchingSpend(totals []core.CategoryTotal, keyword string) decimal.Decimal {
	kw := strings.ToLower(keyword)
	sum := decimal.Zero
	for _, t := range totals {
		if strings.Contains(strings.ToLower(t.Category), kw) {
			sum = sum.Add(t.Amount)
		}
	}
	return sum
}
