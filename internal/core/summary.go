package core

import "github.com/shopspring/decimal"

// MonthTotal is the amount spent in one YYYY-MM month.
type MonthTotal struct {
	Month  string
	Amount decimal.Decimal
}

// CategoryTotal is the amount spent in one category, matched by exact name.
type CategoryTotal struct {
	Category string
	Amount   decimal.Decimal
}

// SumMonths adds up every monthly group.
func SumMonths(totals []MonthTotal) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range totals {
		sum = sum.Add(t.Amount)
	}
	return sum
}

// SumCategories adds up every category group.
func SumCategories(totals []CategoryTotal) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range totals {
		sum = sum.Add(t.Amount)
	}
	return sum
}
