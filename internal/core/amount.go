// Package core provides amount parsing and summing utilities.
//
// Amounts are held as decimal.Decimal so that totals and percentage
// comparisons are exact; the storage layer converts to REAL at its boundary.
package core

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a user-entered string into a positive amount.
//
// Both dot (12.34) and comma (12,34) decimal separators are accepted and
// surrounding whitespace is ignored. Zero, negative and non-numeric input
// returns ErrInvalidAmount, as do values too large or too small for a float64.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34, nil
//	ParseAmount("12,34") -> 12.34, nil
//	ParseAmount("0")     -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if err := CheckAmount(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// CheckAmount accepts amounts that are positive and stay positive and finite
// as a float64, the precision the SQLite store keeps.
func CheckAmount(d decimal.Decimal) error {
	if !d.IsPositive() {
		return ErrInvalidAmount
	}
	f := d.InexactFloat64()
	if math.IsInf(f, 0) || math.IsNaN(f) || f <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Total sums the amounts of the given expenses. It is zero for an empty slice.
func Total(expenses []Expense) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range expenses {
		sum = sum.Add(e.Amount)
	}
	return sum
}
