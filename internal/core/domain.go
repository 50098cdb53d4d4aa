package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the only accepted textual form of a Date.
const DateLayout = "2006-01-02"

type (
	Date struct {
		time.Time
	}

	Expense struct {
		ID       int64 // Assigned by the store
		Date     Date
		Category string
		Amount   decimal.Decimal
	}
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a zero-padded YYYY-MM-DD string into a Date.
// Out-of-range values such as 2024-02-30 are rejected.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if len(s) != len(DateLayout) {
		return Date{}, ErrInvalidDate
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// String renders the date as YYYY-MM-DD, the stored and compared form.
func (d Date) String() string {
	return d.Format(DateLayout)
}

// MonthKey returns the YYYY-MM prefix used for monthly grouping.
func (d Date) MonthKey() string {
	return d.Format("2006-01")
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// NewExpense validates raw user input and builds an Expense without an ID.
// Fields are checked in order date, category, amount; the first failure is
// returned as a *ValidationError.
func NewExpense(date, category, amount string) (Expense, error) {
	d, err := ParseDate(date)
	if err != nil {
		return Expense{}, newValidationError(FieldDate, err)
	}
	if strings.TrimSpace(category) == "" {
		return Expense{}, newValidationError(FieldCategory, ErrEmptyCategory)
	}
	a, err := ParseAmount(amount)
	if err != nil {
		return Expense{}, newValidationError(FieldAmount, err)
	}
	return Expense{Date: d, Category: category, Amount: a}, nil
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return newValidationError(FieldDate, err)
	}
	if strings.TrimSpace(e.Category) == "" {
		return newValidationError(FieldCategory, ErrEmptyCategory)
	}
	if err := CheckAmount(e.Amount); err != nil {
		return newValidationError(FieldAmount, err)
	}
	return nil
}
