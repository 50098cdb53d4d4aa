package records

import (
	"context"

	"expensetracker/internal/core"
)

// Ports implemented by every expense backend.
type (
	ExpenseWriter interface {
		// Add validates e, persists it and returns it with its assigned ID.
		Add(ctx context.Context, e core.Expense) (core.Expense, error)
		// Delete removes the expenses whose ID is in ids and reports how many
		// were removed. Unknown IDs are ignored. When the store ends up empty the
		// ID sequence restarts at 1.
		Delete(ctx context.Context, ids []int64) (int64, error)
		// DeleteAll removes every expense and restarts the ID sequence at 1.
		DeleteAll(ctx context.Context) error
	}

	ExpenseReader interface {
		// ListAll returns every expense in storage order.
		ListAll(ctx context.Context) ([]core.Expense, error)
		// ListBetween returns expenses with start <= date <= end, in storage order.
		ListBetween(ctx context.Context, start, end core.Date) ([]core.Expense, error)
	}

	// Aggregator groups stored expenses for reporting.
	Aggregator interface {
		// MonthlyTotals sums amounts per YYYY-MM, ordered by month ascending.
		MonthlyTotals(ctx context.Context) ([]core.MonthTotal, error)
		// CategoryTotals sums amounts per exact category name, ordered by name.
		CategoryTotals(ctx context.Context) ([]core.CategoryTotal, error)
	}

	Store interface {
		ExpenseWriter
		ExpenseReader
		Aggregator
		// Revision changes after every successful mutation.
		Revision() uint64
	}
)
