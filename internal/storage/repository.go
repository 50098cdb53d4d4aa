package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sync/atomic"

	"expensetracker/internal/core"
	applog "expensetracker/internal/log"
	"expensetracker/internal/records"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

var _ records.Store = (*SQLiteRepository)(nil)

type SQLiteRepository struct {
	db       *sql.DB
	queries  *Queries
	revision atomic.Uint64
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One process, one connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := RunMigrations(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	slog.Debug("SQLite schema ready", "path", dbPath, "schema_version", version)

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Add implements records.ExpenseWriter
func (r *SQLiteRepository) Add(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	row, err := r.queries.CreateExpense(ctx, CreateExpenseParams{
		Date:     e.Date.String(),
		Category: e.Category,
		Amount:   e.Amount.InexactFloat64(),
	})
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}
	r.revision.Add(1)

	storageLogger(ctx).DebugContext(ctx, "Expense saved to SQLite",
		applog.FieldExpenseID, row.ID,
		applog.FieldDate, row.Date,
		applog.FieldCategory, row.Category,
		applog.FieldAmount, row.Amount)

	return toCore(row)
}

// Delete implements records.ExpenseWriter. The deletes, the emptiness check
// and the sequence reset share one transaction.
func (r *SQLiteRepository) Delete(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	var removed int64
	for _, id := range ids {
		n, err := q.DeleteExpense(ctx, id)
		if err != nil {
			return 0, fmt.Errorf("delete expense %d: %w", id, err)
		}
		removed += n
	}

	remaining, err := q.CountExpenses(ctx)
	if err != nil {
		return 0, fmt.Errorf("count expenses: %w", err)
	}
	if remaining == 0 {
		if err := q.ResetExpenseSequence(ctx); err != nil {
			return 0, fmt.Errorf("reset expense sequence: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit delete: %w", err)
	}
	if removed > 0 {
		r.revision.Add(1)
	}

	storageLogger(ctx).DebugContext(ctx, "Expenses deleted from SQLite",
		"requested", len(ids),
		"deleted", removed,
		"sequence_reset", remaining == 0)

	return removed, nil
}

// DeleteAll implements records.ExpenseWriter
func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete all: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	if err := q.DeleteAllExpenses(ctx); err != nil {
		return fmt.Errorf("delete all expenses: %w", err)
	}
	if err := q.ResetExpenseSequence(ctx); err != nil {
		return fmt.Errorf("reset expense sequence: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete all: %w", err)
	}
	r.revision.Add(1)

	storageLogger(ctx).DebugContext(ctx, "All expenses deleted from SQLite")
	return nil
}

// ListAll implements records.ExpenseReader
func (r *SQLiteRepository) ListAll(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.queries.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return toCoreSlice(rows)
}

// ListBetween implements records.ExpenseReader
func (r *SQLiteRepository) ListBetween(ctx context.Context, start, end core.Date) ([]core.Expense, error) {
	rows, err := r.queries.ListExpensesBetween(ctx, ListExpensesBetweenParams{
		Start: start.String(),
		End:   end.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("list expenses between %s and %s: %w", start, end, err)
	}
	return toCoreSlice(rows)
}

// MonthlyTotals implements records.Aggregator
func (r *SQLiteRepository) MonthlyTotals(ctx context.Context) ([]core.MonthTotal, error) {
	rows, err := r.queries.GetMonthlyTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("get monthly totals: %w", err)
	}
	totals := make([]core.MonthTotal, len(rows))
	for i, row := range rows {
		amount, err := amountFromReal(row.Total)
		if err != nil {
			return nil, fmt.Errorf("month %s: %w", row.Month, err)
		}
		totals[i] = core.MonthTotal{Month: row.Month, Amount: amount}
	}
	return totals, nil
}

// CategoryTotals implements records.Aggregator
func (r *SQLiteRepository) CategoryTotals(ctx context.Context) ([]core.CategoryTotal, error) {
	rows, err := r.queries.GetCategoryTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("get category totals: %w", err)
	}
	totals := make([]core.CategoryTotal, len(rows))
	for i, row := range rows {
		amount, err := amountFromReal(row.Total)
		if err != nil {
			return nil, fmt.Errorf("category %q: %w", row.Category, err)
		}
		totals[i] = core.CategoryTotal{Category: row.Category, Amount: amount}
	}
	return totals, nil
}

func (r *SQLiteRepository) Revision() uint64 {
	return r.revision.Load()
}

func storageLogger(ctx context.Context) *applog.Logger {
	return applog.FromContext(ctx).WithComponent(applog.ComponentStorage)
}

func toCore(row Expense) (core.Expense, error) {
	d, err := core.ParseDate(row.Date)
	if err != nil {
		return core.Expense{}, fmt.Errorf("expense %d has malformed date %q: %w", row.ID, row.Date, err)
	}
	amount, err := amountFromReal(row.Amount)
	if err != nil {
		return core.Expense{}, fmt.Errorf("expense %d: %w", row.ID, err)
	}
	return core.Expense{
		ID:       row.ID,
		Date:     d,
		Category: row.Category,
		Amount:   amount,
	}, nil
}

// amountFromReal converts a stored REAL. decimal.NewFromFloat panics on
// NaN and infinities, which only a hand-edited database can hold.
func amountFromReal(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, fmt.Errorf("non-finite amount %v", f)
	}
	return decimal.NewFromFloat(f), nil
}

func toCoreSlice(rows []Expense) ([]core.Expense, error) {
	expenses := make([]core.Expense, 0, len(rows))
	for _, row := range rows {
		e, err := toCore(row)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, nil
}
