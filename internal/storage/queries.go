package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// Expense mirrors one row of the expenses table.
type Expense struct {
	ID       int64
	Date     string
	Category string
	Amount   float64
}

type CreateExpenseParams struct {
	Date     string
	Category string
	Amount   float64
}

const createExpense = `
INSERT INTO expenses (date, category, amount)
VALUES (?, ?, ?)
RETURNING id, date, category, amount
`

func (q *Queries) CreateExpense(ctx context.Context, arg CreateExpenseParams) (Expense, error) {
	row := q.db.QueryRowContext(ctx, createExpense, arg.Date, arg.Category, arg.Amount)
	var i Expense
	err := row.Scan(&i.ID, &i.Date, &i.Category, &i.Amount)
	return i, err
}

const listExpenses = `
SELECT id, date, category, amount
FROM expenses
ORDER BY id
`

func (q *Queries) ListExpenses(ctx context.Context) ([]Expense, error) {
	rows, err := q.db.QueryContext(ctx, listExpenses)
	if err != nil {
		return nil, err
	}
	return scanExpenses(rows)
}

const listExpensesBetween = `
SELECT id, date, category, amount
FROM expenses
WHERE date BETWEEN ? AND ?
ORDER BY id
`

type ListExpensesBetweenParams struct {
	Start string
	End   string
}

func (q *Queries) ListExpensesBetween(ctx context.Context, arg ListExpensesBetweenParams) ([]Expense, error) {
	rows, err := q.db.QueryContext(ctx, listExpensesBetween, arg.Start, arg.End)
	if err != nil {
		return nil, err
	}
	return scanExpenses(rows)
}

const deleteExpense = `
DELETE FROM expenses WHERE id = ?
`

func (q *Queries) DeleteExpense(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteExpense, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteAllExpenses = `
DELETE FROM expenses
`

func (q *Queries) DeleteAllExpenses(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllExpenses)
	return err
}

const countExpenses = `
SELECT COUNT(*) FROM expenses
`

func (q *Queries) CountExpenses(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countExpenses)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const resetExpenseSequence = `
DELETE FROM sqlite_sequence WHERE name = 'expenses'
`

func (q *Queries) ResetExpenseSequence(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, resetExpenseSequence)
	return err
}

const getMonthlyTotals = `
SELECT substr(date, 1, 7) AS month, SUM(amount) AS total
FROM expenses
GROUP BY month
ORDER BY month
`

type GetMonthlyTotalsRow struct {
	Month string
	Total float64
}

func (q *Queries) GetMonthlyTotals(ctx context.Context) ([]GetMonthlyTotalsRow, error) {
	rows, err := q.db.QueryContext(ctx, getMonthlyTotals)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetMonthlyTotalsRow
	for rows.Next() {
		var i GetMonthlyTotalsRow
		if err := rows.Scan(&i.Month, &i.Total); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getCategoryTotals = `
SELECT category, SUM(amount) AS total
FROM expenses
GROUP BY category
ORDER BY category
`

type GetCategoryTotalsRow struct {
	Category string
	Total    float64
}

func (q *Queries) GetCategoryTotals(ctx context.Context) ([]GetCategoryTotalsRow, error) {
	rows, err := q.db.QueryContext(ctx, getCategoryTotals)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetCategoryTotalsRow
	for rows.Next() {
		var i GetCategoryTotalsRow
		if err := rows.Scan(&i.Category, &i.Total); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanExpenses(rows *sql.Rows) ([]Expense, error) {
	defer rows.Close()
	var items []Expense
	for rows.Next() {
		var i Expense
		if err := rows.Scan(&i.ID, &i.Date, &i.Category, &i.Amount); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
