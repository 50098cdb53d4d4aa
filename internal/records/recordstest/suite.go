// Package recordstest holds the behaviour every records.Store must share.
// Backend packages call Run from their own tests.
package recordstest

import (
	"context"
	"testing"

	"expensetracker/internal/core"
	"expensetracker/internal/records"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty store. Cleanup is the caller's job (t.Cleanup).
type Factory func(t *testing.T) records.Store

// Run executes the shared store cases against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("AddAssignsSequentialIDs", func(t *testing.T) { testAddAssignsSequentialIDs(t, newStore(t)) })
	t.Run("AddRejectsInvalid", func(t *testing.T) { testAddRejectsInvalid(t, newStore(t)) })
	t.Run("ListAllKeepsInsertionOrder", func(t *testing.T) { testListAllKeepsInsertionOrder(t, newStore(t)) })
	t.Run("DeleteRemovesOnlySelected", func(t *testing.T) { testDeleteRemovesOnlySelected(t, newStore(t)) })
	t.Run("DeleteUnknownIsNoop", func(t *testing.T) { testDeleteUnknownIsNoop(t, newStore(t)) })
	t.Run("DeleteToEmptyResetsIDs", func(t *testing.T) { testDeleteToEmptyResetsIDs(t, newStore(t)) })
	t.Run("DeleteAllResetsIDs", func(t *testing.T) { testDeleteAllResetsIDs(t, newStore(t)) })
	t.Run("ListBetweenInclusive", func(t *testing.T) { testListBetweenInclusive(t, newStore(t)) })
	t.Run("MonthlyTotals", func(t *testing.T) { testMonthlyTotals(t, newStore(t)) })
	t.Run("CategoryTotals", func(t *testing.T) { testCategoryTotals(t, newStore(t)) })
	t.Run("EmptyAggregates", func(t *testing.T) { testEmptyAggregates(t, newStore(t)) })
	t.Run("RevisionAdvancesOnMutation", func(t *testing.T) { testRevisionAdvancesOnMutation(t, newStore(t)) })
}

// Expense builds a valid expense from literal fields and fails the test otherwise.
func Expense(t *testing.T, date, category, amount string) core.Expense {
	t.Helper()
	e, err := core.NewExpense(date, category, amount)
	require.NoError(t, err)
	return e
}

// Seed adds the canonical three-row dataset and returns the stored rows.
func Seed(t *testing.T, s records.Store) []core.Expense {
	t.Helper()
	ctx := context.Background()
	var out []core.Expense
	for _, e := range []core.Expense{
		Expense(t, "2024-01-05", "Food", "50"),
		Expense(t, "2024-01-20", "Dining Out", "40"),
		Expense(t, "2024-02-01", "Food", "10"),
	} {
		stored, err := s.Add(ctx, e)
		require.NoError(t, err)
		out = append(out, stored)
	}
	return out
}

func ids(expenses []core.Expense) []int64 {
	out := make([]int64, len(expenses))
	for i, e := range expenses {
		out[i] = e.ID
	}
	return out
}

func assertAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	w := decimal.RequireFromString(want)
	assert.Truef(t, w.Sub(got).Abs().LessThan(decimal.New(1, -9)), "expected %s, got %s", w, got)
}

func testAddAssignsSequentialIDs(t *testing.T, s records.Store) {
	ctx := context.Background()
	e := Expense(t, "2024-03-01", "Rent", "700.25")

	first, err := s.Add(ctx, e)
	require.NoError(t, err)
	second, err := s.Add(ctx, e)
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.Equal(t, "2024-03-01", first.Date.String())
	assert.Equal(t, "Rent", first.Category)
	assertAmount(t, "700.25", first.Amount)

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)
	assert.Equal(t, "Rent", all[0].Category)
	assertAmount(t, "700.25", all[0].Amount)
}

func testAddRejectsInvalid(t *testing.T, s records.Store) {
	ctx := context.Background()
	bads := []core.Expense{
		{Category: "Food", Amount: decimal.NewFromInt(1)},
		{Date: core.NewDate(2024, 1, 1), Category: " ", Amount: decimal.NewFromInt(1)},
		{Date: core.NewDate(2024, 1, 1), Category: "Food", Amount: decimal.NewFromInt(-5)},
		{Date: core.NewDate(2024, 1, 1), Category: "Food", Amount: decimal.RequireFromString("1e400")},
		{Date: core.NewDate(2024, 1, 1), Category: "Food", Amount: decimal.RequireFromString("1e-400")},
	}
	for i, e := range bads {
		_, err := s.Add(ctx, e)
		assert.Truef(t, core.IsValidationError(err), "case %d: expected validation error, got %v", i, err)
	}
	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	// The store stays usable after a rejected write.
	stored, err := s.Add(ctx, Expense(t, "2024-01-01", "Food", "1"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.ID)
}

func testListAllKeepsInsertionOrder(t *testing.T, s records.Store) {
	ctx := context.Background()
	for _, d := range []string{"2024-05-01", "2023-01-01", "2024-01-15"} {
		_, err := s.Add(ctx, Expense(t, d, "Misc", "1"))
		require.NoError(t, err)
	}
	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2024-05-01", all[0].Date.String())
	assert.Equal(t, "2023-01-01", all[1].Date.String())
	assert.Equal(t, "2024-01-15", all[2].Date.String())
}

func testDeleteRemovesOnlySelected(t *testing.T, s records.Store) {
	ctx := context.Background()
	seeded := Seed(t, s)
	before, err := s.ListAll(ctx)
	require.NoError(t, err)

	n, err := s.Delete(ctx, []int64{seeded[0].ID, seeded[2].ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	after, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, seeded[1].ID, after[0].ID)

	removed := core.Total([]core.Expense{seeded[0], seeded[2]})
	assertAmount(t, core.Total(before).Sub(removed).String(), core.Total(after))
}

func testDeleteUnknownIsNoop(t *testing.T, s records.Store) {
	ctx := context.Background()
	seeded := Seed(t, s)

	n, err := s.Delete(ctx, []int64{99, 100})
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = s.Delete(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	// Duplicates and unknown IDs mixed with a real one.
	n, err = s.Delete(ctx, []int64{seeded[1].ID, seeded[1].ID, 42})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func testDeleteToEmptyResetsIDs(t *testing.T, s records.Store) {
	ctx := context.Background()
	seeded := Seed(t, s)

	n, err := s.Delete(ctx, ids(seeded))
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	next, err := s.Add(ctx, Expense(t, "2024-06-01", "Food", "5"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), next.ID)
}

func testDeleteAllResetsIDs(t *testing.T, s records.Store) {
	ctx := context.Background()
	Seed(t, s)

	require.NoError(t, s.DeleteAll(ctx))
	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	next, err := s.Add(ctx, Expense(t, "2024-06-01", "Food", "5"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), next.ID)

	// DeleteAll on an empty store is allowed.
	require.NoError(t, s.DeleteAll(ctx))
	require.NoError(t, s.DeleteAll(ctx))
}

func testListBetweenInclusive(t *testing.T, s records.Store) {
	ctx := context.Background()
	seeded := Seed(t, s)

	got, err := s.ListBetween(ctx, core.NewDate(2024, 1, 5), core.NewDate(2024, 1, 20))
	require.NoError(t, err)
	assert.Equal(t, []int64{seeded[0].ID, seeded[1].ID}, ids(got))

	got, err = s.ListBetween(ctx, core.NewDate(2024, 2, 1), core.NewDate(2024, 2, 1))
	require.NoError(t, err)
	assert.Equal(t, []int64{seeded[2].ID}, ids(got))

	got, err = s.ListBetween(ctx, core.NewDate(2025, 1, 1), core.NewDate(2025, 12, 31))
	require.NoError(t, err)
	assert.Empty(t, got)

	// Reversed bounds select nothing.
	got, err = s.ListBetween(ctx, core.NewDate(2024, 12, 31), core.NewDate(2024, 1, 1))
	require.NoError(t, err)
	assert.Empty(t, got)

	// Every row in range, and only those, compared against ListAll.
	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	from, to := core.NewDate(2024, 1, 6), core.NewDate(2024, 2, 1)
	var want []int64
	for _, e := range all {
		if from.String() <= e.Date.String() && e.Date.String() <= to.String() {
			want = append(want, e.ID)
		}
	}
	got, err = s.ListBetween(ctx, from, to)
	require.NoError(t, err)
	assert.Equal(t, want, ids(got))
}

func testMonthlyTotals(t *testing.T, s records.Store) {
	ctx := context.Background()
	// Insert February first so ordering cannot come from insertion.
	_, err := s.Add(ctx, Expense(t, "2024-02-01", "Food", "10"))
	require.NoError(t, err)
	_, err = s.Add(ctx, Expense(t, "2024-01-05", "Food", "50"))
	require.NoError(t, err)
	_, err = s.Add(ctx, Expense(t, "2024-01-20", "Dining Out", "40"))
	require.NoError(t, err)

	totals, err := s.MonthlyTotals(ctx)
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, "2024-01", totals[0].Month)
	assertAmount(t, "90", totals[0].Amount)
	assert.Equal(t, "2024-02", totals[1].Month)
	assertAmount(t, "10", totals[1].Amount)

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	assertAmount(t, core.Total(all).String(), core.SumMonths(totals))
}

func testCategoryTotals(t *testing.T, s records.Store) {
	ctx := context.Background()
	Seed(t, s)
	_, err := s.Add(ctx, Expense(t, "2024-02-03", "food", "2.5"))
	require.NoError(t, err)

	totals, err := s.CategoryTotals(ctx)
	require.NoError(t, err)

	got := map[string]string{}
	for _, c := range totals {
		got[c.Category] = c.Amount.String()
	}
	require.Len(t, got, 3)
	assertAmount(t, "60", decimal.RequireFromString(got["Food"]))
	assertAmount(t, "40", decimal.RequireFromString(got["Dining Out"]))
	assertAmount(t, "2.5", decimal.RequireFromString(got["food"]))

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	assertAmount(t, core.Total(all).String(), core.SumCategories(totals))
}

func testEmptyAggregates(t *testing.T, s records.Store) {
	ctx := context.Background()
	months, err := s.MonthlyTotals(ctx)
	require.NoError(t, err)
	assert.Empty(t, months)
	cats, err := s.CategoryTotals(ctx)
	require.NoError(t, err)
	assert.Empty(t, cats)
}

func testRevisionAdvancesOnMutation(t *testing.T, s records.Store) {
	ctx := context.Background()
	r0 := s.Revision()
	seeded := Seed(t, s)
	r1 := s.Revision()
	assert.NotEqual(t, r0, r1)

	_, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, r1, s.Revision())

	_, err = s.Delete(ctx, []int64{seeded[0].ID})
	require.NoError(t, err)
	r2 := s.Revision()
	assert.NotEqual(t, r1, r2)

	require.NoError(t, s.DeleteAll(ctx))
	assert.NotEqual(t, r2, s.Revision())
}
