package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	applog "expensetracker/internal/log"
	"expensetracker/internal/report"
	"expensetracker/internal/storage/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	*app
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	store := memory.New()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	logger := applog.New(applog.Config{Output: io.Discard, Component: applog.ComponentCLI})
	return &testApp{
		app: &app{
			store:    store,
			reporter: report.New(store, report.Options{}),
			events:   applog.NewStructuredLogger(logger),
			out:      out,
			errOut:   errOut,
		},
		out:    out,
		errOut: errOut,
	}
}

func (ta *testApp) exec(t *testing.T, args ...string) (string, error) {
	t.Helper()
	ta.out.Reset()
	ta.errOut.Reset()
	err := ta.run(context.Background(), args)
	return ta.out.String(), err
}

func (ta *testApp) seed(t *testing.T) {
	t.Helper()
	for _, args := range [][]string{
		{"add", "-date", "2024-01-05", "-category", "Food", "-amount", "50"},
		{"add", "-date", "2024-01-20", "-category", "Dining Out", "-amount", "40"},
		{"add", "-date", "2024-02-01", "-category", "Food", "-amount", "10"},
	} {
		_, err := ta.exec(t, args...)
		require.NoError(t, err)
	}
}

func TestAddAndList(t *testing.T) {
	ta := newTestApp(t)

	out, err := ta.exec(t, "add", "-date", "2024-01-05", "-category", "Food", "-amount", "12,5")
	require.NoError(t, err)
	assert.Equal(t, "Added expense #1: 2024-01-05 Food 12.50\n", out)

	out, err = ta.exec(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "ID  Date        Category  Amount")
	assert.Contains(t, out, "1   2024-01-05  Food      12.50")
	assert.True(t, strings.HasSuffix(out, "Total: 12.50\n"))
}

func TestAddRejectsInvalidInput(t *testing.T) {
	ta := newTestApp(t)

	tests := [][]string{
		{"add", "-date", "2024/01/05", "-category", "Food", "-amount", "1"},
		{"add", "-date", "2024-01-05", "-category", "  ", "-amount", "1"},
		{"add", "-date", "2024-01-05", "-category", "Food", "-amount", "-3"},
		{"add", "-date", "2024-01-05", "-category", "Food", "-amount", "abc"},
	}
	for _, args := range tests {
		_, err := ta.exec(t, args...)
		require.Error(t, err, args)
		assert.Equal(t, 2, exitCode(err, ta.app), args)
	}

	out, err := ta.exec(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No expenses.")
}

func TestDeleteAndClear(t *testing.T) {
	ta := newTestApp(t)
	ta.seed(t)

	out, err := ta.exec(t, "delete", "2", "99")
	require.NoError(t, err)
	assert.Equal(t, "Deleted 1 expense(s).\n", out)

	_, err = ta.exec(t, "delete", "x")
	assert.ErrorIs(t, err, errUsage)

	_, err = ta.exec(t, "delete")
	assert.ErrorIs(t, err, errUsage)

	out, err = ta.exec(t, "clear")
	require.NoError(t, err)
	assert.Equal(t, "All expenses cleared.\n", out)

	out, err = ta.exec(t, "add", "-date", "2024-03-01", "-category", "Food", "-amount", "1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Added expense #1:"))
}

func TestBetween(t *testing.T) {
	ta := newTestApp(t)
	ta.seed(t)

	out, err := ta.exec(t, "between", "-from", "2024-01-01", "-to", "2024-01-31")
	require.NoError(t, err)
	assert.Contains(t, out, "Dining Out")
	assert.NotContains(t, out, "2024-02-01")
	assert.Contains(t, out, "Total from 2024-01-01 to 2024-01-31: 90.00")

	_, err = ta.exec(t, "between", "-from", "2024-01-01")
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err, ta.app))
}

func TestReports(t *testing.T) {
	ta := newTestApp(t)
	ta.seed(t)

	out, err := ta.exec(t, "monthly")
	require.NoError(t, err)
	assert.Equal(t, "Month    Total\n2024-01  90.00\n2024-02  10.00\n", out)

	out, err = ta.exec(t, "categories")
	require.NoError(t, err)
	assert.Contains(t, out, "Dining Out  40.00")
	assert.Contains(t, out, "Food        60.00")

	out, err = ta.exec(t, "recommend")
	require.NoError(t, err)
	assert.Equal(t, "Consider reducing spending on dining out to save more.\n", out)

	out, err = ta.exec(t, "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "Expenses: 3\nTotal: 100.00\n")
	assert.Contains(t, out, "  - Consider reducing spending on dining out to save more.")
}

func TestRecommendEmpty(t *testing.T) {
	ta := newTestApp(t)

	out, err := ta.exec(t, "recommend")
	require.NoError(t, err)
	assert.Equal(t, report.AffirmingMessage+"\n", out)
}

func TestExport(t *testing.T) {
	ta := newTestApp(t)
	ta.seed(t)
	dir := t.TempDir()

	all := filepath.Join(dir, "all.csv")
	out, err := ta.exec(t, "export", "-o", all)
	require.NoError(t, err)
	assert.Equal(t, "Exported 3 expense(s) to "+all+"\n", out)

	feb := filepath.Join(dir, "feb.csv")
	_, err = ta.exec(t, "export", "-o", feb, "-from", "2024-02-01", "-to", "2024-02-29")
	require.NoError(t, err)
	data, err := os.ReadFile(feb)
	require.NoError(t, err)
	assert.Equal(t, "ID,Date,Category,Amount\n3,2024-02-01,Food,10\n", string(data))

	_, err = ta.exec(t, "export")
	assert.ErrorIs(t, err, errUsage)
}

func TestExportFailureExitCode(t *testing.T) {
	ta := newTestApp(t)
	ta.seed(t)

	_, err := ta.exec(t, "export", "-o", filepath.Join(t.TempDir(), "missing", "out.csv"))
	var exportErr *report.ExportError
	require.True(t, errors.As(err, &exportErr))
	assert.Equal(t, 1, exitCode(err, ta.app))
	assert.Contains(t, ta.errOut.String(), "Error: export")
}

func TestUsage(t *testing.T) {
	ta := newTestApp(t)

	_, err := ta.exec(t)
	assert.ErrorIs(t, err, errUsage)

	_, err = ta.exec(t, "frobnicate")
	assert.ErrorIs(t, err, errUsage)
	assert.Contains(t, ta.errOut.String(), `unknown command "frobnicate"`)

	out, err := ta.exec(t, "help")
	require.NoError(t, err)
	assert.Contains(t, out, "Usage: expenses")

	assert.Equal(t, 0, exitCode(nil, ta.app))
}
