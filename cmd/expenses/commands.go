package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"expensetracker/internal/core"
	applog "expensetracker/internal/log"
	"expensetracker/internal/records"
	"expensetracker/internal/report"

	"github.com/shopspring/decimal"
)

// errUsage marks bad invocations; the message has already been printed.
var errUsage = errors.New("usage")

const usage = `Usage: expenses <command> [flags]

Commands:
  add -date YYYY-MM-DD -category NAME -amount N   record an expense
  delete ID [ID...]                               delete expenses by id
  clear                                           delete every expense
  list                                            list all expenses
  between -from YYYY-MM-DD -to YYYY-MM-DD         list expenses in a date range
  monthly                                         totals per month
  categories                                      totals per category
  recommend                                       spending recommendations
  summary                                         totals, groupings and recommendations
  export -o FILE [-from D -to D]                  write expenses as CSV
`

type app struct {
	store    records.Store
	reporter *report.Reporter
	events   *applog.StructuredLogger
	out      io.Writer
	errOut   io.Writer
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.errOut, usage)
		return errUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "add":
		return a.add(ctx, rest)
	case "delete":
		return a.delete(ctx, rest)
	case "clear":
		return a.clear(ctx)
	case "list":
		return a.list(ctx)
	case "between":
		return a.between(ctx, rest)
	case "monthly":
		return a.monthly(ctx)
	case "categories":
		return a.categories(ctx)
	case "recommend":
		return a.recommend(ctx)
	case "summary":
		return a.summary(ctx)
	case "export":
		return a.export(ctx, rest)
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		return nil
	default:
		fmt.Fprintf(a.errOut, "unknown command %q\n\n%s", cmd, usage)
		return errUsage
	}
}

func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

func (a *app) add(ctx context.Context, args []string) error {
	fs := a.flags("add")
	date := fs.String("date", "", "expense date (YYYY-MM-DD)")
	category := fs.String("category", "", "expense category")
	amount := fs.String("amount", "", "positive amount")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	e, err := core.NewExpense(*date, *category, *amount)
	if err != nil {
		return err
	}
	stored, err := a.store.Add(ctx, e)
	if err != nil {
		return err
	}

	a.events.LogExpenseAdded(ctx, stored.ID, stored.Date.String(), stored.Category, stored.Amount.String())
	fmt.Fprintf(a.out, "Added expense #%d: %s %s %s\n", stored.ID, stored.Date, stored.Category, money(stored.Amount))
	return nil
}

func (a *app) delete(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.errOut, "delete: at least one id is required")
		return errUsage
	}
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			fmt.Fprintf(a.errOut, "delete: invalid id %q\n", arg)
			return errUsage
		}
		ids = append(ids, id)
	}

	removed, err := a.store.Delete(ctx, ids)
	if err != nil {
		return err
	}

	a.events.LogExpensesDeleted(ctx, applog.OpDelete, removed)
	fmt.Fprintf(a.out, "Deleted %d expense(s).\n", removed)
	return nil
}

func (a *app) clear(ctx context.Context) error {
	if err := a.store.DeleteAll(ctx); err != nil {
		return err
	}
	a.events.LogExpensesDeleted(ctx, applog.OpDeleteAll, 0)
	fmt.Fprintln(a.out, "All expenses cleared.")
	return nil
}

func (a *app) list(ctx context.Context) error {
	all, err := a.store.ListAll(ctx)
	if err != nil {
		return err
	}
	if err := a.printExpenses(all); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Total: %s\n", money(core.Total(all)))
	return nil
}

// dateRange parses -from and -to. Both are required.
func (a *app) dateRange(name string, args []string) (core.Date, core.Date, error) {
	fs := a.flags(name)
	from := fs.String("from", "", "start date, inclusive (YYYY-MM-DD)")
	to := fs.String("to", "", "end date, inclusive (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return core.Date{}, core.Date{}, errUsage
	}
	return parseRange(*from, *to)
}

func parseRange(from, to string) (core.Date, core.Date, error) {
	start, err := core.ParseDate(from)
	if err != nil {
		return core.Date{}, core.Date{}, &core.ValidationError{Field: "from", Err: err}
	}
	end, err := core.ParseDate(to)
	if err != nil {
		return core.Date{}, core.Date{}, &core.ValidationError{Field: "to", Err: err}
	}
	return start, end, nil
}

func (a *app) between(ctx context.Context, args []string) error {
	start, end, err := a.dateRange("between", args)
	if err != nil {
		return err
	}

	rows, err := a.store.ListBetween(ctx, start, end)
	if err != nil {
		return err
	}
	if err := a.printExpenses(rows); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Total from %s to %s: %s\n", start, end, money(core.Total(rows)))
	return nil
}

func (a *app) monthly(ctx context.Context) error {
	totals, err := a.reporter.MonthlyTotals(ctx)
	if err != nil {
		return err
	}
	return a.printMonthly(totals)
}

func (a *app) categories(ctx context.Context) error {
	totals, err := a.reporter.CategoryTotals(ctx)
	if err != nil {
		return err
	}
	return a.printCategories(totals)
}

func (a *app) recommend(ctx context.Context) error {
	recs, err := a.reporter.Recommendations(ctx)
	if err != nil {
		return err
	}
	for _, r := range recs {
		fmt.Fprintln(a.out, r)
	}
	return nil
}

func (a *app) summary(ctx context.Context) error {
	s, err := a.reporter.Summary(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Expenses: %d\nTotal: %s\n\n", s.Count, money(s.Total))
	if err := a.printMonthly(s.Monthly); err != nil {
		return err
	}
	fmt.Fprintln(a.out)
	if err := a.printCategories(s.Categories); err != nil {
		return err
	}
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "Recommendations:")
	for _, r := range s.Recommendations {
		fmt.Fprintf(a.out, "  - %s\n", r)
	}
	return nil
}

func (a *app) export(ctx context.Context, args []string) error {
	fs := a.flags("export")
	path := fs.String("o", "", "destination CSV file")
	from := fs.String("from", "", "optional start date (YYYY-MM-DD)")
	to := fs.String("to", "", "optional end date (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if strings.TrimSpace(*path) == "" {
		fmt.Fprintln(a.errOut, "export: -o FILE is required")
		return errUsage
	}

	var n int
	if *from == "" && *to == "" {
		count, err := a.reporter.ExportAll(ctx, *path)
		if err != nil {
			return err
		}
		n = count
	} else {
		start, end, err := parseRange(*from, *to)
		if err != nil {
			return err
		}
		rows, err := a.store.ListBetween(ctx, start, end)
		if err != nil {
			return err
		}
		if err := report.ExportCSV(rows, *path); err != nil {
			return err
		}
		n = len(rows)
	}

	a.events.LogExport(ctx, *path, n)
	fmt.Fprintf(a.out, "Exported %d expense(s) to %s\n", n, *path)
	return nil
}

func (a *app) printExpenses(rows []core.Expense) error {
	if len(rows) == 0 {
		fmt.Fprintln(a.out, "No expenses.")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDate\tCategory\tAmount")
	for _, e := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", e.ID, e.Date, e.Category, money(e.Amount))
	}
	return tw.Flush()
}

func (a *app) printMonthly(totals []core.MonthTotal) error {
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Month\tTotal")
	for _, m := range totals {
		fmt.Fprintf(tw, "%s\t%s\n", m.Month, money(m.Amount))
	}
	return tw.Flush()
}

func (a *app) printCategories(totals []core.CategoryTotal) error {
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Category\tTotal")
	for _, c := range totals {
		fmt.Fprintf(tw, "%s\t%s\n", c.Category, money(c.Amount))
	}
	return tw.Flush()
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
