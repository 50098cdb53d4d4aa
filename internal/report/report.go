// Package report derives presentation-ready views from a records.Store:
// monthly and category totals, spending recommendations and CSV exports.
package report

import (
	"context"
	"fmt"
	"time"

	"expensetracker/internal/cache"
	"expensetracker/internal/core"
	applog "expensetracker/internal/log"
	"expensetracker/internal/records"

	"github.com/shopspring/decimal"
)

const (
	kindMonthly    = "monthly"
	kindCategories = "categories"
)

// Options tune the Reporter. Zero values fall back to the defaults.
type Options struct {
	CacheSize int
	CacheTTL  time.Duration
	Rules     []Rule
}

// DefaultOptions returns sensible defaults for reporting.
func DefaultOptions() Options {
	return Options{
		CacheSize: 16,
		CacheTTL:  5 * time.Minute,
		Rules:     DefaultRules(),
	}
}

// Reporter reads from a store and never writes to it.
type Reporter struct {
	store      records.Store
	rules      []Rule
	monthly    cache.Cache[[]core.MonthTotal]
	categories cache.Cache[[]core.CategoryTotal]
}

// Summary is a one-shot snapshot of everything the presenter shows.
type Summary struct {
	Count           int
	Total           decimal.Decimal
	Monthly         []core.MonthTotal
	Categories      []core.CategoryTotal
	Recommendations []string
}

func New(store records.Store, opts Options) *Reporter {
	def := DefaultOptions()
	if opts.CacheSize <= 0 {
		opts.CacheSize = def.CacheSize
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = def.CacheTTL
	}
	if opts.Rules == nil {
		opts.Rules = def.Rules
	}
	return &Reporter{
		store:      store,
		rules:      opts.Rules,
		monthly:    cache.NewLRUCache[[]core.MonthTotal](opts.CacheSize, opts.CacheTTL),
		categories: cache.NewLRUCache[[]core.CategoryTotal](opts.CacheSize, opts.CacheTTL),
	}
}

// MonthlyTotals returns per-month sums ordered by YYYY-MM ascending.
func (r *Reporter) MonthlyTotals(ctx context.Context) ([]core.MonthTotal, error) {
	key := cache.RevisionKey(kindMonthly, r.store.Revision())
	if v, ok := r.monthly.Get(key); ok {
		return append([]core.MonthTotal(nil), v...), nil
	}
	started := time.Now()
	totals, err := r.store.MonthlyTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("monthly totals: %w", err)
	}
	r.monthly.Set(key, totals)
	logMiss(ctx, kindMonthly, len(totals), started)
	return append([]core.MonthTotal(nil), totals...), nil
}

// CategoryTotals returns per-category sums keyed by the exact category name.
func (r *Reporter) CategoryTotals(ctx context.Context) ([]core.CategoryTotal, error) {
	key := cache.RevisionKey(kindCategories, r.store.Revision())
	if v, ok := r.categories.Get(key); ok {
		return append([]core.CategoryTotal(nil), v...), nil
	}
	started := time.Now()
	totals, err := r.store.CategoryTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("category totals: %w", err)
	}
	r.categories.Set(key, totals)
	logMiss(ctx, kindCategories, len(totals), started)
	return append([]core.CategoryTotal(nil), totals...), nil
}

// CategoryTotalsMap is CategoryTotals as a lookup table.
func (r *Reporter) CategoryTotalsMap(ctx context.Context) (map[string]decimal.Decimal, error) {
	totals, err := r.CategoryTotals(ctx)
	if err != nil {
		return nil, err
	}
	m := make(map[string]decimal.Decimal, len(totals))
	for _, t := range totals {
		m[t.Category] = t.Amount
	}
	return m, nil
}

// Recommendations applies the configured rules to the current category totals.
func (r *Reporter) Recommendations(ctx context.Context) ([]string, error) {
	totals, err := r.CategoryTotals(ctx)
	if err != nil {
		return nil, err
	}
	recs := Recommend(totals, r.rules)
	applog.FromContext(ctx).WithComponent(applog.ComponentReport).DebugContext(ctx, "Recommendations computed",
		applog.NewFields().WithOperation(applog.OpRecommend).WithCount(int64(len(recs))).ToSlice()...)
	return recs, nil
}

// ExportAll writes every stored expense to path as CSV.
func (r *Reporter) ExportAll(ctx context.Context, path string) (int, error) {
	expenses, err := r.store.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("list expenses for export: %w", err)
	}
	if err := ExportCSV(expenses, path); err != nil {
		return 0, err
	}
	return len(expenses), nil
}

// Summary gathers totals, groupings and recommendations in one call.
func (r *Reporter) Summary(ctx context.Context) (Summary, error) {
	all, err := r.store.ListAll(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list expenses: %w", err)
	}
	monthly, err := r.MonthlyTotals(ctx)
	if err != nil {
		return Summary{}, err
	}
	categories, err := r.CategoryTotals(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Count:           len(all),
		Total:           core.Total(all),
		Monthly:         monthly,
		Categories:      categories,
		Recommendations: Recommend(categories, r.rules),
	}, nil
}

// logMiss records an aggregate that had to be recomputed from the store.
func logMiss(ctx context.Context, kind string, rows int, started time.Time) {
	applog.FromContext(ctx).WithComponent(applog.ComponentReport).DebugContext(ctx, "Report cache miss",
		applog.FieldOperation, applog.OpReport,
		"kind", kind,
		applog.FieldCount, rows,
		applog.FieldDuration, time.Since(started).Milliseconds())
}
