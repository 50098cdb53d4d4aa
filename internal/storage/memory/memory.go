package memory

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"expensetracker/internal/core"
	"expensetracker/internal/records"

	"github.com/shopspring/decimal"
)

var _ records.Store = (*Store)(nil)

// Store keeps expenses in process memory. It follows the same ID rules as the
// SQLite repository, so it can stand in for it in tests and throwaway sessions.
type Store struct {
	mu       sync.Mutex
	items    []core.Expense
	lastID   int64
	revision atomic.Uint64
}

func New() *Store {
	return &Store{}
}

// NewWithExpenses seeds the store by adding each expense in order.
func NewWithExpenses(expenses ...core.Expense) (*Store, error) {
	s := New()
	for _, e := range expenses {
		if _, err := s.Add(context.Background(), e); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add stores the expense under the next ID.
func (s *Store) Add(_ context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastID++
	e.ID = s.lastID
	s.items = append(s.items, e)
	s.revision.Add(1)
	return e, nil
}

func (s *Store) Delete(_ context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	drop := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.items[:0]
	var removed int64
	for _, e := range s.items {
		if _, ok := drop[e.ID]; ok {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	s.items = kept
	if len(s.items) == 0 {
		s.items = nil
		s.lastID = 0
	}
	if removed > 0 {
		s.revision.Add(1)
	}
	return removed, nil
}

func (s *Store) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.lastID = 0
	s.revision.Add(1)
	return nil
}

func (s *Store) ListAll(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Expense(nil), s.items...), nil
}

func (s *Store) ListBetween(_ context.Context, start, end core.Date) ([]core.Expense, error) {
	from, to := start.String(), end.String()
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Expense
	for _, e := range s.items {
		d := e.Date.String()
		if from <= d && d <= to {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) MonthlyTotals(_ context.Context) ([]core.MonthTotal, error) {
	s.mu.Lock()
	sums := map[string]decimal.Decimal{}
	for _, e := range s.items {
		k := e.Date.MonthKey()
		sums[k] = sums[k].Add(e.Amount)
	}
	s.mu.Unlock()

	out := make([]core.MonthTotal, 0, len(sums))
	for _, k := range sortedKeys(sums) {
		out = append(out, core.MonthTotal{Month: k, Amount: sums[k]})
	}
	return out, nil
}

func (s *Store) CategoryTotals(_ context.Context) ([]core.CategoryTotal, error) {
	s.mu.Lock()
	sums := map[string]decimal.Decimal{}
	for _, e := range s.items {
		sums[e.Category] = sums[e.Category].Add(e.Amount)
	}
	s.mu.Unlock()

	out := make([]core.CategoryTotal, 0, len(sums))
	for _, k := range sortedKeys(sums) {
		out = append(out, core.CategoryTotal{Category: k, Amount: sums[k]})
	}
	return out, nil
}

func (s *Store) Revision() uint64 {
	return s.revision.Load()
}

func sortedKeys(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
