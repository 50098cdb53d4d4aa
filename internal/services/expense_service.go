package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"expensetracker/internal/amqp"
	"expensetracker/internal/core"
	applog "expensetracker/internal/log"
	"expensetracker/internal/records"
)

var _ records.Store = (*ExpenseService)(nil)

// EventPublisher announces committed mutations. *amqp.Client satisfies it.
type EventPublisher interface {
	PublishExpenseEvent(ctx context.Context, ev *amqp.ExpenseEvent) error
}

// ExpenseService orchestrates expense operations across the store and the
// optional event publisher. Reads go straight to the store.
type ExpenseService struct {
	records.Store
	publisher EventPublisher
}

// NewExpenseService wires a store with an optional publisher (nil disables events).
func NewExpenseService(store records.Store, publisher EventPublisher) *ExpenseService {
	return &ExpenseService{
		Store:     store,
		publisher: publisher,
	}
}

// Add saves an expense and announces it
func (s *ExpenseService) Add(ctx context.Context, e core.Expense) (core.Expense, error) {
	stored, err := s.Store.Add(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}

	// Don't fail the request - the expense is saved locally
	s.publish(ctx, amqp.NewExpenseAddedEvent(stored))
	return stored, nil
}

// Delete removes the given ids and announces how many went away
func (s *ExpenseService) Delete(ctx context.Context, ids []int64) (int64, error) {
	removed, err := s.Store.Delete(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("delete expenses: %w", err)
	}
	if removed > 0 {
		s.publish(ctx, amqp.NewExpensesDeletedEvent(ids, removed))
	}
	return removed, nil
}

func (s *ExpenseService) DeleteAll(ctx context.Context) error {
	if err := s.Store.DeleteAll(ctx); err != nil {
		return fmt.Errorf("delete all expenses: %w", err)
	}
	s.publish(ctx, amqp.NewExpensesClearedEvent())
	return nil
}

func (s *ExpenseService) publish(ctx context.Context, ev *amqp.ExpenseEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishExpenseEvent(ctx, ev); err != nil {
		applog.FromContext(ctx).WithComponent(applog.ComponentAMQP).ErrorContext(ctx, "Failed to publish expense event",
			"type", ev.Type, applog.FieldError, err)
	}
}

// Close closes both storage and AMQP connections when they hold any.
func (s *ExpenseService) Close() error {
	var errs []error

	if c, ok := s.Store.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if c, ok := s.publisher.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("close expense service: %w", err)
	}
	return nil
}
