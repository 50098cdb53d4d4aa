package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"expensetracker/internal/core"
)

// EventType names a change made to the expense store.
type EventType string

const (
	EventExpenseAdded    EventType = "expense.added"
	EventExpensesDeleted EventType = "expenses.deleted"
	EventExpensesCleared EventType = "expenses.cleared"
)

// ExpenseEvent describes one committed mutation. Only the fields relevant to
// Type are set.
type ExpenseEvent struct {
	Type      EventType `json:"type"`
	ID        int64     `json:"id,omitempty"`
	Date      string    `json:"date,omitempty"`
	Category  string    `json:"category,omitempty"`
	Amount    string    `json:"amount,omitempty"`
	Requested []int64   `json:"requested_ids,omitempty"`
	Removed   int64     `json:"removed,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewExpenseAddedEvent creates an event for a freshly stored expense
func NewExpenseAddedEvent(e core.Expense) *ExpenseEvent {
	return &ExpenseEvent{
		Type:      EventExpenseAdded,
		ID:        e.ID,
		Date:      e.Date.String(),
		Category:  e.Category,
		Amount:    e.Amount.String(),
		Timestamp: time.Now(),
	}
}

// NewExpensesDeletedEvent carries the ids the caller asked to delete and how
// many rows went away. Requested may name ids that did not exist.
func NewExpensesDeletedEvent(requested []int64, removed int64) *ExpenseEvent {
	return &ExpenseEvent{
		Type:      EventExpensesDeleted,
		Requested: append([]int64(nil), requested...),
		Removed:   removed,
		Timestamp: time.Now(),
	}
}

func NewExpensesClearedEvent() *ExpenseEvent {
	return &ExpenseEvent{
		Type:      EventExpensesCleared,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes
func (m *ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseEventFromJSON decodes an event and rejects unknown types
func ExpenseEventFromJSON(data []byte) (*ExpenseEvent, error) {
	var msg ExpenseEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	switch msg.Type {
	case EventExpenseAdded, EventExpensesDeleted, EventExpensesCleared:
		return &msg, nil
	default:
		return nil, fmt.Errorf("unknown event type %q", msg.Type)
	}
}
