package log

import (
	"context"
	"log/slog"
)

// ContextKey type for context keys
type ContextKey string

const (
	// LoggerContextKey is the context key for the logger
	LoggerContextKey ContextKey = "logger"
)

// IntoContext returns a child context carrying logger.
func IntoContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, LoggerContextKey, logger)
}

// FromContext extracts a logger from the context, falling back to the
// process default.
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
		return logger
	}
	return &Logger{
		Logger:    slog.Default(),
		component: "unknown",
	}
}

// StructuredLogger provides structured logging methods with context awareness
type StructuredLogger struct {
	logger *Logger
}

// NewStructuredLogger creates a new structured logger
func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{
		logger: logger,
	}
}

// LogExpenseAdded logs a stored expense
func (sl *StructuredLogger) LogExpenseAdded(ctx context.Context, id int64, date, category, amount string) {
	fields := NewFields().
		WithExpense(id, date, category, amount).
		WithOperation(OpAdd)

	sl.logger.InfoContext(ctx, "Expense added", fields.ToSlice()...)
}

// LogExpensesDeleted logs how many rows a delete removed
func (sl *StructuredLogger) LogExpensesDeleted(ctx context.Context, op string, removed int64) {
	fields := NewFields().
		WithCount(removed).
		WithOperation(op)

	sl.logger.InfoContext(ctx, "Expenses deleted", fields.ToSlice()...)
}

// LogExport logs a finished CSV export
func (sl *StructuredLogger) LogExport(ctx context.Context, path string, rows int) {
	fields := NewFields().
		WithPath(path).
		WithCount(int64(rows)).
		WithOperation(OpExport)

	sl.logger.WithComponent(ComponentExport).InfoContext(ctx, "Expenses exported", fields.ToSlice()...)
}

// LogError logs an error with structured context
func (sl *StructuredLogger) LogError(ctx context.Context, msg string, err error, operation string, fields LogFields) {
	if fields == nil {
		fields = NewFields()
	}
	allFields := fields.
		WithError(err).
		WithOperation(operation)

	sl.logger.ErrorContext(ctx, msg, allFields.ToSlice()...)
}
