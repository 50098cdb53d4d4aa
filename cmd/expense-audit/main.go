// Command expense-audit consumes expense change events from AMQP and writes
// them to the structured log.
package main

import (
	"context"
	"errors"
	"os"

	"expensetracker/internal/amqp"
	"expensetracker/internal/cli"
	applog "expensetracker/internal/log"
)

func main() {
	// Load .env file for local development
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentConfig).Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	logger := cli.SetupLogger(cfg, applog.ComponentAudit)

	if !cfg.AMQPEnabled() {
		logger.Error("AMQP_URL is required for the audit consumer")
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	logger.Info("Starting expense-audit",
		applog.FieldOperation, applog.OpStartup,
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue)

	err = client.ConsumeExpenseEvents(ctx, auditHandler(logger))
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Event consumption failed", applog.FieldError, err)
		client.Close()
		os.Exit(1)
	}
	logger.Info("Audit consumer stopped", applog.FieldOperation, applog.OpShutdown)
}

// auditHandler logs one line per event with the fields its type carries.
func auditHandler(logger *applog.Logger) amqp.EventHandler {
	return func(ctx context.Context, ev *amqp.ExpenseEvent) error {
		fields := applog.NewFields().WithOperation(applog.OpConsume)
		switch ev.Type {
		case amqp.EventExpenseAdded:
			fields.WithExpense(ev.ID, ev.Date, ev.Category, ev.Amount)
		case amqp.EventExpensesDeleted:
			fields.WithCount(ev.Removed)
			fields["requested_ids"] = ev.Requested
		}
		fields["event"] = string(ev.Type)
		fields["published_at"] = ev.Timestamp

		logger.InfoContext(ctx, "Expense event", fields.ToSlice()...)
		return nil
	}
}
