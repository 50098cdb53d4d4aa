// Command expenses records personal expenses and reports on them.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"expensetracker/internal/cli"
	"expensetracker/internal/core"
	applog "expensetracker/internal/log"
	"expensetracker/internal/report"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// Load .env file for local development
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	logger := cli.SetupLogger(cfg, applog.ComponentCLI)

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()
	ctx = applog.IntoContext(ctx, logger)

	result, err := cli.InitBackend(ctx, logger, cfg)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to initialize backend", applog.FieldError, err)
		return 1
	}
	defer func() {
		if err := result.Close(); err != nil {
			logger.ErrorContext(ctx, "Failed to close backend", applog.FieldError, err)
		}
	}()

	a := &app{
		store: result.Store,
		reporter: report.New(result.Store, report.Options{
			CacheSize: cfg.ReportCacheSize,
			CacheTTL:  cfg.ReportCacheTTL,
		}),
		events: applog.NewStructuredLogger(logger),
		out:    os.Stdout,
		errOut: os.Stderr,
	}
	return exitCode(a.run(ctx, args), a)
}

// exitCode prints err for the user and maps it to a process status:
// 0 success, 2 bad usage or input, 1 anything else.
func exitCode(err error, a *app) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, errUsage) {
		return 2
	}
	fmt.Fprintf(a.errOut, "Error: %v\n", err)

	var exportErr *report.ExportError
	switch {
	case core.IsValidationError(err):
		return 2
	case errors.As(err, &exportErr):
		a.events.LogError(context.Background(), "Export failed", err, applog.OpExport, applog.NewFields().WithPath(exportErr.Path))
		return 1
	default:
		return 1
	}
}
