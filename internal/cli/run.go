package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/eshaffer321/payopt/internal/adapters/input"
	"github.com/eshaffer321/payopt/internal/application/optimizer"
	"github.com/eshaffer321/payopt/internal/infrastructure/config"
	"github.com/eshaffer321/payopt/internal/infrastructure/logging"
	"github.com/eshaffer321/payopt/internal/infrastructure/storage"
)

// RunAllocate loads both input files, allocates the batch and prints the
// used amounts to stdout. Input errors are returned before any order is
// processed.
func RunAllocate(ctx context.Context, cfg *config.Config, flags *Flags, stdout, stderr io.Writer) error {
	loggingCfg := cfg.Observability.Logging
	if flags.Verbose {
		loggingCfg.Level = "debug"
	}
	logger := logging.NewLoggerTo(stderr, loggingCfg).With("system", "payopt")

	orders, err := input.LoadOrders(flags.OrdersPath)
	if err != nil {
		return err
	}
	methods, err := input.LoadMethods(flags.MethodsPath)
	if err != nil {
		return err
	}
	logger.Debug("Loaded input", "orders", len(orders), "methods", len(methods))

	repo, closeRepo, err := openAuditStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	svc := optimizer.NewService(repo, nil, logger)
	result, err := svc.Optimize(ctx, optimizer.Batch{
		Orders:  orders,
		Methods: methods,
		Source:  optimizer.SourceCLI,
	})
	if err != nil {
		return err
	}

	if flags.Verbose {
		PrintRunSummary(stderr, result)
	}
	return PrintUsedAmounts(stdout, result.Used)
}

// openAuditStore opens the configured audit store, or returns a nil
// repository when auditing is disabled.
func openAuditStore(cfg *config.Config, logger *slog.Logger) (storage.Repository, func(), error) {
	if !cfg.Storage.Enabled {
		return nil, func() {}, nil
	}

	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open audit store %s: %w", cfg.Storage.DatabasePath, err)
	}
	logger.Debug("Audit store ready", "path", cfg.Storage.DatabasePath)

	return store, func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close audit store", "error", err)
		}
	}, nil
}
