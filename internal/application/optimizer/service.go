// Package optimizer runs allocation batches and records them.
//
// A Service owns no allocation state between calls: every batch gets a
// registry built from its own methods, so concurrent batches never share
// limits.
package optimizer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/eshaffer321/payopt/internal/domain/allocator"
	"github.com/eshaffer321/payopt/internal/domain/registry"
	"github.com/eshaffer321/payopt/internal/infrastructure/metrics"
	"github.com/eshaffer321/payopt/internal/infrastructure/storage"
)

// Service allocates batches of orders
type Service struct {
	repo    storage.Repository // optional
	metrics *metrics.Metrics   // optional
	logger  *slog.Logger
}

// NewService creates a service. repo and m may be nil.
func NewService(repo storage.Repository, m *metrics.Metrics, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:    repo,
		metrics: m,
		logger:  logger,
	}
}

// Optimize allocates every order of batch in input order
func (s *Service) Optimize(ctx context.Context, batch Batch) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	started := time.Now()
	runID := uuid.New()
	logger := s.logger.With("run_id", runID.String())

	if batch.Source == "" {
		batch.Source = SourceCLI
	}

	logger.Info("Starting allocation run",
		"source", batch.Source,
		"orders", len(batch.Orders),
		"methods", len(batch.Methods),
	)

	s.startRun(logger, runID, batch, started)

	reg := registry.New(batch.Methods)
	used := allocator.NewUsedAmounts()
	outcomes := make([]allocator.Outcome, 0, len(batch.Orders))

	for i, order := range batch.Orders {
		if err := ctx.Err(); err != nil {
			s.failRun(logger, runID, err)
			s.metrics.ObserveRun(batch.Source, storage.RunStatusFailed, i, time.Since(started))
			return nil, fmt.Errorf("allocation cancelled after %d of %d orders: %w", i, len(batch.Orders), err)
		}

		outcome := allocator.Step(order, reg, used)
		outcomes = append(outcomes, outcome)
		s.observe(logger, outcome)
	}

	result := &Result{
		RunID:     runID,
		Used:      used.Entries(),
		Outcomes:  outcomes,
		Remaining: reg.Snapshot(),
	}

	result.Problems = reconcile(logger, batch.Methods, result)

	s.recordRun(logger, result, used)
	s.metrics.ObserveRun(batch.Source, storage.RunStatusCompleted, len(batch.Orders), time.Since(started))

	summary := result.Summary()
	logger.Info("Allocation run complete",
		"allocated", summary.Allocated,
		"unallocated", summary.Unallocated,
		"partial_unpaid", summary.PartialUnpaid,
		"total_charged", used.Total().StringFixed(2),
		"duration", time.Since(started),
	)

	return result, nil
}

func (s *Service) observe(logger *slog.Logger, outcome allocator.Outcome) {
	order := outcome.Order
	decision := outcome.Decision

	s.metrics.ObserveOrder(string(decision.Rule))
	for _, c := range outcome.Charges {
		s.metrics.ObserveCharge(c.MethodID, c.Amount)
	}
	s.metrics.ObserveUnpaid(outcome.Unpaid)

	if !decision.Found() {
		logger.Warn("No payment method can cover order",
			"order_id", order.ID,
			"value", order.Value.StringFixed(2),
		)
		return
	}

	logger.Debug("Allocated order",
		"order_id", order.ID,
		"choice", string(decision.Choice),
		"rule", string(decision.Rule),
		"discount", decision.Discount,
		"charged", outcome.Charged().StringFixed(2),
	)

	if outcome.Unpaid.IsPositive() {
		logger.Warn("Order remainder left unpaid",
			"order_id", order.ID,
			"unpaid", outcome.Unpaid.StringFixed(2),
		)
	}
}
