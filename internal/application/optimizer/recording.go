package optimizer

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/eshaffer321/payopt/internal/domain/allocator"
	"github.com/eshaffer321/payopt/internal/infrastructure/storage"
)

// Audit trail for allocation runs. Storage failures are logged and never
// change the allocation result.

func (s *Service) startRun(logger *slog.Logger, runID uuid.UUID, batch Batch, started time.Time) {
	if s.repo == nil {
		return
	}
	run := &storage.Run{
		ID:          runID.String(),
		Source:      batch.Source,
		StartedAt:   started.UTC(),
		OrderCount:  len(batch.Orders),
		MethodCount: len(batch.Methods),
		Status:      storage.RunStatusRunning,
	}
	if err := s.repo.StartRun(run); err != nil {
		logger.Error("Failed to record run start", "error", err)
	}
}

func (s *Service) failRun(logger *slog.Logger, runID uuid.UUID, cause error) {
	if s.repo == nil {
		return
	}
	if err := s.repo.FailRun(runID.String(), cause.Error()); err != nil {
		logger.Error("Failed to record run failure", "error", err)
	}
}

func (s *Service) recordRun(logger *slog.Logger, result *Result, used *allocator.UsedAmounts) {
	if s.repo == nil {
		return
	}
	runID := result.RunID.String()

	if err := s.repo.SaveAllocations(runID, toAllocations(result.Outcomes)); err != nil {
		logger.Error("Failed to save allocations", "error", err)
		s.failRun(logger, result.RunID, err)
		return
	}

	counts := result.Summary()
	summary := storage.RunSummary{
		Allocated:     counts.Allocated,
		Unallocated:   counts.Unallocated,
		PartialUnpaid: counts.PartialUnpaid,
		TotalCharge:   used.Total(),
		TotalUnpaid:   totalUnpaid(result.Outcomes),
	}
	if err := s.repo.CompleteRun(runID, summary); err != nil {
		logger.Error("Failed to record run completion", "error", err)
	}
}

func toAllocations(outcomes []allocator.Outcome) []storage.Allocation {
	allocations := make([]storage.Allocation, 0, len(outcomes))
	for i, o := range outcomes {
		charges := make([]storage.Charge, 0, len(o.Charges))
		for _, c := range o.Charges {
			charges = append(charges, storage.Charge{MethodID: c.MethodID, Amount: c.Amount})
		}
		allocations = append(allocations, storage.Allocation{
			Sequence:   i,
			OrderID:    o.Order.ID,
			OrderValue: o.Order.Value,
			Choice:     string(o.Decision.Choice),
			Rule:       string(o.Decision.Rule),
			Discount:   o.Decision.Discount,
			Charges:    charges,
			Unpaid:     o.Unpaid,
		})
	}
	return allocations
}

func totalUnpaid(outcomes []allocator.Outcome) decimal.Decimal {
	sum := decimal.Zero
	for _, o := range outcomes {
		sum = sum.Add(o.Unpaid)
	}
	return sum
}
