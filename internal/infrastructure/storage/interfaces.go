package storage

// Repository defines the complete storage interface.
// This interface allows swapping implementations (SQLite, in-memory mock)
// and makes testing with mocks straightforward.
type Repository interface {
	RunRepository
	AllocationRepository
	Close() error
}

// RunRepository handles batch run tracking
type RunRepository interface {
	// StartRun records the start of a batch run
	StartRun(run *Run) error

	// CompleteRun records the totals of a finished run
	CompleteRun(runID string, summary RunSummary) error

	// FailRun marks a run as failed with the given message
	FailRun(runID string, message string) error

	// ListRuns returns the most recent runs, newest first
	ListRuns(limit int) ([]Run, error)

	// GetRun retrieves a run by ID, or nil if it does not exist
	GetRun(runID string) (*Run, error)
}

// AllocationRepository handles per-order allocation records
type AllocationRepository interface {
	// SaveAllocations stores the allocations of a run in one transaction
	SaveAllocations(runID string, allocations []Allocation) error

	// GetAllocations returns a run's allocations in processing order
	GetAllocations(runID string) ([]Allocation, error)

	// GetUsedAmounts returns the per-method totals of a run in first-charged order
	GetUsedAmounts(runID string) ([]UsedAmount, error)
}
