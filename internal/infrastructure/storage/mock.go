package storage

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// MockRepository is an in-memory implementation of Repository for testing.
// It stores all data in maps and slices, making tests fast and isolated.
type MockRepository struct {
	mu          sync.Mutex
	runs        map[string]*Run
	runOrder    []string
	allocations map[string][]Allocation

	// Hooks for test assertions
	StartRunCalled        bool
	CompleteRunCalled     bool
	SaveAllocationsCalled bool

	// Error injection for testing error paths
	StartRunErr        error
	CompleteRunErr     error
	SaveAllocationsErr error
	ListRunsErr        error
	GetRunErr          error
}

// NewMockRepository creates a new mock repository for testing
func NewMockRepository() *MockRepository {
	return &MockRepository{
		runs:        make(map[string]*Run),
		allocations: make(map[string][]Allocation),
	}
}

// Compile-time check that MockRepository implements Repository
var _ Repository = (*MockRepository)(nil)

// Close does nothing for mock
func (m *MockRepository) Close() error {
	return nil
}

// StartRun stores a copy of run
func (m *MockRepository) StartRun(run *Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.StartRunCalled = true
	if m.StartRunErr != nil {
		return m.StartRunErr
	}
	if _, exists := m.runs[run.ID]; exists {
		return fmt.Errorf("run %s already exists", run.ID)
	}
	if run.Status == "" {
		run.Status = RunStatusRunning
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	copied := *run
	m.runs[run.ID] = &copied
	m.runOrder = append(m.runOrder, run.ID)
	return nil
}

// CompleteRun updates the stored run
func (m *MockRepository) CompleteRun(runID string, summary RunSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CompleteRunCalled = true
	if m.CompleteRunErr != nil {
		return m.CompleteRunErr
	}
	run, ok := m.runs[runID]
	if !ok {
		return fmt.Errorf("run %s not found", runID)
	}
	now := time.Now().UTC()
	run.Status = RunStatusCompleted
	run.CompletedAt = &now
	run.RunSummary = summary
	return nil
}

// FailRun marks the stored run failed
func (m *MockRepository) FailRun(runID string, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	run, ok := m.runs[runID]
	if !ok {
		return fmt.Errorf("run %s not found", runID)
	}
	now := time.Now().UTC()
	run.Status = RunStatusFailed
	run.CompletedAt = &now
	run.ErrorMessage = message
	return nil
}

// ListRuns returns runs newest first
func (m *MockRepository) ListRuns(limit int) ([]Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ListRunsErr != nil {
		return nil, m.ListRunsErr
	}
	if limit <= 0 {
		limit = 20
	}

	runs := make([]Run, 0, len(m.runOrder))
	for i := len(m.runOrder) - 1; i >= 0; i-- {
		runs = append(runs, *m.runs[m.runOrder[i]])
	}
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
	if len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// GetRun returns a copy of the run or nil
func (m *MockRepository) GetRun(runID string) (*Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetRunErr != nil {
		return nil, m.GetRunErr
	}
	run, ok := m.runs[runID]
	if !ok {
		return nil, nil
	}
	copied := *run
	return &copied, nil
}

// SaveAllocations appends allocations for a run
func (m *MockRepository) SaveAllocations(runID string, allocations []Allocation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SaveAllocationsCalled = true
	if m.SaveAllocationsErr != nil {
		return m.SaveAllocationsErr
	}
	if _, ok := m.runs[runID]; !ok {
		return fmt.Errorf("run %s not found", runID)
	}
	m.allocations[runID] = append(m.allocations[runID], allocations...)
	return nil
}

// GetAllocations returns the stored allocations
func (m *MockRepository) GetAllocations(runID string) ([]Allocation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Allocation, len(m.allocations[runID]))
	copy(out, m.allocations[runID])
	return out, nil
}

// GetUsedAmounts sums stored charges per method
func (m *MockRepository) GetUsedAmounts(runID string) ([]UsedAmount, error) {
	allocations, err := m.GetAllocations(runID)
	if err != nil {
		return nil, err
	}
	return sumCharges(allocations), nil
}
