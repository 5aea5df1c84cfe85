package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// Storage provides SQLite database access for runs and allocations.
// It implements the Repository interface.
type Storage struct {
	db *sql.DB
}

// Compile-time check that Storage implements Repository
var _ Repository = (*Storage)(nil)

// NewStorage opens the SQLite database at dbPath and runs migrations.
// Use ":memory:" for a store that lives only as long as the process.
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// One connection: every ":memory:" connection is a separate database,
	// and SQLite serialises writers anyway.
	db.SetMaxOpenConns(1)

	// Enable foreign key constraints (SQLite-specific)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Storage{db: db}, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// StartRun inserts a run in the running state
func (s *Storage) StartRun(run *Run) error {
	if run.Status == "" {
		run.Status = RunStatusRunning
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(`
		INSERT INTO runs (id, source, started_at, order_count, method_count, status)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, run.Source, run.StartedAt, run.OrderCount, run.MethodCount, run.Status)
	if err != nil {
		return fmt.Errorf("failed to start run %s: %w", run.ID, err)
	}
	return nil
}

// CompleteRun stores the run totals and marks it completed
func (s *Storage) CompleteRun(runID string, summary RunSummary) error {
	res, err := s.db.Exec(`
		UPDATE runs
		SET status = ?, completed_at = ?, allocated = ?, unallocated = ?,
		    partial_unpaid = ?, total_charged = ?, total_unpaid = ?
		WHERE id = ?
	`, RunStatusCompleted, time.Now().UTC(), summary.Allocated, summary.Unallocated,
		summary.PartialUnpaid, summary.TotalCharge.String(), summary.TotalUnpaid.String(), runID)
	if err != nil {
		return fmt.Errorf("failed to complete run %s: %w", runID, err)
	}
	return expectOneRow(res, runID)
}

// FailRun marks a run as failed
func (s *Storage) FailRun(runID string, message string) error {
	res, err := s.db.Exec(`
		UPDATE runs SET status = ?, completed_at = ?, error_message = ? WHERE id = ?
	`, RunStatusFailed, time.Now().UTC(), message, runID)
	if err != nil {
		return fmt.Errorf("failed to mark run %s failed: %w", runID, err)
	}
	return expectOneRow(res, runID)
}

// ListRuns returns recent runs, newest first
func (s *Storage) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(`
		SELECT id, source, started_at, completed_at, order_count, method_count, status,
		       error_message, allocated, unallocated, partial_unpaid, total_charged, total_unpaid
		FROM runs
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	runs := make([]Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// GetRun retrieves a run by ID
func (s *Storage) GetRun(runID string) (*Run, error) {
	row := s.db.QueryRow(`
		SELECT id, source, started_at, completed_at, order_count, method_count, status,
		       error_message, allocated, unallocated, partial_unpaid, total_charged, total_unpaid
		FROM runs
		WHERE id = ?
	`, runID)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return run, err
}

// SaveAllocations stores all allocations of a run in one transaction
func (s *Storage) SaveAllocations(runID string, allocations []Allocation) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	allocStmt, err := tx.Prepare(`
		INSERT INTO allocations (run_id, sequence, order_id, order_value, choice, rule, discount, unpaid)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare allocation insert: %w", err)
	}
	defer func() { _ = allocStmt.Close() }()

	chargeStmt, err := tx.Prepare(`
		INSERT INTO allocation_charges (allocation_id, position, method_id, amount)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare charge insert: %w", err)
	}
	defer func() { _ = chargeStmt.Close() }()

	for _, a := range allocations {
		res, err := allocStmt.Exec(runID, a.Sequence, a.OrderID, a.OrderValue.String(),
			a.Choice, a.Rule, a.Discount, a.Unpaid.String())
		if err != nil {
			return fmt.Errorf("failed to save allocation for order %s: %w", a.OrderID, err)
		}
		allocationID, err := res.LastInsertId()
		if err != nil {
			return err
		}
		for i, c := range a.Charges {
			if _, err := chargeStmt.Exec(allocationID, i, c.MethodID, c.Amount.String()); err != nil {
				return fmt.Errorf("failed to save charge for order %s: %w", a.OrderID, err)
			}
		}
	}

	return tx.Commit()
}

// GetAllocations returns a run's allocations in processing order
func (s *Storage) GetAllocations(runID string) ([]Allocation, error) {
	rows, err := s.db.Query(`
		SELECT a.id, a.sequence, a.order_id, a.order_value, a.choice, a.rule, a.discount, a.unpaid,
		       c.method_id, c.amount
		FROM allocations a
		LEFT JOIN allocation_charges c ON c.allocation_id = a.id
		WHERE a.run_id = ?
		ORDER BY a.sequence, c.position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get allocations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	allocations := make([]Allocation, 0)
	var lastID int64 = -1
	for rows.Next() {
		var (
			id         int64
			a          Allocation
			orderValue string
			unpaid     string
			methodID   sql.NullString
			amount     sql.NullString
		)
		if err := rows.Scan(&id, &a.Sequence, &a.OrderID, &orderValue, &a.Choice, &a.Rule,
			&a.Discount, &unpaid, &methodID, &amount); err != nil {
			return nil, err
		}

		if id != lastID {
			if a.OrderValue, err = decimal.NewFromString(orderValue); err != nil {
				return nil, fmt.Errorf("corrupt order value for %s: %w", a.OrderID, err)
			}
			if a.Unpaid, err = decimal.NewFromString(unpaid); err != nil {
				return nil, fmt.Errorf("corrupt unpaid amount for %s: %w", a.OrderID, err)
			}
			a.Charges = make([]Charge, 0)
			allocations = append(allocations, a)
			lastID = id
		}

		if methodID.Valid {
			amt, err := decimal.NewFromString(amount.String)
			if err != nil {
				return nil, fmt.Errorf("corrupt charge amount for %s: %w", a.OrderID, err)
			}
			last := &allocations[len(allocations)-1]
			last.Charges = append(last.Charges, Charge{MethodID: methodID.String, Amount: amt})
		}
	}
	return allocations, rows.Err()
}

// GetUsedAmounts sums a run's charges per method in first-charged order.
// Sums are computed in Go to keep exact decimal arithmetic.
func (s *Storage) GetUsedAmounts(runID string) ([]UsedAmount, error) {
	allocations, err := s.GetAllocations(runID)
	if err != nil {
		return nil, err
	}
	return sumCharges(allocations), nil
}

func sumCharges(allocations []Allocation) []UsedAmount {
	index := make(map[string]int)
	used := make([]UsedAmount, 0)
	for _, a := range allocations {
		for _, c := range a.Charges {
			i, ok := index[c.MethodID]
			if !ok {
				i = len(used)
				index[c.MethodID] = i
				used = append(used, UsedAmount{MethodID: c.MethodID, Amount: decimal.Zero})
			}
			used[i].Amount = used[i].Amount.Add(c.Amount)
		}
	}
	return used
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		run          Run
		completedAt  sql.NullTime
		totalCharged string
		totalUnpaid  string
	)
	err := row.Scan(&run.ID, &run.Source, &run.StartedAt, &completedAt, &run.OrderCount,
		&run.MethodCount, &run.Status, &run.ErrorMessage, &run.Allocated, &run.Unallocated,
		&run.PartialUnpaid, &totalCharged, &totalUnpaid)
	if err != nil {
		return nil, err
	}

	if completedAt.Valid {
		t := completedAt.Time
		run.CompletedAt = &t
	}
	if run.TotalCharge, err = decimal.NewFromString(totalCharged); err != nil {
		return nil, fmt.Errorf("corrupt total for run %s: %w", run.ID, err)
	}
	if run.TotalUnpaid, err = decimal.NewFromString(totalUnpaid); err != nil {
		return nil, fmt.Errorf("corrupt unpaid total for run %s: %w", run.ID, err)
	}
	return &run, nil
}

func expectOneRow(res sql.Result, runID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("run %s not found", runID)
	}
	return nil
}
