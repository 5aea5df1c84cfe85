package storage

import (
	"time"

	"github.com/shopspring/decimal"
)

// Run statuses
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Run represents a processed batch
type Run struct {
	ID           string     `json:"id"`
	Source       string     `json:"source"` // "cli" or "api"
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	OrderCount   int        `json:"order_count"`
	MethodCount  int        `json:"method_count"`
	Status       string     `json:"status"`
	ErrorMessage string     `json:"error_message,omitempty"`

	RunSummary
}

// RunSummary holds the totals written when a run completes
type RunSummary struct {
	Allocated     int             `json:"allocated"`
	Unallocated   int             `json:"unallocated"`
	PartialUnpaid int             `json:"partial_unpaid"` // orders with an unpaid remainder
	TotalCharge   decimal.Decimal `json:"total_charged"`
	TotalUnpaid   decimal.Decimal `json:"total_unpaid"`
}

// Allocation is the audit record of one order's decision and charges
type Allocation struct {
	Sequence   int             `json:"sequence"` // position in the batch, from 0
	OrderID    string          `json:"order_id"`
	OrderValue decimal.Decimal `json:"order_value"`
	Choice     string          `json:"choice,omitempty"`
	Rule       string          `json:"rule"`
	Discount   int             `json:"discount"`
	Charges    []Charge        `json:"charges"`
	Unpaid     decimal.Decimal `json:"unpaid"`
}

// Charge is one method debit within an allocation
type Charge struct {
	MethodID string          `json:"method_id"`
	Amount   decimal.Decimal `json:"amount"`
}

// UsedAmount is a per-method total for a run
type UsedAmount struct {
	MethodID string          `json:"method_id"`
	Amount   decimal.Decimal `json:"amount"`
}
