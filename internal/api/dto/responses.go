package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// UsedAmountResponse is the total charged to one method.
type UsedAmountResponse struct {
	MethodID string `json:"method_id"`
	Amount   string `json:"amount"`
}

// ChargeResponse is one method debit for an order.
type ChargeResponse struct {
	MethodID string `json:"method_id"`
	Amount   string `json:"amount"`
}

// OutcomeResponse describes how one order was paid.
type OutcomeResponse struct {
	OrderID  string           `json:"order_id"`
	Value    string           `json:"value"`
	Choice   string           `json:"choice,omitempty"`
	Rule     string           `json:"rule"`
	Discount int              `json:"discount"`
	Charges  []ChargeResponse `json:"charges"`
	Unpaid   string           `json:"unpaid"`
}

// MethodResponse is a payment method's remaining limit.
type MethodResponse struct {
	ID       string `json:"id"`
	Discount int    `json:"discount"`
	Limit    string `json:"limit"`
}

// SummaryResponse counts orders by outcome.
type SummaryResponse struct {
	Allocated     int `json:"allocated"`
	Unallocated   int `json:"unallocated"`
	PartialUnpaid int `json:"partial_unpaid"`
}

// AllocationResponse is returned by POST /api/allocations.
type AllocationResponse struct {
	RunID     string               `json:"run_id"`
	Used      []UsedAmountResponse `json:"used"`
	Outcomes  []OutcomeResponse    `json:"outcomes"`
	Remaining []MethodResponse     `json:"remaining"`
	Summary   SummaryResponse      `json:"summary"`
}

// RunResponse represents an audited run in API responses.
type RunResponse struct {
	ID            string `json:"id"`
	Source        string `json:"source"`
	StartedAt     string `json:"started_at"`
	CompletedAt   string `json:"completed_at,omitempty"`
	OrderCount    int    `json:"order_count"`
	MethodCount   int    `json:"method_count"`
	Status        string `json:"status"`
	ErrorMessage  string `json:"error_message,omitempty"`
	Allocated     int    `json:"allocated"`
	Unallocated   int    `json:"unallocated"`
	PartialUnpaid int    `json:"partial_unpaid"`
	TotalCharged  string `json:"total_charged"`
	TotalUnpaid   string `json:"total_unpaid"`
}

// RunListResponse is returned when listing runs.
type RunListResponse struct {
	Runs  []RunResponse `json:"runs"`
	Count int           `json:"count"`
}

// RunAllocationsResponse is returned by GET /api/runs/:id/allocations.
type RunAllocationsResponse struct {
	RunID       string               `json:"run_id"`
	Allocations []OutcomeResponse    `json:"allocations"`
	Used        []UsedAmountResponse `json:"used"`
}

// NewHealthResponse creates a health response with current timestamp.
func NewHealthResponse() HealthResponse {
	return HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Money formats an amount with exactly two decimals.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Timestamp formats t as RFC 3339, or "" for nil.
func Timestamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
