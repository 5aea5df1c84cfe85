package optimizer

import (
	"github.com/google/uuid"

	"github.com/eshaffer321/payopt/internal/domain/allocator"
	"github.com/eshaffer321/payopt/internal/domain/payment"
)

// Sources recorded on audited runs
const (
	SourceCLI = "cli"
	SourceAPI = "api"
)

// Batch is one set of orders allocated against one set of payment methods
type Batch struct {
	Orders  []payment.Order
	Methods []payment.Method
	Source  string // SourceCLI or SourceAPI
}

// Result holds the outcome of a batch
type Result struct {
	RunID     uuid.UUID
	Used      []allocator.UsedAmount // first-charged order
	Outcomes  []allocator.Outcome    // input order
	Remaining []payment.Method       // limits after the batch, input order

	// Problems lists reconciliation failures; empty for a consistent run
	Problems []string
}

// Summary counts of a result
type Summary struct {
	Allocated     int
	Unallocated   int
	PartialUnpaid int
}

// Summary tallies allocated, unallocated and partially unpaid orders
func (r *Result) Summary() Summary {
	var s Summary
	for _, o := range r.Outcomes {
		if o.Allocated() {
			s.Allocated++
		} else {
			s.Unallocated++
		}
		if o.Unpaid.IsPositive() {
			s.PartialUnpaid++
		}
	}
	return s
}
