package allocator

import (
	"github.com/shopspring/decimal"
)

// UsedAmount is the cumulative amount charged to one method.
type UsedAmount struct {
	MethodID string
	Amount   decimal.Decimal
}

// UsedAmounts accumulates the amount charged per method across a batch.
// Entries are reported in the order each method was first charged.
type UsedAmounts struct {
	totals map[string]decimal.Decimal
	order  []string
}

// NewUsedAmounts returns an empty accumulator.
func NewUsedAmounts() *UsedAmounts {
	return &UsedAmounts{totals: make(map[string]decimal.Decimal)}
}

// Add adds amount to the running total for methodID.
func (u *UsedAmounts) Add(methodID string, amount decimal.Decimal) {
	current, ok := u.totals[methodID]
	if !ok {
		u.order = append(u.order, methodID)
	}
	u.totals[methodID] = current.Add(amount)
}

// Get returns the total for methodID and whether it was ever charged.
func (u *UsedAmounts) Get(methodID string) (decimal.Decimal, bool) {
	amount, ok := u.totals[methodID]
	return amount, ok
}

// Len returns the number of methods charged so far.
func (u *UsedAmounts) Len() int {
	return len(u.order)
}

// Entries returns all totals in first-charged order.
func (u *UsedAmounts) Entries() []UsedAmount {
	out := make([]UsedAmount, 0, len(u.order))
	for _, id := range u.order {
		out = append(out, UsedAmount{MethodID: id, Amount: u.totals[id]})
	}
	return out
}

// Total returns the sum over all methods.
func (u *UsedAmounts) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, id := range u.order {
		sum = sum.Add(u.totals[id])
	}
	return sum
}
