package allocator

import (
	"github.com/shopspring/decimal"

	"github.com/eshaffer321/payopt/internal/domain/payment"
	"github.com/eshaffer321/payopt/internal/domain/registry"
)

// Outcome records what happened to a single order during a batch.
type Outcome struct {
	Order    payment.Order
	Decision payment.Decision
	Charges  []payment.Charge

	// Unpaid is the part of the payable amount that no method was charged
	// for. It is zero for fully allocated orders and for orders without a
	// decision.
	Unpaid decimal.Decimal
}

// Allocated reports whether anything was charged for the order.
func (o Outcome) Allocated() bool {
	return len(o.Charges) > 0
}

// Charged returns the sum of all charges for the order.
func (o Outcome) Charged() decimal.Decimal {
	sum := decimal.Zero
	for _, c := range o.Charges {
		sum = sum.Add(c.Amount)
	}
	return sum
}

// Payable returns what the order should cost under decision: the discounted
// value for a single method, or the undiscounted points share plus the
// discounted remainder for a partial points payment.
func Payable(order payment.Order, decision payment.Decision) decimal.Decimal {
	switch decision.Choice {
	case payment.NoChoice:
		return decimal.Zero
	case payment.PointsPartial:
		tenPercent := payment.TenPercent(order.Value)
		rest := payment.Discount(order.Value.Sub(tenPercent), payment.PartialPointsDiscount)
		return tenPercent.Add(rest)
	default:
		return payment.Discount(order.Value, decision.Discount)
	}
}

// Run processes orders one at a time in input order, deciding and applying
// each against reg. It returns the accumulated totals and one Outcome per
// order.
func Run(orders []payment.Order, reg *registry.Registry) (*UsedAmounts, []Outcome) {
	used := NewUsedAmounts()
	outcomes := make([]Outcome, 0, len(orders))

	for _, order := range orders {
		outcomes = append(outcomes, Step(order, reg, used))
	}

	return used, outcomes
}

// Step decides and applies a single order.
func Step(order payment.Order, reg *registry.Registry, used *UsedAmounts) Outcome {
	decision := Decide(order, reg)
	charges := Apply(order, decision, reg, used)

	outcome := Outcome{
		Order:    order,
		Decision: decision,
		Charges:  charges,
		Unpaid:   decimal.Zero,
	}
	if decision.Found() {
		outcome.Unpaid = Payable(order, decision).Sub(outcome.Charged())
	}
	return outcome
}
