package allocator

import (
	"github.com/shopspring/decimal"

	"github.com/eshaffer321/payopt/internal/domain/payment"
	"github.com/eshaffer321/payopt/internal/domain/registry"
)

// Apply charges the methods selected by decision, subtracting from their
// limits in reg and adding to used. It returns the charges made, in order.
//
// Missing methods and an uncovered partial-points remainder are not errors:
// the affected portion is simply not charged.
func Apply(order payment.Order, decision payment.Decision, reg *registry.Registry, used *UsedAmounts) []payment.Charge {
	switch decision.Choice {
	case payment.NoChoice:
		return nil
	case payment.PointsPartial:
		return applyPartialPoints(order, reg, used)
	default:
		paid := payment.Discount(order.Value, decision.Discount)
		c, ok := charge(string(decision.Choice), paid, reg, used)
		if !ok {
			return nil
		}
		return []payment.Charge{c}
	}
}

// applyPartialPoints charges 10% of the order to points at no discount, then
// the rest, discounted by 10%, to the first other method that can cover it.
// When no other method covers the rest it goes unpaid.
func applyPartialPoints(order payment.Order, reg *registry.Registry, used *UsedAmounts) []payment.Charge {
	tenPercent := payment.TenPercent(order.Value)
	pointsCharge, ok := charge(payment.PointsID, tenPercent, reg, used)
	if !ok {
		return nil
	}
	charges := []payment.Charge{pointsCharge}

	rest := order.Value.Sub(tenPercent)
	restDiscounted := payment.Discount(rest, payment.PartialPointsDiscount)

	// TODO: surface an unpaid remainder as an error once callers can handle a
	// partially allocated order.
	pm, found := reg.FirstCovering(restDiscounted, payment.PointsID)
	if !found {
		return charges
	}
	if c, ok := charge(pm.ID, restDiscounted, reg, used); ok {
		charges = append(charges, c)
	}
	return charges
}

func charge(methodID string, amount decimal.Decimal, reg *registry.Registry, used *UsedAmounts) (payment.Charge, bool) {
	if !reg.Charge(methodID, amount) {
		return payment.Charge{}, false
	}
	used.Add(methodID, amount)
	return payment.Charge{MethodID: methodID, Amount: amount}, true
}
