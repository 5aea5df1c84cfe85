// Package allocator chooses a payment method for each order and charges it.
//
// Choosing and charging are separate steps. Decide is pure: it reads the
// registry and returns a payment.Decision. Apply takes that decision and
// mutates the registry limits and the running UsedAmounts. Run drives both
// over a batch, strictly in order, so the decision for order N always sees
// the limits left behind by orders 1..N-1.
//
// Decision rules, evaluated in order:
//
//  1. Order promotions: each listed method whose limit covers the full order
//     value; the lowest discounted amount wins.
//  2. Full points: PUNKTY covering the full order value, if strictly cheaper.
//  3. Partial points: PUNKTY covering 10% of the value; flat 10% discount,
//     chosen if strictly cheaper than the best from rules 1 and 2.
//  4. Fallback: only when nothing was chosen, the first method in registry
//     order whose limit covers the full value, without discount.
//
// Example usage:
//
//	reg := registry.New(methods)
//	used, outcomes := allocator.Run(orders, reg)
//	for _, u := range used.Entries() {
//		fmt.Printf("%s: %s\n", u.MethodID, u.Amount.StringFixed(2))
//	}
package allocator

import (
	"github.com/shopspring/decimal"

	"github.com/eshaffer321/payopt/internal/domain/payment"
	"github.com/eshaffer321/payopt/internal/domain/registry"
)

// Decide picks the best payment option for order given the current limits.
// It never mutates reg. A decision with payment.NoChoice means no method can
// pay for the order.
func Decide(order payment.Order, reg *registry.Registry) payment.Decision {
	value := order.Value
	best := value
	decision := payment.Decision{Choice: payment.NoChoice, Rule: payment.RuleNone}

	// Rule 1: promotions listed on the order
	for _, id := range order.Promotions {
		pm, ok := reg.Get(id)
		if !ok || !pm.Covers(value) {
			continue
		}
		payable := payment.Discount(value, pm.Discount)
		if payable.LessThan(best) {
			best = payable
			decision = payment.Decision{Choice: payment.Choice(pm.ID), Discount: pm.Discount, Rule: payment.RulePromotion}
		}
	}

	points, hasPoints := reg.Points()

	// Rule 2: whole order with points
	if hasPoints && points.Covers(value) {
		payable := payment.Discount(value, points.Discount)
		if payable.LessThan(best) {
			best = payable
			decision = payment.Decision{Choice: payment.Choice(points.ID), Discount: points.Discount, Rule: payment.RulePoints}
		}
	}

	// Rule 3: partial points. best is intentionally left unchanged here.
	if hasPoints && points.Covers(payment.TenPercent(value)) {
		if partialPayable(value).LessThan(best) {
			decision = payment.Decision{
				Choice:   payment.PointsPartial,
				Discount: payment.PartialPointsDiscount,
				Rule:     payment.RulePointsPartial,
			}
		}
	}

	// Rule 4: anything that can pay in full, no discount
	if !decision.Found() {
		if pm, ok := reg.FirstCovering(value); ok {
			decision = payment.Decision{Choice: payment.Choice(pm.ID), Discount: 0, Rule: payment.RuleFallback}
		}
	}

	return decision
}

// partialPayable is the amount compared against the best option when
// considering a partial points payment: the whole order at the flat discount.
func partialPayable(value decimal.Decimal) decimal.Decimal {
	return payment.Discount(value, payment.PartialPointsDiscount)
}
