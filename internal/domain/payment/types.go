// Package payment defines the value types shared by the registry and the
// allocation engine: orders, payment methods, decisions and charges.
//
// All monetary amounts are shopspring decimals with two-decimal currency
// precision. Rounding always goes through Discount and TenPercent so that the
// HALF_UP rule is applied in exactly one place.
package payment

import (
	"github.com/shopspring/decimal"
)

// PointsID is the identifier of the loyalty-points method.
const PointsID = "PUNKTY"

// Order is a single customer order. Orders are read-only for the engine.
type Order struct {
	ID         string
	Value      decimal.Decimal
	Promotions []string // method IDs eligible for this order, in priority order
}

// Method is a payment method with a discount and a remaining spending limit.
type Method struct {
	ID       string
	Discount int             // percent, 0-100
	Limit    decimal.Decimal // remaining capacity, mutated by allocation
}

// IsPoints reports whether m is the loyalty-points method.
func (m *Method) IsPoints() bool {
	return m.ID == PointsID
}

// Covers reports whether the remaining limit is at least amount.
func (m *Method) Covers(amount decimal.Decimal) bool {
	return m.Limit.GreaterThanOrEqual(amount)
}

// Choice identifies what a decision selected: a concrete method ID,
// PointsPartial, or NoChoice.
type Choice string

const (
	// NoChoice means no method could cover the order.
	NoChoice Choice = ""

	// PointsPartial pays at least 10% with points and the rest with another
	// method at a flat 10% discount.
	PointsPartial Choice = "PUNKTY_PARTIAL"
)

// Rule names the decision rule that produced a Choice.
type Rule string

const (
	RuleNone          Rule = "none"
	RulePromotion     Rule = "promotion"
	RulePoints        Rule = "points"
	RulePointsPartial Rule = "points_partial"
	RuleFallback      Rule = "fallback"
)

// Decision is the outcome of evaluating an order against the registry.
// It carries no references into the registry.
type Decision struct {
	Choice   Choice
	Discount int
	Rule     Rule
}

// Found reports whether the decision selected anything.
func (d Decision) Found() bool {
	return d.Choice != NoChoice
}

// Charge is an amount taken from a single method during allocation.
type Charge struct {
	MethodID string
	Amount   decimal.Decimal
}
