package payment

import "github.com/shopspring/decimal"

// PartialPointsDiscount is the flat discount granted when an order is paid
// partially with points.
const PartialPointsDiscount = 10

var (
	hundred  = decimal.NewFromInt(100)
	tenthPct = decimal.New(1, -1) // 0.1
)

// Discount returns amount reduced by pct percent, rounded HALF_UP to cents:
//
//	round(amount * (100 - pct) / 100, 2)
//
// decimal.Round rounds half away from zero, which is HALF_UP for the
// non-negative amounts handled here.
func Discount(amount decimal.Decimal, pct int) decimal.Decimal {
	return amount.Mul(decimal.NewFromInt(int64(100 - pct))).Div(hundred).Round(2)
}

// TenPercent returns 10% of amount rounded HALF_UP to cents. This is the
// minimum points contribution for a partial points payment.
func TenPercent(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(tenthPct).Round(2)
}
