// Package input reads orders and payment methods from JSON files.
//
// Both files hold a JSON array. Amounts and discounts may be JSON numbers or
// strings. A discount must be a whole percentage, so 15 and "15.0" are both
// accepted but 15.5 is not:
//
//	[{"id": "ORDER1", "value": "150.00", "promotions": ["mZysk"]}]
//	[{"id": "PUNKTY", "discount": "15", "limit": "100.00"}]
//
// Every record is validated before anything is returned, so a malformed
// file is rejected as a whole and no order is ever processed from it.
package input

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInvalidRecord is wrapped by every validation error.
var ErrInvalidRecord = errors.New("invalid record")

// OrderRecord is an order as it appears in the input file.
type OrderRecord struct {
	ID         string           `json:"id"`
	Value      *decimal.Decimal `json:"value"`
	Promotions []string         `json:"promotions,omitempty"`
}

// MethodRecord is a payment method as it appears in the input file.
type MethodRecord struct {
	ID       string           `json:"id"`
	Discount *decimal.Decimal `json:"discount"`
	Limit    *decimal.Decimal `json:"limit"`
}
