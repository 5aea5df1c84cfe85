// Package validator reconciles the results of an allocation run.
//
// The charges validator checks that what was charged for an order plus
// what was left unpaid adds up to the order's payable amount. The limits
// validator checks that every method's limit went down by exactly the
// amount charged to it. Both work on exact decimals, so there is no
// rounding tolerance.
package validator

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ChargeValidation contains the result of validating an order's charges.
type ChargeValidation struct {
	// Valid is true if the charges reconcile
	Valid bool

	// ChargesSum is the sum of all charges for the order
	ChargesSum decimal.Decimal

	// ExpectedSum is what the charges should sum to (payable minus unpaid)
	ExpectedSum decimal.Decimal

	// Difference is ChargesSum minus ExpectedSum
	Difference decimal.Decimal

	// Reason explains why validation failed (empty if valid)
	Reason string
}

// ValidateCharges checks that charges sum to payable minus unpaid.
//
//	sum(charges) == payable - unpaid
func ValidateCharges(charges []decimal.Decimal, payable, unpaid decimal.Decimal) *ChargeValidation {
	sum := decimal.Zero
	for _, c := range charges {
		sum = sum.Add(c)
	}

	expected := payable.Sub(unpaid)
	diff := sum.Sub(expected)

	v := &ChargeValidation{
		Valid:       diff.IsZero(),
		ChargesSum:  sum,
		ExpectedSum: expected,
		Difference:  diff,
	}
	if v.Valid {
		return v
	}

	if diff.IsNegative() {
		v.Reason = fmt.Sprintf("charges (%s) are less than expected (%s) - missing %s",
			sum.StringFixed(2), expected.StringFixed(2), diff.Neg().StringFixed(2))
	} else {
		v.Reason = fmt.Sprintf("charges (%s) exceed expected (%s) by %s",
			sum.StringFixed(2), expected.StringFixed(2), diff.StringFixed(2))
	}
	return v
}
