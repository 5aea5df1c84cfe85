package optimizer

import (
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/eshaffer321/payopt/internal/domain/allocator"
	"github.com/eshaffer321/payopt/internal/domain/payment"
	"github.com/eshaffer321/payopt/internal/domain/validator"
)

// reconcile checks the finished run against the input and returns every
// inconsistency found. Problems are logged; the result is still returned
// to the caller.
func reconcile(logger *slog.Logger, methods []payment.Method, result *Result) []string {
	var problems []string

	for _, o := range result.Outcomes {
		if !o.Decision.Found() {
			continue
		}
		charges := make([]decimal.Decimal, 0, len(o.Charges))
		for _, c := range o.Charges {
			charges = append(charges, c.Amount)
		}
		v := validator.ValidateCharges(charges, allocator.Payable(o.Order, o.Decision), o.Unpaid)
		if !v.Valid {
			logger.Error("Order charges do not reconcile", "order_id", o.Order.ID, "reason", v.Reason)
			problems = append(problems, o.Order.ID+": "+v.Reason)
		}
	}

	used := make(map[string]decimal.Decimal, len(result.Used))
	for _, u := range result.Used {
		used[u.MethodID] = u.Amount
	}
	limits := validator.ValidateLimits(methods, result.Remaining, used)
	for _, p := range limits.Problems {
		logger.Error("Method limits do not reconcile", "reason", p)
	}

	return append(problems, limits.Problems...)
}
