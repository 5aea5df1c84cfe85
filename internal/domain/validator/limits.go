package validator

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/eshaffer321/payopt/internal/domain/payment"
)

// LimitValidation contains the result of reconciling method limits.
type LimitValidation struct {
	Valid    bool
	Problems []string
}

// ValidateLimits checks, for every method, that
//
//	initial limit - remaining limit == used
//
// and that no remaining limit is negative. used maps method ID to the total
// charged; methods missing from used must be untouched.
func ValidateLimits(initial, remaining []payment.Method, used map[string]decimal.Decimal) *LimitValidation {
	start := make(map[string]decimal.Decimal, len(initial))
	for _, m := range initial {
		start[m.ID] = m.Limit
	}

	v := &LimitValidation{Valid: true}
	seen := make(map[string]bool, len(remaining))

	for _, m := range remaining {
		seen[m.ID] = true

		before, ok := start[m.ID]
		if !ok {
			v.fail("method %s was not in the input", m.ID)
			continue
		}
		if m.Limit.IsNegative() {
			v.fail("method %s has negative limit %s", m.ID, m.Limit.StringFixed(2))
		}

		charged := used[m.ID]
		if spent := before.Sub(m.Limit); !spent.Equal(charged) {
			v.fail("method %s limit dropped by %s but %s was charged",
				m.ID, spent.StringFixed(2), charged.StringFixed(2))
		}
	}

	unknown := make([]string, 0)
	for id := range used {
		if !seen[id] {
			unknown = append(unknown, id)
		}
	}
	sort.Strings(unknown)
	for _, id := range unknown {
		v.fail("charges recorded for unknown method %s", id)
	}

	return v
}

func (v *LimitValidation) fail(format string, args ...any) {
	v.Valid = false
	v.Problems = append(v.Problems, fmt.Sprintf(format, args...))
}
