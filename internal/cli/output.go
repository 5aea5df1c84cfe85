package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/eshaffer321/payopt/internal/application/optimizer"
	"github.com/eshaffer321/payopt/internal/domain/allocator"
)

// UsedAmountsHeader is the first line of the used-amounts report.
const UsedAmountsHeader = "Wydane środki z każdej metody:"

// PrintUsedAmounts prints the header, then "<method id>: <amount>" for every
// method used, in the order the methods were first charged.
func PrintUsedAmounts(w io.Writer, used []allocator.UsedAmount) error {
	if _, err := fmt.Fprintln(w, UsedAmountsHeader); err != nil {
		return err
	}
	for _, u := range used {
		if _, err := fmt.Fprintf(w, "%s: %s\n", u.MethodID, u.Amount.StringFixed(2)); err != nil {
			return err
		}
	}
	return nil
}

// PrintRunSummary prints the per-order outcome table of a run
func PrintRunSummary(w io.Writer, result *optimizer.Result) {
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for _, o := range result.Outcomes {
		choice := string(o.Decision.Choice)
		if choice == "" {
			choice = "-"
		}
		fmt.Fprintf(w, "%-12s %10s  %-16s %-15s charged=%s",
			o.Order.ID,
			o.Order.Value.StringFixed(2),
			choice,
			o.Decision.Rule,
			o.Charged().StringFixed(2),
		)
		if o.Unpaid.IsPositive() {
			fmt.Fprintf(w, " unpaid=%s", o.Unpaid.StringFixed(2))
		}
		fmt.Fprintln(w)
	}

	s := result.Summary()
	fmt.Fprintln(w, strings.Repeat("-", 60))
	fmt.Fprintf(w, "Summary: Allocated=%d Unallocated=%d PartiallyUnpaid=%d Run=%s\n",
		s.Allocated, s.Unallocated, s.PartialUnpaid, result.RunID)
}
