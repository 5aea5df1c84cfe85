package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
)

// ErrUsage is returned when the command line has the wrong shape.
var ErrUsage = errors.New("usage error")

// Flags are the flags and arguments of the payopt command
type Flags struct {
	ConfigPath  string
	Verbose     bool
	OrdersPath  string
	MethodsPath string
}

// ParseFlags parses args (without the program name). It expects exactly
// two positional arguments: the orders file and the payment methods file.
func ParseFlags(name string, args []string, output io.Writer) (*Flags, error) {
	var flags Flags

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&flags.ConfigPath, "config", "", "Configuration file path (default: config.yaml, then environment)")
	fs.BoolVar(&flags.Verbose, "verbose", false, "Log every allocation decision")
	fs.Usage = func() { PrintUsage(output, name, fs) }

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}

	if fs.NArg() != 2 {
		fs.Usage()
		return nil, fmt.Errorf("%w: expected 2 arguments, got %d", ErrUsage, fs.NArg())
	}

	flags.OrdersPath = fs.Arg(0)
	flags.MethodsPath = fs.Arg(1)
	return &flags, nil
}

// PrintUsage prints the command synopsis and flag defaults
func PrintUsage(w io.Writer, name string, fs *flag.FlagSet) {
	fmt.Fprintf(w, "Usage: %s [flags] <orders.json> <paymentmethods.json>\n\n", name)
	fmt.Fprintln(w, "Allocates each order to the payment methods that minimise its cost")
	fmt.Fprintln(w, "and prints the total charged to every method used.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fs.PrintDefaults()
}
