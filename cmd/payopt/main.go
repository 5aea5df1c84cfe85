// Command payopt allocates orders to payment methods and prints the amount
// charged to each method.
//
//	payopt [-config path] [-verbose] <orders.json> <paymentmethods.json>
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/eshaffer321/payopt/internal/cli"
	"github.com/eshaffer321/payopt/internal/infrastructure/config"
)

func main() {
	flags, err := cli.ParseFlags("payopt", os.Args[1:], os.Stderr)
	if err != nil {
		if !errors.Is(err, cli.ErrUsage) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}

	cfg, err := loadConfig(flags.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.RunAllocate(ctx, cfg, flags, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// loadConfig loads an explicit config file, or falls back to config.yaml
// and then environment variables.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadOrEnv(), nil
	}
	return config.Load(path)
}
