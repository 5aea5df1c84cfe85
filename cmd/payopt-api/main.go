// Command payopt-api serves the allocation engine over HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/eshaffer321/payopt/internal/cli"
	"github.com/eshaffer321/payopt/internal/infrastructure/config"
)

func main() {
	flags := cli.ParseServeFlags()

	cfg := config.LoadOrEnv()
	if flags.ConfigPath != "" {
		var err error
		if cfg, err = config.Load(flags.ConfigPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if err := cli.RunServe(cfg, flags); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
