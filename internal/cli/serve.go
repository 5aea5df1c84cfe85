package cli

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eshaffer321/payopt/internal/api"
	"github.com/eshaffer321/payopt/internal/application/optimizer"
	"github.com/eshaffer321/payopt/internal/infrastructure/config"
	"github.com/eshaffer321/payopt/internal/infrastructure/logging"
	"github.com/eshaffer321/payopt/internal/infrastructure/metrics"
)

// ServeFlags holds the CLI flags for the serve command.
type ServeFlags struct {
	ConfigPath string
	Port       int // 0 keeps the configured port
	Verbose    bool
}

// ParseServeFlags parses command line flags for the serve command.
func ParseServeFlags() *ServeFlags {
	flags := &ServeFlags{}
	flag.StringVar(&flags.ConfigPath, "config", "", "Configuration file path")
	flag.IntVar(&flags.Port, "port", 0, "Port to listen on (overrides config)")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Verbose output")
	flag.Parse()
	return flags
}

// RunServe runs the API server until SIGINT or SIGTERM.
func RunServe(cfg *config.Config, flags *ServeFlags) error {
	// Set up logging
	loggingCfg := cfg.Observability.Logging
	if flags.Verbose {
		loggingCfg.Level = "debug"
	}
	logger := logging.NewLoggerWithSystem(loggingCfg, "api")

	// Initialize audit storage
	repo, closeRepo, err := openAuditStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	var m *metrics.Metrics
	if cfg.Observability.Metrics.Enabled {
		m = metrics.New()
	}

	svc := optimizer.NewService(repo, m, logging.NewLoggerWithSystem(loggingCfg, "optimizer"))
	server := api.NewServer(apiConfig(cfg, flags), svc, repo, m, logger)

	// Handle graceful shutdown
	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("received shutdown signal")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server shutdown error", slog.Any("error", err))
		}
		close(done)
	}()

	// Start server (blocks until shutdown)
	if err := server.Start(); err != nil {
		return err
	}

	<-done
	logger.Info("server stopped")
	return nil
}

// apiConfig maps the loaded configuration to server settings; a -port flag
// overrides the configured port.
func apiConfig(cfg *config.Config, flags *ServeFlags) api.Config {
	apiCfg := api.Config{
		Port:           cfg.API.Port,
		AllowedOrigins: cfg.API.AllowedOrigins,
		MaxOrders:      cfg.API.MaxOrders,
	}
	if flags.Port > 0 {
		apiCfg.Port = flags.Port
	}
	return apiCfg
}
