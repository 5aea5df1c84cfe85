// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml)
//  2. Environment variables (fallback)
//
// Example usage:
//
//	cfg := config.LoadOrEnv()
//	dsn := cfg.Storage.DatabasePath
//	port := cfg.API.Port
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// InMemoryDatabase keeps the audit store for the lifetime of the process only.
const InMemoryDatabase = ":memory:"

// DefaultMaxOrders caps the orders accepted by one API request.
const DefaultMaxOrders = 10000

// Config represents the entire application configuration
type Config struct {
	Storage       StorageConfig       `yaml:"storage"`
	API           APIConfig           `yaml:"api"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// StorageConfig holds audit store configuration
type StorageConfig struct {
	// Enabled turns on recording of runs and allocations
	Enabled      bool   `yaml:"enabled"`
	DatabasePath string `yaml:"database_path"`
}

// APIConfig holds HTTP server configuration
type APIConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxOrders      int      `yaml:"max_orders"` // per request, 0 = unlimited
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig holds Prometheus settings
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Load reads and parses the config file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${PAYOPT_DB_PATH})
	expanded := os.ExpandEnv(string(data))

	cfg := Defaults()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, nil
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Config {
	return &Config{
		Storage: StorageConfig{
			Enabled:      true,
			DatabasePath: InMemoryDatabase,
		},
		API: APIConfig{
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
			MaxOrders:      DefaultMaxOrders,
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  "info",
				Format: "text",
			},
			Metrics: MetricsConfig{
				Enabled: true,
			},
		},
	}
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() *Config {
	def := Defaults()
	return &Config{
		Storage: StorageConfig{
			Enabled:      getEnvBool("PAYOPT_AUDIT", def.Storage.Enabled),
			DatabasePath: getEnv("PAYOPT_DB_PATH", def.Storage.DatabasePath),
		},
		API: APIConfig{
			Port:           getEnvInt("PAYOPT_API_PORT", def.API.Port),
			AllowedOrigins: getEnvList("PAYOPT_ALLOWED_ORIGINS", def.API.AllowedOrigins),
			MaxOrders:      getEnvInt("PAYOPT_MAX_ORDERS", def.API.MaxOrders),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", def.Observability.Logging.Level),
				Format: getEnv("LOG_FORMAT", def.Observability.Logging.Format),
			},
			Metrics: MetricsConfig{
				Enabled: getEnvBool("PAYOPT_METRICS", def.Observability.Metrics.Enabled),
			},
		},
	}
}

// LoadOrEnv tries to load from config.yaml, falls back to environment variables
func LoadOrEnv() *Config {
	return LoadOrEnvWithPath("config.yaml")
}

// LoadOrEnvWithPath tries to load from specified path, falls back to environment variables
func LoadOrEnvWithPath(path string) *Config {
	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var result int
		if _, err := fmt.Sscanf(val, "%d", &result); err == nil {
			return result
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return fallback
}

// getEnvList splits a comma-separated variable, dropping empty entries
func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
