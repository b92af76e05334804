// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds all configuration values for the trails API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string `env:"PORT" envDefault:"8080"`

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:4200"] (Angular dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"http://localhost:4200" envSeparator:","`

	// AutoMigrate applies pending migrations (schema and seed trails) at
	// startup. Defaults to true.
	AutoMigrate bool `env:"AUTO_MIGRATE" envDefault:"true"`
}

// ClientConfig holds configuration for the trails CLI.
type ClientConfig struct {
	// BaseURL is the root of the trails API; the CLI reads BaseURL + /api/trails.
	BaseURL string `env:"TRAILS_BASE_URL" envDefault:"http://localhost:8080"`

	// Validate turns response schema validation on or off. Defaults to true.
	Validate bool `env:"TRAILS_VALIDATE" envDefault:"true"`

	// LogLevel controls the minimum log level. Defaults to "info".
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads server configuration from environment variables.
// Returns an error naming any required variable that is not set.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config.Load: parse env: %w", err)
	}
	cfg.CORSOrigins = trimAll(cfg.CORSOrigins)
	return cfg, nil
}

// LoadClient reads CLI configuration from environment variables.
func LoadClient() (ClientConfig, error) {
	var cfg ClientConfig
	if err := env.Parse(&cfg); err != nil {
		return ClientConfig{}, fmt.Errorf("config.LoadClient: parse env: %w", err)
	}
	return cfg, nil
}

// trimAll trims each entry and drops empty ones, so "a, b," yields [a b].
func trimAll(in []string) []string {
	var out []string
	for _, part := range in {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
