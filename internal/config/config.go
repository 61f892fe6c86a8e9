// Package config loads service configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the full service configuration.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `env:"ADDR" envDefault:":8080"`

	// RedisAddr and RedisDB locate the cache backend.
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// DBPath is the SQLite file holding channel configurations.
	DBPath string `env:"DB_PATH" envDefault:"ladderviewer.db"`

	// LogLevel and LogPretty control logging output.
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty bool   `env:"LOG_PRETTY" envDefault:"false"`

	// BnetClientID and BnetClientSecret are the community API OAuth
	// credentials. BnetBaseURL overrides the per-region hosts and lifts
	// the credential requirement, for tests and proxies.
	BnetClientID     string `env:"BNET_CLIENT_ID"`
	BnetClientSecret string `env:"BNET_CLIENT_SECRET"`
	BnetBaseURL      string `env:"BNET_BASE_URL"`

	// CacheTTL is how long an assembled viewer collection stays served
	// from cache.
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"5m"`

	// PaceBaseDelay is the per-profile stagger unit for dependent
	// upstream calls.
	PaceBaseDelay time.Duration `env:"PACE_BASE_DELAY" envDefault:"800ms"`

	// UpstreamRate and UpstreamBurst shape the shared request ceiling
	// toward the community API.
	UpstreamRate  float64 `env:"UPSTREAM_RATE" envDefault:"8"`
	UpstreamBurst int     `env:"UPSTREAM_BURST" envDefault:"4"`

	// MaxInFlight bounds concurrent profile assemblies per batch.
	MaxInFlight int `env:"MAX_IN_FLIGHT" envDefault:"16"`

	// MaxProfiles caps how many profiles a channel may configure.
	MaxProfiles int `env:"MAX_PROFILES" envDefault:"4"`

	// RequestTimeout bounds a single upstream call attempt.
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`

	// ShutdownTimeout bounds graceful HTTP server shutdown.
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// Load reads the configuration from the environment. A .env file in the
// working directory is merged in first when present.
func Load() (*Config, error) {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.BnetClientID == "" && c.BnetBaseURL == "" {
		return fmt.Errorf("BNET_CLIENT_ID is required")
	}
	if c.BnetClientID != "" && c.BnetClientSecret == "" {
		return fmt.Errorf("BNET_CLIENT_SECRET is required")
	}
	if c.MaxProfiles <= 0 {
		return fmt.Errorf("MAX_PROFILES must be positive")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}
	return nil
}
