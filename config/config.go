// Package config loads the stream pulse bridge settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is the environment variable prefix, e.g. PULSE_ANALYTICS_API.
const Prefix = "PULSE"

// Config holds all configuration for the metrics gateway.
type Config struct {
	// Service base paths
	AnalyticsAPI    string `envconfig:"ANALYTICS_API"`
	StatsAPI        string `envconfig:"STATS_API"`
	LegacyPulseHost string `envconfig:"LEGACY_PULSE_HOST" default:"stats.castr.io"`

	// Transport
	Timeout time.Duration `envconfig:"TIMEOUT" default:"30s"`

	// Auth: a static bearer token wins over a signing secret
	APIToken     string        `envconfig:"API_TOKEN"`
	TokenSecret  string        `envconfig:"TOKEN_SECRET"`
	TokenSubject string        `envconfig:"TOKEN_SUBJECT" default:"pulse-bridge"`
	TokenTTL     time.Duration `envconfig:"TOKEN_TTL" default:"5m"`

	// Logging
	LogLevel string `envconfig:"LOG_LEVEL" default:"warn"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	return LoadWithFlags(nil)
}

// LoadWithFlags loads configuration from environment variables, then applies
// flag overrides keyed by flag name (e.g. "stats-api", "timeout", "debug").
func LoadWithFlags(flagOverrides map[string]interface{}) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, err
	}

	for key, value := range flagOverrides {
		switch key {
		case "analytics-api":
			if v, ok := value.(string); ok {
				cfg.AnalyticsAPI = v
			}
		case "stats-api":
			if v, ok := value.(string); ok {
				cfg.StatsAPI = v
			}
		case "legacy-pulse-host":
			if v, ok := value.(string); ok {
				cfg.LegacyPulseHost = v
			}
		case "api-token":
			if v, ok := value.(string); ok {
				cfg.APIToken = v
			}
		case "log-level":
			if v, ok := value.(string); ok {
				cfg.LogLevel = v
			}
		case "timeout":
			switch v := value.(type) {
			case time.Duration:
				cfg.Timeout = v
			case string:
				d, err := time.ParseDuration(v)
				if err != nil {
					return nil, fmt.Errorf("invalid timeout %q: %w", v, err)
				}
				cfg.Timeout = d
			}
		case "debug":
			if v, ok := value.(bool); ok {
				cfg.Debug = v
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MustLoad loads configuration and panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.AnalyticsAPI == "" {
		return fmt.Errorf("%s_ANALYTICS_API is required", Prefix)
	}
	if c.StatsAPI == "" {
		return fmt.Errorf("%s_STATS_API is required", Prefix)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%s_TIMEOUT must be positive, got %s", Prefix, c.Timeout)
	}
	if c.TokenSecret != "" && c.TokenTTL <= 0 {
		return fmt.Errorf("%s_TOKEN_TTL must be positive, got %s", Prefix, c.TokenTTL)
	}
	return nil
}
