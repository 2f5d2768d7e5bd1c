// Package config loads and validates the osdnsd daemon configuration.
//
// Configuration is a JSON file located via flag or the OSDNS_CONFIG
// environment variable; an empty path yields pure defaults. The core lookup
// library takes no configuration from here; this package only shapes the
// daemon surface (API binding, logging, lookup workers, history).
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Config is the top-level daemon configuration.
type Config struct {
	API     APIConfig     `json:"api"`
	Lookup  LookupConfig  `json:"lookup"`
	History HistoryConfig `json:"history"`
	Logging LoggingConfig `json:"logging"`
}

// APIConfig controls the management/lookup HTTP server.
type APIConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	APIKey   string `json:"api_key,omitempty"`
	EnableUI bool   `json:"enable_ui"`
}

// LookupConfig controls the lookup worker pool.
type LookupConfig struct {
	Workers    int    `json:"workers"`     // 0 = one per CPU
	TimeoutRaw string `json:"api_timeout"` // Per-request resolve budget, e.g. "5s"

	Timeout time.Duration `json:"-"`
}

// HistoryConfig controls the sqlite lookup journal.
type HistoryConfig struct {
	Enabled    bool   `json:"enabled"`
	Path       string `json:"path"`
	MaxEntries int    `json:"max_entries"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level      string `json:"level"`
	JSON       bool   `json:"json"`
	IncludePID bool   `json:"include_pid"`
}

// ResolveConfigPath picks the configuration path: explicit flag first, then
// the OSDNS_CONFIG environment variable, then empty (defaults).
func ResolveConfigPath(flagValue string) string {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v
	}
	return strings.TrimSpace(os.Getenv("OSDNS_CONFIG"))
}

// Load reads the configuration file at path. An empty path returns
// validated defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate normalizes and checks the configuration.
func (cfg *Config) Validate() error {
	if cfg.API.Host == "" {
		cfg.API.Host = "127.0.0.1"
	}
	if cfg.API.Port == 0 {
		cfg.API.Port = 8053
	}
	if cfg.API.Port < 0 || cfg.API.Port > 65535 {
		return errors.New("api.port must be 1..65535")
	}

	if cfg.Lookup.Workers < 0 {
		return errors.New("lookup.workers must be >= 0")
	}
	if cfg.Lookup.TimeoutRaw == "" {
		cfg.Lookup.TimeoutRaw = "10s"
	}
	d, err := time.ParseDuration(cfg.Lookup.TimeoutRaw)
	if err != nil || d <= 0 {
		return fmt.Errorf("lookup.api_timeout is not a valid duration: %q", cfg.Lookup.TimeoutRaw)
	}
	cfg.Lookup.Timeout = d

	if cfg.History.Enabled {
		if cfg.History.Path == "" {
			cfg.History.Path = "osdns-history.db"
		}
		if cfg.History.MaxEntries <= 0 {
			cfg.History.MaxEntries = 10000
		}
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "INFO"
	}
	cfg.Logging.Level = strings.ToUpper(cfg.Logging.Level)

	return nil
}
