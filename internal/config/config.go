package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Cache struct {
		Dir string `yaml:"dir"`
	} `yaml:"cache"`
	History struct {
		DefaultDays int `yaml:"default_days"`
	} `yaml:"history"`
	Ranking struct {
		DefaultLimit int `yaml:"default_limit"`
	} `yaml:"ranking"`
	Provider struct {
		RequestIntervalMS int `yaml:"request_interval_ms"`
	} `yaml:"provider"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Watch struct {
		Cron    string   `yaml:"cron"`
		Symbols []string `yaml:"symbols"`
	} `yaml:"watch"`
	Proxy string `yaml:"proxy"`
}

// Bounds for the history window.
const (
	MinDays = 30
	MaxDays = 3650
)

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("ASHARE_CACHE_DIR"); v != "" {
		cfg.Cache.Dir = v
	}
	if v := os.Getenv("ASHARE_SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("ASHARE_DEFAULT_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil {
			cfg.History.DefaultDays = days
		}
	}
	if v := os.Getenv("ASHARE_WATCH_SYMBOLS"); v != "" {
		cfg.Watch.Symbols = strings.Split(v, ",")
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Cache.Dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		cfg.Cache.Dir = filepath.Join(home, ".ashare_cache")
	}
	if cfg.History.DefaultDays == 0 {
		cfg.History.DefaultDays = 365
	}
	if cfg.Ranking.DefaultLimit == 0 {
		cfg.Ranking.DefaultLimit = 20
	}
	if cfg.Provider.RequestIntervalMS == 0 {
		cfg.Provider.RequestIntervalMS = 1000
	}
	if cfg.Watch.Cron == "" {
		// Every 30 minutes during trading hours, Mon-Fri.
		cfg.Watch.Cron = "0 */30 9-15 * * 1-5"
	}

	return cfg, nil
}

// Validate checks bounds on the configured values.
func (c *Config) Validate() error {
	if c.History.DefaultDays < MinDays || c.History.DefaultDays > MaxDays {
		return fmt.Errorf("history.default_days must be in [%d, %d]", MinDays, MaxDays)
	}
	if c.Ranking.DefaultLimit <= 0 {
		return fmt.Errorf("ranking.default_limit must be positive")
	}
	if c.Provider.RequestIntervalMS < 0 {
		return fmt.Errorf("provider.request_interval_ms must not be negative")
	}
	return nil
}

// ClampDays bounds a requested history window to the supported range.
func ClampDays(days int) int {
	if days < MinDays {
		return MinDays
	}
	if days > MaxDays {
		return MaxDays
	}
	return days
}

// RequestInterval returns the provider throttle as a duration.
func (c *Config) RequestInterval() time.Duration {
	return time.Duration(c.Provider.RequestIntervalMS) * time.Millisecond
}
