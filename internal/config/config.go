package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the full server configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Matching MatchingConfig `yaml:"matching"`
	LogLevel string         `yaml:"log_level"`
}

// ServerConfig configures the HTTP and metrics listeners.
type ServerConfig struct {
	Port        int `yaml:"port"`
	MetricsPort int `yaml:"metrics_port"`
}

// DatabaseConfig configures the catalog database connection.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite3 or postgres
	DSN    string `yaml:"dsn"`
}

// MatchingConfig tunes the matching engine.
type MatchingConfig struct {
	CacheTTL        time.Duration `yaml:"cache_ttl"`
	QueryDeadline   time.Duration `yaml:"query_deadline"`
	MaxCandidates   int           `yaml:"max_candidates"`  // fuzzy candidates per token
	ExpiringWindow  time.Duration `yaml:"expiring_window"` // how soon counts as expiring
	DefaultPageSize int           `yaml:"default_page_size"`
	MaxPageSize     int           `yaml:"max_page_size"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8080,
			MetricsPort: 9090,
		},
		Database: DatabaseConfig{
			Driver: "sqlite3",
			DSN:    "fridgesearch.db",
		},
		Matching: MatchingConfig{
			CacheTTL:        5 * time.Minute,
			QueryDeadline:   15 * time.Second,
			MaxCandidates:   5,
			ExpiringWindow:  72 * time.Hour,
			DefaultPageSize: 20,
			MaxPageSize:     100,
		},
		LogLevel: "info",
	}
}

// Load reads a yaml config file over the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
