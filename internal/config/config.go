package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/anthropics/bulkchange-engine/internal/domain"
)

// Config holds the engine's runtime configuration.
type Config struct {
	DBPath            string `json:"db_path"`
	ListenAddr        string `json:"listen_addr"`
	DirectorySeed     int64  `json:"directory_seed"`
	DirectorySize     int    `json:"directory_size"`
	LogLevel          string `json:"log_level"`
	LogFile           string `json:"log_file"`
	ApprovalDueDays   int    `json:"approval_due_days"`
	PayrollCutoffDays int    `json:"payroll_cutoff_days"`
}

// Load reads a JSON config file, applies defaults, and validates.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config JSON: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns a configuration suitable for running without a config
// file: in-process SQLite at a local path and the standard listen address.
func Default() *Config {
	cfg := &Config{DBPath: "bulkchange.db"}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = ":9810"
	}
	if c.DirectorySeed == 0 {
		c.DirectorySeed = 1
	}
	if c.DirectorySize == 0 {
		c.DirectorySize = 240
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.ApprovalDueDays == 0 {
		c.ApprovalDueDays = 3
	}
	if c.PayrollCutoffDays == 0 {
		c.PayrollCutoffDays = 12
	}
}

func (c *Config) validate() error {
	var problems []string

	if c.DBPath == "" {
		problems = append(problems, "db_path is required")
	}
	if c.DirectorySize < 0 {
		problems = append(problems, "directory_size must not be negative")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("unknown log_level %q", c.LogLevel))
	}

	if len(problems) > 0 {
		return &domain.EngineError{
			Code:    domain.ErrConfigInvalid.Code,
			Message: fmt.Sprintf("%s: %v", domain.ErrConfigInvalid.Message, problems),
		}
	}
	return nil
}
