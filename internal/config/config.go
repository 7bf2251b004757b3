// Package config provides configuration loading for sessiontrim.
//
// Configuration is read from an optional YAML file overridden by
// environment variables, with hardcoded defaults underneath.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fyrsmithlabs/sessiontrim/internal/compression"
	"github.com/fyrsmithlabs/sessiontrim/internal/logging"
)

// Config holds the complete sessiontrim configuration.
type Config struct {
	Logging     logging.Config     `koanf:"logging"`
	Sources     SourcesConfig      `koanf:"sources"`
	Compression compression.Config `koanf:"compression"`
}

// SourcesConfig points at the directories session logs live in.
type SourcesConfig struct {
	// ClaudeRoot is the root of the Claude Code project tree; session
	// files are .jsonl files under per-project subdirectories.
	ClaudeRoot string `koanf:"claude_root"`
	// VSCodeRoot is the VS Code workspace storage root holding chat
	// session .json documents.
	VSCodeRoot string `koanf:"vscode_root"`
}

// Compression orchestration defaults.
const (
	defaultProvider            = "cli"
	defaultCommand             = "claude"
	defaultConcurrency         = 10
	defaultMinTokens           = 20
	defaultMaxAttempts         = 3
	defaultTimeoutInitial      = 60 * time.Second
	defaultTimeoutIncrement    = 30 * time.Second
	defaultLargeModelThreshold = 10000
)

func applyDefaults(cfg *Config) {
	if cfg.Sources.ClaudeRoot == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.Sources.ClaudeRoot = filepath.Join(home, ".claude", "projects")
		}
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}

	if cfg.Compression.Provider == "" {
		cfg.Compression.Provider = defaultProvider
	}
	if cfg.Compression.Command == "" {
		cfg.Compression.Command = defaultCommand
	}
	if cfg.Compression.Concurrency <= 0 {
		cfg.Compression.Concurrency = defaultConcurrency
	}
	if cfg.Compression.MinTokens <= 0 {
		cfg.Compression.MinTokens = defaultMinTokens
	}
	if cfg.Compression.MaxAttempts <= 0 {
		cfg.Compression.MaxAttempts = defaultMaxAttempts
	}
	if cfg.Compression.TimeoutInitial <= 0 {
		cfg.Compression.TimeoutInitial = defaultTimeoutInitial
	}
	if cfg.Compression.TimeoutIncrement <= 0 {
		cfg.Compression.TimeoutIncrement = defaultTimeoutIncrement
	}
	if cfg.Compression.LargeModelThreshold <= 0 {
		cfg.Compression.LargeModelThreshold = defaultLargeModelThreshold
	}
}

// Validate checks the loaded configuration for values that cannot
// work. Called once after loading; commands trust the result.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level: %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid logging format: %q", c.Logging.Format)
	}

	switch c.Compression.Provider {
	case "cli", "http", "sdk":
	default:
		return fmt.Errorf("invalid compression provider: %q", c.Compression.Provider)
	}
	if c.Compression.Concurrency < 1 {
		return fmt.Errorf("compression concurrency must be at least 1, got %d", c.Compression.Concurrency)
	}
	if c.Compression.MaxAttempts < 1 {
		return fmt.Errorf("compression max_attempts must be at least 1, got %d", c.Compression.MaxAttempts)
	}
	if c.Compression.RequestsPerSecond < 0 {
		return fmt.Errorf("compression requests_per_second must not be negative, got %v", c.Compression.RequestsPerSecond)
	}
	return nil
}
