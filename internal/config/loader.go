package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Config files larger than this are rejected.
const maxConfigFileSize = 1024 * 1024

// envPrefix namespaces the environment variables this process reads.
const envPrefix = "SESSIONTRIM_"

// LoadWithFile loads configuration from a YAML file, then overrides
// with environment variables.
//
// Precedence (highest to lowest):
//  1. Environment variables (SESSIONTRIM_LOGGING_LEVEL, ...)
//  2. YAML config file (~/.config/sessiontrim/config.yaml)
//  3. Hardcoded defaults
//
// The configPath parameter names the YAML file to load; empty means
// the default path. A missing file is not an error, the file layer is
// simply skipped.
//
// Environment variables map to config keys by splitting on the first
// underscore after the prefix:
//
//	SESSIONTRIM_LOGGING_LEVEL          -> logging.level
//	SESSIONTRIM_COMPRESSION_API_KEY    -> compression.api_key
//	SESSIONTRIM_SOURCES_CLAUDE_ROOT    -> sources.claude_root
func LoadWithFile(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = filepath.Join(home, ".config", "sessiontrim", "config.yaml")
	}

	if info, err := os.Stat(configPath); err == nil {
		if info.Size() > maxConfigFileSize {
			return nil, fmt.Errorf("config file %s exceeds %d bytes", configPath, maxConfigFileSize)
		}
		content, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Environment variables use underscore separators; the first
	// underscore after the prefix splits section from field, the rest
	// stay in the field name (section.field_name pattern).
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		parts := strings.SplitN(lower, "_", 2)
		if len(parts) == 1 {
			return lower
		}
		return parts[0] + "." + parts[1]
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
