package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadWithFileDefaults(t *testing.T) {
	// A path that does not exist falls through to pure defaults.
	cfg, err := LoadWithFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "cli", cfg.Compression.Provider)
	assert.Equal(t, "claude", cfg.Compression.Command)
	assert.Equal(t, defaultConcurrency, cfg.Compression.Concurrency)
	assert.Equal(t, defaultMinTokens, cfg.Compression.MinTokens)
	assert.Equal(t, defaultMaxAttempts, cfg.Compression.MaxAttempts)
	assert.Equal(t, defaultTimeoutInitial, cfg.Compression.TimeoutInitial)
	assert.Equal(t, defaultTimeoutIncrement, cfg.Compression.TimeoutIncrement)
	assert.Equal(t, defaultLargeModelThreshold, cfg.Compression.LargeModelThreshold)
}

func TestLoadWithFileYAML(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: debug
  format: json
sources:
  claude_root: /data/claude
compression:
  provider: http
  api_key: sk-file
  concurrency: 4
  timeout_initial: 90s
`)

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "/data/claude", cfg.Sources.ClaudeRoot)
	assert.Equal(t, "http", cfg.Compression.Provider)
	assert.Equal(t, "sk-file", cfg.Compression.APIKey)
	assert.Equal(t, 4, cfg.Compression.Concurrency)
	assert.Equal(t, 90*time.Second, cfg.Compression.TimeoutInitial)
	// Unset fields still get defaults.
	assert.Equal(t, defaultMaxAttempts, cfg.Compression.MaxAttempts)
}

func TestLoadWithFileEnvOverride(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: info
compression:
  provider: cli
`)

	t.Setenv("SESSIONTRIM_LOGGING_LEVEL", "error")
	t.Setenv("SESSIONTRIM_COMPRESSION_PROVIDER", "sdk")
	t.Setenv("SESSIONTRIM_COMPRESSION_API_KEY", "sk-env")
	t.Setenv("SESSIONTRIM_SOURCES_CLAUDE_ROOT", "/env/claude")

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Logging.Level, "environment wins over the file")
	assert.Equal(t, "sdk", cfg.Compression.Provider)
	assert.Equal(t, "sk-env", cfg.Compression.APIKey)
	assert.Equal(t, "/env/claude", cfg.Sources.ClaudeRoot)
}

func TestLoadWithFileInvalidYAML(t *testing.T) {
	path := writeConfig(t, "logging: [not a map")
	_, err := LoadWithFile(path)
	assert.Error(t, err)
}

func TestLoadWithFileValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad level", "logging:\n  level: loud\n"},
		{"bad format", "logging:\n  format: xml\n"},
		{"bad provider", "compression:\n  provider: telepathy\n"},
		{"negative rps", "compression:\n  requests_per_second: -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadWithFile(writeConfig(t, tt.yaml))
			assert.ErrorContains(t, err, "validation failed")
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	assert.NoError(t, cfg.Validate())

	cfg.Compression.Concurrency = 0
	assert.ErrorContains(t, cfg.Validate(), "concurrency")
}
