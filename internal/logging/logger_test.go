package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{
			name: "default config",
			cfg:  NewDefaultConfig(),
		},
		{
			name: "console format",
			cfg:  &Config{Level: "debug", Format: "console"},
		},
		{
			name: "constant fields",
			cfg: &Config{
				Level:  "info",
				Format: "json",
				Fields: map[string]string{"service": "sessiontrim"},
			},
		},
		{
			name:    "invalid level",
			cfg:     &Config{Level: "loud", Format: "json"},
			wantErr: true,
		},
		{
			name:    "invalid format",
			cfg:     &Config{Level: "info", Format: "xml"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, logger)
		})
	}
}

func TestLoggerChildren(t *testing.T) {
	logger := NewNop()

	named := logger.Named("parser")
	assert.NotNil(t, named)
	assert.NotSame(t, logger, named)

	withFields := logger.With()
	assert.NotNil(t, withFields)
}

func TestConfigValidate(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.Format = "console"
	require.NoError(t, cfg.Validate())
}
