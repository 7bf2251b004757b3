// Package main implements the sessiontrim CLI for transforming stored
// coding-assistant session logs.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/sessiontrim/internal/config"
	"github.com/fyrsmithlabs/sessiontrim/internal/logging"
	"github.com/fyrsmithlabs/sessiontrim/internal/store"
)

var (
	// configPath overrides the default config file location.
	configPath string
	// logLevel overrides the configured logging level.
	logLevel string
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sessiontrim",
	Short: "Transform coding-assistant session logs into trimmed derivatives",
	Long: `sessiontrim rewrites stored assistant session logs into smaller
derivative sessions: old tool calls and thinking blocks are removed or
truncated, conversation text can be compressed through a summarizer,
and the result is written beside the source under a fresh session id.
The source file is never modified.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/sessiontrim/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.AddCommand(trimCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statsCmd)
}

// setup loads configuration and builds the logger and store shared by
// every command.
func setup() (*config.Config, *logging.Logger, *store.Store, error) {
	cfg, err := config.LoadWithFile(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	log, err := logging.NewLogger(&cfg.Logging)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("building logger: %w", err)
	}

	return cfg, log, store.New(cfg.Sources.ClaudeRoot, cfg.Sources.VSCodeRoot), nil
}
