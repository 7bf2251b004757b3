package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/sessiontrim/internal/compression"
	"github.com/fyrsmithlabs/sessiontrim/internal/session"
	"github.com/fyrsmithlabs/sessiontrim/internal/transform"
)

var (
	toolRemoval     int
	toolMode        string
	thinkingRemoval int
	compressSpec    string
	dryRun          bool
)

var trimCmd = &cobra.Command{
	Use:   "trim <session-id-or-path>",
	Short: "Produce a trimmed derivative of a session log",
	Long: `Trim rewrites a session log into a new, smaller session file.

The session argument is a session id searched under the configured
source roots, or a direct path to a .jsonl or .json session file.

Removal percentages address the oldest turns: --tool-removal 50 cleans
tool activity from the first half of the conversation and leaves the
recent half intact.

Compression bands hand conversation text to a summarizer, for example
--compress "0-30:heavy-compress,30-70:compress".

Examples:
  # Remove old tool calls and all thinking blocks
  sessiontrim trim abc123 --tool-removal 50 --thinking-removal 100

  # Truncate tool payloads instead of deleting them
  sessiontrim trim abc123 --tool-removal 100 --tool-mode truncate

  # Additionally compress old conversation text
  sessiontrim trim ./session.jsonl --compress "0-50:compress"

  # Report what would happen without writing anything
  sessiontrim trim abc123 --tool-removal 50 --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runTrim,
}

func init() {
	trimCmd.Flags().IntVar(&toolRemoval, "tool-removal", 0, "percentage of oldest turns to clean tool content from (0-100)")
	trimCmd.Flags().StringVar(&toolMode, "tool-mode", "remove", "tool handling: remove or truncate")
	trimCmd.Flags().IntVar(&thinkingRemoval, "thinking-removal", 0, "percentage of oldest turns to strip thinking blocks from (0-100)")
	trimCmd.Flags().StringVar(&compressSpec, "compress", "", `compression bands, e.g. "0-30:heavy-compress,30-70:compress"`)
	trimCmd.Flags().BoolVar(&dryRun, "dry-run", false, "compute statistics without writing output")
}

func runTrim(cmd *cobra.Command, args []string) error {
	cfg, log, st, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	bands, err := parseBands(compressSpec)
	if err != nil {
		return err
	}

	path, err := st.Resolve(args[0])
	if err != nil {
		return err
	}

	sess, err := session.ParseFile(path)
	if err != nil {
		return err
	}

	var provider compression.Provider
	if len(bands) > 0 {
		provider, err = compression.NewProvider(cfg.Compression, log)
		if err != nil {
			return err
		}
	}

	svc := transform.NewService(provider, cfg.Compression, log)
	result, err := svc.Trim(cmd.Context(), sess, transform.TrimOptions{
		Removal: transform.RemovalOptions{
			ToolRemoval:      toolRemoval,
			ToolHandlingMode: transform.ToolHandlingMode(toolMode),
			ThinkingRemoval:  thinkingRemoval,
		},
		Bands:  bands,
		DryRun: dryRun,
	})
	if err != nil {
		return err
	}

	report := struct {
		NewSessionID string          `json:"newSessionId"`
		OutputPath   string          `json:"outputPath"`
		DryRun       bool            `json:"dryRun,omitempty"`
		Stats        transform.Stats `json:"stats"`
	}{
		NewSessionID: result.NewSessionID,
		OutputPath:   result.OutputPath,
		DryRun:       dryRun,
		Stats:        result.Stats,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// parseBands parses the --compress flag: comma-separated
// start-end:level ranges with percentages from 0 to 100.
func parseBands(spec string) ([]compression.Band, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, nil
	}

	var bands []compression.Band
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		rangePart, level, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("invalid band %q: expected start-end:level", part)
		}
		startStr, endStr, ok := strings.Cut(rangePart, "-")
		if !ok {
			return nil, fmt.Errorf("invalid band range %q: expected start-end", rangePart)
		}
		start, err := strconv.Atoi(strings.TrimSpace(startStr))
		if err != nil {
			return nil, fmt.Errorf("invalid band start %q: %w", startStr, err)
		}
		end, err := strconv.Atoi(strings.TrimSpace(endStr))
		if err != nil {
			return nil, fmt.Errorf("invalid band end %q: %w", endStr, err)
		}
		bands = append(bands, compression.Band{
			Start: start,
			End:   end,
			Level: compression.Level(strings.TrimSpace(level)),
		})
	}

	if err := compression.ValidateBands(bands); err != nil {
		return nil, err
	}
	return bands, nil
}
