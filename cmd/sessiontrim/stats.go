package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/sessiontrim/internal/session"
	"github.com/fyrsmithlabs/sessiontrim/internal/transform"
)

var statsCmd = &cobra.Command{
	Use:   "stats <session-id-or-path>",
	Short: "Show size and composition statistics for a session log",
	Long: `Stats reports turn count, entry count, and estimated token usage
per content category for a session, without modifying anything.

Example:
  sessiontrim stats abc123`,
	Args: cobra.ExactArgs(1),
	RunE: runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	_, log, st, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	path, err := st.Resolve(args[0])
	if err != nil {
		return err
	}

	sess, err := session.ParseFile(path)
	if err != nil {
		return err
	}

	report := struct {
		SessionID  string               `json:"sessionId"`
		Path       string               `json:"path"`
		Format     session.Format       `json:"format"`
		EntryCount int                  `json:"entryCount"`
		TurnCount  int                  `json:"turnCount"`
		Tokens     transform.TokenStats `json:"estimatedTokens"`
	}{
		SessionID:  sess.ID,
		Path:       path,
		Format:     sess.Format,
		EntryCount: len(sess.Entries),
		TurnCount:  len(transform.IdentifyTurns(sess.Entries)),
		Tokens:     transform.ComputeTokenStats(sess.Entries),
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
