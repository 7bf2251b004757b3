package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/sessiontrim/internal/store"
)

var (
	listLimit int
	listJSON  bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List session logs under the configured source roots",
	Long: `List enumerates the session files sessiontrim can operate on,
newest first.

Examples:
  # Show the ten most recent sessions
  sessiontrim list --limit 10

  # Machine-readable output
  sessiontrim list --json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "maximum number of sessions to show (0 = all)")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "emit JSON instead of a table")
}

func runList(cmd *cobra.Command, args []string) error {
	_, log, st, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if !st.Available() {
		log.Warn("no session source roots found; check sources configuration")
	}

	result, err := st.List(store.ListOptions{Limit: listLimit, MaxSummary: 80})
	if err != nil {
		return err
	}
	for _, warning := range result.Warnings {
		log.Warn("skipped while listing", zap.Error(warning))
	}

	if listJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result.Summaries)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFORMAT\tMODIFIED\tENTRIES\tTITLE")
	for _, s := range result.Summaries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			s.ID, s.Format, s.Modified.Format("2006-01-02 15:04"), s.EntryCount, s.FirstUserText)
	}
	return w.Flush()
}
