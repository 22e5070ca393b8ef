// Package cli — history.go implements the "cargoci history" command.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ctfhacker/cargoci/internal/history"
	"github.com/ctfhacker/cargoci/internal/report"
)

// historyFlags holds the flag values for the history command.
type historyFlags struct {
	limit  int    // --limit: number of runs to show
	dbPath string // --db: history database override
}

// newHistoryCommand creates the "history" cobra command.
func newHistoryCommand() *cobra.Command {
	flags := &historyFlags{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent check runs",
		Long: `List recently recorded runs from the local history database,
newest first. Runs are recorded automatically by "cargoci run" unless
--no-record is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showHistory(cmd, flags)
		},
	}

	cmd.Flags().IntVarP(&flags.limit, "limit", "n", 10, "Maximum number of runs to show")
	cmd.Flags().StringVar(&flags.dbPath, "db", "", "History database path (default: user cache directory)")

	return cmd
}

// showHistory opens the store and renders the recent runs in the selected
// output format.
func showHistory(cmd *cobra.Command, flags *historyFlags) error {
	path := flags.dbPath
	if path == "" {
		var err error
		path, err = history.DefaultPath()
		if err != nil {
			return err
		}
	}

	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	runs, err := store.Recent(cmd.Context(), flags.limit)
	if err != nil {
		return err
	}

	switch {
	case jsonOutput:
		return report.JSONList(os.Stdout, runs)
	case yamlOutput:
		return report.YAMLList(os.Stdout, runs)
	default:
		if len(runs) == 0 {
			fmt.Println("No recorded runs.")
			return nil
		}
		report.TextList(os.Stdout, runs)
		return nil
	}
}
