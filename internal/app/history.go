package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/shortrun/internal/output"
	"github.com/blackwell-systems/shortrun/internal/store"
)

var (
	historyLimit int
	historyAlias string

	historyCmd = &cobra.Command{
		Use:   "history",
		Short: "Show recorded operations",
		Long: `Show the operation journal: registrations, updates, removals, and
scheduling changes, newest first. The journal is local bookkeeping; it is
not consulted when resolving aliases.`,
		Example: `  # Last 20 operations
  shortrun history

  # Everything recorded for one alias
  shortrun history --alias backup`,
		Args: cobra.NoArgs,
		RunE: runHistory,
	}
)

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of events to show")
	historyCmd.Flags().StringVar(&historyAlias, "alias", "", "show only events for this alias")
}

func runHistory(cmd *cobra.Command, args []string) error {
	journal, err := openJournal()
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer journal.Close()

	var events []*store.Event
	if historyAlias != "" {
		events, err = journal.ForAlias(historyAlias)
	} else {
		events, err = journal.Recent(historyLimit)
	}
	if err != nil {
		return err
	}

	fmt.Print(output.RenderHistoryTable(events))
	return nil
}
