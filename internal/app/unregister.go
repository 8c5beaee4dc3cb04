package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

var unregisterCmd = &cobra.Command{
	Use:   "unregister <name>",
	Short: "Remove an alias and its scheduled tasks",
	Long: `Remove an alias from the App Paths registry. Every scheduled task that
launches the alias is deleted first, so nothing is left pointing at a name
that no longer resolves.

Only aliases created by shortrun can be removed; App Paths entries owned by
installers are refused.`,
	Example: `  shortrun unregister backup`,
	Args:    cobra.ExactArgs(1),
	RunE:    runUnregister,
}

func runUnregister(cmd *cobra.Command, args []string) error {
	o, closeJournal, err := newOrchestrator()
	if err != nil {
		return err
	}
	defer closeJournal()

	if err := o.Unregister(cmd.Context(), args[0]); err != nil {
		return err
	}

	fmt.Printf("Removed alias %q and its scheduled tasks.\n", args[0])
	return nil
}
