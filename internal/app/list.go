package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/shortrun/internal/output"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered aliases",
	Long: `List every alias shortrun has registered, in name order. App Paths
entries created by installers or other tools are not shown.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	o, closeJournal, err := newOrchestrator()
	if err != nil {
		return err
	}
	defer closeJournal()

	aliases, err := o.Aliases.List()
	if err != nil {
		return fmt.Errorf("failed to list aliases: %w", err)
	}

	fmt.Print(output.RenderAliasTable(aliases))
	return nil
}
