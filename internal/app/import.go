package app

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/shortrun/internal/alias"
	"github.com/blackwell-systems/shortrun/internal/config"
)

var (
	importFile string

	importCmd = &cobra.Command{
		Use:   "import",
		Short: "Register aliases from a seed file",
		Long: `Register every alias declared in a seed file. The default file is
{config dir}/aliases (respecting XDG_CONFIG_HOME); one alias per line:

  name = target [| arguments [| working directory]]

Aliases that already exist are skipped, so the file can be re-imported
after edits to pick up additions. Useful for replicating a setup across
machines.`,
		Example: `  # Import from the default seed file
  shortrun import

  # Import from an explicit file
  shortrun import --file aliases.txt`,
		Args: cobra.NoArgs,
		RunE: runImport,
	}
)

func init() {
	importCmd.Flags().StringVar(&importFile, "file", "", "seed file path (default: {config dir}/aliases)")
	RootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	path := importFile
	if path == "" {
		var err error
		path, err = config.DefaultAliasFile()
		if err != nil {
			return err
		}
	}

	aliases, err := config.LoadAliases(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(aliases) == 0 {
		fmt.Printf("No aliases declared in %s.\n", path)
		return nil
	}

	o, closeJournal, err := newOrchestrator()
	if err != nil {
		return err
	}
	defer closeJournal()

	added, skipped, failed := 0, 0, 0
	for _, a := range aliases {
		switch err := o.Register(a); {
		case err == nil:
			added++
		case errors.Is(err, alias.ErrDuplicate):
			skipped++
		default:
			failed++
			fmt.Printf("  %s: %v\n", a.Name, err)
		}
	}

	fmt.Printf("Imported %d aliases (%d already present, %d failed).\n", added, skipped, failed)
	if failed > 0 {
		return fmt.Errorf("%d aliases could not be registered", failed)
	}
	return nil
}
