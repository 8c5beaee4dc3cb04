package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/shortrun/internal/output"
	"github.com/blackwell-systems/shortrun/internal/scanner"
)

var (
	discoverIncludeUninstallers bool
	discoverShowDiags           bool

	discoverCmd = &cobra.Command{
		Use:   "discover",
		Short: "Find installed applications to alias",
		Long: `Scan the uninstall registry hives and the start-menu shortcut trees for
installed applications with a resolvable executable. Results from both
sources are merged, one entry per executable.

Uninstallers and installer proxy stubs are filtered out by default.
Sources that cannot be read (e.g. a hive denied by policy) degrade to a
partial result; pass --diags to see per-source outcomes.`,
		Example: `  # List installed applications
  shortrun discover

  # Include uninstaller entries
  shortrun discover --include-uninstallers

  # Show per-source diagnostics
  shortrun discover --diags`,
		Args: cobra.NoArgs,
		RunE: runDiscover,
	}
)

func init() {
	discoverCmd.Flags().BoolVar(&discoverIncludeUninstallers, "include-uninstallers", false, "do not filter uninstaller entries")
	discoverCmd.Flags().BoolVar(&discoverShowDiags, "diags", false, "show per-source scan diagnostics")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	o, closeJournal, err := newOrchestrator()
	if err != nil {
		return err
	}
	defer closeJournal()

	s := scanner.New()
	s.IncludeUninstallers = discoverIncludeUninstallers
	o.Scanner = s

	spinner := output.NewSpinner("Scanning installed applications")
	spinner.Start()

	candidates, diags, err := o.Discover(cmd.Context())
	spinner.Stop()
	if err != nil {
		return err
	}

	fmt.Print(output.RenderCandidateTable(candidates))
	fmt.Printf("\n%d applications found.\n", len(candidates))

	if discoverShowDiags {
		fmt.Println("\nSources:")
		fmt.Print(output.RenderDiags(diags))
	}

	return nil
}
