package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	dbPath  string
	verbose bool

	// RootCmd is the root command for shortrun
	RootCmd = &cobra.Command{
		Use:   "shortrun",
		Short: "Run-dialog aliases and scheduling for installed applications",
		Long: `shortrun registers short aliases for applications so they can be launched
from the Win+R run dialog (e.g. type "note" instead of hunting for Notepad),
and schedules aliases to run automatically via the system task scheduler.

Aliases live in the per-user App Paths registry, so no PATH changes and no
elevation are needed. shortrun only ever touches entries it created itself.

Quick Start:
  1. shortrun discover              # find installed applications
  2. shortrun register note "C:\Windows\System32\notepad.exe"
  3. Win+R, type "note", Enter
  4. shortrun schedule backup daily --at 09:00

Examples:
  # List registered aliases
  shortrun list

  # Register an alias with arguments
  shortrun register logs "C:\Tools\tail.exe" --args "-f app.log"

  # Run a backup every Monday at 9
  shortrun schedule backup weekly --day MON --at 09:00

  # Remove an alias and all of its scheduled tasks
  shortrun unregister backup

  # Watch the start menu for newly installed applications
  shortrun watch`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("shortrun: run-dialog aliases and scheduling")
			fmt.Println()
			fmt.Println("Tip: Run 'shortrun discover' to find installed applications.")
			fmt.Println("     Run 'shortrun list' to see registered aliases.")
			fmt.Println("     Run 'shortrun --help' for all commands.")
			return nil
		},
	}
)

func init() {
	// Global flags
	RootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "journal database path (default: ~/.shortrun/shortrun.db)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	// Enable cobra's built-in suggestion feature for unknown subcommands
	RootCmd.SuggestionsMinimumDistance = 2

	// Register subcommands
	RootCmd.AddCommand(registerCmd)
	RootCmd.AddCommand(unregisterCmd)
	RootCmd.AddCommand(updateCmd)
	RootCmd.AddCommand(listCmd)
	RootCmd.AddCommand(discoverCmd)
	RootCmd.AddCommand(scheduleCmd)
	RootCmd.AddCommand(unscheduleCmd)
	RootCmd.AddCommand(schedulesCmd)
	RootCmd.AddCommand(historyCmd)
	RootCmd.AddCommand(watchCmd)
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}

// getDBPath returns the journal path, using the flag value or default
func getDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	shortrunDir := filepath.Join(home, ".shortrun")
	if err := os.MkdirAll(shortrunDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create shortrun directory: %w", err)
	}

	return filepath.Join(shortrunDir, "shortrun.db"), nil
}
