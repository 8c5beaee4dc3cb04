package app

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/shortrun/internal/output"
	"github.com/blackwell-systems/shortrun/internal/scanner"
	"github.com/blackwell-systems/shortrun/internal/watcher"
)

var (
	watchDebounce time.Duration

	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Watch the start menu for new applications",
		Long: `Watch the start-menu shortcut directories and print newly discovered
applications as installers add them. Useful right after installing
something: the new executable shows up here ready to be aliased.

Runs in the foreground until interrupted with Ctrl+C.`,
		Example: `  shortrun watch

  # Longer settle period for slow installers
  shortrun watch --debounce 10s`,
		Args: cobra.NoArgs,
		RunE: runWatch,
	}
)

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce, "quiet period before rescanning after a change")
}

func runWatch(cmd *cobra.Command, args []string) error {
	log := newLogger()

	s := scanner.New()
	known := make(map[string]bool)

	// Seed the known set so the first change only reports genuinely new
	// applications.
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if result, err := s.Scan(ctx); err == nil {
		for _, c := range scanner.Dedupe(result.Raw) {
			known[c.ExePath] = true
		}
	}

	w := &watcher.Watcher{
		Dirs:     scanner.DefaultStartMenuDirs(),
		Debounce: watchDebounce,
		Log:      log,
		OnChange: func(ctx context.Context) {
			result, err := s.Scan(ctx)
			if err != nil {
				log.Warn().Err(err).Msg("rescan failed")
				return
			}
			var fresh []scanner.Candidate
			for _, c := range scanner.Dedupe(result.Raw) {
				if !known[c.ExePath] {
					known[c.ExePath] = true
					fresh = append(fresh, c)
				}
			}
			if len(fresh) > 0 {
				fmt.Printf("\nNew applications:\n%s", output.RenderCandidateTable(fresh))
			}
		},
	}

	fmt.Println("Watching for new applications. Ctrl+C to stop.")
	err := w.Run(ctx)
	if errors.Is(err, context.Canceled) {
		fmt.Println("Stopped.")
		return nil
	}
	return err
}
