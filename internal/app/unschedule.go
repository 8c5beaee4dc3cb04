package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	unscheduleAlias string

	unscheduleCmd = &cobra.Command{
		Use:   "unschedule <task-name>",
		Short: "Delete a scheduled task",
		Long: `Delete one scheduled task by its full name (as shown by 'shortrun
schedules'), or every task for an alias with --alias.`,
		Example: `  # Delete one task
  shortrun unschedule ShortRun_backup_DAILY_0900

  # Delete all tasks for an alias
  shortrun unschedule --alias backup`,
		Args: cobra.MaximumNArgs(1),
		RunE: runUnschedule,
	}
)

func init() {
	unscheduleCmd.Flags().StringVar(&unscheduleAlias, "alias", "", "delete every task scheduled for this alias")
}

func runUnschedule(cmd *cobra.Command, args []string) error {
	if (len(args) == 0) == (unscheduleAlias == "") {
		return fmt.Errorf("pass either a task name or --alias")
	}

	o, closeJournal, err := newOrchestrator()
	if err != nil {
		return err
	}
	defer closeJournal()

	if unscheduleAlias != "" {
		if err := o.Tasks.DeleteAllFor(cmd.Context(), unscheduleAlias); err != nil {
			return err
		}
		fmt.Printf("Removed all scheduled tasks for %q.\n", unscheduleAlias)
		return nil
	}

	if err := o.Unschedule(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Printf("Removed task %s.\n", args[0])
	return nil
}
