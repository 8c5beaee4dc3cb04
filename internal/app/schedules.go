package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/shortrun/internal/output"
)

var schedulesCmd = &cobra.Command{
	Use:   "schedules",
	Short: "List scheduled tasks",
	Long: `List every scheduled task shortrun manages, with its next run time as
reported by the scheduler. Tasks whose alias has been removed out of band
are marked as orphans; remove them with 'shortrun unschedule'.`,
	Args: cobra.NoArgs,
	RunE: runSchedules,
}

func runSchedules(cmd *cobra.Command, args []string) error {
	o, closeJournal, err := newOrchestrator()
	if err != nil {
		return err
	}
	defer closeJournal()

	schedules, err := o.Schedules(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Print(output.RenderScheduleTable(schedules))
	return nil
}
