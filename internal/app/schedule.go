package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/shortrun/internal/schtasks"
)

var (
	scheduleAt    string
	scheduleEvery int
	scheduleDay   string
	scheduleDate  string
	scheduleIdle  int

	scheduleCmd = &cobra.Command{
		Use:   "schedule <alias> <trigger>",
		Short: "Schedule an alias to run automatically",
		Long: `Create a scheduled task that launches the alias. The trigger is one of:

  logon     at user logon
  startup   at system startup
  daily     every day at --at
  minute    every --every minutes (1-1439)
  hourly    every --every hours (1-168)
  weekly    every week on --day at --at
  monthly   every month on day --day at --at
  once      once at --date (must be in the future)
  onidle    after --idle minutes of idle time (1-999)

Times default to midnight when --at is omitted. Tasks run at the limited
run level under the current user; shortrun never schedules elevated tasks.`,
		Example: `  # Run a backup every day at 9
  shortrun schedule backup daily --at 09:00

  # Every 15 minutes
  shortrun schedule sync minute --every 15

  # Mondays at 8:30
  shortrun schedule report weekly --day MON --at 08:30

  # The 1st of every month
  shortrun schedule invoice monthly --day 1 --at 09:00

  # One shot
  shortrun schedule reminder once --date "2026-09-01 09:30"`,
		Args: cobra.ExactArgs(2),
		RunE: runSchedule,
	}
)

func init() {
	scheduleCmd.Flags().StringVar(&scheduleAt, "at", "", "time of day, HH:MM")
	scheduleCmd.Flags().IntVar(&scheduleEvery, "every", 0, "interval for minute/hourly triggers")
	scheduleCmd.Flags().StringVar(&scheduleDay, "day", "", "weekday (SUN..SAT) for weekly, day of month (1-31) for monthly")
	scheduleCmd.Flags().StringVar(&scheduleDate, "date", "", `date and time for once triggers, "2006-01-02 15:04"`)
	scheduleCmd.Flags().IntVar(&scheduleIdle, "idle", 0, "idle minutes for onidle triggers")
}

// triggerKinds maps the CLI trigger verbs onto scheduler kinds.
var triggerKinds = map[string]schtasks.Kind{
	"logon":   schtasks.KindLogon,
	"startup": schtasks.KindStartup,
	"daily":   schtasks.KindDaily,
	"minute":  schtasks.KindEveryMinute,
	"hourly":  schtasks.KindHourly,
	"weekly":  schtasks.KindWeekly,
	"monthly": schtasks.KindMonthly,
	"once":    schtasks.KindOnce,
	"onidle":  schtasks.KindOnIdle,
}

// buildTrigger translates the CLI flags into a trigger. Range validation is
// the scheduler package's job; this only parses.
func buildTrigger(kind string) (schtasks.Trigger, error) {
	k, ok := triggerKinds[strings.ToLower(kind)]
	if !ok {
		return schtasks.Trigger{}, fmt.Errorf("unknown trigger %q (one of: logon startup daily minute hourly weekly monthly once onidle)", kind)
	}

	tr := schtasks.Trigger{Kind: k}

	if scheduleAt != "" {
		at, err := schtasks.ParseTimeOfDay(scheduleAt)
		if err != nil {
			return schtasks.Trigger{}, err
		}
		tr.At = at
	}

	switch k {
	case schtasks.KindEveryMinute:
		tr.EveryMinutes = scheduleEvery
	case schtasks.KindHourly:
		tr.EveryHours = scheduleEvery
	case schtasks.KindWeekly:
		wd, err := parseWeekday(scheduleDay)
		if err != nil {
			return schtasks.Trigger{}, err
		}
		tr.Weekday = wd
	case schtasks.KindMonthly:
		var day int
		if _, err := fmt.Sscanf(scheduleDay, "%d", &day); err != nil {
			return schtasks.Trigger{}, fmt.Errorf("monthly triggers need --day 1-31, got %q", scheduleDay)
		}
		tr.MonthDay = day
	case schtasks.KindOnce:
		when, err := time.ParseInLocation("2006-01-02 15:04", scheduleDate, time.Local)
		if err != nil {
			return schtasks.Trigger{}, fmt.Errorf(`once triggers need --date "2006-01-02 15:04": %w`, err)
		}
		tr.DateTime = when
	case schtasks.KindOnIdle:
		tr.IdleMinutes = scheduleIdle
	}

	return tr, nil
}

var weekdayNames = map[string]time.Weekday{
	"SUN": time.Sunday, "MON": time.Monday, "TUE": time.Tuesday, "WED": time.Wednesday,
	"THU": time.Thursday, "FRI": time.Friday, "SAT": time.Saturday,
}

func parseWeekday(s string) (time.Weekday, error) {
	wd, ok := weekdayNames[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("weekly triggers need --day SUN..SAT, got %q", s)
	}
	return wd, nil
}

func runSchedule(cmd *cobra.Command, args []string) error {
	tr, err := buildTrigger(args[1])
	if err != nil {
		return err
	}

	o, closeJournal, err := newOrchestrator()
	if err != nil {
		return err
	}
	defer closeJournal()

	task, err := o.Schedule(cmd.Context(), args[0], tr)
	if err != nil {
		return err
	}

	fmt.Printf("Scheduled %q as task %s.\n", args[0], task.Name)
	return nil
}
