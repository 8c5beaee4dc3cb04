// Package schtasks manages the OS-level scheduled tasks that launch aliases,
// through the schtasks.exe command-line surface. It owns the abstract trigger
// model, the deterministic task naming scheme, and the translation of both
// into scheduler invocations.
package schtasks

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Sentinel errors for schedule operations.
var (
	ErrInvalidTrigger = errors.New("invalid trigger")
	ErrRejected       = errors.New("scheduler rejected the request")
	ErrTimeout        = errors.New("scheduler command timed out")
	ErrTaskNotFound   = errors.New("scheduled task not found")
)

// Kind discriminates the trigger variants. The values double as the
// discriminator embedded in derived task names.
type Kind string

const (
	KindLogon       Kind = "LOGON"
	KindStartup     Kind = "ONSTART"
	KindDaily       Kind = "DAILY"
	KindEveryMinute Kind = "MINUTE"
	KindHourly      Kind = "HOURLY"
	KindWeekly      Kind = "WEEKLY"
	KindMonthly     Kind = "MONTHLY"
	KindOnce        Kind = "ONCE"
	KindOnIdle      Kind = "ONIDLE"
)

var allKinds = map[Kind]bool{
	KindLogon: true, KindStartup: true, KindDaily: true,
	KindEveryMinute: true, KindHourly: true, KindWeekly: true,
	KindMonthly: true, KindOnce: true, KindOnIdle: true,
}

// TimeOfDay is a wall-clock trigger time.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "HH:MM" (24-hour).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: time must be HH:MM, got %q", ErrInvalidTrigger, s)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t TimeOfDay) valid() bool {
	return t.Hour >= 0 && t.Hour <= 23 && t.Minute >= 0 && t.Minute <= 59
}

// compact renders the time for embedding in a task name.
func (t TimeOfDay) compact() string {
	return fmt.Sprintf("%02d%02d", t.Hour, t.Minute)
}

// Trigger is the abstract description of when a scheduled launch fires.
// Kind selects the variant; only the fields that variant names are read.
type Trigger struct {
	Kind Kind

	// At is the fire time for Daily/Weekly/Monthly and the start time for
	// EveryMinute/Hourly.
	At TimeOfDay

	EveryMinutes int          // EveryMinute: interval, 1-1439
	EveryHours   int          // Hourly: interval, 1-168
	Weekday      time.Weekday // Weekly
	MonthDay     int          // Monthly: 1-31
	DateTime     time.Time    // Once
	IdleMinutes  int          // OnIdle: 1-999
}

// Validate checks the trigger before any scheduler invocation. now anchors
// the staleness check for one-shot triggers: a Once trigger in the past is
// rejected here rather than silently creating a task that will never fire.
func (tr Trigger) Validate(now time.Time) error {
	switch tr.Kind {
	case KindLogon, KindStartup:
		return nil
	case KindDaily:
		return tr.requireTime()
	case KindEveryMinute:
		if tr.EveryMinutes < 1 || tr.EveryMinutes > 1439 {
			return fmt.Errorf("%w: minute interval must be 1-1439, got %d", ErrInvalidTrigger, tr.EveryMinutes)
		}
		return tr.requireTime()
	case KindHourly:
		if tr.EveryHours < 1 || tr.EveryHours > 168 {
			return fmt.Errorf("%w: hour interval must be 1-168, got %d", ErrInvalidTrigger, tr.EveryHours)
		}
		return tr.requireTime()
	case KindWeekly:
		if tr.Weekday < time.Sunday || tr.Weekday > time.Saturday {
			return fmt.Errorf("%w: invalid weekday %d", ErrInvalidTrigger, tr.Weekday)
		}
		return tr.requireTime()
	case KindMonthly:
		if tr.MonthDay < 1 || tr.MonthDay > 31 {
			return fmt.Errorf("%w: month day must be 1-31, got %d", ErrInvalidTrigger, tr.MonthDay)
		}
		return tr.requireTime()
	case KindOnce:
		if tr.DateTime.IsZero() {
			return fmt.Errorf("%w: once trigger requires a datetime", ErrInvalidTrigger)
		}
		if !tr.DateTime.After(now) {
			return fmt.Errorf("%w: %s is in the past", ErrInvalidTrigger, tr.DateTime.Format("2006-01-02 15:04"))
		}
		return nil
	case KindOnIdle:
		if tr.IdleMinutes < 1 || tr.IdleMinutes > 999 {
			return fmt.Errorf("%w: idle minutes must be 1-999, got %d", ErrInvalidTrigger, tr.IdleMinutes)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidTrigger, tr.Kind)
	}
}

func (tr Trigger) requireTime() error {
	if !tr.At.valid() {
		return fmt.Errorf("%w: invalid time of day %02d:%02d", ErrInvalidTrigger, tr.At.Hour, tr.At.Minute)
	}
	return nil
}

// weekdayCodes maps Go weekdays to schtasks /D codes.
var weekdayCodes = [7]string{"SUN", "MON", "TUE", "WED", "THU", "FRI", "SAT"}

// taskNamePrefix namespaces every task this tool creates; enumeration and
// cascading deletion key off it.
const taskNamePrefix = "ShortRun_"

var sanitizeRe = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

func sanitize(s string) string {
	s = sanitizeRe.ReplaceAllString(strings.TrimSpace(s), "_")
	if len(s) > 60 {
		s = s[:60]
	}
	return s
}

// TaskName derives the scheduler task name for an alias and trigger. The
// name is deterministic and unique per (alias, trigger) so that re-creating
// the same schedule overwrites rather than accumulates.
func TaskName(aliasName string, tr Trigger) string {
	name := taskNamePrefix + sanitize(aliasName) + "_" + string(tr.Kind)
	switch tr.Kind {
	case KindDaily:
		name += "_" + tr.At.compact()
	case KindEveryMinute:
		name += fmt.Sprintf("_every%d_%s", tr.EveryMinutes, tr.At.compact())
	case KindHourly:
		name += fmt.Sprintf("_every%d_%s", tr.EveryHours, tr.At.compact())
	case KindWeekly:
		name += "_" + weekdayCodes[int(tr.Weekday)%7] + "_" + tr.At.compact()
	case KindMonthly:
		name += fmt.Sprintf("_%02d_%s", tr.MonthDay, tr.At.compact())
	case KindOnce:
		name += "_" + tr.DateTime.Format("20060102_1504")
	case KindOnIdle:
		name += fmt.Sprintf("_%dm", tr.IdleMinutes)
	}
	return name
}

// aliasPrefix returns the task-name prefix shared by every schedule of one
// alias.
func aliasPrefix(aliasName string) string {
	return taskNamePrefix + sanitize(aliasName) + "_"
}

// parseTaskName splits a managed task name back into alias and kind. The
// alias may itself contain underscores, so the kind is located as the last
// path segment matching a known discriminator.
func parseTaskName(name string) (aliasName string, kind Kind, ok bool) {
	rest, found := strings.CutPrefix(name, taskNamePrefix)
	if !found {
		return "", "", false
	}
	segs := strings.Split(rest, "_")
	for i := len(segs) - 1; i >= 1; i-- {
		if allKinds[Kind(segs[i])] {
			return strings.Join(segs[:i], "_"), Kind(segs[i]), true
		}
	}
	return "", "", false
}
