package store

import "time"

// Operation names recorded in the journal.
const (
	OpRegister   = "register"
	OpUpdate     = "update"
	OpUnregister = "unregister"
	OpSchedule   = "schedule"
	OpUnschedule = "unschedule"
)

// Event is one journaled operation against an alias.
type Event struct {
	ID        int64
	Op        string
	Alias     string
	Detail    string // free-form, e.g. target path or task name
	Timestamp time.Time
}
