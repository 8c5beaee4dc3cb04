package schtasks

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/blackwell-systems/shortrun/internal/alias"
)

// AliasSource resolves an alias name to its definition. Satisfied by
// *registry.Store.
type AliasSource interface {
	Get(name string) (alias.Alias, error)
}

// Task is one managed scheduled task, reconciled from live scheduler state.
type Task struct {
	Name    string // full scheduler task name
	Alias   string // parsed from the name
	Kind    Kind
	NextRun string // scheduler-reported next run time, verbatim
	Status  string
	Enabled bool
}

// DefaultTimeout bounds each scheduler invocation. The CLI can block on
// permission prompts in non-interactive sessions; on expiry the call is
// reported as timed out and the caller must re-query List to learn the
// actual resulting state.
const DefaultTimeout = 15 * time.Second

// Manager creates and destroys the OS scheduled tasks that launch aliases.
// It keeps no local task state: List always reflects the live scheduler.
type Manager struct {
	runner  Runner
	aliases AliasSource
	timeout time.Duration
	now     func() time.Time
}

// NewManager returns a Manager that resolves launch commands through aliases
// and talks to the scheduler through runner.
func NewManager(aliases AliasSource, runner Runner) *Manager {
	return &Manager{
		runner:  runner,
		aliases: aliases,
		timeout: DefaultTimeout,
		now:     time.Now,
	}
}

// SetTimeout overrides the per-invocation deadline. Zero restores the
// default.
func (m *Manager) SetTimeout(d time.Duration) {
	if d <= 0 {
		d = DefaultTimeout
	}
	m.timeout = d
}

// Create validates the trigger, resolves the alias launch command, and
// registers the task with the scheduler. The derived task name doubles as
// the handle for Delete/Update. Fails with alias.ErrNotFound,
// ErrInvalidTrigger, ErrTimeout, alias.ErrAccessDenied, or ErrRejected.
func (m *Manager) Create(ctx context.Context, aliasName string, tr Trigger) (Task, error) {
	if err := tr.Validate(m.now()); err != nil {
		return Task{}, err
	}
	a, err := m.aliases.Get(aliasName)
	if err != nil {
		return Task{}, err
	}

	name := TaskName(aliasName, tr)
	if _, err := m.run(ctx, createArgs(name, a.LaunchCommand(), tr)); err != nil {
		return Task{}, fmt.Errorf("create task %s: %w", name, err)
	}
	return Task{Name: name, Alias: aliasName, Kind: tr.Kind, Enabled: true}, nil
}

// Delete removes one task by name. Fails with ErrTaskNotFound when the
// scheduler has no such task.
func (m *Manager) Delete(ctx context.Context, taskName string) error {
	if _, err := m.run(ctx, []string{"/Delete", "/TN", taskName, "/F"}); err != nil {
		return fmt.Errorf("delete task %s: %w", taskName, err)
	}
	return nil
}

// Update replaces a task's trigger. Implemented as delete-then-recreate:
// the underlying scheduler's change semantics are partial-update ambiguous,
// and the task name itself encodes the trigger.
func (m *Manager) Update(ctx context.Context, taskName string, tr Trigger) (Task, error) {
	aliasName, _, ok := parseTaskName(taskName)
	if !ok {
		return Task{}, fmt.Errorf("%w: %s is not a managed task", ErrTaskNotFound, taskName)
	}
	if err := tr.Validate(m.now()); err != nil {
		return Task{}, err
	}
	if err := m.Delete(ctx, taskName); err != nil {
		return Task{}, err
	}
	return m.Create(ctx, aliasName, tr)
}

// DeleteAllFor removes every task namespaced under the alias. Used by the
// cascading alias-deletion path; tasks already gone are not errors.
func (m *Manager) DeleteAllFor(ctx context.Context, aliasName string) error {
	tasks, err := m.List(ctx)
	if err != nil {
		return err
	}
	var errs []error
	for _, t := range tasks {
		if !strings.EqualFold(t.Alias, sanitize(aliasName)) {
			continue
		}
		if err := m.Delete(ctx, t.Name); err != nil && !errors.Is(err, ErrTaskNotFound) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// List queries the live scheduler and returns the managed tasks ordered by
// name. Tasks created by external tooling are invisible; tasks whose alias
// no longer exists are still returned (the orchestrator flags those as
// orphans).
func (m *Manager) List(ctx context.Context) ([]Task, error) {
	out, err := m.run(ctx, []string{"/Query", "/FO", "CSV", "/NH"})
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}

	var tasks []Task
	r := csv.NewReader(strings.NewReader(out.Stdout))
	r.FieldsPerRecord = -1
	for {
		record, err := r.Read()
		if err != nil {
			break // EOF or a non-CSV info line; both end the useful output
		}
		if len(record) == 0 {
			continue
		}
		name := strings.TrimPrefix(strings.TrimSpace(record[0]), `\`)
		aliasName, kind, ok := parseTaskName(name)
		if !ok {
			continue
		}
		t := Task{Name: name, Alias: aliasName, Kind: kind}
		if len(record) > 1 {
			t.NextRun = strings.TrimSpace(record[1])
		}
		if len(record) > 2 {
			t.Status = strings.TrimSpace(record[2])
		}
		t.Enabled = !strings.EqualFold(t.Status, "disabled")
		tasks = append(tasks, t)
	}

	sort.Slice(tasks, func(i, j int) bool { return tasks[i].Name < tasks[j].Name })
	return tasks, nil
}

// run executes one scheduler invocation under the manager deadline and
// classifies the outcome.
func (m *Manager) run(ctx context.Context, args []string) (Output, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	out, err := m.runner.Run(ctx, args...)
	if errors.Is(err, context.DeadlineExceeded) {
		return out, ErrTimeout
	}
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrRejected, err)
	}
	return out, classify(out)
}

// classify maps a completed invocation to the error taxonomy. Privilege
// failures and missing tasks need different user-facing remediation than a
// scheduler refusal, so they are distinguished by diagnostic text.
func classify(out Output) error {
	if out.ExitCode == 0 {
		return nil
	}
	text := strings.ToLower(out.Stderr + " " + out.Stdout)
	switch {
	case strings.Contains(text, "access is denied") || strings.Contains(text, "access denied"):
		return alias.ErrAccessDenied
	case strings.Contains(text, "cannot find") || strings.Contains(text, "does not exist"):
		return ErrTaskNotFound
	default:
		return fmt.Errorf("%w: %s", ErrRejected, strings.TrimSpace(out.Stderr+out.Stdout))
	}
}

// createArgs renders the schtasks /Create invocation for a trigger. The
// task runs at the limited run level; this tool never escalates.
func createArgs(taskName, launchCmd string, tr Trigger) []string {
	args := []string{"/Create", "/TN", taskName}

	switch tr.Kind {
	case KindLogon:
		args = append(args, "/SC", "ONLOGON")
	case KindStartup:
		args = append(args, "/SC", "ONSTART")
	case KindDaily:
		args = append(args, "/SC", "DAILY", "/ST", tr.At.String())
	case KindEveryMinute:
		args = append(args, "/SC", "MINUTE", "/MO", fmt.Sprint(tr.EveryMinutes), "/ST", tr.At.String())
	case KindHourly:
		args = append(args, "/SC", "HOURLY", "/MO", fmt.Sprint(tr.EveryHours), "/ST", tr.At.String())
	case KindWeekly:
		args = append(args, "/SC", "WEEKLY", "/D", weekdayCodes[int(tr.Weekday)%7], "/ST", tr.At.String())
	case KindMonthly:
		args = append(args, "/SC", "MONTHLY", "/D", fmt.Sprint(tr.MonthDay), "/ST", tr.At.String())
	case KindOnce:
		args = append(args, "/SC", "ONCE", "/SD", tr.DateTime.Format("2006/01/02"), "/ST", tr.DateTime.Format("15:04"))
	case KindOnIdle:
		args = append(args, "/SC", "ONIDLE", "/I", fmt.Sprint(tr.IdleMinutes))
	}

	return append(args, "/TR", launchCmd, "/RL", "LIMITED", "/F")
}
