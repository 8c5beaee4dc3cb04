package core

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/blackwell-systems/shortrun/internal/alias"
	"github.com/blackwell-systems/shortrun/internal/scanner"
	"github.com/blackwell-systems/shortrun/internal/schtasks"
	"github.com/blackwell-systems/shortrun/internal/store"
)

// AliasStore is the alias registry surface the orchestrator drives.
// Satisfied by *registry.Store.
type AliasStore interface {
	Register(a alias.Alias) error
	Update(name string, a alias.Alias) error
	Unregister(name string) error
	Get(name string) (alias.Alias, error)
	List() ([]alias.Alias, error)
}

// TaskManager is the scheduler surface. Satisfied by *schtasks.Manager.
type TaskManager interface {
	Create(ctx context.Context, aliasName string, tr schtasks.Trigger) (schtasks.Task, error)
	Delete(ctx context.Context, taskName string) error
	Update(ctx context.Context, taskName string, tr schtasks.Trigger) (schtasks.Task, error)
	DeleteAllFor(ctx context.Context, aliasName string) error
	List(ctx context.Context) ([]schtasks.Task, error)
}

// Discoverer produces installed-application candidates. Satisfied by
// *scanner.Scanner.
type Discoverer interface {
	Scan(ctx context.Context) (*scanner.Result, error)
}

// Journal records completed operations. Satisfied by *store.Store.
type Journal interface {
	Append(event *store.Event) error
}

// Schedule is a live scheduled task joined against the alias registry.
// Orphan marks tasks whose alias has since been removed out of band.
type Schedule struct {
	schtasks.Task
	Orphan bool
}

// Orchestrator ties the alias registry, the scheduler, and discovery
// together and enforces the cross-cutting rules, most importantly that
// removing an alias also removes every task scheduled for it.
type Orchestrator struct {
	Aliases AliasStore
	Tasks   TaskManager
	Scanner Discoverer
	Journal Journal // optional
	Log     zerolog.Logger
}

// Discover runs one discovery pass and returns deduplicated candidates
// plus per-source diagnostics.
func (o *Orchestrator) Discover(ctx context.Context) ([]scanner.Candidate, []scanner.SourceDiag, error) {
	result, err := o.Scanner.Scan(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("discovery failed: %w", err)
	}
	return scanner.Dedupe(result.Raw), result.Diags, nil
}

// Register creates a new alias.
func (o *Orchestrator) Register(a alias.Alias) error {
	if err := o.Aliases.Register(a); err != nil {
		return err
	}
	o.journal(store.OpRegister, a.Name, a.TargetPath)
	return nil
}

// Update rewrites an existing alias. A rename leaves scheduled tasks
// behind under the old name; callers that rename should reschedule.
func (o *Orchestrator) Update(name string, a alias.Alias) error {
	if err := o.Aliases.Update(name, a); err != nil {
		return err
	}
	o.journal(store.OpUpdate, a.Name, a.TargetPath)
	return nil
}

// Unregister removes an alias and every task scheduled for it. The alias
// is verified first so a missing name fails before any task is touched;
// task deletion runs before alias removal so a scheduler failure leaves
// the alias intact for a retry.
func (o *Orchestrator) Unregister(ctx context.Context, name string) error {
	if _, err := o.Aliases.Get(name); err != nil {
		return err
	}
	if err := o.Tasks.DeleteAllFor(ctx, name); err != nil {
		return fmt.Errorf("removing tasks for %s: %w", name, err)
	}
	if err := o.Aliases.Unregister(name); err != nil {
		return err
	}
	o.journal(store.OpUnregister, name, "")
	return nil
}

// Schedule creates a scheduled task launching the alias.
func (o *Orchestrator) Schedule(ctx context.Context, aliasName string, tr schtasks.Trigger) (schtasks.Task, error) {
	task, err := o.Tasks.Create(ctx, aliasName, tr)
	if err != nil {
		return schtasks.Task{}, err
	}
	o.journal(store.OpSchedule, aliasName, task.Name)
	return task, nil
}

// Reschedule replaces the trigger of an existing task.
func (o *Orchestrator) Reschedule(ctx context.Context, taskName string, tr schtasks.Trigger) (schtasks.Task, error) {
	task, err := o.Tasks.Update(ctx, taskName, tr)
	if err != nil {
		return schtasks.Task{}, err
	}
	o.journal(store.OpSchedule, task.Alias, task.Name)
	return task, nil
}

// Unschedule deletes one scheduled task by name.
func (o *Orchestrator) Unschedule(ctx context.Context, taskName string) error {
	if err := o.Tasks.Delete(ctx, taskName); err != nil {
		return err
	}
	o.journal(store.OpUnschedule, "", taskName)
	return nil
}

// Schedules lists the managed tasks, marking as orphans those whose alias
// no longer resolves.
func (o *Orchestrator) Schedules(ctx context.Context) ([]Schedule, error) {
	tasks, err := o.Tasks.List(ctx)
	if err != nil {
		return nil, err
	}

	schedules := make([]Schedule, 0, len(tasks))
	for _, task := range tasks {
		s := Schedule{Task: task}
		if _, err := o.Aliases.Get(task.Alias); err != nil {
			s.Orphan = true
		}
		schedules = append(schedules, s)
	}
	return schedules, nil
}

// journal records an event best-effort. A journal failure never fails the
// operation it describes.
func (o *Orchestrator) journal(op, aliasName, detail string) {
	if o.Journal == nil {
		return
	}
	event := &store.Event{Op: op, Alias: aliasName, Detail: detail}
	if err := o.Journal.Append(event); err != nil {
		o.Log.Warn().Err(err).Str("op", op).Msg("journal append failed")
	}
}
