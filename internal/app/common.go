package app

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/blackwell-systems/shortrun/internal/core"
	"github.com/blackwell-systems/shortrun/internal/registry"
	"github.com/blackwell-systems/shortrun/internal/scanner"
	"github.com/blackwell-systems/shortrun/internal/schtasks"
	"github.com/blackwell-systems/shortrun/internal/store"
)

// newLogger builds the CLI logger. Debug level with --verbose, warnings
// and above otherwise so table output stays clean.
func newLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

// newOrchestrator wires the live components: the per-user App Paths
// registry, the OS task scheduler, the default discovery sources, and the
// operation journal. A journal that cannot be opened degrades to a warning;
// alias and schedule operations do not depend on it.
func newOrchestrator() (*core.Orchestrator, func(), error) {
	log := newLogger()

	aliases := registry.NewStore(registry.NewUserRepo())

	o := &core.Orchestrator{
		Aliases: aliases,
		Tasks:   schtasks.NewManager(aliases, schtasks.ExecRunner{}),
		Scanner: scanner.New(),
		Log:     log,
	}

	closeJournal := func() {}
	journal, err := openJournal()
	if err != nil {
		log.Warn().Err(err).Msg("journal unavailable, operations will not be recorded")
	} else {
		o.Journal = journal
		closeJournal = func() { journal.Close() }
	}

	return o, closeJournal, nil
}

// openJournal opens the journal database and ensures its schema exists.
func openJournal() (*store.Store, error) {
	path, err := getDBPath()
	if err != nil {
		return nil, err
	}
	journal, err := store.New(path)
	if err != nil {
		return nil, err
	}
	if err := journal.CreateSchema(); err != nil {
		journal.Close()
		return nil, fmt.Errorf("failed to create journal schema: %w", err)
	}
	return journal, nil
}
