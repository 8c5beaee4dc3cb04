// Package scanner discovers installed-application candidates from the
// uninstall registry hives and the start-menu shortcut trees, then merges
// them into a unique, display-ordered candidate list.
package scanner

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/shortrun/internal/registry"
	"github.com/blackwell-systems/shortrun/internal/shortcut"
)

// Source identifies which sub-scan produced a candidate.
type Source string

const (
	SourceUninstallEntry    Source = "uninstall"
	SourceStartMenuShortcut Source = "startmenu"
)

// RawCandidate is a single discovery hit before deduplication.
type RawCandidate struct {
	DisplayName string
	ExePath     string
	IconPath    string
	Source      Source
}

// SourceDiag reports the outcome of one scan source. Err is the failure that
// stopped that source, nil when it ran to completion; per-item skips are not
// errors.
type SourceDiag struct {
	Source string
	Items  int
	Err    error
}

// Result is the output of one discovery pass.
type Result struct {
	Raw   []RawCandidate
	Diags []SourceDiag
}

// Hive is one uninstall registration scope to enumerate.
type Hive struct {
	Name string // diagnostic label, e.g. "uninstall-user"
	Repo registry.Repo
}

// Scanner walks the uninstall hives and start-menu directories. Every Scan
// call is a fresh pass; nothing is cached between calls. The two source sets
// run concurrently and a failure in one degrades to a partial result rather
// than aborting the other.
type Scanner struct {
	Hives         []Hive
	StartMenuDirs []string
	Resolver      shortcut.Resolver

	// Workers bounds concurrent shortcut resolutions. Zero means a small
	// default; resolution order is irrelevant since Dedupe orders the output.
	Workers int

	// IncludeUninstallers disables the uninstaller/setup name filter.
	IncludeUninstallers bool
}

// New returns a Scanner over the default per-user and machine-wide sources
// for this platform.
func New() *Scanner {
	return &Scanner{
		Hives:         defaultHives(),
		StartMenuDirs: DefaultStartMenuDirs(),
		Resolver:      shortcut.FileResolver{},
	}
}

const defaultWorkers = 8

// Scan runs both sub-scans to completion and returns the raw candidates with
// per-source diagnostics. The only fatal error is context cancellation;
// source-level failures are reported in Result.Diags.
func (s *Scanner) Scan(ctx context.Context) (*Result, error) {
	var (
		mu     sync.Mutex
		result Result
	)
	add := func(raw []RawCandidate, diags []SourceDiag) {
		mu.Lock()
		defer mu.Unlock()
		result.Raw = append(result.Raw, raw...)
		result.Diags = append(result.Diags, diags...)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		raw, diags, err := s.scanUninstall(gctx)
		add(raw, diags)
		return err
	})
	g.Go(func() error {
		raw, diags, err := s.scanStartMenu(gctx)
		add(raw, diags)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Scanner) workers() int {
	if s.Workers > 0 {
		return s.Workers
	}
	return defaultWorkers
}
