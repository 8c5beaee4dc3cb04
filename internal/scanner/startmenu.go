package scanner

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// scanStartMenu walks each configured start-menu directory, collecting .lnk
// files, then resolves them through a bounded worker pool. Resolution
// failures (malformed links, store/UWP links, dangling targets) skip the
// item; a directory that cannot be walked is reported in its diagnostic.
func (s *Scanner) scanStartMenu(ctx context.Context) ([]RawCandidate, []SourceDiag, error) {
	var (
		raw   []RawCandidate
		diags []SourceDiag
	)
	for _, dir := range s.StartMenuDirs {
		diag := SourceDiag{Source: "startmenu:" + dir}

		links, err := collectShortcuts(ctx, dir)
		if err != nil {
			if ctx.Err() != nil {
				return nil, nil, ctx.Err()
			}
			diag.Err = err
			diags = append(diags, diag)
			continue
		}

		resolved, err := s.resolveShortcuts(ctx, links)
		if err != nil {
			return nil, nil, err
		}
		raw = append(raw, resolved...)
		diag.Items = len(resolved)
		diags = append(diags, diag)
	}
	return raw, diags, nil
}

// collectShortcuts returns every .lnk under root. A missing root is not an
// error; the per-user and shared start menus do not both exist on every
// machine.
func collectShortcuts(ctx context.Context, root string) ([]string, error) {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil, nil
	}
	var links []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtree; keep walking the rest.
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".lnk") {
			links = append(links, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return links, nil
}

// resolveShortcuts fans the links out over the worker pool. Order of results
// is arbitrary; the final ordering comes from Dedupe.
func (s *Scanner) resolveShortcuts(ctx context.Context, links []string) ([]RawCandidate, error) {
	var (
		mu  sync.Mutex
		raw []RawCandidate
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers())

	for _, link := range links {
		link := link
		if err := gctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			cand, ok := s.candidateFromShortcut(link)
			if !ok {
				return nil
			}
			mu.Lock()
			raw = append(raw, cand)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return raw, nil
}

func (s *Scanner) candidateFromShortcut(link string) (RawCandidate, bool) {
	name := strings.TrimSuffix(filepath.Base(link), filepath.Ext(link))
	if !s.IncludeUninstallers && looksUninstaller(name) {
		return RawCandidate{}, false
	}

	target, err := s.Resolver.Resolve(link)
	if err != nil {
		return RawCandidate{}, false
	}
	if !isFile(target.Path) {
		return RawCandidate{}, false // dangling shortcut
	}
	if isProxyExe(target.Path) {
		return RawCandidate{}, false
	}
	if !s.IncludeUninstallers && looksUninstaller(target.Path) {
		return RawCandidate{}, false
	}

	icon := target.IconLocation
	if icon == "" {
		icon = target.Path
	}
	return RawCandidate{
		DisplayName: name,
		ExePath:     target.Path,
		IconPath:    icon,
		Source:      SourceStartMenuShortcut,
	}, true
}

// DefaultStartMenuDirs returns the shared and per-user start-menu program
// directories for this machine. Directories whose environment roots are
// unset are omitted.
func DefaultStartMenuDirs() []string {
	var dirs []string
	if pd := os.Getenv("ProgramData"); pd != "" {
		dirs = append(dirs, filepath.Join(pd, "Microsoft", "Windows", "Start Menu", "Programs"))
	}
	if ad := os.Getenv("APPDATA"); ad != "" {
		dirs = append(dirs, filepath.Join(ad, "Microsoft", "Windows", "Start Menu", "Programs"))
	}
	return dirs
}
