// Package watcher observes the start-menu shortcut trees and fires a
// callback when their contents settle after a change. Installers drop and
// rewrite several files in quick succession, so events are debounced and
// the callback sees only the quiet period after the churn.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is the quiet period after the last relevant event before
// OnChange fires.
const DefaultDebounce = 2 * time.Second

// Watcher watches shortcut directories recursively. fsnotify does not watch
// recursively on its own, so every subdirectory is registered individually
// and directories created while watching are added on the fly.
type Watcher struct {
	Dirs     []string
	Debounce time.Duration

	// OnChange runs after a burst of shortcut changes settles. It must not
	// block for long; Run delays further callbacks until it returns.
	OnChange func(ctx context.Context)

	Log zerolog.Logger
}

// Run watches until ctx is cancelled. Directories that do not exist at
// start are skipped; at least one must be watchable.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer fsw.Close()

	watched := 0
	for _, dir := range w.Dirs {
		n, err := addTree(fsw, dir)
		if err != nil {
			w.Log.Warn().Str("dir", dir).Err(err).Msg("cannot watch directory")
			continue
		}
		watched += n
	}
	if watched == 0 {
		return fmt.Errorf("no watchable directories among %v", w.Dirs)
	}
	w.Log.Info().Int("dirs", watched).Msg("watching shortcut directories")

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	// The timer stays stopped until a relevant event arrives.
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(fsw, event) {
				continue
			}
			w.Log.Debug().Str("op", event.Op.String()).Str("path", event.Name).Msg("shortcut change")
			timer.Reset(debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.Log.Warn().Err(err).Msg("watch error")

		case <-timer.C:
			if w.OnChange != nil {
				w.OnChange(ctx)
			}
		}
	}
}

// relevant reports whether the event should trigger a rescan, registering
// newly created directories as a side effect.
func (w *Watcher) relevant(fsw *fsnotify.Watcher, event fsnotify.Event) bool {
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if _, err := addTree(fsw, event.Name); err != nil {
				w.Log.Warn().Str("dir", event.Name).Err(err).Msg("cannot watch new directory")
			}
			return true
		}
	}
	if strings.EqualFold(filepath.Ext(event.Name), ".lnk") {
		return event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write) ||
			event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename)
	}
	return false
}

// addTree registers root and every subdirectory under it, returning the
// number of directories added.
func addTree(fsw *fsnotify.Watcher, root string) (int, error) {
	added := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return fs.SkipDir
		}
		if !d.IsDir() {
			return nil
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		added++
		return nil
	})
	if err != nil {
		return added, err
	}
	return added, nil
}
