package scanner

import (
	"path/filepath"
	"sort"
	"strings"
)

// Candidate is a deduplicated, presentation-ready discovery result.
type Candidate struct {
	DisplayName string
	ExePath     string
	IconPath    string
	Source      Source
}

// normalizeExe folds an executable path for equality comparison: relative
// segments resolved, separators cleaned, case folded (target filesystems are
// case-insensitive).
func normalizeExe(path string) string {
	return strings.ToLower(filepath.Clean(path))
}

// Dedupe merges raw candidates into a unique candidate list: one entry per
// normalized executable path, uninstall-entry metadata winning over
// start-menu metadata (richer display names), ordered by display name for
// deterministic presentation. Pure function; calling it twice on the same
// input yields identical output.
func Dedupe(raw []RawCandidate) []Candidate {
	byPath := make(map[string]RawCandidate, len(raw))
	for _, rc := range raw {
		if rc.ExePath == "" {
			continue
		}
		key := normalizeExe(rc.ExePath)
		prev, seen := byPath[key]
		if !seen {
			byPath[key] = rc
			continue
		}
		// UninstallEntry beats StartMenuShortcut; within a source, first
		// seen wins to keep the pass stable.
		if prev.Source == SourceStartMenuShortcut && rc.Source == SourceUninstallEntry {
			byPath[key] = rc
		}
	}

	out := make([]Candidate, 0, len(byPath))
	for _, rc := range byPath {
		out = append(out, Candidate(rc))
	}
	sort.Slice(out, func(i, j int) bool {
		ni, nj := strings.ToLower(out[i].DisplayName), strings.ToLower(out[j].DisplayName)
		if ni != nj {
			return ni < nj
		}
		return normalizeExe(out[i].ExePath) < normalizeExe(out[j].ExePath)
	})
	return out
}
