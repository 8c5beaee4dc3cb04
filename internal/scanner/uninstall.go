package scanner

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// UninstallKey is the registry key holding one subkey per registered
// application, in every scope (per-user and machine-wide, 64- and 32-bit
// views).
const UninstallKey = `Software\Microsoft\Windows\CurrentVersion\Uninstall`

// Value names read from each uninstall record.
const (
	displayNameValue     = "DisplayName"
	displayIconValue     = "DisplayIcon"
	installLocationValue = "InstallLocation"
)

// uninstallerRe matches names that look like uninstall/setup/removal tools.
// Those are registered applications too, but never something a user wants an
// alias for.
var uninstallerRe = regexp.MustCompile(`(?i)(^|[^a-z])(uninstall(er)?|unins|setup|remove(r)?)([^a-z]|$)`)

// proxyNames are browser PWA proxy executables that show up as installed
// apps but only make sense when launched by the browser itself.
var proxyNames = map[string]bool{
	"chrome_proxy.exe": true,
	"brave_proxy.exe":  true,
	"msedge_proxy.exe": true,
	"edge_proxy.exe":   true,
	"opera_proxy.exe":  true,
}

func looksUninstaller(nameOrPath string) bool {
	return uninstallerRe.MatchString(filepath.Base(nameOrPath))
}

func isProxyExe(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	return proxyNames[base] || strings.HasSuffix(base, "_proxy.exe")
}

// scanUninstall enumerates every configured hive. A hive that cannot be
// opened (typically AccessDenied on the machine scope) is recorded in its
// diagnostic and the remaining hives still run; unreadable or unusable
// individual records are skipped silently.
func (s *Scanner) scanUninstall(ctx context.Context) ([]RawCandidate, []SourceDiag, error) {
	var (
		raw   []RawCandidate
		diags []SourceDiag
	)
	for _, hive := range s.Hives {
		diag := SourceDiag{Source: hive.Name}

		subkeys, err := hive.Repo.Subkeys(UninstallKey)
		if err != nil {
			diag.Err = err
			diags = append(diags, diag)
			continue
		}

		for _, sub := range subkeys {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
			values, err := hive.Repo.Values(UninstallKey + `\` + sub)
			if err != nil {
				continue
			}
			cand, ok := s.candidateFromRecord(values)
			if !ok {
				continue
			}
			raw = append(raw, cand)
			diag.Items++
		}
		diags = append(diags, diag)
	}
	return raw, diags, nil
}

// candidateFromRecord applies the executable-path heuristics to one
// uninstall record: an explicit install location is preferred, the icon
// reference is the fallback. Records lacking a resolvable executable yield
// no candidate.
func (s *Scanner) candidateFromRecord(values map[string]string) (RawCandidate, bool) {
	displayName := values[displayNameValue]
	if displayName == "" {
		return RawCandidate{}, false
	}

	exe := ""
	if loc := values[installLocationValue]; loc != "" && isDir(loc) {
		guess := filepath.Join(loc, displayName+".exe")
		if isFile(guess) {
			exe = guess
		}
	}
	if exe == "" {
		if p := exeFromIconRef(values[displayIconValue]); p != "" && isFile(p) {
			exe = p
		}
	}
	if exe == "" {
		return RawCandidate{}, false
	}

	if isProxyExe(exe) {
		return RawCandidate{}, false
	}
	if !s.IncludeUninstallers && (looksUninstaller(exe) || looksUninstaller(displayName)) {
		return RawCandidate{}, false
	}

	return RawCandidate{
		DisplayName: displayName,
		ExePath:     exe,
		IconPath:    exe,
		Source:      SourceUninstallEntry,
	}, true
}

// exeFromIconRef extracts an executable path from a DisplayIcon style value:
// an optionally quoted path, optionally followed by ",<icon index>".
func exeFromIconRef(ref string) string {
	s := strings.TrimSpace(ref)
	s = strings.Trim(s, `"`)
	if s == "" {
		return ""
	}
	idx := strings.LastIndex(strings.ToLower(s), ".exe")
	if idx < 0 {
		return ""
	}
	return s[:idx+4]
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
