// Package alias defines the alias model shared by the registry store, the
// schedule manager, and the command surface, along with the error taxonomy
// those layers report.
package alias

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Sentinel errors surfaced across the alias registry and scheduler. Callers
// match them with errors.Is; the wrapped text carries the user-facing detail.
var (
	ErrInvalidName  = errors.New("invalid alias name")
	ErrDuplicate    = errors.New("alias already exists")
	ErrNotFound     = errors.New("alias not found")
	ErrAccessDenied = errors.New("access denied: relaunch with elevated privileges to write this scope")
)

// Alias maps a short name to a launchable command.
type Alias struct {
	Name             string
	TargetPath       string
	Arguments        string
	WorkingDirectory string
}

// nameRe matches the allowed alias charset: alphanumerics, hyphen and
// underscore, 1 to 64 characters.
var nameRe = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// reservedNames are Windows device names that the run prompt resolves before
// any App Paths lookup, so registering them would create a dead alias.
var reservedNames = map[string]bool{
	"con": true, "prn": true, "aux": true, "nul": true,
	"com1": true, "com2": true, "com3": true, "com4": true, "com5": true,
	"com6": true, "com7": true, "com8": true, "com9": true,
	"lpt1": true, "lpt2": true, "lpt3": true, "lpt4": true, "lpt5": true,
	"lpt6": true, "lpt7": true, "lpt8": true, "lpt9": true,
}

// ValidateName checks the alias charset, length, and reserved-word rules.
// Returns an error wrapping ErrInvalidName describing the violated rule.
func ValidateName(name string) error {
	if !nameRe.MatchString(name) {
		return fmt.Errorf("%w: %q must be 1-64 characters of letters, digits, hyphen or underscore", ErrInvalidName, name)
	}
	if reservedNames[strings.ToLower(name)] {
		return fmt.Errorf("%w: %q is a reserved device name", ErrInvalidName, name)
	}
	return nil
}

// NormalizeName folds an alias name for case-insensitive comparison. The
// backing store treats names differing only in case as the same alias.
func NormalizeName(name string) string {
	return strings.ToLower(name)
}

// WorkDir returns the effective working directory for a launch: the explicit
// WorkingDirectory when set, otherwise the target's containing directory.
func (a Alias) WorkDir() string {
	if a.WorkingDirectory != "" {
		return a.WorkingDirectory
	}
	return filepath.Dir(a.TargetPath)
}

// LaunchCommand renders the full command line the scheduler should execute:
// the quoted target path followed by the verbatim argument string.
func (a Alias) LaunchCommand() string {
	cmd := `"` + strings.Trim(a.TargetPath, `"`) + `"`
	if a.Arguments != "" {
		cmd += " " + a.Arguments
	}
	return cmd
}
