// Package config provides configuration file parsing for shortrun.
package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/blackwell-systems/shortrun/internal/alias"
)

// Dir returns the shortrun config directory, respecting XDG_CONFIG_HOME.
// Defaults to ~/.config/shortrun if XDG_CONFIG_HOME is not set.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "shortrun"), nil
}

// LoadAliases reads an alias seed file and returns the declared aliases in
// file order. If the file does not exist, an empty list is returned without
// an error. Invalid or malformed lines are silently skipped.
//
// Each line declares one alias:
//
//	name = target [| arguments [| working directory]]
//
// Blank lines and lines starting with # are ignored.
func LoadAliases(path string) ([]alias.Alias, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var aliases []alias.Alias
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip blank lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Expect exactly one "=" separating the name from the launch spec.
		idx := strings.IndexByte(line, '=')
		if idx <= 0 {
			continue // no "=" or "=" is first character, invalid, skip
		}

		name := strings.TrimSpace(line[:idx])
		spec := strings.TrimSpace(line[idx+1:])
		if name == "" || spec == "" {
			continue // either side is blank, invalid, skip
		}

		a := alias.Alias{Name: name}
		parts := strings.SplitN(spec, "|", 3)
		a.TargetPath = strings.TrimSpace(parts[0])
		if len(parts) > 1 {
			a.Arguments = strings.TrimSpace(parts[1])
		}
		if len(parts) > 2 {
			a.WorkingDirectory = strings.TrimSpace(parts[2])
		}
		if a.TargetPath == "" {
			continue
		}

		aliases = append(aliases, a)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return aliases, nil
}

// DefaultAliasFile returns the default seed file path, {Dir}/aliases.
func DefaultAliasFile() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "aliases"), nil
}
