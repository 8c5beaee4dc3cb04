// Package registry implements the persistent alias store on top of a small
// key-value repository abstraction. The production repository is the per-user
// Windows registry (App Paths indirection); tests and non-Windows builds use
// the in-memory repository.
package registry

import "errors"

// Repository-level sentinels. Implementations translate their native error
// codes into these (plus alias.ErrAccessDenied for privilege failures).
var (
	ErrKeyNotFound = errors.New("registry key not found")
	ErrKeyExists   = errors.New("registry key already exists")
)

// Repo is a minimal view of a hierarchical string key-value store, addressed
// by backslash-separated paths relative to a fixed per-user root. Key lookup
// is case-insensitive, matching Windows registry semantics.
//
// The empty value name ("") addresses the key's default value.
type Repo interface {
	// Subkeys lists the immediate child key names of path, in no particular
	// order. A missing path yields ErrKeyNotFound.
	Subkeys(path string) ([]string, error)

	// Values returns all string values of the key at path.
	Values(path string) (map[string]string, error)

	// CreateKey atomically creates the key at path with the given values,
	// failing with ErrKeyExists if the key is already present.
	CreateKey(path string, values map[string]string) error

	// SetValues creates or replaces the key at path with the given values.
	SetValues(path string, values map[string]string) error

	// DeleteKey removes the key at path and its values. A missing path
	// yields ErrKeyNotFound.
	DeleteKey(path string) error
}
