//go:build !windows

package registry

// Non-Windows builds have no native registry; the user repo degrades to an
// in-memory store so the CLI remains exercisable in development. Nothing
// persists across processes.

// NewUserRepo returns the per-user repository for this platform.
func NewUserRepo() Repo {
	return NewMemRepo()
}

// NewMachineRepo returns the machine-wide repository for this platform.
func NewMachineRepo() Repo {
	return NewMemRepo()
}
