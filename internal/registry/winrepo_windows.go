//go:build windows

package registry

import (
	"errors"
	"fmt"
	"syscall"

	"golang.org/x/sys/windows/registry"

	"github.com/blackwell-systems/shortrun/internal/alias"
)

// winRepo implements Repo over a live Windows registry hive. The store uses
// the per-user hive so no elevation is needed for the normal path; machine
// scope is exposed separately and surfaces AccessDenied when unprivileged.
type winRepo struct {
	root registry.Key
	wow  uint32 // extra access bits, e.g. KEY_WOW64_32KEY
}

// NewUserRepo returns a Repo rooted at HKEY_CURRENT_USER.
func NewUserRepo() Repo {
	return &winRepo{root: registry.CURRENT_USER}
}

// NewMachineRepo returns a Repo rooted at HKEY_LOCAL_MACHINE. Writes through
// this repo require elevation.
func NewMachineRepo() Repo {
	return &winRepo{root: registry.LOCAL_MACHINE}
}

// NewMachineRepo32 returns the 32-bit registry view of HKEY_LOCAL_MACHINE,
// where 32-bit installers register their uninstall records.
func NewMachineRepo32() Repo {
	return &winRepo{root: registry.LOCAL_MACHINE, wow: registry.WOW64_32KEY}
}

// wrapErr translates x/sys registry errors into the package sentinels.
func wrapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, registry.ErrNotExist):
		return ErrKeyNotFound
	case errors.Is(err, syscall.ERROR_ACCESS_DENIED):
		return fmt.Errorf("%w: %v", alias.ErrAccessDenied, err)
	default:
		return err
	}
}

func (r *winRepo) Subkeys(path string) ([]string, error) {
	k, err := registry.OpenKey(r.root, path, registry.ENUMERATE_SUB_KEYS|r.wow)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer k.Close()

	names, err := k.ReadSubKeyNames(-1)
	if err != nil {
		return nil, wrapErr(err)
	}
	return names, nil
}

func (r *winRepo) Values(path string) (map[string]string, error) {
	k, err := registry.OpenKey(r.root, path, registry.QUERY_VALUE|r.wow)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer k.Close()

	names, err := k.ReadValueNames(-1)
	if err != nil {
		return nil, wrapErr(err)
	}
	values := make(map[string]string, len(names))
	for _, name := range names {
		// Non-string values are skipped; the store only writes REG_SZ.
		if v, _, err := k.GetStringValue(name); err == nil {
			values[name] = v
		}
	}
	return values, nil
}

func (r *winRepo) CreateKey(path string, values map[string]string) error {
	k, existed, err := registry.CreateKey(r.root, path, registry.ALL_ACCESS|r.wow)
	if err != nil {
		return wrapErr(err)
	}
	defer k.Close()

	if existed {
		return ErrKeyExists
	}
	return r.writeValues(k, values)
}

func (r *winRepo) SetValues(path string, values map[string]string) error {
	k, _, err := registry.CreateKey(r.root, path, registry.ALL_ACCESS|r.wow)
	if err != nil {
		return wrapErr(err)
	}
	defer k.Close()

	// Drop values not present in the replacement set before writing.
	existing, err := k.ReadValueNames(-1)
	if err == nil {
		for _, name := range existing {
			if _, keep := values[name]; !keep {
				_ = k.DeleteValue(name)
			}
		}
	}
	return r.writeValues(k, values)
}

func (r *winRepo) writeValues(k registry.Key, values map[string]string) error {
	for name, v := range values {
		if err := k.SetStringValue(name, v); err != nil {
			return wrapErr(err)
		}
	}
	return nil
}

func (r *winRepo) DeleteKey(path string) error {
	return wrapErr(registry.DeleteKey(r.root, path))
}
