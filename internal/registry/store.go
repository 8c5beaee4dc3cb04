package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/blackwell-systems/shortrun/internal/alias"
)

// AppPathsKey is the per-user key the Windows run prompt consults to resolve
// a bare name to an executable. One subkey `<alias>.exe` exists per alias.
const AppPathsKey = `Software\Microsoft\Windows\CurrentVersion\App Paths`

// Value names written under each alias subkey. The marker distinguishes
// entries this tool owns from App Paths entries created by installers; the
// store never lists or deletes unmarked entries.
const (
	markerName  = "ShortRun"
	markerValue = "1"

	pathValueName = "Path"
	argsValueName = "Arguments"
)

// Store is the persistent alias registry. It holds no cache: every operation
// re-reads the backing repository, which is the single source of truth and
// may be modified concurrently by external tools.
type Store struct {
	repo Repo
}

// NewStore returns a Store over the given repository.
func NewStore(repo Repo) *Store {
	return &Store{repo: repo}
}

// subkeyName returns the App Paths subkey for an alias. The run prompt
// resolves names without an extension, but the App Paths entry itself must
// carry the .exe suffix.
func subkeyName(name string) string {
	return name + ".exe"
}

func keyPath(name string) string {
	return AppPathsKey + `\` + subkeyName(name)
}

func valuesFor(a alias.Alias) map[string]string {
	values := map[string]string{
		"":            a.TargetPath,
		pathValueName: a.WorkDir(),
		markerName:    markerValue,
	}
	if a.Arguments != "" {
		values[argsValueName] = a.Arguments
	}
	return values
}

// Register validates the alias and performs an atomic create-or-fail write.
// Fails with alias.ErrInvalidName, alias.ErrDuplicate, or
// alias.ErrAccessDenied.
func (s *Store) Register(a alias.Alias) error {
	if err := alias.ValidateName(a.Name); err != nil {
		return err
	}
	if a.TargetPath == "" {
		return fmt.Errorf("%w: target path is required", alias.ErrInvalidName)
	}

	err := s.repo.CreateKey(keyPath(a.Name), valuesFor(a))
	if errors.Is(err, ErrKeyExists) {
		existing, getErr := s.Get(a.Name)
		if getErr == nil {
			return fmt.Errorf("%w: %q already points to %s", alias.ErrDuplicate, a.Name, existing.TargetPath)
		}
		return fmt.Errorf("%w: %q", alias.ErrDuplicate, a.Name)
	}
	if err != nil {
		return fmt.Errorf("register %q: %w", a.Name, err)
	}
	return nil
}

// Update replaces the definition stored under name. When the new definition
// carries a different name the rename is modeled as create-then-delete, since
// the underlying key is name-addressed. Fails with alias.ErrNotFound when
// name is not a managed alias.
func (s *Store) Update(name string, a alias.Alias) error {
	if err := alias.ValidateName(a.Name); err != nil {
		return err
	}
	if a.TargetPath == "" {
		return fmt.Errorf("%w: target path is required", alias.ErrInvalidName)
	}
	if _, err := s.Get(name); err != nil {
		return err
	}

	if alias.NormalizeName(name) == alias.NormalizeName(a.Name) {
		if err := s.repo.SetValues(keyPath(name), valuesFor(a)); err != nil {
			return fmt.Errorf("update %q: %w", name, err)
		}
		return nil
	}

	// Rename: create the new key first so a failure leaves the old alias
	// intact rather than losing the entry.
	if err := s.Register(a); err != nil {
		return err
	}
	return s.Unregister(name)
}

// Unregister removes a managed alias. Entries without the ownership marker
// are refused with alias.ErrAccessDenied rather than deleted, matching the
// rule that this tool never destroys App Paths entries it did not create.
func (s *Store) Unregister(name string) error {
	values, err := s.repo.Values(keyPath(name))
	if errors.Is(err, ErrKeyNotFound) {
		return fmt.Errorf("%w: %q", alias.ErrNotFound, name)
	}
	if err != nil {
		return fmt.Errorf("unregister %q: %w", name, err)
	}
	if values[markerName] != markerValue {
		return fmt.Errorf("%w: %q was not created by shortrun", alias.ErrAccessDenied, name)
	}
	if err := s.repo.DeleteKey(keyPath(name)); err != nil {
		return fmt.Errorf("unregister %q: %w", name, err)
	}
	return nil
}

// Get returns the managed alias stored under name, or alias.ErrNotFound.
// Unmarked App Paths entries are invisible to Get.
func (s *Store) Get(name string) (alias.Alias, error) {
	values, err := s.repo.Values(keyPath(name))
	if errors.Is(err, ErrKeyNotFound) {
		return alias.Alias{}, fmt.Errorf("%w: %q", alias.ErrNotFound, name)
	}
	if err != nil {
		return alias.Alias{}, fmt.Errorf("get %q: %w", name, err)
	}
	if values[markerName] != markerValue {
		return alias.Alias{}, fmt.Errorf("%w: %q", alias.ErrNotFound, name)
	}
	return aliasFrom(name, values), nil
}

// List returns all managed aliases ordered by name (case-insensitive) for
// deterministic display.
func (s *Store) List() ([]alias.Alias, error) {
	subkeys, err := s.repo.Subkeys(AppPathsKey)
	if errors.Is(err, ErrKeyNotFound) {
		return nil, nil // key absent until the first alias is registered
	}
	if err != nil {
		return nil, fmt.Errorf("list aliases: %w", err)
	}

	var aliases []alias.Alias
	for _, sub := range subkeys {
		values, err := s.repo.Values(AppPathsKey + `\` + sub)
		if err != nil {
			continue // entry vanished or unreadable; skip it
		}
		if values[markerName] != markerValue {
			continue
		}
		name := strings.TrimSuffix(sub, ".exe")
		aliases = append(aliases, aliasFrom(name, values))
	}

	sort.Slice(aliases, func(i, j int) bool {
		return alias.NormalizeName(aliases[i].Name) < alias.NormalizeName(aliases[j].Name)
	})
	return aliases, nil
}

func aliasFrom(name string, values map[string]string) alias.Alias {
	a := alias.Alias{
		Name:       name,
		TargetPath: values[""],
		Arguments:  values[argsValueName],
	}
	// The Path value is always written (the run prompt uses it as the launch
	// working directory); only surface it as an explicit setting when it
	// differs from the default derived from the target.
	if dir := values[pathValueName]; dir != "" && dir != a.WorkDir() {
		a.WorkingDirectory = dir
	}
	return a
}
