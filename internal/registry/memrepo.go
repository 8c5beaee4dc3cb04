package registry

import (
	"strings"
	"sync"

	"github.com/blackwell-systems/shortrun/internal/alias"
)

// MemRepo is a map-backed Repo used by tests and as a stand-in on platforms
// without a native registry. Paths are case-insensitive like the real store.
type MemRepo struct {
	mu   sync.Mutex
	keys map[string]memKey // folded path -> key

	// DenyWrites makes every mutating call fail with alias.ErrAccessDenied,
	// simulating a protected scope.
	DenyWrites bool
}

type memKey struct {
	name   string // original-case last path segment
	values map[string]string
}

// NewMemRepo returns an empty in-memory repository.
func NewMemRepo() *MemRepo {
	return &MemRepo{keys: make(map[string]memKey)}
}

func foldPath(path string) string {
	return strings.ToLower(strings.Trim(path, `\`))
}

// Seed creates or replaces a key without the access-control checks. Test
// fixture helper.
func (m *MemRepo) Seed(path string, values map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(path, values)
}

func (m *MemRepo) put(path string, values map[string]string) {
	segs := strings.Split(strings.Trim(path, `\`), `\`)
	cp := make(map[string]string, len(values))
	for k, v := range values {
		cp[k] = v
	}
	m.keys[foldPath(path)] = memKey{name: segs[len(segs)-1], values: cp}
	// Ensure ancestors exist so Subkeys on intermediate paths works.
	for i := 1; i < len(segs); i++ {
		p := strings.Join(segs[:i], `\`)
		if _, ok := m.keys[foldPath(p)]; !ok {
			m.keys[foldPath(p)] = memKey{name: segs[i-1], values: map[string]string{}}
		}
	}
}

// Subkeys implements Repo.
func (m *MemRepo) Subkeys(path string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prefix := foldPath(path)
	if _, ok := m.keys[prefix]; !ok {
		return nil, ErrKeyNotFound
	}
	var names []string
	for folded, k := range m.keys {
		rest, ok := strings.CutPrefix(folded, prefix+`\`)
		if !ok || strings.Contains(rest, `\`) {
			continue
		}
		names = append(names, k.name)
	}
	return names, nil
}

// Values implements Repo.
func (m *MemRepo) Values(path string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k, ok := m.keys[foldPath(path)]
	if !ok {
		return nil, ErrKeyNotFound
	}
	cp := make(map[string]string, len(k.values))
	for n, v := range k.values {
		cp[n] = v
	}
	return cp, nil
}

// CreateKey implements Repo.
func (m *MemRepo) CreateKey(path string, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.DenyWrites {
		return alias.ErrAccessDenied
	}
	if _, ok := m.keys[foldPath(path)]; ok {
		return ErrKeyExists
	}
	m.put(path, values)
	return nil
}

// SetValues implements Repo.
func (m *MemRepo) SetValues(path string, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.DenyWrites {
		return alias.ErrAccessDenied
	}
	m.put(path, values)
	return nil
}

// DeleteKey implements Repo.
func (m *MemRepo) DeleteKey(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.DenyWrites {
		return alias.ErrAccessDenied
	}
	folded := foldPath(path)
	if _, ok := m.keys[folded]; !ok {
		return ErrKeyNotFound
	}
	delete(m.keys, folded)
	return nil
}
