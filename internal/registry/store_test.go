package registry

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/blackwell-systems/shortrun/internal/alias"
)

func newTestStore(t *testing.T) (*Store, *MemRepo) {
	t.Helper()
	repo := NewMemRepo()
	return NewStore(repo), repo
}

func TestRegisterThenGet(t *testing.T) {
	s, _ := newTestStore(t)

	want := alias.Alias{
		Name:       "note",
		TargetPath: `C:\Windows\System32\notepad.exe`,
		Arguments:  "--new-window",
	}
	if err := s.Register(want); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	got, err := s.Get("note")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got != want {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}
}

func TestRegisterExplicitWorkingDirectory(t *testing.T) {
	s, _ := newTestStore(t)

	want := alias.Alias{
		Name:             "tool",
		TargetPath:       filepath.Join("apps", "tool", "tool.exe"),
		WorkingDirectory: filepath.Join("data", "tool"),
	}
	if err := s.Register(want); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	got, err := s.Get("tool")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got.WorkingDirectory != want.WorkingDirectory {
		t.Errorf("WorkingDirectory = %q, want %q", got.WorkingDirectory, want.WorkingDirectory)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	s, _ := newTestStore(t)

	a := alias.Alias{Name: "note", TargetPath: `C:\apps\notepad.exe`}
	if err := s.Register(a); err != nil {
		t.Fatalf("first Register() failed: %v", err)
	}

	err := s.Register(a)
	if !errors.Is(err, alias.ErrDuplicate) {
		t.Errorf("second Register() = %v, want ErrDuplicate", err)
	}
}

func TestRegisterDuplicateCaseInsensitive(t *testing.T) {
	s, _ := newTestStore(t)

	if err := s.Register(alias.Alias{Name: "note", TargetPath: `C:\apps\notepad.exe`}); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	err := s.Register(alias.Alias{Name: "NOTE", TargetPath: `C:\apps\other.exe`})
	if !errors.Is(err, alias.ErrDuplicate) {
		t.Errorf("Register() with case-variant name = %v, want ErrDuplicate", err)
	}
}

func TestRegisterInvalidName(t *testing.T) {
	s, _ := newTestStore(t)

	err := s.Register(alias.Alias{Name: "bad name!", TargetPath: `C:\apps\x.exe`})
	if !errors.Is(err, alias.ErrInvalidName) {
		t.Errorf("Register() = %v, want ErrInvalidName", err)
	}
}

func TestRegisterMissingTarget(t *testing.T) {
	s, _ := newTestStore(t)

	err := s.Register(alias.Alias{Name: "note"})
	if !errors.Is(err, alias.ErrInvalidName) {
		t.Errorf("Register() without target = %v, want ErrInvalidName", err)
	}
}

func TestRegisterAccessDenied(t *testing.T) {
	s, repo := newTestStore(t)
	repo.DenyWrites = true

	err := s.Register(alias.Alias{Name: "note", TargetPath: `C:\apps\x.exe`})
	if !errors.Is(err, alias.ErrAccessDenied) {
		t.Errorf("Register() on denied repo = %v, want ErrAccessDenied", err)
	}
}

func TestUnregister(t *testing.T) {
	s, _ := newTestStore(t)

	if err := s.Register(alias.Alias{Name: "note", TargetPath: `C:\Windows\System32\notepad.exe`}); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	if err := s.Unregister("note"); err != nil {
		t.Fatalf("Unregister() failed: %v", err)
	}

	_, err := s.Get("note")
	if !errors.Is(err, alias.ErrNotFound) {
		t.Errorf("Get() after Unregister() = %v, want ErrNotFound", err)
	}
}

func TestUnregisterNotFound(t *testing.T) {
	s, _ := newTestStore(t)

	err := s.Unregister("missing")
	if !errors.Is(err, alias.ErrNotFound) {
		t.Errorf("Unregister() = %v, want ErrNotFound", err)
	}
}

func TestUnregisterRefusesForeignEntry(t *testing.T) {
	s, repo := newTestStore(t)

	// An App Paths entry created by some installer, without our marker.
	repo.Seed(AppPathsKey+`\vendor.exe`, map[string]string{"": `C:\vendor\vendor.exe`})

	err := s.Unregister("vendor")
	if !errors.Is(err, alias.ErrAccessDenied) {
		t.Errorf("Unregister() on foreign entry = %v, want ErrAccessDenied", err)
	}
}

func TestGetIgnoresForeignEntry(t *testing.T) {
	s, repo := newTestStore(t)

	repo.Seed(AppPathsKey+`\vendor.exe`, map[string]string{"": `C:\vendor\vendor.exe`})

	_, err := s.Get("vendor")
	if !errors.Is(err, alias.ErrNotFound) {
		t.Errorf("Get() on foreign entry = %v, want ErrNotFound", err)
	}
}

func TestListOrderedAndFiltered(t *testing.T) {
	s, repo := newTestStore(t)

	for _, a := range []alias.Alias{
		{Name: "zip", TargetPath: `C:\apps\zip.exe`},
		{Name: "Alpha", TargetPath: `C:\apps\alpha.exe`},
		{Name: "note", TargetPath: `C:\apps\note.exe`},
	} {
		if err := s.Register(a); err != nil {
			t.Fatalf("Register(%s) failed: %v", a.Name, err)
		}
	}
	repo.Seed(AppPathsKey+`\vendor.exe`, map[string]string{"": `C:\vendor\vendor.exe`})

	aliases, err := s.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}

	var names []string
	for _, a := range aliases {
		names = append(names, a.Name)
	}
	want := []string{"Alpha", "note", "zip"}
	if len(names) != len(want) {
		t.Fatalf("List() returned %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestListEmptyStore(t *testing.T) {
	s, _ := newTestStore(t)

	aliases, err := s.List()
	if err != nil {
		t.Fatalf("List() on empty store failed: %v", err)
	}
	if len(aliases) != 0 {
		t.Errorf("List() = %v, want empty", aliases)
	}
}

func TestUpdateInPlace(t *testing.T) {
	s, _ := newTestStore(t)

	if err := s.Register(alias.Alias{Name: "note", TargetPath: `C:\apps\old.exe`}); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	if err := s.Update("note", alias.Alias{Name: "note", TargetPath: `C:\apps\new.exe`, Arguments: "-v"}); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}

	got, err := s.Get("note")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got.TargetPath != `C:\apps\new.exe` || got.Arguments != "-v" {
		t.Errorf("Get() after Update() = %+v", got)
	}
}

func TestUpdateRename(t *testing.T) {
	s, _ := newTestStore(t)

	if err := s.Register(alias.Alias{Name: "note", TargetPath: `C:\apps\note.exe`}); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	if err := s.Update("note", alias.Alias{Name: "pad", TargetPath: `C:\apps\note.exe`}); err != nil {
		t.Fatalf("Update() rename failed: %v", err)
	}

	if _, err := s.Get("note"); !errors.Is(err, alias.ErrNotFound) {
		t.Errorf("Get(old name) = %v, want ErrNotFound", err)
	}
	if _, err := s.Get("pad"); err != nil {
		t.Errorf("Get(new name) failed: %v", err)
	}
}

func TestUpdateRenameToExistingFails(t *testing.T) {
	s, _ := newTestStore(t)

	if err := s.Register(alias.Alias{Name: "note", TargetPath: `C:\apps\note.exe`}); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	if err := s.Register(alias.Alias{Name: "pad", TargetPath: `C:\apps\pad.exe`}); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	err := s.Update("note", alias.Alias{Name: "pad", TargetPath: `C:\apps\note.exe`})
	if !errors.Is(err, alias.ErrDuplicate) {
		t.Errorf("Update() rename onto existing = %v, want ErrDuplicate", err)
	}
	// Old alias must survive the failed rename.
	if _, err := s.Get("note"); err != nil {
		t.Errorf("Get(old name) after failed rename = %v, want nil", err)
	}
}

func TestUpdateNotFound(t *testing.T) {
	s, _ := newTestStore(t)

	err := s.Update("missing", alias.Alias{Name: "missing", TargetPath: `C:\apps\x.exe`})
	if !errors.Is(err, alias.ErrNotFound) {
		t.Errorf("Update() = %v, want ErrNotFound", err)
	}
}
