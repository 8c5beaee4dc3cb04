package scanner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/blackwell-systems/shortrun/internal/alias"
	"github.com/blackwell-systems/shortrun/internal/registry"
)

// writeExe creates a dummy executable file and returns its path.
func writeExe(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("MZ"), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func seedUninstallRecord(repo *registry.MemRepo, key string, values map[string]string) {
	repo.Seed(UninstallKey+`\`+key, values)
}

func TestScanUninstallPrefersInstallLocation(t *testing.T) {
	dir := t.TempDir()
	fromLoc := writeExe(t, dir, "MyApp.exe")
	iconExe := writeExe(t, dir, "other.exe")

	repo := registry.NewMemRepo()
	seedUninstallRecord(repo, "MyApp", map[string]string{
		displayNameValue:     "MyApp",
		installLocationValue: dir,
		displayIconValue:     iconExe + ",0",
	})

	s := &Scanner{Hives: []Hive{{Name: "uninstall-user", Repo: repo}}}
	res, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() failed: %v", err)
	}
	if len(res.Raw) != 1 {
		t.Fatalf("Scan() found %d candidates, want 1", len(res.Raw))
	}
	if res.Raw[0].ExePath != fromLoc {
		t.Errorf("ExePath = %q, want install-location derived %q", res.Raw[0].ExePath, fromLoc)
	}
}

func TestScanUninstallFallsBackToIconRef(t *testing.T) {
	dir := t.TempDir()
	iconExe := writeExe(t, dir, "app.exe")

	repo := registry.NewMemRepo()
	seedUninstallRecord(repo, "App", map[string]string{
		displayNameValue: "App",
		displayIconValue: `"` + iconExe + `",0`,
	})

	s := &Scanner{Hives: []Hive{{Name: "uninstall-user", Repo: repo}}}
	res, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() failed: %v", err)
	}
	if len(res.Raw) != 1 {
		t.Fatalf("Scan() found %d candidates, want 1", len(res.Raw))
	}
	if res.Raw[0].ExePath != iconExe {
		t.Errorf("ExePath = %q, want icon-derived %q", res.Raw[0].ExePath, iconExe)
	}
	if res.Raw[0].Source != SourceUninstallEntry {
		t.Errorf("Source = %s", res.Raw[0].Source)
	}
}

func TestScanUninstallSkipsUnresolvable(t *testing.T) {
	repo := registry.NewMemRepo()
	seedUninstallRecord(repo, "NoName", map[string]string{
		displayIconValue: `C:\nowhere\app.exe`,
	})
	seedUninstallRecord(repo, "NoExe", map[string]string{
		displayNameValue: "NoExe",
	})
	seedUninstallRecord(repo, "DanglingIcon", map[string]string{
		displayNameValue: "DanglingIcon",
		displayIconValue: filepath.Join(t.TempDir(), "gone.exe"),
	})

	s := &Scanner{Hives: []Hive{{Name: "uninstall-user", Repo: repo}}}
	res, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() failed: %v", err)
	}
	if len(res.Raw) != 0 {
		t.Errorf("Scan() = %v, want no candidates", res.Raw)
	}
}

func TestScanUninstallFiltersUninstallersAndProxies(t *testing.T) {
	dir := t.TempDir()
	unins := writeExe(t, dir, "unins000.exe")
	proxy := writeExe(t, dir, "chrome_proxy.exe")
	app := writeExe(t, dir, "app.exe")

	repo := registry.NewMemRepo()
	seedUninstallRecord(repo, "A", map[string]string{displayNameValue: "Tool Uninstaller", displayIconValue: unins})
	seedUninstallRecord(repo, "B", map[string]string{displayNameValue: "Some PWA", displayIconValue: proxy})
	seedUninstallRecord(repo, "C", map[string]string{displayNameValue: "Real App", displayIconValue: app})

	s := &Scanner{Hives: []Hive{{Name: "uninstall-user", Repo: repo}}}
	res, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() failed: %v", err)
	}
	if len(res.Raw) != 1 || res.Raw[0].DisplayName != "Real App" {
		t.Errorf("Scan() = %+v, want only Real App", res.Raw)
	}

	// With the filter disabled the uninstaller comes through (the proxy
	// exclusion is unconditional).
	s.IncludeUninstallers = true
	res, err = s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() failed: %v", err)
	}
	if len(res.Raw) != 2 {
		t.Errorf("Scan() with IncludeUninstallers = %d candidates, want 2", len(res.Raw))
	}
}

func TestScanUninstallHiveFailureIsPartial(t *testing.T) {
	dir := t.TempDir()
	app := writeExe(t, dir, "app.exe")

	okRepo := registry.NewMemRepo()
	seedUninstallRecord(okRepo, "App", map[string]string{displayNameValue: "App", displayIconValue: app})

	// A hive whose root key cannot be opened at all.
	deniedRepo := registry.NewMemRepo()

	s := &Scanner{Hives: []Hive{
		{Name: "uninstall-machine", Repo: deniedRepo},
		{Name: "uninstall-user", Repo: okRepo},
	}}
	res, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() failed: %v", err)
	}

	if len(res.Raw) != 1 {
		t.Fatalf("Scan() found %d candidates, want 1 from the healthy hive", len(res.Raw))
	}
	var machineDiag, userDiag *SourceDiag
	for i := range res.Diags {
		switch res.Diags[i].Source {
		case "uninstall-machine":
			machineDiag = &res.Diags[i]
		case "uninstall-user":
			userDiag = &res.Diags[i]
		}
	}
	if machineDiag == nil || machineDiag.Err == nil {
		t.Error("expected a diagnostic error for the failed machine hive")
	}
	if userDiag == nil || userDiag.Err != nil || userDiag.Items != 1 {
		t.Errorf("user hive diagnostic = %+v, want 1 item and no error", userDiag)
	}
}

func TestScanCancellation(t *testing.T) {
	repo := registry.NewMemRepo()
	for i := 0; i < 50; i++ {
		seedUninstallRecord(repo, string(rune('a'+i%26))+"x", map[string]string{displayNameValue: "App"})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &Scanner{Hives: []Hive{{Name: "uninstall-user", Repo: repo}}}
	_, err := s.Scan(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Scan() on cancelled context = %v, want context.Canceled", err)
	}
}

func TestExeFromIconRef(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`C:\Apps\app.exe`, `C:\Apps\app.exe`},
		{`C:\Apps\app.exe,0`, `C:\Apps\app.exe`},
		{`"C:\Apps\app.exe",1`, `C:\Apps\app.exe`},
		{`  "C:\Apps\app.exe"  `, `C:\Apps\app.exe`},
		{`C:\Apps\app.ico`, ``},
		{``, ``},
	}
	for _, tt := range tests {
		if got := exeFromIconRef(tt.in); got != tt.want {
			t.Errorf("exeFromIconRef(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// The access-denied shape a real machine hive produces flows through as a
// diagnostic, not a scan failure.
func TestScanUninstallAccessDeniedDiag(t *testing.T) {
	s := &Scanner{Hives: []Hive{{Name: "uninstall-machine", Repo: deniedRepo{}}}}
	res, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() failed: %v", err)
	}
	if len(res.Diags) != 1 || !errors.Is(res.Diags[0].Err, alias.ErrAccessDenied) {
		t.Errorf("Diags = %+v, want access-denied diagnostic", res.Diags)
	}
}

type deniedRepo struct{}

func (deniedRepo) Subkeys(string) ([]string, error)          { return nil, alias.ErrAccessDenied }
func (deniedRepo) Values(string) (map[string]string, error)  { return nil, alias.ErrAccessDenied }
func (deniedRepo) CreateKey(string, map[string]string) error { return alias.ErrAccessDenied }
func (deniedRepo) SetValues(string, map[string]string) error { return alias.ErrAccessDenied }
func (deniedRepo) DeleteKey(string) error                    { return alias.ErrAccessDenied }
