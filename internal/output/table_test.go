package output

import (
	"strings"
	"testing"
	"time"

	"github.com/blackwell-systems/shortrun/internal/alias"
	"github.com/blackwell-systems/shortrun/internal/core"
	"github.com/blackwell-systems/shortrun/internal/scanner"
	"github.com/blackwell-systems/shortrun/internal/schtasks"
	"github.com/blackwell-systems/shortrun/internal/store"
)

func TestRenderAliasTableEmpty(t *testing.T) {
	got := RenderAliasTable(nil)
	if got != "No aliases registered.\n" {
		t.Errorf("RenderAliasTable(nil) = %q", got)
	}
}

func TestRenderAliasTable(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	aliases := []alias.Alias{
		{Name: "note", TargetPath: `C:\Windows\System32\notepad.exe`},
		{Name: "zip", TargetPath: `C:\Program Files\7-Zip\7zFM.exe`, Arguments: "-r", WorkingDirectory: `C:\Work`},
	}

	got := RenderAliasTable(aliases)

	for _, want := range []string{
		"Alias", "Target", "Arguments", "Working Dir",
		"note", `C:\Windows\System32\notepad.exe`,
		"zip", "-r", `C:\Work`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRenderCandidateTable(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	candidates := []scanner.Candidate{
		{DisplayName: "7-Zip", ExePath: `C:\Program Files\7-Zip\7zFM.exe`, Source: scanner.SourceUninstallEntry},
		{DisplayName: "Paint.NET", ExePath: `C:\Program Files\paint.net\paintdotnet.exe`, Source: scanner.SourceStartMenuShortcut},
	}

	got := RenderCandidateTable(candidates)

	for _, want := range []string{"7-Zip", "uninstall", "Paint.NET", "startmenu"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRenderCandidateTableEmpty(t *testing.T) {
	got := RenderCandidateTable(nil)
	if got != "No applications found.\n" {
		t.Errorf("RenderCandidateTable(nil) = %q", got)
	}
}

func TestRenderDiags(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	diags := []scanner.SourceDiag{
		{Source: "uninstall-user", Items: 12},
		{Source: "uninstall-machine", Err: alias.ErrAccessDenied},
	}

	got := RenderDiags(diags)

	if !strings.Contains(got, "uninstall-user") || !strings.Contains(got, "12 items") {
		t.Errorf("output missing clean source line:\n%s", got)
	}
	if !strings.Contains(got, "uninstall-machine") || !strings.Contains(got, alias.ErrAccessDenied.Error()) {
		t.Errorf("output missing failed source line:\n%s", got)
	}
}

func TestRenderScheduleTable(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	schedules := []core.Schedule{
		{Task: schtasks.Task{Name: "ShortRun_backup_DAILY_0900", Alias: "backup", Kind: schtasks.KindDaily, NextRun: "3/11/2026 9:00:00 AM", Enabled: true}},
		{Task: schtasks.Task{Name: "ShortRun_note_LOGON", Alias: "note", Kind: schtasks.KindLogon}, Orphan: true},
		{Task: schtasks.Task{Name: "ShortRun_zip_ONIDLE_10m", Alias: "zip", Kind: schtasks.KindOnIdle, Enabled: false}},
	}

	got := RenderScheduleTable(schedules)

	for _, want := range []string{
		"ShortRun_backup_DAILY_0900", "3/11/2026 9:00:00 AM", "enabled",
		"ShortRun_note_LOGON", "orphan",
		"ShortRun_zip_ONIDLE_10m", "disabled",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRenderScheduleTableEmpty(t *testing.T) {
	got := RenderScheduleTable(nil)
	if got != "No scheduled tasks.\n" {
		t.Errorf("RenderScheduleTable(nil) = %q", got)
	}
}

func TestRenderHistoryTable(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	events := []*store.Event{
		{ID: 2, Op: store.OpUnschedule, Detail: "ShortRun_backup_DAILY_0900", Timestamp: time.Now().Add(-time.Minute)},
		{ID: 1, Op: store.OpRegister, Alias: "backup", Detail: `C:\Tools\backup.exe`, Timestamp: time.Now().Add(-2 * time.Hour)},
	}

	got := RenderHistoryTable(events)

	for _, want := range []string{"unschedule", "register", "backup", `C:\Tools\backup.exe`} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}

	// Unschedule events have no alias; the column shows a placeholder.
	if !strings.Contains(got, "—") {
		t.Errorf("output missing alias placeholder:\n%s", got)
	}
}

func TestRenderHistoryTableEmpty(t *testing.T) {
	got := RenderHistoryTable(nil)
	if got != "No recorded operations.\n" {
		t.Errorf("RenderHistoryTable(nil) = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly10c", 10, "exactly10c"},
		{"this is too long", 10, "this is..."},
		{"abc", 2, "ab"},
	}

	for _, tt := range tests {
		if got := truncate(tt.in, tt.maxLen); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
		}
	}
}
