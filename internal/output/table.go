// Package output provides terminal output utilities for shortrun.
//
// This package includes:
//   - Table rendering for aliases, discovery candidates, scheduled tasks,
//     and the operation history
//   - A spinner for indeterminate operations such as discovery scans
//
// Table rendering uses ASCII characters and ANSI color codes for terminal
// output. Color is suppressed when stdout is not a TTY or NO_COLOR is set.
package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/blackwell-systems/shortrun/internal/alias"
	"github.com/blackwell-systems/shortrun/internal/core"
	"github.com/blackwell-systems/shortrun/internal/scanner"
	"github.com/blackwell-systems/shortrun/internal/store"
)

// ANSI color codes for status display
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorGray   = "\033[90m"
)

// IsColorEnabled returns true if ANSI color codes should be emitted.
// It checks that os.Stdout is a TTY and that the NO_COLOR env var is not set.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// colorize wraps text in the given ANSI color code if color is enabled,
// otherwise returns the plain text.
func colorize(color, text string) string {
	if IsColorEnabled() {
		return color + text + colorReset
	}
	return text
}

// RenderAliasTable renders the registered aliases. The input is expected to
// be pre-sorted (the registry lists aliases in name order).
func RenderAliasTable(aliases []alias.Alias) string {
	if len(aliases) == 0 {
		return "No aliases registered.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-18s %-44s %-20s %s\n",
		"Alias", "Target", "Arguments", "Working Dir"))
	sb.WriteString(strings.Repeat("─", 100))
	sb.WriteString("\n")

	for _, a := range aliases {
		sb.WriteString(fmt.Sprintf("%-18s %-44s %-20s %s\n",
			truncate(a.Name, 18),
			truncate(a.TargetPath, 44),
			truncate(a.Arguments, 20),
			truncate(a.WorkDir(), 30)))
	}

	return sb.String()
}

// RenderCandidateTable renders discovery candidates with their source.
func RenderCandidateTable(candidates []scanner.Candidate) string {
	if len(candidates) == 0 {
		return "No applications found.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-30s %-52s %s\n",
		"Application", "Executable", "Source"))
	sb.WriteString(strings.Repeat("─", 92))
	sb.WriteString("\n")

	for _, c := range candidates {
		sb.WriteString(fmt.Sprintf("%-30s %-52s %s\n",
			truncate(c.DisplayName, 30),
			truncate(c.ExePath, 52),
			c.Source))
	}

	return sb.String()
}

// RenderDiags renders per-source diagnostics for a discovery pass. Sources
// that completed cleanly report their item count; failed sources show the
// error in red.
func RenderDiags(diags []scanner.SourceDiag) string {
	var sb strings.Builder
	for _, d := range diags {
		if d.Err != nil {
			sb.WriteString(fmt.Sprintf("  %-22s %s\n", d.Source, colorize(colorRed, d.Err.Error())))
			continue
		}
		sb.WriteString(fmt.Sprintf("  %-22s %d items\n", d.Source, d.Items))
	}
	return sb.String()
}

// RenderScheduleTable renders the managed scheduled tasks. Orphaned tasks
// (alias removed out of band) are marked so the user can clean them up.
func RenderScheduleTable(schedules []core.Schedule) string {
	if len(schedules) == 0 {
		return "No scheduled tasks.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-36s %-14s %-10s %-22s %s\n",
		"Task", "Alias", "Trigger", "Next Run", "Status"))
	sb.WriteString(strings.Repeat("─", 96))
	sb.WriteString("\n")

	for _, s := range schedules {
		nextRun := s.NextRun
		if nextRun == "" {
			nextRun = "—"
		}

		status := formatScheduleStatus(s)

		sb.WriteString(fmt.Sprintf("%-36s %-14s %-10s %-22s %s\n",
			truncate(s.Name, 36),
			truncate(s.Alias, 14),
			s.Kind,
			truncate(nextRun, 22),
			status))
	}

	return sb.String()
}

func formatScheduleStatus(s core.Schedule) string {
	switch {
	case s.Orphan:
		return colorize(colorRed, "⚠ orphan")
	case !s.Enabled:
		return colorize(colorGray, "disabled")
	default:
		return colorize(colorGreen, "enabled")
	}
}

// RenderHistoryTable renders journaled operations, newest first as the
// journal returns them.
func RenderHistoryTable(events []*store.Event) string {
	if len(events) == 0 {
		return "No recorded operations.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-14s %-12s %-16s %s\n",
		"When", "Operation", "Alias", "Detail"))
	sb.WriteString(strings.Repeat("─", 80))
	sb.WriteString("\n")

	for _, e := range events {
		aliasName := e.Alias
		if aliasName == "" {
			aliasName = "—"
		}
		sb.WriteString(fmt.Sprintf("%-14s %-12s %-16s %s\n",
			truncate(humanize.Time(e.Timestamp), 14),
			e.Op,
			truncate(aliasName, 16),
			truncate(e.Detail, 40)))
	}

	return sb.String()
}

// truncate truncates a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
