package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/diaglens/diaglens/internal/domain"
)

// ── warm palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
	info    = lipgloss.Color("#8B949E") // soft blue-gray
	cyan    = lipgloss.Color("#22D3EE")
)

// summaryLimit is the number of categories and files in the scan summary.
const summaryLimit = 5

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 2).
			Width(68)

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	errorTagStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnTagStyle  = lipgloss.NewStyle().Foreground(warning).Bold(true)
	infoTagStyle  = lipgloss.NewStyle().Foreground(info)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	hintStyle     = lipgloss.NewStyle().Foreground(dim).Italic(true)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// RenderScanSummary formats the result of a scan for the terminal.
func RenderScanSummary(snap *domain.Snapshot, outputPath string) string {
	var b strings.Builder
	stats := snap.Statistics

	b.WriteString(boxStyle.Render(titleStyle.Render("Scan results") + "\n" + dimStyle.Render(snap.ProjectRoot)))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "  %s %d diagnostic(s)\n\n", titleStyle.Render("Total:"), snap.TotalErrors)

	b.WriteString("  " + titleStyle.Render("By severity") + "\n")
	fmt.Fprintf(&b, "     %s %s\n", errorTagStyle.Render(runewidth.FillRight("Errors", 10)), errorTagStyle.Render(fmt.Sprint(stats.BySeverity[domain.SeverityError])))
	fmt.Fprintf(&b, "     %s %s\n", warnTagStyle.Render(runewidth.FillRight("Warnings", 10)), warnTagStyle.Render(fmt.Sprint(stats.BySeverity[domain.SeverityWarning])))
	fmt.Fprintf(&b, "     %s %s\n", infoTagStyle.Render(runewidth.FillRight("Info", 10)), infoTagStyle.Render(fmt.Sprint(stats.BySeverity[domain.SeverityInfo])))
	b.WriteString("\n")

	if cats := stats.TopCategories(summaryLimit); len(cats) > 0 {
		b.WriteString("  " + titleStyle.Render(fmt.Sprintf("Top %d categories", len(cats))) + "\n")
		for i, c := range cats {
			fmt.Fprintf(&b, "     %d. %s %s %d\n", i+1, c.Icon, runewidth.FillRight(c.Category, 15), c.Count)
		}
		b.WriteString("\n")
	}

	if files := stats.TopFiles; len(files) > 0 {
		files = files[:min(summaryLimit, len(files))]
		b.WriteString("  " + titleStyle.Render(fmt.Sprintf("Top %d files", len(files))) + "\n")
		for i, f := range files {
			fmt.Fprintf(&b, "     %d. %s %s\n", i+1, fitName(f.File, 40), failStyle.Render(fmt.Sprintf("%d diagnostic(s)", f.Count)))
		}
		b.WriteString("\n")
	}

	b.WriteString("  " + separatorLine + "\n")
	if outputPath != "" {
		b.WriteString("  " + dimStyle.Render("Snapshot saved: "+outputPath) + "\n")
	}
	b.WriteString("\n")

	if snap.TotalErrors > 0 {
		b.WriteString("  " + titleStyle.Render("Next steps") + "\n")
		b.WriteString("   " + hintStyle.Render("1. Triage the diagnostics: diaglens triage") + "\n")
		b.WriteString("   " + hintStyle.Render("2. Fix them in your editor") + "\n")
		b.WriteString("   " + hintStyle.Render("3. Run diaglens scan again to verify") + "\n")
	} else {
		b.WriteString("  " + passStyle.Render("No diagnostics found. The project is clean!") + "\n")
	}

	return b.String()
}

// RenderHistory formats stored snapshots, given newest first, as a
// chronological table with deltas.
func RenderHistory(entries []domain.SnapshotEntry) string {
	if len(entries) == 0 {
		return "  " + dimStyle.Render("No snapshots found. Run diaglens scan first.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Snapshot History") + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")

	prev := -1
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		s := e.Snapshot

		hash := s.CommitHash
		if len(hash) > 7 {
			hash = hash[:7]
		}
		if hash == "" {
			hash = "·······"
		}

		when := s.Timestamp
		if len(when) > 19 {
			when = when[:19]
		}
		if when == "" {
			when = e.Modified.Format("2006-01-02T15:04:05")
		}

		line := fmt.Sprintf("  %s  %s  %s  %s %s %s",
			dimStyle.Render(when),
			faintStyle.Render(hash),
			titleStyle.Render(fmt.Sprintf("%4d", s.TotalErrors)),
			errorTagStyle.Render(fmt.Sprintf("%dE", s.Statistics.BySeverity[domain.SeverityError])),
			warnTagStyle.Render(fmt.Sprintf("%dW", s.Statistics.BySeverity[domain.SeverityWarning])),
			infoTagStyle.Render(fmt.Sprintf("%dI", s.Statistics.BySeverity[domain.SeverityInfo])),
		)

		if prev >= 0 {
			diff := s.TotalErrors - prev
			if diff > 0 {
				line += "  " + failStyle.Render(fmt.Sprintf("↑%d", diff))
			} else if diff < 0 {
				line += "  " + passStyle.Render(fmt.Sprintf("↓%d", -diff))
			}
		}
		prev = s.TotalErrors

		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

// fitName pads or truncates name to exactly width terminal cells.
func fitName(name string, width int) string {
	if runewidth.StringWidth(name) > width {
		name = runewidth.Truncate(name, width, "…")
	}
	return runewidth.FillRight(name, width)
}
