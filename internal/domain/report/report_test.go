package report_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diaglens/diaglens/internal/domain"
	"github.com/diaglens/diaglens/internal/domain/report"
)

var fixedNow = time.Date(2026, 3, 4, 10, 20, 30, 0, time.UTC)

func source(n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = "line" + string(rune('A'+i))
	}
	return lines
}

func TestWindow_Middle(t *testing.T) {
	w := report.Window(source(10), 4, 2)

	require.Len(t, w.Before, 2)
	assert.Equal(t, report.NumberedLine{Number: 3, Text: "lineC"}, w.Before[0])
	assert.Equal(t, report.NumberedLine{Number: 4, Text: "lineD"}, w.Before[1])
	assert.Equal(t, report.NumberedLine{Number: 5, Text: "lineE"}, w.Target)
	require.Len(t, w.After, 2)
	assert.Equal(t, 7, w.After[1].Number)
}

func TestWindow_Edges(t *testing.T) {
	w := report.Window(source(3), 0, 2)
	assert.Empty(t, w.Before)
	assert.Equal(t, 1, w.Target.Number)
	assert.Len(t, w.After, 2)

	w = report.Window(source(3), 2, 2)
	assert.Len(t, w.Before, 2)
	assert.Empty(t, w.After)

	w = report.Window(source(3), 9, 2)
	assert.Equal(t, 10, w.Target.Number)
	assert.Empty(t, w.Target.Text)
	assert.Empty(t, w.After)
}

func TestPointer(t *testing.T) {
	assert.True(t, strings.HasSuffix(report.Pointer(1), "^"))
	assert.Len(t, report.Pointer(5), len(report.Pointer(1))+4)
	assert.Equal(t, report.Pointer(1), report.Pointer(0))
}

func TestHumanizeRule(t *testing.T) {
	assert.Equal(t, "Unused Import", report.HumanizeRule("reportUnusedImport"))
	assert.Equal(t, "Attribute Access Issue", report.HumanizeRule("reportAttributeAccessIssue"))
	assert.Equal(t, "report", report.HumanizeRule("report"))
}

func TestFormat_OrderAndMetadata(t *testing.T) {
	diags := []domain.Diagnostic{
		{File: "a.py", Message: "second-5", Severity: "error", Category: "Import", Start: domain.Position{Line: 4, Character: 2}},
		{File: "a.py", Message: "only-2", Severity: "warning", Category: "Type", Start: domain.Position{Line: 1}},
		{File: "a.py", Message: "third-5", Severity: "info", Category: "Unused", Rule: "reportUnusedVariable", Start: domain.Position{Line: 4}},
	}
	out := report.Format("a.py", diags, source(8), fixedNow)

	first := strings.Index(out, "only-2")
	second := strings.Index(out, "second-5")
	third := strings.Index(out, "third-5")
	require.True(t, first >= 0 && second >= 0 && third >= 0)
	assert.Less(t, first, second)
	assert.Less(t, second, third)

	assert.Contains(t, out, "DIAGNOSTIC REPORT - a.py")
	assert.Contains(t, out, "Total: 3 diagnostic(s)")
	assert.Contains(t, out, "Generated: 2026-03-04 10:20:30")
	assert.Contains(t, out, "DIAGNOSTIC #1/3")
	assert.Contains(t, out, "DIAGNOSTIC #3/3")
	assert.Contains(t, out, "Line: 5, Column: 3")
	assert.Contains(t, out, "Severity: ERROR")
	assert.Contains(t, out, "Severity: WARNING")
	assert.Contains(t, out, "Rule: reportUnusedVariable (Unused Variable)")
	assert.Contains(t, out, "END OF REPORT - 3 diagnostic(s)")
	assert.Equal(t, 3, strings.Count(out, "Code:"))
	assert.Contains(t, out, "> "+report.Gutter(5)+" lineE")
	assert.Contains(t, out, "  "+report.Gutter(3)+" lineC")
	assert.Contains(t, out, "  "+report.Gutter(7)+" lineG")

	// sorted in place
	assert.Equal(t, "only-2", diags[0].Message)
}

func TestFormat_MissingSource(t *testing.T) {
	diags := []domain.Diagnostic{
		{File: "gone.py", Message: "m1", Severity: "error", Category: "Import", Start: domain.Position{Line: 3}},
		{File: "gone.py", Message: "m2", Severity: "warning", Category: "Type", Start: domain.Position{Line: 1}},
	}
	out := report.Format("gone.py", diags, nil, fixedNow)

	assert.NotContains(t, out, "Code:")
	assert.NotContains(t, out, "^")
	assert.Contains(t, out, "Message: m1")
	assert.Contains(t, out, "Message: m2")
	assert.Contains(t, out, "DIAGNOSTIC #2/2")
}

func TestFormat_Deterministic(t *testing.T) {
	mk := func() []domain.Diagnostic {
		return []domain.Diagnostic{
			{Message: "x", Start: domain.Position{Line: 3}},
			{Message: "y", Start: domain.Position{Line: 0}},
			{Message: "z", Start: domain.Position{Line: 3}},
		}
	}
	assert.Equal(t,
		report.Format("f.py", mk(), source(5), fixedNow),
		report.Format("f.py", mk(), source(5), fixedNow))
}

func TestFormat_EmptyFields(t *testing.T) {
	out := report.Format("f.py", []domain.Diagnostic{{Message: "m"}}, nil, fixedNow)
	assert.Contains(t, out, "Severity: ERROR")
	assert.Contains(t, out, "Category: Other")
	assert.NotContains(t, out, "Rule:")
}

func TestExportFileName(t *testing.T) {
	assert.Equal(t, "diagnostics_main.txt", report.ExportFileName("/src/pkg/main.py"))
	assert.Equal(t, "diagnostics_Makefile.txt", report.ExportFileName("Makefile"))
	assert.Equal(t, "diagnostics_archive.tar.txt", report.ExportFileName("archive.tar.gz"))
}
