// Package report renders the plain-text diagnostic report for one file.
package report

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/camelcase"

	"github.com/diaglens/diaglens/internal/domain"
)

// ContextLines is the number of source lines shown around a diagnostic.
const ContextLines = 2

// TimeLayout is used for the generation time in the header.
const TimeLayout = "2006-01-02 15:04:05"

const width = 80

// marker (2) + "%4d │" (6) + separating space (1)
const gutterWidth = 9

var (
	heavyRule = strings.Repeat("═", width)
	lightRule = strings.Repeat("─", width)
)

// NumberedLine is a source line with its one-based line number.
type NumberedLine struct {
	Number int
	Text   string
}

// ContextWindow is the excerpt shown for one diagnostic.
type ContextWindow struct {
	Before []NumberedLine
	Target NumberedLine
	After  []NumberedLine
}

// Window returns up to ctx lines before and after the zero-based line.
// A line past the end of the file yields an empty target.
func Window(lines []string, line, ctx int) ContextWindow {
	if line < 0 {
		line = 0
	}
	at := func(i int) string {
		if i >= 0 && i < len(lines) {
			return lines[i]
		}
		return ""
	}

	var w ContextWindow
	for i := max(0, line-ctx); i < line; i++ {
		w.Before = append(w.Before, NumberedLine{Number: i + 1, Text: at(i)})
	}
	w.Target = NumberedLine{Number: line + 1, Text: at(line)}
	for i := line + 1; i <= min(len(lines)-1, line+ctx); i++ {
		w.After = append(w.After, NumberedLine{Number: i + 1, Text: at(i)})
	}
	return w
}

// Gutter renders a line-number gutter entry.
func Gutter(n int) string {
	return fmt.Sprintf("%4d │", n)
}

// Pointer returns the caret line for a one-based column, aligned under
// text printed after a two-character marker and the gutter.
func Pointer(column int) string {
	return strings.Repeat(" ", gutterWidth+max(column-1, 0)) + "^"
}

// HumanizeRule turns a rule id such as reportUnusedImport into "Unused Import".
func HumanizeRule(rule string) string {
	words := camelcase.Split(rule)
	if len(words) > 1 && words[0] == "report" {
		words = words[1:]
	}
	return strings.Join(words, " ")
}

// Format renders the report for filePath. diags is sorted in place by line.
// lines is the source content; nil means the file could not be read and
// every context block is omitted.
func Format(filePath string, diags []domain.Diagnostic, lines []string, now time.Time) string {
	domain.SortByLine(diags)

	absPath, err := filepath.Abs(filePath)
	if err != nil {
		absPath = filePath
	}
	total := len(diags)

	var b strings.Builder
	writeln := func(s string) {
		b.WriteString(s)
		b.WriteByte('\n')
	}

	writeln(heavyRule)
	writeln("DIAGNOSTIC REPORT - " + filepath.Base(filePath))
	writeln(fmt.Sprintf("Total: %d diagnostic(s)", total))
	writeln("File: " + absPath)
	writeln("Generated: " + now.Format(TimeLayout))
	writeln(heavyRule)
	writeln("")

	for i, d := range diags {
		writeln(lightRule)
		writeln(fmt.Sprintf("DIAGNOSTIC #%d/%d", i+1, total))
		writeln(lightRule)
		writeln(fmt.Sprintf("Line: %d, Column: %d", d.Line(), d.Column()))
		writeln("Severity: " + strings.ToUpper(severityOf(d)))
		writeln("Category: " + categoryOf(d))
		writeln("Message: " + d.Message)
		if d.Rule != "" {
			writeln(fmt.Sprintf("Rule: %s (%s)", d.Rule, HumanizeRule(d.Rule)))
		}
		writeln("")

		if lines != nil {
			writeln("Code:")
			w := Window(lines, d.Start.Line, ContextLines)
			for _, l := range w.Before {
				writeln("  " + Gutter(l.Number) + " " + l.Text)
			}
			writeln("> " + Gutter(w.Target.Number) + " " + w.Target.Text)
			writeln(Pointer(d.Column()))
			for _, l := range w.After {
				writeln("  " + Gutter(l.Number) + " " + l.Text)
			}
			writeln("")
		}
	}

	writeln(heavyRule)
	writeln(fmt.Sprintf("END OF REPORT - %d diagnostic(s)", total))
	b.WriteString(heavyRule)

	return b.String()
}

// ExportFileName is the fallback file name for a report about sourcePath.
func ExportFileName(sourcePath string) string {
	base := filepath.Base(sourcePath)
	return "diagnostics_" + strings.TrimSuffix(base, filepath.Ext(base)) + ".txt"
}

func severityOf(d domain.Diagnostic) string {
	if d.Severity == "" {
		return domain.SeverityError
	}
	return d.Severity
}

func categoryOf(d domain.Diagnostic) string {
	if d.Category == "" {
		return domain.CategoryOther
	}
	return d.Category
}
