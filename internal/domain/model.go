package domain

import (
	"encoding/json"
	"sort"
)

const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Severities lists the recognised severities in display order.
var Severities = []string{SeverityError, SeverityWarning, SeverityInfo}

// IsSeverity reports whether s is one of the three recognised severities.
func IsSeverity(s string) bool {
	switch s {
	case SeverityError, SeverityWarning, SeverityInfo:
		return true
	}
	return false
}

// NormalizeSeverity maps analyzer spellings onto the recognised severities.
// It returns "" for anything it does not recognise.
func NormalizeSeverity(s string) string {
	switch s {
	case SeverityError, SeverityWarning, SeverityInfo:
		return s
	case "information":
		return SeverityInfo
	}
	return ""
}

// Position is a zero-based location in a source file.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is the span reported by the analyzer.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Diagnostic is one reported issue in its canonical in-memory shape.
type Diagnostic struct {
	File         string
	Message      string
	Severity     string
	Category     string
	CategoryIcon string
	Rule         string
	Start        Position
	End          Position
}

// Line returns the one-based line number for display.
func (d Diagnostic) Line() int { return d.Start.Line + 1 }

// Column returns the one-based column number for display.
func (d Diagnostic) Column() int { return d.Start.Character + 1 }

type diagnosticJSON struct {
	File            string `json:"file"`
	Message         string `json:"message"`
	Severity        string `json:"severity,omitempty"`
	Category        string `json:"category,omitempty"`
	CategoryIcon    string `json:"categoryIcon,omitempty"`
	Rule            string `json:"rule,omitempty"`
	Range           *Range `json:"range,omitempty"`
	StartLineNumber *int   `json:"startLineNumber,omitempty"`
	StartColumn     *int   `json:"startColumn,omitempty"`
	EndLineNumber   *int   `json:"endLineNumber,omitempty"`
	EndColumn       *int   `json:"endColumn,omitempty"`
}

// UnmarshalJSON accepts both the zero-based range shape and the legacy
// one-based startLineNumber/startColumn shape. range wins when present.
func (d *Diagnostic) UnmarshalJSON(data []byte) error {
	var raw diagnosticJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*d = Diagnostic{
		File:         raw.File,
		Message:      raw.Message,
		Severity:     raw.Severity,
		Category:     raw.Category,
		CategoryIcon: raw.CategoryIcon,
		Rule:         raw.Rule,
	}

	switch {
	case raw.Range != nil:
		d.Start = raw.Range.Start
		d.End = raw.Range.End
	case raw.StartLineNumber != nil:
		d.Start = Position{Line: oneBased(raw.StartLineNumber), Character: oneBased(raw.StartColumn)}
		d.End = d.Start
		if raw.EndLineNumber != nil {
			d.End = Position{Line: oneBased(raw.EndLineNumber), Character: oneBased(raw.EndColumn)}
		}
	}
	return nil
}

// MarshalJSON always writes the zero-based range shape.
func (d Diagnostic) MarshalJSON() ([]byte, error) {
	return json.Marshal(diagnosticJSON{
		File:         d.File,
		Message:      d.Message,
		Severity:     d.Severity,
		Category:     d.Category,
		CategoryIcon: d.CategoryIcon,
		Rule:         d.Rule,
		Range:        &Range{Start: d.Start, End: d.End},
	})
}

func oneBased(v *int) int {
	if v == nil || *v < 1 {
		return 0
	}
	return *v - 1
}

// SortByLine sorts diagnostics in place by zero-based start line.
// Diagnostics on the same line keep their relative order.
func SortByLine(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		return diags[i].Start.Line < diags[j].Start.Line
	})
}
