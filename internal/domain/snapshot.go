package domain

import (
	"encoding/json"
	"path/filepath"
	"sort"
)

// DefaultRetention is the number of snapshots kept on disk.
const DefaultRetention = 10

// TopFilesLimit caps Statistics.TopFiles.
const TopFilesLimit = 10

// Snapshot is the persisted result of one scan.
type Snapshot struct {
	Timestamp   string          `json:"timestamp"`
	ProjectRoot string          `json:"projectRoot"`
	CommitHash  string          `json:"commitHash,omitempty"`
	Analyzer    string          `json:"analyzer,omitempty"`
	TotalErrors int             `json:"totalErrors"`
	Diagnostics []Diagnostic    `json:"diagnostics"`
	Summary     json.RawMessage `json:"summary"`
	Statistics  Statistics      `json:"statistics"`
}

// Statistics aggregates a snapshot's diagnostics.
type Statistics struct {
	BySeverity map[string]int `json:"bySeverity"`
	ByCategory map[string]int `json:"byCategory"`
	ByFile     map[string]int `json:"byFile"`
	TopFiles   []FileCount    `json:"topFiles"`
}

// FileCount is one entry of Statistics.TopFiles.
type FileCount struct {
	File     string `json:"file"`
	FullPath string `json:"fullPath"`
	Count    int    `json:"count"`
}

// CategoryCount is a category with its number of diagnostics.
type CategoryCount struct {
	Category string
	Icon     string
	Count    int
}

// NewSnapshot builds a snapshot and its statistics from enriched diagnostics.
func NewSnapshot(timestamp, projectRoot string, diags []Diagnostic, summary json.RawMessage) *Snapshot {
	if diags == nil {
		diags = []Diagnostic{}
	}
	if len(summary) == 0 {
		summary = json.RawMessage("{}")
	}
	return &Snapshot{
		Timestamp:   timestamp,
		ProjectRoot: projectRoot,
		TotalErrors: len(diags),
		Diagnostics: diags,
		Summary:     summary,
		Statistics:  ComputeStatistics(diags),
	}
}

// ComputeStatistics returns fresh statistics for diags.
func ComputeStatistics(diags []Diagnostic) Statistics {
	stats := Statistics{
		BySeverity: map[string]int{SeverityError: 0, SeverityWarning: 0, SeverityInfo: 0},
		ByCategory: map[string]int{},
		ByFile:     map[string]int{},
		TopFiles:   []FileCount{},
	}

	var fileOrder []string
	for _, d := range diags {
		sev := d.Severity
		if !IsSeverity(sev) {
			sev = SeverityWarning
		}
		stats.BySeverity[sev]++

		cat := d.Category
		if cat == "" {
			cat = CategoryOther
		}
		stats.ByCategory[cat]++

		file := d.File
		if file == "" {
			file = "unknown"
		}
		if _, seen := stats.ByFile[file]; !seen {
			fileOrder = append(fileOrder, file)
		}
		stats.ByFile[file]++
	}

	for _, f := range fileOrder {
		stats.TopFiles = append(stats.TopFiles, FileCount{
			File:     filepath.Base(f),
			FullPath: f,
			Count:    stats.ByFile[f],
		})
	}
	sort.SliceStable(stats.TopFiles, func(i, j int) bool {
		return stats.TopFiles[i].Count > stats.TopFiles[j].Count
	})
	if len(stats.TopFiles) > TopFilesLimit {
		stats.TopFiles = stats.TopFiles[:TopFilesLimit]
	}

	return stats
}

// TopCategories returns up to n categories by descending count.
// Ties are ordered by category name.
func (s Statistics) TopCategories(n int) []CategoryCount {
	out := make([]CategoryCount, 0, len(s.ByCategory))
	for cat, count := range s.ByCategory {
		out = append(out, CategoryCount{Category: cat, Icon: IconFor(cat), Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Total returns the sum of BySeverity.
func (s Statistics) Total() int {
	total := 0
	for _, c := range s.BySeverity {
		total += c
	}
	return total
}
