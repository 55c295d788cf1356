package domain

import (
	"path/filepath"
	"sort"
	"strings"
)

// NormalizePath rewrites separators to the host convention and repairs the
// "/c:/..." drive artifact some analyzers emit.
func NormalizePath(p string) string {
	return normalizePathSep(p, filepath.Separator)
}

func normalizePathSep(p string, sep rune) string {
	s := string(sep)
	out := strings.ReplaceAll(p, "/", s)
	marker := s + "c:"
	if len(out) >= len(marker) && strings.EqualFold(out[:len(marker)], marker) {
		out = "C:" + out[len(marker):]
	}
	return out
}

// FileGroup holds the diagnostics reported for one normalized path.
type FileGroup struct {
	Path        string
	Diagnostics []Diagnostic
}

// Counts returns the per-severity breakdown of the group.
func (g FileGroup) Counts() map[string]int {
	counts := map[string]int{SeverityError: 0, SeverityWarning: 0, SeverityInfo: 0}
	for _, d := range g.Diagnostics {
		sev := d.Severity
		if !IsSeverity(sev) {
			sev = SeverityWarning
		}
		counts[sev]++
	}
	return counts
}

// FileGroups is an ordered set of file groups.
type FileGroups []FileGroup

// GroupByFile groups diags by normalized path in first-appearance order.
// When filter is non-empty only diagnostics of that severity are kept, and
// files left without diagnostics are omitted.
func GroupByFile(diags []Diagnostic, filter string) FileGroups {
	index := make(map[string]int)
	var groups FileGroups

	for _, d := range diags {
		if filter != "" && d.Severity != filter {
			continue
		}
		file := d.File
		if file == "" {
			file = "unknown"
		}
		path := NormalizePath(file)
		i, ok := index[path]
		if !ok {
			i = len(groups)
			index[path] = i
			groups = append(groups, FileGroup{Path: path})
		}
		groups[i].Diagnostics = append(groups[i].Diagnostics, d)
	}

	return groups
}

// Resolve returns a copy in which every relative path is joined onto
// root, the directory the analyzer ran in. An empty root leaves paths as is.
func (g FileGroups) Resolve(root string) FileGroups {
	out := make(FileGroups, len(g))
	copy(out, g)
	if root == "" {
		return out
	}
	for i := range out {
		if !filepath.IsAbs(out[i].Path) {
			out[i].Path = filepath.Join(root, out[i].Path)
		}
	}
	return out
}

// Ranked returns a copy ordered by descending diagnostic count.
// Files with equal counts keep their grouping order.
func (g FileGroups) Ranked() FileGroups {
	out := make(FileGroups, len(g))
	copy(out, g)
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].Diagnostics) > len(out[j].Diagnostics)
	})
	return out
}

// Find returns the group whose path equals p after normalization, falling
// back to a unique base-name match.
func (g FileGroups) Find(p string) (FileGroup, bool) {
	want := NormalizePath(p)
	for _, fg := range g {
		if fg.Path == want {
			return fg, true
		}
	}

	var match FileGroup
	found := 0
	base := filepath.Base(want)
	for _, fg := range g {
		if filepath.Base(fg.Path) == base {
			match = fg
			found++
		}
	}
	return match, found == 1
}

// Total returns the number of diagnostics across all groups.
func (g FileGroups) Total() int {
	n := 0
	for _, fg := range g {
		n += len(fg.Diagnostics)
	}
	return n
}
