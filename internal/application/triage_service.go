package application

import (
	"path/filepath"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/diaglens/diaglens/internal/domain"
	"github.com/diaglens/diaglens/internal/domain/report"
)

// TriageService reads the latest snapshot for triage sessions, one-shot
// reports and the MCP tools.
type TriageService struct {
	store  domain.SnapshotStore
	source domain.SourceReader
	now    func() time.Time
}

func NewTriageService(store domain.SnapshotStore, source domain.SourceReader) *TriageService {
	return &TriageService{store: store, source: source, now: time.Now}
}

// Latest returns the newest snapshot or domain.ErrNoSnapshot.
func (s *TriageService) Latest() (*domain.Snapshot, error) {
	snap, err := s.store.LoadLatest()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load snapshot")
	}
	if snap == nil {
		return nil, domain.ErrNoSnapshot
	}
	return snap, nil
}

// Groups loads the latest snapshot and groups it by file, keeping only
// diagnostics of severity filter when it is set. Relative paths are
// resolved against the snapshot's project root. Groups are ranked.
func (s *TriageService) Groups(filter string) (*domain.Snapshot, domain.FileGroups, error) {
	if filter != "" && !domain.IsSeverity(filter) {
		return nil, nil, goerr.New("unknown severity filter", goerr.V("filter", filter))
	}
	snap, err := s.Latest()
	if err != nil {
		return nil, nil, err
	}
	return snap, domain.GroupByFile(snap.Diagnostics, filter).Resolve(snap.ProjectRoot).Ranked(), nil
}

// FileReport formats the report for one file of the latest snapshot.
// file may be a full path, a path relative to the project root or a
// unique base name.
func (s *TriageService) FileReport(file string) (string, error) {
	snap, groups, err := s.Groups("")
	if err != nil {
		return "", err
	}
	g, ok := groups.Find(file)
	if !filepath.IsAbs(file) && snap.ProjectRoot != "" {
		if rg, found := groups.Find(filepath.Join(snap.ProjectRoot, file)); found {
			g, ok = rg, true
		}
	}
	if !ok {
		return "", goerr.New("file has no diagnostics in the latest snapshot", goerr.V("file", file))
	}
	return formatReport(s.source, g, s.now()), nil
}

// formatReport renders the report for g. An unreadable source file yields
// a report without context blocks.
func formatReport(source domain.SourceReader, g domain.FileGroup, now time.Time) string {
	diags := append([]domain.Diagnostic(nil), g.Diagnostics...)
	return report.Format(g.Path, diags, sourceLines(source, g.Path), now)
}

func sourceLines(source domain.SourceReader, path string) []string {
	if source == nil {
		return nil
	}
	lines, err := source.Lines(path)
	if err != nil {
		return nil
	}
	return lines
}
