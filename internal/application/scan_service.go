package application

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/diaglens/diaglens/internal/domain"
)

// emptySummary stands in for the summary of an unreadable analyzer report.
var emptySummary = json.RawMessage(`{"errorCount":0}`)

// ScanService orchestrates the ingest pipeline:
// run analyzer → parse report → classify → statistics → save → prune.
type ScanService struct {
	analyzer  domain.Analyzer
	store     domain.SnapshotStore
	git       domain.GitInfo
	now       func() time.Time
	retention int
}

// ScanResult is the outcome of one scan.
type ScanResult struct {
	OutputPath string
	Snapshot   *domain.Snapshot
	Pruned     []string
}

// NewScanService wires the scan pipeline. git may be nil.
func NewScanService(analyzer domain.Analyzer, store domain.SnapshotStore, git domain.GitInfo) *ScanService {
	return &ScanService{
		analyzer:  analyzer,
		store:     store,
		git:       git,
		now:       time.Now,
		retention: domain.DefaultRetention,
	}
}

// WithClock overrides the clock used for snapshot timestamps.
func (s *ScanService) WithClock(now func() time.Time) *ScanService {
	s.now = now
	return s
}

// RunScan analyzes projectRoot and persists the result. Only a failure to
// run the analyzer or to write the snapshot is returned as an error.
func (s *ScanService) RunScan(ctx context.Context, projectRoot string) (*ScanResult, error) {
	logger := ctxlog.From(ctx)

	if err := s.store.EnsureDirs(); err != nil {
		return nil, err
	}

	logger.Info("running analyzer", "command", s.analyzer.Describe(), "root", projectRoot)
	raw, err := s.analyzer.Run(ctx, projectRoot)
	if err != nil {
		return nil, goerr.Wrap(err, "analyzer run failed", goerr.V("root", projectRoot))
	}

	diags, summary, err := ParseReport(raw)
	if err != nil {
		logger.Warn("analyzer output is not a readable report, recording an empty scan",
			"error", err, "bytes", len(raw))
		diags, summary = nil, emptySummary
	}

	for i := range diags {
		diags[i] = domain.Enrich(diags[i])
	}

	snap := domain.NewSnapshot(s.now().UTC().Format(time.RFC3339), projectRoot, diags, summary)
	snap.Analyzer = s.analyzer.Describe()
	if s.git != nil {
		if hash, err := s.git.CommitHash(projectRoot); err == nil {
			snap.CommitHash = hash
		} else {
			logger.Debug("commit hash unavailable", "error", err)
		}
	}

	path, err := s.store.Save(snap)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to save snapshot")
	}
	logger.Info("snapshot saved", "path", path, "total", snap.TotalErrors)

	pruned, err := s.store.PruneOld(s.retention)
	if err != nil {
		logger.Warn("failed to prune old snapshots", "error", err)
	}
	for _, p := range pruned {
		logger.Debug("removed old snapshot", "path", p)
	}

	return &ScanResult{OutputPath: path, Snapshot: snap, Pruned: pruned}, nil
}

type analyzerReport struct {
	GeneralDiagnostics []domain.Diagnostic `json:"generalDiagnostics"`
	Diagnostics        []domain.Diagnostic `json:"diagnostics"`
	Summary            json.RawMessage     `json:"summary"`
}

// ParseReport decodes the analyzer's JSON report. Both the pyright
// "generalDiagnostics" key and a plain "diagnostics" key are accepted.
func ParseReport(raw []byte) ([]domain.Diagnostic, json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil, goerr.New("analyzer output is empty")
	}

	var rep analyzerReport
	if err := json.Unmarshal(raw, &rep); err != nil {
		return nil, nil, goerr.Wrap(err, "failed to decode analyzer output")
	}

	diags := rep.GeneralDiagnostics
	if diags == nil {
		diags = rep.Diagnostics
	}
	summary := rep.Summary
	if len(summary) == 0 || bytes.Equal(summary, []byte("null")) {
		summary = emptySummary
	}
	return diags, summary, nil
}
