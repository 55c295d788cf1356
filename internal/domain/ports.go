package domain

import (
	"context"
	"time"
)

// Analyzer runs the external static analyzer and returns its raw output.
type Analyzer interface {
	Run(ctx context.Context, projectRoot string) ([]byte, error)
	Describe() string
}

// AnalyzerInstaller checks for and installs the external analyzer.
type AnalyzerInstaller interface {
	Available() bool
	Install(ctx context.Context) error
}

// SnapshotStore persists snapshots.
type SnapshotStore interface {
	EnsureDirs() error
	Save(snapshot *Snapshot) (string, error)
	LoadLatest() (*Snapshot, error)
	PruneOld(keep int) ([]string, error)
}

// SnapshotEntry describes one stored snapshot file.
type SnapshotEntry struct {
	Path     string
	Modified time.Time
	Snapshot *Snapshot
}

// GitInfo resolves version-control metadata for a project.
type GitInfo interface {
	CommitHash(projectPath string) (string, error)
}

// Clipboard is a best-effort system clipboard.
type Clipboard interface {
	Available() bool
	Copy(text string) error
}

// SourceReader returns the lines of a source file.
type SourceReader interface {
	Lines(path string) ([]string, error)
}

// Tone selects how a console line is styled.
type Tone uint8

const (
	TonePlain Tone = iota
	ToneTitle
	ToneAccent
	ToneBold
	ToneSuccess
	ToneError
	ToneWarning
	ToneInfo
	ToneMuted
)

// Console writes optionally styled lines for the interactive session.
type Console interface {
	Println(tone Tone, text string)
	Prompt(text string)
}

// Symbols maps a symbol name to a printable glyph.
type Symbols interface {
	Symbol(name string) string
}
