package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/diaglens/diaglens/internal/domain"
)

const (
	filePrefix = "diagnostics_"
	fileExt    = ".json"
	nameLayout = "2006-01-02_15h04m05s"
)

// FileStore implements domain.SnapshotStore with one JSON file per scan.
type FileStore struct {
	dir string
	now func() time.Time
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithClock overrides the clock used to name new snapshot files.
func WithClock(now func() time.Time) Option {
	return func(s *FileStore) { s.now = now }
}

// New creates a store rooted at dir.
func New(dir string, opts ...Option) *FileStore {
	s := &FileStore{dir: dir, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the snapshot directory.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) EnsureDirs() error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return goerr.Wrap(err, "failed to create snapshot directory", goerr.V("dir", s.dir))
	}
	return nil
}

// Save writes snapshot to a new file and returns its path. A file created
// in the same second gets a numeric suffix.
func (s *FileStore) Save(snapshot *domain.Snapshot) (string, error) {
	if snapshot == nil {
		return "", goerr.New("snapshot is nil")
	}
	if err := s.EnsureDirs(); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", goerr.Wrap(err, "failed to encode snapshot")
	}

	stem := filePrefix + s.now().Format(nameLayout)
	for n := 0; ; n++ {
		name := stem + fileExt
		if n > 0 {
			name = fmt.Sprintf("%s_%d%s", stem, n, fileExt)
		}
		path := filepath.Join(s.dir, name)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", goerr.Wrap(err, "failed to create snapshot file", goerr.V("path", path))
		}

		if _, err := f.Write(data); err != nil {
			f.Close()
			return "", goerr.Wrap(err, "failed to write snapshot file", goerr.V("path", path))
		}
		if err := f.Close(); err != nil {
			return "", goerr.Wrap(err, "failed to close snapshot file", goerr.V("path", path))
		}
		return path, nil
	}
}

// LoadLatest parses the most recently modified snapshot. It returns
// (nil, nil) when the directory is missing or empty, or when the newest
// file cannot be parsed.
func (s *FileStore) LoadLatest() (*domain.Snapshot, error) {
	files, err := s.ranked()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}
	snap, err := readSnapshot(files[0].path)
	if err != nil {
		return nil, nil
	}
	return snap, nil
}

// List returns every parsable snapshot, newest first.
func (s *FileStore) List() ([]domain.SnapshotEntry, error) {
	files, err := s.ranked()
	if err != nil {
		return nil, err
	}

	var entries []domain.SnapshotEntry
	for _, f := range files {
		snap, err := readSnapshot(f.path)
		if err != nil {
			continue
		}
		entries = append(entries, domain.SnapshotEntry{Path: f.path, Modified: f.modified, Snapshot: snap})
	}
	return entries, nil
}

// PruneOld deletes every snapshot beyond the keep most recent ones and
// returns the removed paths.
func (s *FileStore) PruneOld(keep int) ([]string, error) {
	files, err := s.ranked()
	if err != nil {
		return nil, err
	}
	keep = max(keep, 0)
	if len(files) <= keep {
		return nil, nil
	}

	var removed []string
	for _, f := range files[keep:] {
		if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return removed, goerr.Wrap(err, "failed to remove snapshot", goerr.V("path", f.path))
		}
		removed = append(removed, f.path)
	}
	return removed, nil
}

type snapshotFile struct {
	path     string
	name     string
	modified time.Time
}

// ranked lists snapshot files by modification time, newest first.
func (s *FileStore) ranked() ([]snapshotFile, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to read snapshot directory", goerr.V("dir", s.dir))
	}

	var files []snapshotFile
	for _, e := range dirEntries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileExt) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, snapshotFile{
			path:     filepath.Join(s.dir, name),
			name:     name,
			modified: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		if !files[i].modified.Equal(files[j].modified) {
			return files[i].modified.After(files[j].modified)
		}
		return files[i].name > files[j].name
	})
	return files, nil
}

func readSnapshot(path string) (*domain.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
