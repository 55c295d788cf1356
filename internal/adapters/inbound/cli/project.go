package cli

import (
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"

	"github.com/diaglens/diaglens/internal/adapters/outbound/config"
	"github.com/diaglens/diaglens/internal/adapters/outbound/snapshot"
	"github.com/diaglens/diaglens/internal/adapters/outbound/source"
	"github.com/diaglens/diaglens/internal/application"
	"github.com/diaglens/diaglens/internal/domain"
)

// project is a resolved project root with its configuration.
type project struct {
	root string
	cfg  domain.ProjectConfig
}

func loadProject(path string) (*project, error) {
	if path == "" {
		path = "."
	}
	root, err := filepath.Abs(path)
	if err != nil {
		return nil, goerr.Wrap(err, "resolving path", goerr.V("path", path))
	}
	cfg, err := config.New().Load(root)
	if err != nil {
		return nil, goerr.Wrap(err, "loading config", goerr.V("path", root))
	}
	return &project{root: root, cfg: cfg}, nil
}

func (p *project) store() *snapshot.FileStore {
	return snapshot.New(p.cfg.SnapshotDir(p.root))
}

func (p *project) triage() (*application.TriageService, *source.CachedReader, error) {
	reader, err := source.New(source.DefaultCacheSize)
	if err != nil {
		return nil, nil, err
	}
	return application.NewTriageService(p.store(), reader), reader, nil
}
