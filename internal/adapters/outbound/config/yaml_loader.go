package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"

	"github.com/diaglens/diaglens/internal/domain"
)

// FileName is the project configuration file.
const FileName = ".diaglens.yaml"

// Environment overrides, applied after the config file.
const (
	EnvAnalyzer    = "DIAGLENS_ANALYZER"
	EnvSnapshotDir = "DIAGLENS_SNAPSHOT_DIR"
	EnvExportDir   = "DIAGLENS_EXPORT_DIR"
)

// YAMLLoader reads .diaglens.yaml and the project's .env file.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads the configuration of projectPath. A missing file yields the
// defaults. Process environment wins over .env, which wins over the file.
func (l *YAMLLoader) Load(projectPath string) (domain.ProjectConfig, error) {
	cfg, err := readFile(filepath.Join(projectPath, FileName))
	if err != nil {
		return domain.ProjectConfig{}, err
	}

	dotenv, err := godotenv.Read(filepath.Join(projectPath, ".env"))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return domain.ProjectConfig{}, goerr.Wrap(err, "failed to parse .env", goerr.V("dir", projectPath))
	}
	applyEnv(&cfg, func(key string) string {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
		return strings.TrimSpace(dotenv[key])
	})

	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return domain.ProjectConfig{}, goerr.Wrap(err, "invalid "+FileName)
	}
	return cfg, nil
}

func readFile(path string) (domain.ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.DefaultConfig(), nil
		}
		return domain.ProjectConfig{}, goerr.Wrap(err, "failed to read config", goerr.V("path", path))
	}

	var cfg domain.ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.ProjectConfig{}, goerr.Wrap(err, "parsing "+FileName, goerr.V("path", path))
	}
	return cfg, nil
}

// applyEnv overlays the DIAGLENS_* variables. DIAGLENS_ANALYZER is a full
// command line; its first word is the command and the rest the arguments.
func applyEnv(cfg *domain.ProjectConfig, getenv func(string) string) {
	if v := getenv(EnvAnalyzer); v != "" {
		words := strings.Fields(v)
		cfg.Analyzer.Command = words[0]
		cfg.Analyzer.Args = words[1:]
	}
	if v := getenv(EnvSnapshotDir); v != "" {
		cfg.Snapshots.Dir = v
	}
	if v := getenv(EnvExportDir); v != "" {
		cfg.Export.Dir = v
	}
}

// Marshal renders cfg as the contents of a .diaglens.yaml file.
func Marshal(cfg domain.ProjectConfig) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode config")
	}
	header := "# diaglens configuration\n# Environment: " + EnvAnalyzer + ", " + EnvSnapshotDir + ", " + EnvExportDir + "\n\n"
	return append([]byte(header), data...), nil
}
