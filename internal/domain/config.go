package domain

import (
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Defaults used when .diaglens.yaml is absent or leaves a field empty.
const (
	DefaultAnalyzerCommand = "pyright"
	DefaultSnapshotDir     = ".diaglens/snapshots"
	DefaultExportDir       = "."
	DefaultMaxOutputMB     = 100
)

// DefaultAnalyzerArgs requests the analyzer's JSON report.
var DefaultAnalyzerArgs = []string{"--outputjson"}

// DefaultInstallCommand installs the default analyzer.
var DefaultInstallCommand = []string{"npm", "install", "-g", "pyright"}

// ProjectConfig holds project-level configuration loaded from .diaglens.yaml.
type ProjectConfig struct {
	Analyzer  AnalyzerConfig `yaml:"analyzer"  json:"analyzer"`
	Snapshots SnapshotConfig `yaml:"snapshots" json:"snapshots"`
	Export    ExportConfig   `yaml:"export"    json:"export"`
}

// AnalyzerConfig describes how the external analyzer is invoked.
type AnalyzerConfig struct {
	Command     string   `yaml:"command"       json:"command"`
	Args        []string `yaml:"args"          json:"args,omitempty"`
	Install     []string `yaml:"install"       json:"install,omitempty"`
	MaxOutputMB int      `yaml:"max_output_mb" json:"max_output_mb"`
}

// SnapshotConfig locates the snapshot directory.
type SnapshotConfig struct {
	Dir string `yaml:"dir" json:"dir"`
}

// ExportConfig locates the fallback report directory.
type ExportConfig struct {
	Dir string `yaml:"dir" json:"dir"`
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() ProjectConfig {
	return ProjectConfig{
		Analyzer: AnalyzerConfig{
			Command:     DefaultAnalyzerCommand,
			Args:        append([]string(nil), DefaultAnalyzerArgs...),
			Install:     append([]string(nil), DefaultInstallCommand...),
			MaxOutputMB: DefaultMaxOutputMB,
		},
		Snapshots: SnapshotConfig{Dir: DefaultSnapshotDir},
		Export:    ExportConfig{Dir: DefaultExportDir},
	}
}

// WithDefaults fills every empty field from DefaultConfig.
func (c ProjectConfig) WithDefaults() ProjectConfig {
	d := DefaultConfig()
	if strings.TrimSpace(c.Analyzer.Command) == "" {
		c.Analyzer.Command = d.Analyzer.Command
		if len(c.Analyzer.Args) == 0 {
			c.Analyzer.Args = d.Analyzer.Args
		}
	}
	if c.Analyzer.Install == nil {
		c.Analyzer.Install = d.Analyzer.Install
	}
	if c.Analyzer.MaxOutputMB == 0 {
		c.Analyzer.MaxOutputMB = d.Analyzer.MaxOutputMB
	}
	if strings.TrimSpace(c.Snapshots.Dir) == "" {
		c.Snapshots.Dir = d.Snapshots.Dir
	}
	if strings.TrimSpace(c.Export.Dir) == "" {
		c.Export.Dir = d.Export.Dir
	}
	return c
}

// Validate checks the configuration for values that cannot work.
func (c ProjectConfig) Validate() error {
	if strings.TrimSpace(c.Analyzer.Command) == "" {
		return goerr.New("analyzer.command must not be empty")
	}
	if c.Analyzer.MaxOutputMB < 0 {
		return goerr.New("analyzer.max_output_mb must not be negative",
			goerr.V("max_output_mb", c.Analyzer.MaxOutputMB))
	}
	for i, arg := range c.Analyzer.Install {
		if strings.TrimSpace(arg) == "" {
			return goerr.New("analyzer.install contains an empty word", goerr.V("index", i))
		}
	}
	return nil
}

// MaxOutputBytes returns the capture cap in bytes. A non-positive
// MaxOutputMB means the default cap.
func (c AnalyzerConfig) MaxOutputBytes() int64 {
	mb := c.MaxOutputMB
	if mb <= 0 {
		mb = DefaultMaxOutputMB
	}
	return int64(mb) * 1024 * 1024
}

// SnapshotDir resolves the snapshot directory against projectRoot.
func (c ProjectConfig) SnapshotDir(projectRoot string) string {
	return resolveDir(projectRoot, c.Snapshots.Dir)
}

// ExportDir returns the fallback report directory. Relative paths stay
// relative to the working directory.
func (c ProjectConfig) ExportDir() string {
	return c.Export.Dir
}

func resolveDir(root, dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(root, dir)
}
