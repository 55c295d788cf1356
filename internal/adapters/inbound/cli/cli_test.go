package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diaglens/diaglens/internal/adapters/inbound/cli"
	"github.com/diaglens/diaglens/internal/adapters/outbound/config"
	"github.com/diaglens/diaglens/internal/adapters/outbound/snapshot"
	"github.com/diaglens/diaglens/internal/domain"
)

// run executes the root command with args and stdin, returning stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := cli.NewRootCmdForTest()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.Execute()
	return out.String(), err
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{config.EnvAnalyzer, config.EnvSnapshotDir, config.EnvExportDir} {
		t.Setenv(k, "")
	}
}

// seedProject writes a source file and a snapshot with diagnostics for it.
func seedProject(t *testing.T) (dir, file string) {
	t.Helper()
	clearEnv(t)
	dir = t.TempDir()
	file = filepath.Join(dir, "app.py")
	require.NoError(t, os.WriteFile(file, []byte("import os\nx = y\nprint(x)\n"), 0644))

	diags := []domain.Diagnostic{
		domain.Enrich(domain.Diagnostic{File: file, Severity: domain.SeverityError, Message: `"y" is not defined`, Start: domain.Position{Line: 1, Character: 4}}),
		domain.Enrich(domain.Diagnostic{File: file, Severity: domain.SeverityWarning, Message: `Import "os" is not accessed`, Start: domain.Position{Line: 0, Character: 7}}),
	}
	store := snapshot.New(filepath.Join(dir, domain.DefaultSnapshotDir))
	require.NoError(t, store.EnsureDirs())
	_, err := store.Save(domain.NewSnapshot("2026-06-01T08:00:00Z", dir, diags, nil))
	require.NoError(t, err)
	return dir, file
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "diaglens dev")
}

func TestMCPCommandExists(t *testing.T) {
	_, err := run(t, "", "mcp", "--help")
	assert.NoError(t, err)
}

func TestMCPServeCommandExists(t *testing.T) {
	_, err := run(t, "", "mcp", "serve", "--help")
	assert.NoError(t, err)
}

func TestRootCmd_RejectsUnknownLogFormat(t *testing.T) {
	_, err := run(t, "", "--log-format", "xml", "version")
	assert.Error(t, err)
}

func TestInitCmd_CreatesConfigFile(t *testing.T) {
	tmpDir := t.TempDir()

	out, err := run(t, "", "init", tmpDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Created .diaglens.yaml")

	data, err := os.ReadFile(filepath.Join(tmpDir, ".diaglens.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "command: pyright")
	assert.Contains(t, string(data), domain.DefaultSnapshotDir)

	clearEnv(t)
	cfg, err := config.New().Load(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConfig(), cfg)
}

func TestInitCmd_FailsIfExists(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".diaglens.yaml"), []byte("existing"), 0644))

	_, err := run(t, "", "init", tmpDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInitCmd_ForceOverwrites(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".diaglens.yaml"), []byte("old"), 0644))

	_, err := run(t, "", "init", tmpDir, "--force")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(tmpDir, ".diaglens.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "analyzer:")
	assert.NotEqual(t, "old", string(data))
}

func TestTriageCmd_NoSnapshot(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	out, err := run(t, "", "triage", "--path", dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoSnapshot)
	assert.Contains(t, out, "No snapshot found")
	assert.Contains(t, out, "diaglens scan")
}

func TestTriageCmd_EmptySnapshot(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	store := snapshot.New(filepath.Join(dir, domain.DefaultSnapshotDir))
	require.NoError(t, store.EnsureDirs())
	_, err := store.Save(domain.NewSnapshot("2026-06-01T08:00:00Z", dir, nil, nil))
	require.NoError(t, err)

	out, err := run(t, "", "triage", "--path", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "The project is clean!")
	assert.NotContains(t, out, "FILES WITH DIAGNOSTICS")
}

func TestTriageCmd_Session(t *testing.T) {
	dir, _ := seedProject(t)

	out, err := run(t, "1\nD\nQ\n", "triage", "--path", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "FILES WITH DIAGNOSTICS")
	assert.Contains(t, out, "[1] app.py 1E 1W 0I")
	assert.Contains(t, out, "x = y")
	assert.Contains(t, out, "Finished showing 2 diagnostic(s)")
	assert.Contains(t, out, "[C] 📋 Copy the report to the clipboard")
	assert.Contains(t, out, "[R] ↩ Back to the file list")
	assert.Contains(t, out, "Goodbye!")
}

func TestTriageCmd_Filter(t *testing.T) {
	dir, _ := seedProject(t)

	out, err := run(t, "0\n", "triage", "--path", dir, "--warning")
	require.NoError(t, err)
	assert.Contains(t, out, "Showing warning diagnostics only (1 of 2)")
	assert.Contains(t, out, "[1] app.py 0E 1W 0I")
}

func TestTriageCmd_FiltersAreExclusive(t *testing.T) {
	dir, _ := seedProject(t)

	_, err := run(t, "", "triage", "--path", dir, "--error", "--info")
	assert.Error(t, err)
}

func TestReportCmd(t *testing.T) {
	dir, _ := seedProject(t)

	out, err := run(t, "", "report", "app.py", "--path", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Total: 2 diagnostic(s)")
	assert.Contains(t, out, "Line: 1, Column: 8")
	assert.Contains(t, out, "Line: 2, Column: 5")
	assert.Less(t, strings.Index(out, "Line: 1,"), strings.Index(out, "Line: 2,"))

	dest := filepath.Join(t.TempDir(), "out.txt")
	out, err = run(t, "", "report", "app.py", "--path", dir, "--out", dest)
	require.NoError(t, err)
	assert.Contains(t, out, "Report saved to: "+dest)
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"y" is not defined`)
}

func TestReportCmd_UnknownFile(t *testing.T) {
	dir, _ := seedProject(t)

	_, err := run(t, "", "report", "missing.py", "--path", dir)
	assert.Error(t, err)
}

func TestHistoryCmd(t *testing.T) {
	clearEnv(t)
	out, err := run(t, "", "history", "--path", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No snapshots found")

	dir, _ := seedProject(t)
	out, err = run(t, "", "history", "--path", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Snapshot History")
	assert.Contains(t, out, "2026-06-01T08:00:00")
}

func TestScanCmd_EndToEnd(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	clearEnv(t)
	dir := t.TempDir()
	payload := `{"generalDiagnostics": [
	  {"file": "a.py", "severity": "error", "message": "Import \"x\" could not be resolved", "range": {"start": {"line": 0, "character": 0}}},
	  {"file": "a.py", "severity": "warning", "message": "\"y\" is not defined", "range": {"start": {"line": 1, "character": 0}}}
	], "summary": {"errorCount": 1, "warningCount": 1}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "payload.json"), []byte(payload), 0644))
	cfg := "analyzer:\n  command: sh\n  args: [\"-c\", \"cat payload.json; exit 1\"]\n  install: []\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(cfg), 0644))

	out, err := run(t, "", "scan", "--path", dir, "--no-install")
	require.NoError(t, err)
	assert.Contains(t, out, "2 diagnostic(s)")
	assert.Contains(t, out, "Snapshot saved:")

	entries, err := snapshot.New(filepath.Join(dir, domain.DefaultSnapshotDir)).List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].Snapshot.TotalErrors)
	assert.Equal(t, 1, entries[0].Snapshot.Statistics.BySeverity[domain.SeverityError])
}

func TestScanCmd_MissingAnalyzer(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	cfg := "analyzer:\n  command: diaglens-no-such-analyzer\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(cfg), 0644))

	_, err := run(t, "", "scan", "--path", dir, "--no-install")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrToolUnavailable)

	entries, err := snapshot.New(filepath.Join(dir, domain.DefaultSnapshotDir)).List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTriageCmd_RelativePathsFromOtherDirectory(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "pkg"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pkg", "util.py"), []byte("def helper(n):\n    print(totl)\n"), 0644))

	diags := []domain.Diagnostic{
		domain.Enrich(domain.Diagnostic{File: "pkg/util.py", Severity: domain.SeverityError, Message: `"totl" is not defined`, Start: domain.Position{Line: 1, Character: 10}}),
	}
	store := snapshot.New(filepath.Join(dir, domain.DefaultSnapshotDir))
	require.NoError(t, store.EnsureDirs())
	_, err := store.Save(domain.NewSnapshot("2026-06-01T08:00:00Z", dir, diags, nil))
	require.NoError(t, err)

	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NotEqual(t, dir, cwd)

	out, err := run(t, "1\nD\nQ\n", "triage", "--path", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "print(totl)")
	assert.NotContains(t, out, "Source file not found")

	out, err = run(t, "", "report", "pkg/util.py", "--path", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "File: "+filepath.Join(dir, "pkg", "util.py"))
	assert.Contains(t, out, "print(totl)")
}
