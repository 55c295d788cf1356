package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diaglens/diaglens/internal/adapters/outbound/config"
	"github.com/diaglens/diaglens/internal/adapters/outbound/snapshot"
	"github.com/diaglens/diaglens/internal/domain"
)

func seedProject(t *testing.T) string {
	t.Helper()
	for _, k := range []string{config.EnvAnalyzer, config.EnvSnapshotDir, config.EnvExportDir} {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	mainFile := filepath.Join(dir, "main.py")
	util := filepath.Join(dir, "util.py")
	require.NoError(t, os.WriteFile(mainFile, []byte("import foo\nprint(bar)\n"), 0644))

	diags := []domain.Diagnostic{
		domain.Enrich(domain.Diagnostic{File: mainFile, Severity: domain.SeverityError, Message: `Import "foo" could not be resolved`}),
		domain.Enrich(domain.Diagnostic{File: mainFile, Severity: domain.SeverityError, Message: `"bar" is not defined`, Start: domain.Position{Line: 1, Character: 6}}),
		domain.Enrich(domain.Diagnostic{File: util, Severity: domain.SeverityWarning, Message: `Variable "tmp" is not accessed`}),
	}
	store := snapshot.New(filepath.Join(dir, domain.DefaultSnapshotDir))
	require.NoError(t, store.EnsureDirs())
	snap := domain.NewSnapshot("2026-06-01T08:00:00Z", dir, diags, json.RawMessage(`{"errorCount":2}`))
	snap.CommitHash = "abc1234"
	_, err := store.Save(snap)
	require.NoError(t, err)
	return dir
}

func callTool(t *testing.T, handler func(context.Context, mcplib.CallToolRequest) (*mcplib.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	req := mcplib.CallToolRequest{}
	req.Params.Arguments = args
	res, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcplib.TextContent)
	require.True(t, ok)
	return text.Text, res.IsError
}

func TestNewDiaglensMCPServer(t *testing.T) {
	s := NewDiaglensMCPServer(".")
	require.NotNil(t, s)
}

func TestMCPServerHasTools(t *testing.T) {
	s := NewDiaglensMCPServer(".")
	require.NotNil(t, s)

	tools := s.ListTools()
	require.NotNil(t, tools)

	expectedTools := []string{
		"diaglens_summary",
		"diaglens_files",
		"diaglens_file_report",
	}

	for _, name := range expectedTools {
		_, exists := tools[name]
		assert.True(t, exists, "tool %q should be registered", name)
	}

	assert.Len(t, tools, len(expectedTools), "should have exactly %d tools", len(expectedTools))
}

func TestSummaryTool(t *testing.T) {
	dir := seedProject(t)

	text, isErr := callTool(t, handleSummary(dir), nil)
	require.False(t, isErr, text)

	var got snapshotSummary
	require.NoError(t, json.Unmarshal([]byte(text), &got))
	assert.Equal(t, 3, got.TotalErrors)
	assert.Equal(t, "abc1234", got.CommitHash)
	assert.Equal(t, 2, got.Statistics.BySeverity[domain.SeverityError])
	assert.JSONEq(t, `{"errorCount":2}`, string(got.Summary))
}

func TestSummaryTool_NoSnapshot(t *testing.T) {
	text, isErr := callTool(t, handleSummary(t.TempDir()), nil)
	assert.True(t, isErr)
	assert.Contains(t, text, "diaglens scan")
}

func TestFilesTool(t *testing.T) {
	dir := seedProject(t)

	text, isErr := callTool(t, handleFiles(dir), nil)
	require.False(t, isErr, text)
	var files []fileEntry
	require.NoError(t, json.Unmarshal([]byte(text), &files))
	require.Len(t, files, 2)
	assert.Equal(t, "main.py", filepath.Base(files[0].File))
	assert.Equal(t, 2, files[0].Errors)
	assert.Equal(t, 2, files[0].Total)

	text, isErr = callTool(t, handleFiles(dir), map[string]any{"severity": "warning"})
	require.False(t, isErr, text)
	files = nil
	require.NoError(t, json.Unmarshal([]byte(text), &files))
	require.Len(t, files, 1)
	assert.Equal(t, "util.py", filepath.Base(files[0].File))

	_, isErr = callTool(t, handleFiles(dir), map[string]any{"severity": "fatal"})
	assert.True(t, isErr)
}

func TestFileReportTool(t *testing.T) {
	dir := seedProject(t)

	text, isErr := callTool(t, handleFileReport(dir), map[string]any{"file": "main.py"})
	require.False(t, isErr, text)
	assert.Contains(t, text, "DIAGNOSTIC REPORT - main.py")
	assert.Contains(t, text, "print(bar)")

	_, isErr = callTool(t, handleFileReport(dir), map[string]any{})
	assert.True(t, isErr)

	_, isErr = callTool(t, handleFileReport(dir), map[string]any{"file": "nope.py"})
	assert.True(t, isErr)
}

func TestLatestSnapshotResource(t *testing.T) {
	dir := seedProject(t)

	contents, err := handleLatestSnapshotResource(dir)(context.Background(), mcplib.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)
	text, ok := contents[0].(mcplib.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, latestSnapshotURI, text.URI)

	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal([]byte(text.Text), &snap))
	assert.Len(t, snap.Diagnostics, 3)
}

func TestLatestSnapshotResource_NoSnapshot(t *testing.T) {
	for _, k := range []string{config.EnvAnalyzer, config.EnvSnapshotDir, config.EnvExportDir} {
		t.Setenv(k, "")
	}
	_, err := handleLatestSnapshotResource(t.TempDir())(context.Background(), mcplib.ReadResourceRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoSnapshot)
}
