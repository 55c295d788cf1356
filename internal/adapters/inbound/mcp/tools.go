package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/diaglens/diaglens/internal/adapters/outbound/config"
	"github.com/diaglens/diaglens/internal/adapters/outbound/snapshot"
	"github.com/diaglens/diaglens/internal/adapters/outbound/source"
	"github.com/diaglens/diaglens/internal/application"
	"github.com/diaglens/diaglens/internal/domain"
)

// registerTools registers all diaglens MCP tools on the given server.
func registerTools(s *server.MCPServer, projectPath string) {
	s.AddTool(
		mcplib.NewTool("diaglens_summary",
			mcplib.WithDescription("Returns the totals and statistics of the latest diagnostics snapshot as JSON"),
		),
		handleSummary(projectPath),
	)

	s.AddTool(
		mcplib.NewTool("diaglens_files",
			mcplib.WithDescription("Lists files with diagnostics in the latest snapshot, most diagnostics first"),
			mcplib.WithString("severity",
				mcplib.Description("Only count diagnostics of this severity (error, warning or info)"),
			),
		),
		handleFiles(projectPath),
	)

	s.AddTool(
		mcplib.NewTool("diaglens_file_report",
			mcplib.WithDescription("Returns the plain-text diagnostics report for one file, with source context"),
			mcplib.WithString("file",
				mcplib.Required(),
				mcplib.Description("Full path or unique base name of the file"),
			),
		),
		handleFileReport(projectPath),
	)
}

// snapshotSummary is the latest snapshot without its diagnostics list.
type snapshotSummary struct {
	Timestamp   string            `json:"timestamp"`
	ProjectRoot string            `json:"project_root"`
	CommitHash  string            `json:"commit_hash,omitempty"`
	Analyzer    string            `json:"analyzer,omitempty"`
	TotalErrors int               `json:"total_errors"`
	Statistics  domain.Statistics `json:"statistics"`
	Summary     json.RawMessage   `json:"summary"`
}

type fileEntry struct {
	File     string `json:"file"`
	Errors   int    `json:"errors"`
	Warnings int    `json:"warnings"`
	Info     int    `json:"info"`
	Total    int    `json:"total"`
}

// newTriageService wires the snapshot store configured for projectPath.
func newTriageService(projectPath string) (*application.TriageService, error) {
	root, err := filepath.Abs(projectPath)
	if err != nil {
		return nil, goerr.Wrap(err, "resolving path", goerr.V("path", projectPath))
	}
	cfg, err := config.New().Load(root)
	if err != nil {
		return nil, err
	}
	reader, err := source.New(source.DefaultCacheSize)
	if err != nil {
		return nil, err
	}
	return application.NewTriageService(snapshot.New(cfg.SnapshotDir(root)), reader), nil
}

func handleSummary(projectPath string) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		svc, err := newTriageService(projectPath)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		snap, err := svc.Latest()
		if err != nil {
			return errorResult(fmt.Sprintf("no snapshot available: %v (run diaglens scan first)", err)), nil
		}
		return jsonResult(snapshotSummary{
			Timestamp:   snap.Timestamp,
			ProjectRoot: snap.ProjectRoot,
			CommitHash:  snap.CommitHash,
			Analyzer:    snap.Analyzer,
			TotalErrors: snap.TotalErrors,
			Statistics:  snap.Statistics,
			Summary:     snap.Summary,
		})
	}
}

func handleFiles(projectPath string) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		svc, err := newTriageService(projectPath)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		severity, _ := request.GetArguments()["severity"].(string)
		if severity != "" && domain.NormalizeSeverity(severity) == "" {
			return errorResult(fmt.Sprintf("unknown severity %q (valid: error, warning, info)", severity)), nil
		}
		_, groups, err := svc.Groups(domain.NormalizeSeverity(severity))
		if err != nil {
			return errorResult(fmt.Sprintf("listing files failed: %v", err)), nil
		}

		files := make([]fileEntry, 0, len(groups))
		for _, g := range groups {
			c := g.Counts()
			files = append(files, fileEntry{
				File:     g.Path,
				Errors:   c[domain.SeverityError],
				Warnings: c[domain.SeverityWarning],
				Info:     c[domain.SeverityInfo],
				Total:    len(g.Diagnostics),
			})
		}
		return jsonResult(files)
	}
}

func handleFileReport(projectPath string) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		file, err := request.RequireString("file")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		svc, err := newTriageService(projectPath)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		text, err := svc.FileReport(file)
		if err != nil {
			return errorResult(fmt.Sprintf("report failed: %v", err)), nil
		}
		return textResult(text), nil
	}
}

// jsonResult marshals v to indented JSON and returns it as a text content result.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, goerr.Wrap(err, "marshaling result")
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// textResult returns a plain text content result.
func textResult(text string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(text)},
	}
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
