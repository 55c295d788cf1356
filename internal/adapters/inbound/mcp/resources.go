package mcp

import (
	"context"
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const latestSnapshotURI = "diaglens://snapshot/latest"

// registerResources registers the diaglens MCP resources on the given server.
func registerResources(s *server.MCPServer, projectPath string) {
	s.AddResource(
		mcplib.NewResource(
			latestSnapshotURI,
			"Latest Snapshot",
			mcplib.WithResourceDescription("Full JSON of the newest diagnostics snapshot, diagnostics included"),
			mcplib.WithMIMEType("application/json"),
		),
		handleLatestSnapshotResource(projectPath),
	)
}

func handleLatestSnapshotResource(projectPath string) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		svc, err := newTriageService(projectPath)
		if err != nil {
			return nil, err
		}
		snap, err := svc.Latest()
		if err != nil {
			return nil, goerr.Wrap(err, "reading snapshot")
		}

		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return nil, goerr.Wrap(err, "marshaling snapshot")
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      latestSnapshotURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}
