package mcp

import (
	"github.com/mark3labs/mcp-go/server"
)

// NewDiaglensMCPServer creates an MCP server exposing the latest diagnostics
// snapshot of the project rooted at projectPath. Every call reads the
// snapshot directory again, so a running server follows new scans.
func NewDiaglensMCPServer(projectPath string) *server.MCPServer {
	s := server.NewMCPServer(
		"diaglens",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, projectPath)
	registerResources(s, projectPath)

	return s
}
