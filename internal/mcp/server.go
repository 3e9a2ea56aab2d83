// ABOUTME: MCP server setup for the health dashboard.
// ABOUTME: Exposes the loaded table's figures and aggregates to AI assistants.
package mcp

import (
	"context"

	"github.com/harperreed/healthboard/internal/dashboard"
	"github.com/harperreed/healthboard/internal/table"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with read-only access to one loaded table.
type Server struct {
	mcpServer *mcp.Server
	table     *table.Table
	layout    dashboard.Layout
}

// NewServer creates a new MCP server over the given table.
func NewServer(t *table.Table, layout dashboard.Layout, version string) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "healthboard",
			Version: version,
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		table:     t,
		layout:    layout,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
