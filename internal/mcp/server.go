// ABOUTME: MCP server setup for the practice log.
// ABOUTME: Wraps MCP server with the application context.
package mcp

import (
	"context"

	"github.com/harperreed/practice/internal/app"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with store access.
type Server struct {
	mcpServer *mcp.Server
	app       *app.App
}

// NewServer creates a new MCP server over the given application context.
func NewServer(a *app.App) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "practice",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		app:       a,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	s.app.Log.Info().Str("backend", s.app.Records.Backend()).Msg("mcp server starting")
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
