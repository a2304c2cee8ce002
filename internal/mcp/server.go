package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ezlaw/ezlaw/internal/legiscan"
)

// Version is set via ldflags at build time.
var Version = "dev"

// LawFetcher loads the configured LegiScan dataset. *legiscan.Service
// satisfies it.
type LawFetcher interface {
	GetLaws(ctx context.Context) (*legiscan.Result, error)
}

// Server wraps an MCP server that exposes state lookup, JSON rendering and
// LegiScan tools.
type Server struct {
	laws LawFetcher
	mcp  *server.MCPServer
}

// NewServer creates a new MCP server. laws may be nil, in which case
// get_laws reports that LegiScan is not configured.
func NewServer(laws LawFetcher) *Server {
	s := &Server{laws: laws}

	s.mcp = server.NewMCPServer(
		"ezlaw",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(findStateTool, s.handleFindState)
	s.mcp.AddTool(renderJSONTool, s.handleRenderJSON)
	s.mcp.AddTool(getLawsTool, s.handleGetLaws)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
