// Package mcp serves the tool registry over the Model Context Protocol so
// other agent runtimes can call the same Canvas, Discord, Slack and
// AI-check tools.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ta-agent/taagent/internal/agent"
	"github.com/ta-agent/taagent/internal/tools"
)

// Version is set via ldflags at build time.
var Version = "dev"

// SessionID tags audit entries for calls arriving over MCP.
const SessionID = "mcp"

// Server wraps an MCP server exposing every tool in a registry.
type Server struct {
	registry *tools.Registry
	auditor  agent.Auditor
	mcp      *server.MCPServer
	logger   zerolog.Logger
}

// NewServer creates a new MCP server over registry. auditor may be nil.
func NewServer(registry *tools.Registry, auditor agent.Auditor) *Server {
	s := &Server{
		registry: registry,
		auditor:  auditor,
		logger:   log.With().Str("component", "mcp").Logger(),
	}

	s.mcp = server.NewMCPServer(
		"taagent",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds every registry tool and its handler to the MCP server.
func (s *Server) registerTools() {
	for _, t := range s.registry.List() {
		s.mcp.AddTool(t.MCP(), s.toolHandler(t.Name))
	}
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	s.logger.Info().Int("tools", s.registry.Len()).Msg("serving MCP on stdio")
	return server.ServeStdio(s.mcp)
}
