// Package server provides the MCP server wrapper with lifecycle management.
package server

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/raphaelgruber/dbmcp-go/internal/tools"
)

// Name is the implementation name announced during initialize.
const Name = "dbmcp"

// Server wraps the MCP server with dependencies and lifecycle management.
type Server struct {
	mcp    *mcp.Server
	deps   *tools.Dependencies
	logger *slog.Logger
}

// New creates a new MCP server with the given version, tool dependencies and
// logger. Middleware and tools are registered immediately.
func New(version string, deps *tools.Dependencies, logger *slog.Logger) *Server {
	impl := &mcp.Implementation{
		Name:    Name,
		Version: version,
	}

	s := &Server{
		mcp:    mcp.NewServer(impl, nil),
		deps:   deps,
		logger: logger,
	}
	s.mcp.AddReceivingMiddleware(LoggingMiddleware(logger))
	tools.RegisterAll(s.mcp, deps)
	return s
}

// Run serves on stdio and blocks until disconnect or context cancellation.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("starting MCP server", "transport", "stdio")
	return s.Serve(ctx, &mcp.StdioTransport{})
}

// Serve serves on an arbitrary transport.
func (s *Server) Serve(ctx context.Context, t mcp.Transport) error {
	return s.mcp.Run(ctx, t)
}

// Connect runs the server on an in-memory transport and returns a client
// session talking to it. Closing the session stops the server.
func (s *Server) Connect(ctx context.Context) (*mcp.ClientSession, error) {
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	go func() {
		if err := s.Serve(ctx, serverTransport); err != nil {
			s.logger.Debug("in-memory server stopped", "error", err)
		}
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: Name + "-cli", Version: "local"}, nil)
	return client.Connect(ctx, clientTransport, nil)
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}
