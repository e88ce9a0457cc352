package mcp

import (
	"context"
	"fmt"

	"stylebook/internal/content"
	"stylebook/internal/logging"

	"github.com/mark3labs/mcp-go/server"
)

const serverName = "stylebook"

// Server wraps an mcp-go server serving one content library. Construct
// with NewServer, then run exactly one of ServeStdio or ServeHTTP.
type Server struct {
	library    *content.Library
	logger     *logging.AppLogger
	version    string
	mcpServer  *server.MCPServer
	httpServer *server.StreamableHTTPServer
}

// NewServer builds the MCP server and registers the full tool surface:
// the fixed example tools, the catalog tool, and one tool plus one
// resource per standards document found in the library.
//
// Registration is best-effort by design: a broken or incomplete content
// tree logs warnings and reduces the tool surface, it never prevents the
// server from starting. Individual requests against missing content
// return proper tool errors.
func NewServer(library *content.Library, version string, logger *logging.AppLogger) (*Server, error) {
	if library == nil {
		return nil, fmt.Errorf("content library is required")
	}
	if logger == nil {
		logger = logging.GetDefault()
	}
	if version == "" {
		version = "dev"
	}

	s := &Server{
		library: library,
		logger:  logger,
		version: version,
	}

	s.mcpServer = server.NewMCPServer(
		serverName,
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, true),
		server.WithRecovery(),
	)
	s.httpServer = server.NewStreamableHTTPServer(s.mcpServer)

	s.reportLayoutIssues()
	s.registerExampleTools()
	s.registerCatalogTool()
	s.registerStandards()

	return s, nil
}

// reportLayoutIssues runs the advisory startup check over the content
// tree so operators see deployment problems before the first request
// does. Issues are warnings only.
func (s *Server) reportLayoutIssues() {
	issues := s.library.ValidateLayout()
	for _, issue := range issues {
		s.logger.Warn("Content layout issue", "path", issue.Path, "detail", issue.Detail)
	}
	if len(issues) == 0 {
		s.logger.Debug("Content layout validated", "contentDir", s.library.ContentDir())
	}
}

// ServeStdio serves MCP over stdin/stdout until EOF. This is the
// transport AI assistants use when they spawn the server as a
// subprocess.
func (s *Server) ServeStdio() error {
	s.logger.Info("Starting MCP server on stdio",
		"name", serverName,
		"version", s.version,
		"contentDir", s.library.ContentDir(),
		"platform", s.library.Platform())

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}

// ServeHTTP serves MCP over the streamable HTTP transport on addr,
// blocking until the listener fails or Shutdown is called.
func (s *Server) ServeHTTP(addr string) error {
	s.logger.Info("Starting MCP server on HTTP",
		"name", serverName,
		"version", s.version,
		"addr", addr,
		"contentDir", s.library.ContentDir())

	if err := s.httpServer.Start(addr); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP transport. The stdio transport
// needs no shutdown; it ends with its stream.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Stopping MCP server")
	return s.httpServer.Shutdown(ctx)
}
