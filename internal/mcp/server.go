// Package mcp implements the Model Context Protocol server for specdock
// using the mcp-go library. It exposes requirement documents and OpenAPI
// specifications as tools and resources over stdio JSON-RPC, so AI coding
// assistants can browse APIs and request generated integration snippets.
package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/server"

	"github.com/specdock/specdock/internal/config"
	"github.com/specdock/specdock/internal/docs"
	"github.com/specdock/specdock/internal/logging"
	"github.com/specdock/specdock/internal/spec"
)

// Server wires the document store and spec registry into an MCP server.
type Server struct {
	cfg      *config.Config
	logger   *logging.AppLogger
	docs     *docs.Store
	registry *spec.Registry
	mcp      *server.MCPServer
}

// NewServer builds the server and its stores from config. Call Start to
// load the registry and serve stdio.
func NewServer(cfg *config.Config, logger *logging.AppLogger) *Server {
	return &Server{
		cfg:      cfg,
		logger:   logger,
		docs:     docs.NewStore(cfg.Documents.BasePath, cfg.Documents.SupportedFormats, logger),
		registry: spec.NewRegistry(cfg.APISpecs.BasePath, logger),
	}
}

// Start loads the spec registry, registers tools and resources, and serves
// the MCP protocol over stdio until the client disconnects.
func (s *Server) Start(ctx context.Context) error {
	if err := s.registry.Load(ctx); err != nil {
		// A missing spec directory should not prevent serving documents.
		s.logger.Warn("spec registry load failed", "error", err)
	}

	s.mcp = server.NewMCPServer(
		s.cfg.Server.Name,
		s.cfg.Server.Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, true),
		server.WithInstructions("specdock serves requirement documents and OpenAPI specifications. Use list_requirements and read_requirement for documents, list_api_specs and get_endpoint_details to browse APIs, and get_api_code_example to generate ready-to-use integration code."),
	)

	s.registerTools()
	s.registerResources()

	s.logger.Info("starting MCP server (stdio)",
		"name", s.cfg.Server.Name,
		"docs_dir", s.cfg.Documents.BasePath,
		"specs_dir", s.cfg.APISpecs.BasePath,
	)
	if err := server.ServeStdio(s.mcp); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
