package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/specdock/specdock/internal/codegen"
	"github.com/specdock/specdock/internal/docs"
	"github.com/specdock/specdock/internal/spec"
)

func (s *Server) registerTools() {
	s.mcp.AddTool(mcp.NewTool("list_requirements",
		mcp.WithDescription("List all available requirement documents with metadata."),
	), s.handleListRequirements)

	s.mcp.AddTool(mcp.NewTool("read_requirement",
		mcp.WithDescription("Read the full content of a requirement document."),
		mcp.WithString("doc_id", mcp.Required(), mcp.Description("Document identifier (filename without extension)")),
	), s.handleReadRequirement)

	s.mcp.AddTool(mcp.NewTool("list_api_specs",
		mcp.WithDescription("List all loaded OpenAPI specifications."),
	), s.handleListSpecs)

	s.mcp.AddTool(mcp.NewTool("get_api_summary",
		mcp.WithDescription("Get a summary of an API specification: info, statistics, and a compact endpoint listing."),
		mcp.WithString("spec_id", mcp.Required(), mcp.Description("Specification identifier (filename without extension)")),
	), s.handleSpecSummary)

	s.mcp.AddTool(mcp.NewTool("get_endpoint_details",
		mcp.WithDescription("Get full details for endpoints at a path: parameters, request body, responses, and security."),
		mcp.WithString("spec_id", mcp.Required(), mcp.Description("Specification identifier")),
		mcp.WithString("path", mcp.Required(), mcp.Description("Endpoint path, e.g. /users/{id}")),
		mcp.WithString("method", mcp.Description("HTTP method; omit to return all methods at the path")),
	), s.handleEndpointDetails)

	s.mcp.AddTool(mcp.NewTool("list_all_api_endpoints",
		mcp.WithDescription("List every endpoint across all loaded specifications with synthesized example values."),
	), s.handleEndpointCatalog)

	s.mcp.AddTool(mcp.NewTool("get_api_code_example",
		mcp.WithDescription("Generate a ready-to-use code example for calling an endpoint."),
		mcp.WithString("spec_id", mcp.Required(), mcp.Description("Specification identifier")),
		mcp.WithString("path", mcp.Required(), mcp.Description("Endpoint path")),
		mcp.WithString("method", mcp.Required(), mcp.Description("HTTP method")),
		mcp.WithString("language", mcp.Description("Target language: typescript, javascript, or python (default typescript)")),
	), s.handleCodeExample)

	s.mcp.AddTool(mcp.NewTool("get_integration_guide",
		mcp.WithDescription("Get a step-by-step integration guide for an API in a given language."),
		mcp.WithString("spec_id", mcp.Required(), mcp.Description("Specification identifier")),
		mcp.WithString("language", mcp.Description("Target language (default typescript)")),
	), s.handleIntegrationGuide)

	s.mcp.AddTool(mcp.NewTool("refresh_api_specs",
		mcp.WithDescription("Rescan the specification directory and reload all specs."),
	), s.handleRefresh)
}

// toolJSON marshals a success payload for a tool result. Marshal failures
// surface as tool errors rather than panics.
func toolJSON(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleListRequirements(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	metas, err := s.docs.List()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing documents: %v", err)), nil
	}
	type docEntry struct {
		ID       string `json:"doc_id"`
		Filename string `json:"filename"`
		Format   string `json:"format"`
		Title    string `json:"title,omitempty"`
		Size     int64  `json:"size_bytes"`
	}
	entries := make([]docEntry, 0, len(metas))
	for _, m := range metas {
		entries = append(entries, docEntry{
			ID:       m.ID,
			Filename: m.Filename,
			Format:   m.Format,
			Title:    m.Title,
			Size:     m.Size,
		})
	}
	return toolJSON(map[string]any{
		"total":     len(entries),
		"documents": entries,
	})
}

func (s *Server) handleReadRequirement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := mcp.ParseString(req, "doc_id", "")
	if id == "" {
		return mcp.NewToolResultError("doc_id is required"), nil
	}
	content, meta, err := s.docs.Read(id)
	if err != nil {
		if errors.Is(err, docs.ErrDocumentNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("document %q not found", id)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("reading document %q: %v", id, err)), nil
	}
	return toolJSON(map[string]any{
		"doc_id":   meta.ID,
		"filename": meta.Filename,
		"format":   meta.Format,
		"content":  content,
	})
}

func (s *Server) handleListSpecs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summaries := s.registry.List()
	return toolJSON(map[string]any{
		"total": len(summaries),
		"specs": summaries,
	})
}

func (s *Server) handleSpecSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := mcp.ParseString(req, "spec_id", "")
	if id == "" {
		return mcp.NewToolResultError("spec_id is required"), nil
	}
	doc, err := s.registry.Get(id)
	if err != nil {
		return specError(err, id)
	}
	return toolJSON(buildSpecSummary(doc))
}

func (s *Server) handleEndpointDetails(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := mcp.ParseString(req, "spec_id", "")
	path := mcp.ParseString(req, "path", "")
	method := mcp.ParseString(req, "method", "")
	if id == "" || path == "" {
		return mcp.NewToolResultError("spec_id and path are required"), nil
	}
	doc, err := s.registry.Get(id)
	if err != nil {
		return specError(err, id)
	}

	if method != "" {
		ep, err := doc.Endpoint(path, spec.HTTPMethod(strings.ToUpper(method)))
		if err != nil {
			return specError(err, id)
		}
		return toolJSON(map[string]any{
			"spec_id":  id,
			"endpoint": ep,
		})
	}

	var matches []*spec.EndpointDescriptor
	for i := range doc.Endpoints {
		if doc.Endpoints[i].Path == path {
			matches = append(matches, &doc.Endpoints[i])
		}
	}
	if len(matches) == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("no endpoints at path %q in spec %q", path, id)), nil
	}
	return toolJSON(map[string]any{
		"spec_id":   id,
		"path":      path,
		"endpoints": matches,
	})
}

func (s *Server) handleEndpointCatalog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return toolJSON(buildCatalog(s.registry))
}

func (s *Server) handleCodeExample(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := mcp.ParseString(req, "spec_id", "")
	path := mcp.ParseString(req, "path", "")
	method := mcp.ParseString(req, "method", "")
	language := mcp.ParseString(req, "language", "typescript")
	if id == "" || path == "" || method == "" {
		return mcp.NewToolResultError("spec_id, path, and method are required"), nil
	}
	doc, err := s.registry.Get(id)
	if err != nil {
		return specError(err, id)
	}
	ep, err := doc.Endpoint(path, spec.HTTPMethod(strings.ToUpper(method)))
	if err != nil {
		return specError(err, id)
	}
	example, err := codegen.Generate(doc.Integration(), ep, language)
	if err != nil {
		if errors.Is(err, codegen.ErrUnsupportedLanguage) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("generating example: %v", err)), nil
	}
	example.SpecID = id
	return toolJSON(example)
}

func (s *Server) handleIntegrationGuide(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := mcp.ParseString(req, "spec_id", "")
	language := mcp.ParseString(req, "language", "typescript")
	if id == "" {
		return mcp.NewToolResultError("spec_id is required"), nil
	}
	doc, err := s.registry.Get(id)
	if err != nil {
		return specError(err, id)
	}
	return mcp.NewToolResultText(codegen.Guide(doc, language)), nil
}

func (s *Server) handleRefresh(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.registry.Load(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reloading specs: %v", err)), nil
	}
	s.docs.ClearCache()
	summaries := s.registry.List()
	return toolJSON(map[string]any{
		"reloaded": true,
		"total":    len(summaries),
		"specs":    summaries,
	})
}

func specError(err error, id string) (*mcp.CallToolResult, error) {
	switch {
	case errors.Is(err, spec.ErrSpecNotFound):
		return mcp.NewToolResultError(fmt.Sprintf("spec %q not found; use list_api_specs to see available specs", id)), nil
	case errors.Is(err, spec.ErrEndpointNotFound):
		return mcp.NewToolResultError(fmt.Sprintf("%v; use get_api_summary on %q to see available endpoints", err, id)), nil
	default:
		return mcp.NewToolResultError(err.Error()), nil
	}
}
