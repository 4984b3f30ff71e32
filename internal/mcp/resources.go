package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/specdock/specdock/internal/codegen"
)

// Resource URIs mirror the tool surface for clients that prefer resource
// reads over tool calls:
//
//	requirement://{doc_id}                    document content
//	api-spec://{spec_id}                      full extracted document
//	api-spec://{spec_id}/summary              compact summary
//	api-integration://{spec_id}/{language}    integration guide
func (s *Server) registerResources() {
	s.mcp.AddResourceTemplate(mcp.NewResourceTemplate(
		"requirement://{doc_id}",
		"Requirement Document",
		mcp.WithTemplateDescription("Full content of a requirement document"),
		mcp.WithTemplateMIMEType("text/markdown"),
	), s.readRequirementResource)

	s.mcp.AddResourceTemplate(mcp.NewResourceTemplate(
		"api-spec://{spec_id}",
		"API Specification",
		mcp.WithTemplateDescription("Extracted endpoints, schemas, and security for one API specification"),
		mcp.WithTemplateMIMEType("application/json"),
	), s.readSpecResource)

	s.mcp.AddResourceTemplate(mcp.NewResourceTemplate(
		"api-spec://{spec_id}/summary",
		"API Specification Summary",
		mcp.WithTemplateDescription("Compact summary of one API specification"),
		mcp.WithTemplateMIMEType("application/json"),
	), s.readSpecResource)

	s.mcp.AddResourceTemplate(mcp.NewResourceTemplate(
		"api-integration://{spec_id}/{language}",
		"API Integration Guide",
		mcp.WithTemplateDescription("Step-by-step integration guide for an API in a given language"),
		mcp.WithTemplateMIMEType("text/markdown"),
	), s.readIntegrationResource)
}

func (s *Server) readRequirementResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	id := strings.TrimPrefix(req.Params.URI, "requirement://")
	if id == "" {
		return nil, fmt.Errorf("invalid requirement URI %q", req.Params.URI)
	}
	content, meta, err := s.docs.Read(id)
	if err != nil {
		return nil, err
	}
	mime := "text/markdown"
	if meta.Format != ".md" {
		mime = "text/plain"
	}
	return []mcp.ResourceContents{mcp.TextResourceContents{
		URI:      req.Params.URI,
		MIMEType: mime,
		Text:     content,
	}}, nil
}

// readSpecResource serves both api-spec://{id} and api-spec://{id}/summary.
func (s *Server) readSpecResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	rest := strings.TrimPrefix(req.Params.URI, "api-spec://")
	id, variant, _ := strings.Cut(rest, "/")
	if id == "" {
		return nil, fmt.Errorf("invalid api-spec URI %q", req.Params.URI)
	}
	doc, err := s.registry.Get(id)
	if err != nil {
		return nil, err
	}

	var payload any = doc
	if variant == "summary" {
		payload = buildSpecSummary(doc)
	} else if variant != "" {
		return nil, fmt.Errorf("unknown api-spec variant %q", variant)
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{mcp.TextResourceContents{
		URI:      req.Params.URI,
		MIMEType: "application/json",
		Text:     string(data),
	}}, nil
}

func (s *Server) readIntegrationResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	rest := strings.TrimPrefix(req.Params.URI, "api-integration://")
	id, language, ok := strings.Cut(rest, "/")
	if !ok || id == "" || language == "" {
		return nil, fmt.Errorf("invalid api-integration URI %q, expected api-integration://{spec_id}/{language}", req.Params.URI)
	}
	doc, err := s.registry.Get(id)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{mcp.TextResourceContents{
		URI:      req.Params.URI,
		MIMEType: "text/markdown",
		Text:     codegen.Guide(doc, language),
	}}, nil
}
