package mcp

import (
	"sort"

	"github.com/specdock/specdock/internal/spec"
	"github.com/specdock/specdock/internal/synth"
)

// Response shapes for the summary and catalog tools. Descriptors from the
// registry are shared and immutable, so example enrichment always works on
// copies.

type specSummary struct {
	SpecID     string         `json:"spec_id"`
	Info       summaryInfo    `json:"info"`
	Statistics summaryStats   `json:"statistics"`
	Endpoints  []summaryEntry `json:"endpoints"`
}

type summaryInfo struct {
	Title          string `json:"title"`
	Version        string `json:"version"`
	Description    string `json:"description,omitempty"`
	OpenAPIVersion string `json:"openapi_version"`
	BaseURL        string `json:"base_url"`
}

type summaryStats struct {
	EndpointCount int      `json:"endpoint_count"`
	Tags          []string `json:"tags,omitempty"`
}

type summaryEntry struct {
	Path           string          `json:"path"`
	Method         spec.HTTPMethod `json:"method"`
	OperationID    string          `json:"operation_id,omitempty"`
	Summary        string          `json:"summary,omitempty"`
	Tags           []string        `json:"tags,omitempty"`
	ParameterCount int             `json:"parameter_count"`
	HasRequestBody bool            `json:"has_request_body"`
	Responses      []string        `json:"responses,omitempty"`
	Deprecated     bool            `json:"deprecated,omitempty"`
}

func buildSpecSummary(doc *spec.SpecDocument) specSummary {
	out := specSummary{
		SpecID: doc.ID,
		Info: summaryInfo{
			Title:          doc.Title,
			Version:        doc.Version,
			Description:    doc.Description,
			OpenAPIVersion: doc.OpenAPIVersion,
			BaseURL:        doc.Integration().BaseURL,
		},
		Endpoints: make([]summaryEntry, 0, len(doc.Endpoints)),
	}

	tagSet := map[string]bool{}
	for i := range doc.Endpoints {
		ep := &doc.Endpoints[i]
		for _, t := range ep.Tags {
			tagSet[t] = true
		}
		var statuses []string
		for status := range ep.Responses {
			statuses = append(statuses, status)
		}
		sort.Strings(statuses)
		out.Endpoints = append(out.Endpoints, summaryEntry{
			Path:           ep.Path,
			Method:         ep.Method,
			OperationID:    ep.OperationID,
			Summary:        ep.Summary,
			Tags:           ep.Tags,
			ParameterCount: len(ep.Parameters),
			HasRequestBody: ep.RequestBody != nil,
			Responses:      statuses,
			Deprecated:     ep.Deprecated,
		})
	}

	tags := make([]string, 0, len(tagSet))
	for t := range tagSet {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	out.Statistics = summaryStats{EndpointCount: len(doc.Endpoints), Tags: tags}
	return out
}

type endpointCatalog struct {
	TotalSpecs     int           `json:"total_specs"`
	TotalEndpoints int           `json:"total_endpoints"`
	Specs          []specCatalog `json:"api_specifications"`
}

type specCatalog struct {
	SpecID    string         `json:"spec_id"`
	Title     string         `json:"title"`
	Version   string         `json:"version"`
	BaseURL   string         `json:"base_url"`
	Endpoints []catalogEntry `json:"endpoints"`
}

type catalogEntry struct {
	Path        string          `json:"path"`
	Method      spec.HTTPMethod `json:"method"`
	OperationID string          `json:"operation_id,omitempty"`
	Summary     string          `json:"summary,omitempty"`
	Parameters  []catalogParam  `json:"parameters,omitempty"`
	RequestBody *catalogBody    `json:"request_body,omitempty"`
	Security    []string        `json:"security,omitempty"`
}

type catalogParam struct {
	Name     string `json:"name"`
	In       string `json:"in"`
	Required bool   `json:"required"`
	Example  any    `json:"example"`
}

type catalogBody struct {
	ContentType string `json:"content_type"`
	Required    bool   `json:"required"`
	Example     any    `json:"example"`
}

// buildCatalog lists every (path, method) across all loaded specs exactly
// once, with example values synthesized where the document carries none.
func buildCatalog(registry *spec.Registry) endpointCatalog {
	docs := registry.Docs()
	out := endpointCatalog{Specs: make([]specCatalog, 0, len(docs))}
	for _, doc := range docs {
		info := doc.Integration()
		sc := specCatalog{
			SpecID:    doc.ID,
			Title:     doc.Title,
			Version:   doc.Version,
			BaseURL:   info.BaseURL,
			Endpoints: make([]catalogEntry, 0, len(doc.Endpoints)),
		}
		for i := range doc.Endpoints {
			sc.Endpoints = append(sc.Endpoints, buildCatalogEntry(&doc.Endpoints[i]))
		}
		out.TotalEndpoints += len(sc.Endpoints)
		out.Specs = append(out.Specs, sc)
	}
	out.TotalSpecs = len(out.Specs)
	return out
}

func buildCatalogEntry(ep *spec.EndpointDescriptor) catalogEntry {
	entry := catalogEntry{
		Path:        ep.Path,
		Method:      ep.Method,
		OperationID: ep.OperationID,
		Summary:     ep.Summary,
		Security:    ep.Security,
	}
	for _, p := range ep.Parameters {
		example := p.Example
		if example == nil {
			example = synth.Synthesize(p.Schema)
		}
		entry.Parameters = append(entry.Parameters, catalogParam{
			Name:     p.Name,
			In:       p.In,
			Required: p.Required,
			Example:  example,
		})
	}
	if ep.RequestBody != nil {
		ct, media := firstMedia(ep.RequestBody.Content)
		example := media.Example
		if example == nil {
			example = synth.Synthesize(media.Schema)
		}
		entry.RequestBody = &catalogBody{
			ContentType: ct,
			Required:    ep.RequestBody.Required,
			Example:     example,
		}
	}
	return entry
}

// firstMedia prefers application/json, then the lexicographically first
// content type, so catalog output is stable across runs.
func firstMedia(content map[string]spec.Media) (string, spec.Media) {
	if m, ok := content["application/json"]; ok {
		return "application/json", m
	}
	var keys []string
	for k := range content {
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return "", spec.Media{}
	}
	sort.Strings(keys)
	return keys[0], content[keys[0]]
}
