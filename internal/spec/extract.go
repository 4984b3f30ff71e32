package spec

import (
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// maxSchemaDepth bounds schema conversion on pathological nesting. Cycles
// are broken by the resolution stack before the depth limit ever matters.
const maxSchemaDepth = 32

// BuildDocument converts a parsed OpenAPI document into an immutable
// SpecDocument. Operations that cannot be extracted (unresolved refs) are
// skipped; each skip is reported as a warning so the caller can log it.
func BuildDocument(id, filename string, doc *openapi3.T) (*SpecDocument, []string) {
	sd := &SpecDocument{
		ID:             id,
		Filename:       filename,
		OpenAPIVersion: doc.OpenAPI,
	}
	if doc.Info != nil {
		sd.Title = strings.TrimSpace(doc.Info.Title)
		sd.Version = strings.TrimSpace(doc.Info.Version)
		sd.Description = strings.TrimSpace(doc.Info.Description)
	}
	if sd.Title == "" {
		sd.Title = id
	}
	for _, s := range doc.Servers {
		if s == nil {
			continue
		}
		sd.Servers = append(sd.Servers, Server{URL: strings.TrimSpace(s.URL), Description: strings.TrimSpace(s.Description)})
	}
	sd.SecuritySchemes = extractSecuritySchemes(doc)

	var warnings []string
	sd.Endpoints, warnings = Extract(doc)
	return sd, warnings
}

// Extract walks the path/method tree and normalizes each operation into an
// EndpointDescriptor. Paths are visited in sorted order so the output is
// stable across loads. Path-level parameters are merged with method-level
// ones; a method-level parameter with the same (name, location) wins.
func Extract(doc *openapi3.T) ([]EndpointDescriptor, []string) {
	var endpoints []EndpointDescriptor
	var warnings []string
	if doc == nil || doc.Paths == nil {
		return nil, nil
	}

	pathKeys := make([]string, 0, len(doc.Paths))
	for p := range doc.Paths {
		pathKeys = append(pathKeys, p)
	}
	sort.Strings(pathKeys)

	for _, p := range pathKeys {
		item := doc.Paths[p]
		if item == nil {
			continue
		}

		baseParams := make(map[string]*openapi3.ParameterRef)
		for _, pref := range item.Parameters {
			if pref == nil || pref.Value == nil {
				continue
			}
			baseParams[paramKey(pref.Value.In, pref.Value.Name)] = pref
		}

		ops := []struct {
			m  HTTPMethod
			op *openapi3.Operation
		}{
			{GET, item.Get},
			{POST, item.Post},
			{PUT, item.Put},
			{PATCH, item.Patch},
			{DELETE, item.Delete},
			{HEAD, item.Head},
			{OPTIONS, item.Options},
		}

		for _, pair := range ops {
			if pair.op == nil {
				continue
			}
			ep, err := extractOperation(doc, p, pair.m, pair.op, baseParams)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("skipping %s %s: %v", pair.m, p, err))
				continue
			}
			endpoints = append(endpoints, *ep)
		}
	}
	return endpoints, warnings
}

func extractOperation(doc *openapi3.T, path string, method HTTPMethod, op *openapi3.Operation, baseParams map[string]*openapi3.ParameterRef) (*EndpointDescriptor, error) {
	merged := make(map[string]*openapi3.ParameterRef, len(baseParams))
	for k, v := range baseParams {
		merged[k] = v
	}
	for _, pref := range op.Parameters {
		if pref == nil || pref.Value == nil {
			continue
		}
		merged[paramKey(pref.Value.In, pref.Value.Name)] = pref
	}

	params := make([]ParameterDescriptor, 0, len(merged))
	for _, pref := range merged {
		p := pref.Value
		pd := ParameterDescriptor{
			Name:     strings.TrimSpace(p.Name),
			In:       strings.TrimSpace(p.In),
			Required: p.Required,
			Example:  p.Example,
		}
		if p.Schema != nil {
			s, err := convertSchema(p.Schema, newResolution())
			if err != nil {
				return nil, fmt.Errorf("parameter %q: %w", p.Name, err)
			}
			pd.Schema = s
			if pd.Example == nil && s != nil {
				pd.Example = s.Example
			}
		}
		params = append(params, pd)
	}
	sort.Slice(params, func(i, j int) bool {
		if params[i].In == params[j].In {
			return params[i].Name < params[j].Name
		}
		return params[i].In < params[j].In
	})

	ep := &EndpointDescriptor{
		Path:        path,
		Method:      method,
		OperationID: strings.TrimSpace(op.OperationID),
		Summary:     strings.TrimSpace(op.Summary),
		Description: strings.TrimSpace(op.Description),
		Parameters:  params,
		Deprecated:  op.Deprecated,
	}
	for _, t := range op.Tags {
		if t = strings.TrimSpace(t); t != "" {
			ep.Tags = append(ep.Tags, t)
		}
	}

	if op.RequestBody != nil && op.RequestBody.Value != nil {
		content, err := convertContent(op.RequestBody.Value.Content)
		if err != nil {
			return nil, fmt.Errorf("request body: %w", err)
		}
		ep.RequestBody = &RequestBodyDescriptor{
			Required: op.RequestBody.Value.Required,
			Content:  content,
		}
	}

	if op.Responses != nil {
		ep.Responses = make(map[string]ResponseDescriptor, len(op.Responses))
		for code, rref := range op.Responses {
			if rref == nil || rref.Value == nil {
				continue
			}
			desc := ""
			if rref.Value.Description != nil {
				desc = *rref.Value.Description
			}
			content, err := convertContent(rref.Value.Content)
			if err != nil {
				return nil, fmt.Errorf("response %s: %w", code, err)
			}
			ep.Responses[code] = ResponseDescriptor{Description: desc, Content: content}
		}
	}

	ep.Security = securityNames(doc, op)
	return ep, nil
}

func paramKey(in, name string) string { return in + ":" + name }

func convertContent(content openapi3.Content) (map[string]Media, error) {
	if len(content) == 0 {
		return nil, nil
	}
	out := make(map[string]Media, len(content))
	for mime, mt := range content {
		if mt == nil {
			continue
		}
		m := Media{Example: mt.Example}
		if m.Example == nil && len(mt.Examples) > 0 {
			// Pick the first example deterministically by name.
			names := make([]string, 0, len(mt.Examples))
			for name := range mt.Examples {
				names = append(names, name)
			}
			sort.Strings(names)
			if ref := mt.Examples[names[0]]; ref != nil && ref.Value != nil {
				m.Example = ref.Value.Value
			}
		}
		if mt.Schema != nil {
			s, err := convertSchema(mt.Schema, newResolution())
			if err != nil {
				return nil, err
			}
			m.Schema = s
			if m.Example == nil && s != nil {
				m.Example = s.Example
			}
		}
		out[mime] = m
	}
	return out, nil
}

// resolution tracks the schemas currently on the conversion stack so that
// $ref cycles terminate with a placeholder instead of recursing forever.
type resolution struct {
	stack map[*openapi3.Schema]bool
	depth int
}

func newResolution() *resolution {
	return &resolution{stack: make(map[*openapi3.Schema]bool)}
}

func convertSchema(ref *openapi3.SchemaRef, res *resolution) (*Schema, error) {
	if ref == nil {
		return nil, nil
	}
	if ref.Value == nil {
		if ref.Ref != "" {
			return nil, fmt.Errorf("unresolved schema reference %q", ref.Ref)
		}
		return &Schema{Type: "object"}, nil
	}
	v := ref.Value
	if res.stack[v] || res.depth >= maxSchemaDepth {
		// Revisit of a schema already being resolved: substitute an opaque
		// placeholder rather than recursing.
		return &Schema{Type: "object"}, nil
	}
	res.stack[v] = true
	res.depth++
	defer func() {
		delete(res.stack, v)
		res.depth--
	}()

	s := &Schema{
		Type:    strings.TrimSpace(v.Type),
		Format:  strings.TrimSpace(v.Format),
		Example: v.Example,
		Minimum: v.Min,
	}
	if len(v.Required) > 0 {
		s.Required = append([]string(nil), v.Required...)
	}
	if len(v.Enum) > 0 {
		s.Enum = append([]any(nil), v.Enum...)
	}
	if v.Items != nil {
		items, err := convertSchema(v.Items, res)
		if err != nil {
			return nil, err
		}
		s.Items = items
	}
	if len(v.Properties) > 0 {
		s.Properties = make(map[string]*Schema, len(v.Properties))
		for name, pref := range v.Properties {
			ps, err := convertSchema(pref, res)
			if err != nil {
				return nil, err
			}
			if ps != nil {
				s.Properties[name] = ps
			}
		}
	}
	// Compositions are flattened: allOf members merge into the parent,
	// anyOf/oneOf contribute their first alternative.
	for _, aref := range v.AllOf {
		as, err := convertSchema(aref, res)
		if err != nil {
			return nil, err
		}
		mergeSchema(s, as)
	}
	if s.Type == "" && len(v.OneOf) > 0 {
		os, err := convertSchema(v.OneOf[0], res)
		if err != nil {
			return nil, err
		}
		mergeSchema(s, os)
	}
	if s.Type == "" && len(v.AnyOf) > 0 {
		as, err := convertSchema(v.AnyOf[0], res)
		if err != nil {
			return nil, err
		}
		mergeSchema(s, as)
	}
	return s, nil
}

func mergeSchema(dst, src *Schema) {
	if src == nil {
		return
	}
	if dst.Type == "" {
		dst.Type = src.Type
	}
	if dst.Format == "" {
		dst.Format = src.Format
	}
	if dst.Example == nil {
		dst.Example = src.Example
	}
	if len(src.Properties) > 0 {
		if dst.Properties == nil {
			dst.Properties = make(map[string]*Schema, len(src.Properties))
		}
		for name, p := range src.Properties {
			if _, exists := dst.Properties[name]; !exists {
				dst.Properties[name] = p
			}
		}
	}
	for _, r := range src.Required {
		if !contains(dst.Required, r) {
			dst.Required = append(dst.Required, r)
		}
	}
	if dst.Items == nil {
		dst.Items = src.Items
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// securityNames collects the security requirement names for an operation,
// falling back to the document-level requirements when the operation does
// not declare its own.
func securityNames(doc *openapi3.T, op *openapi3.Operation) []string {
	var reqs openapi3.SecurityRequirements
	if op.Security != nil {
		reqs = *op.Security
	} else {
		reqs = doc.Security
	}
	set := make(map[string]struct{})
	for _, req := range reqs {
		for name := range req {
			set[name] = struct{}{}
		}
	}
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func extractSecuritySchemes(doc *openapi3.T) []SecurityScheme {
	if doc.Components == nil || len(doc.Components.SecuritySchemes) == 0 {
		return nil
	}
	names := make([]string, 0, len(doc.Components.SecuritySchemes))
	for name := range doc.Components.SecuritySchemes {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]SecurityScheme, 0, len(names))
	for _, name := range names {
		ref := doc.Components.SecuritySchemes[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		v := ref.Value
		out = append(out, SecurityScheme{
			Name:         name,
			Type:         v.Type,
			Scheme:       v.Scheme,
			BearerFormat: v.BearerFormat,
			In:           v.In,
			ParamName:    v.Name,
		})
	}
	return out
}
