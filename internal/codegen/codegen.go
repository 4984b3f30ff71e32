// Package codegen renders runnable client snippets for a single endpoint in
// a target language. Each language is a small set of text templates over the
// same precomputed endpoint data, so adding a target never touches
// extraction or synthesis.
package codegen

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/specdock/specdock/internal/spec"
	"github.com/specdock/specdock/internal/synth"
)

// ErrUnsupportedLanguage is returned for a language outside the registered
// set. No partial output is produced.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// CodeExample is a rendered snippet plus the metadata callers surface
// alongside it. It is a pure function of (endpoint, language, examples) and
// safe to cache by (spec id, path, method, language).
type CodeExample struct {
	SpecID      string          `json:"spec_id"`
	Path        string          `json:"path"`
	Method      spec.HTTPMethod `json:"method"`
	Language    string          `json:"language"`
	ContentType string          `json:"content_type"`
	Imports     []string        `json:"imports,omitempty"`
	Code        string          `json:"code"`
	Notes       []string        `json:"notes,omitempty"`
}

type renderer struct {
	contentType string
	render      func(d *endpointData) (code string, imports []string)
}

var renderers = map[string]renderer{
	"typescript": {contentType: "text/x-typescript", render: renderTypeScript},
	"javascript": {contentType: "text/javascript", render: renderJavaScript},
	"python":     {contentType: "text/x-python", render: renderPython},
}

// Languages returns the registered language tags, sorted.
func Languages() []string {
	out := make([]string, 0, len(renderers))
	for lang := range renderers {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}

// Generate renders a complete call snippet for the endpoint in the given
// language. Missing example values are synthesized deterministically.
func Generate(info spec.IntegrationInfo, ep *spec.EndpointDescriptor, language string) (*CodeExample, error) {
	lang := strings.ToLower(strings.TrimSpace(language))
	r, ok := renderers[lang]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedLanguage, language, strings.Join(Languages(), ", "))
	}

	d := analyze(info, ep)
	code, imports := r.render(d)

	ex := &CodeExample{
		SpecID:      info.SpecID,
		Path:        ep.Path,
		Method:      ep.Method,
		Language:    lang,
		ContentType: r.contentType,
		Imports:     imports,
		Code:        code,
	}
	ex.Notes = append(ex.Notes, "Replace placeholder values with real data before running.")
	if d.Auth != nil {
		ex.Notes = append(ex.Notes, fmt.Sprintf("This endpoint requires the %q security scheme; set the token accordingly.", d.Auth.Name))
	}
	return ex, nil
}

// paramData is one parameter with its synthesized-or-literal example value.
type paramData struct {
	Name     string
	Required bool
	Schema   *spec.Schema
	Example  any
}

// endpointData is everything the language templates consume.
type endpointData struct {
	Summary     string
	Method      string
	Path        string
	BaseURL     string
	PathParams  []paramData
	QueryParams []paramData
	HasBody     bool
	BodyType    string
	BodyExample any
	Auth        *spec.SecurityScheme
}

func analyze(info spec.IntegrationInfo, ep *spec.EndpointDescriptor) *endpointData {
	d := &endpointData{
		Summary: ep.Summary,
		Method:  string(ep.Method),
		Path:    ep.Path,
		BaseURL: info.BaseURL,
	}
	if d.Summary == "" {
		d.Summary = fmt.Sprintf("%s %s", ep.Method, ep.Path)
	}

	for _, p := range ep.Parameters {
		pd := paramData{Name: p.Name, Required: p.Required, Schema: p.Schema, Example: p.Example}
		if pd.Example == nil {
			pd.Example = synth.Synthesize(p.Schema)
		}
		switch p.In {
		case "path":
			d.PathParams = append(d.PathParams, pd)
		case "query":
			d.QueryParams = append(d.QueryParams, pd)
		}
	}

	if ep.RequestBody != nil && len(ep.RequestBody.Content) > 0 {
		d.HasBody = true
		d.BodyType = firstContentType(ep.RequestBody.Content)
		media := ep.RequestBody.Content[d.BodyType]
		if media.Example != nil {
			d.BodyExample = media.Example
		} else {
			d.BodyExample = synth.Synthesize(media.Schema)
		}
	}

	if len(ep.Security) > 0 {
		d.Auth = pickScheme(info.SecuritySchemes, ep.Security)
	}
	return d
}

// pickScheme matches the endpoint's first security requirement against the
// document's schemes; a requirement naming an undeclared scheme falls back
// to a generic bearer placeholder.
func pickScheme(schemes []spec.SecurityScheme, required []string) *spec.SecurityScheme {
	for _, name := range required {
		for i := range schemes {
			if schemes[i].Name == name {
				return &schemes[i]
			}
		}
	}
	return &spec.SecurityScheme{Name: required[0], Type: "http", Scheme: "bearer"}
}

func firstContentType(content map[string]spec.Media) string {
	if _, ok := content["application/json"]; ok {
		return "application/json"
	}
	keys := make([]string, 0, len(content))
	for k := range content {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys[0]
}

// authHeader returns (header name, value expression) for a scheme, where
// the value expression references a tokenVar placeholder variable.
func authHeader(s *spec.SecurityScheme, tokenExpr string) (string, string) {
	switch {
	case s.Type == "apiKey" && s.In == "header":
		name := s.ParamName
		if name == "" {
			name = "X-Api-Key"
		}
		return name, tokenExpr
	case s.Type == "http" && strings.EqualFold(s.Scheme, "basic"):
		return "Authorization", "Basic " + tokenExpr
	default:
		return "Authorization", "Bearer " + tokenExpr
	}
}

// jsLiteral renders a value as a JSON literal usable in TypeScript and
// JavaScript source.
func jsLiteral(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

// pyLiteral renders a value as a Python literal (True/False/None instead of
// the JSON spellings).
func pyLiteral(v any) string {
	switch t := v.(type) {
	case nil:
		return "None"
	case bool:
		if t {
			return "True"
		}
		return "False"
	case string:
		b, _ := json.Marshal(t)
		return string(b)
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, pyLiteral(item))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%q: %s", k, pyLiteral(t[k])))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return "None"
		}
		return string(b)
	}
}

// tsType maps a schema to a TypeScript annotation.
func tsType(s *spec.Schema) string {
	if s == nil {
		return "unknown"
	}
	switch s.Type {
	case "string":
		return "string"
	case "integer", "number":
		return "number"
	case "boolean":
		return "boolean"
	case "array":
		return tsType(s.Items) + "[]"
	case "object":
		return "Record<string, unknown>"
	default:
		return "unknown"
	}
}
