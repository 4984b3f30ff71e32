// Package synth produces representative example values for JSON Schema
// fragments that do not carry an author-supplied example. Synthesis is
// deterministic: the same schema always yields the same value, so generated
// code examples are reproducible across calls.
package synth

import (
	"sort"

	"github.com/specdock/specdock/internal/spec"
)

// MaxDepth caps recursion on self-referential or deeply nested schemas.
// Beyond it a placeholder is substituted instead of recursing further.
const MaxDepth = 10

// Synthesize returns an example value for the schema. It never fails;
// unknown or missing types produce an opaque placeholder object. A literal
// example on the schema always wins over synthesis.
func Synthesize(s *spec.Schema) any {
	return synthesize(s, 0)
}

func synthesize(s *spec.Schema, depth int) any {
	if s == nil || depth >= MaxDepth {
		return map[string]any{}
	}
	if s.Example != nil {
		return s.Example
	}

	switch s.Type {
	case "string":
		if len(s.Enum) > 0 {
			return s.Enum[0]
		}
		return stringPlaceholder(s.Format)
	case "integer":
		if len(s.Enum) > 0 {
			return s.Enum[0]
		}
		if s.Minimum != nil {
			return int64(*s.Minimum)
		}
		return int64(1)
	case "number":
		if len(s.Enum) > 0 {
			return s.Enum[0]
		}
		if s.Minimum != nil {
			return *s.Minimum
		}
		return 1.0
	case "boolean":
		return true
	case "array":
		return []any{synthesize(s.Items, depth+1)}
	case "object":
		out := make(map[string]any, len(s.Required))
		// Required properties only; optional ones are omitted uniformly.
		required := append([]string(nil), s.Required...)
		sort.Strings(required)
		for _, name := range required {
			out[name] = synthesize(s.Properties[name], depth+1)
		}
		return out
	default:
		return map[string]any{}
	}
}

func stringPlaceholder(format string) string {
	switch format {
	case "date-time":
		return "2024-01-15T09:30:00Z"
	case "date":
		return "2024-01-15"
	case "email":
		return "user@example.com"
	case "uuid":
		return "123e4567-e89b-12d3-a456-426614174000"
	case "uri", "url":
		return "https://example.com/resource"
	case "hostname":
		return "api.example.com"
	case "ipv4":
		return "192.168.0.1"
	case "password":
		return "********"
	case "byte":
		return "ZXhhbXBsZQ=="
	default:
		return "string"
	}
}
