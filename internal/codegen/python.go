package codegen

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/specdock/specdock/internal/spec"
)

type pyData struct {
	Summary     string
	Method      string
	Path        string
	BaseURL     string
	FuncSig     string
	URLPath     string
	HasQuery    bool
	HasBody     bool
	ContentType string
	Auth        bool
	AuthHeader  string
	AuthExpr    string
	UsageArgs   string
}

var pyTemplate = template.Must(template.New("python").Parse(`# {{.Summary}}
# {{.Method}} {{.Path}}

{{if .Auth}}import os

{{end}}import requests

BASE_URL = "{{.BaseURL}}"
{{- if .Auth}}
API_TOKEN = os.environ.get("API_TOKEN", "YOUR_API_TOKEN")
{{- end}}


def call_endpoint({{.FuncSig}}):
    url = f"{BASE_URL}{{.URLPath}}"
    headers = {
        "Content-Type": "{{.ContentType}}",
{{- if .Auth}}
        "{{.AuthHeader}}": {{.AuthExpr}},
{{- end}}
    }
    response = requests.request(
        method="{{.Method}}",
        url=url,
        headers=headers,
{{- if .HasQuery}}
        params=query_params or {},
{{- end}}
{{- if .HasBody}}
        json=body,
{{- end}}
    )
    if not response.ok:
        raise RuntimeError(f"request failed: {response.status_code} {response.text}")
    return response.json()


# Usage example:
result = call_endpoint({{.UsageArgs}})
print(result)
`))

func renderPython(d *endpointData) (string, []string) {
	t := &pyData{
		Summary:     d.Summary,
		Method:      d.Method,
		Path:        d.Path,
		BaseURL:     d.BaseURL,
		URLPath:     d.Path, // f-string placeholders line up with {param}
		HasQuery:    len(d.QueryParams) > 0,
		HasBody:     d.HasBody,
		ContentType: d.BodyType,
	}
	if t.ContentType == "" {
		t.ContentType = "application/json"
	}

	var sig []string
	for _, p := range d.PathParams {
		sig = append(sig, fmt.Sprintf("%s: %s", p.Name, pyType(p.Schema)))
	}
	if t.HasQuery {
		sig = append(sig, "query_params: dict | None = None")
	}
	if d.HasBody {
		sig = append(sig, "body: dict | None = None")
	}
	t.FuncSig = strings.Join(sig, ", ")

	if d.Auth != nil {
		t.Auth = true
		header, value := authHeader(d.Auth, "{API_TOKEN}")
		t.AuthHeader = header
		if value == "{API_TOKEN}" {
			t.AuthExpr = "API_TOKEN"
		} else {
			t.AuthExpr = `f"` + value + `"`
		}
	}

	var args []string
	for _, p := range d.PathParams {
		args = append(args, pyLiteral(p.Example))
	}
	if t.HasQuery {
		fields := make([]string, 0, len(d.QueryParams))
		for _, p := range d.QueryParams {
			fields = append(fields, fmt.Sprintf("%q: %s", p.Name, pyLiteral(p.Example)))
		}
		args = append(args, "query_params={"+strings.Join(fields, ", ")+"}")
	}
	if d.HasBody {
		args = append(args, "body="+pyLiteral(d.BodyExample))
	}
	t.UsageArgs = strings.Join(args, ", ")

	var sb strings.Builder
	if err := pyTemplate.Execute(&sb, t); err != nil {
		return fmt.Sprintf("# render error: %v\n", err), nil
	}
	return sb.String(), []string{"requests"}
}

func pyType(s *spec.Schema) string {
	if s == nil {
		return "str"
	}
	switch s.Type {
	case "integer":
		return "int"
	case "number":
		return "float"
	case "boolean":
		return "bool"
	default:
		return "str"
	}
}
