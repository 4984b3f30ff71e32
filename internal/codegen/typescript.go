package codegen

import (
	"fmt"
	"strings"
	"text/template"
)

// tsData is the fully precomputed view the TypeScript template consumes.
// Everything language-specific (signatures, literals, URL interpolation) is
// resolved here so the template itself stays pure substitution.
type tsData struct {
	Summary     string
	Method      string
	Path        string
	BaseURL     string
	FuncSig     string
	URLPath     string
	URLVar      string
	QueryParams []paramData
	HasBody     bool
	ContentType string
	Auth        bool
	AuthHeader  string
	AuthExpr    string
	UsageArgs   string
}

var tsTemplate = template.Must(template.New("typescript").Parse(`// {{.Summary}}
// {{.Method}} {{.Path}}

const BASE_URL = '{{.BaseURL}}';
{{- if .Auth}}
const API_TOKEN = process.env.API_TOKEN ?? 'YOUR_API_TOKEN';
{{- end}}

async function callEndpoint({{.FuncSig}}): Promise<unknown> {
  const url = ` + "`${BASE_URL}{{.URLPath}}`" + `;
{{- if .QueryParams}}
  const searchParams = new URLSearchParams();
{{- range .QueryParams}}
  if (queryParams?.{{.Name}} !== undefined) {
    searchParams.append('{{.Name}}', String(queryParams.{{.Name}}));
  }
{{- end}}
  const queryString = searchParams.toString();
  const fullUrl = queryString ? ` + "`${url}?${queryString}`" + ` : url;
{{- end}}

  const response = await fetch({{.URLVar}}, {
    method: '{{.Method}}',
    headers: {
      'Content-Type': '{{.ContentType}}',
{{- if .Auth}}
      '{{.AuthHeader}}': {{.AuthExpr}},
{{- end}}
    },
{{- if .HasBody}}
    body: JSON.stringify(body),
{{- end}}
  });

  if (!response.ok) {
    throw new Error(` + "`Request failed: ${response.status} ${response.statusText}`" + `);
  }

  return response.json();
}

// Usage example:
const result = await callEndpoint({{.UsageArgs}});
console.log(result);
`))

func renderTypeScript(d *endpointData) (string, []string) {
	t := buildTSData(d, true)
	var sb strings.Builder
	if err := tsTemplate.Execute(&sb, t); err != nil {
		return fmt.Sprintf("// render error: %v\n", err), nil
	}
	// fetch is built in; nothing to import.
	return sb.String(), nil
}

func buildTSData(d *endpointData, typed bool) *tsData {
	t := &tsData{
		Summary:     d.Summary,
		Method:      d.Method,
		Path:        d.Path,
		BaseURL:     d.BaseURL,
		QueryParams: d.QueryParams,
		HasBody:     d.HasBody,
		ContentType: d.BodyType,
		URLVar:      "url",
	}
	if t.ContentType == "" {
		t.ContentType = "application/json"
	}
	if len(d.QueryParams) > 0 {
		t.URLVar = "fullUrl"
	}

	t.URLPath = d.Path
	for _, p := range d.PathParams {
		t.URLPath = strings.ReplaceAll(t.URLPath, "{"+p.Name+"}", "${"+p.Name+"}")
	}

	var sig []string
	for _, p := range d.PathParams {
		if typed {
			sig = append(sig, fmt.Sprintf("%s: %s", p.Name, tsType(p.Schema)))
		} else {
			sig = append(sig, p.Name)
		}
	}
	if len(d.QueryParams) > 0 {
		if typed {
			fields := make([]string, 0, len(d.QueryParams))
			for _, p := range d.QueryParams {
				fields = append(fields, fmt.Sprintf("%s?: %s", p.Name, tsType(p.Schema)))
			}
			sig = append(sig, fmt.Sprintf("queryParams?: { %s }", strings.Join(fields, "; ")))
		} else {
			sig = append(sig, "queryParams = {}")
		}
	}
	if d.HasBody {
		if typed {
			sig = append(sig, "body?: unknown")
		} else {
			sig = append(sig, "body = null")
		}
	}
	t.FuncSig = strings.Join(sig, ", ")

	if d.Auth != nil {
		t.Auth = true
		header, value := authHeader(d.Auth, "${API_TOKEN}")
		t.AuthHeader = header
		if value == "${API_TOKEN}" {
			t.AuthExpr = "API_TOKEN"
		} else {
			t.AuthExpr = "`" + value + "`"
		}
	}

	var args []string
	for _, p := range d.PathParams {
		args = append(args, jsLiteral(p.Example))
	}
	if len(d.QueryParams) > 0 {
		fields := make([]string, 0, len(d.QueryParams))
		for _, p := range d.QueryParams {
			fields = append(fields, fmt.Sprintf("%s: %s", p.Name, jsLiteral(p.Example)))
		}
		args = append(args, "{ "+strings.Join(fields, ", ")+" }")
	}
	if d.HasBody {
		args = append(args, jsLiteral(d.BodyExample))
	}
	t.UsageArgs = strings.Join(args, ", ")
	return t
}
