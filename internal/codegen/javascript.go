package codegen

import (
	"fmt"
	"strings"
	"text/template"
)

// The JavaScript snippet is the TypeScript one without annotations, so it
// reuses the same precomputed data with typing switched off.
var jsTemplate = template.Must(template.New("javascript").Parse(`// {{.Summary}}
// {{.Method}} {{.Path}}

const BASE_URL = '{{.BaseURL}}';
{{- if .Auth}}
const API_TOKEN = process.env.API_TOKEN || 'YOUR_API_TOKEN';
{{- end}}

async function callEndpoint({{.FuncSig}}) {
  const url = ` + "`${BASE_URL}{{.URLPath}}`" + `;
{{- if .QueryParams}}
  const searchParams = new URLSearchParams();
  Object.entries(queryParams).forEach(([key, value]) => {
    if (value !== undefined && value !== null) {
      searchParams.append(key, String(value));
    }
  });
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

func renderJavaScript(d *endpointData) (string, []string) {
	t := buildTSData(d, false)
	var sb strings.Builder
	if err := jsTemplate.Execute(&sb, t); err != nil {
		return fmt.Sprintf("// render error: %v\n", err), nil
	}
	return sb.String(), nil
}
