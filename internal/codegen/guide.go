package codegen

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/specdock/specdock/internal/spec"
)

// maxGuideEndpoints bounds how many endpoints a guide shows inline.
const maxGuideEndpoints = 5

// Guide renders a markdown integration guide for a whole document in the
// given language. Unlike Generate, an unknown language falls back to a
// generic guide instead of failing, since the guide is documentation
// rather than runnable code.
func Guide(doc *spec.SpecDocument, language string) string {
	info := doc.Integration()
	eps := doc.Endpoints
	if len(eps) > maxGuideEndpoints {
		eps = eps[:maxGuideEndpoints]
	}

	switch strings.ToLower(strings.TrimSpace(language)) {
	case "typescript":
		return tsGuide(info, eps)
	case "javascript":
		return jsGuide(info, eps)
	case "python":
		return pyGuide(info, eps)
	default:
		return genericGuide(info, eps)
	}
}

func tsGuide(info spec.IntegrationInfo, eps []spec.EndpointDescriptor) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s - TypeScript Integration Guide\n\n", info.Title)
	fmt.Fprintf(&sb, "## Base Configuration\n\n```typescript\nconst BASE_URL = '%s';\n```\n\n", info.BaseURL)
	sb.WriteString("## HTTP Client Setup\n\n```typescript\nasync function apiRequest<T>(endpoint: string, options: RequestInit = {}): Promise<T> {\n  const response = await fetch(`${BASE_URL}${endpoint}`, {\n    ...options,\n    headers: { 'Content-Type': 'application/json', ...options.headers },\n  });\n  if (!response.ok) {\n    throw new Error(`API request failed: ${response.status} ${response.statusText}`);\n  }\n  return response.json();\n}\n```\n\n")
	sb.WriteString("## Example Endpoints\n\n")
	for _, ep := range eps {
		fmt.Fprintf(&sb, "### %s %s\n```typescript\n// %s\nconst result = await apiRequest('%s', { method: '%s' });\n```\n\n", ep.Method, ep.Path, ep.Summary, ep.Path, ep.Method)
	}
	sb.WriteString("## Error Handling\n\n```typescript\ntry {\n  const data = await apiRequest('/endpoint');\n} catch (error) {\n  if (error instanceof Error) {\n    console.error('API Error:', error.message);\n  }\n}\n```\n")
	return sb.String()
}

func jsGuide(info spec.IntegrationInfo, eps []spec.EndpointDescriptor) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s - JavaScript Integration Guide\n\n", info.Title)
	fmt.Fprintf(&sb, "## Base Configuration\n\n```javascript\nconst BASE_URL = '%s';\n```\n\n", info.BaseURL)
	sb.WriteString("## HTTP Client Setup\n\n```javascript\nasync function apiRequest(endpoint, options = {}) {\n  const response = await fetch(`${BASE_URL}${endpoint}`, {\n    ...options,\n    headers: { 'Content-Type': 'application/json', ...options.headers },\n  });\n  if (!response.ok) {\n    throw new Error(`API request failed: ${response.status} ${response.statusText}`);\n  }\n  return response.json();\n}\n```\n\n")
	sb.WriteString("## Example Endpoints\n\n")
	for _, ep := range eps {
		fmt.Fprintf(&sb, "### %s %s\n```javascript\n// %s\nconst result = await apiRequest('%s', { method: '%s' });\n```\n\n", ep.Method, ep.Path, ep.Summary, ep.Path, ep.Method)
	}
	sb.WriteString("## Error Handling\n\n```javascript\ntry {\n  const data = await apiRequest('/endpoint');\n} catch (error) {\n  console.error('API Error:', error.message);\n}\n```\n")
	return sb.String()
}

func pyGuide(info spec.IntegrationInfo, eps []spec.EndpointDescriptor) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s - Python Integration Guide\n\n", info.Title)
	sb.WriteString("## Installation\n\n```bash\npip install requests\n```\n\n")
	fmt.Fprintf(&sb, "## Base Configuration\n\n```python\nBASE_URL = \"%s\"\n```\n\n", info.BaseURL)
	sb.WriteString("## HTTP Client Setup\n\n```python\nimport requests\n\n\nclass APIClient:\n    def __init__(self, base_url: str = BASE_URL, api_key: str | None = None):\n        self.base_url = base_url\n        self.session = requests.Session()\n        self.session.headers[\"Content-Type\"] = \"application/json\"\n        if api_key:\n            self.session.headers[\"Authorization\"] = f\"Bearer {api_key}\"\n\n    def request(self, method: str, endpoint: str, **kwargs):\n        response = self.session.request(method, f\"{self.base_url}{endpoint}\", **kwargs)\n        response.raise_for_status()\n        return response.json()\n\n\nclient = APIClient()\n```\n\n")
	sb.WriteString("## Example Endpoints\n\n")
	for _, ep := range eps {
		fmt.Fprintf(&sb, "### %s %s\n```python\n# %s\nresult = client.request(\"%s\", \"%s\")\n```\n\n", ep.Method, ep.Path, ep.Summary, ep.Method, ep.Path)
	}
	sb.WriteString("## Error Handling\n\n```python\ntry:\n    data = client.request(\"GET\", \"/endpoint\")\nexcept requests.exceptions.HTTPError as exc:\n    print(f\"HTTP Error: {exc}\")\n```\n")
	return sb.String()
}

func genericGuide(info spec.IntegrationInfo, eps []spec.EndpointDescriptor) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s - Integration Guide\n\n", info.Title)
	fmt.Fprintf(&sb, "## Base URL\n%s\n\n", info.BaseURL)
	if len(info.SecuritySchemes) > 0 {
		schemes, _ := json.MarshalIndent(info.SecuritySchemes, "", "  ")
		fmt.Fprintf(&sb, "## Authentication\n```json\n%s\n```\n\n", schemes)
	}
	sb.WriteString("## Example Endpoints\n\n")
	for _, ep := range eps {
		fmt.Fprintf(&sb, "### %s %s\n%s\n\n", ep.Method, ep.Path, ep.Summary)
	}
	return sb.String()
}
