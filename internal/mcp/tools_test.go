package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specdock/specdock/internal/config"
	"github.com/specdock/specdock/internal/logging"
)

const widgetsSpec = `
openapi: 3.0.0
info:
  title: Widgets API
  version: "1.0.0"
servers:
  - url: https://api.widgets.dev/v1
security:
  - bearerAuth: []
paths:
  "/widgets":
    get:
      operationId: listWidgets
      summary: List widgets
      tags: [widgets]
      parameters:
        - name: limit
          in: query
          schema:
            type: integer
            minimum: 1
      responses:
        "200":
          description: OK
    post:
      operationId: createWidget
      summary: Create a widget
      requestBody:
        required: true
        content:
          application/json:
            schema:
              type: object
              required: [name]
              properties:
                name:
                  type: string
      responses:
        "201":
          description: Created
  "/widgets/{id}":
    get:
      operationId: getWidget
      summary: Fetch one widget
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: string
      responses:
        "200":
          description: OK
components:
  securitySchemes:
    bearerAuth:
      type: http
      scheme: bearer
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	specsDir := t.TempDir()
	docsDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(specsDir, "widgets.yaml"), []byte(strings.TrimSpace(widgetsSpec)+"\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(docsDir, "auth.md"), []byte("# Auth Requirements\n\nAll calls use bearer tokens.\n"), 0o600))

	cfg := config.Default()
	cfg.Documents.BasePath = docsDir
	cfg.APISpecs.BasePath = specsDir
	s := NewServer(&cfg, logging.NewSilentLogger())
	require.NoError(t, s.registry.Load(context.Background()))
	return s
}

func callReq(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return tc.Text
}

func decodeResult(t *testing.T, res *mcp.CallToolResult, v any) {
	t.Helper()
	require.False(t, res.IsError, "unexpected tool error: %s", resultText(t, res))
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), v))
}

func TestHandleListRequirements(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	res, err := s.handleListRequirements(context.Background(), callReq(nil))
	require.NoError(t, err)

	var out struct {
		Total     int `json:"total"`
		Documents []struct {
			ID    string `json:"doc_id"`
			Title string `json:"title"`
		} `json:"documents"`
	}
	decodeResult(t, res, &out)
	require.Equal(t, 1, out.Total)
	assert.Equal(t, "auth", out.Documents[0].ID)
	assert.Equal(t, "Auth Requirements", out.Documents[0].Title)
}

func TestHandleReadRequirement(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	res, err := s.handleReadRequirement(context.Background(), callReq(map[string]any{"doc_id": "auth"}))
	require.NoError(t, err)

	var out struct {
		DocID   string `json:"doc_id"`
		Content string `json:"content"`
	}
	decodeResult(t, res, &out)
	assert.Equal(t, "auth", out.DocID)
	assert.Contains(t, out.Content, "bearer tokens")
}

func TestHandleReadRequirement_NotFound(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	res, err := s.handleReadRequirement(context.Background(), callReq(map[string]any{"doc_id": "ghost"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "not found")
}

func TestHandleListSpecs(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	res, err := s.handleListSpecs(context.Background(), callReq(nil))
	require.NoError(t, err)

	var out struct {
		Total int `json:"total"`
		Specs []struct {
			ID            string `json:"id"`
			Title         string `json:"title"`
			EndpointCount int    `json:"endpoint_count"`
		} `json:"specs"`
	}
	decodeResult(t, res, &out)
	require.Equal(t, 1, out.Total)
	assert.Equal(t, "widgets", out.Specs[0].ID)
	assert.Equal(t, 3, out.Specs[0].EndpointCount)
}

func TestHandleSpecSummary(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	res, err := s.handleSpecSummary(context.Background(), callReq(map[string]any{"spec_id": "widgets"}))
	require.NoError(t, err)

	var out specSummary
	decodeResult(t, res, &out)
	assert.Equal(t, "widgets", out.SpecID)
	assert.Equal(t, "Widgets API", out.Info.Title)
	assert.Equal(t, "https://api.widgets.dev/v1", out.Info.BaseURL)
	assert.Equal(t, 3, out.Statistics.EndpointCount)
	assert.Equal(t, []string{"widgets"}, out.Statistics.Tags)
	require.Len(t, out.Endpoints, 3)
	assert.True(t, out.Endpoints[1].HasRequestBody, "POST /widgets carries a body")
}

func TestHandleSpecSummary_NotFound(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	res, err := s.handleSpecSummary(context.Background(), callReq(map[string]any{"spec_id": "ghost"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "list_api_specs")
}

func TestHandleEndpointDetails_SingleMethod(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	res, err := s.handleEndpointDetails(context.Background(), callReq(map[string]any{
		"spec_id": "widgets",
		"path":    "/widgets/{id}",
		"method":  "get",
	}))
	require.NoError(t, err)

	var out struct {
		Endpoint struct {
			OperationID string `json:"operation_id"`
			Parameters  []struct {
				Name string `json:"name"`
				In   string `json:"in"`
			} `json:"parameters"`
		} `json:"endpoint"`
	}
	decodeResult(t, res, &out)
	assert.Equal(t, "getWidget", out.Endpoint.OperationID)
	require.Len(t, out.Endpoint.Parameters, 1)
	assert.Equal(t, "path", out.Endpoint.Parameters[0].In)
}

func TestHandleEndpointDetails_AllMethodsAtPath(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	res, err := s.handleEndpointDetails(context.Background(), callReq(map[string]any{
		"spec_id": "widgets",
		"path":    "/widgets",
	}))
	require.NoError(t, err)

	var out struct {
		Endpoints []struct {
			Method string `json:"method"`
		} `json:"endpoints"`
	}
	decodeResult(t, res, &out)
	require.Len(t, out.Endpoints, 2)
}

func TestHandleEndpointDetails_NotFound(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	res, err := s.handleEndpointDetails(context.Background(), callReq(map[string]any{
		"spec_id": "widgets",
		"path":    "/widgets/{id}",
		"method":  "DELETE",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "endpoint not found")
}

func TestHandleEndpointCatalog(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	res, err := s.handleEndpointCatalog(context.Background(), callReq(nil))
	require.NoError(t, err)

	var out endpointCatalog
	decodeResult(t, res, &out)
	require.Equal(t, 1, out.TotalSpecs)
	require.Equal(t, 3, out.TotalEndpoints)

	seen := map[string]int{}
	for _, ep := range out.Specs[0].Endpoints {
		seen[string(ep.Method)+" "+ep.Path]++
	}
	for key, count := range seen {
		assert.Equal(t, 1, count, "endpoint %s listed more than once", key)
	}
	assert.Len(t, seen, 3)

	// Synthesized examples fill the gaps the document leaves.
	for _, ep := range out.Specs[0].Endpoints {
		if ep.Path == "/widgets/{id}" {
			require.Len(t, ep.Parameters, 1)
			assert.Equal(t, "string", ep.Parameters[0].Example)
		}
		if ep.RequestBody != nil {
			assert.Equal(t, map[string]any{"name": "string"}, ep.RequestBody.Example)
		}
	}
}

func TestHandleCodeExample(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	res, err := s.handleCodeExample(context.Background(), callReq(map[string]any{
		"spec_id": "widgets",
		"path":    "/widgets/{id}",
		"method":  "GET",
	}))
	require.NoError(t, err)

	var out struct {
		SpecID   string `json:"spec_id"`
		Language string `json:"language"`
		Code     string `json:"code"`
	}
	decodeResult(t, res, &out)
	assert.Equal(t, "widgets", out.SpecID)
	assert.Equal(t, "typescript", out.Language, "typescript is the default language")
	assert.Contains(t, out.Code, "${BASE_URL}/widgets/${id}")
}

func TestHandleCodeExample_UnsupportedLanguage(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	res, err := s.handleCodeExample(context.Background(), callReq(map[string]any{
		"spec_id":  "widgets",
		"path":     "/widgets/{id}",
		"method":   "GET",
		"language": "cobol",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "unsupported language")
}

func TestHandleIntegrationGuide(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	res, err := s.handleIntegrationGuide(context.Background(), callReq(map[string]any{
		"spec_id":  "widgets",
		"language": "python",
	}))
	require.NoError(t, err)
	text := resultText(t, res)
	assert.Contains(t, text, "Widgets API - Python Integration Guide")
	assert.Contains(t, text, "pip install requests")
}

func TestHandleRefresh(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	require.NoError(t, os.WriteFile(
		filepath.Join(s.cfg.APISpecs.BasePath, "another.yaml"),
		[]byte(strings.TrimSpace(widgetsSpec)+"\n"), 0o600))

	res, err := s.handleRefresh(context.Background(), callReq(nil))
	require.NoError(t, err)

	var out struct {
		Reloaded bool `json:"reloaded"`
		Total    int  `json:"total"`
	}
	decodeResult(t, res, &out)
	assert.True(t, out.Reloaded)
	assert.Equal(t, 2, out.Total)
}
