package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readReq(uri string) mcp.ReadResourceRequest {
	var req mcp.ReadResourceRequest
	req.Params.URI = uri
	return req
}

func textContents(t *testing.T, contents []mcp.ResourceContents) mcp.TextResourceContents {
	t.Helper()
	require.Len(t, contents, 1)
	tc, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok, "expected text resource contents")
	return tc
}

func TestReadRequirementResource(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	contents, err := s.readRequirementResource(context.Background(), readReq("requirement://auth"))
	require.NoError(t, err)
	tc := textContents(t, contents)
	assert.Equal(t, "requirement://auth", tc.URI)
	assert.Equal(t, "text/markdown", tc.MIMEType)
	assert.Contains(t, tc.Text, "bearer tokens")
}

func TestReadRequirementResource_NotFound(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	_, err := s.readRequirementResource(context.Background(), readReq("requirement://ghost"))
	require.Error(t, err)
}

func TestReadSpecResource_Full(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	contents, err := s.readSpecResource(context.Background(), readReq("api-spec://widgets"))
	require.NoError(t, err)
	tc := textContents(t, contents)
	assert.Equal(t, "application/json", tc.MIMEType)

	var doc struct {
		ID        string `json:"id"`
		Endpoints []any  `json:"endpoints"`
	}
	require.NoError(t, json.Unmarshal([]byte(tc.Text), &doc))
	assert.Equal(t, "widgets", doc.ID)
	assert.Len(t, doc.Endpoints, 3)
}

func TestReadSpecResource_Summary(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	contents, err := s.readSpecResource(context.Background(), readReq("api-spec://widgets/summary"))
	require.NoError(t, err)
	tc := textContents(t, contents)

	var summary specSummary
	require.NoError(t, json.Unmarshal([]byte(tc.Text), &summary))
	assert.Equal(t, "widgets", summary.SpecID)
	assert.Equal(t, 3, summary.Statistics.EndpointCount)
}

func TestReadSpecResource_UnknownVariant(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	_, err := s.readSpecResource(context.Background(), readReq("api-spec://widgets/bogus"))
	require.Error(t, err)
}

func TestReadIntegrationResource(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	contents, err := s.readIntegrationResource(context.Background(), readReq("api-integration://widgets/typescript"))
	require.NoError(t, err)
	tc := textContents(t, contents)
	assert.Equal(t, "text/markdown", tc.MIMEType)
	assert.Contains(t, tc.Text, "TypeScript Integration Guide")
}

func TestReadIntegrationResource_BadURI(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	_, err := s.readIntegrationResource(context.Background(), readReq("api-integration://widgets"))
	require.Error(t, err)
}
