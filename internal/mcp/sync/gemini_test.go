package sync

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clihub/clihub/internal/logging"
	"github.com/clihub/clihub/internal/mcp"
)

func geminiFixture(t *testing.T) (*GeminiAdapter, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.json")
	return NewGeminiAdapter(path, logging.NewDiscard()), path
}

func TestGeminiWriteHTTPRename(t *testing.T) {
	a, path := geminiFixture(t)

	err := a.Write(map[string]*mcp.Spec{
		"api": {Type: mcp.TypeHTTP, URL: "https://example.com/mcp"},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	entry := doc["mcpServers"]["api"]
	assert.Equal(t, "https://example.com/mcp", entry["httpUrl"])
	assert.NotContains(t, entry, "url")
	assert.NotContains(t, entry, "type")
}

func TestGeminiWriteSSEKeepsURL(t *testing.T) {
	a, path := geminiFixture(t)

	err := a.Write(map[string]*mcp.Spec{
		"events": {Type: mcp.TypeSSE, URL: "https://example.com/sse"},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	entry := doc["mcpServers"]["events"]
	assert.Equal(t, "https://example.com/sse", entry["url"])
	assert.NotContains(t, entry, "httpUrl")
	assert.NotContains(t, entry, "type")
}

func TestGeminiRoundTripRestoresTransport(t *testing.T) {
	a, _ := geminiFixture(t)

	in := map[string]*mcp.Spec{
		"api":    {Type: mcp.TypeHTTP, URL: "https://example.com/mcp"},
		"events": {Type: mcp.TypeSSE, URL: "https://example.com/sse"},
		"local":  {Command: "npx", Args: []string{"server-fs"}},
	}
	require.NoError(t, a.Write(in))

	out, err := a.Read()
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, mcp.TypeHTTP, out["api"].Type)
	assert.Equal(t, "https://example.com/mcp", out["api"].URL)
	assert.Equal(t, mcp.TypeSSE, out["events"].Type)
	assert.Equal(t, "https://example.com/sse", out["events"].URL)
	assert.Equal(t, mcp.TypeStdio, out["local"].EffectiveType())
	assert.Equal(t, "npx", out["local"].Command)
}

func TestGeminiWritePreservesOtherKeys(t *testing.T) {
	a, path := geminiFixture(t)

	existing := `{"selectedAuthType": "oauth", "mcpServers": {}}`
	require.NoError(t, os.WriteFile(path, []byte(existing), 0o644))

	require.NoError(t, a.Write(map[string]*mcp.Spec{
		"local": {Command: "npx"},
	}))

	var doc map[string]json.RawMessage
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.JSONEq(t, `"oauth"`, string(doc["selectedAuthType"]))
}
