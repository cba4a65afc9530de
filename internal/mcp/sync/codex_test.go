package sync

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/clihub/clihub/internal/errors"
	"github.com/clihub/clihub/internal/logging"
	"github.com/clihub/clihub/internal/mcp"
)

func codexFixture(t *testing.T) (*CodexAdapter, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	return NewCodexAdapter(path, logging.NewDiscard()), path
}

func TestCodexReadCanonicalTable(t *testing.T) {
	a, path := codexFixture(t)

	content := `
model = "o3"

[mcp_servers.fs]
type = "stdio"
command = "npx"
args = ["-y", "server-fs"]

[mcp_servers.api]
type = "http"
url = "https://example.com/mcp"

[mcp_servers.api.http_headers]
Authorization = "Bearer x"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	servers, err := a.Read()
	require.NoError(t, err)
	require.Len(t, servers, 2)

	assert.Equal(t, "npx", servers["fs"].Command)
	assert.Equal(t, []string{"-y", "server-fs"}, servers["fs"].Args)
	assert.Equal(t, mcp.TypeHTTP, servers["api"].Type)
	assert.Equal(t, map[string]string{"Authorization": "Bearer x"}, servers["api"].Headers)
}

func TestCodexReadLegacyTable(t *testing.T) {
	a, path := codexFixture(t)

	content := `
[mcp.servers.old]
command = "uvx"

[mcp_servers.old]
command = "npx"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	servers, err := a.Read()
	require.NoError(t, err)
	require.Len(t, servers, 1)

	// The canonical location wins over the legacy one.
	assert.Equal(t, "npx", servers["old"].Command)
}

func TestCodexReadMalformed(t *testing.T) {
	a, path := codexFixture(t)
	require.NoError(t, os.WriteFile(path, []byte("not = = toml"), 0o644))

	_, err := a.Read()
	assert.True(t, errors.Is(err, apperrors.ErrParse))
}

func TestCodexWritePreservesUnrelatedContent(t *testing.T) {
	a, path := codexFixture(t)

	content := `# my codex settings
model = "o3"

[profiles.fast]
model = "o3-mini"

[mcp_servers.stale]
command = "old"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	require.NoError(t, a.Write(map[string]*mcp.Spec{
		"fs": {Command: "npx"},
	}))

	out, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(out)

	assert.Contains(t, text, "# my codex settings")
	assert.Contains(t, text, `model = "o3"`)
	assert.Contains(t, text, "[profiles.fast]")
	assert.NotContains(t, text, "stale")
	assert.Contains(t, text, "[mcp_servers.fs]")
}

func TestCodexWriteMigratesLegacyTable(t *testing.T) {
	a, path := codexFixture(t)

	content := `[mcp.servers.x]
command = "npx"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	servers, err := a.Read()
	require.NoError(t, err)
	require.Contains(t, servers, "x")

	require.NoError(t, a.Write(servers))

	out, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(out)

	assert.NotContains(t, text, "[mcp.servers")
	assert.Contains(t, text, "[mcp_servers.x]")
}

func TestCodexWriteZeroServersRemovesTable(t *testing.T) {
	a, path := codexFixture(t)

	content := `model = "o3"

[mcp_servers.fs]
command = "npx"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	require.NoError(t, a.Write(nil))

	out, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(out)

	assert.Contains(t, text, `model = "o3"`)
	assert.NotContains(t, text, "mcp_servers")
}

func TestCodexWriteRefusesMalformedFile(t *testing.T) {
	a, path := codexFixture(t)
	require.NoError(t, os.WriteFile(path, []byte("not = = toml"), 0o644))

	err := a.Write(map[string]*mcp.Spec{"fs": {Command: "npx"}})
	assert.True(t, errors.Is(err, apperrors.ErrParse))

	// The malformed file was not overwritten.
	out, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "not = = toml", string(out))
}

func TestCodexWriteSortedIDs(t *testing.T) {
	a, path := codexFixture(t)

	require.NoError(t, a.Write(map[string]*mcp.Spec{
		"zeta":  {Command: "z"},
		"alpha": {Command: "a"},
	}))

	out, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(out)

	alphaAt := strings.Index(text, "[mcp_servers.alpha]")
	zetaAt := strings.Index(text, "[mcp_servers.zeta]")
	require.GreaterOrEqual(t, alphaAt, 0)
	require.GreaterOrEqual(t, zetaAt, 0)
	assert.Less(t, alphaAt, zetaAt)
}

func TestCodexRoundTrip(t *testing.T) {
	a, _ := codexFixture(t)

	in := map[string]*mcp.Spec{
		"fs": {
			Command: "npx",
			Args:    []string{"-y", "server-fs"},
			Env:     map[string]string{"DEBUG": "1"},
		},
		"api": {
			Type:    mcp.TypeHTTP,
			URL:     "https://example.com/mcp",
			Headers: map[string]string{"Authorization": "Bearer x"},
		},
	}
	require.NoError(t, a.Write(in))

	out, err := a.Read()
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, in["fs"].Command, out["fs"].Command)
	assert.Equal(t, in["fs"].Args, out["fs"].Args)
	assert.Equal(t, in["fs"].Env, out["fs"].Env)
	assert.Equal(t, in["api"].URL, out["api"].URL)
	assert.Equal(t, in["api"].Headers, out["api"].Headers)
	assert.Equal(t, mcp.TypeHTTP, out["api"].Type)
}

func TestStripManagedTables(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "empty document",
			in:   "",
			want: "",
		},
		{
			name: "only managed tables",
			in:   "[mcp_servers.fs]\ncommand = \"npx\"\n",
			want: "",
		},
		{
			name: "keeps unrelated tables",
			in:   "[other]\nkey = 1\n\n[mcp_servers.fs]\ncommand = \"npx\"\n",
			want: "[other]\nkey = 1\n",
		},
		{
			name: "resumes after managed section",
			in:   "[mcp_servers.fs]\ncommand = \"npx\"\n\n[other]\nkey = 1\n",
			want: "[other]\nkey = 1\n",
		},
		{
			name: "legacy nested tables",
			in:   "[mcp.servers.x]\ncommand = \"npx\"\n",
			want: "",
		},
		{
			name: "does not touch lookalike names",
			in:   "[mcp_servers_backup]\nkey = 1\n",
			want: "[mcp_servers_backup]\nkey = 1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripManagedTables(tt.in))
		})
	}
}
