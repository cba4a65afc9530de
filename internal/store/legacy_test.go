package store

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clihub/clihub/internal/legacy"
	"github.com/clihub/clihub/pkg/fileutil"
)

func legacyFixture(t *testing.T) *legacy.Config {
	t.Helper()

	content := `{
	  "version": 1,
	  "apps": {
	    "claude": {
	      "mcp": {
	        "servers": {
	          "fs": {
	            "id": "fs",
	            "enabled": true,
	            "name": "Filesystem",
	            "server": {"command": "npx", "args": ["-y", "server-fs"]}
	          }
	        }
	      }
	    },
	    "codex": {
	      "mcp": {
	        "servers": {
	          "fs": {
	            "id": "fs",
	            "enabled": true,
	            "server": {"command": "npx"}
	          },
	          "api": {
	            "enabled": false,
	            "server": {"type": "http", "url": "https://example.com/mcp"}
	          },
	          "broken": {
	            "enabled": true,
	            "server": {"type": "http"}
	          }
	        }
	      }
	    }
	  }
	}`

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := legacy.Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	return cfg
}

func TestLegacyLoadMissingFile(t *testing.T) {
	cfg, err := legacy.Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLegacyLoadOversizedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	big := append(bytes.Repeat([]byte(" "), fileutil.MaxFileSize), []byte("{}")...)
	require.NoError(t, os.WriteFile(path, big, 0o644))

	_, err := legacy.Load(path)
	assert.True(t, errors.Is(err, fileutil.ErrFileTooLarge))
}

func TestMigrateFromLegacyMergesFlags(t *testing.T) {
	s := memStore(t)

	n, err := s.MigrateFromLegacy(legacyFixture(t))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	servers, err := s.ListServers()
	require.NoError(t, err)
	require.Len(t, servers, 2)

	// Same id in two client sections becomes one record with both flags.
	fs := servers["fs"]
	assert.Equal(t, "Filesystem", fs.Name)
	assert.True(t, fs.Apps.Claude)
	assert.True(t, fs.Apps.Codex)
	assert.False(t, fs.Apps.Gemini)

	// Disabled entries migrate with the flag off.
	api := servers["api"]
	assert.False(t, api.Apps.Codex)
	assert.Equal(t, "https://example.com/mcp", api.Spec.URL)

	// Invalid entries are skipped.
	assert.NotContains(t, servers, "broken")
}

func TestMigrateFromLegacyIdempotent(t *testing.T) {
	s := memStore(t)
	cfg := legacyFixture(t)

	n, err := s.MigrateFromLegacy(cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// A populated store is never migrated into again.
	n, err = s.MigrateFromLegacy(cfg)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestMigrateFromLegacyRepairsBlankID(t *testing.T) {
	s := memStore(t)

	cfg := &legacy.Config{
		Version: 1,
		Apps: map[string]legacy.App{
			"claude": {MCP: legacy.MCPSection{Servers: map[string]legacy.Entry{
				"fs": {
					Enabled: true,
					Server:  json.RawMessage(`{"command": "npx"}`),
				},
			}}},
		},
	}

	n, err := s.MigrateFromLegacy(cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := s.GetServer("fs")
	require.NoError(t, err)
	assert.Equal(t, "fs", got.ID)
	assert.Equal(t, "fs", got.Name)
}

func TestMigrateFromLegacyNilConfig(t *testing.T) {
	s := memStore(t)

	n, err := s.MigrateFromLegacy(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
