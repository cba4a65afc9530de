// Package legacy reads the pre-database config.json file so its
// contents can be migrated into the store. The file is only ever read;
// nothing writes it back.
package legacy

import (
	"encoding/json"
	"os"

	"github.com/cockroachdb/errors"

	apperrors "github.com/clihub/clihub/internal/errors"
	"github.com/clihub/clihub/pkg/fileutil"
)

// Config is the legacy on-disk layout: one section per client, each
// with its own map of loosely typed server entries.
type Config struct {
	Version int            `json:"version"`
	Apps    map[string]App `json:"apps"`
}

// App is one client's section.
type App struct {
	MCP MCPSection `json:"mcp"`
}

// MCPSection holds the client's server entries keyed by id.
type MCPSection struct {
	Servers map[string]Entry `json:"servers"`
}

// Entry is one legacy server record. The spec is kept raw because old
// releases wrote it in several shapes. The embedded ID may be blank or
// disagree with the map key; the migration repairs it.
type Entry struct {
	ID          string          `json:"id"`
	Enabled     bool            `json:"enabled"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Server      json.RawMessage `json:"server"`
}

// Load reads the legacy config. A missing file yields (nil, nil); a
// malformed one is a parse error.
func Load(path string) (*Config, error) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(apperrors.ErrParse, "%s: %v", path, err)
	}
	return &cfg, nil
}
