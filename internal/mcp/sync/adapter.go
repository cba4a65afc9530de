// Package sync moves MCP server definitions between the canonical store
// and the live configuration files of the supported clients.
//
// Each client is handled by an Adapter that knows the client's file
// location and encoding. The import/export algorithms themselves are
// shared and live in Service.
package sync

import (
	"encoding/json"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/clihub/clihub/internal/mcp"
	"github.com/clihub/clihub/pkg/fileutil"
)

// Adapter reads and writes one client's live MCP configuration.
type Adapter interface {
	// Client returns the client name the adapter serves.
	Client() string

	// Read decodes the client's live file into id -> spec pairs.
	// A missing file yields an empty result and no error. A malformed
	// file is a parse error, never treated as "no servers".
	Read() (map[string]*mcp.Spec, error)

	// Write replaces the client's MCP server section with the given
	// specs, leaving all unrelated file content intact. An empty set
	// removes the section.
	Write(servers map[string]*mcp.Spec) error
}

// uiFields are bookkeeping keys that may ride along inside a spec's open
// fields but must never reach a client's live file.
var uiFields = []string{
	"enabled", "source", "id", "name", "description", "tags", "homepage", "docs",
}

// specToMap marshals a spec (known plus preserved fields) into a generic
// map with UI bookkeeping stripped, ready for client-specific shaping.
func specToMap(spec *mcp.Spec) (map[string]any, error) {
	data, err := json.Marshal(spec)
	if err != nil {
		return nil, errors.Wrap(err, "encoding server spec")
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "decoding server spec")
	}

	for _, k := range uiFields {
		delete(m, k)
	}
	return m, nil
}

// specFromMap decodes a generic field map back into a spec.
func specFromMap(m map[string]any) (*mcp.Spec, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, errors.Wrap(err, "encoding server fields")
	}

	var spec mcp.Spec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, errors.Wrap(err, "decoding server fields")
	}
	return &spec, nil
}

// readFileIfExists returns the file's contents, or (nil, nil) when the
// file does not exist. Live files are size-capped; a config file past
// the limit is not something we should slurp into memory.
func readFileIfExists(path string) ([]byte, error) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return data, nil
}
