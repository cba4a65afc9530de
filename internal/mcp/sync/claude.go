package sync

import (
	"encoding/json"
	"log/slog"

	"github.com/cockroachdb/errors"

	apperrors "github.com/clihub/clihub/internal/errors"
	"github.com/clihub/clihub/internal/mcp"
	"github.com/clihub/clihub/internal/paths"
	"github.com/clihub/clihub/pkg/fileutil"
)

// mcpServersKey is the top-level key holding server definitions in the
// JSON live files.
const mcpServersKey = "mcpServers"

// ClaudeAdapter syncs the Claude Code live file. The file is a large
// JSON object owned by the client; only the mcpServers key is touched.
type ClaudeAdapter struct {
	path string
	log  *slog.Logger
}

// NewClaudeAdapter returns an adapter for the live file at path.
func NewClaudeAdapter(path string, log *slog.Logger) *ClaudeAdapter {
	if log == nil {
		log = slog.Default()
	}
	return &ClaudeAdapter{path: path, log: log}
}

func (a *ClaudeAdapter) Client() string { return paths.ClientClaude }

func (a *ClaudeAdapter) Read() (map[string]*mcp.Spec, error) {
	doc, err := readJSONDoc(a.path)
	if err != nil || doc == nil {
		return nil, err
	}

	raw, ok := doc[mcpServersKey]
	if !ok {
		return nil, nil
	}

	var servers map[string]*mcp.Spec
	if err := json.Unmarshal(raw, &servers); err != nil {
		return nil, errors.Wrapf(apperrors.ErrParse, "%s: invalid %s: %v", a.path, mcpServersKey, err)
	}
	return servers, nil
}

func (a *ClaudeAdapter) Write(servers map[string]*mcp.Spec) error {
	doc, err := readJSONDoc(a.path)
	if err != nil {
		return err
	}
	if doc == nil {
		doc = map[string]json.RawMessage{}
	}

	encoded := make(map[string]map[string]any, len(servers))
	for id, spec := range servers {
		m, err := specToMap(spec)
		if err != nil {
			return errors.Wrapf(err, "server %q", id)
		}
		encoded[id] = m
	}

	raw, err := json.Marshal(encoded)
	if err != nil {
		return errors.Wrap(err, "encoding server section")
	}
	doc[mcpServersKey] = raw

	return writeJSONDoc(a.path, doc)
}

// readJSONDoc parses a JSON-object live file into its top-level keys.
// Missing file yields (nil, nil); malformed content is a parse error.
func readJSONDoc(path string) (map[string]json.RawMessage, error) {
	data, err := readFileIfExists(path)
	if err != nil || data == nil {
		return nil, err
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(apperrors.ErrParse, "%s: %v", path, err)
	}
	return doc, nil
}

func writeJSONDoc(path string, doc map[string]json.RawMessage) error {
	return fileutil.AtomicWriteJSON(path, doc)
}
