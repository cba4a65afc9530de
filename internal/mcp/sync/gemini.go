package sync

import (
	"encoding/json"
	"log/slog"

	"github.com/cockroachdb/errors"

	apperrors "github.com/clihub/clihub/internal/errors"
	"github.com/clihub/clihub/internal/mcp"
	"github.com/clihub/clihub/internal/paths"
)

// GeminiAdapter syncs the Gemini CLI settings file. Gemini has no
// transport discriminant: streamable HTTP servers carry httpUrl, SSE
// servers carry url. The adapter renames on write and reverses the
// rename on read so the transport survives a round trip.
type GeminiAdapter struct {
	path string
	log  *slog.Logger
}

// NewGeminiAdapter returns an adapter for the settings file at path.
func NewGeminiAdapter(path string, log *slog.Logger) *GeminiAdapter {
	if log == nil {
		log = slog.Default()
	}
	return &GeminiAdapter{path: path, log: log}
}

func (a *GeminiAdapter) Client() string { return paths.ClientGemini }

func (a *GeminiAdapter) Read() (map[string]*mcp.Spec, error) {
	doc, err := readJSONDoc(a.path)
	if err != nil || doc == nil {
		return nil, err
	}

	raw, ok := doc[mcpServersKey]
	if !ok {
		return nil, nil
	}

	var entries map[string]map[string]any
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, errors.Wrapf(apperrors.ErrParse, "%s: invalid %s: %v", a.path, mcpServersKey, err)
	}

	servers := make(map[string]*mcp.Spec, len(entries))
	for id, fields := range entries {
		if httpURL, ok := fields["httpUrl"].(string); ok {
			fields["type"] = mcp.TypeHTTP
			fields["url"] = httpURL
			delete(fields, "httpUrl")
		} else if _, ok := fields["url"]; ok {
			fields["type"] = mcp.TypeSSE
		}

		spec, err := specFromMap(fields)
		if err != nil {
			return nil, errors.Wrapf(err, "server %q", id)
		}
		servers[id] = spec
	}
	return servers, nil
}

func (a *GeminiAdapter) Write(servers map[string]*mcp.Spec) error {
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

		if spec.EffectiveType() == mcp.TypeHTTP {
			if url, ok := m["url"]; ok {
				m["httpUrl"] = url
				delete(m, "url")
			}
		}
		delete(m, "type")

		encoded[id] = m
	}

	raw, err := json.Marshal(encoded)
	if err != nil {
		return errors.Wrap(err, "encoding server section")
	}
	doc[mcpServersKey] = raw

	return writeJSONDoc(a.path, doc)
}
