package sync

import (
	"log/slog"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"

	apperrors "github.com/clihub/clihub/internal/errors"
	"github.com/clihub/clihub/internal/mcp"
	"github.com/clihub/clihub/internal/mcp/convert"
	"github.com/clihub/clihub/internal/paths"
	"github.com/clihub/clihub/pkg/fileutil"
)

// Codex table locations. The nested [mcp.servers] form was written by
// old releases; it is read but always rewritten to the top-level table.
const (
	codexTable       = "mcp_servers"
	codexLegacyTable = "mcp.servers"
)

// CodexAdapter syncs the Codex CLI config file. The file is TOML and
// user-edited, so everything outside the managed server tables is
// preserved byte for byte.
type CodexAdapter struct {
	path string
	log  *slog.Logger
}

// NewCodexAdapter returns an adapter for the config file at path.
func NewCodexAdapter(path string, log *slog.Logger) *CodexAdapter {
	if log == nil {
		log = slog.Default()
	}
	return &CodexAdapter{path: path, log: log}
}

func (a *CodexAdapter) Client() string { return paths.ClientCodex }

func (a *CodexAdapter) Read() (map[string]*mcp.Spec, error) {
	data, err := readFileIfExists(a.path)
	if err != nil || data == nil {
		return nil, err
	}

	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(apperrors.ErrParse, "%s: %v", a.path, err)
	}

	tables := map[string]any{}
	if legacy, ok := nestedTable(doc, "mcp", "servers"); ok {
		for id, v := range legacy {
			tables[id] = v
		}
	}
	if canonical, ok := doc[codexTable].(map[string]any); ok {
		for id, v := range canonical {
			tables[id] = v
		}
	}

	servers := make(map[string]*mcp.Spec, len(tables))
	for id, v := range tables {
		fields, ok := v.(map[string]any)
		if !ok {
			a.log.Warn("skipping malformed server table", "client", a.Client(), "id", id)
			continue
		}
		spec, err := a.decodeServer(id, fields)
		if err != nil {
			return nil, err
		}
		servers[id] = spec
	}
	return servers, nil
}

// decodeServer converts one TOML server table into a spec, dropping
// fields that have no JSON shape.
func (a *CodexAdapter) decodeServer(id string, fields map[string]any) (*mcp.Spec, error) {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == "http_headers" {
			k = "headers"
		}
		converted, ok := convert.FromTOML(v)
		if !ok {
			a.log.Warn("dropping unrepresentable field", "client", a.Client(), "id", id, "field", k)
			continue
		}
		out[k] = converted
	}

	spec, err := specFromMap(out)
	if err != nil {
		return nil, errors.Wrapf(err, "server %q", id)
	}
	return spec, nil
}

func (a *CodexAdapter) Write(servers map[string]*mcp.Spec) error {
	data, err := readFileIfExists(a.path)
	if err != nil {
		return err
	}

	text := string(data)
	if len(data) > 0 {
		var doc map[string]any
		if err := toml.Unmarshal(data, &doc); err != nil {
			return errors.Wrapf(apperrors.ErrParse, "%s: %v", a.path, err)
		}
	}

	text = stripManagedTables(text)

	if len(servers) > 0 {
		rendered, err := a.renderServers(servers)
		if err != nil {
			return err
		}
		if text != "" {
			text += "\n"
		}
		text += rendered
	}

	return fileutil.AtomicWriteText(a.path, text)
}

// renderServers regenerates the [mcp_servers.<id>] tables in sorted id
// order.
func (a *CodexAdapter) renderServers(servers map[string]*mcp.Spec) (string, error) {
	encoded := make(map[string]map[string]any, len(servers))
	for id, spec := range servers {
		m, err := specToMap(spec)
		if err != nil {
			return "", errors.Wrapf(err, "server %q", id)
		}

		// Codex wants an explicit discriminant and its own header key.
		m["type"] = spec.EffectiveType()
		if headers, ok := m["headers"]; ok {
			m["http_headers"] = headers
			delete(m, "headers")
		}

		table := make(map[string]any, len(m))
		for k, v := range m {
			converted, ok := convert.ToTOML(v)
			if !ok {
				a.log.Warn("dropping unrepresentable field", "client", a.Client(), "id", id, "field", k)
				continue
			}
			table[k] = converted
		}
		encoded[id] = table
	}

	out, err := toml.Marshal(map[string]any{codexTable: encoded})
	if err != nil {
		return "", errors.Wrap(err, "rendering server tables")
	}
	return string(out), nil
}

// stripManagedTables removes the canonical and legacy server tables from
// a TOML document, leaving every other line (comments, formatting,
// ordering) untouched.
func stripManagedTables(text string) string {
	if text == "" {
		return ""
	}

	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	skipping := false

	for _, line := range lines {
		if name, isHeader := tableHeader(line); isHeader {
			skipping = managedTable(name)
		}
		if !skipping {
			kept = append(kept, line)
		}
	}

	out := strings.Join(kept, "\n")
	out = strings.TrimRight(out, "\n \t")
	if out != "" {
		out += "\n"
	}
	return out
}

// tableHeader parses a [name] or [[name]] line, returning the dotted
// table name.
func tableHeader(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "[") {
		return "", false
	}

	inner := strings.TrimPrefix(trimmed, "[")
	inner = strings.TrimPrefix(inner, "[")
	end := strings.Index(inner, "]")
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(inner[:end]), true
}

func managedTable(name string) bool {
	for _, managed := range []string{codexTable, codexLegacyTable} {
		if name == managed || strings.HasPrefix(name, managed+".") {
			return true
		}
	}
	return false
}

// nestedTable walks a decoded TOML document down the given keys.
func nestedTable(doc map[string]any, keys ...string) (map[string]any, bool) {
	current := doc
	for _, key := range keys {
		next, ok := current[key].(map[string]any)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}
