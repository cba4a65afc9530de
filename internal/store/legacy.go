package store

import (
	"encoding/json"

	"github.com/clihub/clihub/internal/legacy"
	"github.com/clihub/clihub/internal/mcp"
	"github.com/clihub/clihub/internal/mcp/validator"
	"github.com/clihub/clihub/internal/paths"
)

// MigrateFromLegacy copies servers from the legacy config into the
// store, merging the per-client maps: the same id across clients
// becomes one record with the union of enablement flags.
//
// The migration runs only against a never-populated store, so calling
// it again is a no-op. The legacy file itself is left alone. Returns
// the number of servers migrated.
func (s *Store) MigrateFromLegacy(cfg *legacy.Config) (int, error) {
	if cfg == nil {
		return 0, nil
	}

	empty, err := s.IsEmptyForFirstImport()
	if err != nil {
		return 0, err
	}
	if !empty {
		return 0, nil
	}

	merged := map[string]*mcp.Server{}
	for _, client := range paths.Clients() {
		app, ok := cfg.Apps[client]
		if !ok {
			continue
		}

		for id, entry := range app.MCP.Servers {
			spec, err := decodeLegacySpec(entry)
			if err != nil {
				s.log.Warn("skipping unreadable legacy server", "client", client, "id", id, "reason", err)
				continue
			}

			srv, seen := merged[id]
			if !seen {
				if err := validator.Validate(spec); err != nil {
					s.log.Warn("skipping invalid legacy server", "client", client, "id", id, "reason", err)
					continue
				}
				srv = &mcp.Server{
					ID:          entry.ID,
					Name:        entry.Name,
					Description: entry.Description,
					Spec:        spec,
				}
				if srv.Name == "" {
					srv.Name = id
				}
				merged[id] = srv
			}
			srv.Apps.SetEnabled(client, srv.Apps.Enabled(client) || entry.Enabled)
		}
	}

	// Blank or mismatched embedded ids from old releases get repaired
	// against the map keys before anything is persisted.
	mcp.NormalizeServerKeys(merged, s.log)

	for _, srv := range merged {
		if err := s.SaveServer(srv); err != nil {
			return 0, err
		}
	}

	s.log.Info("migrated legacy config", "servers", len(merged))
	return len(merged), nil
}

func decodeLegacySpec(entry legacy.Entry) (*mcp.Spec, error) {
	var spec mcp.Spec
	if err := json.Unmarshal(entry.Server, &spec); err != nil {
		return nil, err
	}
	return &spec, nil
}
