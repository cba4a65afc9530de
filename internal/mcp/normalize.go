package mcp

import (
	"log/slog"
)

// NormalizeServerKeys repairs the relationship between map keys and the
// embedded server IDs in place.
//
// An entry with a blank embedded ID adopts its map key. An entry whose
// embedded ID differs from its key is moved under the embedded ID, unless
// another entry already occupies that ID, in which case the entry keeps
// its key and the embedded ID is rewritten to match.
//
// Returns the number of entries changed.
func NormalizeServerKeys(servers map[string]*Server, log *slog.Logger) int {
	if log == nil {
		log = slog.Default()
	}

	changed := 0

	// Collect keys up front so the map can be mutated during iteration.
	keys := make([]string, 0, len(servers))
	for k := range servers {
		keys = append(keys, k)
	}

	for _, key := range keys {
		srv := servers[key]
		if srv == nil {
			continue
		}

		switch {
		case srv.ID == "":
			srv.ID = key
			changed++

		case srv.ID != key:
			if _, taken := servers[srv.ID]; taken {
				log.Warn("server id collides with another entry, keeping map key",
					"key", key, "id", srv.ID)
				srv.ID = key
			} else {
				delete(servers, key)
				servers[srv.ID] = srv
			}
			changed++
		}
	}

	return changed
}
