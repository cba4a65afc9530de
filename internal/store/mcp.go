package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/errors"

	apperrors "github.com/clihub/clihub/internal/errors"
	"github.com/clihub/clihub/internal/mcp"
	"github.com/clihub/clihub/internal/paths"
)

// enabledColumns maps a client name to its flag column. Only these
// identifiers are ever interpolated into a statement.
var enabledColumns = map[string]string{
	paths.ClientClaude: "enabled_claude",
	paths.ClientCodex:  "enabled_codex",
	paths.ClientGemini: "enabled_gemini",
}

const serverColumns = `id, name, server_config, description, homepage, docs, tags,
	enabled_claude, enabled_codex, enabled_gemini`

// ListServers returns all servers keyed by id.
func (s *Store) ListServers() (map[string]*mcp.Server, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query("SELECT " + serverColumns + " FROM mcp_servers ORDER BY name")
	if err != nil {
		return nil, errors.Wrap(err, "listing servers")
	}
	defer rows.Close()

	servers := map[string]*mcp.Server{}
	for rows.Next() {
		srv, err := scanServer(rows)
		if err != nil {
			return nil, err
		}
		servers[srv.ID] = srv
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "listing servers")
	}
	return servers, nil
}

// GetServer returns one server by id, or ErrNotFound.
func (s *Store) GetServer(id string) (*mcp.Server, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRow("SELECT "+serverColumns+" FROM mcp_servers WHERE id = ?", id)
	srv, err := scanSingleServer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(apperrors.ErrNotFound, "server %q", id)
	}
	return srv, err
}

// SaveServer inserts or fully replaces the server row.
func (s *Store) SaveServer(srv *mcp.Server) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	specJSON, err := json.Marshal(srv.Spec)
	if err != nil {
		return errors.Wrapf(err, "encoding spec for %q", srv.ID)
	}
	tagsJSON, err := json.Marshal(srv.Tags)
	if err != nil {
		return errors.Wrapf(err, "encoding tags for %q", srv.ID)
	}
	if srv.Tags == nil {
		tagsJSON = []byte("[]")
	}

	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO mcp_servers
			(id, name, server_config, description, homepage, docs, tags,
			 enabled_claude, enabled_codex, enabled_gemini)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		srv.ID, srv.Name, string(specJSON), srv.Description, srv.Homepage,
		srv.Docs, string(tagsJSON),
		boolToInt(srv.Apps.Claude), boolToInt(srv.Apps.Codex), boolToInt(srv.Apps.Gemini))
	if err != nil {
		return errors.Wrapf(err, "saving server %q", srv.ID)
	}
	return nil
}

// DeleteServer removes the row and reports whether it existed.
func (s *Store) DeleteServer(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM mcp_servers WHERE id = ?", id)
	if err != nil {
		return false, errors.Wrapf(err, "deleting server %q", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrapf(err, "deleting server %q", id)
	}
	return n > 0, nil
}

// ToggleApp flips one client flag and reports whether the server
// existed. An unknown id never creates a row.
func (s *Store) ToggleApp(id, client string, enabled bool) (bool, error) {
	column, ok := enabledColumns[client]
	if !ok {
		return false, errors.Wrapf(paths.ErrUnknownClient, "%q", client)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stmt := fmt.Sprintf("UPDATE mcp_servers SET %s = ? WHERE id = ?", column)
	res, err := s.db.Exec(stmt, boolToInt(enabled), id)
	if err != nil {
		return false, errors.Wrapf(err, "toggling %s for %q", client, id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrapf(err, "toggling %s for %q", client, id)
	}
	return n > 0, nil
}

// IsEmptyForFirstImport reports whether the server table has never been
// populated, gating one-time migrations and the first-run import.
func (s *Store) IsEmptyForFirstImport() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM mcp_servers").Scan(&n); err != nil {
		return false, errors.Wrap(err, "counting servers")
	}
	return n == 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanServer(rows *sql.Rows) (*mcp.Server, error) {
	return scanSingleServer(rows)
}

func scanSingleServer(row rowScanner) (*mcp.Server, error) {
	var (
		srv                   mcp.Server
		specJSON, tagsJSON    string
		claude, codex, gemini int
	)
	err := row.Scan(&srv.ID, &srv.Name, &specJSON, &srv.Description,
		&srv.Homepage, &srv.Docs, &tagsJSON, &claude, &codex, &gemini)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, errors.Wrap(err, "reading server row")
	}

	spec := &mcp.Spec{}
	if err := json.Unmarshal([]byte(specJSON), spec); err != nil {
		return nil, errors.Wrapf(err, "decoding spec for %q", srv.ID)
	}
	srv.Spec = spec

	if tagsJSON != "" {
		if err := json.Unmarshal([]byte(tagsJSON), &srv.Tags); err != nil {
			return nil, errors.Wrapf(err, "decoding tags for %q", srv.ID)
		}
	}

	srv.Apps = mcp.AppFlags{Claude: claude != 0, Codex: codex != 0, Gemini: gemini != 0}
	return &srv, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
