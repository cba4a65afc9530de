package store

import (
	"fmt"
	"regexp"

	"github.com/cockroachdb/errors"

	apperrors "github.com/clihub/clihub/internal/errors"
)

// schemaVersion is the schema this build writes. Opening a database with
// a higher version fails hard; a lower version is migrated forward.
const schemaVersion = 2

// The two primary resource tables. Every dump, restore and sanity check
// is scoped to these.
var resourceTables = []string{"mcp_servers", "providers"}

const createTablesSQL = `
CREATE TABLE IF NOT EXISTS mcp_servers (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	server_config TEXT NOT NULL DEFAULT '{}',
	description TEXT NOT NULL DEFAULT '',
	homepage TEXT NOT NULL DEFAULT '',
	docs TEXT NOT NULL DEFAULT '',
	tags TEXT NOT NULL DEFAULT '[]',
	enabled_claude INTEGER NOT NULL DEFAULT 0,
	enabled_codex INTEGER NOT NULL DEFAULT 0,
	enabled_gemini INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS providers (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	settings TEXT NOT NULL DEFAULT '{}'
);
`

func (s *Store) createTables() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(createTablesSQL); err != nil {
		return errors.Wrap(err, "creating tables")
	}
	return nil
}

// migration is one additive schema step. Steps never drop or rewrite
// existing data, so re-running one against an up-to-date table is a
// no-op.
type migration struct {
	version int
	apply   func(s *Store) error
}

// migrations in strictly increasing version order.
var migrations = []migration{
	{
		version: 2,
		apply: func(s *Store) error {
			for _, col := range []struct{ name, ddl string }{
				{"homepage", "TEXT NOT NULL DEFAULT ''"},
				{"docs", "TEXT NOT NULL DEFAULT ''"},
				{"tags", "TEXT NOT NULL DEFAULT '[]'"},
			} {
				if err := s.addColumnIfMissing("mcp_servers", col.name, col.ddl); err != nil {
					return err
				}
			}
			return nil
		},
	},
}

// migrate brings the schema up to schemaVersion. All steps run inside a
// single savepoint; any failure rolls the whole batch back and leaves
// the stored version untouched.
func (s *Store) migrate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	version, err := s.userVersion()
	if err != nil {
		return err
	}

	switch {
	case version == schemaVersion:
		return nil
	case version > schemaVersion:
		return errors.Wrapf(apperrors.ErrSchema,
			"database schema version %d is newer than supported version %d",
			version, schemaVersion)
	}

	if _, err := s.db.Exec("SAVEPOINT schema_migration"); err != nil {
		return errors.Wrap(err, "starting migration savepoint")
	}

	if err := s.applyMigrations(version); err != nil {
		if _, rbErr := s.db.Exec("ROLLBACK TO schema_migration"); rbErr != nil {
			s.log.Error("migration rollback failed", "error", rbErr)
		}
		_, _ = s.db.Exec("RELEASE schema_migration")
		return err
	}

	if _, err := s.db.Exec("RELEASE schema_migration"); err != nil {
		return errors.Wrap(err, "releasing migration savepoint")
	}

	s.log.Info("schema migrated", "from", version, "to", schemaVersion)
	return nil
}

func (s *Store) applyMigrations(from int) error {
	for _, m := range migrations {
		if m.version <= from {
			continue
		}
		if err := m.apply(s); err != nil {
			return errors.Wrapf(err, "migration to version %d", m.version)
		}
	}
	return s.setUserVersion(schemaVersion)
}

// userVersion reads the schema version pragma. Callers hold the lock.
func (s *Store) userVersion() (int, error) {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return 0, errors.Wrap(err, "reading schema version")
	}
	return version, nil
}

func (s *Store) setUserVersion(version int) error {
	// Pragma arguments cannot be bound; version is a compile-time int.
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", version)); err != nil {
		return errors.Wrap(err, "writing schema version")
	}
	return nil
}

// identifierPattern is the allow-list for table and column names that
// get interpolated into DDL, where placeholders cannot be used.
var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

func validateIdentifier(name string) error {
	if !identifierPattern.MatchString(name) {
		return errors.Wrapf(apperrors.ErrSchema, "invalid identifier %q", name)
	}
	return nil
}

// addColumnIfMissing adds a column when the table does not already have
// it. Callers hold the lock.
func (s *Store) addColumnIfMissing(table, column, ddl string) error {
	if err := validateIdentifier(table); err != nil {
		return err
	}
	if err := validateIdentifier(column); err != nil {
		return err
	}

	rows, err := s.db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return errors.Wrapf(err, "inspecting table %s", table)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    int
			defaultVal any
			pk         int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			return errors.Wrapf(err, "inspecting table %s", table)
		}
		if name == column {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return errors.Wrapf(err, "inspecting table %s", table)
	}

	stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, ddl)
	if _, err := s.db.Exec(stmt); err != nil {
		return errors.Wrapf(err, "adding column %s.%s", table, column)
	}
	return nil
}
