// Package store is the durable home of canonical MCP server records.
//
// Data lives in a single SQLite database. Schema changes are applied as
// additive, savepoint-guarded migrations keyed off the user_version
// pragma, and the whole database can be exported to and restored from
// portable SQL text.
package store

import (
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/cockroachdb/errors"
	_ "modernc.org/sqlite"

	"github.com/clihub/clihub/internal/paths"
)

// Store owns the SQLite handle. One mutex serializes every operation;
// SQLite does the crash safety, the mutex does the in-process safety.
type Store struct {
	mu   sync.Mutex
	db   *sql.DB
	path string
	log  *slog.Logger

	backupsDir string
	retention  int
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithBackupsDir overrides where automatic database backups are written.
func WithBackupsDir(dir string) Option {
	return func(s *Store) { s.backupsDir = dir }
}

// WithRetention overrides how many automatic backups are kept.
func WithRetention(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.retention = n
		}
	}
}

// DefaultRetention is the number of automatic database backups kept.
const DefaultRetention = 10

// Open opens (creating if needed) the database at path, applies pending
// schema migrations and returns the ready store.
func Open(path string, opts ...Option) (*Store, error) {
	if err := paths.EnsureDir(filepath.Dir(path), paths.DefaultDirPerm); err != nil {
		return nil, errors.Wrap(err, "creating database directory")
	}

	s, err := open(path, opts...)
	if err != nil {
		return nil, err
	}
	if s.backupsDir == "" {
		s.backupsDir = filepath.Join(filepath.Dir(path), "backups")
	}
	return s, nil
}

// OpenMemory opens an in-memory store, used by tests and scratch
// restores.
func OpenMemory(opts ...Option) (*Store, error) {
	return open(":memory:", opts...)
}

func open(path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	// A single connection keeps savepoints and pragmas on one session.
	db.SetMaxOpenConns(1)

	s := &Store{
		db:        db,
		path:      path,
		log:       slog.Default(),
		retention: DefaultRetention,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// init creates missing tables and applies schema migrations.
func (s *Store) init() error {
	if err := s.createTables(); err != nil {
		return err
	}
	return s.migrate()
}

// Close releases the database handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return errors.Wrap(s.db.Close(), "closing database")
}

// Path returns the database file path, empty for in-memory stores.
func (s *Store) Path() string {
	if s.path == ":memory:" {
		return ""
	}
	return s.path
}

// openScratch opens a throwaway store on a temp file without running
// table creation or migrations, for staging an SQL restore.
func openScratch() (*sql.DB, string, error) {
	f, err := os.CreateTemp("", "clihub-restore-*.db")
	if err != nil {
		return nil, "", errors.Wrap(err, "creating scratch database")
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		return nil, "", errors.Wrap(err, "creating scratch database")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		_ = os.Remove(path)
		return nil, "", errors.Wrap(err, "opening scratch database")
	}
	db.SetMaxOpenConns(1)
	return db, path, nil
}
