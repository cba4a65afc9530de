package store

import (
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	apperrors "github.com/clihub/clihub/internal/errors"
	"github.com/clihub/clihub/pkg/fileutil"
)

// tableDump is an in-memory snapshot of one table.
type tableDump struct {
	name      string
	createSQL string
	columns   []string
	rows      [][]any
}

// ExportSQL writes the whole database as portable SQL text.
func (s *Store) ExportSQL(path string) error {
	text, err := s.DumpSQL()
	if err != nil {
		return err
	}
	return fileutil.AtomicWriteText(path, text)
}

// DumpSQL renders the database as portable SQL text. The snapshot is
// taken under the lock; rendering happens after it is released.
func (s *Store) DumpSQL() (string, error) {
	version, tables, err := s.snapshot()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "-- clihub database dump\n")
	fmt.Fprintf(&b, "-- created: %s\n", time.Now().UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "-- schema_version: %d\n", version)
	b.WriteString("PRAGMA foreign_keys=OFF;\n")
	b.WriteString("BEGIN TRANSACTION;\n")

	for _, t := range tables {
		b.WriteString(t.createSQL)
		b.WriteString(";\n")
		for _, row := range t.rows {
			literals := make([]string, len(row))
			for i, v := range row {
				literals[i] = sqlLiteral(v)
			}
			fmt.Fprintf(&b, "INSERT INTO %s VALUES (%s);\n", t.name, strings.Join(literals, ", "))
		}
	}

	b.WriteString("COMMIT;\n")
	return b.String(), nil
}

// snapshot reads the schema and all rows of the resource tables.
func (s *Store) snapshot() (int, []tableDump, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	version, err := s.userVersion()
	if err != nil {
		return 0, nil, err
	}

	tables := make([]tableDump, 0, len(resourceTables))
	for _, name := range resourceTables {
		dump, err := dumpTable(s.db, name)
		if err != nil {
			return 0, nil, err
		}
		tables = append(tables, dump)
	}
	return version, tables, nil
}

func dumpTable(db *sql.DB, name string) (tableDump, error) {
	dump := tableDump{name: name}

	err := db.QueryRow(
		"SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?", name).
		Scan(&dump.createSQL)
	if err != nil {
		return dump, errors.Wrapf(err, "reading schema of %s", name)
	}

	rows, err := db.Query("SELECT * FROM " + name)
	if err != nil {
		return dump, errors.Wrapf(err, "reading %s", name)
	}
	defer rows.Close()

	dump.columns, err = rows.Columns()
	if err != nil {
		return dump, errors.Wrapf(err, "reading %s", name)
	}

	for rows.Next() {
		values := make([]any, len(dump.columns))
		ptrs := make([]any, len(values))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return dump, errors.Wrapf(err, "reading %s", name)
		}
		dump.rows = append(dump.rows, values)
	}
	if err := rows.Err(); err != nil {
		return dump, errors.Wrapf(err, "reading %s", name)
	}
	return dump, nil
}

// sqlLiteral renders a scanned value as an SQL literal: strings with
// doubled single quotes, blobs as hex literals.
func sqlLiteral(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case string:
		return "'" + strings.ReplaceAll(val, "'", "''") + "'"
	case []byte:
		return "X'" + hex.EncodeToString(val) + "'"
	case bool:
		if val {
			return "1"
		}
		return "0"
	default:
		return "'" + strings.ReplaceAll(fmt.Sprint(val), "'", "''") + "'"
	}
}

// ImportSQL restores the database from an SQL text dump.
//
// The dump is applied to a scratch database first and normalized with
// the current schema. It only replaces the live contents after passing
// a sanity check, and an automatic backup of the live database is taken
// up front. Returns the backup id for undo.
func (s *Store) ImportSQL(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Wrapf(apperrors.ErrNotFound, "backup file %s", path)
		}
		return "", errors.Wrapf(err, "reading %s", path)
	}

	statements := splitStatements(string(data))
	if len(statements) == 0 {
		return "", errors.Wrapf(apperrors.ErrImportValidation, "%s contains no statements", path)
	}

	backupID := ""
	if s.Path() != "" {
		backupID, err = s.BackupDatabaseFile()
		if err != nil {
			return "", errors.Wrap(err, "taking pre-import backup")
		}
	}

	tables, err := s.stageRestore(statements)
	if err != nil {
		return backupID, err
	}

	if err := s.replaceContents(tables); err != nil {
		return backupID, err
	}

	s.log.Info("database restored", "source", path, "backup", backupID)
	return backupID, nil
}

// stageRestore applies the dump to a scratch database, migrates it to
// the current schema and snapshots the result. The live store is not
// touched.
func (s *Store) stageRestore(statements []string) ([]tableDump, error) {
	db, scratchPath, err := openScratch()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = db.Close()
		_ = os.Remove(scratchPath)
	}()

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return nil, errors.Wrapf(apperrors.ErrImportValidation, "applying dump: %v", err)
		}
	}

	// Normalize: make sure the expected tables and columns exist even
	// when the dump came from an older release.
	scratch := &Store{db: db, path: scratchPath, log: s.log, retention: s.retention}
	if err := scratch.init(); err != nil {
		return nil, errors.Wrap(err, "normalizing restored database")
	}

	nonEmpty := false
	for _, name := range resourceTables {
		var n int
		if err := db.QueryRow("SELECT COUNT(*) FROM " + name).Scan(&n); err != nil {
			return nil, errors.Wrapf(err, "checking %s", name)
		}
		if n > 0 {
			nonEmpty = true
		}
	}
	if !nonEmpty {
		return nil, errors.Wrap(apperrors.ErrImportValidation, "restored database has no resources")
	}

	tables := make([]tableDump, 0, len(resourceTables))
	for _, name := range resourceTables {
		dump, err := dumpTable(db, name)
		if err != nil {
			return nil, err
		}
		tables = append(tables, dump)
	}
	return tables, nil
}

// replaceContents swaps the live tables for the staged rows in one
// transaction.
func (s *Store) replaceContents(tables []tableDump) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(err, "starting restore transaction")
	}
	defer func() { _ = tx.Rollback() }()

	for _, t := range tables {
		if _, err := tx.Exec("DELETE FROM " + t.name); err != nil {
			return errors.Wrapf(err, "clearing %s", t.name)
		}

		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(t.columns)), ", ")
		stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			t.name, strings.Join(t.columns, ", "), placeholders)
		for _, row := range t.rows {
			if _, err := tx.Exec(stmt, row...); err != nil {
				return errors.Wrapf(err, "restoring %s", t.name)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "committing restore")
	}
	return nil
}

// splitStatements breaks dump text into executable statements, dropping
// comments, transaction control and SQLite bookkeeping the dump may
// carry.
func splitStatements(text string) []string {
	var statements []string
	var current strings.Builder

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}

		upper := strings.ToUpper(trimmed)
		if current.Len() == 0 {
			switch {
			case strings.HasPrefix(upper, "PRAGMA"),
				strings.HasPrefix(upper, "BEGIN"),
				strings.HasPrefix(upper, "COMMIT"),
				strings.HasPrefix(upper, "ROLLBACK"):
				continue
			}
		}

		current.WriteString(line)
		current.WriteString("\n")

		if strings.HasSuffix(trimmed, ";") {
			stmt := strings.TrimSpace(current.String())
			current.Reset()
			if strings.Contains(stmt, "sqlite_sequence") {
				continue
			}
			statements = append(statements, stmt)
		}
	}
	return statements
}
