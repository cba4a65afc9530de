package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/clihub/clihub/internal/errors"
	"github.com/clihub/clihub/internal/mcp"
)

func TestDumpSQLFormat(t *testing.T) {
	s := memStore(t)

	srv := sampleServer("fs")
	srv.Description = "it's quoted"
	require.NoError(t, s.SaveServer(srv))

	text, err := s.DumpSQL()
	require.NoError(t, err)

	assert.Contains(t, text, "-- clihub database dump")
	assert.Contains(t, text, "-- schema_version: 2")
	assert.Contains(t, text, "PRAGMA foreign_keys=OFF;")
	assert.Contains(t, text, "BEGIN TRANSACTION;")
	assert.Contains(t, text, "COMMIT;")
	assert.Contains(t, text, "CREATE TABLE")
	assert.Contains(t, text, "INSERT INTO mcp_servers VALUES")
	// Single quotes are doubled, not escaped with backslashes.
	assert.Contains(t, text, "it''s quoted")
}

func TestExportImportRoundTrip(t *testing.T) {
	src := fileStore(t)
	require.NoError(t, src.SaveServer(sampleServer("fs")))
	require.NoError(t, src.SaveServer(sampleServer("api")))

	dumpPath := filepath.Join(t.TempDir(), "dump.sql")
	require.NoError(t, src.ExportSQL(dumpPath))

	dst := fileStore(t)
	require.NoError(t, dst.SaveServer(sampleServer("stale")))

	backupID, err := dst.ImportSQL(dumpPath)
	require.NoError(t, err)
	assert.NotEmpty(t, backupID)

	servers, err := dst.ListServers()
	require.NoError(t, err)
	require.Len(t, servers, 2)
	assert.Contains(t, servers, "fs")
	assert.Contains(t, servers, "api")
	assert.NotContains(t, servers, "stale")
	assert.Equal(t, "npx", servers["fs"].Spec.Command)
	assert.True(t, servers["fs"].Apps.Claude)
}

func TestImportSQLMissingFile(t *testing.T) {
	s := fileStore(t)

	_, err := s.ImportSQL(filepath.Join(t.TempDir(), "absent.sql"))
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestImportSQLRejectsEmptyDump(t *testing.T) {
	// An export of an empty store is structurally valid SQL but holds no
	// resources; restoring it must be refused.
	empty := memStore(t)
	text, err := empty.DumpSQL()
	require.NoError(t, err)

	dumpPath := filepath.Join(t.TempDir(), "empty.sql")
	require.NoError(t, os.WriteFile(dumpPath, []byte(text), 0o644))

	live := fileStore(t)
	require.NoError(t, live.SaveServer(sampleServer("keep")))

	_, err = live.ImportSQL(dumpPath)
	assert.True(t, errors.Is(err, apperrors.ErrImportValidation))

	// The live store is untouched.
	servers, err := live.ListServers()
	require.NoError(t, err)
	assert.Contains(t, servers, "keep")

	// The automatic pre-import backup still exists.
	backups, err := live.ListBackups()
	require.NoError(t, err)
	assert.Len(t, backups, 1)
}

func TestImportSQLRejectsGarbage(t *testing.T) {
	dumpPath := filepath.Join(t.TempDir(), "garbage.sql")
	require.NoError(t, os.WriteFile(dumpPath, []byte("INSERT INTO nowhere VALUES (1);\n"), 0o644))

	live := fileStore(t)
	require.NoError(t, live.SaveServer(sampleServer("keep")))

	_, err := live.ImportSQL(dumpPath)
	assert.True(t, errors.Is(err, apperrors.ErrImportValidation))

	servers, err := live.ListServers()
	require.NoError(t, err)
	assert.Contains(t, servers, "keep")
}

func TestImportSQLExtendedFieldsSurvive(t *testing.T) {
	src := fileStore(t)

	spec := &mcp.Spec{Command: "npx", Env: map[string]string{"KEY": "va'lue"}}
	require.NoError(t, src.SaveServer(&mcp.Server{ID: "fs", Name: "fs", Spec: spec}))

	dumpPath := filepath.Join(t.TempDir(), "dump.sql")
	require.NoError(t, src.ExportSQL(dumpPath))

	dst := fileStore(t)
	_, err := dst.ImportSQL(dumpPath)
	require.NoError(t, err)

	got, err := dst.GetServer("fs")
	require.NoError(t, err)
	assert.Equal(t, "va'lue", got.Spec.Env["KEY"])
}

func TestSplitStatements(t *testing.T) {
	text := `-- comment
PRAGMA foreign_keys=OFF;
BEGIN TRANSACTION;
CREATE TABLE t (
	id TEXT
);
INSERT INTO t VALUES ('a');
INSERT INTO sqlite_sequence VALUES ('t', 1);
COMMIT;
`
	statements := splitStatements(text)
	require.Len(t, statements, 2)
	assert.True(t, strings.HasPrefix(statements[0], "CREATE TABLE t"))
	assert.Equal(t, "INSERT INTO t VALUES ('a');", statements[1])
}

func TestSQLLiteral(t *testing.T) {
	assert.Equal(t, "NULL", sqlLiteral(nil))
	assert.Equal(t, "42", sqlLiteral(int64(42)))
	assert.Equal(t, "'plain'", sqlLiteral("plain"))
	assert.Equal(t, "'it''s'", sqlLiteral("it's"))
	assert.Equal(t, "X'00ff'", sqlLiteral([]byte{0x00, 0xff}))
}
