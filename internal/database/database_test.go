package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codemarcinu/steward/internal/types"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "steward.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.InitSchema(context.Background()))
	return db
}

func TestOpen_VerifiesPragmas(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "steward.db"))
	require.NoError(t, err)
	defer db.Close()

	var journalMode string
	require.NoError(t, db.QueryRowContext(context.Background(), "PRAGMA journal_mode").Scan(&journalMode))
	assert.Equal(t, "wal", journalMode)

	var foreignKeys int
	require.NoError(t, db.QueryRowContext(context.Background(), "PRAGMA foreign_keys").Scan(&foreignKeys))
	assert.Equal(t, 1, foreignKeys)
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open("")
	require.Error(t, err)
	assert.Equal(t, types.DB_OPEN_FAILED, types.CodeOf(err))
}

func TestOpen_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "steward.db")

	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, path, db.Path())
}

func TestInitSchema_CreatesTables(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	for _, table := range []string{
		"call_records", "notes", "bookmarks", "pantry_items", "spending_entries", "knowledge_chunks",
	} {
		var name string
		err := db.QueryRowContext(ctx,
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestInitSchema_Idempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.InitSchema(ctx))

	version, err := NewMigrator(db).CurrentVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, version)
}

func TestMigrator_AppliedMigrations(t *testing.T) {
	db := openTestDB(t)

	applied, err := NewMigrator(db).AppliedMigrations(context.Background())
	require.NoError(t, err)
	require.Len(t, applied, 1)
	assert.Equal(t, 1, applied[0].Version)
	assert.Equal(t, "initial_schema", applied[0].Name)
	assert.NotEmpty(t, applied[0].AppliedAt)
}

func TestMigrator_Rollback(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	m := NewMigrator(db)

	require.NoError(t, m.Rollback(ctx))

	version, err := m.CurrentVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, version)

	var count int
	err = db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='call_records'").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	err = m.Rollback(ctx)
	require.Error(t, err)
	assert.Equal(t, types.DB_MIGRATION_FAILED, types.CodeOf(err))
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	err := db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO notes (id, title, content) VALUES (?, ?, ?)", "n1", "t", "c")
		return err
	})
	require.NoError(t, err)

	var count int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM notes").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO notes (id, title, content) VALUES (?, ?, ?)", "n1", "t", "c"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM notes").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestWithTx_RollsBackOnPanic(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	assert.Panics(t, func() {
		db.WithTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO notes (id, title, content) VALUES (?, ?, ?)", "n1", "t", "c"); err != nil {
				return err
			}
			panic("boom")
		})
	})

	var count int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM notes").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestHealth(t *testing.T) {
	db := openTestDB(t)
	assert.NoError(t, db.Health(context.Background()))
}

func TestSplitSQL(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   []string
	}{
		{
			name:   "two statements",
			script: "CREATE TABLE a (id TEXT);\nCREATE TABLE b (id TEXT);",
			want:   []string{"CREATE TABLE a (id TEXT)", "CREATE TABLE b (id TEXT)"},
		},
		{
			name:   "semicolon inside string literal",
			script: "INSERT INTO a VALUES ('x;y');",
			want:   []string{"INSERT INTO a VALUES ('x;y')"},
		},
		{
			name: "trigger body keeps internal semicolons",
			script: `CREATE TRIGGER trg AFTER INSERT ON a
BEGIN
  UPDATE a SET n = n + 1;
END;
CREATE TABLE c (id TEXT);`,
			want: []string{
				"CREATE TRIGGER trg AFTER INSERT ON a\nBEGIN\n  UPDATE a SET n = n + 1;\nEND",
				"CREATE TABLE c (id TEXT)",
			},
		},
		{
			name:   "comments are stripped",
			script: "-- leading comment\nCREATE TABLE a (id TEXT); /* block */ CREATE TABLE b (id TEXT);",
			want:   []string{"CREATE TABLE a (id TEXT)", "CREATE TABLE b (id TEXT)"},
		},
		{
			name:   "identifier containing begin is not a block",
			script: "CREATE TABLE beginnings (id TEXT);\nCREATE TABLE endings (id TEXT);",
			want:   []string{"CREATE TABLE beginnings (id TEXT)", "CREATE TABLE endings (id TEXT)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitSQL(tt.script))
		})
	}
}

func TestRemoveComments_KeepsStringLiterals(t *testing.T) {
	got := removeComments("INSERT INTO a VALUES ('not -- a comment');")
	assert.Equal(t, "INSERT INTO a VALUES ('not -- a comment');", got)
}

func TestEmbeddedSchema_Splits(t *testing.T) {
	statements := splitSQL(initialSchema)
	assert.NotEmpty(t, statements)
	for _, stmt := range statements {
		assert.NotContains(t, stmt, "--")
	}
}
