package store

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/cellplot/cellplot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateRecords_NoneBackend(t *testing.T) {
	err := MigrateRecords(schema.NoneBackend, "", -1)
	assert.ErrorContains(t, err, "migrations are not supported for NoneBackend")
}

func TestMigrateRecords_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "records.db")

	require.NoError(t, MigrateRecords(schema.SQLiteBackend, dbPath, -1))
	assert.ElementsMatch(t, recordTables, sqliteTables(t, dbPath))

	// Running again is a no-op
	require.NoError(t, MigrateRecords(schema.SQLiteBackend, dbPath, -1))
	require.NoError(t, MigrateRecords(schema.SQLiteBackend, dbPath, 1))

	// Rolling back drops every record table
	require.NoError(t, MigrateRecords(schema.SQLiteBackend, dbPath, 0))
	assert.Empty(t, sqliteTables(t, dbPath))

	require.NoError(t, MigrateRecords(schema.SQLiteBackend, dbPath, 1))
	assert.ElementsMatch(t, recordTables, sqliteTables(t, dbPath))
}

func TestMigrateRecords_StoreTablesCompatible(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "records.db")

	// A store that created its own tables can still be migrated
	rs, err := NewRecordStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	require.NoError(t, rs.Close())

	assert.NoError(t, MigrateRecords(schema.SQLiteBackend, dbPath, -1))
}

func TestMigrationDir(t *testing.T) {
	assert.Equal(t, "migrations/mysql", migrationDir(schema.MySQLBackend))
	assert.Equal(t, "migrations/postgresql", migrationDir(schema.PostgreSQLBackend))
	assert.Equal(t, "migrations/sqlite", migrationDir(schema.SQLiteBackend))

	for _, dir := range []string{"migrations/mysql", "migrations/postgresql", "migrations/sqlite"} {
		entries, err := migrationsFS.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 2, dir)
	}
}

func sqliteTables(t *testing.T, dbPath string) []string {
	t.Helper()
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type = 'table'
		AND name NOT LIKE 'sqlite_%' AND name != 'schema_migrations'`)
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	var tables []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		tables = append(tables, name)
	}
	require.NoError(t, rows.Err())
	return tables
}
