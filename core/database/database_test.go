package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSQLiteDefaults(t *testing.T) {
	cfg := Config{MaxConnections: 10}
	require.NoError(t, cfg.Normalize())
	assert.Equal(t, DriverSQLite, cfg.Driver)
	assert.Equal(t, "journals.db", cfg.Path)
	assert.Equal(t, 1, cfg.MaxConnections)
	assert.Equal(t, "migrations", cfg.MigrationsDir)
	assert.Equal(t, "sqlite://journals.db", cfg.MigrateURL())
}

func TestNormalizePostgres(t *testing.T) {
	cfg := Config{Driver: " Postgres ", Host: "db", Name: "journals", User: "bot", Password: "pw"}
	require.NoError(t, cfg.Normalize())
	assert.Equal(t, "5432", cfg.Port)
	assert.Equal(t, "disable", cfg.SSLMode)
	assert.Equal(t, "user=bot password=pw host=db port=5432 dbname=journals sslmode=disable", cfg.DSN())
	assert.Equal(t, "postgres://bot:pw@db:5432/journals?sslmode=disable", cfg.MigrateURL())
	assert.Equal(t, "db:5432/journals", cfg.target())

	assert.Error(t, (&Config{Driver: DriverPostgres}).Normalize())
	assert.Error(t, (&Config{Driver: "mysql"}).Normalize())
}

func TestScanMigrations(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"000002_b.up.sql", "000001_a.up.sql", "000001_a.down.sql", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o600))
	}
	files := scanMigrations(dir)
	require.Len(t, files, 2)
	assert.Equal(t, migrationFile{name: "000001_a.up.sql", version: 1}, files[0])
	assert.Equal(t, uint64(2), files[1].version)

	assert.Len(t, between(files, 0, 2), 2)
	assert.Len(t, between(files, 1, 2), 1)
	assert.Empty(t, between(files, 2, 2))
	assert.Nil(t, scanMigrations(filepath.Join(dir, "missing")))
}

func TestRunMigrationsSQLiteMemory(t *testing.T) {
	cfg := Config{Driver: DriverSQLite, Path: ":memory:", MigrationsDir: "../../migrations"}
	require.NoError(t, cfg.Normalize())
	db, err := Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, RunMigrations(db, cfg))
	// A second run is a no-op.
	require.NoError(t, RunMigrations(db, cfg))

	var n int
	require.NoError(t, db.Get(&n, "SELECT COUNT(*) FROM sections"))
	assert.Zero(t, n)
}
