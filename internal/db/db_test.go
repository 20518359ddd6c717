package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMigrations(t *testing.T) {
	database, err := Connect("file::memory:")
	require.NoError(t, err)
	defer database.Close()
	database.SetMaxOpenConns(1)

	require.NoError(t, RunMigrations(database.DB))
	// second run is a no-op
	require.NoError(t, RunMigrations(database.DB))

	var tables []string
	err = database.Select(&tables, "SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('users', 'saved_brackets', 'sessions') ORDER BY name")
	require.NoError(t, err)
	assert.Equal(t, []string{"saved_brackets", "sessions", "users"}, tables)

	var foreignKeys int
	require.NoError(t, database.Get(&foreignKeys, "PRAGMA foreign_keys"))
	assert.Equal(t, 1, foreignKeys)
}

func TestInitDBHandlesAreIndependent(t *testing.T) {
	dir := t.TempDir()
	first := InitDB(filepath.Join(dir, "first.db"))
	second := InitDB(filepath.Join(dir, "second.db"))
	defer second.Close()

	require.NoError(t, RunMigrations(first.DB))
	require.NoError(t, first.Close())

	// closing one handle leaves the other usable
	require.NoError(t, second.Ping())
	require.NoError(t, RunMigrations(second.DB))
	var journal string
	require.NoError(t, second.Get(&journal, "PRAGMA journal_mode"))
	assert.Equal(t, "wal", journal)
}
