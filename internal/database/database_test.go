package database

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridwalk/racesim/internal/config"
)

func TestOpenSqlite_InMemory(t *testing.T) {
	db, err := OpenSqlite("")
	require.NoError(t, err)

	var version int
	require.NoError(t, db.Raw("PRAGMA user_version").Scan(&version).Error)
	assert.Equal(t, 1, version)
}

func TestOpenSqlite_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.db")
	db, err := OpenSqlite(path)
	require.NoError(t, err)

	require.NoError(t, db.Exec("CREATE TABLE grid (slot INTEGER)").Error)
	require.NoError(t, db.Exec("INSERT INTO grid (slot) VALUES (1), (2)").Error)

	var count int64
	require.NoError(t, db.Table("grid").Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestManager_ConnectSqlite(t *testing.T) {
	m := NewManager(zerolog.Nop())
	err := m.Connect(config.RosterConfig{
		Source:     "sqlite",
		SqlitePath: filepath.Join(t.TempDir(), "grid.db"),
	})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", m.DB.Dialector.Name())
	assert.NoError(t, m.Close())
}

func TestManager_UnsupportedSource(t *testing.T) {
	m := NewManager(zerolog.Nop())
	err := m.Connect(config.RosterConfig{Source: "mysql"})
	assert.ErrorContains(t, err, `unsupported roster database "mysql"`)
	assert.NoError(t, m.Close())
}
