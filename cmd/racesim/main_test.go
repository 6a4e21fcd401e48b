package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridwalk/racesim/internal/config"
	"github.com/gridwalk/racesim/internal/database"
	"github.com/gridwalk/racesim/internal/roster"
	"github.com/gridwalk/racesim/pkg/core"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	body = strings.ReplaceAll(body, "LOGS", filepath.ToSlash(filepath.Join(dir, "logs")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(body), 0644))
	return dir
}

func TestRun_InlineRoster(t *testing.T) {
	t.Cleanup(viper.Reset)
	dir := writeConfig(t, `{
		"logsDir": "LOGS",
		"race": { "name": "Monza", "rounds": 3, "seed": 7 },
		"roster": {
			"entrants": [
				{ "name": "Alice", "skill": 9, "power": 950, "aero": 8, "fuelCapacity": 100, "tire": "hard" },
				{ "name": "Bob", "skill": 6, "policy": "economical", "power": 800, "aero": 5, "fuelCapacity": 100, "tire": "hard" }
			]
		}
	}`)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{dir}, &out))

	text := out.String()
	assert.Contains(t, text, "=== Race Results ===")
	assert.Contains(t, text, "Race: Monza")
	assert.Contains(t, text, "Total Laps: 3")
	assert.Contains(t, text, "Alice")
	assert.Contains(t, text, "Bob")

	logs, err := filepath.Glob(filepath.Join(dir, "logs", "monza.*.log"))
	require.NoError(t, err)
	require.Len(t, logs, 1)
	data, err := os.ReadFile(logs[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "Race started: Monza")
	assert.Contains(t, string(data), `msg="Race events"`)
	assert.Contains(t, string(data), "round_started:3")
}

func TestRun_SqliteRoster(t *testing.T) {
	t.Cleanup(viper.Reset)
	dbPath := filepath.Join(t.TempDir(), "grid.db")

	db, err := database.OpenSqlite(dbPath)
	require.NoError(t, err)
	require.NoError(t, roster.Migrate(db))
	require.NoError(t, roster.Save(db, []roster.Entrant{
		{Slot: 1, Driver: "Carol", Skill: 7, Power: 900, Aero: 6, FuelCapacity: 100, Tire: "hard"},
	}))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	dir := writeConfig(t, `{
		"logsDir": "LOGS",
		"race": { "name": "Spa", "rounds": 2, "seed": 1 },
		"roster": { "source": "sqlite", "sqlitePath": "`+filepath.ToSlash(dbPath)+`" }
	}`)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{dir}, &out))
	assert.Contains(t, out.String(), "Carol")
}

func TestRun_EmptyGrid(t *testing.T) {
	t.Cleanup(viper.Reset)
	dir := writeConfig(t, `{ "logsDir": "LOGS" }`)

	var out bytes.Buffer
	err := run(context.Background(), []string{dir}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no participants")
	assert.Empty(t, out.String())
}

func TestRun_InvalidEntrant(t *testing.T) {
	t.Cleanup(viper.Reset)
	dir := writeConfig(t, `{
		"logsDir": "LOGS",
		"roster": { "entrants": [ { "name": "Alice", "skill": 12, "power": 800, "aero": 5, "fuelCapacity": 100, "tire": "soft" } ] }
	}`)

	err := run(context.Background(), []string{dir}, &bytes.Buffer{})
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
}

func TestRun_MissingConfig(t *testing.T) {
	t.Cleanup(viper.Reset)
	err := run(context.Background(), []string{t.TempDir()}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "error reading config file")
}

func TestSeededSource(t *testing.T) {
	start := time.Unix(1700000000, 0)

	a := seededSource(42, start)
	b := seededSource(42, start.Add(time.Hour))
	assert.Equal(t, a.Float64(), b.Float64(), "an explicit seed ignores the clock")

	c := seededSource(0, start)
	d := seededSource(0, start)
	assert.Equal(t, c.Float64(), d.Float64())
}

func TestLapTimeModel(t *testing.T) {
	m := lapTimeModel(config.LapTimeConfig{Base: 100, Min: 70, PowerDivisor: 10, AeroMultiplier: 2, SkillBonus: 0.5, FactorMin: 0.9, FactorMax: 1.1})
	assert.Equal(t, 100.0, m.Base)
	assert.Equal(t, 1.1, m.FactorMax)
}
