package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gridwalk/racesim/internal/config"
	"github.com/gridwalk/racesim/internal/database"
	"github.com/gridwalk/racesim/internal/roster"
)

// loadGrid builds the grid from the configured roster source.
func loadGrid(log zerolog.Logger) ([]roster.Slot, error) {
	cfg, err := config.GetRosterConfig()
	if err != nil {
		return nil, err
	}

	var entrants []roster.Entrant
	switch cfg.Source {
	case "config", "":
		entrants = roster.FromConfig(cfg.Entrants)
	default:
		entrants, err = loadEntrants(cfg, log)
		if err != nil {
			return nil, err
		}
	}

	log.Info().Str("source", cfg.Source).Int("entrants", len(entrants)).Msg("Roster loaded")
	return roster.BuildGrid(entrants)
}

func loadEntrants(cfg config.RosterConfig, log zerolog.Logger) ([]roster.Entrant, error) {
	m := database.NewManager(log.With().Str("component", "database").Logger())
	if err := m.Connect(cfg); err != nil {
		return nil, fmt.Errorf("connect roster database: %w", err)
	}
	defer m.Close()

	if err := roster.Migrate(m.DB); err != nil {
		return nil, err
	}
	return roster.Load(m.DB)
}
