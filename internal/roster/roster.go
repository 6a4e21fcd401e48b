// Package roster turns the configured grid into participants and vehicles.
// The grid is read either from the config file or from an "entrants" table.
package roster

import (
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/gridwalk/racesim/internal/config"
	"github.com/gridwalk/racesim/pkg/core"
)

// Setup keys.
const (
	SetupExperience = "experience"
	SetupTrainings  = "trainings"
)

// Entrant is one grid slot. Setup holds optional per-driver overrides.
type Entrant struct {
	ID           uint              `gorm:"primarykey" json:"-"`
	Slot         int               `gorm:"uniqueIndex;not null" json:"slot"`
	Driver       string            `gorm:"size:64;not null" json:"driver"`
	Skill        float64           `json:"skill"`
	Policy       string            `gorm:"size:16" json:"policy"`
	Power        float64           `json:"power"`
	Aero         float64           `json:"aero"`
	FuelCapacity float64           `json:"fuelCapacity"`
	Tire         string            `gorm:"size:8" json:"tire"`
	Setup        datatypes.JSONMap `json:"setup"`
}

func (*Entrant) TableName() string {
	return "entrants"
}

// Slot pairs a built participant with its vehicle.
type Slot struct {
	Participant *core.Participant
	Vehicle     *core.Vehicle
}

// Migrate creates or updates the entrants table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Entrant{}); err != nil {
		return fmt.Errorf("failed to migrate entrants: %w", err)
	}
	return nil
}

// Save inserts entrants in one batch.
func Save(db *gorm.DB, entrants []Entrant) error {
	if len(entrants) == 0 {
		return nil
	}
	if err := db.Create(&entrants).Error; err != nil {
		return fmt.Errorf("failed to save entrants: %w", err)
	}
	return nil
}

// Load returns every entrant ordered by slot.
func Load(db *gorm.DB) ([]Entrant, error) {
	var entrants []Entrant
	if err := db.Order("slot").Find(&entrants).Error; err != nil {
		return nil, fmt.Errorf("failed to load entrants: %w", err)
	}
	return entrants, nil
}

// FromConfig numbers inline entrants from slot 1 in file order.
func FromConfig(entries []config.EntrantConfig) []Entrant {
	entrants := make([]Entrant, 0, len(entries))
	for i, e := range entries {
		ent := Entrant{
			Slot:         i + 1,
			Driver:       e.Name,
			Skill:        e.Skill,
			Policy:       e.Policy,
			Power:        e.Power,
			Aero:         e.Aero,
			FuelCapacity: e.FuelCapacity,
			Tire:         e.Tire,
		}
		if e.Experience != 0 {
			ent.Setup = datatypes.JSONMap{SetupExperience: e.Experience}
		}
		entrants = append(entrants, ent)
	}
	return entrants
}

// Build creates the participant and vehicle for e and links them.
func (e Entrant) Build() (*core.Participant, *core.Vehicle, error) {
	p, err := core.NewParticipant(e.Driver, e.Skill)
	if err != nil {
		return nil, nil, e.wrap(err)
	}

	policy, err := core.ParsePolicy(e.Policy)
	if err != nil {
		return nil, nil, e.wrap(err)
	}
	if err := p.SetPolicy(policy); err != nil {
		return nil, nil, e.wrap(err)
	}

	years, err := e.setupInt(SetupExperience)
	if err != nil {
		return nil, nil, e.wrap(err)
	}
	p.SetExperience(years)

	trainings, err := e.setupInt(SetupTrainings)
	if err != nil {
		return nil, nil, e.wrap(err)
	}
	for range trainings {
		if !p.Train() {
			break
		}
	}

	tire, err := core.ParseTireCompound(e.Tire)
	if err != nil {
		return nil, nil, e.wrap(err)
	}
	v, err := core.NewVehicle(e.Power, e.Aero, e.FuelCapacity, tire)
	if err != nil {
		return nil, nil, e.wrap(err)
	}

	core.Assign(p, v)
	return p, v, nil
}

// BuildGrid builds every entrant, stopping at the first invalid one.
func BuildGrid(entrants []Entrant) ([]Slot, error) {
	grid := make([]Slot, 0, len(entrants))
	for _, e := range entrants {
		p, v, err := e.Build()
		if err != nil {
			return nil, err
		}
		grid = append(grid, Slot{Participant: p, Vehicle: v})
	}
	return grid, nil
}

func (e Entrant) wrap(err error) error {
	return fmt.Errorf("slot %d (%s): %w", e.Slot, e.Driver, err)
}

// setupInt reads an optional integer override. JSON decoding yields float64,
// config-built maps hold int.
func (e Entrant) setupInt(key string) (int, error) {
	raw, ok := e.Setup[key]
	if !ok || raw == nil {
		return 0, nil
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("%w: setup %q must be a number, got %T", core.ErrInvalidConfig, key, raw)
	}
}
