package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTireCompound_Specs(t *testing.T) {
	assert.Equal(t, 0.95, TireSoft.Grip())
	assert.Equal(t, 0.75, TireMedium.Durability())
	assert.Equal(t, 0.02, TireHard.OverheatChance())
	assert.Greater(t, TireSoft.OverheatChance(), TireMedium.OverheatChance())

	assert.Equal(t, "soft", TireSoft.String())
	assert.False(t, TireCompound("WET").Valid())
	assert.Equal(t, `TireCompound("WET")`, TireCompound("WET").String())
}

func TestStanding_String(t *testing.T) {
	p, err := NewParticipant("Alice", 8)
	require.NoError(t, err)

	s := Standing{Participant: p, Position: 1, BestTime: 70.456, Points: 26, Rounds: 10}
	assert.True(t, s.HasTime())
	assert.Equal(t, "P1. Alice - 26 points (Laps: 10, Best: 70.46s)", s.String())

	assert.False(t, Standing{}.HasTime())
	assert.Equal(t, "P0. <none> - 0 points (Laps: 0, Best: 0.00s)", Standing{}.String())
}

func TestNewSource_Deterministic(t *testing.T) {
	a, b := NewSource(99), NewSource(99)
	for range 5 {
		x := a.Float64()
		assert.Equal(t, x, b.Float64())
		assert.GreaterOrEqual(t, x, 0.0)
		assert.Less(t, x, 1.0)
	}
	assert.NotEqual(t, NewSource(1).Float64(), NewSource(2).Float64())
}
