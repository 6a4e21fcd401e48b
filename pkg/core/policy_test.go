package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedSource returns the same value on every call.
type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

func newVehicle(t *testing.T, power float64, tire TireCompound) *Vehicle {
	t.Helper()
	v, err := NewVehicle(power, 5, 100, tire)
	require.NoError(t, err)
	return v
}

func TestPolicy_Consumption(t *testing.T) {
	tests := []struct {
		policy Policy
		want   float64
	}{
		{Balanced, 2.0},
		{Aggressive, 4.0},
		{Economical, 2.0},
	}

	for _, tt := range tests {
		t.Run(tt.policy.String(), func(t *testing.T) {
			v := newVehicle(t, 800, TireMedium)

			out := tt.policy.Execute(v, nil)

			assert.Equal(t, OutcomeOK, out.Kind)
			assert.False(t, out.Failed())
			assert.InDelta(t, tt.want, out.Consumed, 1e-9)
			assert.InDelta(t, 100-tt.want, v.Fuel(), 1e-9)
		})
	}
}

func TestPolicy_EconomicalBrakesWhenLow(t *testing.T) {
	v := newVehicle(t, 1000, TireMedium)
	v.SetFuel(30)

	out := Economical.Execute(v, nil)

	assert.Equal(t, OutcomeOK, out.Kind)
	assert.Zero(t, out.Consumed)
	assert.Equal(t, 30.0, v.Fuel())
}

func TestPolicy_EmptyTank(t *testing.T) {
	for _, p := range []Policy{Balanced, Aggressive, Economical} {
		t.Run(p.String(), func(t *testing.T) {
			v := newVehicle(t, 800, TireMedium)
			v.SetFuel(0)

			out := p.Execute(v, nil)
			assert.Equal(t, OutcomeFuelExhausted, out.Kind)
			assert.True(t, out.Failed())
			assert.Equal(t, 0.0, v.Fuel())

			out = p.Execute(v, nil)
			assert.Equal(t, OutcomeFuelExhausted, out.Kind, "repeated calls stay a no-op")
			assert.Equal(t, 0.0, v.Fuel())
		})
	}
}

func TestPolicy_OverdrawClampsToZero(t *testing.T) {
	v := newVehicle(t, 1000, TireMedium)
	v.SetFuel(3)

	out := Aggressive.Execute(v, nil)

	assert.Equal(t, OutcomeFuelExhausted, out.Kind)
	assert.InDelta(t, 3.0, out.Consumed, 1e-9)
	assert.Equal(t, 0.0, v.Fuel())
}

func TestPolicy_TireOverheat(t *testing.T) {
	// soft chance 0.10: aggressive threshold 0.20, balanced 0.05, economical 0.025
	tests := []struct {
		policy   Policy
		roll     float64
		overheat bool
	}{
		{Aggressive, 0.19, true},
		{Aggressive, 0.21, false},
		{Balanced, 0.04, true},
		{Balanced, 0.06, false},
		{Economical, 0.02, true},
		{Economical, 0.03, false},
	}

	for _, tt := range tests {
		t.Run(tt.policy.String(), func(t *testing.T) {
			v := newVehicle(t, 800, TireSoft)

			out := tt.policy.Execute(v, fixedSource(tt.roll))

			if tt.overheat {
				assert.Equal(t, OutcomeTireOverheat, out.Kind)
				assert.Equal(t, 100.0, v.Fuel(), "overheated action burns no fuel")
			} else {
				assert.Equal(t, OutcomeOK, out.Kind)
			}
		})
	}
}

func TestParsePolicy(t *testing.T) {
	got, err := ParsePolicy("Aggressive")
	require.NoError(t, err)
	assert.Equal(t, Aggressive, got)

	got, err = ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, Balanced, got)

	_, err = ParsePolicy("reckless")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
