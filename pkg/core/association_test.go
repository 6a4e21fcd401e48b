package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPair(t *testing.T, name string) (*Participant, *Vehicle) {
	t.Helper()
	p, err := NewParticipant(name, 8)
	require.NoError(t, err)
	v, err := NewVehicle(800, 8, 100, TireMedium)
	require.NoError(t, err)
	return p, v
}

func assertSymmetric(t *testing.T, p *Participant, v *Vehicle) {
	t.Helper()
	assert.Equal(t, p.Vehicle() == v, v.Participant() == p)
}

func TestAssign_LinksBothSides(t *testing.T) {
	p, v := newPair(t, "A")

	Assign(p, v)

	assert.Same(t, v, p.Vehicle())
	assert.Same(t, p, v.Participant())
}

func TestAssign_Idempotent(t *testing.T) {
	p, v := newPair(t, "A")

	Assign(p, v)
	Assign(p, v)

	assert.Same(t, v, p.Vehicle())
	assert.Same(t, p, v.Participant())
}

func TestAssign_NewVehicleReleasesOld(t *testing.T) {
	p, v := newPair(t, "A")
	_, v2 := newPair(t, "unused")

	Assign(p, v)
	Assign(p, v2)

	assert.Same(t, v2, p.Vehicle())
	assert.Same(t, p, v2.Participant())
	assert.Nil(t, v.Participant(), "old vehicle must not keep pointing at p")
	assertSymmetric(t, p, v)
	assertSymmetric(t, p, v2)
}

func TestAssign_TakenVehicleReleasesPreviousOwner(t *testing.T) {
	p1, v := newPair(t, "A")
	p2, _ := newPair(t, "B")

	Assign(p1, v)
	Assign(p2, v)

	assert.Same(t, p2, v.Participant())
	assert.Same(t, v, p2.Vehicle())
	assert.Nil(t, p1.Vehicle())
	assertSymmetric(t, p1, v)
}

func TestAssign_NilClearsOneSide(t *testing.T) {
	p, v := newPair(t, "A")

	Assign(p, v)
	Assign(p, nil)
	assert.Nil(t, p.Vehicle())
	assert.Nil(t, v.Participant())

	Assign(p, v)
	Assign(nil, v)
	assert.Nil(t, p.Vehicle())
	assert.Nil(t, v.Participant())

	Assign(nil, nil)
}

func TestAssign_SettersDelegate(t *testing.T) {
	p, v := newPair(t, "A")
	p2, v2 := newPair(t, "B")

	p.AssignVehicle(v)
	v2.AssignParticipant(p)

	assert.Same(t, v2, p.Vehicle())
	assert.Nil(t, v.Participant())
	assert.Nil(t, p2.Vehicle())
	assertSymmetric(t, p, v)
	assertSymmetric(t, p, v2)
}
