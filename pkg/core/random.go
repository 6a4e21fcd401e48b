package core

import "math/rand/v2"

// Source is the randomness provider for lap-time factors and tire rolls.
// *rand.Rand satisfies it.
type Source interface {
	// Float64 returns a pseudo-random number in [0.0, 1.0).
	Float64() float64
}

// NewSource returns a PCG-backed source. Equal seeds replay equal races.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
