package core

import (
	"fmt"
	"strings"
)

// TireCompound is one of the dry compounds a vehicle can run.
type TireCompound string

const (
	TireSoft   TireCompound = "SOFT"
	TireMedium TireCompound = "MEDIUM"
	TireHard   TireCompound = "HARD"
)

type tireSpec struct {
	grip           float64
	durability     float64
	overheatChance float64
	performance    float64
}

var tireSpecs = map[TireCompound]tireSpec{
	TireSoft:   {grip: 0.95, durability: 0.50, overheatChance: 0.10, performance: 1.2},
	TireMedium: {grip: 0.80, durability: 0.75, overheatChance: 0.05, performance: 1.0},
	TireHard:   {grip: 0.65, durability: 0.95, overheatChance: 0.02, performance: 0.9},
}

// ParseTireCompound accepts "soft", "Medium", " HARD " and so on.
func ParseTireCompound(s string) (TireCompound, error) {
	t := TireCompound(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", configErr("unknown tire compound %q, use soft, medium or hard", s)
	}
	return t, nil
}

// Valid reports whether t is one of the known compounds.
func (t TireCompound) Valid() bool {
	_, ok := tireSpecs[t]
	return ok
}

// Grip is the compound's grip rating in [0, 1].
func (t TireCompound) Grip() float64 { return tireSpecs[t].grip }

// Durability is the compound's durability rating in [0, 1].
func (t TireCompound) Durability() float64 { return tireSpecs[t].durability }

// OverheatChance is the per-action overheat probability before policy stress.
func (t TireCompound) OverheatChance() float64 { return tireSpecs[t].overheatChance }

func (t TireCompound) String() string {
	if !t.Valid() {
		return fmt.Sprintf("TireCompound(%q)", string(t))
	}
	return strings.ToLower(string(t))
}
