package core

import (
	"fmt"
	"strings"
)

// Fuel burn per accelerate action is BaseConsumption × power / MaxPower.
const (
	BaseConsumption = 2.5

	// Economical drivers only accelerate above this share of capacity.
	economyThreshold = 0.3
)

// Policy is a driving behavior. The zero value is Balanced.
type Policy int

const (
	Balanced Policy = iota
	Aggressive
	Economical
)

// ParsePolicy accepts the policy names case-insensitively.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "balanced", "":
		return Balanced, nil
	case "aggressive":
		return Aggressive, nil
	case "economical":
		return Economical, nil
	default:
		return Balanced, configErr("unknown driving policy %q", s)
	}
}

// Valid reports whether p is one of the three known policies.
func (p Policy) Valid() bool {
	return p >= Balanced && p <= Economical
}

func (p Policy) String() string {
	switch p {
	case Balanced:
		return "balanced"
	case Aggressive:
		return "aggressive"
	case Economical:
		return "economical"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// tireStress scales the compound's overheat chance per accelerate action.
func (p Policy) tireStress() float64 {
	switch p {
	case Aggressive:
		return 2.0
	case Economical:
		return 0.25
	default:
		return 0.5
	}
}

// OutcomeKind classifies the result of one round of driving.
type OutcomeKind int

const (
	OutcomeOK OutcomeKind = iota
	OutcomeFuelExhausted
	OutcomeTireOverheat
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeOK:
		return "ok"
	case OutcomeFuelExhausted:
		return "fuel_exhausted"
	case OutcomeTireOverheat:
		return "tire_overheat"
	default:
		return "unknown"
	}
}

// Outcome reports what a policy did to a vehicle in one round. Failures are
// expected, recoverable conditions and are never returned as errors.
type Outcome struct {
	Kind     OutcomeKind
	Consumed float64
	Detail   string
}

// Failed reports whether the round ended in a vehicle failure.
func (o Outcome) Failed() bool {
	return o.Kind != OutcomeOK
}

// Execute drives v for one round. rnd drives the tire overheat roll; a nil
// source never overheats.
func (p Policy) Execute(v *Vehicle, rnd Source) Outcome {
	if v.Fuel() <= 0 {
		return Outcome{
			Kind:   OutcomeFuelExhausted,
			Detail: "no fuel, cannot accelerate",
		}
	}

	actions := 1
	switch p {
	case Aggressive:
		actions = 2
	case Economical:
		if v.Fuel() <= v.Capacity()*economyThreshold {
			return Outcome{Kind: OutcomeOK, Detail: "braking to save fuel"}
		}
	}

	var out Outcome
	for i := 0; i < actions; i++ {
		if rnd != nil && rnd.Float64() < v.Tire().OverheatChance()*p.tireStress() {
			out.Kind = OutcomeTireOverheat
			out.Detail = fmt.Sprintf("%s tires overheated", v.Tire())
			return out
		}

		amount := BaseConsumption * v.Power() / MaxPower
		before := v.Fuel()
		exhausted, _ := v.Consume(amount)
		out.Consumed += before - v.Fuel()
		if exhausted {
			out.Kind = OutcomeFuelExhausted
			out.Detail = fmt.Sprintf("ran out of fuel, needed %.2f", amount)
			return out
		}
	}
	return out
}
