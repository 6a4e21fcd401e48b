package core

// ConditionState is the derived operating-health classification of a vehicle.
type ConditionState int

const (
	Normal ConditionState = iota
	Optimal
	Overheating
	Critical
)

// Evaluate derives the condition from readings alone; the previous state
// plays no part.
func Evaluate(fuelPercent, power, aero float64) ConditionState {
	switch {
	case fuelPercent < 10 || power > 950:
		return Critical
	case fuelPercent < 30 || power > 900:
		return Overheating
	case fuelPercent > 70 && power < 850 && aero > 8:
		return Optimal
	default:
		return Normal
	}
}

// Advisory is the message announced when a vehicle enters the state.
func (s ConditionState) Advisory() string {
	switch s {
	case Critical:
		return "critical: pit stop needed"
	case Overheating:
		return "overheating: reduce load"
	case Optimal:
		return "optimal: car works perfectly"
	default:
		return ""
	}
}

func (s ConditionState) String() string {
	switch s {
	case Normal:
		return "normal"
	case Optimal:
		return "optimal"
	case Overheating:
		return "overheating"
	case Critical:
		return "critical"
	default:
		return "unknown"
	}
}
