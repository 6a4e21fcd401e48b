package core

import "fmt"

// Vehicle bounds.
const (
	MinPower = 500.0
	MaxPower = 1000.0
	MinAero  = 1.0
	MaxAero  = 10.0
)

// Vehicle is a race car. Fuel stays within [0, Capacity] after every call.
// The participant link is only written by Assign.
type Vehicle struct {
	power       float64
	aero        float64
	capacity    float64
	fuel        float64
	tire        TireCompound
	condition   ConditionState
	participant *Participant
}

// NewVehicle returns a fully fueled vehicle in the Normal condition.
func NewVehicle(power, aero, capacity float64, tire TireCompound) (*Vehicle, error) {
	v := &Vehicle{condition: Normal}
	if err := v.SetPower(power); err != nil {
		return nil, err
	}
	if err := v.SetAero(aero); err != nil {
		return nil, err
	}
	if capacity <= 0 {
		return nil, configErr("fuel capacity must be greater than 0, got %.2f", capacity)
	}
	if err := v.SetTire(tire); err != nil {
		return nil, err
	}
	v.capacity = capacity
	v.fuel = capacity
	return v, nil
}

func (v *Vehicle) Power() float64 { return v.power }
func (v *Vehicle) Aero() float64 { return v.aero }
func (v *Vehicle) Capacity() float64 { return v.capacity }
func (v *Vehicle) Fuel() float64 { return v.fuel }
func (v *Vehicle) Tire() TireCompound { return v.tire }
func (v *Vehicle) Condition() ConditionState { return v.condition }
func (v *Vehicle) Participant() *Participant { return v.participant }
func (v *Vehicle) AssignParticipant(p *Participant) { Assign(p, v) }

// SetPower validates power against [MinPower, MaxPower].
func (v *Vehicle) SetPower(power float64) error {
	if err := validateRange(power, MinPower, MaxPower, "power"); err != nil {
		return err
	}
	v.power = power
	return nil
}

// SetAero validates aerodynamics against [MinAero, MaxAero].
func (v *Vehicle) SetAero(aero float64) error {
	if err := validateRange(aero, MinAero, MaxAero, "aerodynamics"); err != nil {
		return err
	}
	v.aero = aero
	return nil
}

func (v *Vehicle) SetTire(t TireCompound) error {
	if !t.Valid() {
		return configErr("unknown tire compound %q", string(t))
	}
	v.tire = t
	return nil
}

// SetFuel clamps level into [0, Capacity].
func (v *Vehicle) SetFuel(level float64) {
	v.fuel = clamp(level, 0, v.capacity)
}

// FuelPercent is the fuel level as a percentage of capacity.
func (v *Vehicle) FuelPercent() float64 {
	return v.fuel / v.capacity * 100
}

// Refuel adds fuel up to capacity.
func (v *Vehicle) Refuel(amount float64) error {
	if amount < 0 {
		return configErr("fuel amount cannot be negative, got %.2f", amount)
	}
	v.fuel = clamp(v.fuel+amount, 0, v.capacity)
	return nil
}

// Consume burns amount of fuel. When the tank holds less than amount, or is
// already empty, fuel ends at 0 and exhausted is true.
func (v *Vehicle) Consume(amount float64) (exhausted bool, err error) {
	if amount < 0 {
		return false, configErr("fuel amount cannot be negative, got %.2f", amount)
	}
	if v.fuel <= 0 {
		v.fuel = 0
		return true, nil
	}
	if amount > v.fuel {
		v.fuel = 0
		return true, nil
	}
	v.fuel -= amount
	return false, nil
}

// Recompute re-evaluates the condition state from the current readings.
func (v *Vehicle) Recompute() (state ConditionState, changed bool) {
	state = Evaluate(v.FuelPercent(), v.power, v.aero)
	changed = state != v.condition
	v.condition = state
	return state, changed
}

// Performance is an indicative rating: power/10 × aero × tire multiplier.
func (v *Vehicle) Performance() float64 {
	return v.power / 10 * v.aero * tireSpecs[v.tire].performance
}

func (v *Vehicle) String() string {
	return fmt.Sprintf("Vehicle: power=%.1f, aero=%.1f, fuel=%.1f/%.1f, tire=%s, condition=%s",
		v.power, v.aero, v.fuel, v.capacity, v.tire, v.condition)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
