package race

import "github.com/gridwalk/racesim/pkg/core"

// LapTimeModel holds the constants of the closed-form round-time formula:
//
//	max(Min, Base - power/PowerDivisor - aero*AeroMultiplier - skill*SkillBonus) * factor
//
// where factor is drawn uniformly from [FactorMin, FactorMax).
type LapTimeModel struct {
	Base           float64
	Min            float64
	PowerDivisor   float64
	AeroMultiplier float64
	SkillBonus     float64
	FactorMin      float64
	FactorMax      float64
}

// DefaultLapTimeModel returns the standard race constants.
func DefaultLapTimeModel() LapTimeModel {
	return LapTimeModel{
		Base:           100,
		Min:            70,
		PowerDivisor:   10,
		AeroMultiplier: 2,
		SkillBonus:     0.5,
		FactorMin:      0.9,
		FactorMax:      1.1,
	}
}

func (m LapTimeModel) validate() error {
	switch {
	case m.PowerDivisor <= 0:
		return configErr("lap time power divisor must be positive")
	case m.Min <= 0:
		return configErr("lap time minimum must be positive")
	case m.FactorMin <= 0 || m.FactorMax < m.FactorMin:
		return configErr("lap time factor range [%.2f, %.2f] is invalid", m.FactorMin, m.FactorMax)
	}
	return nil
}

// Factor maps a uniform draw in [0, 1) onto the factor interval.
func (m LapTimeModel) Factor(draw float64) float64 {
	return m.FactorMin + draw*(m.FactorMax-m.FactorMin)
}

// Compute returns the round time for p driving v with the given factor.
func (m LapTimeModel) Compute(p *core.Participant, v *core.Vehicle, factor float64) float64 {
	t := m.Base - v.Power()/m.PowerDivisor - v.Aero()*m.AeroMultiplier - p.Skill()*m.SkillBonus
	return max(m.Min, t) * factor
}
