package core

import (
	"fmt"
	"strings"
)

// Skill bounds and the per-session training step.
const (
	MinSkill     = 1.0
	MaxSkill     = 10.0
	TrainingStep = 0.1
)

// Participant is a driver entered into races. The vehicle link is only
// written by Assign.
type Participant struct {
	name       string
	skill      float64
	experience int
	policy     Policy
	vehicle    *Vehicle
}

// NewParticipant returns a participant driving with the Balanced policy.
func NewParticipant(name string, skill float64) (*Participant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, configErr("participant name cannot be empty")
	}
	p := &Participant{name: name, policy: Balanced}
	if err := p.SetSkill(skill); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Participant) Name() string { return p.name }
func (p *Participant) Skill() float64 { return p.skill }
func (p *Participant) Experience() int { return p.experience }
func (p *Participant) Policy() Policy { return p.policy }
func (p *Participant) Vehicle() *Vehicle { return p.vehicle }
func (p *Participant) AssignVehicle(v *Vehicle) { Assign(p, v) }

// SetSkill validates skill against [MinSkill, MaxSkill].
func (p *Participant) SetSkill(skill float64) error {
	if err := validateRange(skill, MinSkill, MaxSkill, "skill"); err != nil {
		return err
	}
	p.skill = skill
	return nil
}

// SetExperience records years of experience; negative values become 0.
func (p *Participant) SetExperience(years int) {
	if years < 0 {
		years = 0
	}
	p.experience = years
}

func (p *Participant) SetPolicy(policy Policy) error {
	if !policy.Valid() {
		return configErr("unknown driving policy %d", int(policy))
	}
	p.policy = policy
	return nil
}

// Train raises skill by TrainingStep, capped at MaxSkill. It returns false
// when skill was already at the cap.
func (p *Participant) Train() bool {
	if p.skill >= MaxSkill {
		return false
	}
	p.skill = min(p.skill+TrainingStep, MaxSkill)
	return true
}

func (p *Participant) String() string {
	return fmt.Sprintf("%s (skill %.1f, %s)", p.name, p.skill, p.policy)
}
