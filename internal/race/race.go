// Package race runs a multi-participant race round by round: it drives each
// vehicle with its participant's policy, tracks progress and best times,
// keeps standings ordered and scores the final classification.
package race

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gridwalk/racesim/internal/scoring"
	"github.com/gridwalk/racesim/pkg/core"
)

// ErrInvalidState is wrapped by every error caused by calling an operation
// the race cannot accept in its current state.
var ErrInvalidState = errors.New("invalid race state")

var (
	ErrNoParticipants   = fmt.Errorf("%w: no participants registered", ErrInvalidState)
	ErrRaceRunning      = fmt.Errorf("%w: race is already running", ErrInvalidState)
	ErrRaceFinished     = fmt.Errorf("%w: race already finished", ErrInvalidState)
	ErrRegistrationShut = fmt.Errorf("%w: registration is closed once the race starts", ErrInvalidState)
)

// State is the lifecycle state of a race.
type State int32

const (
	Created State = iota
	Running
	Finished
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Running:
		return "running"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// Option configures a Race.
type Option func(*Race)

// WithSource sets the randomness source for lap-time factors and tire rolls.
func WithSource(src core.Source) Option {
	return func(r *Race) {
		if src != nil {
			r.src = src
		}
	}
}

// WithLapTimeModel replaces the default lap-time constants.
func WithLapTimeModel(m LapTimeModel) Option {
	return func(r *Race) {
		r.model = m
	}
}

// WithLogger sets the logger used for engine diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(r *Race) {
		if l != nil {
			r.logger = l
		}
	}
}

type entry struct {
	participant *core.Participant
	standing    *core.Standing
}

// Race is a single-use race. All operations run on the caller's goroutine;
// only Stop, State and Round may be called from elsewhere.
type Race struct {
	name   string
	rounds int
	model  LapTimeModel
	src    core.Source
	logger *slog.Logger

	entries []*entry // registration order
	index   map[*core.Participant]*entry
	order   []*core.Standing // position order
	sinks   []EventSink
	points  map[*core.Participant]int

	state         atomic.Int32
	round         atomic.Int64
	stopRequested atomic.Bool
}

// New creates a race with the given name and number of rounds.
func New(name string, rounds int, opts ...Option) (*Race, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, configErr("race name cannot be empty")
	}
	if rounds <= 0 {
		return nil, configErr("round count must be greater than 0, got %d", rounds)
	}

	r := &Race{
		name:   name,
		rounds: rounds,
		model:  DefaultLapTimeModel(),
		logger: slog.Default(),
		index:  make(map[*core.Participant]*entry),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.src == nil {
		r.src = core.NewSource(uint64(time.Now().UnixNano()))
	}
	if err := r.model.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Race) Name() string { return r.name }
func (r *Race) Rounds() int  { return r.rounds }

// State returns the current lifecycle state.
func (r *Race) State() State {
	return State(r.state.Load())
}

// Round returns the index of the round in progress, or of the last one run.
func (r *Race) Round() int {
	return int(r.round.Load())
}

// Register enters p into the race driving v. Registering p again moves it
// to v without creating a second standing.
func (r *Race) Register(p *core.Participant, v *core.Vehicle) error {
	if p == nil || v == nil {
		return configErr("participant and vehicle are required")
	}
	if r.State() != Created {
		return ErrRegistrationShut
	}

	core.Assign(p, v)

	if _, ok := r.index[p]; ok {
		r.logger.Debug("Participant re-registered", "participant", p.Name())
		return nil
	}

	s := &core.Standing{Participant: p, Position: len(r.entries) + 1}
	e := &entry{participant: p, standing: s}
	r.entries = append(r.entries, e)
	r.order = append(r.order, s)
	r.index[p] = e

	r.logger.Debug("Participant registered", "participant", p.Name(), "position", s.Position)
	return nil
}

// Subscribe attaches a sink. Sinks are notified in subscription order.
func (r *Race) Subscribe(sink EventSink) {
	if sink == nil {
		return
	}
	r.sinks = append(r.sinks, sink)
}

// Start runs the race to completion on the calling goroutine. Cancelling
// ctx or calling Stop ends it at the next round boundary.
func (r *Race) Start(ctx context.Context) error {
	switch r.State() {
	case Running:
		return ErrRaceRunning
	case Finished:
		return ErrRaceFinished
	}
	if len(r.entries) == 0 {
		return ErrNoParticipants
	}

	r.state.Store(int32(Running))
	r.logger.Info("Race started", "race", r.name, "rounds", r.rounds, "participants", len(r.entries))
	r.emit(Event{
		Kind:    KindRaceStarted,
		Message: fmt.Sprintf("Race started: %s (%d laps, %d participants)", r.name, r.rounds, len(r.entries)),
	})

	stopped := false
	for lap := 1; lap <= r.rounds; lap++ {
		if ctx.Err() != nil || r.stopRequested.Load() {
			stopped = true
			break
		}
		r.runRound(lap)
		if r.markFinished() {
			break
		}
	}

	r.finish(stopped)
	return nil
}

// Stop ends the race without running the remaining rounds. A running race
// stops at the next round boundary; a race that never started finishes
// immediately. Stopping a finished race does nothing.
func (r *Race) Stop() {
	switch r.State() {
	case Running:
		r.stopRequested.Store(true)
	case Created:
		r.finish(true)
	}
}

// Standings returns a copy of the standings ordered by position.
func (r *Race) Standings() []core.Standing {
	out := make([]core.Standing, len(r.order))
	for i, s := range r.order {
		out[i] = *s
	}
	return out
}

// Points returns the scored points per participant. It is empty until the
// race finishes.
func (r *Race) Points() map[*core.Participant]int {
	out := make(map[*core.Participant]int, len(r.points))
	for p, pts := range r.points {
		out[p] = pts
	}
	return out
}

// Results renders the classification as a text listing.
func (r *Race) Results() string {
	var b strings.Builder
	b.WriteString("=== Race Results ===\n")
	fmt.Fprintf(&b, "Race: %s\n", r.name)
	fmt.Fprintf(&b, "Total Laps: %d\n\n", r.rounds)
	for _, s := range r.order {
		b.WriteString(s.String())
		if s.Rounds < r.rounds {
			b.WriteString(" DNF")
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (r *Race) runRound(lap int) {
	r.round.Store(int64(lap))
	r.emit(Event{
		Kind:    KindRoundStarted,
		Round:   lap,
		Message: fmt.Sprintf("Lap %d/%d", lap, r.rounds),
	})

	for _, e := range r.entries {
		if e.standing.Finished {
			continue
		}
		r.advance(lap, e)
	}

	Order(r.order)
	r.logger.Debug("Round complete", "race", r.name, "round", lap)
}

// advance drives one participant through one round. Vehicle failures are
// reported as advisories and cost the participant the round.
func (r *Race) advance(lap int, e *entry) {
	p, s := e.participant, e.standing

	v := p.Vehicle()
	if v == nil {
		r.emit(Event{
			Kind:        KindAdvisory,
			Round:       lap,
			Participant: p.Name(),
			Message:     "no vehicle assigned",
		})
		return
	}

	out := p.Policy().Execute(v, r.src)
	if out.Failed() {
		r.emit(Event{
			Kind:        KindAdvisory,
			Round:       lap,
			Participant: p.Name(),
			Message:     fmt.Sprintf("[%s] %s (fuel %.2f)", out.Kind, out.Detail, v.Fuel()),
		})
	}

	state, changed := v.Recompute()
	if changed && state.Advisory() != "" {
		r.emit(Event{
			Kind:        KindCondition,
			Round:       lap,
			Participant: p.Name(),
			Message:     state.Advisory(),
		})
	}

	if out.Failed() {
		return
	}

	lapTime := r.model.Compute(p, v, r.model.Factor(r.src.Float64()))
	if !s.HasTime() || lapTime < s.BestTime {
		s.BestTime = lapTime
	}
	s.Rounds++

	r.emit(Event{
		Kind:        KindLap,
		Round:       lap,
		Participant: p.Name(),
		Message:     fmt.Sprintf("lap %d in %.3fs (best %.3fs)", s.Rounds, lapTime, s.BestTime),
		Lap: &LapTelemetry{
			Time:        lapTime,
			BestTime:    s.BestTime,
			Fuel:        v.Fuel(),
			FuelPercent: v.FuelPercent(),
			Condition:   state,
			Position:    s.Position,
			Rounds:      s.Rounds,
		},
	})
}

// markFinished flags standings that covered the full distance and reports
// whether every standing has, which ends the race early.
func (r *Race) markFinished() bool {
	all := true
	for _, s := range r.order {
		if s.Rounds >= r.rounds {
			s.Finished = true
		}
		if !s.Finished {
			all = false
		}
	}
	return all
}

// finish classifies every standing, including those that fell short of the
// distance after a failure or a stop, then scores the race.
func (r *Race) finish(stopped bool) {
	for _, s := range r.order {
		s.Finished = true
	}
	Order(r.order)

	if stopped {
		r.logger.Info("Race stopped", "race", r.name, "round", r.Round())
		r.emit(Event{Kind: KindRaceStopped, Round: r.Round(), Message: "Race stopped!"})
	}

	r.points = scoring.Score(r.order)
	r.state.Store(int32(Finished))

	r.logger.Info("Race finished", "race", r.name, "rounds", r.Round())
	r.emit(Event{Kind: KindRaceFinished, Round: r.Round(), Message: r.Results()})
}

func (r *Race) emit(e Event) {
	e.Race = r.name
	for _, sink := range r.sinks {
		sink.Notify(e)
	}
}

func configErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", core.ErrInvalidConfig, fmt.Sprintf(format, args...))
}
