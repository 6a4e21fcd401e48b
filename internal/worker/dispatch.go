package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/gridwalk/racesim/internal/dispatcher"
	"github.com/gridwalk/racesim/internal/influx"
	"github.com/gridwalk/racesim/internal/race"
)

// RegisterHandlers registers one handler per race event kind.
func (m *Manager) RegisterHandlers(d *dispatcher.Dispatcher) {
	// Lap telemetry is the high-volume stream - buffered
	d.Register(string(race.KindLap), m.handleLap, dispatcher.Buffered(1000), dispatcher.Logged())

	// Warnings - buffered
	d.Register(string(race.KindAdvisory), m.handleWarning, dispatcher.Buffered(100), dispatcher.Logged())
	d.Register(string(race.KindCondition), m.handleWarning, dispatcher.Buffered(100), dispatcher.Logged())

	// Lifecycle - sync so the feed sees start and finish in order
	for _, kind := range []race.EventKind{
		race.KindRaceStarted,
		race.KindRoundStarted,
		race.KindRaceStopped,
		race.KindRaceFinished,
	} {
		d.Register(string(kind), m.handleLifecycle, dispatcher.Logged())
	}
}

func (m *Manager) handleLap(e dispatcher.Event) (any, error) {
	ev, err := eventOf(e.Payload)
	if err != nil {
		return nil, err
	}

	var errs []error
	if m.deps.Points != nil {
		if point, ok := influx.LapPoint(ev, pointTime(e.Timestamp)); ok {
			if err := m.deps.Points.WritePoint(context.Background(), m.deps.LapBucket, point); err != nil {
				errs = append(errs, fmt.Errorf("write lap point: %w", err))
			}
		}
	}
	errs = append(errs, m.publish(ev))
	return nil, errors.Join(errs...)
}

func (m *Manager) handleWarning(e dispatcher.Event) (any, error) {
	ev, err := eventOf(e.Payload)
	if err != nil {
		return nil, err
	}
	m.deps.Logger.Warn(ev.Message, "kind", ev.Kind, "participant", ev.Participant, "round", ev.Round)
	return nil, errors.Join(m.writeEvent(ev, e), m.publish(ev))
}

func (m *Manager) handleLifecycle(e dispatcher.Event) (any, error) {
	ev, err := eventOf(e.Payload)
	if err != nil {
		return nil, err
	}
	if ev.Kind != race.KindRoundStarted {
		m.deps.Logger.Info("Race lifecycle", "kind", ev.Kind, "race", ev.Race, "round", ev.Round)
	}
	return nil, errors.Join(m.writeEvent(ev, e), m.publish(ev))
}

func (m *Manager) writeEvent(ev race.Event, e dispatcher.Event) error {
	if m.deps.Points == nil {
		return nil
	}
	point := influx.EventPoint(ev, pointTime(e.Timestamp))
	if err := m.deps.Points.WritePoint(context.Background(), m.deps.EventBucket, point); err != nil {
		return fmt.Errorf("write event point: %w", err)
	}
	return nil
}

func (m *Manager) publish(ev race.Event) error {
	if m.deps.Feed == nil {
		return nil
	}
	if err := m.deps.Feed.Publish(ev); err != nil {
		return fmt.Errorf("publish %s: %w", ev.Kind, err)
	}
	return nil
}
