package race

import (
	"fmt"

	"github.com/gridwalk/racesim/pkg/core"
)

// EventKind identifies the kind of a race event.
type EventKind string

const (
	KindRaceStarted  EventKind = "race_started"
	KindRoundStarted EventKind = "round_started"
	KindLap          EventKind = "lap"
	KindAdvisory     EventKind = "advisory"
	KindCondition    EventKind = "condition"
	KindRaceStopped  EventKind = "race_stopped"
	KindRaceFinished EventKind = "race_finished"
)

// Kinds lists every event kind in lifecycle order.
var Kinds = []EventKind{
	KindRaceStarted,
	KindRoundStarted,
	KindLap,
	KindAdvisory,
	KindCondition,
	KindRaceStopped,
	KindRaceFinished,
}

// LapTelemetry carries the readings behind a lap event.
type LapTelemetry struct {
	Time        float64
	BestTime    float64
	Fuel        float64
	FuelPercent float64
	Condition   core.ConditionState
	Position    int
	Rounds      int
}

// Event is a textual race event. Message is the human-readable text; the
// other fields let sinks route and aggregate without parsing it.
type Event struct {
	Kind        EventKind
	Race        string
	Round       int
	Participant string
	Message     string
	Lap         *LapTelemetry
}

func (e Event) String() string {
	if e.Participant != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Participant, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// EventSink receives race events synchronously. Notify must return promptly.
type EventSink interface {
	Notify(e Event)
}

// SinkFunc adapts a function to EventSink.
type SinkFunc func(Event)

func (f SinkFunc) Notify(e Event) { f(e) }
