// Package sink provides race event sinks: console logging, an in-memory
// transcript, per-kind counters and a bridge into the dispatcher.
package sink

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/gridwalk/racesim/internal/dispatcher"
	"github.com/gridwalk/racesim/internal/queue"
	"github.com/gridwalk/racesim/internal/race"
	"github.com/gridwalk/racesim/internal/util"
)

// Log writes every event to a logger. Warnings go out at Warn level.
type Log struct {
	logger *slog.Logger
}

func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Notify(e race.Event) {
	switch e.Kind {
	case race.KindAdvisory, race.KindCondition:
		l.logger.Warn("[WARNING] "+e.Participant+": "+e.Message, "kind", e.Kind)
	case race.KindLap:
		attrs := []any{"kind", e.Kind, "participant", e.Participant}
		if e.Lap != nil {
			attrs = append(attrs,
				"time", util.FormatLapTime(e.Lap.Time),
				"best", util.FormatLapTime(e.Lap.BestTime),
				"gap", util.FormatGap(e.Lap.Time, e.Lap.BestTime),
				"fuel", util.Bar(e.Lap.FuelPercent, 10),
			)
		}
		l.logger.Debug(e.Message, attrs...)
	default:
		l.logger.Info(e.Message, "kind", e.Kind)
	}
}

// Recorder keeps the text of every event in arrival order.
type Recorder struct {
	lines *queue.Queue[string]
}

func NewRecorder() *Recorder {
	return &Recorder{lines: queue.New[string]()}
}

func (r *Recorder) Notify(e race.Event) {
	r.lines.Push(e.String())
}

// Lines returns a copy of the recorded lines.
func (r *Recorder) Lines() []string {
	return r.lines.Items()
}

// Text joins the recorded lines, one per line.
func (r *Recorder) Text() string {
	lines := r.lines.Items()
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// Counter counts events overall and per kind.
type Counter struct {
	mu     sync.Mutex
	total  int
	byKind map[race.EventKind]int
}

func NewCounter() *Counter {
	return &Counter{byKind: make(map[race.EventKind]int)}
}

func (c *Counter) Notify(e race.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.total++
	c.byKind[e.Kind]++
}

func (c *Counter) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

func (c *Counter) Count(kind race.EventKind) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.byKind[kind]
}

// Snapshot returns a copy of the per-kind counts.
func (c *Counter) Snapshot() map[race.EventKind]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[race.EventKind]int, len(c.byKind))
	for k, v := range c.byKind {
		out[k] = v
	}
	return out
}

// Router is the part of the dispatcher the Dispatch sink needs.
type Router interface {
	Dispatch(dispatcher.Event) (any, error)
	HasHandler(kind string) bool
}

// Dispatch forwards events to a dispatcher by kind. Kinds without a
// handler are skipped; dispatch errors are logged and never reach the race.
type Dispatch struct {
	router Router
	logger *slog.Logger
}

func NewDispatch(router Router, logger *slog.Logger) *Dispatch {
	return &Dispatch{router: router, logger: logger}
}

func (d *Dispatch) Notify(e race.Event) {
	kind := string(e.Kind)
	if !d.router.HasHandler(kind) {
		return
	}
	if _, err := d.router.Dispatch(dispatcher.Event{Kind: kind, Payload: e}); err != nil {
		d.logger.Warn("event not dispatched", "kind", kind, "error", err)
	}
}
