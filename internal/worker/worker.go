// Package worker registers the dispatcher handlers that carry race events
// to their destinations: the log, InfluxDB and the live feed.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/gridwalk/racesim/internal/race"
)

// ErrBadPayload is returned when a dispatched event does not carry a race.Event.
var ErrBadPayload = errors.New("payload is not a race event")

// PointWriter accepts telemetry points; *influx.Manager implements it.
type PointWriter interface {
	WritePoint(ctx context.Context, bucket string, point *influxdb2_write.Point) error
}

// Publisher forwards events to spectators; *stream.Client implements it.
type Publisher interface {
	Publish(e race.Event) error
}

// Dependencies holds the destinations. Nil destinations are skipped.
type Dependencies struct {
	Logger      *slog.Logger
	Points      PointWriter
	LapBucket   string
	EventBucket string
	Feed        Publisher
}

// Manager turns dispatched race events into writes.
type Manager struct {
	deps Dependencies
}

func NewManager(deps Dependencies) *Manager {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Manager{deps: deps}
}

func eventOf(e any) (race.Event, error) {
	ev, ok := e.(race.Event)
	if !ok {
		return race.Event{}, fmt.Errorf("%w: %T", ErrBadPayload, e)
	}
	return ev, nil
}

func pointTime(ts time.Time) time.Time {
	if ts.IsZero() {
		return time.Now()
	}
	return ts
}
