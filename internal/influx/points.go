package influx

import (
	"time"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/gridwalk/racesim/internal/race"
)

// LapPoint builds the lap measurement from a lap event. ok is false for
// events that carry no telemetry.
func LapPoint(e race.Event, ts time.Time) (point *influxdb2_write.Point, ok bool) {
	if e.Kind != race.KindLap || e.Lap == nil {
		return nil, false
	}
	point = influxdb2_write.NewPoint(
		"lap",
		map[string]string{
			"race":        e.Race,
			"participant": e.Participant,
			"condition":   e.Lap.Condition.String(),
		},
		map[string]any{
			"round":     e.Round,
			"lap":       e.Lap.Rounds,
			"lap_time":  e.Lap.Time,
			"best_time": e.Lap.BestTime,
			"fuel":      e.Lap.Fuel,
			"fuel_pct":  e.Lap.FuelPercent,
			"position":  e.Lap.Position,
		},
		ts,
	)
	return point, true
}

// EventPoint records any non-lap event as a race_event annotation.
func EventPoint(e race.Event, ts time.Time) *influxdb2_write.Point {
	tags := map[string]string{
		"race": e.Race,
		"kind": string(e.Kind),
	}
	if e.Participant != "" {
		tags["participant"] = e.Participant
	}
	return influxdb2_write.NewPoint(
		"race_event",
		tags,
		map[string]any{
			"round":   e.Round,
			"message": e.Message,
		},
		ts,
	)
}
