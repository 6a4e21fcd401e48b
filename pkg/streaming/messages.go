// Package streaming defines the live race feed wire format: every message is
// an Envelope whose type names a race event kind.
package streaming

import "encoding/json"

// Message types, one per race event kind.
const (
	TypeRaceStarted  = "race_started"
	TypeRoundStarted = "round_started"
	TypeLap          = "lap"
	TypeAdvisory     = "advisory"
	TypeCondition    = "condition"
	TypeRaceStopped  = "race_stopped"
	TypeRaceFinished = "race_finished"
)

// AckedTypes are the message types the server acknowledges.
var AckedTypes = []string{TypeRaceStarted, TypeRaceFinished}

// Envelope wraps all messages sent over the WebSocket.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// AckMessage is the server's acknowledgement response.
type AckMessage struct {
	Type string `json:"type"` // always "ack"
	For  string `json:"for"`  // the message type being acknowledged
}

// EventPayload is the body of every feed message.
type EventPayload struct {
	Race        string        `json:"race"`
	Round       int           `json:"round"`
	Participant string        `json:"participant,omitempty"`
	Message     string        `json:"message"`
	Lap         *LapTelemetry `json:"lap,omitempty"`
	SentAt      int64         `json:"sentAt"` // unix milliseconds
}

// LapTelemetry carries the readings behind a lap message.
type LapTelemetry struct {
	Time        float64 `json:"time"`
	BestTime    float64 `json:"bestTime"`
	Fuel        float64 `json:"fuel"`
	FuelPercent float64 `json:"fuelPercent"`
	Condition   string  `json:"condition"`
	Position    int     `json:"position"`
	Laps        int     `json:"laps"`
}
