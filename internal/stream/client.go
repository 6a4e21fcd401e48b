// Package stream publishes race events to a spectator server over a
// WebSocket.
package stream

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/gridwalk/racesim/internal/race"
	"github.com/gridwalk/racesim/pkg/streaming"
)

const defaultAckTimeout = 10 * time.Second

// Config holds the feed endpoint.
type Config struct {
	URL        string
	Secret     string
	AckTimeout time.Duration
}

// Client streams race events. race_started and race_finished wait for the
// server's ack; everything else is fire-and-forget.
type Client struct {
	conn *connection
	cfg  Config
}

func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.AckTimeout <= 0 {
		cfg.AckTimeout = defaultAckTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		conn: newConnection(logger.With("component", "stream")),
		cfg:  cfg,
	}
}

// Connect dials the server and starts the read and write loops.
func (c *Client) Connect() error {
	return c.conn.dial(c.cfg.URL, c.cfg.Secret)
}

func (c *Client) Close() error {
	return c.conn.close()
}

// Publish sends e to the server.
func (c *Client) Publish(e race.Event) error {
	msgType := string(e.Kind)
	data, err := marshalEnvelope(msgType, toPayload(e))
	if err != nil {
		return err
	}

	switch e.Kind {
	case race.KindRaceStarted:
		c.conn.mu.Lock()
		c.conn.cachedStartMsg = data
		c.conn.mu.Unlock()
	case race.KindRaceFinished:
		defer func() {
			c.conn.mu.Lock()
			c.conn.cachedStartMsg = nil
			c.conn.mu.Unlock()
		}()
	}

	if slices.Contains(streaming.AckedTypes, msgType) {
		return c.conn.sendAndWait(data, msgType, c.cfg.AckTimeout)
	}
	c.conn.send(data)
	return nil
}

func toPayload(e race.Event) streaming.EventPayload {
	p := streaming.EventPayload{
		Race:        e.Race,
		Round:       e.Round,
		Participant: e.Participant,
		Message:     e.Message,
		SentAt:      time.Now().UnixMilli(),
	}
	if e.Lap != nil {
		p.Lap = &streaming.LapTelemetry{
			Time:        e.Lap.Time,
			BestTime:    e.Lap.BestTime,
			Fuel:        e.Lap.Fuel,
			FuelPercent: e.Lap.FuelPercent,
			Condition:   e.Lap.Condition.String(),
			Position:    e.Lap.Position,
			Laps:        e.Lap.Rounds,
		}
	}
	return p
}

func marshalEnvelope(msgType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", msgType, err)
	}
	data, err := json.Marshal(streaming.Envelope{Type: msgType, Payload: raw})
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", msgType, err)
	}
	return data, nil
}
