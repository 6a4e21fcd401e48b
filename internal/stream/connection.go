package stream

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"

	"github.com/gridwalk/racesim/internal/queue"
	"github.com/gridwalk/racesim/pkg/streaming"
)

const (
	sendChSize   = 4096
	ackChSize    = 16
	backlogLimit = 4096
	maxReconnect = 10
	maxBackoff   = 30 * time.Second
	writeWait    = 10 * time.Second
)

// connection owns one WebSocket. A single write goroutine serializes
// writes; messages produced while disconnected wait in a bounded backlog.
type connection struct {
	mu     sync.Mutex
	conn   *ws.Conn
	sendCh chan []byte
	ackCh  chan streaming.AckMessage
	done   chan struct{}
	closed bool

	wsURL  string
	secret string

	// race_started is replayed after a reconnect so the server can resume
	// the right race.
	cachedStartMsg []byte
	backlog        *queue.Queue[[]byte]

	initialBackoff time.Duration
	logger         *slog.Logger
}

func newConnection(logger *slog.Logger) *connection {
	return &connection{
		sendCh:         make(chan []byte, sendChSize),
		ackCh:          make(chan streaming.AckMessage, ackChSize),
		done:           make(chan struct{}),
		backlog:        queue.NewBounded[[]byte](backlogLimit),
		initialBackoff: time.Second,
		logger:         logger,
	}
}

func (c *connection) dial(rawURL, secret string) error {
	c.wsURL = rawURL
	c.secret = secret

	conn, err := c.dialOnce()
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	go c.writeLoop()
	go c.readLoop(conn)
	return nil
}

func (c *connection) dialOnce() (*ws.Conn, error) {
	u, err := url.Parse(c.wsURL)
	if err != nil {
		return nil, fmt.Errorf("invalid websocket URL: %w", err)
	}
	if c.secret != "" {
		q := u.Query()
		q.Set("secret", c.secret)
		u.RawQuery = q.Encode()
	}

	conn, _, err := ws.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("websocket dial failed: %w", err)
	}
	return conn, nil
}

func (c *connection) current() *ws.Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn
}

func (c *connection) write(conn *ws.Conn, data []byte) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteMessage(ws.TextMessage, data)
}

// writeLoop drains sendCh. It exits on shutdown or on a write error, in
// which case it hands over to reconnect.
func (c *connection) writeLoop() {
	for {
		select {
		case <-c.done:
			return
		case data := <-c.sendCh:
			conn := c.current()
			if conn == nil {
				c.backlog.Push(data)
				continue
			}
			if err := c.write(conn, data); err != nil {
				c.logger.Warn("WebSocket write error", "error", err)
				c.backlog.Push(data)
				go c.reconnect(conn)
				return
			}
		}
	}
}

// readLoop routes acks to ackCh until conn fails.
func (c *connection) readLoop(conn *ws.Conn) {
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
				return
			default:
			}
			c.logger.Warn("WebSocket read error", "error", err)
			go c.reconnect(conn)
			return
		}

		var ack streaming.AckMessage
		if err := json.Unmarshal(message, &ack); err != nil || ack.Type != "ack" {
			c.logger.Debug("Non-ack message received", "raw", string(message))
			continue
		}
		select {
		case c.ackCh <- ack:
		default:
			c.logger.Debug("Ack channel full, dropping", "for", ack.For)
		}
	}
}

// reconnect replaces broken with a fresh connection using exponential
// backoff, replays race_started and the backlog, then restarts the loops.
// Only the first caller for a given broken connection does the work.
func (c *connection) reconnect(broken *ws.Conn) {
	c.mu.Lock()
	if c.closed || c.conn != broken {
		c.mu.Unlock()
		return
	}
	_ = broken.Close()
	c.conn = nil
	c.mu.Unlock()

	// Keep accepting sends into the backlog while redialing.
	stopBuffering := make(chan struct{})
	go c.bufferWhileDown(stopBuffering)

	backoff := c.initialBackoff
	for attempt := 1; attempt <= maxReconnect; attempt++ {
		select {
		case <-c.done:
			close(stopBuffering)
			return
		case <-time.After(backoff):
		}

		c.logger.Info("Reconnecting to WebSocket", "attempt", attempt, "backoff", backoff)
		conn, err := c.dialOnce()
		if err != nil {
			c.logger.Warn("Reconnect dial failed", "attempt", attempt, "error", err)
			backoff = min(backoff*2, maxBackoff)
			continue
		}

		close(stopBuffering)
		if err := c.replay(conn); err != nil {
			c.logger.Warn("Replay after reconnect failed", "error", err)
			_ = conn.Close()
			stopBuffering = make(chan struct{})
			go c.bufferWhileDown(stopBuffering)
			continue
		}

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			_ = conn.Close()
			return
		}
		c.conn = conn
		c.mu.Unlock()

		c.logger.Info("WebSocket reconnected", "attempt", attempt)
		go c.writeLoop()
		go c.readLoop(conn)
		return
	}

	close(stopBuffering)
	c.logger.Error("WebSocket reconnect failed after max attempts", "maxAttempts", maxReconnect)
}

func (c *connection) bufferWhileDown(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-c.done:
			return
		case data := <-c.sendCh:
			c.backlog.Push(data)
		}
	}
}

func (c *connection) replay(conn *ws.Conn) error {
	c.mu.Lock()
	cached := c.cachedStartMsg
	c.mu.Unlock()

	if cached != nil {
		if err := c.write(conn, cached); err != nil {
			return fmt.Errorf("replay race_started: %w", err)
		}
	}
	for _, data := range c.backlog.GetAndEmpty() {
		if err := c.write(conn, data); err != nil {
			return fmt.Errorf("flush backlog: %w", err)
		}
	}
	return nil
}

// send is non-blocking; it drops the message when the channel is full.
func (c *connection) send(data []byte) {
	select {
	case c.sendCh <- data:
	default:
		c.logger.Warn("WebSocket send channel full, dropping message")
	}
}

// sendAndWait sends data and blocks until the server acknowledges it or the
// timeout expires.
func (c *connection) sendAndWait(data []byte, ackFor string, timeout time.Duration) error {
	c.send(data)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case ack := <-c.ackCh:
			if ack.For == ackFor {
				return nil
			}
		case <-timer.C:
			return fmt.Errorf("timeout waiting for ack of %q", ackFor)
		case <-c.done:
			return fmt.Errorf("connection closed while waiting for ack of %q", ackFor)
		}
	}
}

// close sends a close frame and stops all goroutines.
func (c *connection) close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	close(c.done)
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn == nil {
		return nil
	}
	_ = conn.WriteControl(
		ws.CloseMessage,
		ws.FormatCloseMessage(ws.CloseNormalClosure, ""),
		time.Now().Add(writeWait),
	)
	return conn.Close()
}
