package bridge

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// client wraps one websocket connection with a buffered outbox.
//
// A new client is pending: broadcasts are held in backlog until start sends
// the snapshot. From then on scene events at or below the snapshot Seq are
// dropped as already reflected in it.
type client struct {
	conn *websocket.Conn
	send chan []byte

	mu      sync.Mutex
	closed  bool
	pending bool
	backlog []queued
	since   uint64
}

// queued is a broadcast held while the client waits for its snapshot.
// seq 0 marks messages that are not scene events.
type queued struct {
	seq  uint64
	data []byte
}

func newClient(conn *websocket.Conn) *client {
	return &client{
		conn:    conn,
		send:    make(chan []byte, sendQueueSize),
		pending: true,
	}
}

// deliver queues data without blocking; false if the outbox is full.
func (c *client) deliver(seq uint64, data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	if c.pending {
		if len(c.backlog) >= sendQueueSize {
			return false
		}
		c.backlog = append(c.backlog, queued{seq: seq, data: data})
		return true
	}
	if seq != 0 && seq <= c.since {
		return true
	}
	return c.push(data)
}

// start sends the snapshot taken at seq and flushes the newer backlog.
func (c *client) start(snapshot []byte, seq uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}

	c.pending = false
	c.since = seq
	backlog := c.backlog
	c.backlog = nil

	if !c.push(snapshot) {
		return false
	}
	for _, q := range backlog {
		if q.seq != 0 && q.seq <= seq {
			continue
		}
		if !c.push(q.data) {
			return false
		}
	}
	return true
}

// push must be called with c.mu held.
func (c *client) push(data []byte) bool {
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *client) reply(msg ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshaling reply", "type", msg.Type, "error", err)
		return
	}
	if !c.deliver(0, data) {
		slog.Warn("renderer outbox full, reply dropped", "type", msg.Type)
	}
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			slog.Debug("writing renderer message", "error", err)
			return
		}
	}

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
