package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/udisondev/herbfield/internal/model"
	"github.com/udisondev/herbfield/internal/scene"
	"github.com/udisondev/herbfield/internal/spawn"
)

const (
	sendQueueSize = 256
	writeTimeout  = 5 * time.Second
)

// Hub connects renderer clients to the herb field over websocket.
// Scene events are broadcast to every client; contact and gather events
// coming back are routed to the proximity tracker and harvest service.
type Hub struct {
	layer     *scene.Scene
	proximity *spawn.ProximityTracker
	harvest   *spawn.HarvestService
	upgrader  websocket.Upgrader

	// beforeSnapshot runs after a client is registered and before its
	// snapshot is taken. Tests use it to interleave a cycle.
	beforeSnapshot func()

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

// NewHub creates hub serving snapshots of layer. proximity and harvest may
// be nil to ignore those events.
func NewHub(layer *scene.Scene, proximity *spawn.ProximityTracker, harvest *spawn.HarvestService) *Hub {
	return &Hub{
		layer:     layer,
		proximity: proximity,
		harvest:   harvest,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[*client]struct{}),
	}
}

// HandleSceneEvent is a scene.Listener that forwards events to clients.
func (h *Hub) HandleSceneEvent(ev scene.Event) {
	msg, ok := eventMessage(ev)
	if !ok {
		return
	}
	h.broadcast(ev.Seq, msg)
}

// Broadcast sends msg to every connected client.
// Clients with a full send queue are dropped.
func (h *Hub) Broadcast(msg ServerMessage) {
	h.broadcast(0, msg)
}

func (h *Hub) broadcast(seq uint64, msg ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshaling bridge message", "type", msg.Type, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if !c.deliver(seq, data) {
			h.dropLocked(c)
		}
	}
}

// ClientCount returns number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects all clients and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		h.dropLocked(c)
	}
}

// ServeHTTP upgrades the request and serves one renderer client until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	c := newClient(conn)

	// registered first so no event after the snapshot is missed
	if !h.register(c) {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		conn.Close()
		return
	}

	if h.beforeSnapshot != nil {
		h.beforeSnapshot()
	}

	nodes, seq := h.layer.Snapshot()
	data, err := json.Marshal(snapshotMessage(nodes, seq))
	if err != nil {
		slog.Error("marshaling snapshot", "error", err)
		h.unregister(c)
		conn.Close()
		return
	}
	if !c.start(data, seq) {
		slog.Warn("renderer dropped before snapshot", "remote", r.RemoteAddr)
		h.unregister(c)
		conn.Close()
		return
	}

	slog.Info("renderer connected", "remote", r.RemoteAddr, "entities", len(nodes), "seq", seq)

	go c.writePump()
	h.readPump(r.Context(), c)

	h.unregister(c)
	slog.Info("renderer disconnected", "remote", r.RemoteAddr)
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(c)
}

func (h *Hub) dropLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	c.close()
}

func (h *Hub) readPump(ctx context.Context, c *client) {
	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("reading renderer message", "error", err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			slog.Debug("discarding malformed renderer message", "error", err)
			c.reply(ServerMessage{Type: TypeError, Message: "malformed message"})
			continue
		}

		if resp, ok := h.dispatch(ctx, msg); ok {
			c.reply(resp)
		}
	}
}

// dispatch applies one inbound message; returns a direct reply if any.
func (h *Hub) dispatch(ctx context.Context, msg ClientMessage) (ServerMessage, bool) {
	handle := model.EntityHandle(msg.Handle)

	switch msg.Type {
	case TypeEnter:
		if h.proximity == nil {
			return ServerMessage{}, false
		}
		if err := h.proximity.Enter(handle); err != nil {
			return errorMessage(fmt.Errorf("enter %s: %w", handle, err)), true
		}
		return ServerMessage{}, false

	case TypeExit:
		if h.proximity != nil {
			h.proximity.Exit(handle)
		}
		return ServerMessage{}, false

	case TypeHarvest:
		if h.harvest == nil {
			return errorMessage(errors.New("harvest is disabled")), true
		}
		rec, err := h.harvest.Harvest(ctx, spawn.HarvestOutcome{Handle: handle, PlayerID: msg.PlayerID})
		if err != nil {
			return errorMessage(err), true
		}
		inventory, err := h.harvest.Inventory(ctx, msg.PlayerID)
		if err != nil {
			// the gather is already recorded; reply without totals
			slog.Warn("loading inventory after harvest", "playerID", msg.PlayerID, "error", err)
		}
		return ServerMessage{
			Type:      TypeHarvested,
			Entity:    &EntityDTO{Handle: msg.Handle, Herb: rec.HerbID, X: rec.Position.X, Y: rec.Position.Y},
			Count:     rec.Count,
			Inventory: inventory,
		}, true

	default:
		return errorMessage(fmt.Errorf("unknown message type %q", msg.Type)), true
	}
}

func errorMessage(err error) ServerMessage {
	return ServerMessage{Type: TypeError, Message: err.Error()}
}
