package bridge

import (
	"github.com/udisondev/herbfield/internal/scene"
)

// Outbound message types (server → renderer).
const (
	TypeSnapshot  = "snapshot"
	TypeSpawn     = "spawn"
	TypeDespawn   = "despawn"
	TypeReorder   = "reorder"
	TypeHarvested = "harvested"
	TypeError     = "error"
)

// Inbound message types (renderer → server).
const (
	TypeEnter   = "enter"
	TypeExit    = "exit"
	TypeHarvest = "harvest"
)

// EntityDTO is the wire form of one herb.
type EntityDTO struct {
	Handle uint32  `json:"handle"`
	Herb   string  `json:"herb"`
	Icon   string  `json:"icon,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// ServerMessage is sent to renderer clients.
// A snapshot replaces the renderer's whole herb set; Seq orders it against
// scene events, and events at or below the snapshot Seq are never sent after it.
type ServerMessage struct {
	Type      string         `json:"type"`
	Seq       uint64         `json:"seq,omitempty"`
	Entity    *EntityDTO     `json:"entity,omitempty"`
	Entities  []EntityDTO    `json:"entities,omitempty"`
	Node      string         `json:"node,omitempty"`
	Index     int            `json:"index,omitempty"`
	Count     int            `json:"count,omitempty"`
	Inventory map[string]int `json:"inventory,omitempty"`
	Message   string         `json:"message,omitempty"`
}

// ClientMessage is received from renderer clients.
type ClientMessage struct {
	Type     string `json:"type"`
	Handle   uint32 `json:"handle"`
	PlayerID string `json:"player_id,omitempty"`
}

func nodeDTO(n scene.Node) *EntityDTO {
	return &EntityDTO{
		Handle: uint32(n.Handle),
		Herb:   n.HerbID,
		Icon:   n.Icon,
		X:      n.Position.X,
		Y:      n.Position.Y,
	}
}

func snapshotMessage(nodes []scene.Node, seq uint64) ServerMessage {
	msg := ServerMessage{Type: TypeSnapshot, Seq: seq, Entities: make([]EntityDTO, 0, len(nodes))}
	for _, n := range nodes {
		msg.Entities = append(msg.Entities, *nodeDTO(n))
	}
	return msg
}

// eventMessage converts a scene event to its wire form.
func eventMessage(ev scene.Event) (ServerMessage, bool) {
	switch ev.Kind {
	case scene.EventSpawn:
		return ServerMessage{Type: TypeSpawn, Seq: ev.Seq, Entity: nodeDTO(ev.Node)}, true
	case scene.EventDestroy:
		return ServerMessage{Type: TypeDespawn, Seq: ev.Seq, Entity: nodeDTO(ev.Node)}, true
	case scene.EventReorder:
		return ServerMessage{Type: TypeReorder, Seq: ev.Seq, Node: string(ev.Node.Name), Index: ev.Index}, true
	default:
		return ServerMessage{}, false
	}
}
