package scene

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/udisondev/herbfield/internal/model"
)

var (
	// ErrSceneFull is returned by Instantiate when the herb capacity is reached.
	ErrSceneFull = errors.New("scene layer is full")

	// ErrNodeNotFound is returned for an unknown named node.
	ErrNodeNotFound = errors.New("scene node not found")
)

// Node is one child of the layer. Named nodes (player, decorations) have a
// Name and zero Handle; herb nodes have a Handle and herb data.
type Node struct {
	Name     model.NodeID
	Handle   model.EntityHandle
	HerbID   string
	Icon     string
	Position model.Position
}

// IsHerb reports whether node was created by Instantiate
func (n Node) IsHerb() bool {
	return n.Handle != 0
}

// EventKind enumerates scene changes.
type EventKind uint8

const (
	EventSpawn EventKind = iota + 1
	EventDestroy
	EventReorder
)

// Event describes a change to the layer.
// Seq increases by one with every change; Snapshot reports the Seq it reflects.
type Event struct {
	Seq   uint64
	Kind  EventKind
	Node  Node // spawned/destroyed/raised node
	Index int  // new sibling index for EventReorder
}

// Listener receives scene events after the change is applied.
// Must not call back into the Scene.
type Listener func(Event)

// Scene is a single drawing layer with ordered children.
// The last child is drawn on top. Implements spawn.EntityFactory and
// spawn.SceneOrderer.
type Scene struct {
	handles  *HandleGenerator
	maxHerbs int

	mu        sync.RWMutex
	children  []Node
	herbCount int
	seq       uint64
	listeners []Listener
}

// New creates an empty layer. maxHerbs <= 0 means unlimited.
func New(maxHerbs int) *Scene {
	return &Scene{
		handles:  NewHandleGenerator(),
		maxHerbs: maxHerbs,
	}
}

// Subscribe registers listener for scene events.
func (s *Scene) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// AddNode appends a named node on top of the layer.
func (s *Scene) AddNode(name model.NodeID, pos model.Position) error {
	s.mu.Lock()
	if s.indexOf(name) >= 0 {
		s.mu.Unlock()
		return fmt.Errorf("adding node %q: already exists", name)
	}
	s.children = append(s.children, Node{Name: name, Position: pos})
	s.mu.Unlock()
	return nil
}

// Instantiate creates a herb node on top of the layer.
func (s *Scene) Instantiate(herb *model.HerbType, pos model.Position) (model.EntityHandle, error) {
	s.mu.Lock()
	if s.maxHerbs > 0 && s.herbCount >= s.maxHerbs {
		s.mu.Unlock()
		return 0, fmt.Errorf("instantiating %q: %w (%d herbs)", herb.ID(), ErrSceneFull, s.maxHerbs)
	}

	node := Node{
		Handle:   s.handles.Next(),
		HerbID:   herb.ID(),
		Icon:     herb.Icon(),
		Position: pos,
	}
	s.children = append(s.children, node)
	s.herbCount++
	s.seq++
	ev := Event{Seq: s.seq, Kind: EventSpawn, Node: node, Index: -1}
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	notify(listeners, ev)
	return node.Handle, nil
}

// Destroy removes herb node. Unknown handles are ignored.
func (s *Scene) Destroy(handle model.EntityHandle) {
	s.mu.Lock()
	i := slices.IndexFunc(s.children, func(n Node) bool { return n.Handle == handle })
	if i < 0 || handle == 0 {
		s.mu.Unlock()
		return
	}
	node := s.children[i]
	s.children = slices.Delete(s.children, i, i+1)
	s.herbCount--
	s.seq++
	ev := Event{Seq: s.seq, Kind: EventDestroy, Node: node, Index: -1}
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	notify(listeners, ev)
}

// BringToFront moves named node to the topmost draw order.
func (s *Scene) BringToFront(name model.NodeID) error {
	s.mu.Lock()
	i := s.indexOf(name)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("bringing %q to front: %w", name, ErrNodeNotFound)
	}
	node := s.children[i]
	s.children = append(slices.Delete(s.children, i, i+1), node)
	s.seq++
	ev := Event{Seq: s.seq, Kind: EventReorder, Node: node, Index: len(s.children) - 1}
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	notify(listeners, ev)
	return nil
}

// Children returns copy of children in draw order (last is topmost)
func (s *Scene) Children() []Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.children)
}

// Snapshot returns herb nodes in draw order and the Seq of the last change they include.
// Events with Seq at or below it are already reflected in the nodes.
func (s *Scene) Snapshot() ([]Node, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	herbs := make([]Node, 0, s.herbCount)
	for _, n := range s.children {
		if n.IsHerb() {
			herbs = append(herbs, n)
		}
	}
	return herbs, s.seq
}

// SiblingIndex returns draw index of named node, -1 if absent
func (s *Scene) SiblingIndex(name model.NodeID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(name)
}

// HerbCount returns number of herb nodes
func (s *Scene) HerbCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.herbCount
}

func (s *Scene) indexOf(name model.NodeID) int {
	if name == "" {
		return -1
	}
	return slices.IndexFunc(s.children, func(n Node) bool { return n.Name == name })
}

func notify(listeners []Listener, ev Event) {
	for _, l := range listeners {
		l(ev)
	}
}
