package model

import "fmt"

// EntityHandle identifies a visual object owned by the scene layer.
// The spawn core never dereferences it; zero is never a valid handle.
type EntityHandle uint32

// String returns handle in hex form, as it appears in logs.
func (h EntityHandle) String() string {
	return fmt.Sprintf("0x%08x", uint32(h))
}

// NodeID names a non-herb scene node (e.g. the player sprite).
type NodeID string

// LiveEntity is one placed herb: its scene handle, type and committed position.
type LiveEntity struct {
	handle   EntityHandle
	herb     *HerbType
	position Position
}

// NewLiveEntity creates LiveEntity record.
func NewLiveEntity(handle EntityHandle, herb *HerbType, position Position) *LiveEntity {
	return &LiveEntity{
		handle:   handle,
		herb:     herb,
		position: position,
	}
}

// Handle returns scene handle
func (e *LiveEntity) Handle() EntityHandle {
	return e.handle
}

// TypeID returns herb type identifier
func (e *LiveEntity) TypeID() string {
	return e.herb.ID()
}

// Herb returns herb definition
func (e *LiveEntity) Herb() *HerbType {
	return e.herb
}

// Position returns committed position
func (e *LiveEntity) Position() Position {
	return e.position
}
