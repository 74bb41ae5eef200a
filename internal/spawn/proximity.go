package spawn

import (
	"sync"

	"github.com/udisondev/herbfield/internal/model"
)

// ProximityTracker remembers which herbs the player is currently touching.
// Fed by the renderer's contact events; purely informational for placement.
type ProximityTracker struct {
	registry *Registry

	mu      sync.RWMutex
	inRange map[model.EntityHandle]struct{}
}

// NewProximityTracker creates tracker and forgets entities as they leave registry.
func NewProximityTracker(registry *Registry) *ProximityTracker {
	t := &ProximityTracker{
		registry: registry,
		inRange:  make(map[model.EntityHandle]struct{}),
	}
	registry.OnRelease(func(e *model.LiveEntity) {
		t.Exit(e.Handle())
	})
	return t
}

// Enter marks handle as within interaction range.
//
// Membership is checked under t.mu. A release that races with Enter either
// removes the entity before the check, or its Exit hook waits for the lock
// and clears the mark afterwards.
func (t *ProximityTracker) Enter(handle model.EntityHandle) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.registry.Get(handle); !ok {
		return ErrUnknownEntity
	}
	t.inRange[handle] = struct{}{}
	return nil
}

// Exit clears the in-range mark. Unknown handles are ignored.
func (t *ProximityTracker) Exit(handle model.EntityHandle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.inRange, handle)
}

// InRange reports whether handle is within interaction range
func (t *ProximityTracker) InRange(handle model.EntityHandle) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.inRange[handle]
	return ok
}

// Count returns number of herbs in range
func (t *ProximityTracker) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.inRange)
}
