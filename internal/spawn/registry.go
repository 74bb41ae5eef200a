package spawn

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/udisondev/herbfield/internal/model"
)

// EntityFactory creates and destroys visual objects for herbs.
// Implemented by the scene layer; Instantiate may hand off realization
// asynchronously but must return the handle immediately.
type EntityFactory interface {
	Instantiate(herb *model.HerbType, pos model.Position) (model.EntityHandle, error)
	Destroy(handle model.EntityHandle)
}

// ReleaseHook is called once for every entity leaving the registry.
type ReleaseHook func(entity *model.LiveEntity)

// Registry tracks live herbs and their committed positions.
//
// All state changes happen under one lock, so readers never see a
// half-cleared registry or a reservation whose instantiation failed.
// Released entities are destroyed and hooks run after the lock is dropped.
type Registry struct {
	factory EntityFactory

	mu       sync.RWMutex
	entities []*model.LiveEntity // insertion order
	byHandle map[model.EntityHandle]*model.LiveEntity
	hooks    []ReleaseHook
}

// NewRegistry creates registry bound to factory.
func NewRegistry(factory EntityFactory) *Registry {
	return &Registry{
		factory:  factory,
		byHandle: make(map[model.EntityHandle]*model.LiveEntity),
	}
}

// Factory returns the entity factory (nil if none configured)
func (r *Registry) Factory() EntityFactory {
	return r.factory
}

// OnRelease registers hook invoked for each released entity.
func (r *Registry) OnRelease(hook ReleaseHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, hook)
}

// Add reserves pos, asks the factory for a visual object and commits the entity.
// On factory failure the reservation is dropped and the error returned.
func (r *Registry) Add(herb *model.HerbType, pos model.Position) (*model.LiveEntity, error) {
	if r.factory == nil {
		return nil, configErrorf("factory", "registry has no entity factory")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	handle, err := r.factory.Instantiate(herb, pos)
	if err != nil {
		return nil, fmt.Errorf("instantiating herb %q at (%.1f, %.1f): %w", herb.ID(), pos.X, pos.Y, err)
	}
	if _, dup := r.byHandle[handle]; dup {
		r.factory.Destroy(handle)
		return nil, fmt.Errorf("instantiating herb %q: factory reused handle %s", herb.ID(), handle)
	}

	entity := model.NewLiveEntity(handle, herb, pos)
	r.entities = append(r.entities, entity)
	r.byHandle[handle] = entity

	return entity, nil
}

// ClearAll releases every entity and returns how many were released.
func (r *Registry) ClearAll() int {
	r.mu.Lock()
	released := r.entities
	hooks := slices.Clone(r.hooks)
	r.entities = nil
	r.byHandle = make(map[model.EntityHandle]*model.LiveEntity)
	r.mu.Unlock()

	for _, e := range released {
		r.release(e, hooks)
	}

	if len(released) > 0 {
		slog.Debug("registry cleared", "released", len(released))
	}
	return len(released)
}

// Remove releases a single entity (harvest path).
func (r *Registry) Remove(handle model.EntityHandle) (*model.LiveEntity, bool) {
	r.mu.Lock()
	e, ok := r.byHandle[handle]
	if !ok {
		r.mu.Unlock()
		return nil, false
	}
	delete(r.byHandle, handle)
	r.entities = slices.DeleteFunc(r.entities, func(x *model.LiveEntity) bool {
		return x.Handle() == handle
	})
	hooks := slices.Clone(r.hooks)
	r.mu.Unlock()

	r.release(e, hooks)
	return e, true
}

func (r *Registry) release(e *model.LiveEntity, hooks []ReleaseHook) {
	if r.factory != nil {
		r.factory.Destroy(e.Handle())
	}
	for _, h := range hooks {
		h(e)
	}
}

// Positions returns snapshot of committed positions
func (r *Registry) Positions() []model.Position {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Position, len(r.entities))
	for i, e := range r.entities {
		out[i] = e.Position()
	}
	return out
}

// Entities returns snapshot of live entities in spawn order
func (r *Registry) Entities() []*model.LiveEntity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.entities)
}

// Get returns live entity by handle
func (r *Registry) Get(handle model.EntityHandle) (*model.LiveEntity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byHandle[handle]
	return e, ok
}

// Len returns number of live entities
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entities)
}
