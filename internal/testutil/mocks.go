package testutil

import (
	"errors"
	"sync"

	"github.com/udisondev/herbfield/internal/model"
)

// ErrFactoryRefused is returned by FakeFactory for injected failures.
var ErrFactoryRefused = errors.New("factory refused")

// FakeFactory is an in-memory EntityFactory for unit tests.
// Not for production use.
type FakeFactory struct {
	mu        sync.Mutex
	next      model.EntityHandle
	live      map[model.EntityHandle]model.Position
	destroyed []model.EntityHandle
	calls     int
	failOn    map[int]bool // 1-based Instantiate call numbers that fail
}

// NewFakeFactory creates fake factory. failOn lists Instantiate calls (1-based) to fail.
func NewFakeFactory(failOn ...int) *FakeFactory {
	f := &FakeFactory{
		next:   100,
		live:   make(map[model.EntityHandle]model.Position),
		failOn: make(map[int]bool, len(failOn)),
	}
	for _, n := range failOn {
		f.failOn[n] = true
	}
	return f
}

// Instantiate implements EntityFactory.
func (f *FakeFactory) Instantiate(_ *model.HerbType, pos model.Position) (model.EntityHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.failOn[f.calls] {
		return 0, ErrFactoryRefused
	}

	f.next++
	f.live[f.next] = pos
	return f.next, nil
}

// Destroy implements EntityFactory.
func (f *FakeFactory) Destroy(handle model.EntityHandle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.live, handle)
	f.destroyed = append(f.destroyed, handle)
}

// LiveCount returns number of instantiated, not yet destroyed objects
func (f *FakeFactory) LiveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.live)
}

// Destroyed returns handles passed to Destroy, in call order
func (f *FakeFactory) Destroyed() []model.EntityHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.EntityHandle, len(f.destroyed))
	copy(out, f.destroyed)
	return out
}

// Calls returns number of Instantiate calls
func (f *FakeFactory) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
