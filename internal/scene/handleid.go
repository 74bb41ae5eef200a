package scene

import (
	"sync/atomic"

	"github.com/udisondev/herbfield/internal/model"
)

// FirstHandle is the lowest handle ever issued. Zero stays invalid.
const FirstHandle = 0x20000000

// HandleGenerator issues unique entity handles.
// Thread-safe via atomic increment.
type HandleGenerator struct {
	next atomic.Uint32
}

// NewHandleGenerator creates generator starting right after FirstHandle-1.
func NewHandleGenerator() *HandleGenerator {
	g := &HandleGenerator{}
	g.next.Store(FirstHandle - 1)
	return g
}

// Next returns a fresh handle
func (g *HandleGenerator) Next() model.EntityHandle {
	return model.EntityHandle(g.next.Add(1))
}
