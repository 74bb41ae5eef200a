package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/herbfield/internal/model"
)

var licorice = model.NewHerbType("item_licorice", "Licorice", 50, "herbs/licorice")

func TestScene_InstantiateDestroy(t *testing.T) {
	s := New(0)

	var events []Event
	s.Subscribe(func(ev Event) { events = append(events, ev) })

	h1, err := s.Instantiate(licorice, model.Position{X: 1, Y: 2})
	require.NoError(t, err)
	h2, err := s.Instantiate(licorice, model.Position{X: 3, Y: 4})
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.GreaterOrEqual(t, uint32(h1), uint32(FirstHandle))
	assert.Equal(t, 2, s.HerbCount())

	children := s.Children()
	require.Len(t, children, 2)
	assert.True(t, children[0].IsHerb())
	assert.Equal(t, "item_licorice", children[0].HerbID)
	assert.Equal(t, "herbs/licorice", children[0].Icon)

	s.Destroy(h1)
	s.Destroy(h1) // unknown now, ignored
	s.Destroy(0)

	assert.Equal(t, 1, s.HerbCount())
	require.Len(t, events, 3)
	assert.Equal(t, EventSpawn, events[0].Kind)
	assert.Equal(t, EventSpawn, events[1].Kind)
	assert.Equal(t, EventDestroy, events[2].Kind)
	assert.Equal(t, h1, events[2].Node.Handle)
}

func TestScene_Capacity(t *testing.T) {
	s := New(2)

	_, err := s.Instantiate(licorice, model.Position{})
	require.NoError(t, err)
	h, err := s.Instantiate(licorice, model.Position{})
	require.NoError(t, err)

	_, err = s.Instantiate(licorice, model.Position{})
	assert.ErrorIs(t, err, ErrSceneFull)

	s.Destroy(h)
	_, err = s.Instantiate(licorice, model.Position{})
	assert.NoError(t, err, "capacity frees up after destroy")
}

func TestScene_BringToFront(t *testing.T) {
	s := New(0)
	require.NoError(t, s.AddNode("player", model.Position{}))
	assert.Error(t, s.AddNode("player", model.Position{}), "duplicate node name")

	for range 3 {
		_, err := s.Instantiate(licorice, model.Position{})
		require.NoError(t, err)
	}
	assert.Equal(t, 0, s.SiblingIndex("player"))

	var reorder Event
	s.Subscribe(func(ev Event) {
		if ev.Kind == EventReorder {
			reorder = ev
		}
	})

	require.NoError(t, s.BringToFront("player"))
	assert.Equal(t, 3, s.SiblingIndex("player"))
	assert.Equal(t, model.NodeID("player"), reorder.Node.Name)
	assert.Equal(t, 3, reorder.Index)

	assert.ErrorIs(t, s.BringToFront("ghost"), ErrNodeNotFound)
	assert.Equal(t, -1, s.SiblingIndex("ghost"))
	assert.Equal(t, -1, s.SiblingIndex(""))
}

func TestHandleGenerator(t *testing.T) {
	g := NewHandleGenerator()
	first := g.Next()
	assert.Equal(t, model.EntityHandle(FirstHandle), first)
	assert.Equal(t, first+1, g.Next())
}

func TestScene_SnapshotSeq(t *testing.T) {
	s := New(0)
	require.NoError(t, s.AddNode("player", model.Position{}))

	var events []Event
	s.Subscribe(func(ev Event) { events = append(events, ev) })

	nodes, seq := s.Snapshot()
	assert.Empty(t, nodes)
	assert.Zero(t, seq)

	h1, err := s.Instantiate(licorice, model.Position{X: 1})
	require.NoError(t, err)
	h2, err := s.Instantiate(licorice, model.Position{X: 2})
	require.NoError(t, err)
	require.NoError(t, s.BringToFront("player"))
	s.Destroy(h1)

	require.Len(t, events, 4)
	for i, ev := range events {
		assert.Equal(t, uint64(i+1), ev.Seq, "event %d", i)
	}

	nodes, seq = s.Snapshot()
	assert.Equal(t, events[len(events)-1].Seq, seq)
	require.Len(t, nodes, 1, "named nodes are not part of the snapshot")
	assert.Equal(t, h2, nodes[0].Handle)
}
