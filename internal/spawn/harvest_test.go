package spawn

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/herbfield/internal/model"
	"github.com/udisondev/herbfield/internal/testutil"
)

// mockRecorder collects harvest records; optionally fails or blocks.
type mockRecorder struct {
	mu      sync.Mutex
	records []HarvestRecord
	err     error
	block   chan struct{} // if set, Record waits until closed
	entered chan struct{}
}

func (r *mockRecorder) Record(ctx context.Context, rec HarvestRecord) error {
	if r.entered != nil {
		r.entered <- struct{}{}
	}
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.records = append(r.records, rec)
	return nil
}

func (r *mockRecorder) Records() []HarvestRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]HarvestRecord(nil), r.records...)
}

func (r *mockRecorder) Totals(_ context.Context, playerID string) (map[string]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	totals := make(map[string]int)
	for _, rec := range r.records {
		if rec.PlayerID == playerID {
			totals[rec.HerbID] += rec.Count
		}
	}
	return totals, nil
}

func addHerb(t *testing.T, reg *Registry, id string, pos model.Position) *model.LiveEntity {
	t.Helper()
	e, err := reg.Add(model.NewHerbType(id, id, 1, ""), pos)
	require.NoError(t, err)
	return e
}

func TestHarvestService_Harvest(t *testing.T) {
	factory := testutil.NewFakeFactory()
	reg := NewRegistry(factory)
	recorder := &mockRecorder{}
	svc := NewHarvestService(reg, recorder, nil)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	herb := addHerb(t, reg, "item_licorice", model.Position{X: 10, Y: -20})
	other := addHerb(t, reg, "item_ginseng", model.Position{X: 300})

	rec, err := svc.Harvest(context.Background(), HarvestOutcome{Handle: herb.Handle(), PlayerID: "p1"})
	require.NoError(t, err)

	want := HarvestRecord{
		PlayerID:    "p1",
		HerbID:      "item_licorice",
		Count:       1,
		Position:    model.Position{X: 10, Y: -20},
		HarvestedAt: fixed,
	}
	assert.Equal(t, want, rec)
	assert.Equal(t, []HarvestRecord{want}, recorder.Records())

	_, ok := reg.Get(herb.Handle())
	assert.False(t, ok)
	_, ok = reg.Get(other.Handle())
	assert.True(t, ok, "only the harvested herb is removed")
	assert.Equal(t, []model.EntityHandle{herb.Handle()}, factory.Destroyed())

	_, err = svc.Harvest(context.Background(), HarvestOutcome{Handle: herb.Handle(), PlayerID: "p1"})
	assert.ErrorIs(t, err, ErrUnknownEntity)
}

func TestHarvestService_Harvest_MissingPlayer(t *testing.T) {
	reg := NewRegistry(testutil.NewFakeFactory())
	svc := NewHarvestService(reg, nil, nil)
	herb := addHerb(t, reg, "a", model.Position{})

	_, err := svc.Harvest(context.Background(), HarvestOutcome{Handle: herb.Handle()})
	require.Error(t, err)
	assert.Equal(t, 1, reg.Len())
}

func TestHarvestService_Harvest_RecorderFailureKeepsHerb(t *testing.T) {
	reg := NewRegistry(testutil.NewFakeFactory())
	recorder := &mockRecorder{err: errors.New("backend down")}
	svc := NewHarvestService(reg, recorder, nil)
	herb := addHerb(t, reg, "a", model.Position{})

	_, err := svc.Harvest(context.Background(), HarvestOutcome{Handle: herb.Handle(), PlayerID: "p1"})
	require.Error(t, err)

	_, ok := reg.Get(herb.Handle())
	assert.True(t, ok, "herb stays after a failed gather")

	recorder.mu.Lock()
	recorder.err = nil
	recorder.mu.Unlock()

	_, err = svc.Harvest(context.Background(), HarvestOutcome{Handle: herb.Handle(), PlayerID: "p1"})
	require.NoError(t, err, "gather can be retried")
	assert.Zero(t, reg.Len())
}

func TestHarvestService_Harvest_InProgress(t *testing.T) {
	reg := NewRegistry(testutil.NewFakeFactory())
	recorder := &mockRecorder{block: make(chan struct{}), entered: make(chan struct{}, 1)}
	svc := NewHarvestService(reg, recorder, nil)
	herb := addHerb(t, reg, "a", model.Position{})

	first := make(chan error, 1)
	go func() {
		_, err := svc.Harvest(context.Background(), HarvestOutcome{Handle: herb.Handle(), PlayerID: "p1"})
		first <- err
	}()
	<-recorder.entered

	_, err := svc.Harvest(context.Background(), HarvestOutcome{Handle: herb.Handle(), PlayerID: "p2"})
	assert.ErrorIs(t, err, ErrHarvestInProgress)

	close(recorder.block)
	require.NoError(t, <-first)
	assert.Len(t, recorder.Records(), 1)
}

func TestHarvestService_Harvest_RequiresProximity(t *testing.T) {
	reg := NewRegistry(testutil.NewFakeFactory())
	prox := NewProximityTracker(reg)
	svc := NewHarvestService(reg, nil, prox)
	herb := addHerb(t, reg, "a", model.Position{})

	_, err := svc.Harvest(context.Background(), HarvestOutcome{Handle: herb.Handle(), PlayerID: "p1"})
	assert.ErrorIs(t, err, ErrNotInRange)

	require.NoError(t, prox.Enter(herb.Handle()))
	_, err = svc.Harvest(context.Background(), HarvestOutcome{Handle: herb.Handle(), PlayerID: "p1"})
	require.NoError(t, err)

	assert.False(t, prox.InRange(herb.Handle()), "removed herb is forgotten by the tracker")
}

// ledgerOnly records gathers but keeps no totals.
type ledgerOnly struct{}

func (ledgerOnly) Record(context.Context, HarvestRecord) error { return nil }

func TestHarvestService_Inventory(t *testing.T) {
	reg := NewRegistry(testutil.NewFakeFactory())
	recorder := &mockRecorder{}
	svc := NewHarvestService(reg, recorder, nil)

	for _, id := range []string{"item_licorice", "item_ginseng", "item_licorice"} {
		herb := addHerb(t, reg, id, model.Position{})
		_, err := svc.Harvest(context.Background(), HarvestOutcome{Handle: herb.Handle(), PlayerID: "p1"})
		require.NoError(t, err)
	}
	other := addHerb(t, reg, "item_angelica", model.Position{})
	_, err := svc.Harvest(context.Background(), HarvestOutcome{Handle: other.Handle(), PlayerID: "p2"})
	require.NoError(t, err)

	inv, err := svc.Inventory(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"item_licorice": 2, "item_ginseng": 1}, inv)

	tests := []struct {
		name     string
		recorder HarvestRecorder
	}{
		{name: "no recorder", recorder: nil},
		{name: "recorder without totals", recorder: ledgerOnly{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewHarvestService(reg, tt.recorder, nil)
			inv, err := svc.Inventory(context.Background(), "p1")
			require.NoError(t, err)
			assert.Nil(t, inv)
		})
	}
}
