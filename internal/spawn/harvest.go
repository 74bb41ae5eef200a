package spawn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/udisondev/herbfield/internal/model"
)

// GatherCount is how many items one successful gather yields.
const GatherCount = 1

// HarvestOutcome is a gather request reported by the gameplay layer.
type HarvestOutcome struct {
	Handle   model.EntityHandle
	PlayerID string
}

// HarvestRecord is the ledger entry written for a successful gather.
type HarvestRecord struct {
	PlayerID    string
	HerbID      string
	Count       int
	Position    model.Position
	HarvestedAt time.Time
}

// HarvestRecorder persists harvest records (player inventory side).
type HarvestRecorder interface {
	Record(ctx context.Context, rec HarvestRecord) error
}

// InventoryReader is implemented by recorders that can total a player's gathers.
type InventoryReader interface {
	Totals(ctx context.Context, playerID string) (map[string]int, error)
}

// HarvestService removes gathered herbs outside the clear-all path.
type HarvestService struct {
	registry  *Registry
	recorder  HarvestRecorder
	proximity *ProximityTracker
	now       func() time.Time

	mu       sync.Mutex
	inFlight map[model.EntityHandle]struct{}
}

// NewHarvestService creates harvest service.
// recorder may be nil (nothing persisted). proximity may be nil (no range check).
func NewHarvestService(registry *Registry, recorder HarvestRecorder, proximity *ProximityTracker) *HarvestService {
	return &HarvestService{
		registry:  registry,
		recorder:  recorder,
		proximity: proximity,
		now:       time.Now,
		inFlight:  make(map[model.EntityHandle]struct{}),
	}
}

// Harvest records the gather and removes the herb.
// If recording fails the herb stays in place and may be gathered again.
func (s *HarvestService) Harvest(ctx context.Context, outcome HarvestOutcome) (HarvestRecord, error) {
	if outcome.PlayerID == "" {
		return HarvestRecord{}, errors.New("harvest: missing player id")
	}

	entity, err := s.begin(outcome.Handle)
	if err != nil {
		return HarvestRecord{}, fmt.Errorf("harvest %s: %w", outcome.Handle, err)
	}
	defer s.end(outcome.Handle)

	rec := HarvestRecord{
		PlayerID:    outcome.PlayerID,
		HerbID:      entity.TypeID(),
		Count:       GatherCount,
		Position:    entity.Position(),
		HarvestedAt: s.now(),
	}

	if s.recorder != nil {
		if err := s.recorder.Record(ctx, rec); err != nil {
			return HarvestRecord{}, fmt.Errorf("recording harvest of %s: %w", outcome.Handle, err)
		}
	}

	if _, ok := s.registry.Remove(outcome.Handle); !ok {
		// a new cycle already cleared it; the gather still counts
		slog.Debug("harvested herb already cleared", "handle", outcome.Handle)
	}

	slog.Info("herb harvested",
		"handle", outcome.Handle,
		"herb", rec.HerbID,
		"playerID", rec.PlayerID)

	return rec, nil
}

// Inventory returns gathered item counts per herb for playerID.
// It returns nil without error when the recorder keeps no totals.
func (s *HarvestService) Inventory(ctx context.Context, playerID string) (map[string]int, error) {
	reader, ok := s.recorder.(InventoryReader)
	if !ok {
		return nil, nil
	}
	totals, err := reader.Totals(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("loading inventory of %s: %w", playerID, err)
	}
	return totals, nil
}

func (s *HarvestService) begin(handle model.EntityHandle) (*model.LiveEntity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.inFlight[handle]; busy {
		return nil, ErrHarvestInProgress
	}
	entity, ok := s.registry.Get(handle)
	if !ok {
		return nil, ErrUnknownEntity
	}
	if s.proximity != nil && !s.proximity.InRange(handle) {
		return nil, ErrNotInRange
	}

	s.inFlight[handle] = struct{}{}
	return entity, nil
}

func (s *HarvestService) end(handle model.EntityHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, handle)
}
