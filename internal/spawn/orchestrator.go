package spawn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"

	"github.com/udisondev/herbfield/internal/model"
)

// SceneOrderer moves a scene node to the topmost draw order within its parent.
type SceneOrderer interface {
	BringToFront(node model.NodeID) error
}

// CycleReport summarizes one spawn cycle.
type CycleReport struct {
	Cycle           uint64
	Cleared         int // entities released from the previous cycle
	Target          int
	Spawned         int
	PlacementMisses int
	FactoryFailures int
}

// Orchestrator drives spawn cycles: clear, draw, place, instantiate, reorder.
type Orchestrator struct {
	registry   *Registry
	sampler    *Sampler
	rng        *rand.Rand
	scene      SceneOrderer
	foreground model.NodeID

	cycleMu sync.Mutex // one cycle at a time per registry
	cycles  atomic.Uint64
}

// NewOrchestrator creates orchestrator.
// scene and foreground are optional; without them the reorder step is skipped.
// rng must not be shared with other goroutines.
func NewOrchestrator(registry *Registry, rng *rand.Rand, scene SceneOrderer, foreground model.NodeID) *Orchestrator {
	return &Orchestrator{
		registry:   registry,
		sampler:    NewSampler(rng),
		rng:        rng,
		scene:      scene,
		foreground: foreground,
	}
}

// Registry returns the registry driven by this orchestrator
func (o *Orchestrator) Registry() *Registry {
	return o.registry
}

// Cycles returns number of completed cycles
func (o *Orchestrator) Cycles() uint64 {
	return o.cycles.Load()
}

// Initialize validates the setup and populates the field for the first time.
func (o *Orchestrator) Initialize(ctx context.Context, cfg Config, table *Table) (CycleReport, error) {
	if err := o.validate(cfg, table); err != nil {
		return CycleReport{}, fmt.Errorf("initializing herb field: %w", err)
	}

	slog.Info("herb field initializing",
		"herbTypes", table.Len(),
		"minCount", cfg.MinCount,
		"maxCount", cfg.MaxCount,
		"minSpacing", cfg.MinSpacing,
		"area", fmt.Sprintf("%vx%v", cfg.Area.Width, cfg.Area.Height))

	return o.RunCycle(ctx, cfg, table)
}

// RunCycle replaces every live herb with a freshly sampled set.
//
// Only configuration problems are returned as errors, and then the registry
// is left untouched. Placement misses and factory failures shrink the
// realized count and are reported in CycleReport.
func (o *Orchestrator) RunCycle(ctx context.Context, cfg Config, table *Table) (CycleReport, error) {
	if err := o.validate(cfg, table); err != nil {
		return CycleReport{}, err
	}
	if err := ctx.Err(); err != nil {
		return CycleReport{}, fmt.Errorf("starting spawn cycle: %w", err)
	}

	o.cycleMu.Lock()
	defer o.cycleMu.Unlock()

	report := CycleReport{
		Cleared: o.registry.ClearAll(),
		Target:  cfg.MinCount + o.rng.IntN(cfg.MaxCount-cfg.MinCount+1),
	}

	for slot := range report.Target {
		herb, err := table.Draw(o.rng)
		if err != nil {
			// validate guarantees a non-empty table
			return report, fmt.Errorf("drawing herb for slot %d: %w", slot, err)
		}

		pos, err := o.sampler.TryPlace(cfg.Area, cfg.MinSpacing, o.registry.Positions(), cfg.MaxRetries)
		if err != nil {
			report.PlacementMisses++
			slog.Debug("herb slot skipped", "slot", slot, "herb", herb.ID(), "reason", err)
			continue
		}

		entity, err := o.registry.Add(herb, pos)
		if err != nil {
			report.FactoryFailures++
			slog.Warn("herb instantiation failed", "slot", slot, "herb", herb.ID(), "error", err)
			continue
		}

		report.Spawned++
		slog.Debug("herb spawned",
			"handle", entity.Handle(),
			"herb", herb.ID(),
			"x", pos.X,
			"y", pos.Y)
	}

	o.raiseForeground()

	report.Cycle = o.cycles.Add(1)
	slog.Info("herbs spawned",
		"cycle", report.Cycle,
		"target", report.Target,
		"spawned", report.Spawned,
		"cleared", report.Cleared,
		"placementMisses", report.PlacementMisses,
		"factoryFailures", report.FactoryFailures)

	return report, nil
}

// raiseForeground keeps the player above freshly spawned herbs.
func (o *Orchestrator) raiseForeground() {
	if o.scene == nil || o.foreground == "" {
		return
	}
	if err := o.scene.BringToFront(o.foreground); err != nil {
		slog.Warn("bringing foreground node to front", "node", o.foreground, "error", err)
	}
}

func (o *Orchestrator) validate(cfg Config, table *Table) error {
	if o.registry == nil {
		return configErrorf("registry", "orchestrator has no registry")
	}
	if o.registry.Factory() == nil {
		return configErrorf("factory", "registry has no entity factory")
	}
	if table == nil || table.Len() == 0 {
		return &ConfigError{Field: "herbs", Reason: "no herb types configured", Err: ErrEmptyTable}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	return nil
}

// IsConfigError reports whether err aborted a cycle because of configuration.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}
