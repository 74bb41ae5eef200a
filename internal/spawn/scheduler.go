package spawn

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// CycleScheduler reruns spawn cycles on a fixed interval and on demand.
type CycleScheduler struct {
	orchestrator *Orchestrator
	cfg          Config
	table        *Table
	interval     time.Duration

	triggerCh chan struct{}
	stopCh    chan struct{}
	stopOnce  sync.Once

	mu   sync.RWMutex
	last CycleReport
}

// NewCycleScheduler creates scheduler. interval <= 0 disables periodic
// cycles; Trigger still works.
func NewCycleScheduler(orchestrator *Orchestrator, cfg Config, table *Table, interval time.Duration) *CycleScheduler {
	return &CycleScheduler{
		orchestrator: orchestrator,
		cfg:          cfg,
		table:        table,
		interval:     interval,
		triggerCh:    make(chan struct{}, 1),
		stopCh:       make(chan struct{}),
	}
}

// Start runs cycles until ctx is canceled or Stop is called (blocks).
// A configuration error from a cycle stops the scheduler and is returned.
func (s *CycleScheduler) Start(ctx context.Context) error {
	var tick <-chan time.Time
	if s.interval > 0 {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	slog.Info("spawn scheduler started", "interval", s.interval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("spawn scheduler stopping")
			return ctx.Err()

		case <-s.stopCh:
			slog.Info("spawn scheduler stopped")
			return nil

		case <-tick:
			if err := s.runOnce(ctx); err != nil {
				return err
			}

		case <-s.triggerCh:
			if err := s.runOnce(ctx); err != nil {
				return err
			}
		}
	}
}

// Stop stops scheduler. Safe to call more than once.
func (s *CycleScheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

// Trigger requests an immediate cycle. Coalesces with a pending request.
func (s *CycleScheduler) Trigger() {
	select {
	case s.triggerCh <- struct{}{}:
	default:
	}
}

// LastReport returns report of the most recent cycle
func (s *CycleScheduler) LastReport() CycleReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

func (s *CycleScheduler) runOnce(ctx context.Context) error {
	report, err := s.orchestrator.RunCycle(ctx, s.cfg, s.table)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		slog.Error("spawn cycle aborted", "error", err)
		return err
	}

	s.mu.Lock()
	s.last = report
	s.mu.Unlock()
	return nil
}
