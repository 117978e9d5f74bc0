// Package scheduler coalesces regenerate requests into at most one pipeline
// pass per tick.
package scheduler

import (
	"context"
	"errors"
	"log/slog"

	"procplanet/internal/core"
	"procplanet/internal/pipeline"
	"procplanet/internal/settings"
)

// Regenerator runs one full generation pass.
type Regenerator interface {
	Regenerate(ctx context.Context, req pipeline.Request) (*pipeline.Pass, error)
}

// Scheduler holds the pending request and the one-shot dirty flag. It is
// driven from the frame loop and is not safe for concurrent use.
type Scheduler struct {
	target  Regenerator
	log     *slog.Logger
	pending pipeline.Request
	dirty   bool
	runs    int
}

// New returns a scheduler for target with req as the initial request. The
// first tick runs it.
func New(target Regenerator, req pipeline.Request, log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Scheduler{target: target, log: log, pending: req, dirty: true}
}

// Pending returns the request the next pass will run.
func (s *Scheduler) Pending() pipeline.Request { return s.pending }

// Dirty reports whether a pass is scheduled for the next tick.
func (s *Scheduler) Dirty() bool { return s.dirty }

// Runs returns the number of passes executed so far.
func (s *Scheduler) Runs() int { return s.runs }

// Request replaces the pending request and schedules a pass.
func (s *Scheduler) Request(req pipeline.Request) {
	s.pending = req
	s.dirty = true
}

// Invalidate schedules a pass with the unchanged pending request.
func (s *Scheduler) Invalidate() { s.dirty = true }

// SetSeed changes the pending seed.
func (s *Scheduler) SetSeed(seed string) {
	s.pending.Seed = seed
	s.dirty = true
}

// SetArchetype changes the pending archetype.
func (s *Scheduler) SetArchetype(name string) {
	s.pending.Archetype = name
	s.dirty = true
}

// SetResolution changes the pending resolution.
func (s *Scheduler) SetResolution(res core.Resolution) {
	s.pending.Resolution = res
	s.dirty = true
}

// SetOverrides merges o into the pending overrides.
func (s *Scheduler) SetOverrides(o settings.Overrides) {
	s.pending.Overrides = s.pending.Overrides.Merge(o)
	s.dirty = true
}

// Tick runs the pending pass if one is scheduled. The dirty flag is cleared
// before the pass so requests made during it wait for the next tick. A
// resolution mismatch re-arms the flag for a full re-run.
func (s *Scheduler) Tick(ctx context.Context) (bool, error) {
	if !s.dirty {
		return false, nil
	}
	s.dirty = false
	s.runs++
	_, err := s.target.Regenerate(ctx, s.pending)
	if errors.Is(err, pipeline.ErrResolutionMismatch) {
		s.log.Warn("resolution mismatch, rescheduling", "err", err)
		s.dirty = true
	}
	return true, err
}
