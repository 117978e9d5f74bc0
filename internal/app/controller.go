// Package app drives the pipeline from a frame loop.
package app

import (
	"context"
	"image"
	"log/slog"

	"procplanet/internal/archetype"
	"procplanet/internal/config"
	"procplanet/internal/core"
	"procplanet/internal/cube"
	"procplanet/internal/pipeline"
	"procplanet/internal/render"
	"procplanet/internal/scheduler"
	"procplanet/internal/seed"
	pcg "procplanet/pkg/core"
)

// TileSize is the on-screen edge of one face before scaling.
const TileSize = 192

// Controller owns the pipeline, the scheduler and the view state. Frame is
// called once per tick.
type Controller struct {
	pipe    *pipeline.Pipeline
	sched   *scheduler.Scheduler
	deriver *seed.Deriver
	rng     *pcg.RNG
	log     *slog.Logger

	auto        bool
	countdown   *core.Countdown
	normalScale float64

	shown      *pipeline.Pass
	display    pipeline.Display
	shownScale float64
	atlas      *image.NRGBA
	atlasLive bool
}

// NewController wires a pipeline and scheduler for cfg. The first Frame
// generates the configured planet.
func NewController(cfg config.Config, deriver *seed.Deriver, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if deriver == nil {
		deriver = seed.NewDeriver(nil, log)
	}
	pipe := pipeline.New(pipeline.Options{
		Deriver:    deriver,
		Logger:     log,
		Material:   cfg.Material(),
		SeedSource: seed.Hash(cfg.Seed),
	})
	return &Controller{
		pipe:        pipe,
		sched:       scheduler.New(pipe, cfg.Request(), log),
		deriver:     deriver,
		rng:         pcg.NewRNG(seed.Hash(cfg.Seed) ^ 0x5bd1e995),
		log:         log,
		auto:        cfg.AutoGenerate,
		countdown:   core.NewCountdown(cfg.AutoGenTime),
		normalScale: cfg.NormalScale,
	}
}

// Pipeline exposes the pipeline, e.g. as the HUD source.
func (c *Controller) Pipeline() *pipeline.Pipeline { return c.pipe }

// Scheduler exposes the scheduler.
func (c *Controller) Scheduler() *scheduler.Scheduler { return c.sched }

// NewPlanet schedules a fresh random seed for the current archetype.
func (c *Controller) NewPlanet() {
	c.sched.SetSeed(c.deriver.RandomSeed(c.rng, c.sched.Pending().Archetype))
	c.countdown.Reset()
}

// Regenerate schedules the pending request again.
func (c *Controller) Regenerate() { c.sched.Invalidate() }

// CycleDisplay binds the next display map.
func (c *Controller) CycleDisplay() {
	c.pipe.SetDisplay(c.pipe.MaterialOptions().Display.Next())
}

// CycleArchetype selects the next catalog archetype, or none after the last
// one, and picks a seed for it.
func (c *Controller) CycleArchetype() {
	names := append([]string{""}, c.deriver.Catalog().Names()...)
	cur := c.sched.Pending().Archetype
	next := names[0]
	for i, n := range names {
		if n == cur || (archetype.IsNone(cur) && i == 0) {
			next = names[(i+1)%len(names)]
			break
		}
	}
	c.sched.SetArchetype(next)
	c.sched.SetSeed(c.deriver.RandomSeed(c.rng, next))
}

// StepResolution moves the pending resolution up (dir > 0) or down.
func (c *Controller) StepResolution(dir int) {
	res := c.sched.Pending().Resolution
	if res == 0 {
		res = core.DefaultResolution
	}
	if dir > 0 {
		res = res.Next()
	} else {
		res = res.Prev()
	}
	c.sched.SetResolution(res)
}

// ToggleAuto switches auto-generate mode.
func (c *Controller) ToggleAuto() {
	c.auto = !c.auto
	c.countdown.Reset()
}

// Auto reports whether auto-generate mode is on.
func (c *Controller) Auto() bool { return c.auto }

// Frame advances one tick: the auto-generate countdown, then at most one
// pipeline pass. It reports whether the visible atlas changed. A failed pass
// is logged and leaves the previous planet on screen.
func (c *Controller) Frame(ctx context.Context) bool {
	if c.auto && c.countdown.Tick() {
		c.NewPlanet()
	}
	ran, err := c.sched.Tick(ctx)
	if err != nil {
		c.log.Warn("pass failed, keeping previous planet", "err", err)
	} else if ran && c.normalScale > 0 {
		c.pipe.SetFloatParameter("normal_scale", c.normalScale)
	}
	return c.refresh()
}

// Atlas returns the unfolded cube of the bound display, or nil before the
// first successful pass.
func (c *Controller) Atlas() *image.NRGBA { return c.atlas }

func (c *Controller) refresh() bool {
	pass := c.pipe.Current()
	display := c.pipe.MaterialOptions().Display
	scale := c.pipe.NormalScale()
	if pass == nil || (c.atlasLive && pass == c.shown && display == c.display &&
		(display != pipeline.DisplayNormal || scale == c.shownScale)) {
		return false
	}
	mats, _ := c.pipe.Materials()
	var faces [cube.Count]*image.NRGBA
	for _, face := range cube.Faces {
		if img, ok := mats[face].Map.(*image.NRGBA); ok {
			faces[face] = img
		}
	}
	c.atlas = render.Atlas(faces, TileSize)
	c.shown, c.display, c.shownScale, c.atlasLive = pass, display, scale, true
	return true
}
