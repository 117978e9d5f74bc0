// Package pipeline runs complete generation passes over all six cube faces
// and publishes the result.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"procplanet/internal/biome"
	"procplanet/internal/core"
	"procplanet/internal/cube"
	"procplanet/internal/noise"
	"procplanet/internal/seed"
	"procplanet/internal/settings"
	"procplanet/internal/stages"
	pcg "procplanet/pkg/core"
)

// ErrResolutionMismatch is fatal to a pass; the caller must re-run it in
// full.
var ErrResolutionMismatch = stages.ErrResolutionMismatch

// DefaultRoughnessBand is the half-width of the shore transition in the
// roughness map.
const DefaultRoughnessBand = 0.01

// Request describes one regenerate call.
type Request struct {
	Seed       string
	Archetype  string
	Resolution core.Resolution
	Overrides  settings.Overrides
}

// Options configures a Pipeline.
type Options struct {
	Deriver       *seed.Deriver
	Logger        *slog.Logger
	Material      MaterialOptions
	RoughnessBand float64
	// SeedSource seeds the generator used to replace invalid seeds.
	SeedSource uint64
}

// Pipeline owns the published pass. It is driven from a single goroutine.
type Pipeline struct {
	deriver  *seed.Deriver
	log      *slog.Logger
	rng      *pcg.RNG
	band     float64
	material MaterialOptions

	state       State
	history     []State
	current     *Pass
	normalScale float64
	err         error
}

// New constructs a pipeline with opts. Zero-valued options take defaults.
func New(opts Options) *Pipeline {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Deriver == nil {
		opts.Deriver = seed.NewDeriver(nil, opts.Logger)
	}
	if opts.Material == (MaterialOptions{}) {
		opts.Material = DefaultMaterial()
	}
	if opts.Material.Display == "" {
		opts.Material.Display = DisplayTexture
	}
	if opts.RoughnessBand == 0 {
		opts.RoughnessBand = DefaultRoughnessBand
	}
	return &Pipeline{
		deriver:  opts.Deriver,
		log:      opts.Logger,
		rng:      pcg.NewRNG(opts.SeedSource),
		band:     opts.RoughnessBand,
		material: opts.Material,
		state:    Idle,
	}
}

// Regenerate runs a full pass for req. On success the new pass replaces the
// published one; on failure the previous pass stays visible and the state is
// Failed.
func (p *Pipeline) Regenerate(ctx context.Context, req Request) (*Pass, error) {
	start := time.Now()
	p.history = p.history[:0]
	p.enter(Idle)

	pass, err := p.run(ctx, req)
	if err != nil {
		p.err = err
		p.enter(Failed)
		p.log.Warn("regenerate failed", "seed", req.Seed, "res", int(req.Resolution), "err", err)
		return nil, err
	}

	p.err = nil
	p.current = pass
	p.normalScale = pass.NormalScale
	p.enter(Ready)
	p.log.Info("planet generated",
		"seed", pass.Settings.Seed,
		"archetype", pass.Settings.Archetype,
		"res", int(pass.Resolution),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return pass, nil
}

func (p *Pipeline) run(ctx context.Context, req Request) (*Pass, error) {
	res := req.Resolution
	if res == 0 {
		res = core.DefaultResolution
	}
	if err := res.Validate(); err != nil {
		return nil, err
	}

	s, err := p.deriver.Derive(p.deriver.Resolve(req.Seed, p.rng), req.Archetype)
	if err != nil {
		return nil, err
	}
	if !req.Overrides.Empty() {
		s = s.With(req.Overrides)
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("apply overrides: %w", err)
		}
	}
	pass := &Pass{Settings: s, Resolution: res, NormalScale: res.NormalScale()}
	p.enter(SettingsDerived)

	if pass.Height, err = noise.New(s.Height).Render(ctx, res); err != nil {
		return nil, fmt.Errorf("height: %w", err)
	}
	if pass.Moisture, err = noise.New(s.Moisture).Render(ctx, res); err != nil {
		return nil, fmt.Errorf("moisture: %w", err)
	}
	p.enter(FieldsGenerated)

	if pass.Temperature, err = stages.Temperature(ctx, res, pass.Height, s.Temperature); err != nil {
		return nil, fmt.Errorf("temperature: %w", err)
	}
	pass.Biome = biome.Generate(s)
	pass.Albedo, err = stages.Texture(ctx, res, stages.TextureInput{
		Height:      pass.Height,
		Moisture:    pass.Moisture,
		Temperature: pass.Temperature,
		Biome:       pass.Biome,
		IceCutoff:   s.IceCutoff,
	})
	if err != nil {
		return nil, fmt.Errorf("texture: %w", err)
	}
	p.enter(TexturesComposited)

	pass.Normal, err = stages.Normal(ctx, res, stages.NormalInput{
		Height:     pass.Height,
		Albedo:     pass.Albedo,
		WaterLevel: s.WaterLevel,
	})
	if err != nil {
		return nil, fmt.Errorf("normal: %w", err)
	}
	pass.Roughness, err = stages.Roughness(ctx, res, stages.RoughnessInput{
		Height:         pass.Height,
		WaterLevel:     s.WaterLevel,
		WaterRoughness: settings.WaterRoughness,
		LandRoughness:  settings.LandRoughness,
		Band:           p.band,
	})
	if err != nil {
		return nil, fmt.Errorf("roughness: %w", err)
	}
	p.enter(DerivedMapsGenerated)
	return pass, nil
}

func (p *Pipeline) enter(s State) {
	p.state = s
	p.history = append(p.history, s)
}

// State returns the state reached by the most recent pass.
func (p *Pipeline) State() State { return p.state }

// History returns the states visited by the most recent pass, in order.
func (p *Pipeline) History() []State {
	out := make([]State, len(p.history))
	copy(out, p.history)
	return out
}

// Current returns the published pass, or nil before the first success.
func (p *Pipeline) Current() *Pass { return p.current }

// Err returns the error of the most recent pass, if it failed.
func (p *Pipeline) Err() error { return p.err }

// MaterialOptions returns the active material scalars.
func (p *Pipeline) MaterialOptions() MaterialOptions { return p.material }

// SetDisplay changes the bound display map.
func (p *Pipeline) SetDisplay(d Display) { p.material.Display = d }

// NormalScale returns the active normal scale. It is reset from the
// resolution table by every successful pass.
func (p *Pipeline) NormalScale() float64 { return p.normalScale }

// Material returns the binding for face from the published pass.
func (p *Pipeline) Material(face cube.Face) (Material, bool) {
	if p.current == nil || !face.Valid() {
		return Material{}, false
	}
	return bind(p.current, face, p.material, p.normalScale), true
}

// Materials returns the bindings for all six faces.
func (p *Pipeline) Materials() ([cube.Count]Material, bool) {
	var out [cube.Count]Material
	if p.current == nil {
		return out, false
	}
	for _, face := range cube.Faces {
		out[face] = bind(p.current, face, p.material, p.normalScale)
	}
	return out, true
}
