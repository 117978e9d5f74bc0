package seed

import (
	"fmt"
	"log/slog"

	"procplanet/internal/archetype"
	"procplanet/internal/settings"
	"procplanet/pkg/core"
)

// Deriver maps seed strings, optionally combined with an archetype, to
// GeneratorSettings.
type Deriver struct {
	catalog *archetype.Catalog
	log     *slog.Logger
}

// NewDeriver constructs a Deriver. A nil catalog uses the embedded default; a
// nil logger discards output.
func NewDeriver(catalog *archetype.Catalog, log *slog.Logger) *Deriver {
	if catalog == nil {
		catalog = archetype.Default()
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Deriver{catalog: catalog, log: log}
}

// Catalog returns the archetype catalog backing the deriver.
func (d *Deriver) Catalog() *archetype.Catalog { return d.catalog }

// Derive builds the settings for seed. Parameters come from a PCG stream
// keyed by the seed hash and are drawn in a fixed order, so a seed always
// yields the same settings. A known archetype overrides the drawn values;
// an unknown one is logged and ignored.
func (d *Deriver) Derive(seed, archetypeName string) (settings.GeneratorSettings, error) {
	norm, err := Normalize(seed)
	if err != nil {
		return settings.GeneratorSettings{}, err
	}
	s := derive(norm)

	if !archetype.IsNone(archetypeName) {
		a, err := d.catalog.Lookup(archetypeName)
		if err != nil {
			d.log.Warn("archetype not found, using seed-derived settings", "archetype", archetypeName, "seed", norm)
		} else {
			s = s.With(a.Overrides)
			s.Archetype = a.Name
		}
	}

	if err := s.Validate(); err != nil {
		return settings.GeneratorSettings{}, fmt.Errorf("derive %q: %w", norm, err)
	}
	return s, nil
}

// Resolve returns seed when it is usable, or a freshly generated seed when it
// is empty or malformed.
func (d *Deriver) Resolve(seed string, rng *core.RNG) string {
	norm, err := Normalize(seed)
	if err == nil {
		return norm
	}
	fresh := Words(rng)
	d.log.Info("invalid seed replaced", "err", err, "seed", fresh)
	return fresh
}

// RandomSeed returns a new seed drawn from the catalog seeds of the selected
// archetype. With no archetype selected a random archetype supplies the
// seed. Words are generated only when the catalog has no seed to offer.
func (d *Deriver) RandomSeed(rng *core.RNG, archetypeName string) string {
	if archetype.IsNone(archetypeName) {
		a, err := d.catalog.Random(rng)
		if err != nil {
			return Words(rng)
		}
		s, err := a.RandomSeed(rng)
		if err != nil {
			return Words(rng)
		}
		return s
	}
	s, err := d.catalog.PickSeed(archetypeName, "", rng)
	if err != nil {
		d.log.Warn("no catalog seed available", "archetype", archetypeName, "err", err)
		return Words(rng)
	}
	return s
}

func derive(seed string) settings.GeneratorSettings {
	h := Hash(seed)
	rng := core.NewRNG(h)
	base := int64(h >> 1)

	s := settings.GeneratorSettings{
		Seed:      seed,
		Hash:      h,
		IceCutoff: settings.DefaultIceCutoff,
	}
	s.Height = fieldParams(rng, base, 0.5)
	s.Moisture = fieldParams(rng, base+settings.MoistureSeedOffset, 0.25)
	s.Temperature = settings.TemperatureParams{
		Pole1Factor:  rng.Range(0.7, 1.0),
		Pole2Factor:  rng.Range(0.7, 1.0),
		HeightFactor: rng.Range(0.2, 0.6),
		Iciness:      rng.Range(0, 0.2),
	}
	s.WaterLevel = rng.Range(0.35, 0.55)
	s.Biome = settings.BiomeParams{
		Seed:       rng.Int64(),
		Hue:        rng.Float64(),
		Saturation: rng.Range(0.3, 0.8),
		Blobs:      3 + rng.IntN(6),
	}
	return s
}

func fieldParams(rng *core.RNG, seed int64, ridgedChance float64) settings.FieldParams {
	return settings.FieldParams{
		Seed:     seed,
		Res1:     rng.Range(2, 5),
		Res2:     rng.Range(2, 5),
		ResMix:   rng.Range(0, 1),
		MixScale: rng.Range(0.5, 1.0),
		Ridged:   rng.Bool(ridgedChance),
	}
}
