// Package settings holds the immutable per-pass generator settings.
package settings

import (
	"errors"
	"fmt"
	"math"
)

const (
	// MoistureSeedOffset separates the moisture noise seed from the height seed.
	MoistureSeedOffset = 392253

	// DefaultIceCutoff is the temperature below which texels turn to ice.
	DefaultIceCutoff = 0.2

	// WaterRoughness and LandRoughness are the roughness-map constants.
	WaterRoughness = 0.75
	LandRoughness  = 0.9
)

// ErrInvalidSettings reports a settings value outside its allowed range.
var ErrInvalidSettings = errors.New("invalid generator settings")

// FieldParams parameterizes one NoiseField.
type FieldParams struct {
	Seed     int64
	Res1     float64
	Res2     float64
	ResMix   float64
	MixScale float64
	Ridged   bool
}

// TemperatureParams parameterizes the temperature field.
type TemperatureParams struct {
	Pole1Factor  float64
	Pole2Factor  float64
	HeightFactor float64
	Iciness      float64
}

// BiomeParams parameterizes the biome lookup table.
type BiomeParams struct {
	Seed       int64
	Hue        float64
	Saturation float64
	Blobs      int
}

// GeneratorSettings is derived once per regenerate request and read-only for
// the duration of a pass. A new request produces a new value.
type GeneratorSettings struct {
	Seed string
	Hash uint64

	Height      FieldParams
	Moisture    FieldParams
	Temperature TemperatureParams
	Biome       BiomeParams

	WaterLevel float64
	IceCutoff  float64

	// Archetype is empty when the settings were derived from the hash alone.
	Archetype string
}

// Validate checks every numeric value once, at construction.
func (s GeneratorSettings) Validate() error {
	if err := s.Height.validate("height"); err != nil {
		return err
	}
	if err := s.Moisture.validate("moisture"); err != nil {
		return err
	}
	t := s.Temperature
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"temperature.pole1_factor", t.Pole1Factor},
		{"temperature.pole2_factor", t.Pole2Factor},
		{"temperature.height_factor", t.HeightFactor},
	} {
		if !finite(f.v) || f.v < 0 {
			return fmt.Errorf("%w: %s = %v", ErrInvalidSettings, f.name, f.v)
		}
	}
	if !finite(t.Iciness) || t.Iciness < -1 || t.Iciness > 1 {
		return fmt.Errorf("%w: temperature.iciness = %v", ErrInvalidSettings, t.Iciness)
	}
	if !unit(s.WaterLevel) {
		return fmt.Errorf("%w: water_level = %v", ErrInvalidSettings, s.WaterLevel)
	}
	if !unit(s.IceCutoff) {
		return fmt.Errorf("%w: ice_cutoff = %v", ErrInvalidSettings, s.IceCutoff)
	}
	if !unit(s.Biome.Hue) || !unit(s.Biome.Saturation) || s.Biome.Blobs < 0 {
		return fmt.Errorf("%w: biome %+v", ErrInvalidSettings, s.Biome)
	}
	return nil
}

func (p FieldParams) validate(name string) error {
	if !finite(p.Res1) || p.Res1 <= 0 || !finite(p.Res2) || p.Res2 <= 0 {
		return fmt.Errorf("%w: %s frequencies (%v, %v)", ErrInvalidSettings, name, p.Res1, p.Res2)
	}
	if !unit(p.ResMix) {
		return fmt.Errorf("%w: %s.res_mix = %v", ErrInvalidSettings, name, p.ResMix)
	}
	if !finite(p.MixScale) || p.MixScale < 0 {
		return fmt.Errorf("%w: %s.mix_scale = %v", ErrInvalidSettings, name, p.MixScale)
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func unit(v float64) bool { return finite(v) && v >= 0 && v <= 1 }
