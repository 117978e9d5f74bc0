package settings

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func validSettings() GeneratorSettings {
	return GeneratorSettings{
		Seed:        "Scarlett",
		Hash:        42,
		Height:      FieldParams{Seed: 1, Res1: 3, Res2: 4, ResMix: 0.5, MixScale: 0.7},
		Moisture:    FieldParams{Seed: 1 + MoistureSeedOffset, Res1: 2, Res2: 5, ResMix: 0.3, MixScale: 0.6},
		Temperature: TemperatureParams{Pole1Factor: 0.8, Pole2Factor: 0.9, HeightFactor: 0.4, Iciness: 0.1},
		Biome:       BiomeParams{Seed: 3, Hue: 0.4, Saturation: 0.5, Blobs: 4},
		WaterLevel:  0.45,
		IceCutoff:   DefaultIceCutoff,
	}
}

func TestValidate(t *testing.T) {
	if err := validSettings().Validate(); err != nil {
		t.Fatalf("valid settings rejected: %v", err)
	}
	cases := map[string]func(*GeneratorSettings){
		"zero frequency":   func(s *GeneratorSettings) { s.Height.Res1 = 0 },
		"mix above one":    func(s *GeneratorSettings) { s.Moisture.ResMix = 1.5 },
		"negative scale":   func(s *GeneratorSettings) { s.Height.MixScale = -1 },
		"nan water level":  func(s *GeneratorSettings) { s.WaterLevel = math.NaN() },
		"ice cutoff range": func(s *GeneratorSettings) { s.IceCutoff = 2 },
		"negative pole":    func(s *GeneratorSettings) { s.Temperature.Pole1Factor = -0.1 },
		"negative blobs":   func(s *GeneratorSettings) { s.Biome.Blobs = -1 },
	}
	for name, mutate := range cases {
		s := validSettings()
		mutate(&s)
		if err := s.Validate(); !errors.Is(err, ErrInvalidSettings) {
			t.Fatalf("%s: Validate() = %v, want ErrInvalidSettings", name, err)
		}
	}
}

func TestWithDoesNotMutate(t *testing.T) {
	base := validSettings()
	o := Overrides{
		Height:      FieldOverride{Ridged: Bool(true), Res1: Float(9)},
		Temperature: TemperatureOverride{Iciness: Float(0.3)},
		IceCutoff:   Float(0.5),
	}
	next := base.With(o)
	if base.IceCutoff != DefaultIceCutoff || base.Height.Ridged || base.Height.Res1 != 3 {
		t.Fatal("With must not modify the receiver")
	}
	if next.IceCutoff != 0.5 || !next.Height.Ridged || next.Height.Res1 != 9 || next.Temperature.Iciness != 0.3 {
		t.Fatalf("overrides not applied: %+v", next)
	}
	if next.Height.Res2 != base.Height.Res2 || next.WaterLevel != base.WaterLevel {
		t.Fatal("unset overrides must keep derived values")
	}
}

func TestOverridesMerge(t *testing.T) {
	a := Overrides{WaterLevel: Float(0.3), Height: FieldOverride{Res1: Float(2)}}
	b := Overrides{WaterLevel: Float(0.6), IceCutoff: Float(0.1)}
	m := a.Merge(b)
	if *m.WaterLevel != 0.6 || *m.IceCutoff != 0.1 || *m.Height.Res1 != 2 {
		t.Fatalf("unexpected merge result %+v", m)
	}
	if !(Overrides{}).Empty() || m.Empty() {
		t.Fatal("Empty misreports override state")
	}
}

func TestParametersSnapshot(t *testing.T) {
	snap := validSettings().Parameters()
	p, ok := snap.Lookup("archetype")
	if !ok || p.Value != "none" {
		t.Fatalf("archetype parameter = %+v", p)
	}
	if p, ok := snap.Lookup("height.res1"); !ok || p.Value != "3" {
		t.Fatalf("height.res1 parameter = %+v", p)
	}
}

func TestOverridesSet(t *testing.T) {
	var o Overrides
	var err error
	for _, kv := range [][2]string{
		{"height.res1", "3.5"},
		{"Moisture.Ridged", "true"},
		{"temperature.iciness", "0.1"},
		{"water_level", " 0.4 "},
		{"ice_cutoff", "0.5"},
	} {
		if o, err = o.Set(kv[0], kv[1]); err != nil {
			t.Fatalf("Set(%q): %v", kv[0], err)
		}
	}
	s := validSettings().With(o)
	if s.Height.Res1 != 3.5 || !s.Moisture.Ridged || s.Temperature.Iciness != 0.1 || s.WaterLevel != 0.4 || s.IceCutoff != 0.5 {
		t.Fatalf("overrides not applied: %+v", s)
	}

	for _, bad := range [][2]string{{"height.bogus", "1"}, {"clouds", "1"}, {"water_level", "wet"}, {"height.ridged", "maybe"}} {
		if _, err := o.Set(bad[0], bad[1]); !errors.Is(err, ErrInvalidSettings) {
			t.Fatalf("Set(%q, %q) err = %v", bad[0], bad[1], err)
		}
	}
}

func TestValidateReportsFirstField(t *testing.T) {
	s := validSettings()
	s.Temperature.Pole1Factor = -1
	s.Temperature.HeightFactor = -1
	for i := 0; i < 20; i++ {
		err := s.Validate()
		if err == nil || !strings.Contains(err.Error(), "pole1_factor") {
			t.Fatalf("Validate() = %v, want the pole1_factor error", err)
		}
	}
}
