package biome

import (
	"bytes"
	"image/color"
	"testing"

	"procplanet/internal/settings"
)

func testSettings() settings.GeneratorSettings {
	return settings.GeneratorSettings{
		Biome:      settings.BiomeParams{Seed: 77, Hue: 0.3, Saturation: 0.6, Blobs: 5},
		WaterLevel: 0.45,
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := Generate(testSettings())
	b := Generate(testSettings())
	if !bytes.Equal(a.Image().Pix, b.Image().Pix) {
		t.Fatal("same settings produced different biome tables")
	}
	s := testSettings()
	s.Biome.Seed++
	c := Generate(s)
	if bytes.Equal(a.Image().Pix, c.Image().Pix) {
		t.Fatal("different biome seeds produced identical tables")
	}
}

func TestWaterBelowLevel(t *testing.T) {
	tbl := Generate(testSettings())
	ocean := tbl.At(0.5, 0.1)
	if ocean.B <= ocean.R || ocean.B <= ocean.G {
		t.Fatalf("deep water should be blue, got %+v", ocean)
	}
	if tbl.At(0.5, 0.1) == tbl.At(0.5, 0.9) {
		t.Fatal("ocean and highlands share a colour")
	}
}

func TestAtClamps(t *testing.T) {
	tbl := Generate(testSettings())
	if tbl.At(-1, -1) != tbl.At(0, 0) || tbl.At(2, 2) != tbl.At(1, 1) {
		t.Fatal("At should clamp coordinates to the table")
	}
}

func TestHSL(t *testing.T) {
	cases := []struct {
		h, s, l float64
		want    color.NRGBA
	}{
		{0, 1, 0.5, color.NRGBA{255, 0, 0, 255}},
		{1.0 / 3, 1, 0.5, color.NRGBA{0, 255, 0, 255}},
		{2.0 / 3, 1, 0.5, color.NRGBA{0, 0, 255, 255}},
		{0.5, 0, 1, color.NRGBA{255, 255, 255, 255}},
		{0.5, 0, 0, color.NRGBA{0, 0, 0, 255}},
	}
	for _, c := range cases {
		if got := hsl(c.h, c.s, c.l); got != c.want {
			t.Fatalf("hsl(%v, %v, %v) = %+v, want %+v", c.h, c.s, c.l, got, c.want)
		}
	}
}
