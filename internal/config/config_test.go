package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"procplanet/internal/core"
	"procplanet/internal/pipeline"
)

func TestDefaultConfigValid(t *testing.T) {
	c := DefaultConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if !c.Overrides().Empty() {
		t.Fatal("default config should not override settings")
	}
	m := c.Material()
	if m.Roughness != 0.8 || m.Metalness != 0.5 || m.Display != pipeline.DisplayTexture {
		t.Fatalf("material = %+v", m)
	}
}

func TestFromMap(t *testing.T) {
	c := FromMap(map[string]string{
		"seed":          "Thalassa",
		"resolution":    "256",
		"ice_cutoff":    "0.5",
		"display_map":   "heightMap",
		"tps":           "oops",
		"auto_generate": "true",
	})
	if c.Seed != "Thalassa" || c.Resolution != 256 || c.IceCutoff != 0.5 || !c.AutoGenerate {
		t.Fatalf("config = %+v", c)
	}
	if c.TPS != 60 {
		t.Fatalf("bad tps should keep default, got %d", c.TPS)
	}
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	o := c.Overrides()
	if o.IceCutoff == nil || *o.IceCutoff != 0.5 || o.WaterLevel != nil {
		t.Fatalf("overrides = %+v", o)
	}
	if req := c.Request(); req.Resolution != 256 || req.Seed != "Thalassa" {
		t.Fatalf("request = %+v", req)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "planet.yaml")
	if err := os.WriteFile(path, []byte("seed: Pelagia Vorn\narchetype: Water\nresolution: 512\nformat: tiff\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Seed != "Pelagia Vorn" || c.Archetype != "Water" || c.Resolution != 512 || c.Format != "tiff" {
		t.Fatalf("config = %+v", c)
	}
	if c.TPS != 60 {
		t.Fatal("unset keys should keep defaults")
	}

	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(bad, []byte("sead: typo\n"), 0o644)
	if _, err := Load(bad); err == nil {
		t.Fatal("unknown key accepted")
	}
	if _, err := Load(filepath.Join(dir, "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing file err = %v", err)
	}
}

func TestMergeExplicitFlags(t *testing.T) {
	file := DefaultConfig()
	file.Seed = "From File"
	file.Resolution = 512

	flags := DefaultConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags.Bind(fs)
	if err := fs.Parse([]string{"-res", "128", "-format", "bmp"}); err != nil {
		t.Fatal(err)
	}
	got := Merge(file, flags, fs)
	if got.Seed != "From File" {
		t.Fatalf("unset flag overwrote file seed: %q", got.Seed)
	}
	if got.Resolution != 128 || got.Format != "bmp" {
		t.Fatalf("explicit flags not applied: %+v", got)
	}
}

func TestValidate(t *testing.T) {
	cases := []func(*Config){
		func(c *Config) { c.Resolution = 100 },
		func(c *Config) { c.Display = "clouds" },
		func(c *Config) { c.Roughness = 1.5 },
		func(c *Config) { c.IceCutoff = 2 },
		func(c *Config) { c.Format = "gif" },
		func(c *Config) { c.TPS = 0 },
	}
	for i, mutate := range cases {
		c := DefaultConfig()
		mutate(&c)
		if err := c.Validate(); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
	c := DefaultConfig()
	c.Resolution = 100
	if err := c.Validate(); !errors.Is(err, core.ErrUnsupportedResolution) {
		t.Fatalf("err = %v", err)
	}
}

func TestLayered(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planet.yaml")
	if err := os.WriteFile(path, []byte("seed: Thalassa\nresolution: 256\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	flags := DefaultConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags.Bind(fs)
	if err := fs.Parse([]string{"-res", "64"}); err != nil {
		t.Fatal(err)
	}
	c, err := Layered(path, flags, fs)
	if err != nil {
		t.Fatal(err)
	}
	if c.Seed != "Thalassa" || c.Resolution != 64 {
		t.Fatalf("layered = %+v", c)
	}
	if _, err := Layered("", flags, fs); err != nil {
		t.Fatalf("flags only: %v", err)
	}
	flags.Format = "gif"
	if _, err := Layered("", flags, fs); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("err = %v", err)
	}
}

func TestValidateReportsFirstField(t *testing.T) {
	c := DefaultConfig()
	c.Roughness = 2
	c.Metalness = 2
	c.WaterLevel = 2
	c.IceCutoff = 2
	for i := 0; i < 20; i++ {
		err := c.Validate()
		if !errors.Is(err, ErrInvalidConfig) || !strings.Contains(err.Error(), "roughness") {
			t.Fatalf("Validate() = %v, want the roughness error", err)
		}
	}
	c.Roughness, c.Metalness = 0.5, 0.5
	if err := c.Validate(); err == nil || !strings.Contains(err.Error(), "water_level") {
		t.Fatalf("Validate() = %v, want the water_level error", err)
	}
}
