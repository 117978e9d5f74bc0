package pipeline

import (
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"testing"

	"procplanet/internal/core"
	"procplanet/internal/cube"
	"procplanet/internal/settings"
	"procplanet/internal/stages"
)

var update = flag.Bool("update", false, "rewrite golden files")

func regenerate(t *testing.T, p *Pipeline, req Request) *Pass {
	t.Helper()
	pass, err := p.Regenerate(context.Background(), req)
	if err != nil {
		t.Fatalf("Regenerate(%+v): %v", req, err)
	}
	return pass
}

func TestRegenerateDeterministic(t *testing.T) {
	req := Request{Seed: "Scarlett", Resolution: 64}
	a := regenerate(t, New(Options{}), req)
	b := regenerate(t, New(Options{}), req)
	if a.Digest() != b.Digest() {
		t.Fatal("identical requests produced different passes")
	}
	for _, face := range cube.Faces {
		if !a.Height[face].Equal(b.Height[face]) {
			t.Fatalf("height face %s differs", face)
		}
	}

	c := regenerate(t, New(Options{}), Request{Seed: "Thalassa", Resolution: 64})
	if a.Digest() == c.Digest() {
		t.Fatal("different seeds produced the same pass")
	}
}

func TestRegenerateIdempotent(t *testing.T) {
	p := New(Options{})
	req := Request{Seed: "Deep Harbor", Archetype: "Water", Resolution: 64}
	first := regenerate(t, p, req).Digest()
	second := regenerate(t, p, req).Digest()
	if first != second {
		t.Fatal("repeated regenerate changed outputs")
	}
	if got := p.Current().Settings.Archetype; got != "Water" {
		t.Fatalf("archetype tag = %q", got)
	}
}

func TestStateHistory(t *testing.T) {
	p := New(Options{})
	if p.State() != Idle {
		t.Fatalf("initial state = %s", p.State())
	}
	regenerate(t, p, Request{Seed: "Scarlett", Resolution: 64})
	want := []State{Idle, SettingsDerived, FieldsGenerated, TexturesComposited, DerivedMapsGenerated, Ready}
	if got := p.History(); !slices.Equal(got, want) {
		t.Fatalf("history = %v, want %v", got, want)
	}
}

func TestFailureKeepsPreviousPass(t *testing.T) {
	p := New(Options{})
	good := regenerate(t, p, Request{Seed: "Scarlett", Resolution: 64})

	_, err := p.Regenerate(context.Background(), Request{Seed: "Scarlett", Resolution: 100})
	if !errors.Is(err, core.ErrUnsupportedResolution) {
		t.Fatalf("err = %v, want ErrUnsupportedResolution", err)
	}
	if p.State() != Failed || p.Err() == nil {
		t.Fatalf("state = %s, err = %v", p.State(), p.Err())
	}
	if p.Current() != good {
		t.Fatal("failed pass replaced the published one")
	}

	_, err = p.Regenerate(context.Background(), Request{
		Seed:       "Scarlett",
		Resolution: 64,
		Overrides:  settings.Overrides{WaterLevel: settings.Float(2)},
	})
	if !errors.Is(err, settings.ErrInvalidSettings) {
		t.Fatalf("err = %v, want ErrInvalidSettings", err)
	}
	if p.Current() != good {
		t.Fatal("invalid overrides replaced the published pass")
	}
}

func TestCancelledPassFails(t *testing.T) {
	p := New(Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Regenerate(ctx, Request{Seed: "Scarlett", Resolution: 64}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if p.Current() != nil {
		t.Fatal("cancelled pass was published")
	}
}

func TestInvalidSeedRecovered(t *testing.T) {
	p := New(Options{SeedSource: 7})
	pass := regenerate(t, p, Request{Seed: "   ", Resolution: 64})
	if strings.TrimSpace(pass.Settings.Seed) == "" {
		t.Fatal("no replacement seed generated")
	}
}

func TestUnknownArchetypeFallsBack(t *testing.T) {
	p := New(Options{})
	a := regenerate(t, p, Request{Seed: "Scarlett", Archetype: "Gaseous", Resolution: 64})
	b := regenerate(t, New(Options{}), Request{Seed: "Scarlett", Resolution: 64})
	if a.Settings.Archetype != "" {
		t.Fatalf("archetype tag = %q, want empty", a.Settings.Archetype)
	}
	if a.Digest() != b.Digest() {
		t.Fatal("unknown archetype did not fall back to the seed-derived settings")
	}
}

func TestIceCutoffMonotonic(t *testing.T) {
	iceCutoffScenario(t, 64)
}

func iceCutoffScenario(t *testing.T, res core.Resolution) (*Pass, *Pass) {
	t.Helper()
	base := regenerate(t, New(Options{}), Request{Seed: "Scarlett", Resolution: res})
	icy := regenerate(t, New(Options{}), Request{
		Seed:       "Scarlett",
		Resolution: res,
		Overrides:  settings.Overrides{IceCutoff: settings.Float(0.5)},
	})
	if base.Settings.IceCutoff != settings.DefaultIceCutoff {
		t.Fatalf("default ice cutoff = %v", base.Settings.IceCutoff)
	}
	for _, face := range cube.Faces {
		if !base.Height[face].Equal(icy.Height[face]) {
			t.Fatalf("ice cutoff changed height face %s", face)
		}
	}
	lo, hi := stages.IceFraction(base.Albedo), stages.IceFraction(icy.Albedo)
	if hi <= lo {
		t.Fatalf("ice fraction %v at 0.5 not above %v at 0.2", hi, lo)
	}
	return base, icy
}

func TestScarlettReference(t *testing.T) {
	if testing.Short() {
		t.Skip("1024 reference pass skipped in short mode")
	}
	base, _ := iceCutoffScenario(t, 1024)
	got := base.FaceDigest(cube.PosX)

	path := filepath.Join("testdata", "scarlett_1024.golden")
	if *update {
		if err := os.WriteFile(path, []byte(got+"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		return
	}
	want, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		t.Fatalf("%s missing; record it with go generate ./internal/pipeline", path)
	}
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(want)) != got {
		t.Fatalf("face %s digest = %s, want %s", cube.PosX, got, strings.TrimSpace(string(want)))
	}
}

func TestNormalScaleFollowsResolution(t *testing.T) {
	p := New(Options{})
	regenerate(t, p, Request{Seed: "Scarlett", Resolution: 128})
	if p.NormalScale() != 0.125 {
		t.Fatalf("normal scale = %v", p.NormalScale())
	}
	if !p.SetFloatParameter("normal_scale", 9) || p.NormalScale() != 4 {
		t.Fatalf("normal scale not clamped: %v", p.NormalScale())
	}
	regenerate(t, p, Request{Seed: "Scarlett", Resolution: 64})
	if p.NormalScale() != 0.0625 {
		t.Fatalf("normal scale not reset: %v", p.NormalScale())
	}
}

func TestMaterialDisplays(t *testing.T) {
	p := New(Options{})
	if _, ok := p.Material(cube.PosX); ok {
		t.Fatal("material bound before first pass")
	}
	pass := regenerate(t, p, Request{Seed: "Scarlett", Resolution: 64})

	m, ok := p.Material(cube.NegZ)
	if !ok || m.Display != DisplayTexture {
		t.Fatalf("default material = %+v", m)
	}
	if m.Map != pass.Albedo[cube.NegZ] || m.NormalMap == nil || m.RoughnessMap == nil {
		t.Fatal("texture display should bind albedo, normal and roughness")
	}
	if m.Roughness != 0.8 || m.Metalness != 0.5 || m.NormalScale != 0.0625 {
		t.Fatalf("material scalars = %v %v %v", m.Roughness, m.Metalness, m.NormalScale)
	}

	for _, d := range Displays()[1:] {
		p.SetDisplay(d)
		m, _ := p.Material(cube.PosY)
		if m.Display != d || m.Map == nil || m.NormalMap != nil {
			t.Fatalf("display %s bound %+v", d, m)
		}
		if b := m.Map.Bounds(); b.Dx() != 64 {
			t.Fatalf("display %s map is %v", d, b)
		}
	}
}

func TestNormalScaleAppliedOnce(t *testing.T) {
	p := New(Options{})
	pass := regenerate(t, p, Request{Seed: "Scarlett", Resolution: 64})

	m, _ := p.Material(cube.PosX)
	if m.NormalMap != pass.Normal[cube.PosX] || m.NormalScale != 0.0625 {
		t.Fatalf("texture display should bind the unit-scale map with the table scale, got %v", m.NormalScale)
	}

	p.SetDisplay(DisplayNormal)
	before, _ := p.Material(cube.PosX)
	p.SetFloatParameter("normal_scale", 4)
	after, _ := p.Material(cube.PosX)
	if after.NormalScale != 4 {
		t.Fatalf("normal scale = %v", after.NormalScale)
	}
	if reflect.DeepEqual(before.Map, after.Map) {
		t.Fatal("normal display ignores the normal scale")
	}
	want := stages.ScaleNormals(pass.Normal[cube.PosX], 4)
	if !reflect.DeepEqual(after.Map, want) {
		t.Fatal("normal display is not the baked map scaled once")
	}
}

func TestParseDisplay(t *testing.T) {
	cases := map[string]Display{
		"":               DisplayTexture,
		"textureMap":     DisplayTexture,
		"heightMap":      DisplayHeight,
		"Moisture":       DisplayMoisture,
		"normalMap":      DisplayNormal,
		"roughness":      DisplayRoughness,
		"temperatureMap": DisplayTemperature,
	}
	for in, want := range cases {
		got, err := ParseDisplay(in)
		if err != nil || got != want {
			t.Fatalf("ParseDisplay(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseDisplay("clouds"); !errors.Is(err, ErrUnknownDisplay) {
		t.Fatalf("err = %v", err)
	}
	d := DisplayTexture
	for range Displays() {
		d = d.Next()
	}
	if d != DisplayTexture {
		t.Fatalf("cycle ended on %s", d)
	}
}

func TestParameters(t *testing.T) {
	p := New(Options{})
	regenerate(t, p, Request{Seed: "Scarlett", Resolution: 64})
	snap := p.Parameters()
	for _, key := range []string{"seed", "state", "resolution", "display", "metalness"} {
		if _, ok := snap.Lookup(key); !ok {
			t.Fatalf("missing parameter %q", key)
		}
	}
	if v, _ := snap.Lookup("state"); v.Value != "ready" {
		t.Fatalf("state = %q", v.Value)
	}
	if p.SetFloatParameter("unknown", 1) {
		t.Fatal("unknown key accepted")
	}
}
