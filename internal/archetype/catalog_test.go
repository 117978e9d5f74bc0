package archetype

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"procplanet/pkg/core"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	if c.Len() == 0 {
		t.Fatal("embedded catalog is empty")
	}
	a, err := c.Lookup("water")
	if err != nil {
		t.Fatalf("Lookup(water): %v", err)
	}
	if a.Name != "Water" || a.Overrides.WaterLevel == nil || *a.Overrides.WaterLevel != 0.62 {
		t.Fatalf("unexpected Water archetype %+v", a)
	}
	if !slices.Contains(c.Names(), "Telluric") {
		t.Fatal("Names should list Telluric")
	}
}

func TestLookupUnknown(t *testing.T) {
	_, err := Default().Lookup("Nonexistent")
	if !errors.Is(err, ErrUnknownArchetype) {
		t.Fatalf("Lookup error = %v, want ErrUnknownArchetype", err)
	}
}

func TestIsNone(t *testing.T) {
	for _, name := range []string{"", "NONE", "none"} {
		if !IsNone(name) {
			t.Fatalf("IsNone(%q) = false", name)
		}
	}
	if IsNone("Water") {
		t.Fatal("IsNone(Water) = true")
	}
}

func TestParseRejectsInvalidDocuments(t *testing.T) {
	cases := map[string]string{
		"missing name":    "archetypes:\n  - seeds: [a]\n",
		"res_mix too big": "archetypes:\n  - name: X\n    overrides:\n      height:\n        res_mix: 2\n",
		"unknown key":     "archetypes:\n  - name: X\n    colour: red\n",
		"reserved name":   "archetypes:\n  - name: none\n",
		"duplicate":       "archetypes:\n  - name: X\n  - name: x\n",
		"not yaml":        "archetypes: [\n",
	}
	for name, doc := range cases {
		if _, err := Parse([]byte(doc)); !errors.Is(err, ErrInvalidCatalog) {
			t.Fatalf("%s: Parse error = %v, want ErrInvalidCatalog", name, err)
		}
	}
}

func TestPickSeed(t *testing.T) {
	c := Default()
	rng := core.NewRNG(3)

	got, err := c.PickSeed("Water", "Deep Harbor", rng)
	if err != nil || got != "Deep Harbor" {
		t.Fatalf("selected seed should be reused, got %q, %v", got, err)
	}

	water, _ := c.Lookup("Water")
	for i := 0; i < 20; i++ {
		got, err = c.PickSeed("Water", "", rng)
		if err != nil {
			t.Fatalf("PickSeed: %v", err)
		}
		if !slices.Contains(water.Seeds, got) {
			t.Fatalf("random seed %q is not a Water seed", got)
		}
	}

	if _, err := c.PickSeed("Nope", "", rng); !errors.Is(err, ErrUnknownArchetype) {
		t.Fatalf("PickSeed unknown = %v", err)
	}

	bare, err := Parse([]byte("archetypes:\n  - name: Bare\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := bare.PickSeed("Bare", "", rng); !errors.Is(err, ErrNoSeeds) {
		t.Fatalf("PickSeed without seeds = %v, want ErrNoSeeds", err)
	}
}

func TestRandomDeterministic(t *testing.T) {
	c := Default()
	a, _ := c.Random(core.NewRNG(11))
	b, _ := c.Random(core.NewRNG(11))
	if a.Name != b.Name {
		t.Fatalf("Random not deterministic: %s vs %s", a.Name, b.Name)
	}
}

func TestOpenLocalAndFetched(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "custom.yaml")
	doc := "archetypes:\n  - name: Custom\n    seeds: [One]\n    overrides:\n      ice_cutoff: 0.3\n"
	if err := os.WriteFile(src, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Open(context.Background(), src, "")
	if err != nil {
		t.Fatalf("Open local: %v", err)
	}
	if _, err := c.Lookup("custom"); err != nil {
		t.Fatalf("Lookup(custom): %v", err)
	}

	dst := filepath.Join(dir, "cache", "fetched.yaml")
	if err := Fetch(context.Background(), src, dst); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	fetched, err := Load(dst)
	if err != nil {
		t.Fatalf("Load fetched: %v", err)
	}
	if fetched.Len() != 1 {
		t.Fatalf("fetched catalog has %d entries", fetched.Len())
	}

	def, err := Open(context.Background(), "", "")
	if err != nil || def.Len() != Default().Len() {
		t.Fatalf("Open(\"\") should return the embedded catalog: %v", err)
	}
}
