package bakeindex

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestRecordLookupRecent(t *testing.T) {
	ctx := context.Background()
	idx, err := Open(filepath.Join(t.TempDir(), "db", "bakes.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer idx.Close()

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	entries := []Entry{
		{Digest: "aa", Seed: "Scarlett", Resolution: 1024, Hash: 1<<63 + 5, OutDir: "out/a", Format: "png", IceFraction: 0.1, CreatedAt: base},
		{Digest: "bb", Seed: "Thalassa", Archetype: "Water", Resolution: 256, Hash: 42, OutDir: "out/b", Format: "tiff", Dumps: true, CreatedAt: base.Add(time.Minute)},
	}
	for _, e := range entries {
		if err := idx.Record(ctx, e); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	got, ok, err := idx.Lookup(ctx, "aa")
	if err != nil || !ok {
		t.Fatalf("Lookup = %v, %v", ok, err)
	}
	if !got.CreatedAt.Equal(entries[0].CreatedAt) {
		t.Fatalf("created = %v, want %v", got.CreatedAt, entries[0].CreatedAt)
	}
	got.CreatedAt = entries[0].CreatedAt
	if got != entries[0] {
		t.Fatalf("Lookup = %+v, want %+v", got, entries[0])
	}
	if _, ok, err := idx.Lookup(ctx, "zz"); ok || err != nil {
		t.Fatalf("missing digest: ok=%v err=%v", ok, err)
	}

	recent, err := idx.Recent(ctx, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 || recent[0].Digest != "bb" {
		t.Fatalf("recent = %+v", recent)
	}

	// Re-recording a digest replaces it.
	entries[0].OutDir = "out/c"
	if err := idx.Record(ctx, entries[0]); err != nil {
		t.Fatal(err)
	}
	got, _, _ = idx.Lookup(ctx, "aa")
	if got.OutDir != "out/c" {
		t.Fatalf("out dir = %q", got.OutDir)
	}
}

func TestEntryCovers(t *testing.T) {
	cases := []struct {
		e      Entry
		format string
		dumps  bool
		want   bool
	}{
		{Entry{Format: "png"}, "png", false, true},
		{Entry{Format: "png"}, "png", true, false},
		{Entry{Format: "png", Dumps: true}, "png", false, true},
		{Entry{Format: "png", Dumps: true}, "tiff", false, false},
	}
	for _, c := range cases {
		if got := c.e.Covers(c.format, c.dumps); got != c.want {
			t.Errorf("%+v.Covers(%q, %v) = %v, want %v", c.e, c.format, c.dumps, got, c.want)
		}
	}
}

func TestRecordRejectsEmptyDigest(t *testing.T) {
	idx, err := Open(filepath.Join(t.TempDir(), "bakes.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()
	if err := idx.Record(context.Background(), Entry{Seed: "x"}); err == nil {
		t.Fatal("empty digest accepted")
	}
}

func TestOpenEmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatal("expected error")
	}
}
