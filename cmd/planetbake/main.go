package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"slices"
	"strings"

	"procplanet/internal/archetype"
	"procplanet/internal/bake"
	"procplanet/internal/bakeindex"
	"procplanet/internal/config"
	"procplanet/internal/export"
	"procplanet/internal/pipeline"
	"procplanet/internal/seed"
	"procplanet/internal/settings"
	pcg "procplanet/pkg/core"
)

type kvList []string

func (l *kvList) String() string {
	return strings.Join(*l, ",")
}

func (l *kvList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

func main() {
	configPath := flag.String("config", "", "YAML config file")
	seeds := flag.String("seeds", "", "comma-separated seeds to bake (default: -seed)")
	random := flag.Int("random", 0, "additionally bake this many random seeds")
	workers := flag.Int("workers", runtime.NumCPU()/2, "passes baked in parallel")
	recent := flag.Int("recent", 0, "list the most recent bakes and exit")
	var sets kvList
	flag.Var(&sets, "set", "settings override in key=value form (repeatable)")
	flags := config.DefaultConfig()
	flags.Bind(flag.CommandLine)
	flag.Parse()

	cfg, err := config.Layered(*configPath, flags, flag.CommandLine)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	index, err := bakeindex.Open(cfg.Index)
	if err != nil {
		log.Fatalf("open index: %v", err)
	}
	defer index.Close()

	if *recent > 0 {
		entries, err := index.Recent(ctx, *recent)
		if err != nil {
			log.Fatalf("recent: %v", err)
		}
		for _, e := range entries {
			fmt.Printf("%s  %-24s %-12s %5d  ice=%.3f  %s\n", e.Digest[:12], e.Seed, e.Archetype, e.Resolution, e.IceFraction, e.OutDir)
		}
		return
	}

	overrides := cfg.Overrides()
	for _, kv := range sets {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			log.Fatalf("bad -set %q, want key=value", kv)
		}
		if overrides, err = overrides.Set(key, value); err != nil {
			log.Fatalf("-set %s: %v", kv, err)
		}
	}

	catalog, err := archetype.Open(ctx, cfg.Catalog, cfg.CacheDir)
	if err != nil {
		log.Fatalf("catalog: %v", err)
	}
	deriver := seed.NewDeriver(catalog, logger)

	format, err := export.ParseFormat(cfg.Format)
	if err != nil {
		log.Fatal(err)
	}
	baker := bake.New(deriver, index, bake.Options{
		OutDir:  cfg.OutDir,
		Export:  export.Options{Format: format, Dumps: cfg.Dumps},
		Force:   cfg.Force,
		Workers: *workers,
	}, logger)

	results, err := baker.Run(ctx, requests(cfg, *seeds, *random, overrides, deriver))
	for _, r := range results {
		if r.Digest == "" {
			continue
		}
		status := "baked"
		if r.Skipped {
			status = "skipped"
		}
		fmt.Printf("%-8s %s  %s\n", status, r.Digest[:12], r.Dir)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func requests(cfg config.Config, list string, random int, o settings.Overrides, d *seed.Deriver) []pipeline.Request {
	base := cfg.Request()
	base.Overrides = o
	var names []string
	for _, s := range strings.Split(list, ",") {
		if s = strings.TrimSpace(s); s != "" {
			names = append(names, s)
		}
	}
	if len(names) == 0 && random == 0 {
		names = append(names, cfg.Seed)
	}
	rng := pcg.NewRNG(seed.Hash(cfg.Seed))
	// Catalog seeds repeat; duplicates would bake into the same directory.
	for added, tries := 0, 0; added < random && tries < random*8; tries++ {
		s := d.RandomSeed(rng, cfg.Archetype)
		if slices.Contains(names, s) {
			continue
		}
		names = append(names, s)
		added++
	}
	out := make([]pipeline.Request, len(names))
	for i, n := range names {
		out[i] = base
		out[i].Seed = n
	}
	return out
}
