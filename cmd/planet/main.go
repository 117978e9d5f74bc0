//go:build ebiten

package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"

	"procplanet/internal/app"
	"procplanet/internal/archetype"
	"procplanet/internal/config"
	"procplanet/internal/seed"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	flags := config.DefaultConfig()
	flags.Bind(flag.CommandLine)
	flag.Parse()

	cfg, err := config.Layered(*configPath, flags, flag.CommandLine)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	catalog, err := archetype.Open(context.Background(), cfg.Catalog, cfg.CacheDir)
	if err != nil {
		log.Fatalf("catalog: %v", err)
	}

	ctrl := app.NewController(cfg, seed.NewDeriver(catalog, logger), logger)
	game := app.New(ctrl, cfg.Scale)

	ebiten.SetWindowTitle("procplanet")
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(game.Layout(0, 0))

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
