package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/danmuck/rasterctl/internal/observability"
	"github.com/danmuck/rasterctl/internal/receiver"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "cmd/displayd/config.toml", "path to displayd TOML config")
	flag.Parse()

	observability.InitLogger("displayd")
	cfg, err := loadServiceConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load displayd config")
	}
	log.Info().Str("path", *configPath).Msg("loaded displayd config")

	svc, err := receiver.NewService(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build receiver")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("udp", cfg.UDPAddr).
		Str("admin", cfg.AdminAddr).
		Int("width", cfg.Width).
		Int("height", cfg.Height).
		Msg("displayd started")
	if err := svc.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("displayd stopped")
	}
	log.Info().Msg("displayd stopped")
}
