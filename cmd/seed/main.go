package main

import (
	"context"
	"os"

	"escaperoom/config"
	"escaperoom/di"
	"escaperoom/helper"
	"escaperoom/shared/logger"

	"github.com/rs/zerolog/log"
)

const (
	argLength = 2
)

func main() {
	logger.InitLogger()

	cfg := config.Get()
	logger.SetLogLevel(cfg)

	path := cfg.Booking.SeedPath
	if len(os.Args) >= argLength {
		path = os.Args[1]
	}

	if err := helper.Seed(context.Background(), di.InitializeRoomSeeder(), path); err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Seeding failed")
	}
}
