package main

import (
	"escaperoom/config"
	"escaperoom/di"
	"escaperoom/helper"
	"escaperoom/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title Escape Room Booking API
// @version 1.0
// @description Room holds, confirmations and availability for escape room sessions.
// @BasePath /
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Auto migration failed")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
