package main

import (
	"github.com/rs/zerolog/log"

	"github.com/pageza/nutrilens/backend/config"
	"github.com/pageza/nutrilens/backend/internal/database"
	"github.com/pageza/nutrilens/backend/internal/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := database.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	log.Info().Msg("all migrations applied successfully")
}
