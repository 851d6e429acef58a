package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/pageza/nutrilens/backend/config"
	"github.com/pageza/nutrilens/backend/internal/database"
	"github.com/pageza/nutrilens/backend/internal/logger"
	"github.com/pageza/nutrilens/backend/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.Init(cfg.LogLevel, cfg.LogFormat)
	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.UsingDevSecret() {
		log.Warn().Msg("JWT_SECRET not set, using the development signing key")
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	deps := server.Dependencies{DB: db}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		// Continue without rate limiting if Redis is not available
		log.Warn().Err(err).Msg("failed to connect to Redis, rate limiting disabled")
	} else if redisClient != nil {
		deps.Redis = redisClient
		defer redisClient.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if cfg.OCREngine == "rekognition" {
		if client, err := cfg.NewRekognitionClient(ctx); err != nil {
			log.Warn().Err(err).Msg("Rekognition unavailable")
		} else {
			deps.Rekognition = client
		}
	}
	if deps.S3, err = cfg.NewS3Config(ctx); err != nil {
		log.Warn().Err(err).Msg("label archive unavailable")
		deps.S3 = nil
	}
	cancel()

	srv := server.New(cfg, deps)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive a signal or error
	select {
	case err := <-errChan:
		if err != nil {
			log.Fatal().Err(err).Msg("server error")
		}
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("received signal")
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server shutdown error")
	}
	log.Info().Msg("server stopped")
}
