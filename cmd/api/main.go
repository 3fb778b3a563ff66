package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"library-backend/internal/config"
	"library-backend/pkg/logger"
)

func main() {
	// Load từ .env file (development/local)
	// Production dùng system environment variables
	envFileErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Init("development", "info")
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	logger.Init(cfg.App.Environment, cfg.App.LogLevel)
	if envFileErr != nil {
		log.Info().Msg("No .env file found, using system environment variables")
	}

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info().
		Str("env", cfg.App.Environment).
		Str("version", cfg.App.Version).
		Msg("Starting " + cfg.App.Name)

	if err := Serve(cfg); err != nil {
		log.Error().Err(err).Msg("Server stopped with error")
		os.Exit(1)
	}
}
