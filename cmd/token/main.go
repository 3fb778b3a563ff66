// Command token mint một access token cho thủ thư, dùng khi chưa có luồng login
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"library-backend/internal/config"
	"library-backend/pkg/jwt"
	"library-backend/pkg/logger"
)

func main() {
	staffID := flag.String("staff", "librarian-1", "staff id (subject)")
	email := flag.String("email", "librarian@library.local", "staff email")
	role := flag.String("role", "librarian", "role: librarian | admin")
	expiry := flag.Duration("expiry", 0, "token lifetime, mặc định lấy JWT_ACCESS_EXPIRY")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Init("development", "info")
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	logger.Init("development", cfg.App.LogLevel)

	ttl := *expiry
	if ttl <= 0 {
		ttl = time.Duration(cfg.JWT.AccessTokenExpiry) * time.Hour
	}

	token, err := jwt.NewManager(cfg.JWT.Secret, ttl).GenerateAccessToken(*staffID, *email, *role)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to sign token")
	}

	log.Info().Str("staff_id", *staffID).Str("role", *role).Dur("expiry", ttl).Msg("Token issued")
	fmt.Fprintln(os.Stdout, token)
}
