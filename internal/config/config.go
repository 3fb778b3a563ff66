package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config chứa toàn bộ application configuration
// Struct này được populate từ environment variables
type Config struct {
	App     AppConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Lending LendingConfig
	CORS    CORSConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	LogLevel    string
}

type RedisConfig struct {
	Enabled        bool
	Host           string
	Password       string
	DB             int
	IdempotencyTTL time.Duration
}

type JWTConfig struct {
	Enabled           bool
	Secret            string
	AccessTokenExpiry int // hours
}

// LendingConfig override các rule mặc định của lending policy
type LendingConfig struct {
	FinePerDay     decimal.Decimal
	MaxOpenIssues  int
	LoanPeriodDays int
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Load đọc config từ environment variables
func Load() (*Config, error) {
	finePerDay, err := decimal.NewFromString(getEnv("LENDING_FINE_PER_DAY", "5.00"))
	if err != nil {
		return nil, fmt.Errorf("invalid LENDING_FINE_PER_DAY: %w", err)
	}

	idempotencyTTL, err := time.ParseDuration(getEnv("IDEMPOTENCY_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid IDEMPOTENCY_TTL: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Library API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Redis: RedisConfig{
			Enabled:        getEnvBool("REDIS_ENABLED", true),
			Host:           getEnv("REDIS_HOST", "localhost:6379"),
			Password:       getEnv("REDIS_PASSWORD", ""),
			DB:             getEnvInt("REDIS_DB", 0),
			IdempotencyTTL: idempotencyTTL,
		},
		JWT: JWTConfig{
			Enabled:           getEnvBool("AUTH_ENABLED", true),
			Secret:            getEnv("JWT_SECRET", defaultJWTSecret),
			AccessTokenExpiry: getEnvInt("JWT_ACCESS_EXPIRY", 12),
		},
		Lending: LendingConfig{
			FinePerDay:     finePerDay,
			MaxOpenIssues:  getEnvInt("LENDING_MAX_OPEN_ISSUES", 5),
			LoanPeriodDays: getEnvInt("LENDING_LOAN_PERIOD_DAYS", 14),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		},
	}

	// Validate critical config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate kiểm tra config có hợp lệ không
func (c *Config) Validate() error {
	if c.Lending.FinePerDay.IsNegative() {
		return fmt.Errorf("LENDING_FINE_PER_DAY must not be negative")
	}
	if c.Lending.MaxOpenIssues <= 0 {
		return fmt.Errorf("LENDING_MAX_OPEN_ISSUES must be positive")
	}
	if c.Lending.LoanPeriodDays <= 0 {
		return fmt.Errorf("LENDING_LOAN_PERIOD_DAYS must be positive")
	}
	if c.JWT.AccessTokenExpiry <= 0 {
		return fmt.Errorf("JWT_ACCESS_EXPIRY must be positive")
	}

	// Production environment phải có JWT secret
	if c.App.Environment == "production" && c.JWT.Enabled && c.JWT.Secret == defaultJWTSecret {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
