package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort       string
	DatabaseURL   string
	MigrationsDir string
	SessionTTL    time.Duration
	OtpTTL        time.Duration
	AllowOrigins  []string
}

func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	appPort := os.Getenv("APP_PORT")
	if appPort == "" {
		appPort = "8080"
	}

	migrationsDir := os.Getenv("MIGRATIONS_DIR")
	if migrationsDir == "" {
		migrationsDir = "./migrations"
	}

	sessionTTL := durationFromEnv("SESSION_TTL_MINUTES", 30*time.Minute, time.Minute)
	otpTTL := durationFromEnv("OTP_TTL_SECONDS", 300*time.Second, time.Second)

	origins := []string{"*"}
	if v := os.Getenv("FRONTEND_URL"); v != "" {
		origins = []string{v}
	}

	return &Config{
		AppPort:       appPort,
		DatabaseURL:   dbURL,
		MigrationsDir: migrationsDir,
		SessionTTL:    sessionTTL,
		OtpTTL:        otpTTL,
		AllowOrigins:  origins,
	}, nil
}

func durationFromEnv(key string, fallback, unit time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return time.Duration(n) * unit
}
