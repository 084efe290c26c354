package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string

	RedisURL string

	JWTSecret string

	RateLimitTema    time.Duration
	RateLimitMensaje time.Duration
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		RedisURL: os.Getenv("REDIS_URL"),

		JWTSecret: getEnv("JWT_SECRET", "12345"),
	}

	var err error
	cfg.RateLimitTema, err = time.ParseDuration(getEnv("RATE_LIMIT_TEMA", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_TEMA: %w", err)
	}
	cfg.RateLimitMensaje, err = time.ParseDuration(getEnv("RATE_LIMIT_MENSAJE", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_MENSAJE: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
