package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/forosuite/foro/internal/bootstrap"
	"github.com/forosuite/foro/internal/config"
	"github.com/forosuite/foro/internal/server"
	"github.com/forosuite/foro/pkg/database"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	if cfg.AppEnv == "development" {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	db := database.Connect()
	if err := bootstrap.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	if err := bootstrap.SeedCategorias(db); err != nil {
		log.Fatalf("failed to seed categories: %v", err)
	}
	if cfg.AppEnv == "development" {
		if err := bootstrap.SeedAdminUsuario(db); err != nil {
			log.Fatalf("failed to seed admin user: %v", err)
		}
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
	}

	srv := server.NewServer(db, redisClient, cfg, logger)

	logger.Info("servidor iniciado", "port", cfg.Port, "env", cfg.AppEnv)
	if err := srv.Run(); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}
