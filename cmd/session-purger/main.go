package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/crafty-aquatics/storefront/internal/app/api"
	userpostgres "github.com/crafty-aquatics/storefront/internal/domains/users/adapters/persistence/postgres"
	"github.com/crafty-aquatics/storefront/internal/platform/migrations"
	platformpostgres "github.com/crafty-aquatics/storefront/internal/platform/postgres"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if cfg.PostgresDSN == "" {
		log.Fatal("POSTGRES_DSN not set; cannot purge sessions")
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN, cfg.ConnectTimeout)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer platformpostgres.Close(db)
	if err := migrations.Run(db); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}

	store := userpostgres.NewSessionStore(db, cfg.SessionTTL)
	purged, err := store.PurgeExpired(ctx)
	if err != nil {
		log.Fatalf("failed to purge sessions: %v", err)
	}
	logger.Info("session purge completed", slog.Int64("purged", purged))
}
