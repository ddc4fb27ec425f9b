// Command seed provisions the demo staff roster into the configured store.
package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/staff-portal/internal/config"
	"github.com/spec-kit/staff-portal/internal/observability"
	"github.com/spec-kit/staff-portal/internal/persistence"
	"github.com/spec-kit/staff-portal/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	driver := cfg.Store.ResolvedDriver(cfg)
	if driver == config.StoreMemory {
		logger.Fatal("seed requires a durable store; set POSTGRES_DSN or MONGODB_URI")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store, err := persistence.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer store.Close(context.Background())

	created, err := seed.Provision(ctx, store.Repos.Staff, seed.DemoRoster(), logger)
	if err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}
	logger.Info("seed complete", zap.String("driver", driver), zap.Int("created", created))
}
