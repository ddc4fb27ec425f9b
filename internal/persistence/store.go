package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/staff-portal/internal/config"
	"github.com/spec-kit/staff-portal/internal/repository"
	"github.com/spec-kit/staff-portal/internal/repository/memory"
	"github.com/spec-kit/staff-portal/internal/repository/mongodb"
	"github.com/spec-kit/staff-portal/internal/seed"
)

// Store is an opened persistence backend and its repositories.
type Store struct {
	Driver   string
	Repos    repository.Set
	Postgres *Postgres
	Mongo    *Mongo
}

// OpenStore connects the configured backend. Postgres runs migrations when enabled,
// Mongo ensures its indexes, and memory loads the demo roster when enabled.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	driver := cfg.Store.ResolvedDriver(cfg)
	switch driver {
	case config.StorePostgres:
		if cfg.Postgres.RunMigrations {
			if err := RunMigrations(cfg.Postgres.DSN, cfg.Postgres.MigrationsDir, logger); err != nil {
				return nil, err
			}
		}
		pg, err := NewPostgres(ctx, cfg.Postgres, cfg.App.Name, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return &Store{Driver: driver, Repos: repository.NewPostgresSet(pg.Pool), Postgres: pg}, nil

	case config.StoreMongo:
		m, err := NewMongo(ctx, cfg.Mongo, logger)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		if err := mongodb.EnsureIndexes(ctx, m.DB); err != nil {
			m.Close(context.Background())
			return nil, err
		}
		return &Store{Driver: driver, Repos: mongodb.NewSet(m.DB), Mongo: m}, nil

	case config.StoreMemory:
		repos := memory.NewSet(cfg.Store.MemoryLogLimit)
		if cfg.Store.SeedDemoStaff {
			if _, err := seed.Provision(ctx, repos.Staff, seed.DemoRoster(), logger); err != nil {
				return nil, err
			}
		}
		logger.Warn("using in-memory store; state is lost on restart")
		return &Store{Driver: driver, Repos: repos}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

// Close releases backend connections.
func (s *Store) Close(ctx context.Context) {
	if s == nil {
		return
	}
	if s.Postgres != nil {
		s.Postgres.Close()
	}
	if s.Mongo != nil {
		s.Mongo.Close(ctx)
	}
}
