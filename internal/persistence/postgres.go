package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spec-kit/staff-portal/internal/config"
)

const (
	defaultPGMaxConns          = 4
	defaultPGHealthCheckPeriod = 30 * time.Second
	defaultPGConnectTimeout    = 5 * time.Second
)

// Postgres owns the pool behind the staff, credential override and login log tables.
type Postgres struct {
	Pool *pgxpool.Pool
}

// PoolConfig parses the DSN and sizes the pool for the staff tables.
// MinConns never exceeds MaxConns.
func PoolConfig(cfg config.PostgresConfig, appName string) (*pgxpool.Config, error) {
	if cfg.DSN == "" {
		return nil, errors.New("postgres dsn is empty")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}

	poolCfg.MaxConns = defaultPGMaxConns
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	poolCfg.MinConns = min(max(cfg.MinConns, 0), poolCfg.MaxConns)
	if cfg.ConnMaxIdleSec > 0 {
		poolCfg.MaxConnIdleTime = time.Duration(cfg.ConnMaxIdleSec) * time.Second
	}
	if cfg.ConnMaxLifeSec > 0 {
		poolCfg.MaxConnLifetime = time.Duration(cfg.ConnMaxLifeSec) * time.Second
	}
	poolCfg.HealthCheckPeriod = defaultPGHealthCheckPeriod

	if poolCfg.ConnConfig.ConnectTimeout == 0 {
		poolCfg.ConnConfig.ConnectTimeout = defaultPGConnectTimeout
	}
	if _, ok := poolCfg.ConnConfig.RuntimeParams["application_name"]; !ok && appName != "" {
		poolCfg.ConnConfig.RuntimeParams["application_name"] = appName
	}
	return poolCfg, nil
}

// NewPostgres opens and pings the pool.
func NewPostgres(ctx context.Context, cfg config.PostgresConfig, appName string, logger *zap.Logger) (*Postgres, error) {
	poolCfg, err := PoolConfig(cfg, appName)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("connected to postgres",
		zap.Int32("max_conns", poolCfg.MaxConns),
		zap.Int32("min_conns", poolCfg.MinConns),
	)
	return &Postgres{Pool: pool}, nil
}

// Close releases pool resources.
func (p *Postgres) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}

// Ping verifies database connectivity for the readiness probe.
func (p *Postgres) Ping(ctx context.Context) error {
	if p == nil || p.Pool == nil {
		return errors.New("postgres pool not configured")
	}
	return p.Pool.Ping(ctx)
}
