package db

import (
	"context"
	"fmt"
	"time"

	"crowdfund/pkg/types"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// SearchPath is used when the database URL does not set its own.
const SearchPath = "crowdfund"

const pingTimeout = 5 * time.Second

// Connect opens a pool against config.DatabaseURL and pings it.
func Connect(ctx context.Context, config *types.Config, logger *logrus.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := newPoolConfig(config)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"host":        poolConfig.ConnConfig.Host,
		"database":    poolConfig.ConnConfig.Database,
		"search_path": poolConfig.ConnConfig.RuntimeParams["search_path"],
		"max_conns":   poolConfig.MaxConns,
	}).Debug("connected to database")

	return pool, nil
}

func newPoolConfig(config *types.Config) (*pgxpool.Config, error) {
	if config.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	poolConfig, err := pgxpool.ParseConfig(config.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}

	if poolConfig.ConnConfig.RuntimeParams["search_path"] == "" {
		poolConfig.ConnConfig.RuntimeParams["search_path"] = SearchPath
	}

	if config.DatabaseMaxConns > 0 {
		poolConfig.MaxConns = config.DatabaseMaxConns
	}
	poolConfig.MaxConnIdleTime = 15 * time.Minute
	poolConfig.MaxConnLifetime = 45 * time.Minute

	return poolConfig, nil
}
