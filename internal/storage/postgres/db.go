// Package postgres provides the durable implementations of the storage
// interfaces on PostgreSQL via pgx. Schema lives in schema.sql.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config creates a pgxpool.Config with pool settings tuned for this
// application's small, bursty query load.
func Config(dsn string) (*pgxpool.Config, error) {
	const defaultMaxConns = int32(4)
	const defaultMinConns = int32(1)
	const defaultMaxConnLifetime = 10 * time.Minute
	const defaultMaxConnIdleTime = 5 * time.Minute
	const defaultHealthCheckPeriod = time.Minute
	const defaultConnectTimeout = 5 * time.Second

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing dsn: %w", err)
	}

	config.MaxConns = defaultMaxConns
	config.MinConns = defaultMinConns
	config.MaxConnLifetime = defaultMaxConnLifetime
	config.MaxConnIdleTime = defaultMaxConnIdleTime
	config.HealthCheckPeriod = defaultHealthCheckPeriod
	config.ConnConfig.ConnectTimeout = defaultConnectTimeout
	return config, nil
}

// NewPool creates a PostgreSQL connection pool from a DSN.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	config, err := Config(dsn)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	return pool, nil
}
