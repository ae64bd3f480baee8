// Package storage provides the PostgreSQL history store for Kotae.
//
// The store is an append-only audit log: one row per answered query, keyed
// by query_id, never updated or deleted by the service. The table name is
// configurable so deployments can point Kotae at a pre-provisioned table.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a pgxpool.Pool and the identifier of the history table.
type DB struct {
	pool   *pgxpool.Pool
	table  string // sanitized once at construction, safe to interpolate
	logger *slog.Logger
}

// New creates a new DB with a connection pool and verifies connectivity.
func New(ctx context.Context, dsn, historyTable string, logger *slog.Logger) (*DB, error) {
	if historyTable == "" {
		return nil, fmt.Errorf("storage: history table name is required")
	}

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: parse DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("storage: create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("storage: ping pool: %w", err)
	}

	return &DB{
		pool:   pool,
		table:  pgx.Identifier{historyTable}.Sanitize(),
		logger: logger,
	}, nil
}

// Pool returns the underlying connection pool for use by other packages.
func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

// Ping checks connectivity to the database.
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// Close shuts down the connection pool.
func (db *DB) Close() {
	db.pool.Close()
}
