// Package storage holds the Postgres stores and the file-backed trending
// snapshot cache.
package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

// Connect opens the connection pool and verifies it with a ping.
func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.Connect(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	return pool, nil
}

// EnsureSchema creates the tables the service needs. Idempotent; run at
// startup.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			full_name TEXT NOT NULL,
			hashed_password TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS trend_analyses (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			query TEXT NOT NULL,
			platform TEXT NOT NULL DEFAULT 'youtube',
			trend_strength DOUBLE PRECISION,
			trend_direction TEXT,
			summary TEXT,
			insights TEXT,
			recommendations TEXT,
			metrics TEXT,
			full_response TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trend_analyses_user_id ON trend_analyses (user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_trend_analyses_query ON trend_analyses (query)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}
