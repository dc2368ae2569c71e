package database

import (
	"context"
	"fmt"
	"time"

	"teslo-catalog/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool creates a pgxpool.Pool from the database configuration and
// verifies connectivity before returning it.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// Health returns basic pool statistics for the health endpoint
func Health(pool *pgxpool.Pool) map[string]any {
	stats := pool.Stat()
	return map[string]any{
		"status":            "up",
		"total_conns":       stats.TotalConns(),
		"idle_conns":        stats.IdleConns(),
		"acquired_conns":    stats.AcquiredConns(),
		"max_conns":         stats.MaxConns(),
		"new_conns_count":   stats.NewConnsCount(),
		"acquire_count":     stats.AcquireCount(),
		"canceled_acquires": stats.CanceledAcquireCount(),
	}
}
