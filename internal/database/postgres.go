package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"eshop-catalog/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

// PostgresService owns the pgx connection pool shared by all requests
type PostgresService struct {
	pool *pgxpool.Pool
	db   *sql.DB
}

// NewPostgres opens a pgx pool and pings the server before returning
func NewPostgres(ctx context.Context, cfg config.DatabaseConfig) (*PostgresService, error) {
	return NewPostgresFromDSN(ctx, cfg.DSN())
}

// NewPostgresFromDSN opens a pgx pool for a connection string
func NewPostgresFromDSN(ctx context.Context, dsn string) (*PostgresService, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return &PostgresService{
		pool: pool,
		db:   stdlib.OpenDBFromPool(pool),
	}, nil
}

// Pool returns the pgx pool used by the repository
func (s *PostgresService) Pool() *pgxpool.Pool {
	return s.pool
}

// DB returns a database/sql view of the pool for goose
func (s *PostgresService) DB() *sql.DB {
	return s.db
}

// Health pings the server and reports pool and schema state
func (s *PostgresService) Health(ctx context.Context) map[string]string {
	stats := map[string]string{"driver": "postgres"}

	if err := s.pool.Ping(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = err.Error()
		return stats
	}

	stats["status"] = "up"
	poolStats := s.pool.Stat()
	stats["open_connections"] = strconv.Itoa(int(poolStats.TotalConns()))
	stats["idle_connections"] = strconv.Itoa(int(poolStats.IdleConns()))

	if version, err := SchemaVersion(ctx, s.db); err == nil {
		stats["schema_version"] = strconv.FormatInt(version, 10)
	}

	return stats
}

// Close releases the sql.DB wrapper and the pool
func (s *PostgresService) Close(ctx context.Context) error {
	err := s.db.Close()
	s.pool.Close()
	if err != nil {
		return fmt.Errorf("failed to close postgres: %w", err)
	}
	return nil
}
