package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"tenlog/internal/models"
)

// createTableSQL bootstraps the processed_logs table. The composite primary
// key (tenant_id, log_id) is the storage key: it enforces one record per
// logical submission and partitions every row by tenant.
const createTableSQL = `
CREATE TABLE IF NOT EXISTS processed_logs (
    tenant_id     TEXT        NOT NULL,
    log_id        TEXT        NOT NULL,
    source        TEXT        NOT NULL,
    original_text TEXT        NOT NULL,
    modified_data TEXT        NOT NULL,
    processed_at  TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (tenant_id, log_id)
)`

// upsertSQL overwrites the row in place on conflict. A retry recomputes the
// same derived fields from the same input, so the final state is identical
// regardless of how many deliveries raced here.
const upsertSQL = `
INSERT INTO processed_logs (tenant_id, log_id, source, original_text, modified_data, processed_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (tenant_id, log_id) DO UPDATE SET
    source        = EXCLUDED.source,
    original_text = EXCLUDED.original_text,
    modified_data = EXCLUDED.modified_data,
    processed_at  = EXCLUDED.processed_at`

// PostgresStore implements the Store interface backed by a pgx connection pool
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgresStore creates a connection pool and verifies connectivity
func NewPostgresStore(ctx context.Context, dsn string, maxConns, minConns int, logger *log.Logger) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid database DSN: %w", err)
	}

	if maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}
	if minConns > 0 {
		poolCfg.MinConns = int32(minConns)
	}
	poolCfg.MaxConnIdleTime = 1 * time.Hour
	poolCfg.MaxConnLifetime = 24 * time.Hour

	pool, err := pgxpool.ConnectConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	logger.Printf("Database connection pool established (max: %d, min: %d)", poolCfg.MaxConns, poolCfg.MinConns)

	return &PostgresStore{pool: pool, logger: logger}, nil
}

// EnsureSchema creates the processed_logs table if it does not exist
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to ensure processed_logs schema: %w", err)
	}
	return nil
}

// WriteProcessedLog implements the Store interface with a single upsert
// statement, making the write all-or-nothing per attempt.
func (s *PostgresStore) WriteProcessedLog(ctx context.Context, tenantID, logID string, rec *models.ProcessedLog) error {
	if tenantID == "" || logID == "" {
		return fmt.Errorf("refusing to write record without tenant_id and log_id")
	}

	_, err := s.pool.Exec(ctx, upsertSQL,
		tenantID,
		logID,
		string(rec.Source),
		rec.OriginalText,
		rec.ModifiedData,
		rec.ProcessedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert processed log (tenant_id: %s, log_id: %s): %w", tenantID, logID, err)
	}

	return nil
}

// Close closes the connection pool
func (s *PostgresStore) Close() {
	s.logger.Println("Closing database connection pool...")
	s.pool.Close()
}

var _ Store = (*PostgresStore)(nil) // Compile-time interface check
