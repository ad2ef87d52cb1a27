package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// PostgresStore keeps values in the kv_store table.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgresStore creates a store on an existing pool. The schema from
// database.Migrate must already be applied.
func NewPostgresStore(pool *pgxpool.Pool, logger zerolog.Logger) *PostgresStore {
	return &PostgresStore{
		pool:   pool,
		logger: logger.With().Str("store", "postgres").Logger(),
	}
}

// Get returns the value under key.
func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT value FROM kv_store WHERE key = $1`

	var value []byte
	err := s.pool.QueryRow(ctx, query, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to get value")
		return nil, fmt.Errorf("failed to get value: %w", err)
	}

	return value, nil
}

// Set upserts value under key.
func (s *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`

	if _, err := s.pool.Exec(ctx, query, key, value); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to set value")
		return fmt.Errorf("failed to set value: %w", err)
	}

	s.logger.Debug().Str("key", key).Int("bytes", len(value)).Msg("value stored")
	return nil
}

// Remove deletes key.
func (s *PostgresStore) Remove(ctx context.Context, key string) error {
	query := `DELETE FROM kv_store WHERE key = $1`

	if _, err := s.pool.Exec(ctx, query, key); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to remove value")
		return fmt.Errorf("failed to remove value: %w", err)
	}
	return nil
}
