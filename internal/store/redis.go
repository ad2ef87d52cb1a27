package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisStore keeps values as plain Redis strings under a key prefix.
type RedisStore struct {
	client *redis.Client
	prefix string
	logger zerolog.Logger
}

// NewRedisStore creates a store on an existing client.
func NewRedisStore(client *redis.Client, prefix string, logger zerolog.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: prefix,
		logger: logger.With().Str("store", "redis").Logger(),
	}
}

func (s *RedisStore) key(key string) string {
	return s.prefix + key
}

// Get returns the value under key.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to get value")
		return nil, fmt.Errorf("failed to get value: %w", err)
	}
	return value, nil
}

// Set stores value under key without expiry.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to set value")
		return fmt.Errorf("failed to set value: %w", err)
	}
	return nil
}

// Remove deletes key.
func (s *RedisStore) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to remove value")
		return fmt.Errorf("failed to remove value: %w", err)
	}
	return nil
}
