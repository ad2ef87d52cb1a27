package store

import (
	"context"
	"fmt"
	"time"

	"gofresh/internal/config"
	"gofresh/internal/database"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Open builds the store selected by cfg.Store.Driver. The returned close
// function releases any connection the store holds.
func Open(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (Store, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		logger.Warn().Msg("using in-memory store, state is lost on restart")
		return NewMemoryStore(), func() {}, nil

	case config.StoreDriverFile:
		s, err := NewFileStore(cfg.Store.FilePath, logger)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil

	case config.StoreDriverPostgres:
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return NewPostgresStore(pool, logger), pool.Close, nil

	case config.StoreDriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}

		logger.Info().Str("addr", cfg.Redis.Addr).Int("db", cfg.Redis.DB).Msg("redis connection established")
		closeFn := func() {
			if err := client.Close(); err != nil {
				logger.Error().Err(err).Msg("failed to close redis connection")
			}
		}
		return NewRedisStore(client, cfg.Redis.Prefix, logger), closeFn, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver: %s", cfg.Store.Driver)
	}
}
