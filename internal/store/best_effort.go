package store

import (
	"context"
	"errors"

	"gofresh/internal/metrics"
	"gofresh/internal/model"

	"github.com/rs/zerolog"
)

// BestEffort treats a Store as a cache rather than a source of truth:
// faults are logged and counted, never returned to the caller.
type BestEffort struct {
	store   Store
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewBestEffort wraps s. m may be nil.
func NewBestEffort(s Store, m *metrics.Metrics, logger zerolog.Logger) *BestEffort {
	return &BestEffort{
		store:   s,
		metrics: m,
		logger:  logger,
	}
}

// Load decodes key into v and reports whether a value was restored.
// On a fault v is left untouched.
func (b *BestEffort) Load(ctx context.Context, key string, v any) bool {
	found, err := LoadJSON(ctx, b.store, key, v)
	if err != nil {
		b.fault("get", key, err)
		return false
	}
	return found
}

// Save stores v under key.
func (b *BestEffort) Save(ctx context.Context, key string, v any) {
	if err := SaveJSON(ctx, b.store, key, v); err != nil {
		b.fault("set", key, err)
	}
}

// Remove deletes key.
func (b *BestEffort) Remove(ctx context.Context, key string) {
	if err := b.store.Remove(ctx, key); err != nil {
		b.fault("remove", key, err)
	}
}

func (b *BestEffort) fault(operation, key string, err error) {
	b.metrics.StorageFault(operation, key)

	event := b.logger.Warn()
	if !errors.Is(err, model.ErrStorageUnavailable) {
		// Corrupt data rather than an unreachable backend.
		event = b.logger.Error()
	}
	event.
		Err(err).
		Str("operation", operation).
		Str("key", key).
		Msg("storage fault, continuing with in-memory state")
}
