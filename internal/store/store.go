// Package store persists session state (cart, orders, users, preferences)
// in a key-value backend. Values are JSON documents.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gofresh/internal/model"
)

// Fixed keys of the persisted state layout.
const (
	KeyCart              = "cart"
	KeyOrders            = "orders"
	KeyUser              = "user"
	KeyUsers             = "users"
	KeyLanguage          = "language"
	KeyNotificationsRead = "notifications_read"
)

// ErrKeyNotFound is returned by Get when the key is absent.
var ErrKeyNotFound = errors.New("key not found")

// Store is a key-value adapter.
type Store interface {
	// Get returns the value stored under key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}

// LoadJSON decodes the value under key into v.
// It reports false without error when the key is absent.
func LoadJSON(ctx context.Context, s Store, key string, v any) (bool, error) {
	data, err := s.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: get %s: %w", model.ErrStorageUnavailable, key, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

// SaveJSON encodes v and stores it under key.
func SaveJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	if err := s.Set(ctx, key, data); err != nil {
		return fmt.Errorf("%w: set %s: %w", model.ErrStorageUnavailable, key, err)
	}
	return nil
}
