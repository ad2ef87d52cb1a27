// Package storetest provides test doubles for store.Store.
package storetest

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockStore is a mock implementation of store.Store.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockStore) Set(ctx context.Context, key string, value []byte) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockStore) Remove(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
