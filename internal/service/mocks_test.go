package service

import (
	"context"
	"time"

	"gofresh/internal/catalog"
	"gofresh/internal/model"
	"gofresh/internal/order"

	"github.com/stretchr/testify/mock"
)

// MockProductCatalog is a mock implementation of ProductCatalog.
type MockProductCatalog struct {
	mock.Mock
}

func (m *MockProductCatalog) GetByID(id string) (model.Product, bool) {
	args := m.Called(id)
	return args.Get(0).(model.Product), args.Bool(1)
}

func (m *MockProductCatalog) GetByIDs(ids []string) []model.Product {
	args := m.Called(ids)
	return args.Get(0).([]model.Product)
}

func (m *MockProductCatalog) List(f catalog.Filter) ([]model.Product, int) {
	args := m.Called(f)
	return args.Get(0).([]model.Product), args.Int(1)
}

func (m *MockProductCatalog) Deals(now time.Time) []model.Product {
	args := m.Called(now)
	return args.Get(0).([]model.Product)
}

func (m *MockProductCatalog) Categories() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

// MockCart is a mock implementation of Cart.
type MockCart struct {
	mock.Mock
}

func (m *MockCart) Snapshot() ([]model.CartItem, model.CartTotals) {
	args := m.Called()
	return args.Get(0).([]model.CartItem), args.Get(1).(model.CartTotals)
}

func (m *MockCart) Deduct(ctx context.Context, ordered []model.CartItem) {
	m.Called(ctx, ordered)
}

// MockOrderPlacer is a mock implementation of OrderPlacer.
type MockOrderPlacer struct {
	mock.Mock
}

func (m *MockOrderPlacer) CreateOrder(ctx context.Context, req order.CreateOrderRequest) (*model.Order, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

// MockOrderHistory is a mock implementation of OrderHistory.
type MockOrderHistory struct {
	mock.Mock
}

func (m *MockOrderHistory) GetUserOrders(userID string) []*model.Order {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]*model.Order)
}

// MockSession is a mock implementation of Session.
type MockSession struct {
	mock.Mock
}

func (m *MockSession) CurrentUserID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockSession) DefaultShippingAddress() model.ShippingAddress {
	args := m.Called()
	return args.Get(0).(model.ShippingAddress)
}

// fixedLanguage is a LanguageSource that always returns the same code.
type fixedLanguage string

func (l fixedLanguage) Get() string { return string(l) }
