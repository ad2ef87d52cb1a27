package handler

import (
	"context"

	"gofresh/internal/model"
	"gofresh/internal/service"

	"github.com/stretchr/testify/mock"
)

// MockCatalogService is a mock implementation of service.CatalogService.
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) List(ctx context.Context, query service.ProductQuery) (*service.ProductPage, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProductPage), args.Error(1)
}

func (m *MockCatalogService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockCatalogService) GetByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockCatalogService) Deals(ctx context.Context) []model.Product {
	args := m.Called(ctx)
	return args.Get(0).([]model.Product)
}

func (m *MockCatalogService) Categories(ctx context.Context) []string {
	args := m.Called(ctx)
	return args.Get(0).([]string)
}

// MockCheckoutService is a mock implementation of service.CheckoutService.
type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) Preview(ctx context.Context) *service.CheckoutPreview {
	args := m.Called(ctx)
	return args.Get(0).(*service.CheckoutPreview)
}

func (m *MockCheckoutService) PlaceOrder(ctx context.Context, req service.PlaceOrderRequest) (*model.Order, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

// MockOrders is a mock implementation of Orders.
type MockOrders struct {
	mock.Mock
}

func (m *MockOrders) GetUserOrders(userID string) []*model.Order {
	args := m.Called(userID)
	return args.Get(0).([]*model.Order)
}

func (m *MockOrders) GetOrderByID(orderID string) (*model.Order, bool) {
	args := m.Called(orderID)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*model.Order), args.Bool(1)
}

func (m *MockOrders) GetOrderByTracking(trackingNumber string) (*model.Order, bool) {
	args := m.Called(trackingNumber)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*model.Order), args.Bool(1)
}

func (m *MockOrders) CancelOrder(ctx context.Context, orderID string) bool {
	args := m.Called(ctx, orderID)
	return args.Bool(0)
}

// MockNotificationService is a mock implementation of service.NotificationService.
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) Load(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockNotificationService) List(ctx context.Context) []model.Notification {
	args := m.Called(ctx)
	return args.Get(0).([]model.Notification)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockNotificationService) MarkAllRead(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockNotificationService) UnreadCount(ctx context.Context) int {
	args := m.Called(ctx)
	return args.Int(0)
}

// guestSession is a CurrentUser that always returns the same id.
type guestSession string

func (s guestSession) CurrentUserID() string { return string(s) }
