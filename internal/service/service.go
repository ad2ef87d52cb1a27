package service

import (
	"context"
	"time"

	"gofresh/internal/catalog"
	"gofresh/internal/model"
	"gofresh/internal/order"
)

// CatalogService defines read operations on the product catalogue.
type CatalogService interface {
	// List returns one page of products matching the query.
	List(ctx context.Context, query ProductQuery) (*ProductPage, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDs retrieves the known products among ids.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)

	// Deals returns the deals that are still running.
	Deals(ctx context.Context) []model.Product

	// Categories returns every product category.
	Categories(ctx context.Context) []string
}

// CheckoutService turns the cart into an order.
type CheckoutService interface {
	// Preview returns what PlaceOrder would submit right now.
	Preview(ctx context.Context) *CheckoutPreview

	// PlaceOrder charges the simulated payment, creates the order and removes
	// the ordered lines from the cart. Only one checkout runs at a time.
	PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*model.Order, error)
}

// NotificationService derives status notifications from the current user's orders.
type NotificationService interface {
	// Load restores which notifications were already read.
	Load(ctx context.Context)

	// List returns the notifications, newest first.
	List(ctx context.Context) []model.Notification

	// MarkRead marks one notification as read.
	MarkRead(ctx context.Context, id string) error

	// MarkAllRead marks every current notification as read.
	MarkAllRead(ctx context.Context)

	// UnreadCount returns the number of unread notifications.
	UnreadCount(ctx context.Context) int
}

// ProductCatalog is the read side of catalog.Catalog.
type ProductCatalog interface {
	GetByID(id string) (model.Product, bool)
	GetByIDs(ids []string) []model.Product
	List(f catalog.Filter) ([]model.Product, int)
	Deals(now time.Time) []model.Product
	Categories() []string
}

// Cart is the part of cart.Ledger that checkout needs.
type Cart interface {
	Snapshot() ([]model.CartItem, model.CartTotals)
	Deduct(ctx context.Context, ordered []model.CartItem)
}

// OrderPlacer creates orders. Implemented by order.Lifecycle.
type OrderPlacer interface {
	CreateOrder(ctx context.Context, req order.CreateOrderRequest) (*model.Order, error)
}

// OrderHistory lists a user's orders. Implemented by order.Lifecycle.
type OrderHistory interface {
	GetUserOrders(userID string) []*model.Order
}

// Session exposes the logged-in user. Implemented by auth.Service.
type Session interface {
	CurrentUserID() string
	DefaultShippingAddress() model.ShippingAddress
}

// LanguageSource returns the active display language. Implemented by locale.Preferences.
type LanguageSource interface {
	Get() string
}
