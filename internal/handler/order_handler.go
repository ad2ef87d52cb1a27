package handler

import (
	"context"
	"net/http"

	"gofresh/internal/model"

	"github.com/rs/zerolog"
)

// Orders is the order lifecycle as seen by the HTTP layer.
type Orders interface {
	GetUserOrders(userID string) []*model.Order
	GetOrderByID(orderID string) (*model.Order, bool)
	GetOrderByTracking(trackingNumber string) (*model.Order, bool)
	CancelOrder(ctx context.Context, orderID string) bool
}

// CurrentUser reports who owns the session.
type CurrentUser interface {
	CurrentUserID() string
}

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	orders  Orders
	session CurrentUser
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(orders Orders, session CurrentUser, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		orders:  orders,
		session: session,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// List handles GET /api/orders requests, most recent first.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.orders.GetUserOrders(h.session.CurrentUserID()))
}

// GetByID handles GET /api/orders/{id} requests.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	order, ok := h.orders.GetOrderByID(r.PathValue("id"))
	if !ok {
		writeDomainError(w, model.ErrNotFound, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// GetByTracking handles GET /api/tracking/{trackingNumber} requests.
func (h *OrderHandler) GetByTracking(w http.ResponseWriter, r *http.Request) {
	order, ok := h.orders.GetOrderByTracking(r.PathValue("trackingNumber"))
	if !ok {
		writeDomainError(w, model.ErrNotFound, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// Cancel handles POST /api/orders/{id}/cancel requests.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("id")
	if _, ok := h.orders.GetOrderByID(orderID); !ok {
		writeDomainError(w, model.ErrNotFound, h.logger)
		return
	}

	if !h.orders.CancelOrder(r.Context(), orderID) {
		writeDomainError(w, model.ErrOrderNotCancellable, h.logger)
		return
	}

	order, _ := h.orders.GetOrderByID(orderID)
	h.logger.Info().Str("order_id", orderID).Msg("order cancelled")
	writeJSON(w, http.StatusOK, order)
}
