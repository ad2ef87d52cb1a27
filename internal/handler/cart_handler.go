package handler

import (
	"context"
	"net/http"

	"gofresh/internal/model"
	"gofresh/internal/service"

	"github.com/rs/zerolog"
)

// Cart is the cart ledger as seen by the HTTP layer.
type Cart interface {
	AddItem(ctx context.Context, product model.Product, quantity int)
	RemoveItem(ctx context.Context, productID string)
	UpdateQuantity(ctx context.Context, productID string, quantity int)
	Clear(ctx context.Context)
	Snapshot() ([]model.CartItem, model.CartTotals)
}

// CartResponse is the cart contents with derived totals.
type CartResponse struct {
	Items  []model.CartItem `json:"items"`
	Totals model.CartTotals `json:"totals"`
}

// AddItemRequest is the body of POST /api/cart/items.
type AddItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  *int   `json:"quantity"`
}

// UpdateItemRequest is the body of PATCH /api/cart/items/{id}.
type UpdateItemRequest struct {
	Quantity *int `json:"quantity"`
}

// CartHandler handles cart-related HTTP requests.
type CartHandler struct {
	cart     Cart
	products service.CatalogService
	logger   zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(cart Cart, products service.CatalogService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		cart:     cart,
		products: products,
		logger:   logger.With().Str("handler", "cart").Logger(),
	}
}

// Get handles GET /api/cart requests.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.writeCart(w, http.StatusOK)
}

// AddItem handles POST /api/cart/items requests. Quantity defaults to one.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	if req.ProductID == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "productId is required", h.logger)
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if quantity <= 0 {
		writeDomainError(w, model.ErrInvalidQuantity, h.logger)
		return
	}

	product, err := h.products.GetByID(r.Context(), req.ProductID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	h.cart.AddItem(r.Context(), *product, quantity)
	h.writeCart(w, http.StatusOK)
}

// UpdateItem handles PATCH /api/cart/items/{id} requests. A quantity of
// zero or less removes the line.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req UpdateItemRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	if req.Quantity == nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "quantity is required", h.logger)
		return
	}

	h.cart.UpdateQuantity(r.Context(), r.PathValue("id"), *req.Quantity)
	h.writeCart(w, http.StatusOK)
}

// RemoveItem handles DELETE /api/cart/items/{id} requests.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.cart.RemoveItem(r.Context(), r.PathValue("id"))
	h.writeCart(w, http.StatusOK)
}

// Clear handles DELETE /api/cart requests.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.cart.Clear(r.Context())
	h.writeCart(w, http.StatusOK)
}

func (h *CartHandler) writeCart(w http.ResponseWriter, status int) {
	items, totals := h.cart.Snapshot()
	writeJSON(w, status, CartResponse{Items: items, Totals: totals})
}
