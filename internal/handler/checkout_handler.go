package handler

import (
	"net/http"

	"gofresh/internal/service"

	"github.com/rs/zerolog"
)

// CheckoutHandler handles checkout HTTP requests.
type CheckoutHandler struct {
	service service.CheckoutService
	logger  zerolog.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(service service.CheckoutService, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		logger:  logger.With().Str("handler", "checkout").Logger(),
	}
}

// Preview handles GET /api/checkout requests.
func (h *CheckoutHandler) Preview(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Preview(r.Context()))
}

// PlaceOrder handles POST /api/checkout requests.
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req service.PlaceOrderRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	order, err := h.service.PlaceOrder(r.Context(), req)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}
