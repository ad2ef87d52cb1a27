package handler

import (
	"net/http"
	"strconv"

	"gofresh/internal/model"
	"gofresh/internal/service"

	"github.com/rs/zerolog"
)

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	service service.CatalogService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.CatalogService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// List handles GET /api/products requests with filters and pagination.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := service.ProductQuery{
		Category: q.Get("category"),
		Query:    q.Get("q"),
		Kind:     model.ProductKind(q.Get("kind")),
	}

	var ok bool
	if query.Limit, ok = h.intParam(w, q.Get("limit"), "limit"); !ok {
		return
	}
	if query.Offset, ok = h.intParam(w, q.Get("offset"), "offset"); !ok {
		return
	}

	if rocket := q.Get("rocket"); rocket != "" {
		v, err := strconv.ParseBool(rocket)
		if err != nil {
			writeError(w, http.StatusBadRequest, model.ErrCodeInvalidParameter, "invalid rocket parameter", h.logger)
			return
		}
		query.RocketOnly = v
	}

	page, err := h.service.List(r.Context(), query)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// GetByID handles GET /api/products/{id} requests.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("id")
	if productID == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "product ID is required", h.logger)
		return
	}

	product, err := h.service.GetByID(r.Context(), productID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Deals handles GET /api/deals requests.
func (h *ProductHandler) Deals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Deals(r.Context()))
}

// Categories handles GET /api/categories requests.
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Categories(r.Context()))
}

// intParam parses an optional integer query parameter. Empty means zero.
func (h *ProductHandler) intParam(w http.ResponseWriter, raw, name string) (int, bool) {
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidParameter, "invalid "+name+" parameter", h.logger)
		return 0, false
	}
	return v, true
}
