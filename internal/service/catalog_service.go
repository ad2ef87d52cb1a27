package service

import (
	"context"
	"strings"

	"gofresh/internal/catalog"
	"gofresh/internal/model"
	"gofresh/internal/scheduler"

	"github.com/rs/zerolog"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ProductQuery filters and paginates the catalogue.
type ProductQuery struct {
	Category   string
	Query      string
	Kind       model.ProductKind
	RocketOnly bool
	Limit      int
	Offset     int
}

// ProductPage is one page of a catalogue listing.
type ProductPage struct {
	Products []model.Product `json:"products"`
	Total    int             `json:"total"`
	Limit    int             `json:"limit"`
	Offset   int             `json:"offset"`
}

// catalogService implements CatalogService.
type catalogService struct {
	catalog ProductCatalog
	clock   scheduler.Clock
	logger  zerolog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(c ProductCatalog, clock scheduler.Clock, logger zerolog.Logger) CatalogService {
	return &catalogService{
		catalog: c,
		clock:   clock,
		logger:  logger.With().Str("service", "catalog").Logger(),
	}
}

// List returns one page of matching products.
func (s *catalogService) List(_ context.Context, query ProductQuery) (*ProductPage, error) {
	if query.Limit <= 0 {
		query.Limit = defaultPageSize
	}
	if query.Limit > maxPageSize {
		query.Limit = maxPageSize
	}
	if query.Offset < 0 {
		query.Offset = 0
	}

	products, total := s.catalog.List(catalog.Filter{
		Category:   query.Category,
		Query:      strings.TrimSpace(query.Query),
		Kind:       query.Kind,
		RocketOnly: query.RocketOnly,
		Limit:      query.Limit,
		Offset:     query.Offset,
	})

	s.logger.Debug().
		Int("count", len(products)).
		Int("total", total).
		Int("limit", query.Limit).
		Int("offset", query.Offset).
		Msg("listed products")

	return &ProductPage{
		Products: products,
		Total:    total,
		Limit:    query.Limit,
		Offset:   query.Offset,
	}, nil
}

// GetByID retrieves a single product by ID.
func (s *catalogService) GetByID(_ context.Context, id string) (*model.Product, error) {
	if id == "" {
		s.logger.Warn().Msg("product ID is empty")
		return nil, model.ErrProductNotFound
	}

	product, ok := s.catalog.GetByID(id)
	if !ok {
		s.logger.Debug().Str("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return &product, nil
}

// GetByIDs retrieves the known products among ids.
func (s *catalogService) GetByIDs(_ context.Context, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	products := s.catalog.GetByIDs(ids)

	s.logger.Debug().
		Int("requested", len(ids)).
		Int("found", len(products)).
		Msg("retrieved products by IDs")

	return products, nil
}

// Deals returns the deals still running at the current time.
func (s *catalogService) Deals(_ context.Context) []model.Product {
	return s.catalog.Deals(s.clock.Now())
}

// Categories returns every product category.
func (s *catalogService) Categories(_ context.Context) []string {
	return s.catalog.Categories()
}
