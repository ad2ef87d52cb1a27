// Package catalog loads the product catalogue and answers browse queries.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"gofresh/internal/model"

	"github.com/rs/zerolog"
)

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Category   string
	Query      string
	Kind       model.ProductKind
	RocketOnly bool
	Limit      int
	Offset     int
}

// Catalog is an immutable, indexed product list.
type Catalog struct {
	products   []model.Product
	byID       map[string]int
	categories []string
}

// New indexes products. A later product replaces an earlier one with the
// same id, keeping the earlier position.
func New(products []model.Product) *Catalog {
	c := &Catalog{
		byID: make(map[string]int, len(products)),
	}

	seenCategory := make(map[string]bool)
	for _, p := range products {
		if idx, ok := c.byID[p.ID]; ok {
			c.products[idx] = p
		} else {
			c.byID[p.ID] = len(c.products)
			c.products = append(c.products, p)
		}

		if p.Category != "" && !seenCategory[p.Category] {
			seenCategory[p.Category] = true
			c.categories = append(c.categories, p.Category)
		}
	}
	return c
}

// Load reads every file with loader concurrently and merges them in the
// order given.
func Load(ctx context.Context, files []string, loader Loader, logger zerolog.Logger) (*Catalog, error) {
	logger = logger.With().Str("component", "catalog").Logger()
	logger.Info().Int("file_count", len(files)).Msg("loading catalog")

	type loadResult struct {
		products []model.Product
		err      error
	}

	results := make([]loadResult, len(files))
	var wg sync.WaitGroup

	for i, file := range files {
		wg.Add(1)
		go func(index int, path string) {
			defer wg.Done()
			products, err := loader.Load(ctx, path)
			results[index] = loadResult{products: products, err: err}
		}(i, file)
	}
	wg.Wait()

	var all []model.Product
	for i, result := range results {
		if result.err != nil {
			logger.Error().Err(result.err).Str("file", files[i]).Msg("failed to load product file")
			return nil, fmt.Errorf("failed to load product file %s: %w", files[i], result.err)
		}
		all = append(all, result.products...)
	}

	c := New(all)
	logger.Info().
		Int("products", c.Size()).
		Int("categories", len(c.categories)).
		Msg("catalog loaded successfully")

	return c, nil
}

// Size returns the number of distinct products.
func (c *Catalog) Size() int {
	return len(c.products)
}

// GetByID returns the product with id.
func (c *Catalog) GetByID(id string) (model.Product, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return model.Product{}, false
	}
	return c.products[idx], true
}

// GetByIDs returns the known products among ids, in the order requested.
func (c *Catalog) GetByIDs(ids []string) []model.Product {
	out := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := c.GetByID(id); ok {
			out = append(out, p)
		}
	}
	return out
}

// List returns one page of matching products and the total match count.
func (c *Catalog) List(f Filter) ([]model.Product, int) {
	query := strings.ToLower(strings.TrimSpace(f.Query))

	var matched []model.Product
	for _, p := range c.products {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.Kind != "" && p.Kind != f.Kind {
			continue
		}
		if f.RocketOnly && !p.Rocket {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(p.Name), query) {
			continue
		}
		matched = append(matched, p)
	}

	total := len(matched)
	if f.Offset < 0 {
		f.Offset = 0
	}
	if f.Offset >= total {
		return []model.Product{}, total
	}
	end := total
	if f.Limit > 0 && f.Offset+f.Limit < total {
		end = f.Offset + f.Limit
	}
	return matched[f.Offset:end], total
}

// Deals returns the deals that have not ended at now.
func (c *Catalog) Deals(now time.Time) []model.Product {
	out := make([]model.Product, 0)
	for _, p := range c.products {
		if !p.IsDeal() {
			continue
		}
		if p.DealEndsAt != nil && !p.DealEndsAt.After(now) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Categories returns the categories in order of first appearance.
func (c *Catalog) Categories() []string {
	out := make([]string, len(c.categories))
	copy(out, c.categories)
	return out
}
