// Package cart holds the session's cart and derives its totals.
package cart

import (
	"context"
	"sync"

	"gofresh/internal/metrics"
	"gofresh/internal/model"
	"gofresh/internal/store"

	"github.com/rs/zerolog"
)

// Ledger is the authoritative in-memory cart. Every mutation is written
// through to the store; storage faults never reach the caller.
type Ledger struct {
	mu      sync.RWMutex
	items   []model.CartItem
	store   *store.BestEffort
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewLedger creates an empty ledger. Call Load to restore a persisted cart.
func NewLedger(s store.Store, m *metrics.Metrics, logger zerolog.Logger) *Ledger {
	logger = logger.With().Str("component", "cart").Logger()
	return &Ledger{
		store:   store.NewBestEffort(s, m, logger),
		metrics: m,
		logger:  logger,
	}
}

// Load restores the persisted cart. Unreadable data leaves the cart empty.
// Restored lines are normalised: non-positive quantities are dropped and
// duplicate product IDs are merged.
func (l *Ledger) Load(ctx context.Context) {
	var restored []model.CartItem
	if !l.store.Load(ctx, store.KeyCart, &restored) {
		return
	}

	items := make([]model.CartItem, 0, len(restored))
	for _, item := range restored {
		if item.ID == "" || item.Quantity <= 0 {
			continue
		}
		if idx := indexOf(items, item.ID); idx >= 0 {
			items[idx].Quantity += item.Quantity
			continue
		}
		items = append(items, item)
	}

	l.mu.Lock()
	l.items = items
	l.mu.Unlock()

	l.logger.Info().Int("lines", len(items)).Msg("cart restored")
}

// AddItem adds quantity units of product. An existing line has its quantity
// increased; otherwise a new line is appended priced at the product's
// effective price. A non-positive quantity is a no-op.
func (l *Ledger) AddItem(ctx context.Context, product model.Product, quantity int) {
	if quantity <= 0 || product.ID == "" {
		l.logger.Debug().
			Str("product_id", product.ID).
			Int("quantity", quantity).
			Msg("ignoring invalid add")
		return
	}

	l.mutate(ctx, "add", func(items []model.CartItem) ([]model.CartItem, bool) {
		if idx := indexOf(items, product.ID); idx >= 0 {
			items[idx].Quantity += quantity
			return items, true
		}
		return append(items, model.NewCartItem(product, quantity)), true
	})
}

// RemoveItem deletes the line for productID. Unknown IDs are ignored.
func (l *Ledger) RemoveItem(ctx context.Context, productID string) {
	l.mutate(ctx, "remove", func(items []model.CartItem) ([]model.CartItem, bool) {
		return remove(items, productID)
	})
}

// UpdateQuantity sets the quantity of productID. A non-positive quantity
// removes the line. Unknown IDs are ignored.
func (l *Ledger) UpdateQuantity(ctx context.Context, productID string, quantity int) {
	if quantity <= 0 {
		l.RemoveItem(ctx, productID)
		return
	}

	l.mutate(ctx, "update", func(items []model.CartItem) ([]model.CartItem, bool) {
		idx := indexOf(items, productID)
		if idx < 0 || items[idx].Quantity == quantity {
			return items, false
		}
		items[idx].Quantity = quantity
		return items, true
	})
}

// Clear empties the cart.
func (l *Ledger) Clear(ctx context.Context) {
	l.mutate(ctx, "clear", func(items []model.CartItem) ([]model.CartItem, bool) {
		return nil, len(items) > 0
	})
}

// Deduct removes the given lines' quantities from the cart in one step.
// Lines that reach zero are dropped; units added after the snapshot stay.
func (l *Ledger) Deduct(ctx context.Context, ordered []model.CartItem) {
	l.mutate(ctx, "checkout", func(items []model.CartItem) ([]model.CartItem, bool) {
		changed := false
		for _, o := range ordered {
			idx := indexOf(items, o.ID)
			if idx < 0 || o.Quantity <= 0 {
				continue
			}
			changed = true
			if items[idx].Quantity <= o.Quantity {
				items, _ = remove(items, o.ID)
				continue
			}
			items[idx].Quantity -= o.Quantity
		}
		return items, changed
	})
}

// Items returns a copy of the current lines.
func (l *Ledger) Items() []model.CartItem {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return model.CloneCartItems(l.items)
}

// Totals recomputes the cart totals from the current lines.
func (l *Ledger) Totals() model.CartTotals {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return model.ComputeTotals(l.items)
}

// Snapshot returns a copy of the lines together with their totals, read atomically.
func (l *Ledger) Snapshot() ([]model.CartItem, model.CartTotals) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return model.CloneCartItems(l.items), model.ComputeTotals(l.items)
}

// Count returns the total number of units in the cart.
func (l *Ledger) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	count := 0
	for _, item := range l.items {
		count += item.Quantity
	}
	return count
}

// mutate applies fn and persists the result when fn reports a change. The
// write happens under the lock so the stored cart never lags behind a later mutation.
func (l *Ledger) mutate(ctx context.Context, operation string, fn func([]model.CartItem) ([]model.CartItem, bool)) {
	l.mu.Lock()
	defer l.mu.Unlock()

	items, changed := fn(l.items)
	l.items = items
	if !changed {
		l.logger.Debug().Str("operation", operation).Msg("cart unchanged")
		return
	}
	l.metrics.CartMutation(operation)
	l.store.Save(ctx, store.KeyCart, model.CloneCartItems(l.items))
}

func indexOf(items []model.CartItem, productID string) int {
	for i := range items {
		if items[i].ID == productID {
			return i
		}
	}
	return -1
}

func remove(items []model.CartItem, productID string) ([]model.CartItem, bool) {
	idx := indexOf(items, productID)
	if idx < 0 {
		return items, false
	}
	return append(items[:idx], items[idx+1:]...), true
}
