package model

const (
	// FreeShippingThreshold is the subtotal at which shipping becomes free.
	FreeShippingThreshold int64 = 30000

	// StandardShippingFee is charged below FreeShippingThreshold.
	StandardShippingFee int64 = 3000
)

// CartItem is a line in the cart. There is at most one CartItem per product ID.
type CartItem struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Img           string `json:"img"`
	Category      string `json:"category"`
	Flag          string `json:"flag,omitempty"`
	Price         int64  `json:"price"`
	OriginalPrice int64  `json:"originalPrice"`
	Quantity      int    `json:"quantity"`
	Rocket        bool   `json:"rocket"`
}

// LineTotal returns price times quantity.
func (i CartItem) LineTotal() int64 {
	return i.Price * int64(i.Quantity)
}

// CartTotals is derived from the cart items and never stored.
type CartTotals struct {
	Subtotal             int64 `json:"subtotal"`
	ShippingFee          int64 `json:"shippingFee"`
	Total                int64 `json:"total"`
	AmountToFreeShipping int64 `json:"amountToFreeShipping"`
	HasRocketItems       bool  `json:"hasRocketItems"`
	ItemCount            int   `json:"itemCount"`
}

// ComputeTotals derives CartTotals from a list of items.
func ComputeTotals(items []CartItem) CartTotals {
	var totals CartTotals
	for _, item := range items {
		totals.Subtotal += item.LineTotal()
		totals.ItemCount += item.Quantity
		if item.Rocket {
			totals.HasRocketItems = true
		}
	}

	if totals.Subtotal < FreeShippingThreshold {
		totals.ShippingFee = StandardShippingFee
		totals.AmountToFreeShipping = FreeShippingThreshold - totals.Subtotal
	}
	totals.Total = totals.Subtotal + totals.ShippingFee

	return totals
}

// NewCartItem builds a cart line from a catalogue product.
func NewCartItem(p Product, quantity int) CartItem {
	return CartItem{
		ID:            p.ID,
		Name:          p.Name,
		Img:           p.Img,
		Category:      p.Category,
		Flag:          p.Flag,
		Price:         p.EffectivePrice(),
		OriginalPrice: p.ReferencePrice(),
		Quantity:      quantity,
		Rocket:        p.Rocket,
	}
}

// CloneCartItems returns an independent copy of items.
func CloneCartItems(items []CartItem) []CartItem {
	out := make([]CartItem, len(items))
	copy(out, items)
	return out
}
