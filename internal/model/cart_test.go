package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name  string
		items []CartItem
		want  CartTotals
	}{
		{
			name:  "empty cart",
			items: nil,
			want: CartTotals{
				ShippingFee:          3000,
				Total:                3000,
				AmountToFreeShipping: 30000,
			},
		},
		{
			name: "below threshold",
			items: []CartItem{
				{ID: "a", Price: 10000, Quantity: 2},
				{ID: "b", Price: 5000, Quantity: 1},
			},
			want: CartTotals{
				Subtotal:             25000,
				ShippingFee:          3000,
				Total:                28000,
				AmountToFreeShipping: 5000,
				ItemCount:            3,
			},
		},
		{
			name: "exactly at threshold",
			items: []CartItem{
				{ID: "a", Price: 10000, Quantity: 2},
				{ID: "b", Price: 5000, Quantity: 2},
			},
			want: CartTotals{
				Subtotal:  30000,
				Total:     30000,
				ItemCount: 4,
			},
		},
		{
			name: "one won below threshold",
			items: []CartItem{
				{ID: "a", Price: 29999, Quantity: 1},
			},
			want: CartTotals{
				Subtotal:             29999,
				ShippingFee:          3000,
				Total:                32999,
				AmountToFreeShipping: 1,
				ItemCount:            1,
			},
		},
		{
			name: "rocket item",
			items: []CartItem{
				{ID: "a", Price: 4500, Quantity: 1},
				{ID: "r", Price: 50000, Quantity: 1, Rocket: true},
			},
			want: CartTotals{
				Subtotal:       54500,
				Total:          54500,
				HasRocketItems: true,
				ItemCount:      2,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeTotals(tt.items))
		})
	}
}

func TestNewCartItem(t *testing.T) {
	sale := int64(8900)
	original := int64(12900)

	tests := []struct {
		name         string
		product      Product
		wantPrice    int64
		wantOriginal int64
	}{
		{
			name:         "plain catalogue product",
			product:      Product{ID: "p1", Kind: ProductKindCatalog, Price: 5000},
			wantPrice:    5000,
			wantOriginal: 5000,
		},
		{
			name:         "deal uses sale price",
			product:      Product{ID: "d1", Kind: ProductKindDeal, Price: 12900, SalePrice: &sale, OriginalPrice: &original},
			wantPrice:    8900,
			wantOriginal: 12900,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := NewCartItem(tt.product, 2)

			assert.Equal(t, tt.product.ID, item.ID)
			assert.Equal(t, tt.wantPrice, item.Price)
			assert.Equal(t, tt.wantOriginal, item.OriginalPrice)
			assert.Equal(t, 2, item.Quantity)
			assert.Equal(t, tt.wantPrice*2, item.LineTotal())
		})
	}
}

func TestCloneCartItems(t *testing.T) {
	items := []CartItem{{ID: "a", Quantity: 1}}

	clone := CloneCartItems(items)
	clone[0].Quantity = 9

	assert.Equal(t, 1, items[0].Quantity)
	assert.NotNil(t, CloneCartItems(nil))
}
