package model

import "time"

// ProductKind distinguishes regular catalogue items from time-limited deals.
type ProductKind string

const (
	ProductKindCatalog ProductKind = "catalog"
	ProductKindDeal    ProductKind = "deal"
)

// Product represents an item in the storefront catalogue.
// Prices are in Korean won, which has no fractional unit.
type Product struct {
	ID            string      `json:"id"`
	Kind          ProductKind `json:"kind"`
	Name          string      `json:"name"`
	Img           string      `json:"img"`
	Category      string      `json:"category"`
	Flag          string      `json:"flag,omitempty"`
	Price         int64       `json:"price"`
	SalePrice     *int64      `json:"salePrice,omitempty"`
	OriginalPrice *int64      `json:"originalPrice,omitempty"`
	DiscountRate  int         `json:"discountRate,omitempty"`
	Rocket        bool        `json:"rocket"`
	Rating        float64     `json:"rating,omitempty"`
	ReviewCount   int         `json:"reviewCount,omitempty"`
	DealEndsAt    *time.Time  `json:"dealEndsAt,omitempty"`
}

// EffectivePrice is the unit price charged when the product is added to a cart.
func (p Product) EffectivePrice() int64 {
	if p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.Price
}

// ReferencePrice is the pre-discount price shown next to the effective price.
func (p Product) ReferencePrice() int64 {
	if p.OriginalPrice != nil {
		return *p.OriginalPrice
	}
	return p.Price
}

// IsDeal reports whether the product is a time-limited deal.
func (p Product) IsDeal() bool {
	return p.Kind == ProductKindDeal
}
