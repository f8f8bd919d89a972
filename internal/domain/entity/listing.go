package entity

import (
	"slices"
	"time"
)

// Variant is carried on listings but no workflow prices it yet.
type Variant struct {
	ID            string  `json:"id"`
	Label         string  `json:"label"`
	PriceModifier float64 `json:"priceModifier"`
}

type Listing struct {
	ID           string    `json:"id"`
	StorefrontID string    `json:"storeId"`
	Name         string    `json:"name"`
	Price        float64   `json:"price"`
	Currency     string    `json:"currency"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Image        string    `json:"image"`
	Stock        int       `json:"stock"`
	Variants     []Variant `json:"variants"`
	Active       bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (l Listing) Clone() Listing {
	l.Variants = slices.Clone(l.Variants)
	return l
}

// CartLine snapshots a listing's name, price and image at add time.
type CartLine struct {
	ListingID    string  `json:"productId"`
	StorefrontID string  `json:"storeId"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Image        string  `json:"image"`
	Quantity     int     `json:"quantity"`
	Variant      string  `json:"variant,omitempty"`
}

func (l CartLine) Subtotal() float64 {
	return l.Price * float64(l.Quantity)
}

// NewCartLine takes a single-unit snapshot of a listing.
func NewCartLine(l Listing) CartLine {
	return CartLine{
		ListingID:    l.ID,
		StorefrontID: l.StorefrontID,
		Name:         l.Name,
		Price:        l.Price,
		Image:        l.Image,
		Quantity:     1,
	}
}
