package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrackedProduct is a store product the owner watches for price changes.
type TrackedProduct struct {
	ID             string    `json:"id" db:"id"`
	OwnerID        string    `json:"owner_id" db:"owner_id"`
	Store          string    `json:"store" db:"store"`
	StoreProductID string    `json:"store_product_id" db:"store_product_id"`
	Name           string    `json:"name" db:"name"`
	UnitSize       string    `json:"unit_size" db:"unit_size"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`

	// LatestPrice is the most recent snapshot, joined in list views.
	LatestPrice *PricePoint `json:"latest_price,omitempty"`
}

// PricePoint is one observed price for a tracked product.
type PricePoint struct {
	ID         string          `json:"id" db:"id"`
	ProductID  string          `json:"product_id" db:"product_id"`
	Price      decimal.Decimal `json:"price" db:"price"`
	Bonus      bool            `json:"bonus" db:"bonus"`
	ObservedAt time.Time       `json:"observed_at" db:"observed_at"`
}

type TrackProductRequest struct {
	Store          string `json:"store"`
	StoreProductID string `json:"store_product_id"`
}

// StoreProduct is a search/price result in the shape shared by all store
// clients.
type StoreProduct struct {
	Store    string          `json:"store"`
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	UnitSize string          `json:"unit_size,omitempty"`
	Price    decimal.Decimal `json:"price"`
	Bonus    bool            `json:"bonus"`
}
