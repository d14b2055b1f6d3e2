package stores

import (
	"context"

	"atelier/internal/domain/models"
)

// Provider is one store entry from the embedded YAML.
type Provider struct {
	ID            string `yaml:"id" json:"id"`
	DisplayName   string `yaml:"display_name" json:"display_name"`
	BaseURL       string `yaml:"base_url" json:"base_url"`
	SearchPath    string `yaml:"search_path" json:"-"`
	TokenPath     string `yaml:"token_path" json:"-"`
	// RequestsPerSecond caps the client's request rate against the
	// store API. Zero means the shared default.
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"-"`
}

type providerFile struct {
	Stores []Provider `yaml:"stores"`
}

// Searcher is the store client surface the grocery service consumes.
// Both store clients map their responses into models.StoreProduct so the
// service never sees a store-specific shape.
type Searcher interface {
	// Store returns the provider id the client serves
	Store() string

	// Search queries the store catalog
	Search(ctx context.Context, query string) ([]models.StoreProduct, error)

	// Price fetches the current price of one product
	Price(ctx context.Context, productID string) (*models.StoreProduct, error)
}
