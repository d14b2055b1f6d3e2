package repositories

import (
	"context"

	"atelier/internal/domain/models"
)

// GroceryRepository defines data access operations for tracked products
// and their price history
type GroceryRepository interface {
	// CreateProduct starts tracking a product
	CreateProduct(ctx context.Context, product *models.TrackedProduct) error

	// GetProduct retrieves a tracked product scoped to its owner
	GetProduct(ctx context.Context, id, ownerID string) (*models.TrackedProduct, error)

	// FindProduct looks a product up by its store identity
	FindProduct(ctx context.Context, ownerID, store, storeProductID string) (*models.TrackedProduct, error)

	// ListProducts retrieves the owner's tracked products with their latest price
	ListProducts(ctx context.Context, ownerID string) ([]models.TrackedProduct, error)

	// DeleteProduct stops tracking a product; price history cascades away
	DeleteProduct(ctx context.Context, id, ownerID string) error

	// AddPricePoint appends a price observation
	AddPricePoint(ctx context.Context, point *models.PricePoint) error

	// ListPrices retrieves a product's price history, oldest first
	ListPrices(ctx context.Context, productID string) ([]models.PricePoint, error)
}
