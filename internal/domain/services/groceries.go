package services

import (
	"context"

	"atelier/internal/domain/models"
)

// GroceryService handles store search and tracked product prices
type GroceryService interface {
	// Search queries one store (or all when store is empty) for products
	Search(ctx context.Context, query, store string) ([]models.StoreProduct, error)

	// Track starts following a store product and records its current price
	Track(ctx context.Context, ownerID string, req *models.TrackProductRequest) (*models.TrackedProduct, error)

	// Refresh fetches the current price and appends a snapshot
	Refresh(ctx context.Context, ownerID, productID string) (*models.PricePoint, error)

	// List returns the owner's tracked products with their latest price
	List(ctx context.Context, ownerID string) ([]models.TrackedProduct, error)

	// History returns all price snapshots of a product, oldest first
	History(ctx context.Context, ownerID, productID string) ([]models.PricePoint, error)

	// Untrack stops following a product and drops its snapshots
	Untrack(ctx context.Context, ownerID, productID string) error
}
