package repositories

import (
	"context"

	"atelier/internal/domain/models"
)

// PositionRepository defines data access operations for portfolio positions
type PositionRepository interface {
	// Upsert inserts or replaces the position keyed by (owner_id, symbol)
	Upsert(ctx context.Context, position *models.Position) error

	// GetBySymbol retrieves one position
	GetBySymbol(ctx context.Context, ownerID, symbol string) (*models.Position, error)

	// ListByOwner retrieves all positions for an owner
	ListByOwner(ctx context.Context, ownerID string) ([]models.Position, error)

	// DeleteBySymbol removes a position
	DeleteBySymbol(ctx context.Context, ownerID, symbol string) error
}
