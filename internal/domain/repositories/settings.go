package repositories

import (
	"context"

	"atelier/internal/domain/models"
)

// SettingsRepository defines data access operations for connection settings
type SettingsRepository interface {
	// Get retrieves the owner's settings row.
	// Returns nil (not an error) when no row exists yet.
	Get(ctx context.Context, ownerID string) (*models.Settings, error)

	// Upsert inserts or replaces the owner's settings row
	Upsert(ctx context.Context, settings *models.Settings) error
}
