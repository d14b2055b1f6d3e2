package services

import (
	"context"

	"atelier/internal/domain/models"
)

// SettingsService handles the owner's external connection settings
type SettingsService interface {
	// Get returns the settings view (empty when nothing stored yet)
	Get(ctx context.Context, ownerID string) (*models.SettingsView, error)

	// Update applies a partial update; secret fields use tri-state
	// semantics so null clears and absence leaves untouched
	Update(ctx context.Context, ownerID string, req *models.UpdateSettingsRequest) (*models.SettingsView, error)
}
