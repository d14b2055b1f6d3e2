package services

import (
	"context"

	"atelier/internal/domain/models"
)

// WeatherService serves the forecast for the owner's home location
type WeatherService interface {
	// Home returns the forecast for the coordinates stored in settings.
	// Returns ErrUnavailable when no home location is configured.
	Home(ctx context.Context, ownerID string) (*models.Forecast, error)
}
