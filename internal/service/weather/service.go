// Package weather serves the forecast for the owner's home location.
package weather

import (
	"context"
	"fmt"
	"log/slog"

	"atelier/internal/domain"
	"atelier/internal/domain/models"
	"atelier/internal/domain/repositories"
	"atelier/internal/domain/services"
)

// ForecastClient is the forecast API surface the service needs.
type ForecastClient interface {
	Forecast(ctx context.Context, lat, lon float64) (*models.Forecast, error)
}

type weatherService struct {
	client       ForecastClient
	settingsRepo repositories.SettingsRepository
	logger       *slog.Logger
}

// NewWeatherService creates a new weather service
func NewWeatherService(
	client ForecastClient,
	settingsRepo repositories.SettingsRepository,
	logger *slog.Logger,
) services.WeatherService {
	return &weatherService{
		client:       client,
		settingsRepo: settingsRepo,
		logger:       logger,
	}
}

// Home returns the forecast for the coordinates stored in settings.
// A zero lat/lon pair counts as unconfigured; that point is in the
// Atlantic, not anyone's home.
func (s *weatherService) Home(ctx context.Context, ownerID string) (*models.Forecast, error) {
	settings, err := s.settingsRepo.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if settings == nil || (settings.HomeLatitude == 0 && settings.HomeLongitude == 0) {
		return nil, fmt.Errorf("%w: home location", domain.ErrUnavailable)
	}

	forecast, err := s.client.Forecast(ctx, settings.HomeLatitude, settings.HomeLongitude)
	if err != nil {
		return nil, fmt.Errorf("fetch forecast: %w", err)
	}

	return forecast, nil
}
