// Package settings manages the owner's external connection settings.
// Secrets are write-only: responses collapse them to connection
// booleans, and updates use tri-state fields so a PATCH can clear a
// secret, replace it, or leave it alone.
package settings

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"atelier/internal/domain"
	"atelier/internal/domain/models"
	"atelier/internal/domain/repositories"
	"atelier/internal/domain/services"
)

type settingsService struct {
	repo   repositories.SettingsRepository
	logger *slog.Logger
}

// NewSettingsService creates a new settings service
func NewSettingsService(repo repositories.SettingsRepository, logger *slog.Logger) services.SettingsService {
	return &settingsService{
		repo:   repo,
		logger: logger,
	}
}

// Get returns the settings view (empty when nothing stored yet)
func (s *settingsService) Get(ctx context.Context, ownerID string) (*models.SettingsView, error) {
	stored, err := s.repo.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		stored = &models.Settings{OwnerID: ownerID}
	}
	view := stored.View()
	return &view, nil
}

// Update applies a partial update; only provided fields change
func (s *settingsService) Update(ctx context.Context, ownerID string, req *models.UpdateSettingsRequest) (*models.SettingsView, error) {
	if err := validateUpdate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	stored, err := s.repo.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		stored = &models.Settings{OwnerID: ownerID}
	}

	if req.NotionRevenueDB != nil {
		stored.NotionRevenueDB = *req.NotionRevenueDB
	}
	if req.NotionCostDB != nil {
		stored.NotionCostDB = *req.NotionCostDB
	}
	if req.SimplicateBaseURL != nil {
		stored.SimplicateBaseURL = *req.SimplicateBaseURL
	}
	if req.HomeLatitude != nil {
		stored.HomeLatitude = *req.HomeLatitude
	}
	if req.HomeLongitude != nil {
		stored.HomeLongitude = *req.HomeLongitude
	}
	applySecret(&stored.NotionToken, req.NotionToken)
	applySecret(&stored.SimplicateAPIKey, req.SimplicateAPIKey)
	applySecret(&stored.SimplicateAPISecret, req.SimplicateAPISecret)

	stored.UpdatedAt = time.Now()

	if err := s.repo.Upsert(ctx, stored); err != nil {
		return nil, err
	}

	// Secret values never reach the log, only whether they changed
	s.logger.Info("settings updated",
		"owner_id", ownerID,
		"has_notion_token", req.NotionToken.Present,
		"has_simplicate_key", req.SimplicateAPIKey.Present,
	)

	view := stored.View()
	return &view, nil
}

// applySecret maps tri-state semantics: absent keeps, null clears,
// value replaces.
func applySecret(target *string, secret models.OptionalSecret) {
	if !secret.Present {
		return
	}
	if secret.Value == nil {
		*target = ""
		return
	}
	*target = *secret.Value
}

func validateUpdate(req *models.UpdateSettingsRequest) error {
	if req.SimplicateBaseURL != nil && *req.SimplicateBaseURL != "" {
		if err := validation.Validate(*req.SimplicateBaseURL,
			validation.Match(regexp.MustCompile(`^https?://`)).Error("must be an http(s) URL"),
		); err != nil {
			return fmt.Errorf("simplicate_base_url: %v", err)
		}
	}
	if req.HomeLatitude != nil {
		if err := validation.Validate(*req.HomeLatitude, validation.Min(-90.0), validation.Max(90.0)); err != nil {
			return fmt.Errorf("home_latitude: %v", err)
		}
	}
	if req.HomeLongitude != nil {
		if err := validation.Validate(*req.HomeLongitude, validation.Min(-180.0), validation.Max(180.0)); err != nil {
			return fmt.Errorf("home_longitude: %v", err)
		}
	}
	return nil
}
