package finance

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"atelier/internal/domain"
	"atelier/internal/domain/models"
	"atelier/internal/domain/repositories"
	"atelier/internal/domain/services"
	"atelier/internal/simplicate"
)

// SinkClient is the slice of the downstream API the push needs.
type SinkClient interface {
	PostHours(ctx context.Context, creds simplicate.Credentials, entry simplicate.HoursEntry) (string, error)
	PostMileage(ctx context.Context, creds simplicate.Credentials, entry simplicate.MileageEntry) (string, error)
}

type pushService struct {
	sink         SinkClient
	revenueRepo  repositories.RevenueRepository
	settingsRepo repositories.SettingsRepository
	limiter      *rate.Limiter
	logger       *slog.Logger

	now func() time.Time
}

// NewPushService creates a new push service. Pushes are paced at one
// entry per second; the sink API throttles anything faster.
func NewPushService(
	sink SinkClient,
	revenueRepo repositories.RevenueRepository,
	settingsRepo repositories.SettingsRepository,
	logger *slog.Logger,
) services.PushService {
	return &pushService{
		sink:         sink,
		revenueRepo:  revenueRepo,
		settingsRepo: settingsRepo,
		limiter:      rate.NewLimiter(rate.Limit(1), 1),
		logger:       logger,
		now:          time.Now,
	}
}

// PushPending pushes entries one at a time, recording each outcome
// independently. A failed entry stays failed and eligible for the next
// run; the loop never rolls back what already succeeded.
func (s *pushService) PushPending(ctx context.Context, ownerID string, ids []string) (*models.PushResult, error) {
	settings, err := s.settingsRepo.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if settings == nil || settings.SimplicateBaseURL == "" || settings.SimplicateAPIKey == "" || settings.SimplicateAPISecret == "" {
		return nil, fmt.Errorf("%w: sink connection", domain.ErrUnavailable)
	}
	creds := simplicate.Credentials{
		BaseURL:   settings.SimplicateBaseURL,
		APIKey:    settings.SimplicateAPIKey,
		APISecret: settings.SimplicateAPISecret,
	}

	entries, err := s.revenueRepo.ListPushable(ctx, ownerID, ids)
	if err != nil {
		return nil, err
	}

	result := &models.PushResult{Results: make([]models.EntryPushResult, 0, len(entries))}

	for _, entry := range entries {
		if err := s.limiter.Wait(ctx); err != nil {
			// Cancelled mid-batch: report what completed so far
			return result, err
		}

		externalID, pushErr := s.pushOne(ctx, creds, entry)
		if pushErr != nil {
			if err := s.revenueRepo.MarkPushFailed(ctx, entry.ID, ownerID); err != nil {
				s.logger.Error("record push failure", "entry_id", entry.ID, "error", err)
			}
			result.Failed++
			result.Results = append(result.Results, models.EntryPushResult{
				EntryID: entry.ID,
				Status:  models.PushStatusFailed,
				Error:   pushErr.Error(),
			})
			s.logger.Warn("entry push failed",
				"entry_id", entry.ID,
				"owner_id", ownerID,
				"error", pushErr,
			)
			continue
		}

		if err := s.revenueRepo.MarkPushed(ctx, entry.ID, ownerID, externalID, s.now()); err != nil {
			s.logger.Error("record push success", "entry_id", entry.ID, "error", err)
		}
		result.Pushed++
		result.Results = append(result.Results, models.EntryPushResult{
			EntryID:    entry.ID,
			Status:     models.PushStatusSynced,
			ExternalID: externalID,
		})
	}

	s.logger.Info("push batch finished",
		"owner_id", ownerID,
		"pushed", result.Pushed,
		"failed", result.Failed,
	)

	return result, nil
}

func (s *pushService) pushOne(ctx context.Context, creds simplicate.Credentials, entry models.RevenueEntry) (string, error) {
	if entry.Date == nil {
		return "", fmt.Errorf("entry has no date")
	}
	note := entry.Client
	if entry.Type != "" {
		note = fmt.Sprintf("%s - %s", entry.Client, entry.Type)
	}

	if strings.EqualFold(entry.Type, "mileage") {
		return s.sink.PostMileage(ctx, creds, simplicate.MileageEntry{
			StartDate: entry.Date.Format("2006-01-02"),
			Mileage:   entry.Hours.InexactFloat64(),
			Note:      note,
		})
	}

	return s.sink.PostHours(ctx, creds, simplicate.HoursEntry{
		StartDate: entry.Date.Format("2006-01-02"),
		Hours:     entry.Hours.InexactFloat64(),
		Note:      note,
	})
}
