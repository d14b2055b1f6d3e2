package finance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	"atelier/internal/config"
	"atelier/internal/domain"
	"atelier/internal/domain/models"
	"atelier/internal/domain/repositories"
	"atelier/internal/domain/services"
)

type financeService struct {
	revenueRepo repositories.RevenueRepository
	costRepo    repositories.CostRepository
	targetRepo  repositories.TargetRepository
	logger      *slog.Logger

	// now is swappable so pacing tests can pin the clock
	now func() time.Time
}

// NewFinanceService creates a new finance service
func NewFinanceService(
	revenueRepo repositories.RevenueRepository,
	costRepo repositories.CostRepository,
	targetRepo repositories.TargetRepository,
	logger *slog.Logger,
) services.FinanceService {
	return &financeService{
		revenueRepo: revenueRepo,
		costRepo:    costRepo,
		targetRepo:  targetRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// RevenueReport filters and groups revenue entries
func (s *financeService) RevenueReport(ctx context.Context, ownerID string, filter models.EntryFilter, groupBy models.GroupKey) (*models.RevenueReport, error) {
	if !groupBy.Valid() {
		return nil, fmt.Errorf("%w: unknown grouping %q", domain.ErrValidation, groupBy)
	}

	entries, err := s.revenueRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	return GroupRevenue(FilterRevenue(entries, filter), groupBy), nil
}

// CostReport filters and groups cost entries
func (s *financeService) CostReport(ctx context.Context, ownerID string, filter models.EntryFilter, groupBy models.GroupKey) (*models.CostReport, error) {
	if !groupBy.Valid() {
		return nil, fmt.Errorf("%w: unknown grouping %q", domain.ErrValidation, groupBy)
	}

	entries, err := s.costRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	return GroupCosts(FilterCosts(entries, filter), groupBy), nil
}

// PacingReport compares the year's progress against its target. A year
// without a stored target paces against zero, so the dashboard renders
// either way.
func (s *financeService) PacingReport(ctx context.Context, ownerID string, year int, metric string) (*models.PacingReport, error) {
	switch metric {
	case models.MetricRevenue, models.MetricNetIncome, models.MetricHours:
	default:
		return nil, fmt.Errorf("%w: unknown metric %q", domain.ErrValidation, metric)
	}

	target, err := s.targetRepo.GetByYear(ctx, ownerID, year)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		target = &models.Target{OwnerID: ownerID, Year: year, TargetValue: decimal.Zero}
	}

	entries, err := s.revenueRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	inYear := FilterRevenue(entries, models.EntryFilter{From: &yearStart, To: &yearEnd})

	return Pacing(*target, inYear, metric, s.now()), nil
}

// UpsertTarget creates or replaces the target for a year
func (s *financeService) UpsertTarget(ctx context.Context, ownerID string, year int, req *models.UpsertTargetRequest) (*models.Target, error) {
	if err := validation.Validate(year, validation.Required, validation.Min(2000), validation.Max(2100)); err != nil {
		return nil, fmt.Errorf("%w: year: %v", domain.ErrValidation, err)
	}
	if req.TargetValue.IsNegative() {
		return nil, fmt.Errorf("%w: target value cannot be negative", domain.ErrValidation)
	}
	if err := validation.Validate(req.Notes, validation.Length(0, config.MaxTargetNotesLength)); err != nil {
		return nil, fmt.Errorf("%w: notes: %v", domain.ErrValidation, err)
	}

	target := &models.Target{
		OwnerID:     ownerID,
		Year:        year,
		TargetValue: req.TargetValue,
		Notes:       req.Notes,
		UpdatedAt:   time.Now(),
	}

	if err := s.targetRepo.Upsert(ctx, target); err != nil {
		return nil, err
	}

	s.logger.Info("target upserted",
		"owner_id", ownerID,
		"year", year,
		"target_value", target.TargetValue,
	)

	return target, nil
}

// ListTargets returns every target of the owner, newest year first
func (s *financeService) ListTargets(ctx context.Context, ownerID string) ([]models.Target, error) {
	return s.targetRepo.ListByOwner(ctx, ownerID)
}
