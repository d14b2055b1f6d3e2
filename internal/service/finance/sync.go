package finance

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"atelier/internal/domain"
	"atelier/internal/domain/models"
	"atelier/internal/domain/repositories"
	"atelier/internal/domain/services"
	"atelier/internal/notion"
)

// Property names of the source databases. The source schema is owned by
// the user's workspace, so these are fixed by convention, not discovery.
const (
	propDate       = "Date"
	propClient     = "Client"
	propSupplier   = "Supplier"
	propType       = "Type"
	propVATSection = "VAT section"
	propStatus     = "Status"
	propHours      = "Hours"
	propRevenue    = "Revenue"
	propNetIncome  = "Net income"
	propVAT        = "VAT"
	propAmount     = "Amount"
)

// SourceClient is the slice of the source API the sync needs.
type SourceClient interface {
	QueryAll(ctx context.Context, token, databaseID string) ([]notion.Page, error)
}

type syncService struct {
	source       SourceClient
	revenueRepo  repositories.RevenueRepository
	costRepo     repositories.CostRepository
	settingsRepo repositories.SettingsRepository
	logger       *slog.Logger
}

// NewSyncService creates a new sync service
func NewSyncService(
	source SourceClient,
	revenueRepo repositories.RevenueRepository,
	costRepo repositories.CostRepository,
	settingsRepo repositories.SettingsRepository,
	logger *slog.Logger,
) services.SyncService {
	return &syncService{
		source:       source,
		revenueRepo:  revenueRepo,
		costRepo:     costRepo,
		settingsRepo: settingsRepo,
		logger:       logger,
	}
}

// SyncEntries pulls both source databases and upserts their rows keyed
// by source page id. Push tracking on existing rows is left alone; that
// is the repository's contract, not re-checked here.
func (s *syncService) SyncEntries(ctx context.Context, ownerID string) (*models.SyncResult, error) {
	settings, err := s.settingsRepo.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if settings == nil || settings.NotionToken == "" || settings.NotionRevenueDB == "" {
		return nil, fmt.Errorf("%w: source connection", domain.ErrUnavailable)
	}

	result := &models.SyncResult{}

	pages, err := s.source.QueryAll(ctx, settings.NotionToken, settings.NotionRevenueDB)
	if err != nil {
		return nil, fmt.Errorf("pull revenue database: %w", err)
	}
	for _, page := range pages {
		entry := mapRevenuePage(ownerID, page)
		if err := s.revenueRepo.Upsert(ctx, entry); err != nil {
			return nil, err
		}
		result.RevenueSynced++
	}

	if settings.NotionCostDB != "" {
		pages, err := s.source.QueryAll(ctx, settings.NotionToken, settings.NotionCostDB)
		if err != nil {
			return nil, fmt.Errorf("pull cost database: %w", err)
		}
		for _, page := range pages {
			entry := mapCostPage(ownerID, page)
			if err := s.costRepo.Upsert(ctx, entry); err != nil {
				return nil, err
			}
			result.CostsSynced++
		}
	}

	s.logger.Info("entries synced",
		"owner_id", ownerID,
		"revenue_synced", result.RevenueSynced,
		"costs_synced", result.CostsSynced,
	)

	return result, nil
}

func mapRevenuePage(ownerID string, page notion.Page) *models.RevenueEntry {
	return &models.RevenueEntry{
		OwnerID:      ownerID,
		SourcePageID: page.ID,
		Date:         page.Date(propDate),
		Client:       page.Select(propClient),
		Type:         page.Select(propType),
		VATSection:   page.Select(propVATSection),
		Status:       page.Select(propStatus),
		Hours:        decimal.NewFromFloat(page.Number(propHours)),
		Revenue:      decimal.NewFromFloat(page.Number(propRevenue)),
		NetIncome:    decimal.NewFromFloat(page.Number(propNetIncome)),
		VAT:          decimal.NewFromFloat(page.Number(propVAT)),
	}
}

func mapCostPage(ownerID string, page notion.Page) *models.CostEntry {
	return &models.CostEntry{
		OwnerID:      ownerID,
		SourcePageID: page.ID,
		Date:         page.Date(propDate),
		Supplier:     page.Select(propSupplier),
		Type:         page.Select(propType),
		VATSection:   page.Select(propVATSection),
		Amount:       decimal.NewFromFloat(page.Number(propAmount)),
		VAT:          decimal.NewFromFloat(page.Number(propVAT)),
	}
}
