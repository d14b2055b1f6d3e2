package services

import (
	"context"

	"atelier/internal/domain/models"
)

// PortfolioService handles positions and their market data enrichment
type PortfolioService interface {
	// UpsertPosition creates or replaces the position for a symbol
	UpsertPosition(ctx context.Context, ownerID, symbol string, req *models.UpsertPositionRequest) (*models.Position, error)

	// DeletePosition removes the position for a symbol
	DeletePosition(ctx context.Context, ownerID, symbol string) error

	// Overview returns all positions enriched with live quotes. Failed
	// quotes degrade to stored data; the view itself never fails on them.
	Overview(ctx context.Context, ownerID string) (*models.PortfolioOverview, error)

	// ETFHoldings returns the constituents of an ETF, marking the ones
	// the owner also holds directly
	ETFHoldings(ctx context.Context, ownerID, isin string) ([]models.ETFHolding, error)
}
