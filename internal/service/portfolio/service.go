// Package portfolio serves the positions dashboard and the ETF
// holdings view.
package portfolio

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/sync/errgroup"

	"atelier/internal/domain"
	"atelier/internal/domain/models"
	"atelier/internal/domain/repositories"
	"atelier/internal/domain/services"
	"atelier/internal/market/justetf"
	"atelier/internal/market/openfigi"
	"atelier/internal/market/yahoo"
)

// quoteFetchLimit bounds concurrent quote requests per overview call.
const quoteFetchLimit = 4

// QuoteClient is the market data surface the overview needs.
type QuoteClient interface {
	Quote(ctx context.Context, symbol string) (*yahoo.Quote, error)
}

// ISINMapper resolves ISINs to their primary listing.
type ISINMapper interface {
	MapISIN(ctx context.Context, isin string) (*openfigi.Mapping, error)
}

// HoldingsClient fetches ETF constituents.
type HoldingsClient interface {
	Holdings(ctx context.Context, isin string) ([]justetf.Holding, error)
}

type portfolioService struct {
	repo     repositories.PositionRepository
	quotes   QuoteClient
	mapper   ISINMapper
	holdings HoldingsClient
	matcher  Matcher
	logger   *slog.Logger
}

// NewPortfolioService creates a new portfolio service
func NewPortfolioService(
	repo repositories.PositionRepository,
	quotes QuoteClient,
	mapper ISINMapper,
	holdings HoldingsClient,
	matcher Matcher,
	logger *slog.Logger,
) services.PortfolioService {
	return &portfolioService{
		repo:     repo,
		quotes:   quotes,
		mapper:   mapper,
		holdings: holdings,
		matcher:  matcher,
		logger:   logger,
	}
}

// UpsertPosition creates or replaces the position for a symbol
func (s *portfolioService) UpsertPosition(ctx context.Context, ownerID, symbol string, req *models.UpsertPositionRequest) (*models.Position, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if err := validation.Validate(symbol, validation.Required, validation.Length(1, 20)); err != nil {
		return nil, fmt.Errorf("%w: symbol: %v", domain.ErrValidation, err)
	}
	if !req.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrValidation)
	}
	if req.AvgCost.IsNegative() {
		return nil, fmt.Errorf("%w: average cost cannot be negative", domain.ErrValidation)
	}

	position := &models.Position{
		OwnerID:   ownerID,
		Symbol:    symbol,
		ISIN:      strings.ToUpper(strings.TrimSpace(req.ISIN)),
		Quantity:  req.Quantity,
		AvgCost:   req.AvgCost,
		UpdatedAt: time.Now(),
	}

	if err := s.repo.Upsert(ctx, position); err != nil {
		return nil, err
	}

	s.logger.Info("position upserted",
		"owner_id", ownerID,
		"symbol", symbol,
		"quantity", position.Quantity,
	)

	return position, nil
}

// DeletePosition removes the position for a symbol
func (s *portfolioService) DeletePosition(ctx context.Context, ownerID, symbol string) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if err := s.repo.DeleteBySymbol(ctx, ownerID, symbol); err != nil {
		return err
	}

	s.logger.Info("position deleted",
		"owner_id", ownerID,
		"symbol", symbol,
	)

	return nil
}

// Overview returns all positions enriched with live quotes. Quotes are
// fetched concurrently with a small bound; a failed quote degrades that
// position to its stored cost basis instead of failing the view.
func (s *portfolioService) Overview(ctx context.Context, ownerID string) (*models.PortfolioOverview, error) {
	positions, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	views := make([]models.PositionView, len(positions))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(quoteFetchLimit)

	for i, position := range positions {
		group.Go(func() error {
			view := models.PositionView{Position: position}
			view.CostBasis = position.Quantity.Mul(position.AvgCost)

			quote, err := s.quotes.Quote(groupCtx, position.Symbol)
			if err != nil {
				s.logger.Warn("quote fetch failed, using stored data",
					"symbol", position.Symbol,
					"error", err,
				)
				view.MarketValue = view.CostBasis
				views[i] = view
				return nil
			}

			view.Quoted = true
			view.Price = quote.Price
			view.Currency = quote.Currency
			view.MarketValue = position.Quantity.Mul(quote.Price)
			view.GainLoss = view.MarketValue.Sub(view.CostBasis)
			views[i] = view
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	overview := &models.PortfolioOverview{Positions: views}
	for _, view := range views {
		overview.TotalValue = overview.TotalValue.Add(view.MarketValue)
		overview.TotalCost = overview.TotalCost.Add(view.CostBasis)
	}

	return overview, nil
}

// ETFHoldings returns the constituents of an ETF, marking the ones the
// owner also holds directly.
func (s *portfolioService) ETFHoldings(ctx context.Context, ownerID, isin string) ([]models.ETFHolding, error) {
	isin = strings.ToUpper(strings.TrimSpace(isin))
	if err := validation.Validate(isin, validation.Required, validation.Length(12, 12)); err != nil {
		return nil, fmt.Errorf("%w: isin: %v", domain.ErrValidation, err)
	}

	constituents, err := s.holdings.Holdings(ctx, isin)
	if err != nil {
		return nil, fmt.Errorf("fetch holdings: %w", err)
	}

	positions, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	// Candidate names come from the identifier service; a position whose
	// ISIN fails to resolve still matches on its raw symbol.
	candidates := make(map[string]string, len(positions))
	for _, position := range positions {
		candidates[position.Symbol] = position.Symbol
		if position.ISIN == "" || position.ISIN == isin {
			continue
		}
		mapping, err := s.mapper.MapISIN(ctx, position.ISIN)
		if err != nil {
			s.logger.Debug("isin mapping failed",
				"isin", position.ISIN,
				"error", err,
			)
			continue
		}
		if mapping.Name != "" {
			candidates[mapping.Name] = position.Symbol
		}
	}

	result := make([]models.ETFHolding, 0, len(constituents))
	for _, constituent := range constituents {
		holding := models.ETFHolding{
			Name:      constituent.Name,
			WeightPct: constituent.WeightPct,
		}
		if symbol, ok := s.matcher.Match(constituent.Name, candidates); ok {
			holding.Ticker = symbol
			holding.Held = true
		}
		result = append(result, holding)
	}

	return result, nil
}
