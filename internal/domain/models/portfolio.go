package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position is one holding in the owner's portfolio.
type Position struct {
	ID        string          `json:"id" db:"id"`
	OwnerID   string          `json:"owner_id" db:"owner_id"`
	Symbol    string          `json:"symbol" db:"symbol"`
	ISIN      string          `json:"isin" db:"isin"`
	Quantity  decimal.Decimal `json:"quantity" db:"quantity"`
	AvgCost   decimal.Decimal `json:"avg_cost" db:"avg_cost"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

type UpsertPositionRequest struct {
	ISIN     string          `json:"isin"`
	Quantity decimal.Decimal `json:"quantity"`
	AvgCost  decimal.Decimal `json:"avg_cost"`
}

// PositionView is a position enriched with live quote data. When the
// quote fetch failed, Quoted is false and MarketValue falls back to the
// stored cost basis.
type PositionView struct {
	Position
	Quoted      bool            `json:"quoted"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency,omitempty"`
	CostBasis   decimal.Decimal `json:"cost_basis"`
	MarketValue decimal.Decimal `json:"market_value"`
	GainLoss    decimal.Decimal `json:"gain_loss"`
}

// PortfolioOverview is the portfolio dashboard payload.
type PortfolioOverview struct {
	Positions  []PositionView  `json:"positions"`
	TotalValue decimal.Decimal `json:"total_value"`
	TotalCost  decimal.Decimal `json:"total_cost"`
}

// ETFHolding is one constituent of an ETF, enriched with the matching
// portfolio symbol when the owner also holds it directly.
type ETFHolding struct {
	Name      string  `json:"name"`
	WeightPct float64 `json:"weight_pct"`
	Ticker    string  `json:"ticker,omitempty"`
	Held      bool    `json:"held"`
}
