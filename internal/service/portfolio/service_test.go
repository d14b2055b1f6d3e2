package portfolio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"

	"atelier/internal/domain"
	"atelier/internal/domain/models"
	"atelier/internal/market/justetf"
	"atelier/internal/market/openfigi"
	"atelier/internal/market/yahoo"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

const testOwner = "owner-1"

type fakePositionRepo struct {
	positions map[string]*models.Position
	nextID    int
}

func newFakePositionRepo() *fakePositionRepo {
	return &fakePositionRepo{positions: make(map[string]*models.Position)}
}

func (r *fakePositionRepo) Upsert(ctx context.Context, position *models.Position) error {
	key := position.OwnerID + "/" + position.Symbol
	if existing, ok := r.positions[key]; ok {
		position.ID = existing.ID
	} else {
		r.nextID++
		position.ID = fmt.Sprintf("position-%d", r.nextID)
	}
	stored := *position
	r.positions[key] = &stored
	return nil
}

func (r *fakePositionRepo) GetBySymbol(ctx context.Context, ownerID, symbol string) (*models.Position, error) {
	position, ok := r.positions[ownerID+"/"+symbol]
	if !ok {
		return nil, fmt.Errorf("position %s: %w", symbol, domain.ErrNotFound)
	}
	copied := *position
	return &copied, nil
}

func (r *fakePositionRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.Position, error) {
	var out []models.Position
	for _, position := range r.positions {
		if position.OwnerID == ownerID {
			out = append(out, *position)
		}
	}
	return out, nil
}

func (r *fakePositionRepo) DeleteBySymbol(ctx context.Context, ownerID, symbol string) error {
	key := ownerID + "/" + symbol
	if _, ok := r.positions[key]; !ok {
		return fmt.Errorf("position %s: %w", symbol, domain.ErrNotFound)
	}
	delete(r.positions, key)
	return nil
}

type fakeQuoteClient struct {
	quotes map[string]yahoo.Quote
}

func (f *fakeQuoteClient) Quote(ctx context.Context, symbol string) (*yahoo.Quote, error) {
	quote, ok := f.quotes[symbol]
	if !ok {
		return nil, errors.New("quote unavailable")
	}
	return &quote, nil
}

type fakeISINMapper struct {
	names map[string]string
}

func (f *fakeISINMapper) MapISIN(ctx context.Context, isin string) (*openfigi.Mapping, error) {
	name, ok := f.names[isin]
	if !ok {
		return nil, errors.New("unknown isin")
	}
	return &openfigi.Mapping{Name: name}, nil
}

type fakeHoldingsClient struct {
	holdings []justetf.Holding
	err      error
}

func (f *fakeHoldingsClient) Holdings(ctx context.Context, isin string) ([]justetf.Holding, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.holdings, nil
}

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func newTestService(repo *fakePositionRepo, quotes *fakeQuoteClient, mapper *fakeISINMapper, holdings *fakeHoldingsClient) *portfolioService {
	if quotes == nil {
		quotes = &fakeQuoteClient{}
	}
	if mapper == nil {
		mapper = &fakeISINMapper{}
	}
	if holdings == nil {
		holdings = &fakeHoldingsClient{}
	}
	return NewPortfolioService(repo, quotes, mapper, holdings, NewMatcher(), discard).(*portfolioService)
}

func TestUpsertPositionValidation(t *testing.T) {
	svc := newTestService(newFakePositionRepo(), nil, nil, nil)

	tests := []struct {
		name   string
		symbol string
		req    models.UpsertPositionRequest
	}{
		{"empty symbol", "  ", models.UpsertPositionRequest{Quantity: dec(1)}},
		{"symbol too long", "THISSYMBOLISWAYTOOLONG", models.UpsertPositionRequest{Quantity: dec(1)}},
		{"zero quantity", "AAPL", models.UpsertPositionRequest{Quantity: decimal.Zero}},
		{"negative quantity", "AAPL", models.UpsertPositionRequest{Quantity: dec(-3)}},
		{"negative avg cost", "AAPL", models.UpsertPositionRequest{Quantity: dec(1), AvgCost: dec(-10)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpsertPosition(context.Background(), testOwner, tt.symbol, &tt.req)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("UpsertPosition() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestUpsertPositionNormalizesSymbol(t *testing.T) {
	repo := newFakePositionRepo()
	svc := newTestService(repo, nil, nil, nil)

	position, err := svc.UpsertPosition(context.Background(), testOwner, " asml ", &models.UpsertPositionRequest{
		ISIN:     "NL0010273215",
		Quantity: dec(10),
		AvgCost:  dec(600),
	})
	if err != nil {
		t.Fatalf("UpsertPosition() error = %v", err)
	}
	if position.Symbol != "ASML" {
		t.Errorf("Symbol = %q, want uppercase trimmed ASML", position.Symbol)
	}

	// Same symbol replaces rather than duplicates
	if _, err := svc.UpsertPosition(context.Background(), testOwner, "ASML", &models.UpsertPositionRequest{
		Quantity: dec(12),
		AvgCost:  dec(590),
	}); err != nil {
		t.Fatalf("second UpsertPosition() error = %v", err)
	}
	if len(repo.positions) != 1 {
		t.Errorf("stored %d positions, want 1", len(repo.positions))
	}
}

func TestOverviewEnrichesWithQuotes(t *testing.T) {
	repo := newFakePositionRepo()
	svc := newTestService(repo, &fakeQuoteClient{quotes: map[string]yahoo.Quote{
		"ASML": {Symbol: "ASML", Price: dec(700), Currency: "EUR"},
	}}, nil, nil)

	if _, err := svc.UpsertPosition(context.Background(), testOwner, "ASML", &models.UpsertPositionRequest{
		Quantity: dec(10),
		AvgCost:  dec(600),
	}); err != nil {
		t.Fatalf("UpsertPosition() error = %v", err)
	}

	overview, err := svc.Overview(context.Background(), testOwner)
	if err != nil {
		t.Fatalf("Overview() error = %v", err)
	}
	if len(overview.Positions) != 1 {
		t.Fatalf("Overview() returned %d positions, want 1", len(overview.Positions))
	}

	view := overview.Positions[0]
	if !view.Quoted {
		t.Error("Quoted = false, want true")
	}
	if !view.MarketValue.Equal(dec(7000)) {
		t.Errorf("MarketValue = %s, want 7000", view.MarketValue)
	}
	if !view.GainLoss.Equal(dec(1000)) {
		t.Errorf("GainLoss = %s, want 1000", view.GainLoss)
	}
	if !overview.TotalValue.Equal(dec(7000)) || !overview.TotalCost.Equal(dec(6000)) {
		t.Errorf("totals = %s/%s, want 7000/6000", overview.TotalValue, overview.TotalCost)
	}
}

func TestOverviewDegradesOnQuoteFailure(t *testing.T) {
	repo := newFakePositionRepo()
	// Only ASML has a live quote; AAPL falls back to stored data
	svc := newTestService(repo, &fakeQuoteClient{quotes: map[string]yahoo.Quote{
		"ASML": {Symbol: "ASML", Price: dec(700), Currency: "EUR"},
	}}, nil, nil)

	for symbol, req := range map[string]models.UpsertPositionRequest{
		"ASML": {Quantity: dec(10), AvgCost: dec(600)},
		"AAPL": {Quantity: dec(5), AvgCost: dec(180)},
	} {
		if _, err := svc.UpsertPosition(context.Background(), testOwner, symbol, &req); err != nil {
			t.Fatalf("UpsertPosition(%s) error = %v", symbol, err)
		}
	}

	overview, err := svc.Overview(context.Background(), testOwner)
	if err != nil {
		t.Fatalf("Overview() error = %v, want quote failures absorbed", err)
	}

	var degraded *models.PositionView
	for i := range overview.Positions {
		if overview.Positions[i].Symbol == "AAPL" {
			degraded = &overview.Positions[i]
		}
	}
	if degraded == nil {
		t.Fatal("AAPL missing from overview")
	}
	if degraded.Quoted {
		t.Error("Quoted = true for failed quote, want false")
	}
	if !degraded.MarketValue.Equal(degraded.CostBasis) {
		t.Errorf("MarketValue = %s, want cost basis %s", degraded.MarketValue, degraded.CostBasis)
	}
	if !overview.TotalValue.Equal(dec(7900)) {
		t.Errorf("TotalValue = %s, want 7900 (7000 quoted + 900 fallback)", overview.TotalValue)
	}
}

func TestDeletePosition(t *testing.T) {
	repo := newFakePositionRepo()
	svc := newTestService(repo, nil, nil, nil)

	if _, err := svc.UpsertPosition(context.Background(), testOwner, "ASML", &models.UpsertPositionRequest{
		Quantity: dec(10),
	}); err != nil {
		t.Fatalf("UpsertPosition() error = %v", err)
	}

	if err := svc.DeletePosition(context.Background(), testOwner, "ASML"); err != nil {
		t.Fatalf("DeletePosition() error = %v", err)
	}
	if err := svc.DeletePosition(context.Background(), testOwner, "ASML"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second DeletePosition() error = %v, want ErrNotFound", err)
	}
}

func TestETFHoldingsValidation(t *testing.T) {
	svc := newTestService(newFakePositionRepo(), nil, nil, nil)

	for _, isin := range []string{"", "SHORT", "WAYTOOLONGFORANISIN"} {
		if _, err := svc.ETFHoldings(context.Background(), testOwner, isin); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("ETFHoldings(%q) error = %v, want ErrValidation", isin, err)
		}
	}
}

func TestETFHoldingsMarksHeldPositions(t *testing.T) {
	repo := newFakePositionRepo()
	holdings := &fakeHoldingsClient{holdings: []justetf.Holding{
		{Name: "Apple Inc", WeightPct: 4.5},
		{Name: "ASML Holding NV", WeightPct: 1.1},
		{Name: "Nestle SA", WeightPct: 1.8},
	}}
	mapper := &fakeISINMapper{names: map[string]string{
		"US0378331005": "Apple Inc",
	}}
	svc := newTestService(repo, nil, mapper, holdings)

	for symbol, req := range map[string]models.UpsertPositionRequest{
		"AAPL": {ISIN: "US0378331005", Quantity: dec(5)},
		"ASML": {ISIN: "NL0010273215", Quantity: dec(10)},
	} {
		if _, err := svc.UpsertPosition(context.Background(), testOwner, symbol, &req); err != nil {
			t.Fatalf("UpsertPosition(%s) error = %v", symbol, err)
		}
	}

	result, err := svc.ETFHoldings(context.Background(), testOwner, "IE00B3RBWM25")
	if err != nil {
		t.Fatalf("ETFHoldings() error = %v", err)
	}
	if len(result) != 3 {
		t.Fatalf("ETFHoldings() returned %d holdings, want 3", len(result))
	}

	byName := make(map[string]models.ETFHolding, len(result))
	for _, holding := range result {
		byName[holding.Name] = holding
	}

	// Apple matches via the resolved ISIN name, ASML via its raw symbol
	if h := byName["Apple Inc"]; !h.Held || h.Ticker != "AAPL" {
		t.Errorf("Apple Inc = %+v, want held via AAPL", h)
	}
	if h := byName["ASML Holding NV"]; !h.Held || h.Ticker != "ASML" {
		t.Errorf("ASML Holding NV = %+v, want held via ASML", h)
	}
	if h := byName["Nestle SA"]; h.Held {
		t.Errorf("Nestle SA = %+v, want not held", h)
	}
}
