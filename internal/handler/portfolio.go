package handler

import (
	"log/slog"
	"net/http"

	"atelier/internal/domain/models"
	"atelier/internal/domain/services"
	"atelier/internal/httputil"
)

// PortfolioHandler handles position and market data HTTP requests
type PortfolioHandler struct {
	portfolioService services.PortfolioService
	logger           *slog.Logger
}

// NewPortfolioHandler creates a new portfolio handler
func NewPortfolioHandler(portfolioService services.PortfolioService, logger *slog.Logger) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
		logger:           logger,
	}
}

// Overview returns all positions enriched with live quotes
// GET /api/portfolio
func (h *PortfolioHandler) Overview(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)

	overview, err := h.portfolioService.Overview(r.Context(), ownerID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, overview)
}

// UpsertPosition creates or replaces the position for a symbol
// PUT /api/portfolio/positions/{symbol}
func (h *PortfolioHandler) UpsertPosition(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)
	symbol := r.PathValue("symbol")

	var req models.UpsertPositionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	position, err := h.portfolioService.UpsertPosition(r.Context(), ownerID, symbol, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, position)
}

// DeletePosition removes the position for a symbol
// DELETE /api/portfolio/positions/{symbol}
func (h *PortfolioHandler) DeletePosition(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)
	symbol := r.PathValue("symbol")

	if err := h.portfolioService.DeletePosition(r.Context(), ownerID, symbol); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ETFHoldings returns the constituents of an ETF, marking the ones also
// held directly
// GET /api/portfolio/etf/{isin}/holdings
func (h *PortfolioHandler) ETFHoldings(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)
	isin := r.PathValue("isin")

	holdings, err := h.portfolioService.ETFHoldings(r.Context(), ownerID, isin)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, holdings)
}
