package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"atelier/internal/domain"
	"atelier/internal/domain/models"
	"atelier/internal/domain/services"
	"atelier/internal/httputil"
)

// GroceryHandler handles store search and tracked product HTTP requests
type GroceryHandler struct {
	groceryService services.GroceryService
	logger         *slog.Logger
}

// NewGroceryHandler creates a new grocery handler
func NewGroceryHandler(groceryService services.GroceryService, logger *slog.Logger) *GroceryHandler {
	return &GroceryHandler{
		groceryService: groceryService,
		logger:         logger,
	}
}

// Search queries one store, or all stores when store is empty
// GET /api/groceries/search?q=&store=
func (h *GroceryHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	products, err := h.groceryService.Search(r.Context(), q.Get("q"), q.Get("store"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, products)
}

// ListProducts returns tracked products with their latest price
// GET /api/groceries/products
func (h *GroceryHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)

	products, err := h.groceryService.List(r.Context(), ownerID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, products)
}

// TrackProduct starts following a store product
// POST /api/groceries/products
// Returns 201 if created, 409 if the product is already tracked
func (h *GroceryHandler) TrackProduct(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)

	var req models.TrackProductRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.groceryService.Track(r.Context(), ownerID, &req)
	if err != nil {
		var conflictErr *domain.ConflictError
		if errors.As(err, &conflictErr) {
			httputil.RespondError(w, http.StatusConflict, conflictErr.Error())
			return
		}
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, product)
}

// RefreshProduct fetches the current price and appends a snapshot
// POST /api/groceries/products/{id}/refresh
func (h *GroceryHandler) RefreshProduct(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)

	id, err := pathUUID(r, "id")
	if err != nil {
		handleError(w, err)
		return
	}

	point, err := h.groceryService.Refresh(r.Context(), ownerID, id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, point)
}

// PriceHistory returns all snapshots of a product, oldest first
// GET /api/groceries/products/{id}/prices
func (h *GroceryHandler) PriceHistory(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)

	id, err := pathUUID(r, "id")
	if err != nil {
		handleError(w, err)
		return
	}

	points, err := h.groceryService.History(r.Context(), ownerID, id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, points)
}

// UntrackProduct stops following a product and drops its snapshots
// DELETE /api/groceries/products/{id}
func (h *GroceryHandler) UntrackProduct(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)

	id, err := pathUUID(r, "id")
	if err != nil {
		handleError(w, err)
		return
	}

	if err := h.groceryService.Untrack(r.Context(), ownerID, id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
