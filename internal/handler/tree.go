package handler

import (
	"log/slog"
	"net/http"

	"atelier/internal/domain/services"
	"atelier/internal/httputil"
)

// TreeHandler handles HTTP requests for the workspace tree
type TreeHandler struct {
	treeService services.TreeService
	logger      *slog.Logger
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(treeService services.TreeService, logger *slog.Logger) *TreeHandler {
	return &TreeHandler{
		treeService: treeService,
		logger:      logger,
	}
}

// GetTree returns the nested folder/drawing forest for the owner
// GET /api/tree
func (h *TreeHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)

	tree, err := h.treeService.WorkspaceTree(r.Context(), ownerID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tree)
}
