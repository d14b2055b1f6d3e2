package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"atelier/internal/domain"
	"atelier/internal/domain/models"
	"atelier/internal/domain/services"
	"atelier/internal/httputil"
)

// DrawingHandler handles drawing HTTP requests
type DrawingHandler struct {
	drawingService services.DrawingService
	logger         *slog.Logger
}

// NewDrawingHandler creates a new drawing handler
func NewDrawingHandler(drawingService services.DrawingService, logger *slog.Logger) *DrawingHandler {
	return &DrawingHandler{
		drawingService: drawingService,
		logger:         logger,
	}
}

// CreateDrawing creates a new drawing
// POST /api/drawings
// Returns 201 if created, 409 with the existing drawing on duplicate name
func (h *DrawingHandler) CreateDrawing(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)

	var req models.CreateDrawingRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	drawing, err := h.drawingService.CreateDrawing(r.Context(), ownerID, &req)
	if err != nil {
		HandleCreateConflict(w, err, func() (*models.Drawing, error) {
			var conflictErr *domain.ConflictError
			if errors.As(err, &conflictErr) {
				return h.drawingService.GetDrawing(r.Context(), ownerID, conflictErr.ResourceID)
			}
			return nil, err
		})
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, drawing)
}

// GetDrawing retrieves a drawing including its canvas content
// GET /api/drawings/{id}
func (h *DrawingHandler) GetDrawing(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)

	id, err := pathUUID(r, "id")
	if err != nil {
		handleError(w, err)
		return
	}

	drawing, err := h.drawingService.GetDrawing(r.Context(), ownerID, id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, drawing)
}

// updateDrawingBody is the wire shape of a drawing PATCH. folder_id needs
// tri-state decoding: absent means stay put, null means move to root.
type updateDrawingBody struct {
	Name     *string                 `json:"name"`
	FolderID httputil.OptionalString `json:"folder_id"`
	Content  json.RawMessage         `json:"content"`
}

// UpdateDrawing renames, moves and/or saves the canvas of a drawing
// PATCH /api/drawings/{id}
func (h *DrawingHandler) UpdateDrawing(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)

	id, err := pathUUID(r, "id")
	if err != nil {
		handleError(w, err)
		return
	}

	var body updateDrawingBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	req := models.UpdateDrawingRequest{
		Name: body.Name,
		FolderID: models.OptionalParent{
			Present: body.FolderID.Present,
			Value:   body.FolderID.Value,
		},
		Content: body.Content,
	}

	drawing, err := h.drawingService.UpdateDrawing(r.Context(), ownerID, id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, drawing)
}

// DeleteDrawing permanently deletes a drawing
// DELETE /api/drawings/{id}
func (h *DrawingHandler) DeleteDrawing(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)

	id, err := pathUUID(r, "id")
	if err != nil {
		handleError(w, err)
		return
	}

	if err := h.drawingService.DeleteDrawing(r.Context(), ownerID, id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
