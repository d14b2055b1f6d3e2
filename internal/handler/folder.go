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

// FolderHandler handles folder HTTP requests
type FolderHandler struct {
	folderService services.FolderService
	logger        *slog.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(folderService services.FolderService, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{
		folderService: folderService,
		logger:        logger,
	}
}

// CreateFolder creates a new folder
// POST /api/folders
// Returns 201 if created, 409 with the existing folder on duplicate name
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)

	var req models.CreateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	folder, err := h.folderService.CreateFolder(r.Context(), ownerID, &req)
	if err != nil {
		HandleCreateConflict(w, err, func() (*models.FolderDetail, error) {
			var conflictErr *domain.ConflictError
			if errors.As(err, &conflictErr) {
				return h.folderService.GetFolder(r.Context(), ownerID, conflictErr.ResourceID)
			}
			return nil, err
		})
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, folder)
}

// GetFolder retrieves a folder with its breadcrumb path
// GET /api/folders/{id}
func (h *FolderHandler) GetFolder(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)

	id, err := pathUUID(r, "id")
	if err != nil {
		handleError(w, err)
		return
	}

	folder, err := h.folderService.GetFolder(r.Context(), ownerID, id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}

// updateFolderBody is the wire shape of a folder PATCH. parent_id needs
// tri-state decoding: absent means stay put, null means move to root.
type updateFolderBody struct {
	Name     *string                 `json:"name"`
	ParentID httputil.OptionalString `json:"parent_id"`
}

// UpdateFolder renames and/or moves a folder
// PATCH /api/folders/{id}
func (h *FolderHandler) UpdateFolder(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)

	id, err := pathUUID(r, "id")
	if err != nil {
		handleError(w, err)
		return
	}

	var body updateFolderBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	req := models.UpdateFolderRequest{
		Name: body.Name,
		ParentID: models.OptionalParent{
			Present: body.ParentID.Present,
			Value:   body.ParentID.Value,
		},
	}

	folder := (*models.Folder)(nil)
	if req.Name != nil {
		folder, err = h.folderService.RenameFolder(r.Context(), ownerID, id, *req.Name)
		if err != nil {
			handleError(w, err)
			return
		}
	}
	if req.ParentID.Present {
		folder, err = h.folderService.MoveFolder(r.Context(), ownerID, id, req.ParentID.Value)
		if err != nil {
			handleError(w, err)
			return
		}
	}
	if folder == nil {
		httputil.RespondError(w, http.StatusBadRequest, "no fields to update")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}

// DeleteFolder deletes a folder; drawings directly inside move up to the
// folder's parent, descendant folders go with it
// DELETE /api/folders/{id}
func (h *FolderHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)

	id, err := pathUUID(r, "id")
	if err != nil {
		handleError(w, err)
		return
	}

	if err := h.folderService.DeleteFolder(r.Context(), ownerID, id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// FolderContents lists the immediate children of a folder
// GET /api/folders/{id}/contents
func (h *FolderHandler) FolderContents(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)

	id, err := pathUUID(r, "id")
	if err != nil {
		handleError(w, err)
		return
	}

	contents, err := h.folderService.GetContents(r.Context(), ownerID, &id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, contents)
}

// RootContents lists the folders and drawings at the workspace root
// GET /api/contents
func (h *FolderHandler) RootContents(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)

	contents, err := h.folderService.GetContents(r.Context(), ownerID, nil)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, contents)
}
