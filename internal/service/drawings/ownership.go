package drawings

import (
	"context"
	"fmt"

	"atelier/internal/domain/models"
	"atelier/internal/domain/repositories"
)

// Ownership resolves ids to entities scoped to their owner. Every mutation
// goes through it before touching anything, so an id that is absent or
// owned by someone else surfaces as the same ErrNotFound either way.
type Ownership struct {
	folderRepo  repositories.FolderRepository
	drawingRepo repositories.DrawingRepository
}

// NewOwnership creates the ownership gate shared by the drawing services
func NewOwnership(
	folderRepo repositories.FolderRepository,
	drawingRepo repositories.DrawingRepository,
) *Ownership {
	return &Ownership{
		folderRepo:  folderRepo,
		drawingRepo: drawingRepo,
	}
}

// Folder returns the folder only when the caller owns it
func (o *Ownership) Folder(ctx context.Context, ownerID, folderID string) (*models.Folder, error) {
	folder, err := o.folderRepo.GetByID(ctx, folderID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("resolve folder: %w", err)
	}
	return folder, nil
}

// Drawing returns the drawing only when the caller owns it
func (o *Ownership) Drawing(ctx context.Context, ownerID, drawingID string) (*models.Drawing, error) {
	drawing, err := o.drawingRepo.GetByID(ctx, drawingID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("resolve drawing: %w", err)
	}
	return drawing, nil
}
