package repositories

import (
	"context"

	"atelier/internal/domain/models"
)

// DrawingRepository defines data access operations for drawings
type DrawingRepository interface {
	// Create creates a new drawing
	Create(ctx context.Context, drawing *models.Drawing) error

	// GetByID retrieves a drawing with its content, scoped to its owner
	GetByID(ctx context.Context, id, ownerID string) (*models.Drawing, error)

	// Update persists name/folder/content changes
	Update(ctx context.Context, drawing *models.Drawing) error

	// Delete deletes a drawing
	Delete(ctx context.Context, id, ownerID string) error

	// ListByFolder lists drawing metadata in a folder (no content; folderID nil = root)
	ListByFolder(ctx context.Context, ownerID string, folderID *string) ([]models.Drawing, error)

	// GetAllMetadataByOwner retrieves all drawing metadata for an owner (no content)
	GetAllMetadataByOwner(ctx context.Context, ownerID string) ([]models.Drawing, error)

	// ReparentByFolder moves every drawing directly inside fromFolderID to
	// toFolderID (nil = root). Used when a folder is removed so its drawings
	// survive under the folder's former parent.
	ReparentByFolder(ctx context.Context, ownerID, fromFolderID string, toFolderID *string) error
}
