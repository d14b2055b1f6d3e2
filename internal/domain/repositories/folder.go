package repositories

import (
	"context"

	"atelier/internal/domain/models"
)

// FolderRepository defines data access operations for folders
type FolderRepository interface {
	// Create creates a new folder
	Create(ctx context.Context, folder *models.Folder) error

	// GetByID retrieves a folder scoped to its owner
	GetByID(ctx context.Context, id, ownerID string) (*models.Folder, error)

	// Update persists name/parent changes
	Update(ctx context.Context, folder *models.Folder) error

	// Delete removes a folder row; descendant folders go with it through
	// the cascading parent relationship
	Delete(ctx context.Context, id, ownerID string) error

	// ListChildren lists immediate child folders (parentID nil = root level)
	ListChildren(ctx context.Context, ownerID string, parentID *string) ([]models.Folder, error)

	// GetAllByOwner retrieves the owner's folders as a flat list
	GetAllByOwner(ctx context.Context, ownerID string) ([]models.Folder, error)
}
