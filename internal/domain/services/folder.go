package services

import (
	"context"

	"atelier/internal/domain/models"
)

// FolderService handles folder tree business logic
type FolderService interface {
	// CreateFolder creates a new folder, optionally under a parent
	CreateFolder(ctx context.Context, ownerID string, req *models.CreateFolderRequest) (*models.Folder, error)

	// GetFolder retrieves a folder together with its root-to-folder path
	GetFolder(ctx context.Context, ownerID, folderID string) (*models.FolderDetail, error)

	// RenameFolder renames a folder in place
	RenameFolder(ctx context.Context, ownerID, folderID, newName string) (*models.Folder, error)

	// MoveFolder reparents a folder (nil newParentID means root).
	// Self-moves and moves under a descendant fail with ErrInvalidOperation.
	MoveFolder(ctx context.Context, ownerID, folderID string, newParentID *string) (*models.Folder, error)

	// DeleteFolder deletes a folder. Drawings directly inside it are
	// reparented to the folder's parent; descendant folders are removed.
	DeleteFolder(ctx context.Context, ownerID, folderID string) error

	// GetPath returns the breadcrumb path for a folder, root first
	GetPath(ctx context.Context, ownerID, folderID string) ([]models.PathSegment, error)

	// GetContents lists the immediate child folders and drawings of a
	// folder (nil folderID means root)
	GetContents(ctx context.Context, ownerID string, folderID *string) (*models.FolderContents, error)
}
