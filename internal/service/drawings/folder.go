package drawings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"atelier/internal/config"
	"atelier/internal/domain"
	"atelier/internal/domain/models"
	"atelier/internal/domain/repositories"
	"atelier/internal/domain/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type folderService struct {
	folderRepo  repositories.FolderRepository
	drawingRepo repositories.DrawingRepository
	ownership   *Ownership
	txManager   repositories.TransactionManager
	logger      *slog.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(
	folderRepo repositories.FolderRepository,
	drawingRepo repositories.DrawingRepository,
	ownership *Ownership,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.FolderService {
	return &folderService{
		folderRepo:  folderRepo,
		drawingRepo: drawingRepo,
		ownership:   ownership,
		txManager:   txManager,
		logger:      logger,
	}
}

// CreateFolder creates a new folder, optionally under a parent
func (s *folderService) CreateFolder(ctx context.Context, ownerID string, req *models.CreateFolderRequest) (*models.Folder, error) {
	// Normalize empty string to nil for root-level folders
	if req.ParentID != nil && *req.ParentID == "" {
		req.ParentID = nil
	}

	name := strings.TrimSpace(req.Name)
	if err := validateFolderName(name); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if req.ParentID != nil {
		if _, err := s.ownership.Folder(ctx, ownerID, *req.ParentID); err != nil {
			return nil, err
		}
	}

	if err := s.checkSiblingName(ctx, ownerID, req.ParentID, name, ""); err != nil {
		return nil, err
	}

	folder := &models.Folder{
		OwnerID:   ownerID,
		ParentID:  req.ParentID,
		Name:      name,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"owner_id", ownerID,
		"parent_id", folder.ParentID,
	)

	return folder, nil
}

// GetFolder retrieves a folder together with its root-to-folder path
func (s *folderService) GetFolder(ctx context.Context, ownerID, folderID string) (*models.FolderDetail, error) {
	folder, err := s.ownership.Folder(ctx, ownerID, folderID)
	if err != nil {
		return nil, err
	}

	return &models.FolderDetail{
		Folder: *folder,
		Path:   s.walkPath(ctx, folder),
	}, nil
}

// RenameFolder renames a folder in place
func (s *folderService) RenameFolder(ctx context.Context, ownerID, folderID, newName string) (*models.Folder, error) {
	folder, err := s.ownership.Folder(ctx, ownerID, folderID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(newName)
	if err := validateFolderName(name); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if err := s.checkSiblingName(ctx, ownerID, folder.ParentID, name, folder.ID); err != nil {
		return nil, err
	}

	folder.Name = name
	folder.UpdatedAt = time.Now()

	if err := s.folderRepo.Update(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder renamed",
		"id", folder.ID,
		"name", folder.Name,
		"owner_id", ownerID,
	)

	return folder, nil
}

// MoveFolder reparents a folder (nil newParentID means root)
func (s *folderService) MoveFolder(ctx context.Context, ownerID, folderID string, newParentID *string) (*models.Folder, error) {
	// Normalize empty string to nil for moves to root
	if newParentID != nil && *newParentID == "" {
		newParentID = nil
	}

	folder, err := s.ownership.Folder(ctx, ownerID, folderID)
	if err != nil {
		return nil, err
	}

	if newParentID != nil {
		if _, err := s.ownership.Folder(ctx, ownerID, *newParentID); err != nil {
			return nil, err
		}
		if err := s.validateNoCircularReference(ctx, ownerID, folderID, *newParentID); err != nil {
			return nil, err
		}
	}

	if err := s.checkSiblingName(ctx, ownerID, newParentID, folder.Name, folder.ID); err != nil {
		return nil, err
	}

	folder.ParentID = newParentID
	folder.UpdatedAt = time.Now()

	if err := s.folderRepo.Update(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder moved",
		"id", folder.ID,
		"name", folder.Name,
		"owner_id", ownerID,
		"parent_id", folder.ParentID,
	)

	return folder, nil
}

// DeleteFolder deletes a folder. Drawings directly inside it survive under
// the folder's former parent (root when the folder was root-level), while
// descendant folders are removed through the cascading parent relationship
// and their drawings fall back to root.
func (s *folderService) DeleteFolder(ctx context.Context, ownerID, folderID string) error {
	folder, err := s.ownership.Folder(ctx, ownerID, folderID)
	if err != nil {
		return err
	}

	// Reparent and delete atomically so no drawing is ever left pointing
	// at a folder that no longer exists
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.drawingRepo.ReparentByFolder(txCtx, ownerID, folderID, folder.ParentID); err != nil {
			return fmt.Errorf("reparent drawings of folder %s: %w", folderID, err)
		}
		return s.folderRepo.Delete(txCtx, folderID, ownerID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("folder deleted",
		"id", folderID,
		"name", folder.Name,
		"owner_id", ownerID,
		"drawings_moved_to", folder.ParentID,
	)

	return nil
}

// GetPath returns the breadcrumb path for a folder, root first
func (s *folderService) GetPath(ctx context.Context, ownerID, folderID string) ([]models.PathSegment, error) {
	folder, err := s.ownership.Folder(ctx, ownerID, folderID)
	if err != nil {
		return nil, err
	}
	return s.walkPath(ctx, folder), nil
}

// GetContents lists the immediate child folders and drawings of a folder
func (s *folderService) GetContents(ctx context.Context, ownerID string, folderID *string) (*models.FolderContents, error) {
	var folder *models.Folder

	if folderID != nil && *folderID != "" {
		var err error
		folder, err = s.ownership.Folder(ctx, ownerID, *folderID)
		if err != nil {
			return nil, err
		}
	} else {
		folderID = nil
	}

	childFolders, err := s.folderRepo.ListChildren(ctx, ownerID, folderID)
	if err != nil {
		return nil, fmt.Errorf("list child folders: %w", err)
	}

	drawings, err := s.drawingRepo.ListByFolder(ctx, ownerID, folderID)
	if err != nil {
		return nil, fmt.Errorf("list drawings: %w", err)
	}

	return &models.FolderContents{
		Folder:   folder,
		Folders:  childFolders,
		Drawings: drawings,
	}, nil
}

// walkPath collects the parent chain of a folder. The walk stops at the
// first missing link so a broken chain degrades to a partial path instead
// of an error.
func (s *folderService) walkPath(ctx context.Context, folder *models.Folder) []models.PathSegment {
	segments := []models.PathSegment{{ID: folder.ID, Name: folder.Name}}

	currentParent := folder.ParentID
	for currentParent != nil {
		parent, err := s.folderRepo.GetByID(ctx, *currentParent, folder.OwnerID)
		if err != nil {
			s.logger.Warn("path walk stopped at missing folder",
				"folder_id", *currentParent,
				"error", err,
			)
			break
		}
		segments = append(segments, models.PathSegment{ID: parent.ID, Name: parent.Name})
		currentParent = parent.ParentID
	}

	// Collected leaf-first; reverse to root-first for breadcrumbs
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}

	return segments
}

// checkSiblingName rejects a name already taken in the target location.
// excludeID skips the folder itself so no-op renames and moves pass.
func (s *folderService) checkSiblingName(ctx context.Context, ownerID string, parentID *string, name, excludeID string) error {
	siblings, err := s.folderRepo.ListChildren(ctx, ownerID, parentID)
	if err != nil {
		return fmt.Errorf("check for duplicate names: %w", err)
	}
	for _, sibling := range siblings {
		if sibling.ID != excludeID && sibling.Name == name {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("a folder named %q already exists in this location", name),
				ResourceType: "folder",
				ResourceID:   sibling.ID,
			}
		}
	}
	return nil
}

// validateNoCircularReference ensures moving a folder won't create a cycle.
// The walk goes upward from the proposed parent; reaching the folder itself
// means the target is one of its descendants. A missing folder along the
// walk counts as reaching the root, so the check terminates even on
// malformed data.
func (s *folderService) validateNoCircularReference(ctx context.Context, ownerID, folderID, newParentID string) error {
	// Can't move a folder into itself
	if folderID == newParentID {
		return fmt.Errorf("%w: cannot move a folder into itself", domain.ErrInvalidOperation)
	}

	currentID := newParentID
	for {
		current, err := s.folderRepo.GetByID(ctx, currentID, ownerID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				break
			}
			return err
		}

		if current.ParentID == nil {
			// Reached root, no cycle
			break
		}

		if *current.ParentID == folderID {
			return fmt.Errorf("%w: cannot move a folder under its own descendant", domain.ErrInvalidOperation)
		}

		currentID = *current.ParentID
	}

	return nil
}

// validateFolderName checks a trimmed folder name
func validateFolderName(name string) error {
	return validation.Validate(name,
		validation.Required,
		validation.Length(1, config.MaxFolderNameLength),
		validation.Match(regexp.MustCompile(`^[^/]+$`)).Error("folder name cannot contain slashes"),
	)
}
