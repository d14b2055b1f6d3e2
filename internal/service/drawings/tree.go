package drawings

import (
	"context"
	"log/slog"

	"atelier/internal/domain/models"
	"atelier/internal/domain/repositories"
	"atelier/internal/domain/services"
)

// treeService implements the TreeService interface
type treeService struct {
	folderRepo  repositories.FolderRepository
	drawingRepo repositories.DrawingRepository
	logger      *slog.Logger
}

// NewTreeService creates a new tree service
func NewTreeService(
	folderRepo repositories.FolderRepository,
	drawingRepo repositories.DrawingRepository,
	logger *slog.Logger,
) services.TreeService {
	return &treeService{
		folderRepo:  folderRepo,
		drawingRepo: drawingRepo,
		logger:      logger,
	}
}

// WorkspaceTree builds the nested folder/drawing forest for an owner
func (s *treeService) WorkspaceTree(ctx context.Context, ownerID string) (*models.WorkspaceTree, error) {
	allFolders, err := s.folderRepo.GetAllByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	// Drawing metadata only, no canvas payloads
	allDrawings, err := s.drawingRepo.GetAllMetadataByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	// Build folder hierarchy using 3-pass algorithm
	folderMap := make(map[string]*models.FolderTreeNode)
	var rootFolderIDs []string

	// First pass: create all folder nodes
	for _, folder := range allFolders {
		folderMap[folder.ID] = &models.FolderTreeNode{
			ID:        folder.ID,
			Name:      folder.Name,
			ParentID:  folder.ParentID,
			CreatedAt: folder.CreatedAt,
			Folders:   []*models.FolderTreeNode{},
			Drawings:  []models.DrawingTreeNode{},
		}
	}

	// Second pass: nest folders by connecting children to parents
	for _, folder := range allFolders {
		node := folderMap[folder.ID]
		if folder.ParentID == nil {
			// Root level folder - track ID for final tree
			rootFolderIDs = append(rootFolderIDs, folder.ID)
		} else {
			// Add to parent (as pointer reference for proper nesting)
			if parent, exists := folderMap[*folder.ParentID]; exists {
				parent.Folders = append(parent.Folders, node)
			}
		}
	}

	// Third pass: add drawings to their folders
	rootDrawings := make([]models.DrawingTreeNode, 0)
	for _, drawing := range allDrawings {
		drawingNode := models.DrawingTreeNode{
			ID:        drawing.ID,
			Name:      drawing.Name,
			FolderID:  drawing.FolderID,
			UpdatedAt: drawing.UpdatedAt,
		}

		if drawing.FolderID == nil {
			// Root level drawing
			rootDrawings = append(rootDrawings, drawingNode)
		} else {
			// Add to parent folder
			if parent, exists := folderMap[*drawing.FolderID]; exists {
				parent.Drawings = append(parent.Drawings, drawingNode)
			}
		}
	}

	// Build final tree using root folder pointers
	rootFolders := make([]*models.FolderTreeNode, 0)
	for _, folderID := range rootFolderIDs {
		if node, exists := folderMap[folderID]; exists {
			rootFolders = append(rootFolders, node)
		}
	}

	tree := &models.WorkspaceTree{
		Folders:  rootFolders,
		Drawings: rootDrawings,
	}

	s.logger.Debug("workspace tree built",
		"owner_id", ownerID,
		"folder_count", len(allFolders),
		"drawing_count", len(allDrawings),
	)

	return tree, nil
}
