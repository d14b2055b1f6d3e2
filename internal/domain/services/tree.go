package services

import (
	"context"

	"atelier/internal/domain/models"
)

// TreeService defines operations for building workspace trees
type TreeService interface {
	// WorkspaceTree builds the nested folder/drawing forest for an owner
	WorkspaceTree(ctx context.Context, ownerID string) (*models.WorkspaceTree, error)
}
