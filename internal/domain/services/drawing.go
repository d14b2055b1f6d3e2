package services

import (
	"context"

	"atelier/internal/domain/models"
)

// DrawingService handles drawing business logic
type DrawingService interface {
	// CreateDrawing creates a new drawing, optionally inside a folder
	CreateDrawing(ctx context.Context, ownerID string, req *models.CreateDrawingRequest) (*models.Drawing, error)

	// GetDrawing retrieves a drawing including its canvas content
	GetDrawing(ctx context.Context, ownerID, drawingID string) (*models.Drawing, error)

	// UpdateDrawing applies a partial update: rename, move (tri-state
	// folder_id) and/or replace the canvas content
	UpdateDrawing(ctx context.Context, ownerID, drawingID string, req *models.UpdateDrawingRequest) (*models.Drawing, error)

	// MoveDrawing reassigns a drawing to a folder (nil means root)
	MoveDrawing(ctx context.Context, ownerID, drawingID string, newFolderID *string) (*models.Drawing, error)

	// DeleteDrawing permanently deletes a drawing
	DeleteDrawing(ctx context.Context, ownerID, drawingID string) error
}
