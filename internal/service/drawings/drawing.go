package drawings

import (
	"context"
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

type drawingService struct {
	drawingRepo repositories.DrawingRepository
	ownership   *Ownership
	logger      *slog.Logger
}

// NewDrawingService creates a new drawing service
func NewDrawingService(
	drawingRepo repositories.DrawingRepository,
	ownership *Ownership,
	logger *slog.Logger,
) services.DrawingService {
	return &drawingService{
		drawingRepo: drawingRepo,
		ownership:   ownership,
		logger:      logger,
	}
}

// CreateDrawing creates a new drawing, optionally inside a folder
func (s *drawingService) CreateDrawing(ctx context.Context, ownerID string, req *models.CreateDrawingRequest) (*models.Drawing, error) {
	// Normalize empty string to nil for root-level drawings
	if req.FolderID != nil && *req.FolderID == "" {
		req.FolderID = nil
	}

	name := strings.TrimSpace(req.Name)
	if err := validateDrawingName(name); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if len(req.Content) > config.MaxDrawingContentBytes {
		return nil, fmt.Errorf("%w: content exceeds %d bytes", domain.ErrValidation, config.MaxDrawingContentBytes)
	}

	if req.FolderID != nil {
		if _, err := s.ownership.Folder(ctx, ownerID, *req.FolderID); err != nil {
			return nil, err
		}
	}

	drawing := &models.Drawing{
		OwnerID:   ownerID,
		FolderID:  req.FolderID,
		Name:      name,
		Content:   req.Content,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.drawingRepo.Create(ctx, drawing); err != nil {
		return nil, err
	}

	s.logger.Info("drawing created",
		"id", drawing.ID,
		"name", drawing.Name,
		"owner_id", ownerID,
		"folder_id", drawing.FolderID,
	)

	return drawing, nil
}

// GetDrawing retrieves a drawing including its canvas content
func (s *drawingService) GetDrawing(ctx context.Context, ownerID, drawingID string) (*models.Drawing, error) {
	return s.ownership.Drawing(ctx, ownerID, drawingID)
}

// UpdateDrawing applies a partial update: rename, move and/or replace the
// canvas content
func (s *drawingService) UpdateDrawing(ctx context.Context, ownerID, drawingID string, req *models.UpdateDrawingRequest) (*models.Drawing, error) {
	if req.Name == nil && !req.FolderID.Present && req.Content == nil {
		return nil, fmt.Errorf("%w: at least one field must be provided", domain.ErrValidation)
	}

	drawing, err := s.ownership.Drawing(ctx, ownerID, drawingID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if err := validateDrawingName(name); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		drawing.Name = name
	}

	// Tri-state: only reassign the folder if the field was present
	if req.FolderID.Present {
		newFolderID := req.FolderID.Value
		if newFolderID != nil && *newFolderID == "" {
			newFolderID = nil
		}
		if newFolderID != nil {
			if _, err := s.ownership.Folder(ctx, ownerID, *newFolderID); err != nil {
				return nil, err
			}
		}
		drawing.FolderID = newFolderID
	}

	if req.Content != nil {
		if len(req.Content) > config.MaxDrawingContentBytes {
			return nil, fmt.Errorf("%w: content exceeds %d bytes", domain.ErrValidation, config.MaxDrawingContentBytes)
		}
		drawing.Content = req.Content
	}

	drawing.UpdatedAt = time.Now()

	if err := s.drawingRepo.Update(ctx, drawing); err != nil {
		return nil, err
	}

	s.logger.Info("drawing updated",
		"id", drawing.ID,
		"name", drawing.Name,
		"owner_id", ownerID,
		"has_name", req.Name != nil,
		"has_move", req.FolderID.Present,
		"has_content", req.Content != nil,
	)

	return drawing, nil
}

// MoveDrawing reassigns a drawing to a folder (nil means root). Drawings
// are leaves, so no cycle check is needed.
func (s *drawingService) MoveDrawing(ctx context.Context, ownerID, drawingID string, newFolderID *string) (*models.Drawing, error) {
	return s.UpdateDrawing(ctx, ownerID, drawingID, &models.UpdateDrawingRequest{
		FolderID: models.OptionalParent{Present: true, Value: newFolderID},
	})
}

// DeleteDrawing permanently deletes a drawing
func (s *drawingService) DeleteDrawing(ctx context.Context, ownerID, drawingID string) error {
	drawing, err := s.ownership.Drawing(ctx, ownerID, drawingID)
	if err != nil {
		return err
	}

	if err := s.drawingRepo.Delete(ctx, drawingID, ownerID); err != nil {
		return err
	}

	s.logger.Info("drawing deleted",
		"id", drawingID,
		"name", drawing.Name,
		"owner_id", ownerID,
	)

	return nil
}

// validateDrawingName checks a trimmed drawing name
func validateDrawingName(name string) error {
	return validation.Validate(name,
		validation.Required,
		validation.Length(1, config.MaxDrawingNameLength),
		validation.Match(regexp.MustCompile(`^[^/]+$`)).Error("drawing name cannot contain slashes"),
	)
}
