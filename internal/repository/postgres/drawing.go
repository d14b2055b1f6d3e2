package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"atelier/internal/domain"
	"atelier/internal/domain/models"
	"atelier/internal/domain/repositories"
)

// PostgresDrawingRepository implements the DrawingRepository interface
type PostgresDrawingRepository struct {
	pool *pgxpool.Pool
}

// NewDrawingRepository creates a new drawing repository
func NewDrawingRepository(config *RepositoryConfig) repositories.DrawingRepository {
	return &PostgresDrawingRepository{
		pool: config.Pool,
	}
}

// Create creates a new drawing
func (r *PostgresDrawingRepository) Create(ctx context.Context, drawing *models.Drawing) error {
	query := `
		INSERT INTO drawings (owner_id, folder_id, name, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		drawing.OwnerID,
		drawing.FolderID,
		drawing.Name,
		drawing.Content,
		drawing.CreatedAt,
		drawing.UpdatedAt,
	).Scan(&drawing.ID, &drawing.CreatedAt, &drawing.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create drawing: %w", err)
	}

	return nil
}

// GetByID retrieves a drawing with its content, scoped to its owner
func (r *PostgresDrawingRepository) GetByID(ctx context.Context, id, ownerID string) (*models.Drawing, error) {
	query := `
		SELECT id, owner_id, folder_id, name, content, created_at, updated_at
		FROM drawings
		WHERE id = $1 AND owner_id = $2
	`

	executor := GetExecutor(ctx, r.pool)
	var drawing models.Drawing
	err := executor.QueryRow(ctx, query, id, ownerID).Scan(
		&drawing.ID,
		&drawing.OwnerID,
		&drawing.FolderID,
		&drawing.Name,
		&drawing.Content,
		&drawing.CreatedAt,
		&drawing.UpdatedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("drawing %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get drawing: %w", err)
	}

	return &drawing, nil
}

// Update persists name/folder/content changes
func (r *PostgresDrawingRepository) Update(ctx context.Context, drawing *models.Drawing) error {
	query := `
		UPDATE drawings
		SET folder_id = $1, name = $2, content = $3, updated_at = NOW()
		WHERE id = $4 AND owner_id = $5
	`

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		drawing.FolderID,
		drawing.Name,
		drawing.Content,
		drawing.ID,
		drawing.OwnerID,
	)

	if err != nil {
		return fmt.Errorf("update drawing: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("drawing %s: %w", drawing.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete deletes a drawing
func (r *PostgresDrawingRepository) Delete(ctx context.Context, id, ownerID string) error {
	query := `
		DELETE FROM drawings
		WHERE id = $1 AND owner_id = $2
	`

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete drawing: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("drawing %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListByFolder lists drawing metadata in a folder (no content; folderID nil = root)
func (r *PostgresDrawingRepository) ListByFolder(ctx context.Context, ownerID string, folderID *string) ([]models.Drawing, error) {
	var query string
	var args []interface{}

	if folderID == nil {
		query = `
			SELECT id, owner_id, folder_id, name, created_at, updated_at
			FROM drawings
			WHERE owner_id = $1 AND folder_id IS NULL
			ORDER BY name ASC
		`
		args = append(args, ownerID)
	} else {
		query = `
			SELECT id, owner_id, folder_id, name, created_at, updated_at
			FROM drawings
			WHERE owner_id = $1 AND folder_id = $2
			ORDER BY name ASC
		`
		args = append(args, ownerID, *folderID)
	}

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list drawings: %w", err)
	}
	defer rows.Close()

	var drawings []models.Drawing
	for rows.Next() {
		var drawing models.Drawing
		err := rows.Scan(
			&drawing.ID,
			&drawing.OwnerID,
			&drawing.FolderID,
			&drawing.Name,
			&drawing.CreatedAt,
			&drawing.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan drawing: %w", err)
		}
		drawings = append(drawings, drawing)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate drawings: %w", err)
	}

	return drawings, nil
}

// GetAllMetadataByOwner retrieves all drawing metadata for an owner (no content)
func (r *PostgresDrawingRepository) GetAllMetadataByOwner(ctx context.Context, ownerID string) ([]models.Drawing, error) {
	query := `
		SELECT id, owner_id, folder_id, name, created_at, updated_at
		FROM drawings
		WHERE owner_id = $1
		ORDER BY name ASC
	`

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("get all drawings: %w", err)
	}
	defer rows.Close()

	var drawings []models.Drawing
	for rows.Next() {
		var drawing models.Drawing
		err := rows.Scan(
			&drawing.ID,
			&drawing.OwnerID,
			&drawing.FolderID,
			&drawing.Name,
			&drawing.CreatedAt,
			&drawing.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan drawing: %w", err)
		}
		drawings = append(drawings, drawing)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate drawings: %w", err)
	}

	return drawings, nil
}

// ReparentByFolder moves every drawing directly inside fromFolderID to
// toFolderID (nil = root)
func (r *PostgresDrawingRepository) ReparentByFolder(ctx context.Context, ownerID, fromFolderID string, toFolderID *string) error {
	query := `
		UPDATE drawings
		SET folder_id = $1, updated_at = NOW()
		WHERE owner_id = $2 AND folder_id = $3
	`

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, toFolderID, ownerID, fromFolderID); err != nil {
		return fmt.Errorf("reparent drawings: %w", err)
	}

	return nil
}
