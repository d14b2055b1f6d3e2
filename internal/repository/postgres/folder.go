package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"atelier/internal/domain"
	"atelier/internal/domain/models"
	"atelier/internal/domain/repositories"
)

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool *pgxpool.Pool
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *RepositoryConfig) repositories.FolderRepository {
	return &PostgresFolderRepository{
		pool: config.Pool,
	}
}

// Create creates a new folder
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	query := `
		INSERT INTO folders (owner_id, parent_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		folder.OwnerID,
		folder.ParentID,
		folder.Name,
		folder.CreatedAt,
		folder.UpdatedAt,
	).Scan(&folder.ID, &folder.CreatedAt, &folder.UpdatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			existingID, queryErr := r.getExistingFolderID(ctx, folder.OwnerID, folder.ParentID, folder.Name)
			if queryErr != nil {
				return fmt.Errorf("folder '%s' already exists in this location: %w", folder.Name, domain.ErrConflict)
			}
			return &domain.ConflictError{
				Message:      fmt.Sprintf("folder '%s' already exists in this location", folder.Name),
				ResourceType: "folder",
				ResourceID:   existingID,
			}
		}
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

// GetByID retrieves a folder scoped to its owner
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id, ownerID string) (*models.Folder, error) {
	query := `
		SELECT id, owner_id, parent_id, name, created_at, updated_at
		FROM folders
		WHERE id = $1 AND owner_id = $2
	`

	executor := GetExecutor(ctx, r.pool)
	var folder models.Folder
	err := executor.QueryRow(ctx, query, id, ownerID).Scan(
		&folder.ID,
		&folder.OwnerID,
		&folder.ParentID,
		&folder.Name,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return &folder, nil
}

// Update persists name/parent changes
func (r *PostgresFolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	query := `
		UPDATE folders
		SET parent_id = $1, name = $2, updated_at = NOW()
		WHERE id = $3 AND owner_id = $4
	`

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		folder.ParentID,
		folder.Name,
		folder.ID,
		folder.OwnerID,
	)

	if err != nil {
		if IsPgDuplicateError(err) {
			existingID, queryErr := r.getExistingFolderID(ctx, folder.OwnerID, folder.ParentID, folder.Name)
			if queryErr != nil {
				return fmt.Errorf("folder '%s' already exists in this location: %w", folder.Name, domain.ErrConflict)
			}
			return &domain.ConflictError{
				Message:      fmt.Sprintf("folder '%s' already exists in this location", folder.Name),
				ResourceType: "folder",
				ResourceID:   existingID,
			}
		}
		return fmt.Errorf("update folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a folder row. Descendant folders go with it through the
// ON DELETE CASCADE parent relationship; their drawings drop to root via
// ON DELETE SET NULL.
func (r *PostgresFolderRepository) Delete(ctx context.Context, id, ownerID string) error {
	query := `
		DELETE FROM folders
		WHERE id = $1 AND owner_id = $2
	`

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListChildren lists immediate child folders (parentID nil = root level)
func (r *PostgresFolderRepository) ListChildren(ctx context.Context, ownerID string, parentID *string) ([]models.Folder, error) {
	var query string
	var args []interface{}

	if parentID == nil {
		query = `
			SELECT id, owner_id, parent_id, name, created_at, updated_at
			FROM folders
			WHERE owner_id = $1 AND parent_id IS NULL
			ORDER BY name ASC
		`
		args = append(args, ownerID)
	} else {
		query = `
			SELECT id, owner_id, parent_id, name, created_at, updated_at
			FROM folders
			WHERE owner_id = $1 AND parent_id = $2
			ORDER BY name ASC
		`
		args = append(args, ownerID, *parentID)
	}

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list folder children: %w", err)
	}
	defer rows.Close()

	var folders []models.Folder
	for rows.Next() {
		var folder models.Folder
		err := rows.Scan(
			&folder.ID,
			&folder.OwnerID,
			&folder.ParentID,
			&folder.Name,
			&folder.CreatedAt,
			&folder.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}

// GetAllByOwner retrieves the owner's folders as a flat list
func (r *PostgresFolderRepository) GetAllByOwner(ctx context.Context, ownerID string) ([]models.Folder, error) {
	query := `
		SELECT id, owner_id, parent_id, name, created_at, updated_at
		FROM folders
		WHERE owner_id = $1
		ORDER BY created_at ASC
	`

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("get all folders: %w", err)
	}
	defer rows.Close()

	var folders []models.Folder
	for rows.Next() {
		var folder models.Folder
		err := rows.Scan(
			&folder.ID,
			&folder.OwnerID,
			&folder.ParentID,
			&folder.Name,
			&folder.CreatedAt,
			&folder.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}

// getExistingFolderID looks up the folder occupying a (parent, name) slot
func (r *PostgresFolderRepository) getExistingFolderID(ctx context.Context, ownerID string, parentID *string, name string) (string, error) {
	var query string
	var args []interface{}

	if parentID == nil {
		query = `SELECT id FROM folders WHERE owner_id = $1 AND name = $2 AND parent_id IS NULL`
		args = append(args, ownerID, name)
	} else {
		query = `SELECT id FROM folders WHERE owner_id = $1 AND name = $2 AND parent_id = $3`
		args = append(args, ownerID, name, *parentID)
	}

	executor := GetExecutor(ctx, r.pool)
	var id string
	if err := executor.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return "", fmt.Errorf("get existing folder: %w", err)
	}

	return id, nil
}
