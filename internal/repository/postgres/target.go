package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"atelier/internal/domain"
	"atelier/internal/domain/models"
	"atelier/internal/domain/repositories"
)

// PostgresTargetRepository implements the TargetRepository interface
type PostgresTargetRepository struct {
	pool *pgxpool.Pool
}

// NewTargetRepository creates a new target repository
func NewTargetRepository(config *RepositoryConfig) repositories.TargetRepository {
	return &PostgresTargetRepository{
		pool: config.Pool,
	}
}

// Upsert inserts or replaces the target for (owner_id, year)
func (r *PostgresTargetRepository) Upsert(ctx context.Context, target *models.Target) error {
	query := `
		INSERT INTO targets (owner_id, year, target_value, notes)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (owner_id, year) DO UPDATE SET
			target_value = EXCLUDED.target_value,
			notes = EXCLUDED.notes,
			updated_at = NOW()
		RETURNING updated_at
	`

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		target.OwnerID,
		target.Year,
		target.TargetValue,
		target.Notes,
	).Scan(&target.UpdatedAt)

	if err != nil {
		return fmt.Errorf("upsert target: %w", err)
	}

	return nil
}

// GetByYear retrieves the target for a year
func (r *PostgresTargetRepository) GetByYear(ctx context.Context, ownerID string, year int) (*models.Target, error) {
	query := `
		SELECT owner_id, year, target_value, notes, updated_at
		FROM targets
		WHERE owner_id = $1 AND year = $2
	`

	executor := GetExecutor(ctx, r.pool)
	var target models.Target
	err := executor.QueryRow(ctx, query, ownerID, year).Scan(
		&target.OwnerID,
		&target.Year,
		&target.TargetValue,
		&target.Notes,
		&target.UpdatedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("target for %d: %w", year, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get target: %w", err)
	}

	return &target, nil
}

// ListByOwner retrieves all targets for an owner, newest year first
func (r *PostgresTargetRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Target, error) {
	query := `
		SELECT owner_id, year, target_value, notes, updated_at
		FROM targets
		WHERE owner_id = $1
		ORDER BY year DESC
	`

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list targets: %w", err)
	}
	defer rows.Close()

	var targets []models.Target
	for rows.Next() {
		var target models.Target
		err := rows.Scan(
			&target.OwnerID,
			&target.Year,
			&target.TargetValue,
			&target.Notes,
			&target.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan target: %w", err)
		}
		targets = append(targets, target)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate targets: %w", err)
	}

	return targets, nil
}
