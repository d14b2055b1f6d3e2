package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"atelier/internal/domain"
	"atelier/internal/domain/models"
	"atelier/internal/domain/repositories"
)

// PostgresPositionRepository implements the PositionRepository interface
type PostgresPositionRepository struct {
	pool *pgxpool.Pool
}

// NewPositionRepository creates a new position repository
func NewPositionRepository(config *RepositoryConfig) repositories.PositionRepository {
	return &PostgresPositionRepository{
		pool: config.Pool,
	}
}

// Upsert inserts or replaces the position keyed by (owner_id, symbol)
func (r *PostgresPositionRepository) Upsert(ctx context.Context, position *models.Position) error {
	query := `
		INSERT INTO positions (owner_id, symbol, isin, quantity, avg_cost)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (owner_id, symbol) DO UPDATE SET
			isin = EXCLUDED.isin,
			quantity = EXCLUDED.quantity,
			avg_cost = EXCLUDED.avg_cost,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		position.OwnerID,
		position.Symbol,
		position.ISIN,
		position.Quantity,
		position.AvgCost,
	).Scan(&position.ID, &position.CreatedAt, &position.UpdatedAt)

	if err != nil {
		return fmt.Errorf("upsert position: %w", err)
	}

	return nil
}

// GetBySymbol retrieves one position
func (r *PostgresPositionRepository) GetBySymbol(ctx context.Context, ownerID, symbol string) (*models.Position, error) {
	query := `
		SELECT id, owner_id, symbol, isin, quantity, avg_cost, created_at, updated_at
		FROM positions
		WHERE owner_id = $1 AND symbol = $2
	`

	executor := GetExecutor(ctx, r.pool)
	var position models.Position
	err := executor.QueryRow(ctx, query, ownerID, symbol).Scan(
		&position.ID,
		&position.OwnerID,
		&position.Symbol,
		&position.ISIN,
		&position.Quantity,
		&position.AvgCost,
		&position.CreatedAt,
		&position.UpdatedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("position %s: %w", symbol, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get position: %w", err)
	}

	return &position, nil
}

// ListByOwner retrieves all positions for an owner
func (r *PostgresPositionRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Position, error) {
	query := `
		SELECT id, owner_id, symbol, isin, quantity, avg_cost, created_at, updated_at
		FROM positions
		WHERE owner_id = $1
		ORDER BY symbol ASC
	`

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}
	defer rows.Close()

	var positions []models.Position
	for rows.Next() {
		var position models.Position
		err := rows.Scan(
			&position.ID,
			&position.OwnerID,
			&position.Symbol,
			&position.ISIN,
			&position.Quantity,
			&position.AvgCost,
			&position.CreatedAt,
			&position.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}
		positions = append(positions, position)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate positions: %w", err)
	}

	return positions, nil
}

// DeleteBySymbol removes a position
func (r *PostgresPositionRepository) DeleteBySymbol(ctx context.Context, ownerID, symbol string) error {
	query := `
		DELETE FROM positions
		WHERE owner_id = $1 AND symbol = $2
	`

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, ownerID, symbol)
	if err != nil {
		return fmt.Errorf("delete position: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("position %s: %w", symbol, domain.ErrNotFound)
	}

	return nil
}
