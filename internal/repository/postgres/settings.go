package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"atelier/internal/domain/models"
	"atelier/internal/domain/repositories"
)

// PostgresSettingsRepository implements the SettingsRepository interface
type PostgresSettingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(config *RepositoryConfig) repositories.SettingsRepository {
	return &PostgresSettingsRepository{
		pool: config.Pool,
	}
}

// Get retrieves the owner's settings row
func (r *PostgresSettingsRepository) Get(ctx context.Context, ownerID string) (*models.Settings, error) {
	query := `
		SELECT owner_id, notion_token, notion_revenue_db, notion_cost_db,
		       simplicate_base_url, simplicate_api_key, simplicate_api_secret,
		       home_latitude, home_longitude, updated_at
		FROM settings
		WHERE owner_id = $1
	`

	var settings models.Settings
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, ownerID).Scan(
		&settings.OwnerID,
		&settings.NotionToken,
		&settings.NotionRevenueDB,
		&settings.NotionCostDB,
		&settings.SimplicateBaseURL,
		&settings.SimplicateAPIKey,
		&settings.SimplicateAPISecret,
		&settings.HomeLatitude,
		&settings.HomeLongitude,
		&settings.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			// No settings exist yet - return nil (not an error)
			return nil, nil
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}

	return &settings, nil
}

// Upsert creates or updates the owner's settings row
func (r *PostgresSettingsRepository) Upsert(ctx context.Context, settings *models.Settings) error {
	query := `
		INSERT INTO settings (owner_id, notion_token, notion_revenue_db, notion_cost_db,
			simplicate_base_url, simplicate_api_key, simplicate_api_secret,
			home_latitude, home_longitude, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		ON CONFLICT (owner_id) DO UPDATE SET
			notion_token = EXCLUDED.notion_token,
			notion_revenue_db = EXCLUDED.notion_revenue_db,
			notion_cost_db = EXCLUDED.notion_cost_db,
			simplicate_base_url = EXCLUDED.simplicate_base_url,
			simplicate_api_key = EXCLUDED.simplicate_api_key,
			simplicate_api_secret = EXCLUDED.simplicate_api_secret,
			home_latitude = EXCLUDED.home_latitude,
			home_longitude = EXCLUDED.home_longitude,
			updated_at = NOW()
		RETURNING updated_at
	`

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		settings.OwnerID,
		settings.NotionToken,
		settings.NotionRevenueDB,
		settings.NotionCostDB,
		settings.SimplicateBaseURL,
		settings.SimplicateAPIKey,
		settings.SimplicateAPISecret,
		settings.HomeLatitude,
		settings.HomeLongitude,
	).Scan(&settings.UpdatedAt)

	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}

	return nil
}
