package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"atelier/internal/domain/models"
	"atelier/internal/domain/repositories"
)

// PostgresCostRepository implements the CostRepository interface
type PostgresCostRepository struct {
	pool *pgxpool.Pool
}

// NewCostRepository creates a new cost repository
func NewCostRepository(config *RepositoryConfig) repositories.CostRepository {
	return &PostgresCostRepository{
		pool: config.Pool,
	}
}

// Upsert inserts or updates an entry keyed by (owner_id, source_page_id)
func (r *PostgresCostRepository) Upsert(ctx context.Context, entry *models.CostEntry) error {
	query := `
		INSERT INTO cost_entries (owner_id, source_page_id, entry_date, supplier, entry_type, vat_section, amount, vat)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (owner_id, source_page_id) DO UPDATE SET
			entry_date = EXCLUDED.entry_date,
			supplier = EXCLUDED.supplier,
			entry_type = EXCLUDED.entry_type,
			vat_section = EXCLUDED.vat_section,
			amount = EXCLUDED.amount,
			vat = EXCLUDED.vat,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		entry.OwnerID,
		entry.SourcePageID,
		entry.Date,
		entry.Supplier,
		entry.Type,
		entry.VATSection,
		entry.Amount,
		entry.VAT,
	).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)

	if err != nil {
		return fmt.Errorf("upsert cost entry: %w", err)
	}

	return nil
}

// ListByOwner retrieves all cost entries for an owner
func (r *PostgresCostRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.CostEntry, error) {
	query := `
		SELECT id, owner_id, source_page_id, entry_date, supplier, entry_type, vat_section, amount, vat, created_at, updated_at
		FROM cost_entries
		WHERE owner_id = $1
		ORDER BY entry_date ASC NULLS LAST, created_at ASC
	`

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list cost entries: %w", err)
	}
	defer rows.Close()

	var entries []models.CostEntry
	for rows.Next() {
		var entry models.CostEntry
		err := rows.Scan(
			&entry.ID,
			&entry.OwnerID,
			&entry.SourcePageID,
			&entry.Date,
			&entry.Supplier,
			&entry.Type,
			&entry.VATSection,
			&entry.Amount,
			&entry.VAT,
			&entry.CreatedAt,
			&entry.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan cost entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cost entries: %w", err)
	}

	return entries, nil
}
