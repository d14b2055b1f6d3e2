package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"atelier/internal/domain"
	"atelier/internal/domain/models"
	"atelier/internal/domain/repositories"
)

// PostgresRevenueRepository implements the RevenueRepository interface
type PostgresRevenueRepository struct {
	pool *pgxpool.Pool
}

// NewRevenueRepository creates a new revenue repository
func NewRevenueRepository(config *RepositoryConfig) repositories.RevenueRepository {
	return &PostgresRevenueRepository{
		pool: config.Pool,
	}
}

// Upsert inserts or updates an entry keyed by (owner_id, source_page_id).
// The push tracking columns are deliberately absent from the conflict
// update so a re-sync never rewinds an entry's push state.
func (r *PostgresRevenueRepository) Upsert(ctx context.Context, entry *models.RevenueEntry) error {
	query := `
		INSERT INTO revenue_entries (owner_id, source_page_id, entry_date, client, entry_type, vat_section, status, hours, revenue, net_income, vat)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (owner_id, source_page_id) DO UPDATE SET
			entry_date = EXCLUDED.entry_date,
			client = EXCLUDED.client,
			entry_type = EXCLUDED.entry_type,
			vat_section = EXCLUDED.vat_section,
			status = EXCLUDED.status,
			hours = EXCLUDED.hours,
			revenue = EXCLUDED.revenue,
			net_income = EXCLUDED.net_income,
			vat = EXCLUDED.vat,
			updated_at = NOW()
		RETURNING id, push_status, external_id, pushed_at, created_at, updated_at
	`

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		entry.OwnerID,
		entry.SourcePageID,
		entry.Date,
		entry.Client,
		entry.Type,
		entry.VATSection,
		entry.Status,
		entry.Hours,
		entry.Revenue,
		entry.NetIncome,
		entry.VAT,
	).Scan(&entry.ID, &entry.PushStatus, &entry.ExternalID, &entry.PushedAt, &entry.CreatedAt, &entry.UpdatedAt)

	if err != nil {
		return fmt.Errorf("upsert revenue entry: %w", err)
	}

	return nil
}

// ListByOwner retrieves all revenue entries for an owner
func (r *PostgresRevenueRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.RevenueEntry, error) {
	query := `
		SELECT id, owner_id, source_page_id, entry_date, client, entry_type, vat_section, status, hours, revenue, net_income, vat, push_status, external_id, pushed_at, created_at, updated_at
		FROM revenue_entries
		WHERE owner_id = $1
		ORDER BY entry_date ASC NULLS LAST, created_at ASC
	`

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list revenue entries: %w", err)
	}
	defer rows.Close()

	var entries []models.RevenueEntry
	for rows.Next() {
		var entry models.RevenueEntry
		err := rows.Scan(
			&entry.ID,
			&entry.OwnerID,
			&entry.SourcePageID,
			&entry.Date,
			&entry.Client,
			&entry.Type,
			&entry.VATSection,
			&entry.Status,
			&entry.Hours,
			&entry.Revenue,
			&entry.NetIncome,
			&entry.VAT,
			&entry.PushStatus,
			&entry.ExternalID,
			&entry.PushedAt,
			&entry.CreatedAt,
			&entry.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan revenue entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate revenue entries: %w", err)
	}

	return entries, nil
}

// ListPushable retrieves entries with push status pending or failed,
// optionally restricted to the given IDs
func (r *PostgresRevenueRepository) ListPushable(ctx context.Context, ownerID string, ids []string) ([]models.RevenueEntry, error) {
	query := `
		SELECT id, owner_id, source_page_id, entry_date, client, entry_type, vat_section, status, hours, revenue, net_income, vat, push_status, external_id, pushed_at, created_at, updated_at
		FROM revenue_entries
		WHERE owner_id = $1 AND push_status IN ('pending', 'failed')
	`
	args := []interface{}{ownerID}

	if len(ids) > 0 {
		query += ` AND id = ANY($2)`
		args = append(args, ids)
	}

	query += ` ORDER BY entry_date ASC NULLS LAST, created_at ASC`

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list pushable entries: %w", err)
	}
	defer rows.Close()

	var entries []models.RevenueEntry
	for rows.Next() {
		var entry models.RevenueEntry
		err := rows.Scan(
			&entry.ID,
			&entry.OwnerID,
			&entry.SourcePageID,
			&entry.Date,
			&entry.Client,
			&entry.Type,
			&entry.VATSection,
			&entry.Status,
			&entry.Hours,
			&entry.Revenue,
			&entry.NetIncome,
			&entry.VAT,
			&entry.PushStatus,
			&entry.ExternalID,
			&entry.PushedAt,
			&entry.CreatedAt,
			&entry.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan revenue entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pushable entries: %w", err)
	}

	return entries, nil
}

// MarkPushed records a successful push with the sink's identifier
func (r *PostgresRevenueRepository) MarkPushed(ctx context.Context, id, ownerID, externalID string, pushedAt time.Time) error {
	query := `
		UPDATE revenue_entries
		SET push_status = $1, external_id = $2, pushed_at = $3, updated_at = NOW()
		WHERE id = $4 AND owner_id = $5
	`

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, models.PushStatusSynced, externalID, pushedAt, id, ownerID)
	if err != nil {
		return fmt.Errorf("mark entry pushed: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("revenue entry %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// MarkPushFailed records a failed push attempt
func (r *PostgresRevenueRepository) MarkPushFailed(ctx context.Context, id, ownerID string) error {
	query := `
		UPDATE revenue_entries
		SET push_status = $1, updated_at = NOW()
		WHERE id = $2 AND owner_id = $3
	`

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, models.PushStatusFailed, id, ownerID)
	if err != nil {
		return fmt.Errorf("mark entry push failed: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("revenue entry %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
