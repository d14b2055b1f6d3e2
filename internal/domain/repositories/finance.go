package repositories

import (
	"context"
	"time"

	"atelier/internal/domain/models"
)

// RevenueRepository defines data access operations for revenue entries
type RevenueRepository interface {
	// Upsert inserts or updates an entry keyed by (owner_id, source_page_id).
	// On update the push tracking fields of the stored row are preserved.
	Upsert(ctx context.Context, entry *models.RevenueEntry) error

	// ListByOwner retrieves all revenue entries for an owner
	ListByOwner(ctx context.Context, ownerID string) ([]models.RevenueEntry, error)

	// ListPushable retrieves entries with push status pending or failed,
	// optionally restricted to the given IDs
	ListPushable(ctx context.Context, ownerID string, ids []string) ([]models.RevenueEntry, error)

	// MarkPushed records a successful push with the sink's identifier
	MarkPushed(ctx context.Context, id, ownerID, externalID string, pushedAt time.Time) error

	// MarkPushFailed records a failed push attempt
	MarkPushFailed(ctx context.Context, id, ownerID string) error
}

// CostRepository defines data access operations for cost entries
type CostRepository interface {
	// Upsert inserts or updates an entry keyed by (owner_id, source_page_id)
	Upsert(ctx context.Context, entry *models.CostEntry) error

	// ListByOwner retrieves all cost entries for an owner
	ListByOwner(ctx context.Context, ownerID string) ([]models.CostEntry, error)
}

// TargetRepository defines data access operations for annual targets
type TargetRepository interface {
	// Upsert inserts or replaces the target for (owner_id, year)
	Upsert(ctx context.Context, target *models.Target) error

	// GetByYear retrieves the target for a year
	GetByYear(ctx context.Context, ownerID string, year int) (*models.Target, error)

	// ListByOwner retrieves all targets for an owner, newest year first
	ListByOwner(ctx context.Context, ownerID string) ([]models.Target, error)
}
