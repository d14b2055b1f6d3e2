package services

import (
	"context"

	"atelier/internal/domain/models"
)

// FinanceService assembles revenue/cost reports and target pacing from
// synced entries.
type FinanceService interface {
	// RevenueReport filters and groups revenue entries
	RevenueReport(ctx context.Context, ownerID string, filter models.EntryFilter, groupBy models.GroupKey) (*models.RevenueReport, error)

	// CostReport filters and groups cost entries
	CostReport(ctx context.Context, ownerID string, filter models.EntryFilter, groupBy models.GroupKey) (*models.CostReport, error)

	// PacingReport compares the year's progress against its target
	PacingReport(ctx context.Context, ownerID string, year int, metric string) (*models.PacingReport, error)

	// UpsertTarget creates or replaces the target for a year
	UpsertTarget(ctx context.Context, ownerID string, year int, req *models.UpsertTargetRequest) (*models.Target, error)

	// ListTargets returns every target of the owner, newest year first
	ListTargets(ctx context.Context, ownerID string) ([]models.Target, error)
}

// SyncService pulls revenue and cost entries from the configured source
// and upserts them locally.
type SyncService interface {
	SyncEntries(ctx context.Context, ownerID string) (*models.SyncResult, error)
}

// PushService sends pushable revenue entries to the configured sink, one
// at a time, recording per-entry outcomes.
type PushService interface {
	// PushPending pushes entries with push status pending or failed,
	// optionally restricted to the given entry IDs
	PushPending(ctx context.Context, ownerID string, ids []string) (*models.PushResult, error)
}
