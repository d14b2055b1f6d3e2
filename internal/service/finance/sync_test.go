package finance

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"atelier/internal/domain"
	"atelier/internal/domain/models"
	"atelier/internal/notion"
)

type fakeCostRepo struct {
	entries map[string]*models.CostEntry
}

func newFakeCostRepo() *fakeCostRepo {
	return &fakeCostRepo{entries: make(map[string]*models.CostEntry)}
}

func (r *fakeCostRepo) Upsert(ctx context.Context, entry *models.CostEntry) error {
	key := entry.OwnerID + "/" + entry.SourcePageID
	entry.ID = key
	stored := *entry
	r.entries[key] = &stored
	return nil
}

func (r *fakeCostRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.CostEntry, error) {
	var out []models.CostEntry
	for _, entry := range r.entries {
		if entry.OwnerID == ownerID {
			out = append(out, *entry)
		}
	}
	return out, nil
}

type fakeSource struct {
	databases map[string][]notion.Page
}

func (s *fakeSource) QueryAll(ctx context.Context, token, databaseID string) ([]notion.Page, error) {
	if token == "" {
		return nil, errors.New("missing token")
	}
	pages, ok := s.databases[databaseID]
	if !ok {
		return nil, fmt.Errorf("unknown database %s", databaseID)
	}
	return pages, nil
}

func number(v float64) notion.Property {
	return notion.Property{Type: "number", Number: &v}
}

func sourcePage(id string) notion.Page {
	amount := 120.50
	return notion.Page{
		ID: id,
		Properties: map[string]notion.Property{
			"Date":    {Type: "date", Date: nil},
			"Hours":   number(8),
			"Revenue": number(800),
			"Amount":  {Type: "number", Number: &amount},
		},
	}
}

func TestSyncEntries(t *testing.T) {
	t.Run("upserts both databases and counts rows", func(t *testing.T) {
		revRepo := newFakeRevenueRepo()
		costRepo := newFakeCostRepo()
		source := &fakeSource{databases: map[string][]notion.Page{
			"rev-db":  {sourcePage("r1"), sourcePage("r2")},
			"cost-db": {sourcePage("c1")},
		}}
		svc := NewSyncService(source, revRepo, costRepo, connectedSettings(), discard)

		result, err := svc.SyncEntries(context.Background(), testOwner)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.RevenueSynced != 2 || result.CostsSynced != 1 {
			t.Fatalf("got revenue=%d costs=%d, want 2/1", result.RevenueSynced, result.CostsSynced)
		}
		if len(revRepo.entries) != 2 {
			t.Fatalf("stored %d revenue entries, want 2", len(revRepo.entries))
		}
	})

	t.Run("resync preserves push state", func(t *testing.T) {
		revRepo := newFakeRevenueRepo()
		source := &fakeSource{databases: map[string][]notion.Page{
			"rev-db":  {sourcePage("r1")},
			"cost-db": {},
		}}
		svc := NewSyncService(source, revRepo, newFakeCostRepo(), connectedSettings(), discard)

		if _, err := svc.SyncEntries(context.Background(), testOwner); err != nil {
			t.Fatalf("first sync: %v", err)
		}

		// Push the entry, then sync again
		var id string
		for entryID := range revRepo.entries {
			id = entryID
		}
		if err := revRepo.MarkPushed(context.Background(), id, testOwner, "ext-1", *date(2024, 3, 1)); err != nil {
			t.Fatalf("mark pushed: %v", err)
		}

		if _, err := svc.SyncEntries(context.Background(), testOwner); err != nil {
			t.Fatalf("second sync: %v", err)
		}
		entry := revRepo.entries[id]
		if entry.PushStatus != models.PushStatusSynced || entry.ExternalID == nil {
			t.Errorf("resync rewound push state: status=%s", entry.PushStatus)
		}
	})

	t.Run("unconfigured source", func(t *testing.T) {
		svc := NewSyncService(&fakeSource{}, newFakeRevenueRepo(), newFakeCostRepo(), &fakeSettingsRepo{}, discard)

		_, err := svc.SyncEntries(context.Background(), testOwner)
		if !errors.Is(err, domain.ErrUnavailable) {
			t.Fatalf("got %v, want ErrUnavailable", err)
		}
	})

	t.Run("cost database is optional", func(t *testing.T) {
		settings := connectedSettings()
		settings.settings.NotionCostDB = ""
		source := &fakeSource{databases: map[string][]notion.Page{
			"rev-db": {sourcePage("r1")},
		}}
		svc := NewSyncService(source, newFakeRevenueRepo(), newFakeCostRepo(), settings, discard)

		result, err := svc.SyncEntries(context.Background(), testOwner)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.CostsSynced != 0 {
			t.Errorf("got costs=%d, want 0", result.CostsSynced)
		}
	})
}

func TestMapRevenuePage(t *testing.T) {
	entry := mapRevenuePage(testOwner, sourcePage("p"))
	if entry.SourcePageID != "p" {
		t.Errorf("source page id: got %s", entry.SourcePageID)
	}
	if !entry.Hours.Equal(decimal.NewFromInt(8)) {
		t.Errorf("hours: got %s, want 8", entry.Hours)
	}
	if !entry.Revenue.Equal(decimal.NewFromInt(800)) {
		t.Errorf("revenue: got %s, want 800", entry.Revenue)
	}
	if entry.Date != nil {
		t.Errorf("empty date cell should map to nil")
	}
}
