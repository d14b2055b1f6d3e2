package finance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"atelier/internal/domain/models"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func revenueEntry(id string, d *time.Time, client, entryType, vatSection, status string, revenue float64) models.RevenueEntry {
	return models.RevenueEntry{
		ID:         id,
		Date:       d,
		Client:     client,
		Type:       entryType,
		VATSection: vatSection,
		Status:     status,
		Revenue:    decimal.NewFromFloat(revenue),
		NetIncome:  decimal.NewFromFloat(revenue * 0.7),
		Hours:      decimal.NewFromFloat(revenue / 100),
	}
}

func TestFilterRevenue(t *testing.T) {
	entries := []models.RevenueEntry{
		revenueEntry("a", date(2024, time.January, 15), "acme", "consulting", "high", "invoiced", 1000),
		revenueEntry("b", date(2024, time.June, 1), "acme", "development", "high", "paid", 2000),
		revenueEntry("c", date(2024, time.December, 31), "globex", "consulting", "low", "paid", 3000),
		revenueEntry("d", nil, "acme", "consulting", "high", "draft", 400),
	}

	tests := []struct {
		name   string
		filter models.EntryFilter
		want   []string
	}{
		{
			name:   "no filter keeps everything",
			filter: models.EntryFilter{},
			want:   []string{"a", "b", "c", "d"},
		},
		{
			name:   "date range is inclusive on both bounds",
			filter: models.EntryFilter{From: date(2024, time.June, 1), To: date(2024, time.December, 31)},
			want:   []string{"b", "c"},
		},
		{
			name:   "dateless entries fail any date bound",
			filter: models.EntryFilter{From: date(2020, time.January, 1)},
			want:   []string{"a", "b", "c"},
		},
		{
			name:   "dimension filters are conjunctive",
			filter: models.EntryFilter{Clients: []string{"acme"}, Types: []string{"consulting"}},
			want:   []string{"a", "d"},
		},
		{
			name:   "set membership allows several values",
			filter: models.EntryFilter{Statuses: []string{"paid", "draft"}},
			want:   []string{"b", "c", "d"},
		},
		{
			name:   "all filters together",
			filter: models.EntryFilter{From: date(2024, time.January, 1), To: date(2024, time.June, 30), Clients: []string{"acme"}, VATSections: []string{"high"}},
			want:   []string{"a", "b"},
		},
		{
			name:   "no match yields empty not nil",
			filter: models.EntryFilter{Clients: []string{"initech"}},
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterRevenue(entries, tt.filter)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d entries, want %d", len(got), len(tt.want))
			}
			for i, entry := range got {
				if entry.ID != tt.want[i] {
					t.Errorf("entry %d: got %s, want %s", i, entry.ID, tt.want[i])
				}
			}
		})
	}
}

func TestFilterCosts(t *testing.T) {
	entries := []models.CostEntry{
		{ID: "x", Date: date(2024, time.March, 3), Supplier: "hosting co", Type: "infra", VATSection: "high"},
		{ID: "y", Date: date(2024, time.April, 4), Supplier: "cafe", Type: "travel", VATSection: "low"},
	}

	// The client dimension matches the supplier field for costs
	got := FilterCosts(entries, models.EntryFilter{Clients: []string{"cafe"}})
	if len(got) != 1 || got[0].ID != "y" {
		t.Fatalf("supplier filter: got %v", got)
	}

	// Status filters never apply to costs
	got = FilterCosts(entries, models.EntryFilter{Statuses: []string{"paid"}})
	if len(got) != 2 {
		t.Fatalf("status filter should not narrow costs, got %d entries", len(got))
	}
}
