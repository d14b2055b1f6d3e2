package finance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"atelier/internal/domain/models"
)

func TestGroupRevenuePeriodKeys(t *testing.T) {
	entries := []models.RevenueEntry{
		revenueEntry("a", date(2024, time.January, 15), "acme", "consulting", "high", "paid", 1000),
		revenueEntry("b", date(2024, time.February, 2), "acme", "consulting", "high", "paid", 500),
		revenueEntry("c", date(2024, time.April, 20), "globex", "development", "low", "paid", 2000),
		revenueEntry("d", date(2023, time.December, 1), "globex", "development", "low", "paid", 300),
	}

	tests := []struct {
		groupBy models.GroupKey
		want    []string
	}{
		{models.GroupMonth, []string{"2023-12", "2024-01", "2024-02", "2024-04"}},
		{models.GroupQuarter, []string{"2023 Q4", "2024 Q1", "2024 Q2"}},
		{models.GroupYear, []string{"2023", "2024"}},
		{models.GroupClient, []string{"acme", "globex"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.groupBy), func(t *testing.T) {
			report := GroupRevenue(entries, tt.groupBy)
			if len(report.Buckets) != len(tt.want) {
				t.Fatalf("got %d buckets, want %d", len(report.Buckets), len(tt.want))
			}
			for i, bucket := range report.Buckets {
				if bucket.Key != tt.want[i] {
					t.Errorf("bucket %d: got key %q, want %q", i, bucket.Key, tt.want[i])
				}
			}
		})
	}
}

// The defining property of the grouping: bucket sums always add back up
// to the total of the dated entries, whatever the grouping key.
func TestGroupRevenueSumsAreExact(t *testing.T) {
	entries := []models.RevenueEntry{
		revenueEntry("a", date(2024, time.January, 1), "acme", "consulting", "high", "paid", 1234.56),
		revenueEntry("b", date(2024, time.January, 20), "acme", "development", "high", "paid", 0.01),
		revenueEntry("c", date(2024, time.July, 9), "globex", "consulting", "low", "paid", 999.99),
		revenueEntry("d", date(2025, time.March, 3), "initech", "consulting", "low", "paid", 5000),
	}

	for _, groupBy := range []models.GroupKey{models.GroupMonth, models.GroupQuarter, models.GroupYear, models.GroupClient, models.GroupType, models.GroupVATSection} {
		report := GroupRevenue(entries, groupBy)

		bucketSum := decimal.Zero
		for _, bucket := range report.Buckets {
			bucketSum = bucketSum.Add(bucket.Revenue)
		}
		if !bucketSum.Equal(report.Totals.Revenue) {
			t.Errorf("%s: bucket sum %s != total %s", groupBy, bucketSum, report.Totals.Revenue)
		}
	}

	report := GroupRevenue(entries, models.GroupMonth)
	want := decimal.NewFromFloat(7234.56)
	if !report.Totals.Revenue.Equal(want) {
		t.Errorf("total revenue: got %s, want %s", report.Totals.Revenue, want)
	}
}

func TestGroupRevenueDatelessEntries(t *testing.T) {
	entries := []models.RevenueEntry{
		revenueEntry("a", date(2024, time.May, 5), "acme", "consulting", "high", "paid", 100),
		revenueEntry("b", nil, "acme", "consulting", "high", "draft", 50),
	}

	report := GroupRevenue(entries, models.GroupMonth)

	// Dateless entries are in the totals but in no period bucket
	if report.Totals.Count != 2 {
		t.Errorf("totals count: got %d, want 2", report.Totals.Count)
	}
	if !report.Totals.Revenue.Equal(decimal.NewFromInt(150)) {
		t.Errorf("totals revenue: got %s, want 150", report.Totals.Revenue)
	}
	if len(report.Buckets) != 1 || report.Buckets[0].Count != 1 {
		t.Fatalf("expected one bucket with one entry, got %+v", report.Buckets)
	}

	// Dimension groupings keep them
	byClient := GroupRevenue(entries, models.GroupClient)
	if len(byClient.Buckets) != 1 || byClient.Buckets[0].Count != 2 {
		t.Fatalf("client grouping should include dateless entries, got %+v", byClient.Buckets)
	}
}

func TestGroupRevenueEmptyInput(t *testing.T) {
	report := GroupRevenue(nil, models.GroupMonth)
	if report.Buckets == nil || len(report.Buckets) != 0 {
		t.Errorf("empty input should yield empty bucket slice, got %v", report.Buckets)
	}
	if !report.Totals.Revenue.IsZero() {
		t.Errorf("empty input should yield zero totals, got %s", report.Totals.Revenue)
	}
}

func TestGroupCosts(t *testing.T) {
	entries := []models.CostEntry{
		{ID: "x", Date: date(2024, time.March, 1), Supplier: "hosting co", Type: "infra", Amount: decimal.NewFromInt(30), VAT: decimal.NewFromInt(6)},
		{ID: "y", Date: date(2024, time.March, 20), Supplier: "hosting co", Type: "infra", Amount: decimal.NewFromInt(30), VAT: decimal.NewFromInt(6)},
		{ID: "z", Date: date(2024, time.April, 2), Supplier: "cafe", Type: "travel", Amount: decimal.NewFromInt(15), VAT: decimal.NewFromInt(1)},
	}

	report := GroupCosts(entries, models.GroupMonth)
	if len(report.Buckets) != 2 {
		t.Fatalf("got %d buckets, want 2", len(report.Buckets))
	}
	march := report.Buckets[0]
	if march.Key != "2024-03" || !march.Amount.Equal(decimal.NewFromInt(60)) {
		t.Errorf("march bucket: got %s %s", march.Key, march.Amount)
	}
	if !march.AvgAmount.Equal(decimal.NewFromInt(30)) {
		t.Errorf("march average: got %s, want 30", march.AvgAmount)
	}
	if !report.Totals.Amount.Equal(decimal.NewFromInt(75)) {
		t.Errorf("total amount: got %s, want 75", report.Totals.Amount)
	}

	// Supplier maps onto the client dimension
	bySupplier := GroupCosts(entries, models.GroupClient)
	if len(bySupplier.Buckets) != 2 || bySupplier.Buckets[0].Key != "cafe" {
		t.Errorf("supplier grouping: got %+v", bySupplier.Buckets)
	}
}
