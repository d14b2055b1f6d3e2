package finance

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"atelier/internal/domain/models"
)

// GroupRevenue buckets entries by the grouping key. Totals always cover
// every entry passed in; entries without a date are left out of period
// buckets only.
func GroupRevenue(entries []models.RevenueEntry, groupBy models.GroupKey) *models.RevenueReport {
	report := &models.RevenueReport{
		GroupBy: groupBy,
		Buckets: make([]models.RevenueBucket, 0),
	}

	buckets := make(map[string]*models.RevenueBucket)
	for _, entry := range entries {
		report.Totals.Count++
		report.Totals.Hours = report.Totals.Hours.Add(entry.Hours)
		report.Totals.Revenue = report.Totals.Revenue.Add(entry.Revenue)
		report.Totals.NetIncome = report.Totals.NetIncome.Add(entry.NetIncome)
		report.Totals.VAT = report.Totals.VAT.Add(entry.VAT)

		key, ok := revenueBucketKey(entry, groupBy)
		if !ok {
			continue
		}
		bucket, exists := buckets[key]
		if !exists {
			bucket = &models.RevenueBucket{Key: key}
			buckets[key] = bucket
		}
		bucket.Count++
		bucket.Hours = bucket.Hours.Add(entry.Hours)
		bucket.Revenue = bucket.Revenue.Add(entry.Revenue)
		bucket.NetIncome = bucket.NetIncome.Add(entry.NetIncome)
		bucket.VAT = bucket.VAT.Add(entry.VAT)
	}

	for _, bucket := range buckets {
		bucket.AvgRevenue = bucket.Revenue.Div(decimal.NewFromInt(int64(bucket.Count)))
		report.Buckets = append(report.Buckets, *bucket)
	}
	sort.Slice(report.Buckets, func(i, j int) bool {
		return report.Buckets[i].Key < report.Buckets[j].Key
	})

	return report
}

// GroupCosts is the cost-entry counterpart of GroupRevenue.
func GroupCosts(entries []models.CostEntry, groupBy models.GroupKey) *models.CostReport {
	report := &models.CostReport{
		GroupBy: groupBy,
		Buckets: make([]models.CostBucket, 0),
	}

	buckets := make(map[string]*models.CostBucket)
	for _, entry := range entries {
		report.Totals.Count++
		report.Totals.Amount = report.Totals.Amount.Add(entry.Amount)
		report.Totals.VAT = report.Totals.VAT.Add(entry.VAT)

		key, ok := costBucketKey(entry, groupBy)
		if !ok {
			continue
		}
		bucket, exists := buckets[key]
		if !exists {
			bucket = &models.CostBucket{Key: key}
			buckets[key] = bucket
		}
		bucket.Count++
		bucket.Amount = bucket.Amount.Add(entry.Amount)
		bucket.VAT = bucket.VAT.Add(entry.VAT)
	}

	for _, bucket := range buckets {
		bucket.AvgAmount = bucket.Amount.Div(decimal.NewFromInt(int64(bucket.Count)))
		report.Buckets = append(report.Buckets, *bucket)
	}
	sort.Slice(report.Buckets, func(i, j int) bool {
		return report.Buckets[i].Key < report.Buckets[j].Key
	})

	return report
}

func revenueBucketKey(entry models.RevenueEntry, groupBy models.GroupKey) (string, bool) {
	if groupBy.Period() {
		if entry.Date == nil {
			return "", false
		}
		return periodKey(*entry.Date, groupBy), true
	}
	switch groupBy {
	case models.GroupClient:
		return entry.Client, true
	case models.GroupType:
		return entry.Type, true
	case models.GroupVATSection:
		return entry.VATSection, true
	}
	return "", false
}

// costBucketKey mirrors revenueBucketKey; the client dimension maps to
// the supplier field for costs.
func costBucketKey(entry models.CostEntry, groupBy models.GroupKey) (string, bool) {
	if groupBy.Period() {
		if entry.Date == nil {
			return "", false
		}
		return periodKey(*entry.Date, groupBy), true
	}
	switch groupBy {
	case models.GroupClient:
		return entry.Supplier, true
	case models.GroupType:
		return entry.Type, true
	case models.GroupVATSection:
		return entry.VATSection, true
	}
	return "", false
}

// periodKey formats the bucket label: "2024-03", "2024 Q1" or "2024".
func periodKey(date time.Time, groupBy models.GroupKey) string {
	switch groupBy {
	case models.GroupMonth:
		return date.Format("2006-01")
	case models.GroupQuarter:
		return fmt.Sprintf("%d Q%d", date.Year(), (int(date.Month())-1)/3+1)
	default:
		return strconv.Itoa(date.Year())
	}
}
