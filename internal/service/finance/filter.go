// Package finance turns synced revenue/cost entries into dashboard
// reports: conjunctive filtering, period/dimension bucketing and annual
// target pacing. The arithmetic lives in pure functions so it stays
// deterministic in (entries, target, now).
package finance

import (
	"time"

	"atelier/internal/domain/models"
)

// FilterRevenue returns the entries matching every set field of the
// filter. Date bounds are inclusive; entries without a date fail any
// date-bounded filter.
func FilterRevenue(entries []models.RevenueEntry, filter models.EntryFilter) []models.RevenueEntry {
	out := make([]models.RevenueEntry, 0, len(entries))
	for _, entry := range entries {
		if !dateInRange(entry.Date, filter.From, filter.To) {
			continue
		}
		if !matchesSet(entry.Client, filter.Clients) {
			continue
		}
		if !matchesSet(entry.Type, filter.Types) {
			continue
		}
		if !matchesSet(entry.VATSection, filter.VATSections) {
			continue
		}
		if !matchesSet(entry.Status, filter.Statuses) {
			continue
		}
		out = append(out, entry)
	}
	return out
}

// FilterCosts is the cost-entry counterpart of FilterRevenue. The client
// dimension matches the supplier field; the status filter does not apply
// to costs.
func FilterCosts(entries []models.CostEntry, filter models.EntryFilter) []models.CostEntry {
	out := make([]models.CostEntry, 0, len(entries))
	for _, entry := range entries {
		if !dateInRange(entry.Date, filter.From, filter.To) {
			continue
		}
		if !matchesSet(entry.Supplier, filter.Clients) {
			continue
		}
		if !matchesSet(entry.Type, filter.Types) {
			continue
		}
		if !matchesSet(entry.VATSection, filter.VATSections) {
			continue
		}
		out = append(out, entry)
	}
	return out
}

func dateInRange(date, from, to *time.Time) bool {
	if from == nil && to == nil {
		return true
	}
	if date == nil {
		return false
	}
	if from != nil && date.Before(*from) {
		return false
	}
	if to != nil && date.After(*to) {
		return false
	}
	return true
}

// matchesSet reports whether value is in allowed; an empty set allows
// everything.
func matchesSet(value string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, candidate := range allowed {
		if candidate == value {
			return true
		}
	}
	return false
}
