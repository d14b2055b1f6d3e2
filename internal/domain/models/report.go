package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryFilter narrows a set of financial entries. All fields are optional
// and combine with AND; date bounds are inclusive. Entries without a date
// fail any date-bounded filter but pass unbounded ones.
type EntryFilter struct {
	From        *time.Time
	To          *time.Time
	Clients     []string
	Types       []string
	VATSections []string
	Statuses    []string
}

// GroupKey selects how entries are bucketed in a report: by calendar
// period or by a dimension value.
type GroupKey string

const (
	GroupMonth      GroupKey = "month"
	GroupQuarter    GroupKey = "quarter"
	GroupYear       GroupKey = "year"
	GroupClient     GroupKey = "client"
	GroupType       GroupKey = "type"
	GroupVATSection GroupKey = "vat_section"
)

// Valid reports whether g is a known grouping key.
func (g GroupKey) Valid() bool {
	switch g {
	case GroupMonth, GroupQuarter, GroupYear, GroupClient, GroupType, GroupVATSection:
		return true
	}
	return false
}

// Period reports whether g groups by calendar period (entries without a
// date are excluded from period buckets).
func (g GroupKey) Period() bool {
	return g == GroupMonth || g == GroupQuarter || g == GroupYear
}

// RevenueBucket is one aggregation group of revenue entries.
type RevenueBucket struct {
	Key        string          `json:"key"`
	Count      int             `json:"count"`
	Hours      decimal.Decimal `json:"hours"`
	Revenue    decimal.Decimal `json:"revenue"`
	NetIncome  decimal.Decimal `json:"net_income"`
	VAT        decimal.Decimal `json:"vat"`
	AvgRevenue decimal.Decimal `json:"avg_revenue"`
}

// RevenueTotals are the KPI sums over every filtered entry, including
// entries without a date.
type RevenueTotals struct {
	Count     int             `json:"count"`
	Hours     decimal.Decimal `json:"hours"`
	Revenue   decimal.Decimal `json:"revenue"`
	NetIncome decimal.Decimal `json:"net_income"`
	VAT       decimal.Decimal `json:"vat"`
}

// RevenueReport is the grouped view served to the revenue dashboard.
type RevenueReport struct {
	GroupBy GroupKey        `json:"group_by"`
	Buckets []RevenueBucket `json:"buckets"`
	Totals  RevenueTotals   `json:"totals"`
}

// CostBucket is one aggregation group of cost entries.
type CostBucket struct {
	Key       string          `json:"key"`
	Count     int             `json:"count"`
	Amount    decimal.Decimal `json:"amount"`
	VAT       decimal.Decimal `json:"vat"`
	AvgAmount decimal.Decimal `json:"avg_amount"`
}

// CostTotals are the KPI sums over every filtered cost entry.
type CostTotals struct {
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
	VAT    decimal.Decimal `json:"vat"`
}

// CostReport is the grouped view served to the cost dashboard.
type CostReport struct {
	GroupBy GroupKey     `json:"group_by"`
	Buckets []CostBucket `json:"buckets"`
	Totals  CostTotals   `json:"totals"`
}

// Pacing status classifications, fixed design constants.
const (
	PacingOnPace = "on_pace"
	PacingAtRisk = "at_risk"
	PacingBehind = "behind"
)

// Metrics a pacing report can track.
const (
	MetricRevenue   = "revenue"
	MetricNetIncome = "net_income"
	MetricHours     = "hours"
)

// PacingReport compares actual progress against the share of the annual
// target expected at the current date.
type PacingReport struct {
	Year             int             `json:"year"`
	Metric           string          `json:"metric"`
	TargetValue      decimal.Decimal `json:"target_value"`
	CurrentValue     decimal.Decimal `json:"current_value"`
	ElapsedRatio     float64         `json:"elapsed_ratio"`
	ExpectedProgress decimal.Decimal `json:"expected_progress"`
	Status           string          `json:"status"`
	Projected        decimal.Decimal `json:"projected"`
	Remaining        decimal.Decimal `json:"remaining"`
	RemainingDays    int             `json:"remaining_days"`
	DailyPaceNeeded  decimal.Decimal `json:"daily_pace_needed"`
	PercentOfTarget  float64         `json:"percent_of_target"`
}

// SyncResult reports how many rows a source pull upserted.
type SyncResult struct {
	RevenueSynced int `json:"revenue_synced"`
	CostsSynced   int `json:"costs_synced"`
}

// EntryPushResult is the outcome of pushing a single entry downstream.
type EntryPushResult struct {
	EntryID    string `json:"entry_id"`
	Status     string `json:"status"`
	ExternalID string `json:"external_id,omitempty"`
	Error      string `json:"error,omitempty"`
}

// PushResult reports a push batch. Partial completion is a normal,
// reported outcome; failed entries stay eligible for the next push.
type PushResult struct {
	Results []EntryPushResult `json:"results"`
	Pushed  int               `json:"pushed"`
	Failed  int               `json:"failed"`
}
