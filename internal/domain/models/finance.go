package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Push status values for revenue entries flowing to the downstream sink.
const (
	PushStatusPending = "pending"
	PushStatusSynced  = "synced"
	PushStatusFailed  = "failed"
)

// RevenueEntry is a billed time record pulled from the external source.
// Rows are upserted keyed by (owner_id, source_page_id) and never created
// locally; only the push tracking fields change after sync.
type RevenueEntry struct {
	ID           string          `json:"id" db:"id"`
	OwnerID      string          `json:"owner_id" db:"owner_id"`
	SourcePageID string          `json:"source_page_id" db:"source_page_id"`
	Date         *time.Time      `json:"date" db:"entry_date"` // NULL when the source row has no date
	Client       string          `json:"client" db:"client"`
	Type         string          `json:"type" db:"entry_type"`
	VATSection   string          `json:"vat_section" db:"vat_section"`
	Status       string          `json:"status" db:"status"`
	Hours        decimal.Decimal `json:"hours" db:"hours"`
	Revenue      decimal.Decimal `json:"revenue" db:"revenue"`
	NetIncome    decimal.Decimal `json:"net_income" db:"net_income"`
	VAT          decimal.Decimal `json:"vat" db:"vat"`
	PushStatus   string          `json:"push_status" db:"push_status"`
	ExternalID   *string         `json:"external_id" db:"external_id"`
	PushedAt     *time.Time      `json:"pushed_at" db:"pushed_at"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

// CostEntry is an expense record pulled from the external source.
type CostEntry struct {
	ID           string          `json:"id" db:"id"`
	OwnerID      string          `json:"owner_id" db:"owner_id"`
	SourcePageID string          `json:"source_page_id" db:"source_page_id"`
	Date         *time.Time      `json:"date" db:"entry_date"`
	Supplier     string          `json:"supplier" db:"supplier"`
	Type         string          `json:"type" db:"entry_type"`
	VATSection   string          `json:"vat_section" db:"vat_section"`
	Amount       decimal.Decimal `json:"amount" db:"amount"`
	VAT          decimal.Decimal `json:"vat" db:"vat"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

// Target is the annual revenue goal, one row per year per owner.
type Target struct {
	OwnerID     string          `json:"owner_id" db:"owner_id"`
	Year        int             `json:"year" db:"year"`
	TargetValue decimal.Decimal `json:"target_value" db:"target_value"`
	Notes       string          `json:"notes" db:"notes"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

type UpsertTargetRequest struct {
	TargetValue decimal.Decimal `json:"target_value"`
	Notes       string          `json:"notes"`
}
