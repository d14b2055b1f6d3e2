package models

import (
	"time"
)

// Settings holds the owner's external connection configuration.
// One row per owner; secrets never leave the API unredacted.
type Settings struct {
	OwnerID             string    `json:"owner_id" db:"owner_id"`
	NotionToken         string    `json:"-" db:"notion_token"`
	NotionRevenueDB     string    `json:"notion_revenue_db" db:"notion_revenue_db"`
	NotionCostDB        string    `json:"notion_cost_db" db:"notion_cost_db"`
	SimplicateBaseURL   string    `json:"simplicate_base_url" db:"simplicate_base_url"`
	SimplicateAPIKey    string    `json:"-" db:"simplicate_api_key"`
	SimplicateAPISecret string    `json:"-" db:"simplicate_api_secret"`
	HomeLatitude        float64   `json:"home_latitude" db:"home_latitude"`
	HomeLongitude       float64   `json:"home_longitude" db:"home_longitude"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}

// SettingsView is the redacted API representation: secret material is
// collapsed to connection booleans.
type SettingsView struct {
	NotionConnected     bool      `json:"notion_connected"`
	NotionRevenueDB     string    `json:"notion_revenue_db"`
	NotionCostDB        string    `json:"notion_cost_db"`
	SimplicateConnected bool      `json:"simplicate_connected"`
	SimplicateBaseURL   string    `json:"simplicate_base_url"`
	HomeLatitude        float64   `json:"home_latitude"`
	HomeLongitude       float64   `json:"home_longitude"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// View redacts secrets for API responses.
func (s *Settings) View() SettingsView {
	return SettingsView{
		NotionConnected:     s.NotionToken != "",
		NotionRevenueDB:     s.NotionRevenueDB,
		NotionCostDB:        s.NotionCostDB,
		SimplicateConnected: s.SimplicateAPIKey != "" && s.SimplicateAPISecret != "",
		SimplicateBaseURL:   s.SimplicateBaseURL,
		HomeLatitude:        s.HomeLatitude,
		HomeLongitude:       s.HomeLongitude,
		UpdatedAt:           s.UpdatedAt,
	}
}

// OptionalSecret tracks tri-state semantics for secret updates (RFC 7396 PATCH).
// Transport-agnostic (no JSON tags) - handler maps from httputil.OptionalString.
//   - Present=false: field absent from request (keep stored value)
//   - Present=true, Value=nil: disconnect (clear)
//   - Present=true, Value=&"token": replace
type OptionalSecret struct {
	Present bool
	Value   *string
}

// UpdateSettingsRequest supports partial updates - only provided fields change.
type UpdateSettingsRequest struct {
	NotionToken         OptionalSecret `json:"-"`
	NotionRevenueDB     *string        `json:"notion_revenue_db,omitempty"`
	NotionCostDB        *string        `json:"notion_cost_db,omitempty"`
	SimplicateBaseURL   *string        `json:"simplicate_base_url,omitempty"`
	SimplicateAPIKey    OptionalSecret `json:"-"`
	SimplicateAPISecret OptionalSecret `json:"-"`
	HomeLatitude        *float64       `json:"home_latitude,omitempty"`
	HomeLongitude       *float64       `json:"home_longitude,omitempty"`
}
