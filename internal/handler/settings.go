package handler

import (
	"log/slog"
	"net/http"

	"atelier/internal/domain/models"
	"atelier/internal/domain/services"
	"atelier/internal/httputil"
)

// SettingsHandler handles external connection settings HTTP requests
type SettingsHandler struct {
	settingsService services.SettingsService
	logger          *slog.Logger
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService services.SettingsService, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		logger:          logger,
	}
}

// Get returns the redacted settings view
// GET /api/settings
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)

	view, err := h.settingsService.Get(r.Context(), ownerID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, view)
}

// updateSettingsBody is the wire shape of a settings PATCH. Secret fields
// decode tri-state so null disconnects and absence keeps the stored value.
type updateSettingsBody struct {
	NotionToken         httputil.OptionalString `json:"notion_token"`
	NotionRevenueDB     *string                 `json:"notion_revenue_db"`
	NotionCostDB        *string                 `json:"notion_cost_db"`
	SimplicateBaseURL   *string                 `json:"simplicate_base_url"`
	SimplicateAPIKey    httputil.OptionalString `json:"simplicate_api_key"`
	SimplicateAPISecret httputil.OptionalString `json:"simplicate_api_secret"`
	HomeLatitude        *float64                `json:"home_latitude"`
	HomeLongitude       *float64                `json:"home_longitude"`
}

// Update applies a partial settings update
// PATCH /api/settings
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)

	var body updateSettingsBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	req := models.UpdateSettingsRequest{
		NotionToken:         models.OptionalSecret(body.NotionToken),
		NotionRevenueDB:     body.NotionRevenueDB,
		NotionCostDB:        body.NotionCostDB,
		SimplicateBaseURL:   body.SimplicateBaseURL,
		SimplicateAPIKey:    models.OptionalSecret(body.SimplicateAPIKey),
		SimplicateAPISecret: models.OptionalSecret(body.SimplicateAPISecret),
		HomeLatitude:        body.HomeLatitude,
		HomeLongitude:       body.HomeLongitude,
	}

	view, err := h.settingsService.Update(r.Context(), ownerID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, view)
}
