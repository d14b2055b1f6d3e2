package handler

import (
	"log/slog"
	"net/http"

	"atelier/internal/domain/services"
	"atelier/internal/httputil"
)

// WeatherHandler serves the home location forecast
type WeatherHandler struct {
	weatherService services.WeatherService
	logger         *slog.Logger
}

// NewWeatherHandler creates a new weather handler
func NewWeatherHandler(weatherService services.WeatherService, logger *slog.Logger) *WeatherHandler {
	return &WeatherHandler{
		weatherService: weatherService,
		logger:         logger,
	}
}

// Home returns the forecast for the coordinates stored in settings
// GET /api/weather
func (h *WeatherHandler) Home(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)

	forecast, err := h.weatherService.Home(r.Context(), ownerID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, forecast)
}
