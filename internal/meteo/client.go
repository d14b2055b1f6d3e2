// Package meteo fetches forecasts from the Open-Meteo API. The API is
// free and keyless; one call returns both current conditions and the
// seven-day outlook.
package meteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"atelier/internal/domain/models"
)

// Client provides access to the forecast API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new forecast client
func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}
}

// Forecast fetches current conditions and the daily outlook for a location
func (c *Client) Forecast(ctx context.Context, lat, lon float64) (*models.Forecast, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(lat, 'f', 4, 64))
	params.Set("longitude", strconv.FormatFloat(lon, 'f', 4, 64))
	params.Set("current", "temperature_2m,wind_speed_10m,weather_code")
	params.Set("daily", "temperature_2m_min,temperature_2m_max,precipitation_sum,weather_code")
	params.Set("forecast_days", "7")
	params.Set("timezone", "auto")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/forecast?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("forecast request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("forecast request: status %d: %s", resp.StatusCode, snippet)
	}

	var raw forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse forecast response: %w", err)
	}

	currentTime, _ := time.Parse("2006-01-02T15:04", raw.Current.Time)

	forecast := &models.Forecast{
		Latitude:  raw.Latitude,
		Longitude: raw.Longitude,
		Current: models.CurrentWeather{
			Time:        currentTime,
			Temperature: raw.Current.Temperature,
			WindSpeed:   raw.Current.WindSpeed,
			WeatherCode: raw.Current.WeatherCode,
		},
	}

	for i, date := range raw.Daily.Time {
		day := models.DailyForecast{Date: date}
		if i < len(raw.Daily.TemperatureMin) {
			day.TemperatureMin = raw.Daily.TemperatureMin[i]
		}
		if i < len(raw.Daily.TemperatureMax) {
			day.TemperatureMax = raw.Daily.TemperatureMax[i]
		}
		if i < len(raw.Daily.PrecipitationSum) {
			day.PrecipitationSum = raw.Daily.PrecipitationSum[i]
		}
		if i < len(raw.Daily.WeatherCode) {
			day.WeatherCode = raw.Daily.WeatherCode[i]
		}
		forecast.Daily = append(forecast.Daily, day)
	}

	return forecast, nil
}

type forecastResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Current   struct {
		Time        string  `json:"time"`
		Temperature float64 `json:"temperature_2m"`
		WindSpeed   float64 `json:"wind_speed_10m"`
		WeatherCode int     `json:"weather_code"`
	} `json:"current"`
	Daily struct {
		Time             []string  `json:"time"`
		TemperatureMin   []float64 `json:"temperature_2m_min"`
		TemperatureMax   []float64 `json:"temperature_2m_max"`
		PrecipitationSum []float64 `json:"precipitation_sum"`
		WeatherCode      []int     `json:"weather_code"`
	} `json:"daily"`
}
