package models

import "time"

// CurrentWeather is the latest observation for a location.
type CurrentWeather struct {
	Time        time.Time `json:"time"`
	Temperature float64   `json:"temperature"`
	WindSpeed   float64   `json:"wind_speed"`
	WeatherCode int       `json:"weather_code"`
}

// DailyForecast is one day of the forecast window.
type DailyForecast struct {
	Date             string  `json:"date"`
	TemperatureMin   float64 `json:"temperature_min"`
	TemperatureMax   float64 `json:"temperature_max"`
	PrecipitationSum float64 `json:"precipitation_sum"`
	WeatherCode      int     `json:"weather_code"`
}

// Forecast is the weather payload for the configured home location.
type Forecast struct {
	Latitude  float64         `json:"latitude"`
	Longitude float64         `json:"longitude"`
	Current   CurrentWeather  `json:"current"`
	Daily     []DailyForecast `json:"daily"`
}
