package weather

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"atelier/internal/domain"
	"atelier/internal/domain/models"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

const testOwner = "owner-1"

type fakeSettingsRepo struct {
	settings map[string]*models.Settings
}

func (r *fakeSettingsRepo) Get(ctx context.Context, ownerID string) (*models.Settings, error) {
	return r.settings[ownerID], nil
}

func (r *fakeSettingsRepo) Upsert(ctx context.Context, settings *models.Settings) error {
	r.settings[settings.OwnerID] = settings
	return nil
}

type fakeForecastClient struct {
	lastLat, lastLon float64
	err              error
}

func (f *fakeForecastClient) Forecast(ctx context.Context, lat, lon float64) (*models.Forecast, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastLat, f.lastLon = lat, lon
	return &models.Forecast{Latitude: lat, Longitude: lon}, nil
}

func TestHomeRequiresConfiguredLocation(t *testing.T) {
	tests := []struct {
		name     string
		settings *models.Settings
	}{
		{"no settings row", nil},
		{"zero coordinates", &models.Settings{OwnerID: testOwner}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeSettingsRepo{settings: map[string]*models.Settings{}}
			if tt.settings != nil {
				repo.settings[testOwner] = tt.settings
			}
			svc := NewWeatherService(&fakeForecastClient{}, repo, discard)

			_, err := svc.Home(context.Background(), testOwner)
			if !errors.Is(err, domain.ErrUnavailable) {
				t.Errorf("Home() error = %v, want ErrUnavailable", err)
			}
		})
	}
}

func TestHomeUsesStoredCoordinates(t *testing.T) {
	repo := &fakeSettingsRepo{settings: map[string]*models.Settings{
		testOwner: {OwnerID: testOwner, HomeLatitude: 52.3676, HomeLongitude: 4.9041},
	}}
	client := &fakeForecastClient{}
	svc := NewWeatherService(client, repo, discard)

	forecast, err := svc.Home(context.Background(), testOwner)
	if err != nil {
		t.Fatalf("Home() error = %v", err)
	}
	if client.lastLat != 52.3676 || client.lastLon != 4.9041 {
		t.Errorf("Forecast called with (%v, %v), want stored coordinates", client.lastLat, client.lastLon)
	}
	if forecast.Latitude != 52.3676 {
		t.Errorf("forecast latitude = %v, want 52.3676", forecast.Latitude)
	}
}

func TestHomeWrapsClientFailure(t *testing.T) {
	repo := &fakeSettingsRepo{settings: map[string]*models.Settings{
		testOwner: {OwnerID: testOwner, HomeLatitude: 52.0, HomeLongitude: 4.0},
	}}
	client := &fakeForecastClient{err: errors.New("upstream timeout")}
	svc := NewWeatherService(client, repo, discard)

	if _, err := svc.Home(context.Background(), testOwner); err == nil {
		t.Fatal("Home() expected error when the forecast fetch fails")
	}
}
