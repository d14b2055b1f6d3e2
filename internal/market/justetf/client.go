// Package justetf fetches ETF constituent lists for the holdings view.
package justetf

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// Holding is one constituent of an ETF.
type Holding struct {
	Name      string  `json:"name"`
	WeightPct float64 `json:"weight_pct"`
}

// Client provides access to the ETF data API.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
}

// NewClient creates a new ETF data client
func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(1), 2),
		logger:      logger,
	}
}

// Holdings fetches the top constituents of an ETF by ISIN
func (c *Client) Holdings(ctx context.Context, isin string) ([]Holding, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	params := url.Values{}
	params.Set("isin", isin)
	holdingsURL := fmt.Sprintf("%s/api/etfs/%s/holdings?%s", c.baseURL, url.PathEscape(isin), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, holdingsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("holdings request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("holdings request: status %d: %s", resp.StatusCode, snippet)
	}

	var result holdingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("parse holdings response: %w", err)
	}

	holdings := make([]Holding, 0, len(result.Holdings))
	for _, h := range result.Holdings {
		holdings = append(holdings, Holding{
			Name:      h.Name,
			WeightPct: h.Weight * 100,
		})
	}

	c.logger.Debug("holdings fetched", "isin", isin, "count", len(holdings))

	return holdings, nil
}

type holdingsResponse struct {
	Holdings []struct {
		Name   string  `json:"name"`
		Weight float64 `json:"weight"`
	} `json:"holdings"`
}
