// Package openfigi maps ISINs to tickers through the OpenFIGI mapping
// API. Used when a position is entered by ISIN without a known symbol.
package openfigi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Mapping is the resolved identity of an ISIN.
type Mapping struct {
	Ticker string
	Name   string
}

// Client provides access to the mapping API.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
}

// NewClient creates a new mapping client.
// The anonymous tier allows 25 requests per minute.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		rateLimiter: rate.NewLimiter(rate.Every(3*time.Second), 2),
		logger:      logger,
	}
}

// MapISIN resolves an ISIN to its primary listing
func (c *Client) MapISIN(ctx context.Context, isin string) (*Mapping, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	payload, err := json.Marshal([]map[string]string{
		{"idType": "ID_ISIN", "idValue": isin},
	})
	if err != nil {
		return nil, fmt.Errorf("encode mapping request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v3/mapping", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mapping request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("mapping request: status %d: %s", resp.StatusCode, snippet)
	}

	var results []mappingResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("parse mapping response: %w", err)
	}
	if len(results) == 0 || len(results[0].Data) == 0 {
		return nil, fmt.Errorf("no mapping for %s", isin)
	}

	first := results[0].Data[0]
	return &Mapping{
		Ticker: first.Ticker,
		Name:   first.Name,
	}, nil
}

type mappingResult struct {
	Data []struct {
		Ticker string `json:"ticker"`
		Name   string `json:"name"`
	} `json:"data"`
}
