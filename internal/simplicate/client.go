// Package simplicate is a thin client for the downstream hours
// administration. Entries are posted one at a time; the returned record
// id is stored locally so a pushed entry is never pushed twice.
package simplicate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Credentials identify one owner's API connection.
type Credentials struct {
	BaseURL   string
	APIKey    string
	APISecret string
}

// HoursEntry is the payload for a posted hours record.
type HoursEntry struct {
	StartDate string  `json:"start_date"`
	Hours     float64 `json:"hours"`
	Note      string  `json:"note,omitempty"`
}

// MileageEntry is the payload for a posted mileage record.
type MileageEntry struct {
	StartDate string  `json:"start_date"`
	Mileage   float64 `json:"mileage"`
	Note      string  `json:"note,omitempty"`
}

// Client posts entries to the sink API.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new sink client
func NewClient(logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// PostHours creates an hours record and returns its id.
func (c *Client) PostHours(ctx context.Context, creds Credentials, entry HoursEntry) (string, error) {
	return c.post(ctx, creds, "/api/v2/hours/hours", entry)
}

// PostMileage creates a mileage record and returns its id.
func (c *Client) PostMileage(ctx context.Context, creds Credentials, entry MileageEntry) (string, error) {
	return c.post(ctx, creds, "/api/v2/hours/mileage", entry)
}

type postResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

func (c *Client) post(ctx context.Context, creds Credentials, path string, body interface{}) (string, error) {
	if creds.BaseURL == "" || creds.APIKey == "" || creds.APISecret == "" {
		return "", errors.New("sink connection not configured")
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encode entry: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, creds.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authentication-Key", creds.APIKey)
	req.Header.Set("Authentication-Secret", creds.APISecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("post entry: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("post entry: status %d: %s", resp.StatusCode, snippet)
	}

	var result postResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("parse post response: %w", err)
	}
	if result.Data.ID == "" {
		return "", errors.New("post response missing record id")
	}

	return result.Data.ID, nil
}
