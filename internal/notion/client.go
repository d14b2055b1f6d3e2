// Package notion is a minimal client for the Notion-style source API:
// it queries a database page by page and flattens the property graph
// into plain values the sync service can map onto entries.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const apiVersion = "2022-06-28"

// Client talks to the source API on behalf of one owner's token.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new source client
func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// QueryAll pulls every page of a database, following the cursor until
// has_more goes false.
func (c *Client) QueryAll(ctx context.Context, token, databaseID string) ([]Page, error) {
	var pages []Page
	cursor := ""

	for {
		result, err := c.queryPage(ctx, token, databaseID, cursor)
		if err != nil {
			return nil, err
		}
		pages = append(pages, result.Results...)

		if !result.HasMore || result.NextCursor == "" {
			break
		}
		cursor = result.NextCursor
	}

	c.logger.Debug("database query complete",
		"database_id", databaseID,
		"pages", len(pages),
	)

	return pages, nil
}

func (c *Client) queryPage(ctx context.Context, token, databaseID, cursor string) (*queryResponse, error) {
	body := map[string]interface{}{"page_size": 100}
	if cursor != "" {
		body["start_cursor"] = cursor
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	url := fmt.Sprintf("%s/v1/databases/%s/query", c.baseURL, databaseID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Notion-Version", apiVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query database: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("query database: status %d: %s", resp.StatusCode, snippet)
	}

	var result queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("parse query response: %w", err)
	}

	return &result, nil
}
