// Package ah implements the Albert Heijn store client. The mobile API
// requires an anonymous bearer token, fetched lazily and reused until
// the API rejects it.
package ah

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"atelier/internal/domain/models"
	"atelier/internal/stores"
)

// Client provides access to the Albert Heijn mobile API.
type Client struct {
	provider    *stores.Provider
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger

	mu    sync.Mutex
	token string
}

// NewClient creates a new Albert Heijn client
func NewClient(provider *stores.Provider, logger *slog.Logger) *Client {
	rps := provider.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	return &Client{
		provider: provider,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(rps), 1),
		logger:      logger,
	}
}

// Store returns the provider id the client serves
func (c *Client) Store() string {
	return c.provider.ID
}

// Search queries the store catalog
func (c *Client) Search(ctx context.Context, query string) ([]models.StoreProduct, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("sortOn", "RELEVANCE")
	params.Set("size", "20")

	var result searchResponse
	if err := c.get(ctx, c.provider.SearchPath+"?"+params.Encode(), &result); err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}

	products := make([]models.StoreProduct, 0, len(result.Products))
	for _, p := range result.Products {
		products = append(products, c.mapProduct(p))
	}

	c.logger.Debug("store search",
		"store", c.provider.ID,
		"query", query,
		"count", len(products),
	)

	return products, nil
}

// Price fetches the current price of one product
func (c *Client) Price(ctx context.Context, productID string) (*models.StoreProduct, error) {
	var result detailResponse
	path := fmt.Sprintf("/mobile-services/product/detail/v4/fir/%s", url.PathEscape(productID))
	if err := c.get(ctx, path, &result); err != nil {
		return nil, fmt.Errorf("fetch product %s: %w", productID, err)
	}

	product := c.mapProduct(result.ProductCard)
	return &product, nil
}

func (c *Client) mapProduct(p productCard) models.StoreProduct {
	price := p.CurrentPrice
	bonus := p.IsBonus
	if price == 0 {
		price = p.PriceBeforeBonus
		bonus = false
	}
	return models.StoreProduct{
		Store:    c.provider.ID,
		ID:       fmt.Sprintf("%d", p.WebshopID),
		Name:     p.Title,
		UnitSize: p.SalesUnitSize,
		Price:    decimal.NewFromFloat(price),
		Bonus:    bonus,
	}
}

// get performs an authenticated GET, refreshing the anonymous token once
// on a 401.
func (c *Client) get(ctx context.Context, path string, dest interface{}) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	token, err := c.ensureToken(ctx, false)
	if err != nil {
		return err
	}

	status, err := c.doGet(ctx, path, token, dest)
	if status == http.StatusUnauthorized {
		if token, err = c.ensureToken(ctx, true); err != nil {
			return err
		}
		_, err = c.doGet(ctx, path, token, dest)
	}
	return err
}

func (c *Client) doGet(ctx context.Context, path, token string, dest interface{}) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.provider.BaseURL+path, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", "Appie/8.22.3")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("store request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return resp.StatusCode, fmt.Errorf("store request: status %d: %s", resp.StatusCode, snippet)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return resp.StatusCode, fmt.Errorf("parse store response: %w", err)
	}
	return resp.StatusCode, nil
}

// ensureToken returns the cached anonymous token, requesting a fresh one
// when absent or when force is set.
func (c *Client) ensureToken(ctx context.Context, force bool) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && !force {
		return c.token, nil
	}

	payload, _ := json.Marshal(map[string]string{"clientId": "appie"})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.provider.BaseURL+c.provider.TokenPath, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Appie/8.22.3")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request anonymous token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("request anonymous token: status %d", resp.StatusCode)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("parse token response: %w", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token")
	}

	c.token = token.AccessToken
	c.logger.Debug("anonymous token refreshed", "store", c.provider.ID)
	return c.token, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

type productCard struct {
	WebshopID        int     `json:"webshopId"`
	Title            string  `json:"title"`
	SalesUnitSize    string  `json:"salesUnitSize"`
	CurrentPrice     float64 `json:"currentPrice"`
	PriceBeforeBonus float64 `json:"priceBeforeBonus"`
	IsBonus          bool    `json:"isBonus"`
}

type searchResponse struct {
	Products []productCard `json:"products"`
}

type detailResponse struct {
	ProductCard productCard `json:"productCard"`
}
