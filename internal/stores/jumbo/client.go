// Package jumbo implements the Jumbo store client. The mobile API is
// unauthenticated; prices come back in cents.
package jumbo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"atelier/internal/domain/models"
	"atelier/internal/stores"
)

// Client provides access to the Jumbo mobile API.
type Client struct {
	provider    *stores.Provider
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
}

// NewClient creates a new Jumbo client
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
	params.Set("q", query)
	params.Set("limit", "20")

	var result searchResponse
	if err := c.get(ctx, c.provider.SearchPath+"?"+params.Encode(), &result); err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}

	products := make([]models.StoreProduct, 0, len(result.Products.Data))
	for _, p := range result.Products.Data {
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
	path := fmt.Sprintf("/v17/products/%s", url.PathEscape(productID))
	if err := c.get(ctx, path, &result); err != nil {
		return nil, fmt.Errorf("fetch product %s: %w", productID, err)
	}

	product := c.mapProduct(result.Product.Data)
	return &product, nil
}

func (c *Client) mapProduct(p productData) models.StoreProduct {
	// Prices arrive in cents
	price := decimal.New(p.Prices.Price.Amount, -2)
	bonus := false
	if p.Prices.PromotionalPrice != nil {
		price = decimal.New(p.Prices.PromotionalPrice.Amount, -2)
		bonus = true
	}
	return models.StoreProduct{
		Store:    c.provider.ID,
		ID:       p.ID,
		Name:     p.Title,
		UnitSize: p.QuantityDetails,
		Price:    price,
		Bonus:    bonus,
	}
}

func (c *Client) get(ctx context.Context, path string, dest interface{}) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.provider.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Jumbo/10.4.1")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("store request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("store request: status %d: %s", resp.StatusCode, snippet)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("parse store response: %w", err)
	}
	return nil
}

type amount struct {
	Amount int64 `json:"amount"`
}

type productData struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	QuantityDetails string `json:"quantity"`
	Prices          struct {
		Price            amount  `json:"price"`
		PromotionalPrice *amount `json:"promotionalPrice"`
	} `json:"prices"`
}

type searchResponse struct {
	Products struct {
		Data []productData `json:"data"`
	} `json:"products"`
}

type detailResponse struct {
	Product struct {
		Data productData `json:"data"`
	} `json:"product"`
}
