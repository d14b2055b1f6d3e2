// Package groceries tracks store products and their price history.
// Search fans out to the configured store clients; tracked products get
// a snapshot on every refresh so the dashboard can chart price drift.
package groceries

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/sync/errgroup"

	"atelier/internal/domain"
	"atelier/internal/domain/models"
	"atelier/internal/domain/repositories"
	"atelier/internal/domain/services"
	"atelier/internal/stores"
)

type groceryService struct {
	registry  *stores.Registry
	searchers map[string]stores.Searcher
	repo      repositories.GroceryRepository
	logger    *slog.Logger
}

// NewGroceryService creates a new grocery service. Every searcher must
// serve a provider present in the registry.
func NewGroceryService(
	registry *stores.Registry,
	searchers []stores.Searcher,
	repo repositories.GroceryRepository,
	logger *slog.Logger,
) (services.GroceryService, error) {
	byStore := make(map[string]stores.Searcher, len(searchers))
	for _, searcher := range searchers {
		if _, err := registry.Get(searcher.Store()); err != nil {
			return nil, fmt.Errorf("searcher for unregistered store: %w", err)
		}
		byStore[searcher.Store()] = searcher
	}

	return &groceryService{
		registry:  registry,
		searchers: byStore,
		repo:      repo,
		logger:    logger,
	}, nil
}

// Search queries one store (or all when store is empty) for products.
// With multiple stores the calls run concurrently; a store that errors
// drops out of the result rather than failing the search.
func (s *groceryService) Search(ctx context.Context, query, store string) ([]models.StoreProduct, error) {
	query = strings.TrimSpace(query)
	if err := validation.Validate(query, validation.Required, validation.Length(2, 100)); err != nil {
		return nil, fmt.Errorf("%w: query: %v", domain.ErrValidation, err)
	}

	targets := make([]stores.Searcher, 0, len(s.searchers))
	if store != "" {
		searcher, ok := s.searchers[store]
		if !ok {
			return nil, fmt.Errorf("store %s: %w", store, domain.ErrNotFound)
		}
		targets = append(targets, searcher)
	} else {
		for _, searcher := range s.searchers {
			targets = append(targets, searcher)
		}
	}

	var (
		group, groupCtx = errgroup.WithContext(ctx)
		results         = make([][]models.StoreProduct, len(targets))
	)
	for i, searcher := range targets {
		group.Go(func() error {
			products, err := searcher.Search(groupCtx, query)
			if err != nil {
				s.logger.Warn("store search failed",
					"store", searcher.Store(),
					"query", query,
					"error", err,
				)
				return nil
			}
			results[i] = products
			return nil
		})
	}
	// Errors are swallowed per store; Wait only propagates ctx cancellation
	if err := group.Wait(); err != nil {
		return nil, err
	}

	var merged []models.StoreProduct
	for _, products := range results {
		merged = append(merged, products...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Store != merged[j].Store {
			return merged[i].Store < merged[j].Store
		}
		return merged[i].Name < merged[j].Name
	})

	return merged, nil
}

// Track starts following a store product and records its current price
func (s *groceryService) Track(ctx context.Context, ownerID string, req *models.TrackProductRequest) (*models.TrackedProduct, error) {
	searcher, ok := s.searchers[req.Store]
	if !ok {
		return nil, fmt.Errorf("store %s: %w", req.Store, domain.ErrNotFound)
	}
	if err := validation.Validate(req.StoreProductID, validation.Required, validation.Length(1, 100)); err != nil {
		return nil, fmt.Errorf("%w: store_product_id: %v", domain.ErrValidation, err)
	}

	if existing, err := s.repo.FindProduct(ctx, ownerID, req.Store, req.StoreProductID); err == nil && existing != nil {
		return nil, &domain.ConflictError{
			Message:      fmt.Sprintf("product %s is already tracked", req.StoreProductID),
			ResourceType: "product",
			ResourceID:   existing.ID,
		}
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	// Fetch before storing so an unknown store id never gets tracked
	current, err := searcher.Price(ctx, req.StoreProductID)
	if err != nil {
		return nil, fmt.Errorf("fetch product: %w", err)
	}

	product := &models.TrackedProduct{
		OwnerID:        ownerID,
		Store:          req.Store,
		StoreProductID: req.StoreProductID,
		Name:           current.Name,
		UnitSize:       current.UnitSize,
		CreatedAt:      time.Now(),
	}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}

	point := &models.PricePoint{
		ProductID:  product.ID,
		Price:      current.Price,
		Bonus:      current.Bonus,
		ObservedAt: time.Now(),
	}
	if err := s.repo.AddPricePoint(ctx, point); err != nil {
		return nil, err
	}
	product.LatestPrice = point

	s.logger.Info("product tracked",
		"id", product.ID,
		"owner_id", ownerID,
		"store", product.Store,
		"name", product.Name,
	)

	return product, nil
}

// Refresh fetches the current price and appends a snapshot
func (s *groceryService) Refresh(ctx context.Context, ownerID, productID string) (*models.PricePoint, error) {
	product, err := s.repo.GetProduct(ctx, productID, ownerID)
	if err != nil {
		return nil, err
	}

	searcher, ok := s.searchers[product.Store]
	if !ok {
		return nil, fmt.Errorf("%w: store %s client", domain.ErrUnavailable, product.Store)
	}

	current, err := searcher.Price(ctx, product.StoreProductID)
	if err != nil {
		return nil, fmt.Errorf("refresh price: %w", err)
	}

	point := &models.PricePoint{
		ProductID:  product.ID,
		Price:      current.Price,
		Bonus:      current.Bonus,
		ObservedAt: time.Now(),
	}
	if err := s.repo.AddPricePoint(ctx, point); err != nil {
		return nil, err
	}

	s.logger.Debug("price refreshed",
		"product_id", product.ID,
		"price", point.Price,
		"bonus", point.Bonus,
	)

	return point, nil
}

// List returns the owner's tracked products with their latest price
func (s *groceryService) List(ctx context.Context, ownerID string) ([]models.TrackedProduct, error) {
	return s.repo.ListProducts(ctx, ownerID)
}

// History returns all price snapshots of a product, oldest first
func (s *groceryService) History(ctx context.Context, ownerID, productID string) ([]models.PricePoint, error) {
	if _, err := s.repo.GetProduct(ctx, productID, ownerID); err != nil {
		return nil, err
	}
	return s.repo.ListPrices(ctx, productID)
}

// Untrack stops following a product and drops its snapshots
func (s *groceryService) Untrack(ctx context.Context, ownerID, productID string) error {
	if err := s.repo.DeleteProduct(ctx, productID, ownerID); err != nil {
		return err
	}

	s.logger.Info("product untracked",
		"product_id", productID,
		"owner_id", ownerID,
	)

	return nil
}
