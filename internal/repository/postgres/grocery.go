package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"atelier/internal/domain"
	"atelier/internal/domain/models"
	"atelier/internal/domain/repositories"
)

// PostgresGroceryRepository implements the GroceryRepository interface
type PostgresGroceryRepository struct {
	pool *pgxpool.Pool
}

// NewGroceryRepository creates a new grocery repository
func NewGroceryRepository(config *RepositoryConfig) repositories.GroceryRepository {
	return &PostgresGroceryRepository{
		pool: config.Pool,
	}
}

// CreateProduct starts tracking a product
func (r *PostgresGroceryRepository) CreateProduct(ctx context.Context, product *models.TrackedProduct) error {
	query := `
		INSERT INTO grocery_products (owner_id, store, store_product_id, name, unit_size)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		product.OwnerID,
		product.Store,
		product.StoreProductID,
		product.Name,
		product.UnitSize,
	).Scan(&product.ID, &product.CreatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("product '%s' is already tracked", product.Name),
				ResourceType: "product",
				ResourceID:   product.StoreProductID,
			}
		}
		return fmt.Errorf("create product: %w", err)
	}

	return nil
}

// GetProduct retrieves a tracked product scoped to its owner
func (r *PostgresGroceryRepository) GetProduct(ctx context.Context, id, ownerID string) (*models.TrackedProduct, error) {
	query := `
		SELECT id, owner_id, store, store_product_id, name, unit_size, created_at
		FROM grocery_products
		WHERE id = $1 AND owner_id = $2
	`

	executor := GetExecutor(ctx, r.pool)
	var product models.TrackedProduct
	err := executor.QueryRow(ctx, query, id, ownerID).Scan(
		&product.ID,
		&product.OwnerID,
		&product.Store,
		&product.StoreProductID,
		&product.Name,
		&product.UnitSize,
		&product.CreatedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	return &product, nil
}

// FindProduct looks a product up by its store identity
func (r *PostgresGroceryRepository) FindProduct(ctx context.Context, ownerID, store, storeProductID string) (*models.TrackedProduct, error) {
	query := `
		SELECT id, owner_id, store, store_product_id, name, unit_size, created_at
		FROM grocery_products
		WHERE owner_id = $1 AND store = $2 AND store_product_id = $3
	`

	executor := GetExecutor(ctx, r.pool)
	var product models.TrackedProduct
	err := executor.QueryRow(ctx, query, ownerID, store, storeProductID).Scan(
		&product.ID,
		&product.OwnerID,
		&product.Store,
		&product.StoreProductID,
		&product.Name,
		&product.UnitSize,
		&product.CreatedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("product %s/%s: %w", store, storeProductID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("find product: %w", err)
	}

	return &product, nil
}

// ListProducts retrieves the owner's tracked products with their latest price
func (r *PostgresGroceryRepository) ListProducts(ctx context.Context, ownerID string) ([]models.TrackedProduct, error) {
	query := `
		SELECT p.id, p.owner_id, p.store, p.store_product_id, p.name, p.unit_size, p.created_at,
		       lp.id, lp.price, lp.bonus, lp.observed_at
		FROM grocery_products p
		LEFT JOIN LATERAL (
			SELECT id, price, bonus, observed_at
			FROM grocery_prices
			WHERE product_id = p.id
			ORDER BY observed_at DESC
			LIMIT 1
		) lp ON TRUE
		WHERE p.owner_id = $1
		ORDER BY p.name ASC
	`

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []models.TrackedProduct
	for rows.Next() {
		var product models.TrackedProduct
		var pointID *string
		var price decimal.NullDecimal
		var bonus *bool
		var observedAt *time.Time
		err := rows.Scan(
			&product.ID,
			&product.OwnerID,
			&product.Store,
			&product.StoreProductID,
			&product.Name,
			&product.UnitSize,
			&product.CreatedAt,
			&pointID,
			&price,
			&bonus,
			&observedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		if pointID != nil {
			product.LatestPrice = &models.PricePoint{
				ID:         *pointID,
				ProductID:  product.ID,
				Price:      price.Decimal,
				Bonus:      bonus != nil && *bonus,
				ObservedAt: *observedAt,
			}
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return products, nil
}

// DeleteProduct stops tracking a product; price history cascades away
func (r *PostgresGroceryRepository) DeleteProduct(ctx context.Context, id, ownerID string) error {
	query := `
		DELETE FROM grocery_products
		WHERE id = $1 AND owner_id = $2
	`

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// AddPricePoint appends a price observation
func (r *PostgresGroceryRepository) AddPricePoint(ctx context.Context, point *models.PricePoint) error {
	query := `
		INSERT INTO grocery_prices (product_id, price, bonus, observed_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		point.ProductID,
		point.Price,
		point.Bonus,
		point.ObservedAt,
	).Scan(&point.ID)

	if err != nil {
		return fmt.Errorf("add price point: %w", err)
	}

	return nil
}

// ListPrices retrieves a product's price history, oldest first
func (r *PostgresGroceryRepository) ListPrices(ctx context.Context, productID string) ([]models.PricePoint, error) {
	query := `
		SELECT id, product_id, price, bonus, observed_at
		FROM grocery_prices
		WHERE product_id = $1
		ORDER BY observed_at ASC
	`

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list prices: %w", err)
	}
	defer rows.Close()

	var points []models.PricePoint
	for rows.Next() {
		var point models.PricePoint
		err := rows.Scan(
			&point.ID,
			&point.ProductID,
			&point.Price,
			&point.Bonus,
			&point.ObservedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan price point: %w", err)
		}
		points = append(points, point)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate price points: %w", err)
	}

	return points, nil
}
