package repository

import (
	"context"
	"fmt"

	"canteen/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// inventoryRepository implements the InventoryRepository interface using PostgreSQL.
type inventoryRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewInventoryRepository creates a new PostgreSQL-backed inventory repository.
func NewInventoryRepository(pool *pgxpool.Pool, logger zerolog.Logger) InventoryRepository {
	return &inventoryRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "inventory").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *inventoryRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// List lists all stock items.
func (r *inventoryRepository) List(ctx context.Context) ([]model.InventoryItem, error) {
	query := `
		SELECT product_name, quantity, unit
		FROM inventory
		ORDER BY product_name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query inventory")
		return nil, fmt.Errorf("failed to query inventory: %w", err)
	}
	defer rows.Close()

	var items []model.InventoryItem
	for rows.Next() {
		var item model.InventoryItem
		if err := rows.Scan(&item.ProductName, &item.Quantity, &item.Unit); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan inventory row")
			return nil, fmt.Errorf("failed to scan inventory item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating inventory rows")
		return nil, fmt.Errorf("error iterating inventory: %w", err)
	}

	return items, nil
}

// RecipeDemands reads the recipe of a dish joined with current stock, locking
// the touched inventory rows until the transaction ends. A recipe ingredient
// with no inventory row does not appear in the result.
func (r *inventoryRepository) RecipeDemands(ctx context.Context, tx pgx.Tx, dishName string) ([]model.IngredientDemand, error) {
	query := `
		SELECT dr.ingredient, dr.quantity, dr.unit, i.quantity AS stock
		FROM dish_recipes dr
		JOIN inventory i ON dr.ingredient = i.product_name
		WHERE dr.dish_name = $1
		FOR UPDATE OF i
	`

	rows, err := tx.Query(ctx, query, dishName)
	if err != nil {
		r.logger.Error().Err(err).Str("dish", dishName).Msg("failed to query recipe demands")
		return nil, fmt.Errorf("failed to query recipe demands: %w", err)
	}
	defer rows.Close()

	var demands []model.IngredientDemand
	for rows.Next() {
		var d model.IngredientDemand
		if err := rows.Scan(&d.Ingredient, &d.Quantity, &d.Unit, &d.Stock); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan recipe demand row")
			return nil, fmt.Errorf("failed to scan recipe demand: %w", err)
		}
		demands = append(demands, d)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating recipe demand rows")
		return nil, fmt.Errorf("error iterating recipe demands: %w", err)
	}

	return demands, nil
}

// LockStock locks a single inventory row and returns its quantity.
func (r *inventoryRepository) LockStock(ctx context.Context, tx pgx.Tx, product string) (float64, bool, error) {
	var quantity float64
	err := tx.QueryRow(ctx,
		`SELECT quantity FROM inventory WHERE product_name = $1 FOR UPDATE`, product).Scan(&quantity)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, false, nil
		}
		r.logger.Error().Err(err).Str("product", product).Msg("failed to lock stock row")
		return 0, false, fmt.Errorf("failed to lock stock row: %w", err)
	}
	return quantity, true, nil
}

// Deduct subtracts quantity from a product's stock.
func (r *inventoryRepository) Deduct(ctx context.Context, tx pgx.Tx, product string, quantity float64) error {
	_, err := tx.Exec(ctx,
		`UPDATE inventory SET quantity = quantity - $1 WHERE product_name = $2`, quantity, product)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("product", product).
			Float64("quantity", quantity).
			Msg("failed to deduct stock")
		return fmt.Errorf("failed to deduct stock: %w", err)
	}
	return nil
}

// DeductRounded subtracts quantity and rounds the result to 2 decimals.
func (r *inventoryRepository) DeductRounded(ctx context.Context, tx pgx.Tx, product string, quantity float64) error {
	_, err := tx.Exec(ctx,
		`UPDATE inventory SET quantity = ROUND((quantity - $1)::numeric, 2)::double precision WHERE product_name = $2`,
		quantity, product)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("product", product).
			Float64("quantity", quantity).
			Msg("failed to deduct stock")
		return fmt.Errorf("failed to deduct stock: %w", err)
	}
	return nil
}

// Upsert inserts a product or adds to its existing quantity.
func (r *inventoryRepository) Upsert(ctx context.Context, tx pgx.Tx, product string, quantity float64, unit string) error {
	query := `
		INSERT INTO inventory (product_name, quantity, unit)
		VALUES ($1, $2, $3)
		ON CONFLICT (product_name)
		DO UPDATE SET quantity = inventory.quantity + excluded.quantity
	`

	_, err := tx.Exec(ctx, query, product, quantity, unit)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("product", product).
			Float64("quantity", quantity).
			Msg("failed to upsert inventory")
		return fmt.Errorf("failed to upsert inventory: %w", err)
	}
	return nil
}
