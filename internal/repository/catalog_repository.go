package repository

import (
	"context"
	"fmt"
	"time"

	"canteen/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// catalogRepository implements the CatalogRepository interface using PostgreSQL.
type catalogRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCatalogRepository creates a new PostgreSQL-backed catalog repository.
func NewCatalogRepository(pool *pgxpool.Pool, logger zerolog.Logger) CatalogRepository {
	return &catalogRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "catalog").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *catalogRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// GetDish retrieves a dish by name.
func (r *catalogRepository) GetDish(ctx context.Context, name string) (*model.Dish, error) {
	var d model.Dish
	err := r.pool.QueryRow(ctx, `SELECT name, price FROM dishes WHERE name = $1`, name).Scan(&d.Name, &d.Price)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("dish", name).Msg("dish not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("dish", name).Msg("failed to query dish")
		return nil, fmt.Errorf("failed to query dish: %w", err)
	}

	return &d, nil
}

// GetDishesByNames retrieves dishes for the given names.
func (r *catalogRepository) GetDishesByNames(ctx context.Context, names []string) ([]model.Dish, error) {
	if len(names) == 0 {
		return []model.Dish{}, nil
	}

	query := `
		SELECT name, price
		FROM dishes
		WHERE name = ANY($1)
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query, names)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(names)).Msg("failed to query dishes by names")
		return nil, fmt.Errorf("failed to query dishes: %w", err)
	}
	defer rows.Close()

	return scanDishes(rows, r.logger)
}

// SearchDishes lists dishes, optionally filtered by a name substring.
func (r *catalogRepository) SearchDishes(ctx context.Context, search string) ([]model.Dish, error) {
	var (
		rows pgx.Rows
		err  error
	)

	if search != "" {
		rows, err = r.pool.Query(ctx,
			`SELECT name, price FROM dishes WHERE name ILIKE '%' || $1 || '%' ORDER BY name`, search)
	} else {
		rows, err = r.pool.Query(ctx, `SELECT name, price FROM dishes ORDER BY name`)
	}
	if err != nil {
		r.logger.Error().Err(err).Str("search", search).Msg("failed to search dishes")
		return nil, fmt.Errorf("failed to search dishes: %w", err)
	}
	defer rows.Close()

	return scanDishes(rows, r.logger)
}

func scanDishes(rows pgx.Rows, logger zerolog.Logger) ([]model.Dish, error) {
	var dishes []model.Dish
	for rows.Next() {
		var d model.Dish
		if err := rows.Scan(&d.Name, &d.Price); err != nil {
			logger.Error().Err(err).Msg("failed to scan dish row")
			return nil, fmt.Errorf("failed to scan dish: %w", err)
		}
		dishes = append(dishes, d)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("error iterating dish rows")
		return nil, fmt.Errorf("error iterating dishes: %w", err)
	}

	return dishes, nil
}

// CreateDish inserts a new dish within the provided transaction.
func (r *catalogRepository) CreateDish(ctx context.Context, tx pgx.Tx, dish *model.Dish) error {
	_, err := tx.Exec(ctx, `INSERT INTO dishes (name, price) VALUES ($1, $2)`, dish.Name, dish.Price)
	if err != nil {
		r.logger.Error().Err(err).Str("dish", dish.Name).Msg("failed to create dish")
		return fmt.Errorf("failed to create dish: %w", err)
	}
	return nil
}

// CreateRecipeLines inserts recipe lines within the provided transaction.
func (r *catalogRepository) CreateRecipeLines(ctx context.Context, tx pgx.Tx, lines []model.RecipeLine) error {
	if len(lines) == 0 {
		return nil
	}

	query := `
		INSERT INTO dish_recipes (dish_name, ingredient, quantity, unit)
		VALUES ($1, $2, $3, $4)
	`

	batch := &pgx.Batch{}
	for _, line := range lines {
		batch.Queue(query, line.DishName, line.Ingredient, line.Quantity, line.Unit)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(lines); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("dish", lines[i].DishName).
				Str("ingredient", lines[i].Ingredient).
				Msg("failed to create recipe line")
			return fmt.Errorf("failed to create recipe line: %w", err)
		}
	}

	return nil
}

// GetRecipe retrieves the recipe lines of a dish.
func (r *catalogRepository) GetRecipe(ctx context.Context, dishName string) ([]model.RecipeLine, error) {
	query := `
		SELECT dish_name, ingredient, quantity, unit
		FROM dish_recipes
		WHERE dish_name = $1
	`

	rows, err := r.pool.Query(ctx, query, dishName)
	if err != nil {
		r.logger.Error().Err(err).Str("dish", dishName).Msg("failed to query recipe")
		return nil, fmt.Errorf("failed to query recipe: %w", err)
	}
	defer rows.Close()

	var lines []model.RecipeLine
	for rows.Next() {
		var line model.RecipeLine
		if err := rows.Scan(&line.DishName, &line.Ingredient, &line.Quantity, &line.Unit); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan recipe line")
			return nil, fmt.Errorf("failed to scan recipe line: %w", err)
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating recipe lines")
		return nil, fmt.Errorf("error iterating recipe lines: %w", err)
	}

	return lines, nil
}

// GetMenuByDate retrieves the menu set for a calendar date.
func (r *catalogRepository) GetMenuByDate(ctx context.Context, day time.Time) (*model.MenuSet, error) {
	query := `
		SELECT id, meal_date, breakfast_main, breakfast_drink, lunch_first, lunch_second, lunch_drink
		FROM menu_sets
		WHERE meal_date = $1::date
	`

	var m model.MenuSet
	err := r.pool.QueryRow(ctx, query, day).Scan(
		&m.ID,
		&m.MealDate,
		&m.BreakfastMain,
		&m.BreakfastDrink,
		&m.LunchFirst,
		&m.LunchSecond,
		&m.LunchDrink,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Time("day", day).Msg("no menu set for day")
			return nil, nil
		}
		r.logger.Error().Err(err).Time("day", day).Msg("failed to query menu set")
		return nil, fmt.Errorf("failed to query menu set: %w", err)
	}

	return &m, nil
}
