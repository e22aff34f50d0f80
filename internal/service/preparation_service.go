package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"canteen/internal/model"
	"canteen/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// maxPortions caps a single preparation batch.
const maxPortions = 100

// preparationService implements PreparationService.
type preparationService struct {
	catalogRepo   repository.CatalogRepository
	inventoryRepo repository.InventoryRepository
	mealRepo      repository.MealRepository
	logger        zerolog.Logger
}

// NewPreparationService creates a new preparation service.
func NewPreparationService(
	catalogRepo repository.CatalogRepository,
	inventoryRepo repository.InventoryRepository,
	mealRepo repository.MealRepository,
	logger zerolog.Logger,
) PreparationService {
	return &preparationService{
		catalogRepo:   catalogRepo,
		inventoryRepo: inventoryRepo,
		mealRepo:      mealRepo,
		logger:        logger.With().Str("service", "preparation").Logger(),
	}
}

// PrepareDish deducts ingredient stock for N portions of a dish and records
// a prepared batch. Each ingredient row is locked before the check so a
// concurrent preparation cannot spend the same stock.
func (s *preparationService) PrepareDish(ctx context.Context, req *model.PrepareRequest) (*model.PreparedBatch, error) {
	portions := parsePortions(req.Portions)
	if portions > maxPortions {
		return nil, model.ErrTooManyPortions
	}

	dishName := strings.TrimSpace(req.DishName)
	dish, err := s.catalogRepo.GetDish(ctx, dishName)
	if err != nil {
		return nil, err
	}
	if dish == nil {
		return nil, model.ErrDishNotFound
	}

	recipe, err := s.catalogRepo.GetRecipe(ctx, dish.Name)
	if err != nil {
		return nil, err
	}
	recipe = dedupeRecipe(recipe)
	if len(recipe) == 0 {
		return nil, model.ErrEmptyRecipe
	}

	tx, err := s.inventoryRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dish: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	factor := decimal.NewFromInt(int64(portions))
	needed := make(map[string]float64, len(recipe))

	for _, line := range recipe {
		var (
			stock   float64
			stocked bool
		)
		stock, stocked, err = s.inventoryRepo.LockStock(ctx, tx, line.Ingredient)
		if err != nil {
			return nil, err
		}
		if !stocked {
			err = model.NewIngredientMissingError(line.Ingredient)
			return nil, err
		}

		need := decimal.NewFromFloat(line.Quantity).Mul(factor).Round(2)
		if decimal.NewFromFloat(stock).LessThan(need) {
			err = model.NewInsufficientPortionStockError(line.Ingredient, dish.Name, portions)
			return nil, err
		}
		needed[line.Ingredient], _ = need.Float64()
	}

	for _, line := range recipe {
		if err = s.inventoryRepo.DeductRounded(ctx, tx, line.Ingredient, needed[line.Ingredient]); err != nil {
			return nil, err
		}
	}

	batch := &model.PreparedBatch{
		ID:         uuid.New(),
		DishName:   dish.Name,
		Quantity:   portions,
		PreparedAt: time.Now(),
	}
	if err = s.mealRepo.CreatePreparedBatch(ctx, tx, batch); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to commit preparation")
		return nil, fmt.Errorf("failed to prepare dish: %w", err)
	}

	s.logger.Info().
		Str("dish", dish.Name).
		Int("portions", portions).
		Msg("dish prepared")

	return batch, nil
}

// ListPreparable lists every dish with its deduplicated recipe and whether
// current stock covers a single portion.
func (s *preparationService) ListPreparable(ctx context.Context) ([]model.PreparableDish, error) {
	dishes, err := s.catalogRepo.SearchDishes(ctx, "")
	if err != nil {
		return nil, err
	}

	items, err := s.inventoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	stock := make(map[string]float64, len(items))
	for _, item := range items {
		stock[item.ProductName] = item.Quantity
	}

	result := make([]model.PreparableDish, 0, len(dishes))
	for _, dish := range dishes {
		recipe, err := s.catalogRepo.GetRecipe(ctx, dish.Name)
		if err != nil {
			return nil, err
		}
		recipe = dedupeRecipe(recipe)

		available := len(recipe) > 0
		for _, line := range recipe {
			if stock[line.Ingredient] < line.Quantity {
				available = false
				break
			}
		}

		result = append(result, model.PreparableDish{
			Dish:      dish,
			Recipe:    recipe,
			Available: available,
		})
	}

	return result, nil
}

// PreparedTotals sums prepared portions per dish.
func (s *preparationService) PreparedTotals(ctx context.Context) ([]model.PreparedTotal, error) {
	return s.mealRepo.PreparedTotals(ctx)
}

// Inventory lists current stock levels.
func (s *preparationService) Inventory(ctx context.Context) ([]model.InventoryItem, error) {
	return s.inventoryRepo.List(ctx)
}

// parsePortions parses the requested portion count, falling back to a single
// portion on garbage or non-positive input.
func parsePortions(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// dedupeRecipe drops repeated ingredients, keeping the first occurrence.
func dedupeRecipe(recipe []model.RecipeLine) []model.RecipeLine {
	seen := make(map[string]bool, len(recipe))
	out := recipe[:0]
	for _, line := range recipe {
		if seen[line.Ingredient] {
			continue
		}
		seen[line.Ingredient] = true
		out = append(out, line)
	}
	return out
}
