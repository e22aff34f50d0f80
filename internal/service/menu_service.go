package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"canteen/internal/model"
	"canteen/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// menuService implements MenuService.
type menuService struct {
	catalogRepo repository.CatalogRepository
	accountRepo repository.AccountRepository
	mealRepo    repository.MealRepository
	logger      zerolog.Logger
}

// NewMenuService creates a new menu service.
func NewMenuService(
	catalogRepo repository.CatalogRepository,
	accountRepo repository.AccountRepository,
	mealRepo repository.MealRepository,
	logger zerolog.Logger,
) MenuService {
	return &menuService{
		catalogRepo: catalogRepo,
		accountRepo: accountRepo,
		mealRepo:    mealRepo,
		logger:      logger.With().Str("service", "menu").Logger(),
	}
}

// TodayMenu builds the student-facing view of today's offering.
func (s *menuService) TodayMenu(ctx context.Context, studentID uuid.UUID) (*model.MenuView, error) {
	today := time.Now()
	view := &model.MenuView{
		Date:              today.Format("2006-01-02"),
		TakenMealTypes:    []string{},
		AllergenWarnings:  map[string]bool{},
		PreferenceMatches: map[string]bool{},
	}

	menu, err := s.catalogRepo.GetMenuByDate(ctx, today)
	if err != nil {
		return nil, err
	}
	if menu == nil {
		return view, nil
	}
	view.Menu = menu

	taken, err := s.mealRepo.TakenTypesForDay(ctx, studentID, today)
	if err != nil {
		return nil, err
	}
	if taken != nil {
		view.TakenMealTypes = taken
	}

	breakfastPrice, err := s.sumPrices(ctx, menu.DishesFor(model.MealBreakfast))
	if err != nil {
		return nil, err
	}
	lunchPrice, err := s.sumPrices(ctx, menu.DishesFor(model.MealLunch))
	if err != nil {
		return nil, err
	}
	view.BreakfastPrice, _ = breakfastPrice.Float64()
	view.LunchPrice, _ = lunchPrice.Float64()

	profile, err := s.accountRepo.GetProfile(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		view.Allergies = profile.Allergies
		view.Preferences = profile.Preferences
		allergies := splitTags(profile.Allergies)
		preferences := splitTags(profile.Preferences)

		allDishes := append(menu.DishesFor(model.MealBreakfast), menu.DishesFor(model.MealLunch)...)
		for _, dish := range allDishes {
			recipe, err := s.catalogRepo.GetRecipe(ctx, dish)
			if err != nil {
				return nil, err
			}
			if matchesTags(recipe, allergies) {
				view.AllergenWarnings[dish] = true
			}
			if matchesTags(recipe, preferences) {
				view.PreferenceMatches[dish] = true
			}
		}
	}

	return view, nil
}

// ListDishes lists dishes, optionally filtered by a name substring.
func (s *menuService) ListDishes(ctx context.Context, search string) ([]model.Dish, error) {
	return s.catalogRepo.SearchDishes(ctx, strings.TrimSpace(search))
}

// AddDish creates a dish together with its recipe lines. Invalid lines are
// skipped; at least one valid ingredient is required.
func (s *menuService) AddDish(ctx context.Context, req *model.NewDishRequest) (*model.Dish, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || req.Price <= 0 {
		return nil, model.ErrInvalidPrice
	}

	var lines []model.RecipeLine
	for _, ing := range req.Ingredients {
		ingredient := strings.TrimSpace(ing.Ingredient)
		if ingredient == "" || ing.Quantity <= 0 {
			continue
		}
		unit := strings.TrimSpace(ing.Unit)
		if unit == "" {
			unit = "kg"
		}
		lines = append(lines, model.RecipeLine{
			DishName:   name,
			Ingredient: ingredient,
			Quantity:   ing.Quantity,
			Unit:       unit,
		})
	}
	if len(lines) == 0 {
		return nil, model.ErrEmptyRecipe
	}

	dish := &model.Dish{Name: name, Price: req.Price}

	tx, err := s.catalogRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to add dish: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.catalogRepo.CreateDish(ctx, tx, dish); err != nil {
		if repository.IsUniqueViolation(err) {
			err = model.ErrDishExists
			return nil, err
		}
		return nil, err
	}

	if err = s.catalogRepo.CreateRecipeLines(ctx, tx, lines); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to commit dish creation")
		return nil, fmt.Errorf("failed to add dish: %w", err)
	}

	s.logger.Info().Str("dish", name).Int("ingredients", len(lines)).Msg("dish created")

	return dish, nil
}

// sumPrices totals the prices of the named dishes.
func (s *menuService) sumPrices(ctx context.Context, names []string) (decimal.Decimal, error) {
	dishes, err := s.catalogRepo.GetDishesByNames(ctx, names)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, d := range dishes {
		total = total.Add(decimal.NewFromFloat(d.Price))
	}
	return total, nil
}

// splitTags splits a comma-separated tag string into trimmed lowercase tags.
func splitTags(raw string) []string {
	var tags []string
	for _, part := range strings.Split(raw, ",") {
		tag := strings.ToLower(strings.TrimSpace(part))
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// matchesTags reports whether a recipe ingredient equals one of the tags,
// compared lowercase. The match is exact: a "milk" tag flags the ingredient
// "Milk" but not "Milk powder".
func matchesTags(recipe []model.RecipeLine, tags []string) bool {
	if len(tags) == 0 {
		return false
	}
	tagged := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tagged[tag] = struct{}{}
	}
	for _, line := range recipe {
		if _, ok := tagged[strings.ToLower(line.Ingredient)]; ok {
			return true
		}
	}
	return false
}
