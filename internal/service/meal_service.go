package service

import (
	"context"
	"fmt"
	"time"

	"canteen/internal/model"
	"canteen/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// mealService implements MealService.
type mealService struct {
	mealRepo      repository.MealRepository
	catalogRepo   repository.CatalogRepository
	inventoryRepo repository.InventoryRepository
	accountRepo   repository.AccountRepository
	userRepo      repository.UserRepository
	notifRepo     repository.NotificationRepository
	logger        zerolog.Logger
}

// NewMealService creates a new meal service.
func NewMealService(
	mealRepo repository.MealRepository,
	catalogRepo repository.CatalogRepository,
	inventoryRepo repository.InventoryRepository,
	accountRepo repository.AccountRepository,
	userRepo repository.UserRepository,
	notifRepo repository.NotificationRepository,
	logger zerolog.Logger,
) MealService {
	return &mealService{
		mealRepo:      mealRepo,
		catalogRepo:   catalogRepo,
		inventoryRepo: inventoryRepo,
		accountRepo:   accountRepo,
		userRepo:      userRepo,
		notifRepo:     notifRepo,
		logger:        logger.With().Str("service", "meal").Logger(),
	}
}

// TakeMeal settles one meal-taking. The stock check, the deductions, the
// balance debit and the meal record share one transaction, with the touched
// inventory rows and the balance row locked so a concurrent settlement
// cannot observe the same stock.
func (s *mealService) TakeMeal(ctx context.Context, studentID uuid.UUID, fullName, mealType string) (*model.MealReceipt, error) {
	if mealType != model.MealBreakfast && mealType != model.MealLunch {
		return nil, model.ErrInvalidMealType
	}

	today := time.Now()

	taken, err := s.mealRepo.ExistsForDay(ctx, studentID, mealType, today)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, model.NewMealAlreadyTakenError(mealType)
	}

	menu, err := s.catalogRepo.GetMenuByDate(ctx, today)
	if err != nil {
		return nil, err
	}
	if menu == nil {
		return nil, model.ErrNoMenuToday
	}

	dishNames := menu.DishesFor(mealType)

	dishes, err := s.catalogRepo.GetDishesByNames(ctx, dishNames)
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	for _, d := range dishes {
		total = total.Add(decimal.NewFromFloat(d.Price))
	}

	tx, err := s.mealRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to take meal: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	// Lock and verify every recipe line before deducting anything. Dishes of
	// one meal can share an ingredient, so each line is checked against the
	// summed demand so far, not against the stock snapshot in isolation.
	stock := make(map[string]decimal.Decimal)
	needs := make(map[string]decimal.Decimal)
	for _, dish := range dishNames {
		recipe, rErr := s.catalogRepo.GetRecipe(ctx, dish)
		if rErr != nil {
			err = rErr
			return nil, err
		}

		var demands []model.IngredientDemand
		demands, err = s.inventoryRepo.RecipeDemands(ctx, tx, dish)
		if err != nil {
			return nil, err
		}

		stocked := make(map[string]model.IngredientDemand, len(demands))
		for _, d := range demands {
			stocked[d.Ingredient] = d
			stock[d.Ingredient] = decimal.NewFromFloat(d.Stock)
		}
		for _, line := range recipe {
			demand, ok := stocked[line.Ingredient]
			if !ok {
				err = model.NewInsufficientStockError(line.Ingredient, dish)
				return nil, err
			}
			need := needs[line.Ingredient].Add(decimal.NewFromFloat(demand.Quantity))
			if need.GreaterThan(stock[line.Ingredient]) {
				err = model.NewInsufficientStockError(line.Ingredient, dish)
				return nil, err
			}
			needs[line.Ingredient] = need
		}
	}

	sub, err := s.accountRepo.ActiveSubscriptionOn(ctx, studentID, today)
	if err != nil {
		return nil, err
	}

	charged := 0.0
	if sub == nil {
		var balance float64
		balance, err = s.accountRepo.BalanceForUpdate(ctx, tx, studentID)
		if err != nil {
			return nil, err
		}

		required, _ := total.Float64()
		if decimal.NewFromFloat(balance).LessThan(total) {
			err = model.NewInsufficientBalanceError(required, balance)
			return nil, err
		}

		if err = s.accountRepo.AdjustBalance(ctx, tx, studentID, -required); err != nil {
			return nil, err
		}

		payment := &model.Payment{
			ID:          uuid.New(),
			StudentID:   studentID,
			Amount:      required,
			PaymentType: model.PaymentOneTime,
			Description: fmt.Sprintf("Meal: %s", mealType),
			CreatedAt:   time.Now(),
		}
		if err = s.accountRepo.CreatePayment(ctx, tx, payment); err != nil {
			return nil, err
		}
		charged = required
	}

	for ingredient, need := range needs {
		quantity, _ := need.Float64()
		if err = s.inventoryRepo.Deduct(ctx, tx, ingredient, quantity); err != nil {
			return nil, err
		}
	}

	record := &model.MealRecord{
		ID:        uuid.New(),
		StudentID: studentID,
		MenuID:    menu.ID,
		MealType:  mealType,
		TakenAt:   time.Now(),
		Confirmed: false,
	}
	if err = s.mealRepo.Create(ctx, tx, record); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to commit meal settlement")
		return nil, fmt.Errorf("failed to take meal: %w", err)
	}

	s.logger.Info().
		Str("student_id", studentID.String()).
		Str("meal_type", mealType).
		Float64("charged", charged).
		Bool("subscription", sub != nil).
		Msg("meal settled")

	s.notifyAfterSettlement(ctx, studentID, fullName, mealType, charged, sub != nil)

	return &model.MealReceipt{
		MealType:           mealType,
		Dishes:             dishNames,
		Charged:            charged,
		PaidBySubscription: sub != nil,
	}, nil
}

// notifyAfterSettlement sends mailbox messages once the settlement committed.
// Failures are logged and swallowed; the meal is already taken.
func (s *mealService) notifyAfterSettlement(ctx context.Context, studentID uuid.UUID, fullName, mealType string, charged float64, bySubscription bool) {
	studentMsg := fmt.Sprintf("You have received %s. Charged: %.2f", mealType, charged)
	if bySubscription {
		studentMsg = fmt.Sprintf("You have received %s, covered by your subscription", mealType)
	}
	if err := s.notifRepo.Create(ctx, studentID, studentMsg); err != nil {
		s.logger.Warn().Err(err).Msg("failed to notify student")
	}

	cook, err := s.userRepo.FirstByRole(ctx, model.RoleCook)
	if err != nil || cook == nil {
		return
	}
	cookMsg := fmt.Sprintf("%s has received %s. Debited: %.2f", fullName, mealType, charged)
	if bySubscription {
		cookMsg = fmt.Sprintf("%s has received %s by subscription", fullName, mealType)
	}
	if err := s.notifRepo.Create(ctx, cook.ID, cookMsg); err != nil {
		s.logger.Warn().Err(err).Msg("failed to notify cook")
	}
}

// Confirm flips the confirmed flag on a meal record.
func (s *mealService) Confirm(ctx context.Context, recordID uuid.UUID) error {
	ok, err := s.mealRepo.Confirm(ctx, recordID)
	if err != nil {
		return err
	}
	if !ok {
		return model.ErrRecordNotFound
	}
	return nil
}

// TodayRecords lists today's meal records with student names.
func (s *mealService) TodayRecords(ctx context.Context) ([]model.MealRecordDetail, error) {
	return s.mealRepo.ListForDay(ctx, time.Now())
}
