package service

import (
	"context"
	"testing"

	"canteen/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newPreparationService(t *testing.T) (PreparationService, *MockCatalogRepository, *MockInventoryRepository, *MockMealRepository) {
	t.Helper()
	catalog := new(MockCatalogRepository)
	inventory := new(MockInventoryRepository)
	meal := new(MockMealRepository)
	svc := NewPreparationService(catalog, inventory, meal, zerolog.Nop())
	return svc, catalog, inventory, meal
}

func TestParsePortions(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{name: "plain number", raw: "5", want: 5},
		{name: "padded", raw: "  12  ", want: 12},
		{name: "garbage falls back to one", raw: "many", want: 1},
		{name: "empty falls back to one", raw: "", want: 1},
		{name: "zero falls back to one", raw: "0", want: 1},
		{name: "negative falls back to one", raw: "-3", want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parsePortions(tt.raw))
		})
	}
}

func TestPreparationService_PrepareDish_TooManyPortions(t *testing.T) {
	svc, catalog, _, _ := newPreparationService(t)

	_, err := svc.PrepareDish(context.Background(), &model.PrepareRequest{
		DishName: "Borscht",
		Portions: "101",
	})

	assert.ErrorIs(t, err, model.ErrTooManyPortions)
	catalog.AssertNotCalled(t, "GetDish", mock.Anything, mock.Anything)
}

func TestPreparationService_PrepareDish_DishNotFound(t *testing.T) {
	svc, catalog, _, _ := newPreparationService(t)
	ctx := context.Background()

	catalog.On("GetDish", ctx, "Pizza").Return(nil, nil)

	_, err := svc.PrepareDish(ctx, &model.PrepareRequest{DishName: "Pizza", Portions: "2"})

	assert.ErrorIs(t, err, model.ErrDishNotFound)
}

func TestPreparationService_PrepareDish_MissingIngredient(t *testing.T) {
	svc, catalog, inventory, _ := newPreparationService(t)
	ctx := context.Background()
	mockTx := new(MockTx)

	catalog.On("GetDish", ctx, "Borscht").Return(&model.Dish{Name: "Borscht", Price: 60}, nil)
	catalog.On("GetRecipe", ctx, "Borscht").Return([]model.RecipeLine{
		{DishName: "Borscht", Ingredient: "Beetroot", Quantity: 0.3, Unit: "kg"},
	}, nil)
	inventory.On("BeginTx", ctx).Return(mockTx, nil)
	inventory.On("LockStock", ctx, mockTx, "Beetroot").Return(0.0, false, nil)
	mockTx.On("Rollback", ctx).Return(nil)

	_, err := svc.PrepareDish(ctx, &model.PrepareRequest{DishName: "Borscht", Portions: "2"})

	require.Error(t, err)
	var domainErr *model.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, model.ErrCodeIngredientMissing, domainErr.Code)

	assert.True(t, mockTx.rolledBack)
	inventory.AssertNotCalled(t, "DeductRounded", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPreparationService_PrepareDish_InsufficientStock(t *testing.T) {
	svc, catalog, inventory, meal := newPreparationService(t)
	ctx := context.Background()
	mockTx := new(MockTx)

	catalog.On("GetDish", ctx, "Borscht").Return(&model.Dish{Name: "Borscht", Price: 60}, nil)
	catalog.On("GetRecipe", ctx, "Borscht").Return([]model.RecipeLine{
		{DishName: "Borscht", Ingredient: "Beetroot", Quantity: 0.3, Unit: "kg"},
	}, nil)
	inventory.On("BeginTx", ctx).Return(mockTx, nil)
	inventory.On("LockStock", ctx, mockTx, "Beetroot").Return(1.0, true, nil)
	mockTx.On("Rollback", ctx).Return(nil)

	// 10 portions need 3 kg, only 1 kg stocked.
	_, err := svc.PrepareDish(ctx, &model.PrepareRequest{DishName: "Borscht", Portions: "10"})

	require.Error(t, err)
	var domainErr *model.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, model.ErrCodeInsufficientStock, domainErr.Code)
	meal.AssertNotCalled(t, "CreatePreparedBatch", mock.Anything, mock.Anything, mock.Anything)
}

func TestPreparationService_PrepareDish_RoundsPerPortionDemand(t *testing.T) {
	svc, catalog, inventory, meal := newPreparationService(t)
	ctx := context.Background()
	mockTx := new(MockTx)

	catalog.On("GetDish", ctx, "Cutlet with potatoes").
		Return(&model.Dish{Name: "Cutlet with potatoes", Price: 70}, nil)
	catalog.On("GetRecipe", ctx, "Cutlet with potatoes").Return([]model.RecipeLine{
		{DishName: "Cutlet with potatoes", Ingredient: "Potato", Quantity: 0.2, Unit: "kg"},
		{DishName: "Cutlet with potatoes", Ingredient: "Minced meat", Quantity: 0.15, Unit: "kg"},
	}, nil)
	inventory.On("BeginTx", ctx).Return(mockTx, nil)
	inventory.On("LockStock", ctx, mockTx, "Potato").Return(30.0, true, nil)
	inventory.On("LockStock", ctx, mockTx, "Minced meat").Return(8.0, true, nil)
	inventory.On("DeductRounded", ctx, mockTx, "Potato", 2.0).Return(nil)
	inventory.On("DeductRounded", ctx, mockTx, "Minced meat", 1.5).Return(nil)
	meal.On("CreatePreparedBatch", ctx, mockTx, mock.MatchedBy(func(b *model.PreparedBatch) bool {
		return b.DishName == "Cutlet with potatoes" && b.Quantity == 10
	})).Return(nil)
	mockTx.On("Commit", ctx).Return(nil)

	batch, err := svc.PrepareDish(ctx, &model.PrepareRequest{
		DishName: "Cutlet with potatoes",
		Portions: "10",
	})

	require.NoError(t, err)
	assert.Equal(t, 10, batch.Quantity)
	assert.True(t, mockTx.committed)
	inventory.AssertExpectations(t)
	meal.AssertExpectations(t)
}

func TestPreparationService_PrepareDish_GarbagePortionsPrepareOne(t *testing.T) {
	svc, catalog, inventory, meal := newPreparationService(t)
	ctx := context.Background()
	mockTx := new(MockTx)

	catalog.On("GetDish", ctx, "Cocoa").Return(&model.Dish{Name: "Cocoa", Price: 20}, nil)
	catalog.On("GetRecipe", ctx, "Cocoa").Return([]model.RecipeLine{
		{DishName: "Cocoa", Ingredient: "Cocoa powder", Quantity: 0.01, Unit: "kg"},
	}, nil)
	inventory.On("BeginTx", ctx).Return(mockTx, nil)
	inventory.On("LockStock", ctx, mockTx, "Cocoa powder").Return(2.0, true, nil)
	inventory.On("DeductRounded", ctx, mockTx, "Cocoa powder", 0.01).Return(nil)
	meal.On("CreatePreparedBatch", ctx, mockTx, mock.AnythingOfType("*model.PreparedBatch")).Return(nil)
	mockTx.On("Commit", ctx).Return(nil)

	batch, err := svc.PrepareDish(ctx, &model.PrepareRequest{DishName: "Cocoa", Portions: "lots"})

	require.NoError(t, err)
	assert.Equal(t, 1, batch.Quantity)
}

func TestPreparationService_ListPreparable(t *testing.T) {
	svc, catalog, inventory, _ := newPreparationService(t)
	ctx := context.Background()

	catalog.On("SearchDishes", ctx, "").Return([]model.Dish{
		{Name: "Borscht", Price: 60},
		{Name: "Cocoa", Price: 20},
	}, nil)
	inventory.On("List", ctx).Return([]model.InventoryItem{
		{ProductName: "Beetroot", Quantity: 0.1, Unit: "kg"},
		{ProductName: "Cocoa powder", Quantity: 2, Unit: "kg"},
	}, nil)
	catalog.On("GetRecipe", ctx, "Borscht").Return([]model.RecipeLine{
		{DishName: "Borscht", Ingredient: "Beetroot", Quantity: 0.3, Unit: "kg"},
	}, nil)
	catalog.On("GetRecipe", ctx, "Cocoa").Return([]model.RecipeLine{
		{DishName: "Cocoa", Ingredient: "Cocoa powder", Quantity: 0.01, Unit: "kg"},
	}, nil)

	dishes, err := svc.ListPreparable(ctx)

	require.NoError(t, err)
	require.Len(t, dishes, 2)
	assert.False(t, dishes[0].Available)
	assert.True(t, dishes[1].Available)
}

func TestDedupeRecipe(t *testing.T) {
	recipe := []model.RecipeLine{
		{Ingredient: "Potato", Quantity: 0.2},
		{Ingredient: "Potato", Quantity: 0.3},
		{Ingredient: "Minced meat", Quantity: 0.15},
	}

	deduped := dedupeRecipe(recipe)

	require.Len(t, deduped, 2)
	assert.Equal(t, "Potato", deduped[0].Ingredient)
	assert.Equal(t, 0.2, deduped[0].Quantity)
	assert.Equal(t, "Minced meat", deduped[1].Ingredient)
}
