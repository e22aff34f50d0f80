package service

import (
	"context"
	"time"

	"canteen/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, tx pgx.Tx, user *model.User) error {
	args := m.Called(ctx, tx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByName(ctx context.Context, fullName string) (*model.User, error) {
	args := m.Called(ctx, fullName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FirstByRole(ctx context.Context, role string) (*model.User, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) ListByRoles(ctx context.Context, roles []string) ([]model.User, error) {
	args := m.Called(ctx, roles)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) CountByRole(ctx context.Context, role string) (int, error) {
	args := m.Called(ctx, role)
	return args.Int(0), args.Error(1)
}

// MockCatalogRepository is a mock implementation of repository.CatalogRepository.
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogRepository) GetDish(ctx context.Context, name string) (*model.Dish, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Dish), args.Error(1)
}

func (m *MockCatalogRepository) GetDishesByNames(ctx context.Context, names []string) ([]model.Dish, error) {
	args := m.Called(ctx, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Dish), args.Error(1)
}

func (m *MockCatalogRepository) SearchDishes(ctx context.Context, search string) ([]model.Dish, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Dish), args.Error(1)
}

func (m *MockCatalogRepository) CreateDish(ctx context.Context, tx pgx.Tx, dish *model.Dish) error {
	args := m.Called(ctx, tx, dish)
	return args.Error(0)
}

func (m *MockCatalogRepository) CreateRecipeLines(ctx context.Context, tx pgx.Tx, lines []model.RecipeLine) error {
	args := m.Called(ctx, tx, lines)
	return args.Error(0)
}

func (m *MockCatalogRepository) GetRecipe(ctx context.Context, dishName string) ([]model.RecipeLine, error) {
	args := m.Called(ctx, dishName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RecipeLine), args.Error(1)
}

func (m *MockCatalogRepository) GetMenuByDate(ctx context.Context, day time.Time) (*model.MenuSet, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MenuSet), args.Error(1)
}

// MockInventoryRepository is a mock implementation of repository.InventoryRepository.
type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockInventoryRepository) List(ctx context.Context) ([]model.InventoryItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) RecipeDemands(ctx context.Context, tx pgx.Tx, dishName string) ([]model.IngredientDemand, error) {
	args := m.Called(ctx, tx, dishName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.IngredientDemand), args.Error(1)
}

func (m *MockInventoryRepository) LockStock(ctx context.Context, tx pgx.Tx, product string) (float64, bool, error) {
	args := m.Called(ctx, tx, product)
	return args.Get(0).(float64), args.Bool(1), args.Error(2)
}

func (m *MockInventoryRepository) Deduct(ctx context.Context, tx pgx.Tx, product string, quantity float64) error {
	args := m.Called(ctx, tx, product, quantity)
	return args.Error(0)
}

func (m *MockInventoryRepository) DeductRounded(ctx context.Context, tx pgx.Tx, product string, quantity float64) error {
	args := m.Called(ctx, tx, product, quantity)
	return args.Error(0)
}

func (m *MockInventoryRepository) Upsert(ctx context.Context, tx pgx.Tx, product string, quantity float64, unit string) error {
	args := m.Called(ctx, tx, product, quantity, unit)
	return args.Error(0)
}

// MockAccountRepository is a mock implementation of repository.AccountRepository.
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccountRepository) CreateProfile(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error {
	args := m.Called(ctx, tx, userID)
	return args.Error(0)
}

func (m *MockAccountRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*model.StudentProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StudentProfile), args.Error(1)
}

func (m *MockAccountRepository) BalanceForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (float64, error) {
	args := m.Called(ctx, tx, userID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockAccountRepository) AdjustBalance(ctx context.Context, tx pgx.Tx, userID uuid.UUID, delta float64) error {
	args := m.Called(ctx, tx, userID, delta)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateTags(ctx context.Context, userID uuid.UUID, allergies, preferences string) error {
	args := m.Called(ctx, userID, allergies, preferences)
	return args.Error(0)
}

func (m *MockAccountRepository) StoreCard(ctx context.Context, tx pgx.Tx, userID uuid.UUID, encryptedCard, expiry string) error {
	args := m.Called(ctx, tx, userID, encryptedCard, expiry)
	return args.Error(0)
}

func (m *MockAccountRepository) CreatePayment(ctx context.Context, tx pgx.Tx, payment *model.Payment) error {
	args := m.Called(ctx, tx, payment)
	return args.Error(0)
}

func (m *MockAccountRepository) TotalPayments(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockAccountRepository) PaymentsSince(ctx context.Context, since *time.Time, limit int) ([]model.PaymentReportRow, error) {
	args := m.Called(ctx, since, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PaymentReportRow), args.Error(1)
}

func (m *MockAccountRepository) ActiveSubscriptionOn(ctx context.Context, studentID uuid.UUID, day time.Time) (*model.Subscription, error) {
	args := m.Called(ctx, studentID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Subscription), args.Error(1)
}

func (m *MockAccountRepository) LatestActiveEndDate(ctx context.Context, studentID uuid.UUID, day time.Time) (*time.Time, error) {
	args := m.Called(ctx, studentID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

func (m *MockAccountRepository) CreateSubscription(ctx context.Context, tx pgx.Tx, sub *model.Subscription) error {
	args := m.Called(ctx, tx, sub)
	return args.Error(0)
}

// MockMealRepository is a mock implementation of repository.MealRepository.
type MockMealRepository struct {
	mock.Mock
}

func (m *MockMealRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMealRepository) ExistsForDay(ctx context.Context, studentID uuid.UUID, mealType string, day time.Time) (bool, error) {
	args := m.Called(ctx, studentID, mealType, day)
	return args.Bool(0), args.Error(1)
}

func (m *MockMealRepository) Create(ctx context.Context, tx pgx.Tx, record *model.MealRecord) error {
	args := m.Called(ctx, tx, record)
	return args.Error(0)
}

func (m *MockMealRepository) Confirm(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockMealRepository) ListForDay(ctx context.Context, day time.Time) ([]model.MealRecordDetail, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MealRecordDetail), args.Error(1)
}

func (m *MockMealRepository) TakenTypesForDay(ctx context.Context, studentID uuid.UUID, day time.Time) ([]string, error) {
	args := m.Called(ctx, studentID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockMealRepository) MealsSince(ctx context.Context, since *time.Time, limit int) ([]model.MealReportRow, error) {
	args := m.Called(ctx, since, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MealReportRow), args.Error(1)
}

func (m *MockMealRepository) CountDistinctStudents(ctx context.Context, day time.Time) (int, error) {
	args := m.Called(ctx, day)
	return args.Int(0), args.Error(1)
}

func (m *MockMealRepository) CreatePreparedBatch(ctx context.Context, tx pgx.Tx, batch *model.PreparedBatch) error {
	args := m.Called(ctx, tx, batch)
	return args.Error(0)
}

func (m *MockMealRepository) PreparedTotals(ctx context.Context) ([]model.PreparedTotal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PreparedTotal), args.Error(1)
}

// MockRequisitionRepository is a mock implementation of repository.RequisitionRepository.
type MockRequisitionRepository struct {
	mock.Mock
}

func (m *MockRequisitionRepository) Create(ctx context.Context, requisition *model.PurchaseRequisition) error {
	args := m.Called(ctx, requisition)
	return args.Error(0)
}

func (m *MockRequisitionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.PurchaseRequisition, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PurchaseRequisition), args.Error(1)
}

func (m *MockRequisitionRepository) ListPending(ctx context.Context) ([]model.RequisitionDetail, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RequisitionDetail), args.Error(1)
}

func (m *MockRequisitionRepository) ListByCook(ctx context.Context, cookID uuid.UUID) ([]model.PurchaseRequisition, error) {
	args := m.Called(ctx, cookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PurchaseRequisition), args.Error(1)
}

func (m *MockRequisitionRepository) Approve(ctx context.Context, tx pgx.Tx, id, approver uuid.UUID) error {
	args := m.Called(ctx, tx, id, approver)
	return args.Error(0)
}

// MockNotificationRepository is a mock implementation of repository.NotificationRepository.
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, userID uuid.UUID, message string) error {
	args := m.Called(ctx, userID, message)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Notification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockNotificationRepository) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockNotificationRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockReviewRepository is a mock implementation of repository.ReviewRepository.
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *model.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]model.Review, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Review), args.Error(1)
}

// MockTx is a minimal mock implementation of pgx.Tx for testing.
type MockTx struct {
	mock.Mock
	committed  bool
	rolledBack bool
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	m.committed = true
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	m.rolledBack = true
	return args.Error(0)
}

// Stub methods to satisfy pgx.Tx interface - these are not used in our tests
func (m *MockTx) Begin(ctx context.Context) (pgx.Tx, error) { return nil, nil }
func (m *MockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (m *MockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (m *MockTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (m *MockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (m *MockTx) Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error) {
	return
}
func (m *MockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (m *MockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (m *MockTx) Conn() *pgx.Conn                                               { return nil }
