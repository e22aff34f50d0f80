package repository

import (
	"context"
	"errors"
	"time"

	"canteen/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// UserRepository defines the interface for account data access operations.
type UserRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// Create inserts a new user within the provided transaction.
	Create(ctx context.Context, tx pgx.Tx, user *model.User) error

	// GetByName retrieves a user by full name. Returns nil when not found.
	GetByName(ctx context.Context, fullName string) (*model.User, error)

	// GetByID retrieves a user by ID. Returns nil when not found.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// FirstByRole returns an arbitrary user holding the role, or nil.
	FirstByRole(ctx context.Context, role string) (*model.User, error)

	// ListByRoles lists users holding any of the given roles.
	ListByRoles(ctx context.Context, roles []string) ([]model.User, error)

	// CountByRole counts users holding the role.
	CountByRole(ctx context.Context, role string) (int, error)
}

// CatalogRepository defines access to dishes, recipes and menu sets.
type CatalogRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// GetDish retrieves a dish by name. Returns nil when not found.
	GetDish(ctx context.Context, name string) (*model.Dish, error)

	// GetDishesByNames retrieves dishes for the given names.
	GetDishesByNames(ctx context.Context, names []string) ([]model.Dish, error)

	// SearchDishes lists dishes, optionally filtered by a name substring.
	SearchDishes(ctx context.Context, search string) ([]model.Dish, error)

	// CreateDish inserts a new dish within the provided transaction.
	CreateDish(ctx context.Context, tx pgx.Tx, dish *model.Dish) error

	// CreateRecipeLines inserts recipe lines within the provided transaction.
	CreateRecipeLines(ctx context.Context, tx pgx.Tx, lines []model.RecipeLine) error

	// GetRecipe retrieves the recipe lines of a dish.
	GetRecipe(ctx context.Context, dishName string) ([]model.RecipeLine, error)

	// GetMenuByDate retrieves the menu set for a calendar date. Returns nil
	// when no menu has been composed for that day.
	GetMenuByDate(ctx context.Context, day time.Time) (*model.MenuSet, error)
}

// InventoryRepository defines access to the stock ledger. Settlement reads
// take row locks so the check and the deduction observe the same state.
type InventoryRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// List lists all stock items.
	List(ctx context.Context) ([]model.InventoryItem, error)

	// RecipeDemands reads the recipe of a dish joined with current stock,
	// locking the touched inventory rows for the transaction.
	RecipeDemands(ctx context.Context, tx pgx.Tx, dishName string) ([]model.IngredientDemand, error)

	// LockStock locks a single inventory row and returns its quantity. The
	// second result is false when the product is not stocked at all.
	LockStock(ctx context.Context, tx pgx.Tx, product string) (float64, bool, error)

	// Deduct subtracts quantity from a product's stock.
	Deduct(ctx context.Context, tx pgx.Tx, product string, quantity float64) error

	// DeductRounded subtracts quantity and rounds the result to 2 decimals.
	DeductRounded(ctx context.Context, tx pgx.Tx, product string, quantity float64) error

	// Upsert inserts a product or adds to its existing quantity.
	Upsert(ctx context.Context, tx pgx.Tx, product string, quantity float64, unit string) error
}

// AccountRepository defines access to student profiles, the payment log and
// subscriptions.
type AccountRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateProfile inserts an empty profile within the provided transaction.
	CreateProfile(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error

	// GetProfile retrieves a student profile. Returns nil when not found.
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.StudentProfile, error)

	// BalanceForUpdate locks the profile row and returns the balance. A
	// missing profile reads as a zero balance.
	BalanceForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (float64, error)

	// AdjustBalance adds delta (which may be negative) to the balance.
	AdjustBalance(ctx context.Context, tx pgx.Tx, userID uuid.UUID, delta float64) error

	// UpdateTags updates the allergy and preference tags.
	UpdateTags(ctx context.Context, userID uuid.UUID, allergies, preferences string) error

	// StoreCard stores the encrypted card number and plaintext expiry.
	StoreCard(ctx context.Context, tx pgx.Tx, userID uuid.UUID, encryptedCard, expiry string) error

	// CreatePayment appends a payment log entry.
	CreatePayment(ctx context.Context, tx pgx.Tx, payment *model.Payment) error

	// TotalPayments sums all payment amounts.
	TotalPayments(ctx context.Context) (float64, error)

	// PaymentsSince lists payment report rows created at or after since.
	// A nil since means all time.
	PaymentsSince(ctx context.Context, since *time.Time, limit int) ([]model.PaymentReportRow, error)

	// ActiveSubscriptionOn returns the subscription covering the given day,
	// or nil when the student holds none.
	ActiveSubscriptionOn(ctx context.Context, studentID uuid.UUID, day time.Time) (*model.Subscription, error)

	// LatestActiveEndDate returns the end date of the latest non-expired
	// active subscription, or nil when there is none.
	LatestActiveEndDate(ctx context.Context, studentID uuid.UUID, day time.Time) (*time.Time, error)

	// CreateSubscription inserts a subscription row.
	CreateSubscription(ctx context.Context, tx pgx.Tx, sub *model.Subscription) error
}

// MealRepository defines access to meal records and prepared batches.
type MealRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// ExistsForDay reports whether the student already took the meal type on
	// the given calendar day.
	ExistsForDay(ctx context.Context, studentID uuid.UUID, mealType string, day time.Time) (bool, error)

	// Create inserts a meal record within the provided transaction.
	Create(ctx context.Context, tx pgx.Tx, record *model.MealRecord) error

	// Confirm flips the confirmed flag. Returns false when no row matched.
	Confirm(ctx context.Context, id uuid.UUID) (bool, error)

	// ListForDay lists the day's records with student names for the cook board.
	ListForDay(ctx context.Context, day time.Time) ([]model.MealRecordDetail, error)

	// TakenTypesForDay lists the meal types the student took on the day.
	TakenTypesForDay(ctx context.Context, studentID uuid.UUID, day time.Time) ([]string, error)

	// MealsSince lists meal report rows taken at or after since. A nil since
	// means all time.
	MealsSince(ctx context.Context, since *time.Time, limit int) ([]model.MealReportRow, error)

	// CountDistinctStudents counts students who took any meal on the day.
	CountDistinctStudents(ctx context.Context, day time.Time) (int, error)

	// CreatePreparedBatch inserts a prepared batch within the transaction.
	CreatePreparedBatch(ctx context.Context, tx pgx.Tx, batch *model.PreparedBatch) error

	// PreparedTotals sums prepared portions per dish.
	PreparedTotals(ctx context.Context) ([]model.PreparedTotal, error)
}

// RequisitionRepository defines access to purchase requisitions.
type RequisitionRepository interface {
	// Create inserts a pending requisition.
	Create(ctx context.Context, requisition *model.PurchaseRequisition) error

	// GetByID retrieves a requisition. Returns nil when not found.
	GetByID(ctx context.Context, id uuid.UUID) (*model.PurchaseRequisition, error)

	// ListPending lists pending requisitions with cook names.
	ListPending(ctx context.Context) ([]model.RequisitionDetail, error)

	// ListByCook lists a cook's requisitions.
	ListByCook(ctx context.Context, cookID uuid.UUID) ([]model.PurchaseRequisition, error)

	// Approve marks a requisition approved within the provided transaction.
	Approve(ctx context.Context, tx pgx.Tx, id, approver uuid.UUID) error
}

// NotificationRepository defines access to the per-user message mailbox.
type NotificationRepository interface {
	// Create appends a message to a user's mailbox.
	Create(ctx context.Context, userID uuid.UUID, message string) error

	// ListByUser lists a user's messages, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Notification, error)

	// MarkAllRead marks every message of the user read.
	MarkAllRead(ctx context.Context, userID uuid.UUID) error

	// UnreadCount counts unread messages.
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)

	// Delete removes a message owned by the user.
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// ReviewRepository defines access to dish reviews.
type ReviewRepository interface {
	// Create inserts a review.
	Create(ctx context.Context, review *model.Review) error

	// ListByStudent lists a student's reviews.
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]model.Review, error)
}

// IsUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation, used to surface duplicate names as specific domain errors.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
