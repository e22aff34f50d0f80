package service

import (
	"context"

	"canteen/internal/model"

	"github.com/google/uuid"
)

// AuthService defines account registration and authentication.
type AuthService interface {
	// Register creates a student account with an empty profile and returns a
	// signed token for the new account.
	Register(ctx context.Context, req *model.RegisterRequest) (*model.LoginResponse, error)

	// Login verifies credentials and returns a signed token.
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
}

// MenuService defines menu browsing and dish management.
type MenuService interface {
	// TodayMenu builds the student-facing view of today's offering, including
	// prices, already-taken meal types and dietary tag matches.
	TodayMenu(ctx context.Context, studentID uuid.UUID) (*model.MenuView, error)

	// ListDishes lists dishes, optionally filtered by a name substring.
	ListDishes(ctx context.Context, search string) ([]model.Dish, error)

	// AddDish creates a dish together with its recipe lines.
	AddDish(ctx context.Context, req *model.NewDishRequest) (*model.Dish, error)
}

// MealService defines meal taking and the cook's daily board.
type MealService interface {
	// TakeMeal settles one meal-taking: verifies the preconditions, deducts
	// ingredient stock and charges the student unless a subscription covers
	// the day, all inside a single transaction.
	TakeMeal(ctx context.Context, studentID uuid.UUID, fullName, mealType string) (*model.MealReceipt, error)

	// Confirm flips the confirmed flag on a meal record.
	Confirm(ctx context.Context, recordID uuid.UUID) error

	// TodayRecords lists today's meal records with student names.
	TodayRecords(ctx context.Context) ([]model.MealRecordDetail, error)
}

// PreparationService defines kitchen stock operations.
type PreparationService interface {
	// PrepareDish deducts ingredient stock for N portions of a dish and
	// records a prepared batch.
	PrepareDish(ctx context.Context, req *model.PrepareRequest) (*model.PreparedBatch, error)

	// ListPreparable lists every dish with its recipe and whether current
	// stock covers a single portion.
	ListPreparable(ctx context.Context) ([]model.PreparableDish, error)

	// PreparedTotals sums prepared portions per dish.
	PreparedTotals(ctx context.Context) ([]model.PreparedTotal, error)

	// Inventory lists current stock levels.
	Inventory(ctx context.Context) ([]model.InventoryItem, error)
}

// SubscriptionService defines subscription purchases.
type SubscriptionService interface {
	// Purchase debits the tier price and opens a subscription window. An
	// active subscription is extended from its end date.
	Purchase(ctx context.Context, studentID uuid.UUID, duration string) (*model.Subscription, error)
}

// AccountService defines profile and balance operations.
type AccountService interface {
	// TopUp credits the balance and stores the submitted card encrypted.
	TopUp(ctx context.Context, studentID uuid.UUID, req *model.TopUpRequest) (*model.StudentProfile, error)

	// Profile returns the profile view with the active subscription and the
	// masked stored card.
	Profile(ctx context.Context, userID uuid.UUID) (*model.ProfileView, error)

	// UpdateTags updates the allergy and preference tags.
	UpdateTags(ctx context.Context, userID uuid.UUID, req *model.ProfileUpdateRequest) error
}

// RequisitionService defines the purchase requisition workflow.
type RequisitionService interface {
	// Submit stores a free-text requisition and notifies an administrator.
	Submit(ctx context.Context, cookID uuid.UUID, cookName, items string) (*model.PurchaseRequisition, error)

	// ListPending lists pending requisitions for the admin board.
	ListPending(ctx context.Context) ([]model.RequisitionDetail, error)

	// ListByCook lists a cook's own requisitions.
	ListByCook(ctx context.Context, cookID uuid.UUID) ([]model.PurchaseRequisition, error)

	// Approve parses the item list, restocks inventory and marks the
	// requisition approved, all inside a single transaction.
	Approve(ctx context.Context, id, approverID uuid.UUID) error
}

// NotificationService defines the per-user mailbox.
type NotificationService interface {
	// Mailbox returns the user's messages and marks them all read.
	Mailbox(ctx context.Context, userID uuid.UUID) ([]model.Notification, error)

	// UnreadCount counts unread messages.
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)

	// Delete removes a message owned by the user.
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// ReviewService defines dish reviews.
type ReviewService interface {
	// Submit stores a review and notifies the kitchen and administration.
	Submit(ctx context.Context, studentID uuid.UUID, studentName string, req *model.ReviewRequest) (*model.Review, error)

	// ListByStudent lists a student's reviews.
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]model.Review, error)
}

// ReportService defines the admin dashboard and exports.
type ReportService interface {
	// Stats returns the dashboard summary.
	Stats(ctx context.Context) (*model.AdminStats, error)

	// Operations merges recent payments and meal records into one feed.
	Operations(ctx context.Context) ([]model.Operation, error)

	// Export renders the activity report for the period as a CSV download.
	Export(ctx context.Context, period string) (*model.ReportFile, error)

	// ListUsers lists student and cook accounts.
	ListUsers(ctx context.Context) ([]model.User, error)
}
