package router

import (
	"net/http"

	"canteen/internal/handler"
	"canteen/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	authHandler *handler.AuthHandler,
	menuHandler *handler.MenuHandler,
	mealHandler *handler.MealHandler,
	accountHandler *handler.AccountHandler,
	kitchenHandler *handler.KitchenHandler,
	adminHandler *handler.AdminHandler,
	notificationHandler *handler.NotificationHandler,
	reviewHandler *handler.ReviewHandler,
	jwtSecret string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Auth
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Menu and dishes
	mux.HandleFunc("GET /api/menu/today", menuHandler.Today)
	mux.HandleFunc("GET /api/dishes", menuHandler.ListDishes)
	mux.HandleFunc("POST /api/dishes", menuHandler.CreateDish)

	// Meals
	mux.HandleFunc("POST /api/meals/take", mealHandler.Take)
	mux.HandleFunc("POST /api/meals/{id}/confirm", mealHandler.Confirm)
	mux.HandleFunc("GET /api/meals/today", mealHandler.Today)

	// Profile, balance and subscriptions
	mux.HandleFunc("GET /api/profile", accountHandler.Profile)
	mux.HandleFunc("PUT /api/profile", accountHandler.UpdateProfile)
	mux.HandleFunc("POST /api/balance/top-up", accountHandler.TopUp)
	mux.HandleFunc("POST /api/subscriptions", accountHandler.Subscribe)

	// Kitchen
	mux.HandleFunc("POST /api/kitchen/prepare", kitchenHandler.Prepare)
	mux.HandleFunc("GET /api/kitchen/dishes", kitchenHandler.Preparable)
	mux.HandleFunc("GET /api/kitchen/prepared", kitchenHandler.PreparedTotals)
	mux.HandleFunc("GET /api/kitchen/inventory", kitchenHandler.Inventory)
	mux.HandleFunc("POST /api/requisitions", kitchenHandler.SubmitRequisition)
	mux.HandleFunc("GET /api/requisitions/mine", kitchenHandler.MyRequisitions)

	// Admin
	mux.HandleFunc("GET /api/admin/stats", adminHandler.Stats)
	mux.HandleFunc("GET /api/admin/operations", adminHandler.Operations)
	mux.HandleFunc("GET /api/admin/users", adminHandler.Users)
	mux.HandleFunc("GET /api/admin/requisitions", adminHandler.PendingRequisitions)
	mux.HandleFunc("POST /api/admin/requisitions/{id}/approve", adminHandler.ApproveRequisition)
	mux.HandleFunc("GET /api/admin/reports/export", adminHandler.ExportReport)

	// Notifications
	mux.HandleFunc("GET /api/notifications", notificationHandler.List)
	mux.HandleFunc("GET /api/notifications/unread", notificationHandler.UnreadCount)
	mux.HandleFunc("DELETE /api/notifications/{id}", notificationHandler.Delete)

	// Reviews
	mux.HandleFunc("POST /api/reviews", reviewHandler.Create)
	mux.HandleFunc("GET /api/reviews/mine", reviewHandler.Mine)

	// Apply middleware in order: Recovery -> Logging -> CORS -> JWTAuth
	var h http.Handler = mux
	h = middleware.JWTAuth(jwtSecret, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
