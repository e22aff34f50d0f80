package handler

import (
	"net/http"

	"canteen/internal/model"
	"canteen/internal/service"

	"github.com/rs/zerolog"
)

// MenuHandler handles menu browsing and dish management requests.
type MenuHandler struct {
	service service.MenuService
	logger  zerolog.Logger
}

// NewMenuHandler creates a new menu handler.
func NewMenuHandler(service service.MenuService, logger zerolog.Logger) *MenuHandler {
	return &MenuHandler{
		service: service,
		logger:  logger.With().Str("handler", "menu").Logger(),
	}
}

// Today handles GET /api/menu/today requests.
func (h *MenuHandler) Today(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, h.logger)
	if !ok {
		return
	}

	view, err := h.service.TodayMenu(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// ListDishes handles GET /api/dishes requests.
func (h *MenuHandler) ListDishes(w http.ResponseWriter, r *http.Request) {
	if _, ok := identity(w, r, h.logger); !ok {
		return
	}

	dishes, err := h.service.ListDishes(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	if dishes == nil {
		dishes = []model.Dish{}
	}

	writeJSON(w, http.StatusOK, dishes)
}

// CreateDish handles POST /api/dishes requests.
func (h *MenuHandler) CreateDish(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireRole(w, r, h.logger, model.RoleCook, model.RoleAdmin); !ok {
		return
	}

	var req model.NewDishRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}

	dish, err := h.service.AddDish(r.Context(), &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, dish)
}
