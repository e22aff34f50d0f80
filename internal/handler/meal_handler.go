package handler

import (
	"net/http"

	"canteen/internal/model"
	"canteen/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// MealHandler handles meal taking and the cook's daily board.
type MealHandler struct {
	service service.MealService
	logger  zerolog.Logger
}

// NewMealHandler creates a new meal handler.
func NewMealHandler(service service.MealService, logger zerolog.Logger) *MealHandler {
	return &MealHandler{
		service: service,
		logger:  logger.With().Str("handler", "meal").Logger(),
	}
}

// takeMealRequest is the body of a meal-taking request.
type takeMealRequest struct {
	MealType string `json:"mealType"`
}

// Take handles POST /api/meals/take requests.
func (h *MealHandler) Take(w http.ResponseWriter, r *http.Request) {
	id, ok := requireRole(w, r, h.logger, model.RoleStudent)
	if !ok {
		return
	}

	var req takeMealRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}

	receipt, err := h.service.TakeMeal(r.Context(), id.UserID, id.FullName, req.MealType)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, receipt)
}

// Confirm handles POST /api/meals/{id}/confirm requests.
func (h *MealHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireRole(w, r, h.logger, model.RoleCook, model.RoleAdmin); !ok {
		return
	}

	recordID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, model.ErrRecordNotFound, h.logger)
		return
	}

	if err := h.service.Confirm(r.Context(), recordID); err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"confirmed": true})
}

// Today handles GET /api/meals/today requests.
func (h *MealHandler) Today(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireRole(w, r, h.logger, model.RoleCook, model.RoleAdmin); !ok {
		return
	}

	records, err := h.service.TodayRecords(r.Context())
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	if records == nil {
		records = []model.MealRecordDetail{}
	}

	writeJSON(w, http.StatusOK, records)
}
