package handler

import (
	"net/http"

	"canteen/internal/model"
	"canteen/internal/service"

	"github.com/rs/zerolog"
)

// ReviewHandler handles dish review requests.
type ReviewHandler struct {
	service service.ReviewService
	logger  zerolog.Logger
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(service service.ReviewService, logger zerolog.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		logger:  logger.With().Str("handler", "review").Logger(),
	}
}

// Create handles POST /api/reviews requests.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := requireRole(w, r, h.logger, model.RoleStudent)
	if !ok {
		return
	}

	var req model.ReviewRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}

	review, err := h.service.Submit(r.Context(), id.UserID, id.FullName, &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, review)
}

// Mine handles GET /api/reviews/mine requests.
func (h *ReviewHandler) Mine(w http.ResponseWriter, r *http.Request) {
	id, ok := requireRole(w, r, h.logger, model.RoleStudent)
	if !ok {
		return
	}

	reviews, err := h.service.ListByStudent(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	if reviews == nil {
		reviews = []model.Review{}
	}

	writeJSON(w, http.StatusOK, reviews)
}
