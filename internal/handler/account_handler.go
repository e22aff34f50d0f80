package handler

import (
	"net/http"

	"canteen/internal/model"
	"canteen/internal/service"

	"github.com/rs/zerolog"
)

// AccountHandler handles profile, balance and subscription requests.
type AccountHandler struct {
	accounts      service.AccountService
	subscriptions service.SubscriptionService
	logger        zerolog.Logger
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(
	accounts service.AccountService,
	subscriptions service.SubscriptionService,
	logger zerolog.Logger,
) *AccountHandler {
	return &AccountHandler{
		accounts:      accounts,
		subscriptions: subscriptions,
		logger:        logger.With().Str("handler", "account").Logger(),
	}
}

// Profile handles GET /api/profile requests.
func (h *AccountHandler) Profile(w http.ResponseWriter, r *http.Request) {
	id, ok := requireRole(w, r, h.logger, model.RoleStudent)
	if !ok {
		return
	}

	view, err := h.accounts.Profile(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// UpdateProfile handles PUT /api/profile requests.
func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := requireRole(w, r, h.logger, model.RoleStudent)
	if !ok {
		return
	}

	var req model.ProfileUpdateRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}

	if err := h.accounts.UpdateTags(r.Context(), id.UserID, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

// TopUp handles POST /api/balance/top-up requests.
func (h *AccountHandler) TopUp(w http.ResponseWriter, r *http.Request) {
	id, ok := requireRole(w, r, h.logger, model.RoleStudent)
	if !ok {
		return
	}

	var req model.TopUpRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}

	profile, err := h.accounts.TopUp(r.Context(), id.UserID, &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// Subscribe handles POST /api/subscriptions requests.
func (h *AccountHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	id, ok := requireRole(w, r, h.logger, model.RoleStudent)
	if !ok {
		return
	}

	var req model.SubscribeRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}

	sub, err := h.subscriptions.Purchase(r.Context(), id.UserID, req.Duration)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, sub)
}
