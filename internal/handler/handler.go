package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"canteen/internal/middleware"
	"canteen/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError maps an error to a JSON response. Domain errors carry their own
// code and message; everything else becomes an opaque 500.
func writeError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		status := statusForCode(domainErr.Code)
		logger.Warn().Str("code", domainErr.Code).Int("status", status).Msg(domainErr.Message)
		writeJSON(w, status, model.ErrorResponse{Error: domainErr.Code, Message: domainErr.Message})
		return
	}

	logger.Error().Err(err).Msg("handler error")
	writeJSON(w, http.StatusInternalServerError,
		model.ErrorResponse{Error: model.ErrCodeInternalError, Message: "something went wrong"})
}

// statusForCode maps a domain error code to an HTTP status.
func statusForCode(code string) int {
	switch code {
	case model.ErrCodeInvalidCredentials, model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	case model.ErrCodeForbidden:
		return http.StatusForbidden
	case model.ErrCodeDishNotFound, model.ErrCodeNoMenuToday, model.ErrCodeRecordNotFound:
		return http.StatusNotFound
	case model.ErrCodeUserExists, model.ErrCodeDishExists, model.ErrCodeMealAlreadyTaken,
		model.ErrCodeInsufficientStock, model.ErrCodeIngredientMissing, model.ErrCodeInsufficientBalance:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// identity extracts the authenticated caller, writing a 401 when absent.
func identity(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (middleware.Identity, bool) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		writeError(w, model.NewDomainError(model.ErrCodeUnauthorised, "authentication required"), logger)
	}
	return id, ok
}

// requireRole extracts the caller and checks it holds one of the roles,
// writing a 403 otherwise.
func requireRole(w http.ResponseWriter, r *http.Request, logger zerolog.Logger, roles ...string) (middleware.Identity, bool) {
	id, ok := identity(w, r, logger)
	if !ok {
		return id, false
	}
	for _, role := range roles {
		if id.Role == role {
			return id, true
		}
	}
	writeError(w, model.NewDomainError(model.ErrCodeForbidden, "insufficient permissions"), logger)
	return id, false
}

// decodeJSON decodes the request body, writing a 400 on malformed input.
func decodeJSON(w http.ResponseWriter, r *http.Request, logger zerolog.Logger, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, model.NewDomainError(model.ErrCodeInvalidJSON, "invalid request body"), logger)
		return false
	}
	return true
}
