package handler

import (
	"fmt"
	"net/http"

	"canteen/internal/model"
	"canteen/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AdminHandler handles the admin dashboard, requisition approvals and
// report downloads.
type AdminHandler struct {
	reports      service.ReportService
	requisitions service.RequisitionService
	logger       zerolog.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(
	reports service.ReportService,
	requisitions service.RequisitionService,
	logger zerolog.Logger,
) *AdminHandler {
	return &AdminHandler{
		reports:      reports,
		requisitions: requisitions,
		logger:       logger.With().Str("handler", "admin").Logger(),
	}
}

// Stats handles GET /api/admin/stats requests.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireRole(w, r, h.logger, model.RoleAdmin); !ok {
		return
	}

	stats, err := h.reports.Stats(r.Context())
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// Operations handles GET /api/admin/operations requests.
func (h *AdminHandler) Operations(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireRole(w, r, h.logger, model.RoleAdmin); !ok {
		return
	}

	ops, err := h.reports.Operations(r.Context())
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	if ops == nil {
		ops = []model.Operation{}
	}

	writeJSON(w, http.StatusOK, ops)
}

// Users handles GET /api/admin/users requests.
func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireRole(w, r, h.logger, model.RoleAdmin); !ok {
		return
	}

	users, err := h.reports.ListUsers(r.Context())
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	if users == nil {
		users = []model.User{}
	}

	writeJSON(w, http.StatusOK, users)
}

// PendingRequisitions handles GET /api/admin/requisitions requests.
func (h *AdminHandler) PendingRequisitions(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireRole(w, r, h.logger, model.RoleAdmin); !ok {
		return
	}

	requisitions, err := h.requisitions.ListPending(r.Context())
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	if requisitions == nil {
		requisitions = []model.RequisitionDetail{}
	}

	writeJSON(w, http.StatusOK, requisitions)
}

// ApproveRequisition handles POST /api/admin/requisitions/{id}/approve requests.
func (h *AdminHandler) ApproveRequisition(w http.ResponseWriter, r *http.Request) {
	id, ok := requireRole(w, r, h.logger, model.RoleAdmin)
	if !ok {
		return
	}

	requisitionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, model.ErrRecordNotFound, h.logger)
		return
	}

	if err := h.requisitions.Approve(r.Context(), requisitionID, id.UserID); err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"approved": true})
}

// ExportReport handles GET /api/admin/reports/export requests. The period
// query parameter selects the window; the response is served as a CSV
// download.
func (h *AdminHandler) ExportReport(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireRole(w, r, h.logger, model.RoleAdmin); !ok {
		return
	}

	period := r.URL.Query().Get("period")
	if period == "" {
		period = model.PeriodAll
	}

	file, err := h.reports.Export(r.Context(), period)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Content); err != nil {
		h.logger.Warn().Err(err).Msg("failed to stream report")
	}
}
