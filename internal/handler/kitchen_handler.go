package handler

import (
	"net/http"

	"canteen/internal/model"
	"canteen/internal/service"

	"github.com/rs/zerolog"
)

// KitchenHandler handles preparation, inventory and requisition requests.
type KitchenHandler struct {
	preparations service.PreparationService
	requisitions service.RequisitionService
	logger       zerolog.Logger
}

// NewKitchenHandler creates a new kitchen handler.
func NewKitchenHandler(
	preparations service.PreparationService,
	requisitions service.RequisitionService,
	logger zerolog.Logger,
) *KitchenHandler {
	return &KitchenHandler{
		preparations: preparations,
		requisitions: requisitions,
		logger:       logger.With().Str("handler", "kitchen").Logger(),
	}
}

// Prepare handles POST /api/kitchen/prepare requests.
func (h *KitchenHandler) Prepare(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireRole(w, r, h.logger, model.RoleCook); !ok {
		return
	}

	var req model.PrepareRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}

	batch, err := h.preparations.PrepareDish(r.Context(), &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, batch)
}

// Preparable handles GET /api/kitchen/dishes requests.
func (h *KitchenHandler) Preparable(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireRole(w, r, h.logger, model.RoleCook, model.RoleAdmin); !ok {
		return
	}

	dishes, err := h.preparations.ListPreparable(r.Context())
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, dishes)
}

// PreparedTotals handles GET /api/kitchen/prepared requests.
func (h *KitchenHandler) PreparedTotals(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireRole(w, r, h.logger, model.RoleCook, model.RoleAdmin); !ok {
		return
	}

	totals, err := h.preparations.PreparedTotals(r.Context())
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	if totals == nil {
		totals = []model.PreparedTotal{}
	}

	writeJSON(w, http.StatusOK, totals)
}

// Inventory handles GET /api/kitchen/inventory requests.
func (h *KitchenHandler) Inventory(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireRole(w, r, h.logger, model.RoleCook, model.RoleAdmin); !ok {
		return
	}

	items, err := h.preparations.Inventory(r.Context())
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	if items == nil {
		items = []model.InventoryItem{}
	}

	writeJSON(w, http.StatusOK, items)
}

// SubmitRequisition handles POST /api/requisitions requests.
func (h *KitchenHandler) SubmitRequisition(w http.ResponseWriter, r *http.Request) {
	id, ok := requireRole(w, r, h.logger, model.RoleCook)
	if !ok {
		return
	}

	var req model.RequisitionRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}

	requisition, err := h.requisitions.Submit(r.Context(), id.UserID, id.FullName, req.Items)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, requisition)
}

// MyRequisitions handles GET /api/requisitions/mine requests.
func (h *KitchenHandler) MyRequisitions(w http.ResponseWriter, r *http.Request) {
	id, ok := requireRole(w, r, h.logger, model.RoleCook)
	if !ok {
		return
	}

	requisitions, err := h.requisitions.ListByCook(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	if requisitions == nil {
		requisitions = []model.PurchaseRequisition{}
	}

	writeJSON(w, http.StatusOK, requisitions)
}
