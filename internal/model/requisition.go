package model

import (
	"time"

	"github.com/google/uuid"
)

// Requisition statuses.
const (
	RequisitionPending  = "pending"
	RequisitionApproved = "approved"
)

// PurchaseRequisition is a cook-submitted restocking request. Items is the
// free-text list as entered; it is parsed only on approval.
type PurchaseRequisition struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	CookID     uuid.UUID  `json:"cookId" db:"cook_id"`
	Items      string     `json:"items" db:"items"`
	Status     string     `json:"status" db:"status"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
	ApprovedBy *uuid.UUID `json:"approvedBy,omitempty" db:"approved_by"`
}

// RequisitionDetail joins a requisition with the requesting cook's name.
type RequisitionDetail struct {
	PurchaseRequisition
	CookName string `json:"cookName"`
}

// RequisitionRequest submits a free-text item list.
type RequisitionRequest struct {
	Items string `json:"items"`
}
