package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"canteen/internal/model"
	"canteen/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// requisitionService implements RequisitionService.
type requisitionService struct {
	requisitionRepo repository.RequisitionRepository
	inventoryRepo   repository.InventoryRepository
	userRepo        repository.UserRepository
	notifRepo       repository.NotificationRepository
	logger          zerolog.Logger
}

// NewRequisitionService creates a new requisition service.
func NewRequisitionService(
	requisitionRepo repository.RequisitionRepository,
	inventoryRepo repository.InventoryRepository,
	userRepo repository.UserRepository,
	notifRepo repository.NotificationRepository,
	logger zerolog.Logger,
) RequisitionService {
	return &requisitionService{
		requisitionRepo: requisitionRepo,
		inventoryRepo:   inventoryRepo,
		userRepo:        userRepo,
		notifRepo:       notifRepo,
		logger:          logger.With().Str("service", "requisition").Logger(),
	}
}

// Submit stores a free-text requisition and notifies an administrator. The
// item list is kept verbatim; it is parsed only on approval.
func (s *requisitionService) Submit(ctx context.Context, cookID uuid.UUID, cookName, items string) (*model.PurchaseRequisition, error) {
	items = strings.TrimSpace(items)
	if items == "" {
		return nil, model.NewDomainError(model.ErrCodeInvalidJSON, "The item list is empty")
	}

	req := &model.PurchaseRequisition{
		ID:        uuid.New(),
		CookID:    cookID,
		Items:     items,
		Status:    model.RequisitionPending,
		CreatedAt: time.Now(),
	}
	if err := s.requisitionRepo.Create(ctx, req); err != nil {
		return nil, err
	}

	s.logger.Info().Str("requisition_id", req.ID.String()).Msg("requisition submitted")

	admin, err := s.userRepo.FirstByRole(ctx, model.RoleAdmin)
	if err == nil && admin != nil {
		msg := fmt.Sprintf("New purchase request from %s", cookName)
		if nErr := s.notifRepo.Create(ctx, admin.ID, msg); nErr != nil {
			s.logger.Warn().Err(nErr).Msg("failed to notify admin")
		}
	}

	return req, nil
}

// ListPending lists pending requisitions for the admin board.
func (s *requisitionService) ListPending(ctx context.Context) ([]model.RequisitionDetail, error) {
	return s.requisitionRepo.ListPending(ctx)
}

// ListByCook lists a cook's own requisitions.
func (s *requisitionService) ListByCook(ctx context.Context, cookID uuid.UUID) ([]model.PurchaseRequisition, error) {
	return s.requisitionRepo.ListByCook(ctx, cookID)
}

// Approve parses the item list, restocks inventory and marks the requisition
// approved. The upserts and the status flip share one transaction.
func (s *requisitionService) Approve(ctx context.Context, id, approverID uuid.UUID) error {
	req, err := s.requisitionRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if req == nil || req.Status != model.RequisitionPending {
		return model.ErrRecordNotFound
	}

	items := parseRequisitionItems(req.Items)

	tx, err := s.inventoryRepo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to approve requisition: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	for _, item := range items {
		if err = s.inventoryRepo.Upsert(ctx, tx, item.name, item.quantity, "piece"); err != nil {
			return err
		}
	}

	if err = s.requisitionRepo.Approve(ctx, tx, id, approverID); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to commit requisition approval")
		return fmt.Errorf("failed to approve requisition: %w", err)
	}

	s.logger.Info().
		Str("requisition_id", id.String()).
		Int("items", len(items)).
		Msg("requisition approved")

	msg := "Your purchase request has been approved"
	if nErr := s.notifRepo.Create(ctx, req.CookID, msg); nErr != nil {
		s.logger.Warn().Err(nErr).Msg("failed to notify cook")
	}

	return nil
}

// requisitionItem is one parsed line of a free-text requisition.
type requisitionItem struct {
	name     string
	quantity float64
}

// parseRequisitionItems parses a free-text item list. One item per line; the
// trailing whitespace-separated token is the quantity (decimal comma
// accepted), the remaining tokens joined form the product name. Malformed
// lines are skipped.
func parseRequisitionItems(raw string) []requisitionItem {
	var items []requisitionItem
	for _, line := range strings.Split(raw, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}

		qtyToken := strings.ReplaceAll(fields[len(fields)-1], ",", ".")
		quantity, err := strconv.ParseFloat(qtyToken, 64)
		if err != nil || quantity <= 0 {
			continue
		}

		items = append(items, requisitionItem{
			name:     strings.Join(fields[:len(fields)-1], " "),
			quantity: quantity,
		})
	}
	return items
}
