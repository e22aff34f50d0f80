package repository

import (
	"context"
	"fmt"

	"canteen/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// requisitionRepository implements the RequisitionRepository interface using PostgreSQL.
type requisitionRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewRequisitionRepository creates a new PostgreSQL-backed requisition repository.
func NewRequisitionRepository(pool *pgxpool.Pool, logger zerolog.Logger) RequisitionRepository {
	return &requisitionRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "requisition").Logger(),
	}
}

// Create inserts a pending requisition.
func (r *requisitionRepository) Create(ctx context.Context, requisition *model.PurchaseRequisition) error {
	query := `
		INSERT INTO purchase_requests (id, cook_id, items, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		requisition.ID, requisition.CookID, requisition.Items, requisition.Status, requisition.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("cook_id", requisition.CookID.String()).Msg("failed to create requisition")
		return fmt.Errorf("failed to create requisition: %w", err)
	}

	return nil
}

// GetByID retrieves a requisition.
func (r *requisitionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.PurchaseRequisition, error) {
	query := `
		SELECT id, cook_id, items, status, created_at, approved_by
		FROM purchase_requests
		WHERE id = $1
	`

	var req model.PurchaseRequisition
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&req.ID, &req.CookID, &req.Items, &req.Status, &req.CreatedAt, &req.ApprovedBy)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("requisition_id", id.String()).Msg("requisition not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("requisition_id", id.String()).Msg("failed to query requisition")
		return nil, fmt.Errorf("failed to query requisition: %w", err)
	}

	return &req, nil
}

// ListPending lists pending requisitions with cook names.
func (r *requisitionRepository) ListPending(ctx context.Context) ([]model.RequisitionDetail, error) {
	query := `
		SELECT pr.id, pr.cook_id, pr.items, pr.status, pr.created_at, pr.approved_by, u.full_name
		FROM purchase_requests pr
		JOIN users u ON pr.cook_id = u.id
		WHERE pr.status = 'pending'
		ORDER BY pr.created_at
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query pending requisitions")
		return nil, fmt.Errorf("failed to query pending requisitions: %w", err)
	}
	defer rows.Close()

	var result []model.RequisitionDetail
	for rows.Next() {
		var d model.RequisitionDetail
		if err := rows.Scan(&d.ID, &d.CookID, &d.Items, &d.Status, &d.CreatedAt, &d.ApprovedBy, &d.CookName); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan requisition row")
			return nil, fmt.Errorf("failed to scan requisition: %w", err)
		}
		result = append(result, d)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating requisition rows")
		return nil, fmt.Errorf("error iterating requisitions: %w", err)
	}

	return result, nil
}

// ListByCook lists a cook's requisitions.
func (r *requisitionRepository) ListByCook(ctx context.Context, cookID uuid.UUID) ([]model.PurchaseRequisition, error) {
	query := `
		SELECT id, cook_id, items, status, created_at, approved_by
		FROM purchase_requests
		WHERE cook_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, cookID)
	if err != nil {
		r.logger.Error().Err(err).Str("cook_id", cookID.String()).Msg("failed to query cook requisitions")
		return nil, fmt.Errorf("failed to query cook requisitions: %w", err)
	}
	defer rows.Close()

	var result []model.PurchaseRequisition
	for rows.Next() {
		var req model.PurchaseRequisition
		if err := rows.Scan(&req.ID, &req.CookID, &req.Items, &req.Status, &req.CreatedAt, &req.ApprovedBy); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan requisition row")
			return nil, fmt.Errorf("failed to scan requisition: %w", err)
		}
		result = append(result, req)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating requisition rows")
		return nil, fmt.Errorf("error iterating requisitions: %w", err)
	}

	return result, nil
}

// Approve marks a requisition approved within the provided transaction.
func (r *requisitionRepository) Approve(ctx context.Context, tx pgx.Tx, id, approver uuid.UUID) error {
	_, err := tx.Exec(ctx,
		`UPDATE purchase_requests SET status = 'approved', approved_by = $1 WHERE id = $2`, approver, id)
	if err != nil {
		r.logger.Error().Err(err).Str("requisition_id", id.String()).Msg("failed to approve requisition")
		return fmt.Errorf("failed to approve requisition: %w", err)
	}
	return nil
}
