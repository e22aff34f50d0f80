package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"canteen/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// accountRepository implements the AccountRepository interface using PostgreSQL.
type accountRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewAccountRepository creates a new PostgreSQL-backed account repository.
func NewAccountRepository(pool *pgxpool.Pool, logger zerolog.Logger) AccountRepository {
	return &accountRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "account").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *accountRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateProfile inserts an empty profile within the provided transaction.
func (r *accountRepository) CreateProfile(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO student_profiles (user_id, balance) VALUES ($1, 0)`, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to create profile")
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// GetProfile retrieves a student profile.
func (r *accountRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*model.StudentProfile, error) {
	query := `
		SELECT user_id, allergies, preferences, balance, encrypted_card_number, card_expiry
		FROM student_profiles
		WHERE user_id = $1
	`

	var p model.StudentProfile
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&p.UserID,
		&p.Allergies,
		&p.Preferences,
		&p.Balance,
		&p.EncryptedCardNumber,
		&p.CardExpiry,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("user_id", userID.String()).Msg("profile not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query profile")
		return nil, fmt.Errorf("failed to query profile: %w", err)
	}

	return &p, nil
}

// BalanceForUpdate locks the profile row and returns the balance. A missing
// profile counts as a zero balance so callers reject with the insufficient
// funds message rather than an internal error.
func (r *accountRepository) BalanceForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (float64, error) {
	var balance float64
	err := tx.QueryRow(ctx,
		`SELECT balance FROM student_profiles WHERE user_id = $1 FOR UPDATE`, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("user_id", userID.String()).Msg("no profile row to lock")
			return 0, nil
		}
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to lock balance")
		return 0, fmt.Errorf("failed to lock balance: %w", err)
	}
	return balance, nil
}

// AdjustBalance adds delta (which may be negative) to the balance.
func (r *accountRepository) AdjustBalance(ctx context.Context, tx pgx.Tx, userID uuid.UUID, delta float64) error {
	_, err := tx.Exec(ctx,
		`UPDATE student_profiles SET balance = balance + $1 WHERE user_id = $2`, delta, userID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("user_id", userID.String()).
			Float64("delta", delta).
			Msg("failed to adjust balance")
		return fmt.Errorf("failed to adjust balance: %w", err)
	}
	return nil
}

// UpdateTags updates the allergy and preference tags.
func (r *accountRepository) UpdateTags(ctx context.Context, userID uuid.UUID, allergies, preferences string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE student_profiles SET allergies = $1, preferences = $2 WHERE user_id = $3`,
		allergies, preferences, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to update tags")
		return fmt.Errorf("failed to update tags: %w", err)
	}
	return nil
}

// StoreCard stores the encrypted card number and plaintext expiry.
func (r *accountRepository) StoreCard(ctx context.Context, tx pgx.Tx, userID uuid.UUID, encryptedCard, expiry string) error {
	_, err := tx.Exec(ctx,
		`UPDATE student_profiles SET encrypted_card_number = $1, card_expiry = $2 WHERE user_id = $3`,
		encryptedCard, expiry, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to store card")
		return fmt.Errorf("failed to store card: %w", err)
	}
	return nil
}

// CreatePayment appends a payment log entry.
func (r *accountRepository) CreatePayment(ctx context.Context, tx pgx.Tx, payment *model.Payment) error {
	query := `
		INSERT INTO payments (id, student_id, amount, payment_type, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := tx.Exec(ctx, query,
		payment.ID, payment.StudentID, payment.Amount, payment.PaymentType, payment.Description, payment.CreatedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("student_id", payment.StudentID.String()).
			Float64("amount", payment.Amount).
			Msg("failed to create payment")
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return nil
}

// TotalPayments sums all payment amounts.
func (r *accountRepository) TotalPayments(ctx context.Context) (float64, error) {
	var total float64
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM payments`).Scan(&total)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to sum payments")
		return 0, fmt.Errorf("failed to sum payments: %w", err)
	}
	return total, nil
}

// PaymentsSince lists payment report rows created at or after since.
func (r *accountRepository) PaymentsSince(ctx context.Context, since *time.Time, limit int) ([]model.PaymentReportRow, error) {
	query := `
		SELECT p.student_id::text, u.full_name, p.amount, p.payment_type, p.created_at
		FROM payments p
		JOIN users u ON p.student_id = u.id
		WHERE $1::timestamptz IS NULL OR p.created_at >= $1
		ORDER BY p.created_at
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, since, limit)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query payment report rows")
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	var result []model.PaymentReportRow
	for rows.Next() {
		var row model.PaymentReportRow
		if err := rows.Scan(&row.StudentID, &row.StudentName, &row.Amount, &row.PaymentType, &row.CreatedAt); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan payment report row")
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating payment report rows")
		return nil, fmt.Errorf("error iterating payments: %w", err)
	}

	return result, nil
}

// ActiveSubscriptionOn returns the subscription covering the given day.
func (r *accountRepository) ActiveSubscriptionOn(ctx context.Context, studentID uuid.UUID, day time.Time) (*model.Subscription, error) {
	query := `
		SELECT id, student_id, duration, start_date, end_date, status, created_at
		FROM subscriptions
		WHERE student_id = $1 AND status = 'active' AND $2::date BETWEEN start_date AND end_date
		ORDER BY end_date DESC
		LIMIT 1
	`

	var s model.Subscription
	err := r.pool.QueryRow(ctx, query, studentID, day).Scan(
		&s.ID, &s.StudentID, &s.Duration, &s.StartDate, &s.EndDate, &s.Status, &s.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("student_id", studentID.String()).Msg("failed to query subscription")
		return nil, fmt.Errorf("failed to query subscription: %w", err)
	}

	return &s, nil
}

// LatestActiveEndDate returns the end date of the latest non-expired active
// subscription.
func (r *accountRepository) LatestActiveEndDate(ctx context.Context, studentID uuid.UUID, day time.Time) (*time.Time, error) {
	query := `
		SELECT end_date
		FROM subscriptions
		WHERE student_id = $1 AND status = 'active' AND end_date >= $2::date
		ORDER BY end_date DESC
		LIMIT 1
	`

	var end time.Time
	err := r.pool.QueryRow(ctx, query, studentID, day).Scan(&end)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("student_id", studentID.String()).Msg("failed to query subscription end date")
		return nil, fmt.Errorf("failed to query subscription end date: %w", err)
	}

	return &end, nil
}

// CreateSubscription inserts a subscription row.
func (r *accountRepository) CreateSubscription(ctx context.Context, tx pgx.Tx, sub *model.Subscription) error {
	query := `
		INSERT INTO subscriptions (id, student_id, duration, start_date, end_date, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := tx.Exec(ctx, query,
		sub.ID, sub.StudentID, sub.Duration, sub.StartDate, sub.EndDate, sub.Status, sub.CreatedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("student_id", sub.StudentID.String()).
			Str("duration", sub.Duration).
			Msg("failed to create subscription")
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	return nil
}
