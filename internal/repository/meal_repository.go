package repository

import (
	"context"
	"fmt"
	"time"

	"canteen/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// mealRepository implements the MealRepository interface using PostgreSQL.
type mealRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewMealRepository creates a new PostgreSQL-backed meal repository.
func NewMealRepository(pool *pgxpool.Pool, logger zerolog.Logger) MealRepository {
	return &mealRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "meal").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *mealRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// ExistsForDay reports whether the student already took the meal type on the day.
func (r *mealRepository) ExistsForDay(ctx context.Context, studentID uuid.UUID, mealType string, day time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM meal_records
			WHERE student_id = $1 AND meal_type = $2 AND taken_at::date = $3::date
		)
	`

	var exists bool
	err := r.pool.QueryRow(ctx, query, studentID, mealType, day).Scan(&exists)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("student_id", studentID.String()).
			Str("meal_type", mealType).
			Msg("failed to check meal record")
		return false, fmt.Errorf("failed to check meal record: %w", err)
	}

	return exists, nil
}

// Create inserts a meal record within the provided transaction.
func (r *mealRepository) Create(ctx context.Context, tx pgx.Tx, record *model.MealRecord) error {
	query := `
		INSERT INTO meal_records (id, student_id, menu_id, meal_type, taken_at, confirmed)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := tx.Exec(ctx, query,
		record.ID, record.StudentID, record.MenuID, record.MealType, record.TakenAt, record.Confirmed)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("student_id", record.StudentID.String()).
			Str("meal_type", record.MealType).
			Msg("failed to create meal record")
		return fmt.Errorf("failed to create meal record: %w", err)
	}

	return nil
}

// Confirm flips the confirmed flag.
func (r *mealRepository) Confirm(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE meal_records SET confirmed = true WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("record_id", id.String()).Msg("failed to confirm meal record")
		return false, fmt.Errorf("failed to confirm meal record: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListForDay lists the day's records with student names for the cook board.
func (r *mealRepository) ListForDay(ctx context.Context, day time.Time) ([]model.MealRecordDetail, error) {
	query := `
		SELECT mr.id, u.full_name, ms.meal_date, mr.meal_type, mr.taken_at, mr.confirmed
		FROM meal_records mr
		JOIN users u ON mr.student_id = u.id
		JOIN menu_sets ms ON mr.menu_id = ms.id
		WHERE mr.taken_at::date = $1::date
		ORDER BY mr.taken_at DESC
	`

	rows, err := r.pool.Query(ctx, query, day)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query meal records")
		return nil, fmt.Errorf("failed to query meal records: %w", err)
	}
	defer rows.Close()

	var records []model.MealRecordDetail
	for rows.Next() {
		var rec model.MealRecordDetail
		if err := rows.Scan(&rec.ID, &rec.StudentName, &rec.MealDate, &rec.MealType, &rec.TakenAt, &rec.Confirmed); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan meal record row")
			return nil, fmt.Errorf("failed to scan meal record: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating meal record rows")
		return nil, fmt.Errorf("error iterating meal records: %w", err)
	}

	return records, nil
}

// TakenTypesForDay lists the meal types the student took on the day.
func (r *mealRepository) TakenTypesForDay(ctx context.Context, studentID uuid.UUID, day time.Time) ([]string, error) {
	query := `
		SELECT meal_type FROM meal_records
		WHERE student_id = $1 AND taken_at::date = $2::date
	`

	rows, err := r.pool.Query(ctx, query, studentID, day)
	if err != nil {
		r.logger.Error().Err(err).Str("student_id", studentID.String()).Msg("failed to query taken meal types")
		return nil, fmt.Errorf("failed to query taken meal types: %w", err)
	}
	defer rows.Close()

	var types []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("failed to scan meal type: %w", err)
		}
		types = append(types, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating meal types: %w", err)
	}

	return types, nil
}

// MealsSince lists meal report rows taken at or after since.
func (r *mealRepository) MealsSince(ctx context.Context, since *time.Time, limit int) ([]model.MealReportRow, error) {
	query := `
		SELECT mr.student_id::text, u.full_name, mr.meal_type, ms.meal_date, mr.taken_at
		FROM meal_records mr
		JOIN users u ON mr.student_id = u.id
		JOIN menu_sets ms ON mr.menu_id = ms.id
		WHERE $1::timestamptz IS NULL OR mr.taken_at >= $1
		ORDER BY mr.taken_at
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, since, limit)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query meal report rows")
		return nil, fmt.Errorf("failed to query meal report rows: %w", err)
	}
	defer rows.Close()

	var result []model.MealReportRow
	for rows.Next() {
		var row model.MealReportRow
		if err := rows.Scan(&row.StudentID, &row.StudentName, &row.MealType, &row.MealDate, &row.TakenAt); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan meal report row")
			return nil, fmt.Errorf("failed to scan meal report row: %w", err)
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating meal report rows")
		return nil, fmt.Errorf("error iterating meal report rows: %w", err)
	}

	return result, nil
}

// CountDistinctStudents counts students who took any meal on the day.
func (r *mealRepository) CountDistinctStudents(ctx context.Context, day time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(DISTINCT student_id) FROM meal_records WHERE taken_at::date = $1::date`, day).Scan(&count)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to count attendance")
		return 0, fmt.Errorf("failed to count attendance: %w", err)
	}
	return count, nil
}

// CreatePreparedBatch inserts a prepared batch within the transaction.
func (r *mealRepository) CreatePreparedBatch(ctx context.Context, tx pgx.Tx, batch *model.PreparedBatch) error {
	query := `
		INSERT INTO prepared_dishes (id, dish_name, quantity, prepared_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := tx.Exec(ctx, query, batch.ID, batch.DishName, batch.Quantity, batch.PreparedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("dish", batch.DishName).
			Int("quantity", batch.Quantity).
			Msg("failed to create prepared batch")
		return fmt.Errorf("failed to create prepared batch: %w", err)
	}

	return nil
}

// PreparedTotals sums prepared portions per dish.
func (r *mealRepository) PreparedTotals(ctx context.Context) ([]model.PreparedTotal, error) {
	query := `
		SELECT dish_name, SUM(quantity)::int AS total
		FROM prepared_dishes
		GROUP BY dish_name
		ORDER BY dish_name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query prepared totals")
		return nil, fmt.Errorf("failed to query prepared totals: %w", err)
	}
	defer rows.Close()

	var totals []model.PreparedTotal
	for rows.Next() {
		var t model.PreparedTotal
		if err := rows.Scan(&t.DishName, &t.Total); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan prepared total row")
			return nil, fmt.Errorf("failed to scan prepared total: %w", err)
		}
		totals = append(totals, t)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating prepared total rows")
		return nil, fmt.Errorf("error iterating prepared totals: %w", err)
	}

	return totals, nil
}
