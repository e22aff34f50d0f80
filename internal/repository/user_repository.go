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

// userRepository implements the UserRepository interface using PostgreSQL.
type userRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(pool *pgxpool.Pool, logger zerolog.Logger) UserRepository {
	return &userRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "user").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *userRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// Create inserts a new user within the provided transaction.
func (r *userRepository) Create(ctx context.Context, tx pgx.Tx, user *model.User) error {
	query := `
		INSERT INTO users (id, full_name, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := tx.Exec(ctx, query, user.ID, user.FullName, user.PasswordHash, user.Role, user.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("full_name", user.FullName).Msg("failed to create user")
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByName retrieves a user by full name.
func (r *userRepository) GetByName(ctx context.Context, fullName string) (*model.User, error) {
	query := `
		SELECT id, full_name, password_hash, role, created_at
		FROM users
		WHERE full_name = $1
	`

	var u model.User
	err := r.pool.QueryRow(ctx, query, fullName).Scan(&u.ID, &u.FullName, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("full_name", fullName).Msg("user not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("full_name", fullName).Msg("failed to query user")
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &u, nil
}

// GetByID retrieves a user by ID.
func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `
		SELECT id, full_name, password_hash, role, created_at
		FROM users
		WHERE id = $1
	`

	var u model.User
	err := r.pool.QueryRow(ctx, query, id).Scan(&u.ID, &u.FullName, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", id.String()).Msg("failed to query user")
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &u, nil
}

// FirstByRole returns an arbitrary user holding the role.
func (r *userRepository) FirstByRole(ctx context.Context, role string) (*model.User, error) {
	query := `
		SELECT id, full_name, password_hash, role, created_at
		FROM users
		WHERE role = $1
		ORDER BY created_at
		LIMIT 1
	`

	var u model.User
	err := r.pool.QueryRow(ctx, query, role).Scan(&u.ID, &u.FullName, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("role", role).Msg("no user with role")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("role", role).Msg("failed to query user by role")
		return nil, fmt.Errorf("failed to query user by role: %w", err)
	}

	return &u, nil
}

// ListByRoles lists users holding any of the given roles.
func (r *userRepository) ListByRoles(ctx context.Context, roles []string) ([]model.User, error) {
	query := `
		SELECT id, full_name, password_hash, role, created_at
		FROM users
		WHERE role = ANY($1)
		ORDER BY role, full_name
	`

	rows, err := r.pool.Query(ctx, query, roles)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query users by roles")
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.FullName, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan user row")
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating user rows")
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// CountByRole counts users holding the role.
func (r *userRepository) CountByRole(ctx context.Context, role string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, role).Scan(&count)
	if err != nil {
		r.logger.Error().Err(err).Str("role", role).Msg("failed to count users")
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
