package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"canteen/internal/model"
	"canteen/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// tokenTTL is the lifetime of issued tokens.
const tokenTTL = 72 * time.Hour

// Claims is the JWT payload carried by every authenticated request.
type Claims struct {
	Role     string `json:"role"`
	FullName string `json:"name"`
	jwt.RegisteredClaims
}

// authService implements AuthService.
type authService struct {
	userRepo    repository.UserRepository
	accountRepo repository.AccountRepository
	jwtSecret   []byte
	logger      zerolog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(
	userRepo repository.UserRepository,
	accountRepo repository.AccountRepository,
	jwtSecret string,
	logger zerolog.Logger,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		accountRepo: accountRepo,
		jwtSecret:   []byte(jwtSecret),
		logger:      logger.With().Str("service", "auth").Logger(),
	}
}

// Register creates a student account with an empty profile.
func (s *authService) Register(ctx context.Context, req *model.RegisterRequest) (*model.LoginResponse, error) {
	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" || req.Password == "" {
		return nil, model.ErrInvalidCredentials
	}

	existing, err := s.userRepo.GetByName(ctx, fullName)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, model.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		FullName:     fullName,
		PasswordHash: string(hash),
		Role:         model.RoleStudent,
		CreatedAt:    time.Now(),
	}

	tx, err := s.userRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to register: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.userRepo.Create(ctx, tx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			err = model.ErrUserExists
			return nil, err
		}
		return nil, err
	}

	if err = s.accountRepo.CreateProfile(ctx, tx, user.ID); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to commit registration")
		return nil, fmt.Errorf("failed to register: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("student registered")

	return s.issueToken(user)
}

// Login verifies credentials and returns a signed token.
func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.userRepo.GetByName(ctx, strings.TrimSpace(req.FullName))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn().Str("user_id", user.ID.String()).Msg("failed login attempt")
		return nil, model.ErrInvalidCredentials
	}

	s.logger.Info().Str("user_id", user.ID.String()).Str("role", user.Role).Msg("user logged in")

	return s.issueToken(user)
}

// issueToken signs an HS256 token carrying the user's identity and role.
func (s *authService) issueToken(user *model.User) (*model.LoginResponse, error) {
	now := time.Now()
	claims := Claims{
		Role:     user.Role,
		FullName: user.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to sign token")
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &model.LoginResponse{Token: token, User: *user}, nil
}
