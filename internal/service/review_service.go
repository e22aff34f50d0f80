package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"canteen/internal/model"
	"canteen/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// reviewService implements ReviewService.
type reviewService struct {
	reviewRepo  repository.ReviewRepository
	catalogRepo repository.CatalogRepository
	userRepo    repository.UserRepository
	notifRepo   repository.NotificationRepository
	logger      zerolog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	catalogRepo repository.CatalogRepository,
	userRepo repository.UserRepository,
	notifRepo repository.NotificationRepository,
	logger zerolog.Logger,
) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		catalogRepo: catalogRepo,
		userRepo:    userRepo,
		notifRepo:   notifRepo,
		logger:      logger.With().Str("service", "review").Logger(),
	}
}

// Submit stores a review and notifies the kitchen and administration.
func (s *reviewService) Submit(ctx context.Context, studentID uuid.UUID, studentName string, req *model.ReviewRequest) (*model.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, model.ErrInvalidRating
	}

	dish, err := s.catalogRepo.GetDish(ctx, strings.TrimSpace(req.DishName))
	if err != nil {
		return nil, err
	}
	if dish == nil {
		return nil, model.ErrDishNotFound
	}

	review := &model.Review{
		ID:        uuid.New(),
		StudentID: studentID,
		DishName:  dish.Name,
		Rating:    req.Rating,
		Comment:   strings.TrimSpace(req.Comment),
		CreatedAt: time.Now(),
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("student_id", studentID.String()).
		Str("dish", dish.Name).
		Int("rating", req.Rating).
		Msg("review submitted")

	msg := fmt.Sprintf("%s rated %q %d/5", studentName, dish.Name, req.Rating)
	for _, role := range []string{model.RoleAdmin, model.RoleCook} {
		recipient, rErr := s.userRepo.FirstByRole(ctx, role)
		if rErr != nil || recipient == nil {
			continue
		}
		if nErr := s.notifRepo.Create(ctx, recipient.ID, msg); nErr != nil {
			s.logger.Warn().Err(nErr).Str("role", role).Msg("failed to notify about review")
		}
	}

	return review, nil
}

// ListByStudent lists a student's reviews.
func (s *reviewService) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]model.Review, error) {
	return s.reviewRepo.ListByStudent(ctx, studentID)
}
