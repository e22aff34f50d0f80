package service

import (
	"context"

	"canteen/internal/model"
	"canteen/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// notificationService implements NotificationService.
type notificationService struct {
	notifRepo repository.NotificationRepository
	logger    zerolog.Logger
}

// NewNotificationService creates a new notification service.
func NewNotificationService(notifRepo repository.NotificationRepository, logger zerolog.Logger) NotificationService {
	return &notificationService{
		notifRepo: notifRepo,
		logger:    logger.With().Str("service", "notification").Logger(),
	}
}

// Mailbox returns the user's messages and marks them all read. The returned
// list still carries the pre-view read flags so the client can highlight
// what is new.
func (s *notificationService) Mailbox(ctx context.Context, userID uuid.UUID) ([]model.Notification, error) {
	notifications, err := s.notifRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.notifRepo.MarkAllRead(ctx, userID); err != nil {
		return nil, err
	}

	return notifications, nil
}

// UnreadCount counts unread messages.
func (s *notificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.notifRepo.UnreadCount(ctx, userID)
}

// Delete removes a message owned by the user.
func (s *notificationService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return s.notifRepo.Delete(ctx, id, userID)
}
