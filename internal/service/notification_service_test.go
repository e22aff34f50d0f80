package service

import (
	"context"
	"testing"
	"time"

	"canteen/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_Mailbox_MarksAllRead(t *testing.T) {
	notif := new(MockNotificationRepository)
	svc := NewNotificationService(notif, zerolog.Nop())
	ctx := context.Background()
	userID := uuid.New()

	messages := []model.Notification{
		{ID: uuid.New(), UserID: userID, Message: "New purchase request", IsRead: false, CreatedAt: time.Now()},
		{ID: uuid.New(), UserID: userID, Message: "Older news", IsRead: true, CreatedAt: time.Now().Add(-time.Hour)},
	}

	notif.On("ListByUser", ctx, userID).Return(messages, nil)
	notif.On("MarkAllRead", ctx, userID).Return(nil)

	got, err := svc.Mailbox(ctx, userID)

	require.NoError(t, err)
	assert.Equal(t, messages, got)
	notif.AssertCalled(t, "MarkAllRead", ctx, userID)
}

func TestNotificationService_UnreadCount(t *testing.T) {
	notif := new(MockNotificationRepository)
	svc := NewNotificationService(notif, zerolog.Nop())
	ctx := context.Background()
	userID := uuid.New()

	notif.On("UnreadCount", ctx, userID).Return(3, nil)

	count, err := svc.UnreadCount(ctx, userID)

	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
