package service

import (
	"context"
	"testing"

	"canteen/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newReviewService(t *testing.T) (ReviewService, *MockReviewRepository, *MockCatalogRepository, *MockUserRepository, *MockNotificationRepository) {
	t.Helper()
	review := new(MockReviewRepository)
	catalog := new(MockCatalogRepository)
	user := new(MockUserRepository)
	notif := new(MockNotificationRepository)
	svc := NewReviewService(review, catalog, user, notif, zerolog.Nop())
	return svc, review, catalog, user, notif
}

func TestReviewService_Submit_InvalidRating(t *testing.T) {
	svc, review, _, _, _ := newReviewService(t)

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Submit(context.Background(), uuid.New(), "Oliver Bennett", &model.ReviewRequest{
			DishName: "Borscht",
			Rating:   rating,
		})
		assert.ErrorIs(t, err, model.ErrInvalidRating)
	}
	review.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestReviewService_Submit_UnknownDish(t *testing.T) {
	svc, _, catalog, _, _ := newReviewService(t)
	ctx := context.Background()

	catalog.On("GetDish", ctx, "Pizza").Return(nil, nil)

	_, err := svc.Submit(ctx, uuid.New(), "Oliver Bennett", &model.ReviewRequest{
		DishName: "Pizza",
		Rating:   5,
	})

	assert.ErrorIs(t, err, model.ErrDishNotFound)
}

func TestReviewService_Submit_NotifiesKitchenAndAdmin(t *testing.T) {
	svc, review, catalog, user, notif := newReviewService(t)
	ctx := context.Background()
	studentID := uuid.New()
	admin := &model.User{ID: uuid.New(), Role: model.RoleAdmin}
	cook := &model.User{ID: uuid.New(), Role: model.RoleCook}

	catalog.On("GetDish", ctx, "Borscht").Return(&model.Dish{Name: "Borscht", Price: 60}, nil)
	review.On("Create", ctx, mock.MatchedBy(func(r *model.Review) bool {
		return r.StudentID == studentID && r.Rating == 4 && r.DishName == "Borscht"
	})).Return(nil)
	user.On("FirstByRole", ctx, model.RoleAdmin).Return(admin, nil)
	user.On("FirstByRole", ctx, model.RoleCook).Return(cook, nil)
	notif.On("Create", ctx, admin.ID, mock.AnythingOfType("string")).Return(nil)
	notif.On("Create", ctx, cook.ID, mock.AnythingOfType("string")).Return(nil)

	got, err := svc.Submit(ctx, studentID, "Oliver Bennett", &model.ReviewRequest{
		DishName: "Borscht",
		Rating:   4,
		Comment:  "  Rich and hearty  ",
	})

	require.NoError(t, err)
	assert.Equal(t, "Rich and hearty", got.Comment)
	notif.AssertExpectations(t)
}
