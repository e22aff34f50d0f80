package service

import (
	"context"
	"fmt"
	"time"

	"canteen/internal/model"
	"canteen/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// subscriptionTier holds the price and window length of one duration.
type subscriptionTier struct {
	price decimal.Decimal
	days  int
}

// subscriptionTiers maps durations to their tier.
var subscriptionTiers = map[string]subscriptionTier{
	model.DurationWeek:  {price: decimal.NewFromInt(300), days: 7},
	model.DurationMonth: {price: decimal.NewFromInt(1000), days: 30},
	model.DurationYear:  {price: decimal.NewFromInt(10000), days: 365},
}

// subscriptionService implements SubscriptionService.
type subscriptionService struct {
	accountRepo repository.AccountRepository
	notifRepo   repository.NotificationRepository
	logger      zerolog.Logger
}

// NewSubscriptionService creates a new subscription service.
func NewSubscriptionService(
	accountRepo repository.AccountRepository,
	notifRepo repository.NotificationRepository,
	logger zerolog.Logger,
) SubscriptionService {
	return &subscriptionService{
		accountRepo: accountRepo,
		notifRepo:   notifRepo,
		logger:      logger.With().Str("service", "subscription").Logger(),
	}
}

// Purchase debits the tier price and opens a subscription window. When an
// active subscription exists the new window starts at its end date, so the
// new end lands exactly tier-days after the prior end.
func (s *subscriptionService) Purchase(ctx context.Context, studentID uuid.UUID, duration string) (*model.Subscription, error) {
	tier, ok := subscriptionTiers[duration]
	if !ok {
		return nil, model.ErrInvalidDuration
	}

	today := time.Now()

	start := today
	priorEnd, err := s.accountRepo.LatestActiveEndDate(ctx, studentID, today)
	if err != nil {
		return nil, err
	}
	if priorEnd != nil {
		start = *priorEnd
	}

	tx, err := s.accountRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to purchase subscription: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	balance, err := s.accountRepo.BalanceForUpdate(ctx, tx, studentID)
	if err != nil {
		return nil, err
	}

	price, _ := tier.price.Float64()
	if decimal.NewFromFloat(balance).LessThan(tier.price) {
		err = model.NewInsufficientBalanceError(price, balance)
		return nil, err
	}

	if err = s.accountRepo.AdjustBalance(ctx, tx, studentID, -price); err != nil {
		return nil, err
	}

	payment := &model.Payment{
		ID:          uuid.New(),
		StudentID:   studentID,
		Amount:      price,
		PaymentType: model.PaymentSubscription,
		Description: fmt.Sprintf("Subscription: %s", duration),
		CreatedAt:   time.Now(),
	}
	if err = s.accountRepo.CreatePayment(ctx, tx, payment); err != nil {
		return nil, err
	}

	sub := &model.Subscription{
		ID:        uuid.New(),
		StudentID: studentID,
		Duration:  duration,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, tier.days),
		Status:    "active",
		CreatedAt: time.Now(),
	}
	if err = s.accountRepo.CreateSubscription(ctx, tx, sub); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to commit subscription purchase")
		return nil, fmt.Errorf("failed to purchase subscription: %w", err)
	}

	s.logger.Info().
		Str("student_id", studentID.String()).
		Str("duration", duration).
		Time("end_date", sub.EndDate).
		Msg("subscription purchased")

	msg := fmt.Sprintf("Your %s subscription is active until %s", duration, sub.EndDate.Format("2006-01-02"))
	if nErr := s.notifRepo.Create(ctx, studentID, msg); nErr != nil {
		s.logger.Warn().Err(nErr).Msg("failed to notify student")
	}

	return sub, nil
}
