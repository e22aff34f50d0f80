package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"canteen/internal/cardvault"
	"canteen/internal/model"
	"canteen/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// defaultTopUpAmount is credited when the submitted amount is unusable.
const defaultTopUpAmount = 100

// accountService implements AccountService.
type accountService struct {
	accountRepo repository.AccountRepository
	vault       *cardvault.Vault
	logger      zerolog.Logger
}

// NewAccountService creates a new account service.
func NewAccountService(
	accountRepo repository.AccountRepository,
	vault *cardvault.Vault,
	logger zerolog.Logger,
) AccountService {
	return &accountService{
		accountRepo: accountRepo,
		vault:       vault,
		logger:      logger.With().Str("service", "account").Logger(),
	}
}

// TopUp credits the balance and stores the submitted card encrypted. The CVV
// is accepted from the form and discarded.
func (s *accountService) TopUp(ctx context.Context, studentID uuid.UUID, req *model.TopUpRequest) (*model.StudentProfile, error) {
	amount := parseTopUpAmount(req.Amount)

	encrypted, err := s.vault.EncryptCardNumber(req.CardNumber)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to encrypt card number")
		return nil, fmt.Errorf("failed to top up: %w", err)
	}

	tx, err := s.accountRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to top up: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.accountRepo.StoreCard(ctx, tx, studentID, encrypted, strings.TrimSpace(req.Expiry)); err != nil {
		return nil, err
	}

	if err = s.accountRepo.AdjustBalance(ctx, tx, studentID, amount); err != nil {
		return nil, err
	}

	payment := &model.Payment{
		ID:          uuid.New(),
		StudentID:   studentID,
		Amount:      amount,
		PaymentType: model.PaymentOneTime,
		Description: "Balance top-up",
		CreatedAt:   time.Now(),
	}
	if err = s.accountRepo.CreatePayment(ctx, tx, payment); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to commit top-up")
		return nil, fmt.Errorf("failed to top up: %w", err)
	}

	s.logger.Info().
		Str("student_id", studentID.String()).
		Float64("amount", amount).
		Msg("balance topped up")

	return s.accountRepo.GetProfile(ctx, studentID)
}

// Profile returns the profile view with the active subscription and the
// masked stored card.
func (s *accountService) Profile(ctx context.Context, userID uuid.UUID) (*model.ProfileView, error) {
	profile, err := s.accountRepo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, model.ErrRecordNotFound
	}

	view := &model.ProfileView{Profile: *profile}

	sub, err := s.accountRepo.ActiveSubscriptionOn(ctx, userID, time.Now())
	if err != nil {
		return nil, err
	}
	view.Subscription = sub

	if profile.EncryptedCardNumber != nil {
		number, dErr := s.vault.DecryptCardNumber(*profile.EncryptedCardNumber)
		if dErr != nil {
			s.logger.Warn().Err(dErr).Str("user_id", userID.String()).Msg("stored card cannot be decrypted")
		} else if len(number) >= 4 {
			view.MaskedCard = "**** **** **** " + number[len(number)-4:]
		}
	}

	return view, nil
}

// UpdateTags updates the allergy and preference tags.
func (s *accountService) UpdateTags(ctx context.Context, userID uuid.UUID, req *model.ProfileUpdateRequest) error {
	return s.accountRepo.UpdateTags(ctx, userID,
		strings.TrimSpace(req.Allergies), strings.TrimSpace(req.Preferences))
}

// parseTopUpAmount parses the submitted amount, substituting the default for
// garbage or non-positive values.
func parseTopUpAmount(raw string) float64 {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value <= 0 {
		return defaultTopUpAmount
	}
	amount, _ := decimal.NewFromFloat(value).Round(2).Float64()
	return amount
}
