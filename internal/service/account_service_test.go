package service

import (
	"context"
	"testing"

	"canteen/internal/cardvault"
	"canteen/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testVault(t *testing.T) *cardvault.Vault {
	t.Helper()
	vault, err := cardvault.New(make([]byte, 32), zerolog.Nop())
	require.NoError(t, err)
	return vault
}

func TestParseTopUpAmount(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{name: "plain", raw: "250", want: 250},
		{name: "decimal comma", raw: "99,90", want: 99.9},
		{name: "garbage defaults", raw: "lots", want: 100},
		{name: "empty defaults", raw: "", want: 100},
		{name: "zero defaults", raw: "0", want: 100},
		{name: "negative defaults", raw: "-50", want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseTopUpAmount(tt.raw))
		})
	}
}

func TestAccountService_TopUp_Success(t *testing.T) {
	account := new(MockAccountRepository)
	svc := NewAccountService(account, testVault(t), zerolog.Nop())
	ctx := context.Background()
	studentID := uuid.New()
	mockTx := new(MockTx)

	account.On("BeginTx", ctx).Return(mockTx, nil)
	account.On("StoreCard", ctx, mockTx, studentID, mock.AnythingOfType("string"), "12/27").Return(nil)
	account.On("AdjustBalance", ctx, mockTx, studentID, 250.0).Return(nil)
	account.On("CreatePayment", ctx, mockTx, mock.MatchedBy(func(p *model.Payment) bool {
		return p.Amount == 250.0 && p.PaymentType == model.PaymentOneTime
	})).Return(nil)
	mockTx.On("Commit", ctx).Return(nil)
	account.On("GetProfile", ctx, studentID).Return(&model.StudentProfile{
		UserID:  studentID,
		Balance: 250,
	}, nil)

	profile, err := svc.TopUp(ctx, studentID, &model.TopUpRequest{
		Amount:     "250",
		CardNumber: "1234 5678 1234 5678",
		Expiry:     "12/27",
		CVV:        "123",
	})

	require.NoError(t, err)
	assert.Equal(t, 250.0, profile.Balance)
	assert.True(t, mockTx.committed)
	account.AssertExpectations(t)
}

func TestAccountService_TopUp_GarbageAmountDefaults(t *testing.T) {
	account := new(MockAccountRepository)
	svc := NewAccountService(account, testVault(t), zerolog.Nop())
	ctx := context.Background()
	studentID := uuid.New()
	mockTx := new(MockTx)

	account.On("BeginTx", ctx).Return(mockTx, nil)
	account.On("StoreCard", ctx, mockTx, studentID, mock.AnythingOfType("string"), "").Return(nil)
	account.On("AdjustBalance", ctx, mockTx, studentID, 100.0).Return(nil)
	account.On("CreatePayment", ctx, mockTx, mock.AnythingOfType("*model.Payment")).Return(nil)
	mockTx.On("Commit", ctx).Return(nil)
	account.On("GetProfile", ctx, studentID).Return(&model.StudentProfile{
		UserID:  studentID,
		Balance: 100,
	}, nil)

	_, err := svc.TopUp(ctx, studentID, &model.TopUpRequest{Amount: "not-a-number"})

	require.NoError(t, err)
	account.AssertCalled(t, "AdjustBalance", ctx, mockTx, studentID, 100.0)
}

func TestAccountService_Profile_MasksStoredCard(t *testing.T) {
	vault := testVault(t)
	account := new(MockAccountRepository)
	svc := NewAccountService(account, vault, zerolog.Nop())
	ctx := context.Background()
	studentID := uuid.New()

	encrypted, err := vault.EncryptCardNumber("1234 5678 1234 5678")
	require.NoError(t, err)

	account.On("GetProfile", ctx, studentID).Return(&model.StudentProfile{
		UserID:              studentID,
		Balance:             40,
		EncryptedCardNumber: &encrypted,
	}, nil)
	account.On("ActiveSubscriptionOn", ctx, studentID, mock.AnythingOfType("time.Time")).Return(nil, nil)

	view, err := svc.Profile(ctx, studentID)

	require.NoError(t, err)
	assert.Equal(t, "**** **** **** 5678", view.MaskedCard)
	assert.Nil(t, view.Subscription)
}

func TestAccountService_Profile_NotFound(t *testing.T) {
	account := new(MockAccountRepository)
	svc := NewAccountService(account, testVault(t), zerolog.Nop())
	ctx := context.Background()
	studentID := uuid.New()

	account.On("GetProfile", ctx, studentID).Return(nil, nil)

	_, err := svc.Profile(ctx, studentID)

	assert.ErrorIs(t, err, model.ErrRecordNotFound)
}
