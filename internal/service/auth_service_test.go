package service

import (
	"context"
	"testing"

	"canteen/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test-secret"

func newAuthService(t *testing.T) (AuthService, *MockUserRepository, *MockAccountRepository) {
	t.Helper()
	user := new(MockUserRepository)
	account := new(MockAccountRepository)
	svc := NewAuthService(user, account, testJWTSecret, zerolog.Nop())
	return svc, user, account
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, user, account := newAuthService(t)
	ctx := context.Background()
	mockTx := new(MockTx)

	user.On("GetByName", ctx, "Oliver Bennett").Return(nil, nil)
	user.On("BeginTx", ctx).Return(mockTx, nil)
	user.On("Create", ctx, mockTx, mock.MatchedBy(func(u *model.User) bool {
		return u.FullName == "Oliver Bennett" && u.Role == model.RoleStudent
	})).Return(nil)
	account.On("CreateProfile", ctx, mockTx, mock.AnythingOfType("uuid.UUID")).Return(nil)
	mockTx.On("Commit", ctx).Return(nil)

	resp, err := svc.Register(ctx, &model.RegisterRequest{
		FullName: "  Oliver Bennett  ",
		Password: "secret",
	})

	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, model.RoleStudent, resp.User.Role)

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(resp.Token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, model.RoleStudent, claims.Role)
	assert.Equal(t, "Oliver Bennett", claims.FullName)
	assert.Equal(t, resp.User.ID.String(), claims.Subject)
}

func TestAuthService_Register_DuplicateName(t *testing.T) {
	svc, user, _ := newAuthService(t)
	ctx := context.Background()

	user.On("GetByName", ctx, "Oliver Bennett").Return(&model.User{
		ID:       uuid.New(),
		FullName: "Oliver Bennett",
		Role:     model.RoleStudent,
	}, nil)

	_, err := svc.Register(ctx, &model.RegisterRequest{FullName: "Oliver Bennett", Password: "x"})

	assert.ErrorIs(t, err, model.ErrUserExists)
	user.AssertNotCalled(t, "BeginTx", mock.Anything)
}

func TestAuthService_Register_MissingFields(t *testing.T) {
	svc, _, _ := newAuthService(t)

	_, err := svc.Register(context.Background(), &model.RegisterRequest{FullName: "  ", Password: ""})

	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, user, _ := newAuthService(t)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)

	user.On("GetByName", ctx, "Victor Stone").Return(&model.User{
		ID:           uuid.New(),
		FullName:     "Victor Stone",
		PasswordHash: string(hash),
		Role:         model.RoleCook,
	}, nil)

	resp, err := svc.Login(ctx, &model.LoginRequest{FullName: "Victor Stone", Password: "secret"})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, model.RoleCook, resp.User.Role)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, user, _ := newAuthService(t)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)

	user.On("GetByName", ctx, "Victor Stone").Return(&model.User{
		ID:           uuid.New(),
		FullName:     "Victor Stone",
		PasswordHash: string(hash),
		Role:         model.RoleCook,
	}, nil)

	_, err = svc.Login(ctx, &model.LoginRequest{FullName: "Victor Stone", Password: "wrong"})

	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc, user, _ := newAuthService(t)
	ctx := context.Background()

	user.On("GetByName", ctx, "Nobody").Return(nil, nil)

	_, err := svc.Login(ctx, &model.LoginRequest{FullName: "Nobody", Password: "x"})

	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}
