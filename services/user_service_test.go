package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"rentals-api/domain"
	"rentals-api/dto"
	"rentals-api/utils"
)

func newTestUserService() (*mockUserRepository, *utils.TokenManager, UserService) {
	repo := newMockUserRepository()
	tokens := utils.NewTokenManager("test-secret", time.Hour)
	return repo, tokens, NewUserService(repo, tokens, zap.NewNop())
}

func registerRequest() dto.RegisterRequest {
	return dto.RegisterRequest{
		Email:     "Test@Example.com",
		Password:  "password123",
		FirstName: "Test",
		LastName:  "User",
	}
}

func TestRegister_Success(t *testing.T) {
	repo, tokens, service := newTestUserService()

	resp, err := service.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	assert.Equal(t, "test@example.com", resp.User.Email)
	assert.False(t, resp.User.IsHost)

	stored := repo.users[resp.User.ID]
	require.NotNil(t, stored)
	assert.NotEqual(t, "password123", stored.Password, "password should be hashed")

	claims, err := tokens.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	_, _, service := newTestUserService()
	_, err := service.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	_, err = service.Register(context.Background(), registerRequest())
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestRegister_ShortPassword(t *testing.T) {
	_, _, service := newTestUserService()
	req := registerRequest()
	req.Password = "short"

	_, err := service.Register(context.Background(), req)
	assert.True(t, domain.IsValidation(err))
}

func TestLogin(t *testing.T) {
	_, _, service := newTestUserService()
	_, err := service.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	resp, err := service.Login(context.Background(), dto.LoginRequest{Email: "test@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	_, err = service.Login(context.Background(), dto.LoginRequest{Email: "test@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = service.Login(context.Background(), dto.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestBecomeHost(t *testing.T) {
	repo, tokens, service := newTestUserService()
	reg, err := service.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	resp, err := service.BecomeHost(context.Background(), reg.User.ID)
	require.NoError(t, err)
	assert.True(t, resp.User.IsHost)
	assert.True(t, repo.users[reg.User.ID].IsHost)

	claims, err := tokens.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.True(t, claims.IsHost)

	me, err := service.Me(context.Background(), reg.User.ID)
	require.NoError(t, err)
	assert.True(t, me.IsHost)

	_, err = service.BecomeHost(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
