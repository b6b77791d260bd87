package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"himpunan-backend/internal/apperror"
	"himpunan-backend/internal/domain"
	"himpunan-backend/internal/security"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := NewAuthService(userRepo, security.NewTokenManager(testSecret, time.Hour, 24*time.Hour))
		userRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return u.Email == "budi@example.com" && u.Role == domain.RoleMember && u.IsActive &&
				security.CheckPassword(u.PasswordHash, "secret1")
		})).Return(nil)

		user, err := svc.Register(ctx, RegisterInput{Email: " Budi@Example.com ", Password: "secret1", FullName: "Budi"})
		require.NoError(t, err)
		assert.Equal(t, "budi@example.com", user.Email)
		userRepo.AssertExpectations(t)
	})

	t.Run("Short password", func(t *testing.T) {
		svc := NewAuthService(new(MockUserRepo), security.NewTokenManager(testSecret, 0, 0))
		_, err := svc.Register(ctx, RegisterInput{Email: "a@b.c", Password: "12345", FullName: "A"})
		assert.True(t, apperror.Is(err, apperror.KindValidation))
	})

	t.Run("Duplicate email", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := NewAuthService(userRepo, security.NewTokenManager(testSecret, 0, 0))
		userRepo.On("Create", ctx, mock.Anything).Return(apperror.Conflict("email is already registered"))

		_, err := svc.Register(ctx, RegisterInput{Email: "a@b.c", Password: "123456", FullName: "A"})
		assert.True(t, apperror.Is(err, apperror.KindConflict))
	})
}

func TestAuthService_LoginAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	hash, err := security.HashPassword("secret1")
	require.NoError(t, err)

	userRepo := new(MockUserRepo)
	svc := NewAuthService(userRepo, security.NewTokenManager(testSecret, time.Hour, 24*time.Hour))
	user := &domain.User{ID: 7, Email: "budi@example.com", PasswordHash: hash, IsActive: true}
	userRepo.On("GetByEmail", ctx, "budi@example.com").Return(user, nil)
	userRepo.On("GetByEmail", ctx, "nobody@example.com").Return(nil, apperror.NotFound("user not found"))
	userRepo.On("GetActor", ctx, int32(7)).Return(&domain.Actor{UserID: 7, Role: domain.RoleMember, OrganizationID: int32Ptr(1), IsActive: true}, nil)
	userRepo.On("GetByID", ctx, int32(7)).Return(user, nil)

	res, err := svc.Login(ctx, "budi@example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)

	actor, err := svc.Authenticate(ctx, res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int32(7), actor.UserID)
	assert.True(t, actor.BelongsTo(1))

	_, err = svc.Authenticate(ctx, res.RefreshToken)
	assert.True(t, apperror.Is(err, apperror.KindUnauthenticated), "refresh tokens are not access tokens")

	refreshed, err := svc.RefreshToken(ctx, res.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = svc.RefreshToken(ctx, res.AccessToken)
	assert.True(t, apperror.Is(err, apperror.KindUnauthenticated))

	_, err = svc.Login(ctx, "budi@example.com", "wrong")
	assert.Equal(t, ErrInvalidCredentials, err)

	_, err = svc.Login(ctx, "nobody@example.com", "secret1")
	assert.Equal(t, ErrInvalidCredentials, err)

	_, err = svc.Authenticate(ctx, "garbage")
	assert.True(t, apperror.Is(err, apperror.KindUnauthenticated))
}

func TestAuthService_DisabledAccount(t *testing.T) {
	ctx := context.Background()
	hash, err := security.HashPassword("secret1")
	require.NoError(t, err)

	userRepo := new(MockUserRepo)
	svc := NewAuthService(userRepo, security.NewTokenManager(testSecret, time.Hour, 24*time.Hour))
	userRepo.On("GetByEmail", ctx, "off@example.com").Return(&domain.User{ID: 9, PasswordHash: hash, IsActive: false}, nil)

	_, err = svc.Login(ctx, "off@example.com", "secret1")
	assert.True(t, apperror.Is(err, apperror.KindForbidden))
}
