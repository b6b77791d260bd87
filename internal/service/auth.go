package service

import (
	"context"
	"errors"
	"strings"

	"himpunan-backend/internal/apperror"
	"himpunan-backend/internal/domain"
	"himpunan-backend/internal/logger"
	"himpunan-backend/internal/security"
	"himpunan-backend/internal/repository"
)

const minPasswordLength = 6

var (
	ErrInvalidCredentials = apperror.Unauthenticated("invalid email or password")
	ErrInvalidToken       = apperror.Unauthenticated("invalid or expired token")
	ErrAccountDisabled    = apperror.Forbidden("account is disabled")
)

type authService struct {
	userRepo repository.UserRepository
	tokens   security.TokenManager
}

func NewAuthService(userRepo repository.UserRepository, tokens security.TokenManager) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	logger.EnterMethod("authService.Register", "email", in.Email)

	user, err := newAccount(in, domain.RoleMember)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		logger.ExitMethodWithError("authService.Register", err, "email", user.Email)
		return nil, err
	}

	logger.Info("User registered", "userID", user.ID, "email", user.Email)
	logger.ExitMethod("authService.Register", "userID", user.ID)
	return user, nil
}

// newAccount validates the registration fields and builds an active,
// unaffiliated account with the given role.
func newAccount(in RegisterInput, role domain.Role) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return nil, apperror.Validation("email is required")
	}
	if strings.TrimSpace(in.FullName) == "" {
		return nil, apperror.Validation("full name is required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, apperror.Validation("password must be at least 6 characters")
	}

	hash, err := security.HashPassword(in.Password)
	if err != nil {
		return nil, apperror.Wrap(err, "failed to hash password")
	}
	return &domain.User{
		Email:            email,
		Username:         strings.TrimSpace(in.Username),
		FullName:         strings.TrimSpace(in.FullName),
		PasswordHash:     hash,
		PhoneNumber:      in.PhoneNumber,
		Role:             role,
		MembershipStatus: domain.MembershipInactive,
		IsActive:         true,
	}, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	logger.EnterMethod("authService.Login", "email", email)

	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !security.CheckPassword(user.PasswordHash, password) {
		logger.Warn("Login failed", "userID", user.ID)
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	res, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	logger.ExitMethod("authService.Login", "userID", user.ID)
	return res, nil
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.tokens.ValidateToken(refreshToken)
	if err != nil {
		return nil, tokenError(err)
	}
	if claims.Type != security.TokenTypeRefresh {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	return s.issue(user)
}

// Authenticate re-reads role, affiliation and admin status on every call so a
// token never outlives a membership change.
func (s *authService) Authenticate(ctx context.Context, accessToken string) (*domain.Actor, error) {
	claims, err := s.tokens.ValidateToken(accessToken)
	if err != nil {
		return nil, tokenError(err)
	}
	if claims.Type != security.TokenTypeAccess {
		return nil, ErrInvalidToken
	}

	actor, err := s.userRepo.GetActor(ctx, claims.UserID)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !actor.IsActive {
		return nil, ErrAccountDisabled
	}
	return actor, nil
}

func (s *authService) issue(user *domain.User) (*AuthResult, error) {
	access, err := s.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, apperror.Wrap(err, "failed to sign access token")
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, apperror.Wrap(err, "failed to sign refresh token")
	}
	return &AuthResult{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

func tokenError(err error) error {
	if errors.Is(err, security.ErrExpiredToken) {
		return apperror.Unauthenticated("token has expired")
	}
	return ErrInvalidToken
}
