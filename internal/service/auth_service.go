package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"lastleaf-be/internal/apperrors"
	"lastleaf-be/internal/entities"
	"lastleaf-be/internal/models"
	"lastleaf-be/internal/password"
	"lastleaf-be/internal/repository"
)

const invalidCredentialsMessage = "Invalid email or password"

// AuthResult is an authenticated user together with a fresh session token.
type AuthResult struct {
	User  *entities.User
	Token string
}

// AuthService defines the interface for authentication business logic
type AuthService interface {
	Signup(ctx context.Context, req *models.SignupRequest) (*AuthResult, error)
	Login(ctx context.Context, req *models.LoginRequest) (*AuthResult, error)
	Logout(ctx context.Context, token string)
}

type authService struct {
	userRepo repository.UserRepository
	sessions SessionService
	log      *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository, sessions SessionService, log *zap.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		sessions: sessions,
		log:      log,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup creates a new account and logs it in
func (s *authService) Signup(ctx context.Context, req *models.SignupRequest) (*AuthResult, error) {
	email := normalizeEmail(req.Email)
	nickname := strings.TrimSpace(req.Nickname)
	if nickname == "" {
		return nil, apperrors.Validation("Nickname is required")
	}
	if req.Password != req.PasswordConfirm {
		return nil, apperrors.Validation("Passwords do not match")
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	// Check if user already exists
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, apperrors.Conflict("Email already registered")
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Internal(err)
	}

	user, err := s.userRepo.Create(ctx, &entities.User{
		Email:        email,
		PasswordHash: &hashed,
		Nickname:     nickname,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, apperrors.Conflict("Email already registered")
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	token, err := s.sessions.Issue(user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Login authenticates a user with email and password
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*AuthResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Unauthorized(invalidCredentialsMessage)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	// Accounts created through Google have no password to check against
	if user.PasswordHash == nil {
		return nil, apperrors.Unauthorized(invalidCredentialsMessage)
	}

	ok, err := password.Verify(req.Password, *user.PasswordHash)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if !ok {
		return nil, apperrors.Unauthorized(invalidCredentialsMessage)
	}

	if at, ok := touchLastActive(ctx, s.userRepo, s.log, user.ID); ok {
		user.LastActiveAt = at
	}

	token, err := s.sessions.Issue(user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Logout revokes the session token. Failures are logged, never returned.
func (s *authService) Logout(ctx context.Context, token string) {
	if err := s.sessions.Revoke(ctx, token); err != nil {
		s.log.Warn("failed to revoke session token", zap.Error(err))
	}
}

// touchLastActive records user activity; failure is logged and swallowed.
func touchLastActive(ctx context.Context, users repository.UserRepository, log *zap.Logger, userID string) (time.Time, bool) {
	at, err := users.TouchLastActive(ctx, userID)
	if err != nil {
		log.Warn("failed to update last activity", zap.String("user_id", userID), zap.Error(err))
		return time.Time{}, false
	}
	return at, true
}
