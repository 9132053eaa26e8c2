package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"lastleaf-be/internal/apperrors"
	"lastleaf-be/internal/cache"
	"lastleaf-be/internal/entities"
	"lastleaf-be/internal/jwt"
)

// SessionService issues, verifies and revokes session tokens
type SessionService interface {
	Issue(user *entities.User) (string, error)
	Authenticate(ctx context.Context, token string) (*jwt.Claims, error)
	Revoke(ctx context.Context, token string) error
}

type sessionService struct {
	jwtService *jwt.JWTService
	cache      cache.Cache
	log        *zap.Logger
	now        func() time.Time
}

// NewSessionService creates a session service. cacheClient may be nil, in
// which case tokens stay valid until they expire.
func NewSessionService(jwtService *jwt.JWTService, cacheClient cache.Cache, log *zap.Logger) SessionService {
	return &sessionService{
		jwtService: jwtService,
		cache:      cacheClient,
		log:        log,
		now:        time.Now,
	}
}

func revokedKey(tokenID string) string {
	return "session:revoked:" + tokenID
}

func (s *sessionService) Issue(user *entities.User) (string, error) {
	token, err := s.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		return "", apperrors.Internal(err)
	}
	return token, nil
}

// Authenticate verifies the token and rejects revoked ones. A Redis outage
// does not lock users out; it is logged and the token is accepted.
func (s *sessionService) Authenticate(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized("Unauthorized")
	}

	if s.cache != nil && claims.ID != "" {
		revoked, err := s.cache.Exists(ctx, revokedKey(claims.ID))
		if err != nil {
			s.log.Warn("revocation lookup failed", zap.String("user_id", claims.UserID), zap.Error(err))
		} else if revoked {
			return nil, apperrors.Unauthorized("Unauthorized")
		}
	}

	return claims, nil
}

// Revoke denylists the token until it would have expired anyway.
// Invalid or already expired tokens need no revocation.
func (s *sessionService) Revoke(ctx context.Context, token string) error {
	if s.cache == nil || token == "" {
		return nil
	}

	claims, err := s.jwtService.ValidateToken(token)
	if err != nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}

	ttl := claims.ExpiresAt.Time.Sub(s.now())
	if ttl <= 0 {
		return nil
	}

	return s.cache.Set(ctx, revokedKey(claims.ID), claims.UserID, ttl)
}
