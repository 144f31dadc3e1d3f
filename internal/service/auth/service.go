// Package auth implements editor login and account creation.
package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/verdd/verdd-backend/internal/auth"
	"github.com/verdd/verdd-backend/internal/config"
	"github.com/verdd/verdd-backend/internal/domain"
)

// userRepo defines the user repository interface needed by auth service.
type userRepo interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, u domain.User) (domain.User, error)
}

// tokenManager defines the token operations needed by auth service.
type tokenManager interface {
	Issue(u domain.User) (string, time.Time, error)
	Verify(token string) (auth.Claims, error)
}

// Service implements auth operations.
type Service struct {
	log    *slog.Logger
	users  userRepo
	tokens tokenManager
	cfg    config.AuthConfig
}

// NewService creates a new auth service instance.
func NewService(logger *slog.Logger, users userRepo, tokens tokenManager, cfg config.AuthConfig) *Service {
	return &Service{
		log:    logger.With("service", "auth"),
		users:  users,
		tokens: tokens,
		cfg:    cfg,
	}
}

// LoginResult is returned by Login.
type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	User        domain.User
}

// ValidateToken verifies an access token and returns the user id and role.
// Used by the auth middleware.
func (s *Service) ValidateToken(_ context.Context, token string) (uuid.UUID, domain.Role, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return uuid.Nil, "", domain.ErrUnauthorized
	}
	return claims.UserID, claims.Role, nil
}
