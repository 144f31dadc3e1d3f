package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/verdd/verdd-backend/internal/domain"
)

// CreateUser creates an account. There is no public registration: the
// verdd CLI is the only caller.
// Returns ErrAlreadyExists if the email or username is already taken.
func (s *Service) CreateUser(ctx context.Context, input CreateUserInput) (domain.User, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Username = strings.TrimSpace(input.Username)
	if input.Role == "" {
		input.Role = domain.RoleEditor
	}

	if err := input.Validate(); err != nil {
		return domain.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cfg.BcryptCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("auth.CreateUser hash password: %w", err)
	}

	now := time.Now().UTC()
	user, err := s.users.Create(ctx, domain.User{
		ID:           uuid.New(),
		Email:        input.Email,
		Username:     input.Username,
		PasswordHash: string(hash),
		Role:         input.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return domain.User{}, fmt.Errorf("auth.CreateUser: %w", domain.ErrAlreadyExists)
		}
		return domain.User{}, fmt.Errorf("auth.CreateUser: %w", err)
	}

	s.log.InfoContext(ctx, "user created",
		slog.String("user_id", user.ID.String()),
		slog.String("role", user.Role.String()),
	)

	user.PasswordHash = ""
	return user, nil
}
