package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/verdd/verdd-backend/internal/domain"
)

// Login authenticates a user with email or username and password.
// Returns ErrUnauthorized if the user is not found or the password is wrong.
func (s *Service) Login(ctx context.Context, input LoginInput) (LoginResult, error) {
	input.Login = strings.TrimSpace(input.Login)

	if err := input.Validate(); err != nil {
		return LoginResult{}, err
	}

	var (
		user *domain.User
		err  error
	)
	if strings.Contains(input.Login, "@") {
		user, err = s.users.GetByEmail(ctx, input.Login)
	} else {
		user, err = s.users.GetByUsername(ctx, input.Login)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return LoginResult{}, domain.ErrUnauthorized
		}
		return LoginResult{}, fmt.Errorf("auth.Login get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return LoginResult{}, domain.ErrUnauthorized
	}

	token, expires, err := s.tokens.Issue(*user)
	if err != nil {
		return LoginResult{}, fmt.Errorf("auth.Login issue token: %w", err)
	}

	s.log.InfoContext(ctx, "user logged in",
		slog.String("user_id", user.ID.String()),
		slog.String("role", user.Role.String()),
	)

	user.PasswordHash = ""
	return LoginResult{AccessToken: token, ExpiresAt: expires, User: *user}, nil
}
