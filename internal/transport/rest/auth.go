package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/verdd/verdd-backend/internal/domain"
	"github.com/verdd/verdd-backend/internal/service/auth"
	"github.com/verdd/verdd-backend/pkg/ctxutil"
)

// authService defines the minimal interface needed by AuthHandler.
type authService interface {
	Login(ctx context.Context, input auth.LoginInput) (auth.LoginResult, error)
}

// AuthHandler serves auth REST endpoints.
type AuthHandler struct {
	svc authService
	log *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(svc authService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, log: logger.With("handler", "auth")}
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type authResponse struct {
	AccessToken string       `json:"accessToken"`
	ExpiresAt   time.Time    `json:"expiresAt"`
	User        userResponse `json:"user"`
}

type userResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role"`
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	result, err := h.svc.Login(r.Context(), auth.LoginInput{
		Login:    req.Login,
		Password: req.Password,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{
		AccessToken: result.AccessToken,
		ExpiresAt:   result.ExpiresAt,
		User: userResponse{
			ID:       result.User.ID.String(),
			Email:    result.User.Email,
			Username: result.User.Username,
			Role:     result.User.Role.String(),
		},
	})
}

// Me handles GET /auth/me and echoes the identity carried by the token.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		handleError(h.log, w, r, domain.ErrUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{ID: userID.String(), Role: ctxutil.RoleFromCtx(r.Context())})
}
