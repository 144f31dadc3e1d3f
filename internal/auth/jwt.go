// Package auth issues and verifies editor access tokens.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/verdd/verdd-backend/internal/domain"
)

// ErrInvalidToken is returned for any token that fails verification.
var ErrInvalidToken = errors.New("invalid token")

// JWTManager signs and verifies HS256 access tokens.
type JWTManager struct {
	secret    []byte
	issuer    string
	accessTTL time.Duration
	now       func() time.Time
}

// NewJWTManager creates a new JWT manager.
// secret must be at least 32 characters for HS256 security.
func NewJWTManager(secret string, issuer string, accessTTL time.Duration) *JWTManager {
	return &JWTManager{
		secret:    []byte(secret),
		issuer:    issuer,
		accessTTL: accessTTL,
		now:       time.Now,
	}
}

// Claims is the verified content of an access token.
type Claims struct {
	UserID    uuid.UUID
	Username  string
	Role      domain.Role
	ExpiresAt time.Time
}

type accessClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username,omitempty"`
	Role     string `json:"role"`
}

// Issue creates a signed token for the user. The user's role travels in
// the token so requests need no database lookup.
func (m *JWTManager) Issue(u domain.User) (string, time.Time, error) {
	now := m.now()
	expires := now.Add(m.accessTTL)
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			Issuer:    m.issuer,
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Username: u.Username,
		Role:     string(u.Role),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expires, nil
}

// Verify parses and validates a token.
func (m *JWTManager) Verify(tokenString string) (Claims, error) {
	if tokenString == "" {
		return Claims{}, fmt.Errorf("%w: empty", ErrInvalidToken)
	}

	token, err := jwt.ParseWithClaims(tokenString, &accessClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*accessClaims)
	if !ok || !token.Valid {
		return Claims{}, fmt.Errorf("%w: bad claims", ErrInvalidToken)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: subject: %v", ErrInvalidToken, err)
	}
	role := domain.Role(claims.Role)
	if !role.IsValid() {
		return Claims{}, fmt.Errorf("%w: role %q", ErrInvalidToken, claims.Role)
	}

	var expires time.Time
	if claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time
	}
	return Claims{UserID: userID, Username: claims.Username, Role: role, ExpiresAt: expires}, nil
}
