package auth

import (
	"net/mail"
	"unicode/utf8"

	"github.com/verdd/verdd-backend/internal/domain"
)

// LoginInput holds credentials. Login is an email address or a username.
type LoginInput struct {
	Login    string
	Password string
}

// Validate validates the login input.
func (i LoginInput) Validate() error {
	var errs []domain.FieldError

	if i.Login == "" {
		errs = append(errs, domain.FieldError{Field: "login", Message: "required"})
	} else if len(i.Login) > 254 {
		errs = append(errs, domain.FieldError{Field: "login", Message: "too long"})
	}
	if i.Password == "" {
		errs = append(errs, domain.FieldError{Field: "password", Message: "required"})
	} else if len(i.Password) > 72 {
		errs = append(errs, domain.FieldError{Field: "password", Message: "too long"})
	}

	return domain.Collect(errs)
}

// CreateUserInput holds parameters for creating an account from the CLI.
type CreateUserInput struct {
	Email    string
	Username string
	Password string
	Role     domain.Role
}

// Validate validates the input.
func (i CreateUserInput) Validate() error {
	var errs []domain.FieldError

	if i.Email == "" {
		errs = append(errs, domain.FieldError{Field: "email", Message: "required"})
	} else if _, err := mail.ParseAddress(i.Email); err != nil {
		errs = append(errs, domain.FieldError{Field: "email", Message: "invalid email"})
	}

	switch n := utf8.RuneCountInString(i.Username); {
	case n == 0:
		errs = append(errs, domain.FieldError{Field: "username", Message: "required"})
	case n < 2 || n > 50:
		errs = append(errs, domain.FieldError{Field: "username", Message: "must be 2-50 characters"})
	}

	switch n := len(i.Password); {
	case n == 0:
		errs = append(errs, domain.FieldError{Field: "password", Message: "required"})
	case n < 8:
		errs = append(errs, domain.FieldError{Field: "password", Message: "must be at least 8 characters"})
	case n > 72:
		errs = append(errs, domain.FieldError{Field: "password", Message: "too long"})
	}

	if !i.Role.IsValid() {
		errs = append(errs, domain.FieldError{Field: "role", Message: "must be viewer, editor or admin"})
	}

	return domain.Collect(errs)
}
