package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an editor account of the dictionary.
type User struct {
	ID           uuid.UUID
	Email        string
	Username     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
