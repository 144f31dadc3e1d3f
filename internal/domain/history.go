package domain

import (
	"time"

	"github.com/google/uuid"
)

// HistoryRecord is one append-only change log row.
type HistoryRecord struct {
	ID         uuid.UUID
	UserID     *uuid.UUID
	EntityType EntityType
	EntityID   uuid.UUID
	Action     HistoryAction
	Changes    map[string]any
	CreatedAt  time.Time
}

// FieldChange is the old/new pair stored per field in HistoryRecord.Changes.
type FieldChange struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// NewHistoryRecord builds a record stamped with a fresh id and the current time.
func NewHistoryRecord(userID *uuid.UUID, entity EntityType, entityID uuid.UUID, action HistoryAction, changes map[string]any) HistoryRecord {
	return HistoryRecord{
		ID:         uuid.New(),
		UserID:     userID,
		EntityType: entity,
		EntityID:   entityID,
		Action:     action,
		Changes:    changes,
		CreatedAt:  time.Now().UTC(),
	}
}
