// Package history exposes the change log written by the lexicon service.
package history

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/verdd/verdd-backend/internal/domain"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

type historyRepo interface {
	GetByEntity(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID, limit int) ([]domain.HistoryRecord, error)
	ListRecent(ctx context.Context, limit, offset int) ([]domain.HistoryRecord, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}

// Service reads and prunes history records.
type Service struct {
	log     *slog.Logger
	history historyRepo
	now     func() time.Time
}

// NewService creates a new history service.
func NewService(logger *slog.Logger, history historyRepo) *Service {
	return &Service{
		log:     logger.With("service", "history"),
		history: history,
		now:     time.Now,
	}
}

// ListEntityHistory returns the newest records of one entity.
func (s *Service) ListEntityHistory(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID, limit int) ([]domain.HistoryRecord, error) {
	var errs []domain.FieldError
	if !entityType.IsValid() {
		errs = append(errs, domain.FieldError{Field: "entity_type", Message: "invalid value"})
	}
	if entityID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "entity_id", Message: "required"})
	}
	if err := domain.Collect(errs); err != nil {
		return nil, err
	}

	records, err := s.history.GetByEntity(ctx, entityType, entityID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}
	return records, nil
}

// ListRecent returns the newest records across all entities.
func (s *Service) ListRecent(ctx context.Context, limit, offset int) ([]domain.HistoryRecord, error) {
	if offset < 0 {
		return nil, domain.NewValidationError("offset", "must be >= 0")
	}
	records, err := s.history.ListRecent(ctx, clampLimit(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return records, nil
}

// PruneHistory deletes records older than olderThan and returns how many
// were removed.
func (s *Service) PruneHistory(ctx context.Context, olderThan time.Duration) (int, error) {
	if olderThan <= 0 {
		return 0, domain.NewValidationError("older_than", "must be positive")
	}

	cutoff := s.now().UTC().Add(-olderThan)
	n, err := s.history.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune history: %w", err)
	}

	s.log.InfoContext(ctx, "history pruned",
		slog.Int("deleted", n),
		slog.Time("cutoff", cutoff),
	)
	return n, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
