package history

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdd/verdd-backend/internal/domain"
)

type mockHistoryRepo struct {
	GetByEntityFunc     func(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID, limit int) ([]domain.HistoryRecord, error)
	ListRecentFunc      func(ctx context.Context, limit, offset int) ([]domain.HistoryRecord, error)
	DeleteOlderThanFunc func(ctx context.Context, cutoff time.Time) (int, error)
}

func (m *mockHistoryRepo) GetByEntity(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID, limit int) ([]domain.HistoryRecord, error) {
	if m.GetByEntityFunc != nil {
		return m.GetByEntityFunc(ctx, entityType, entityID, limit)
	}
	return nil, nil
}

func (m *mockHistoryRepo) ListRecent(ctx context.Context, limit, offset int) ([]domain.HistoryRecord, error) {
	if m.ListRecentFunc != nil {
		return m.ListRecentFunc(ctx, limit, offset)
	}
	return nil, nil
}

func (m *mockHistoryRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	if m.DeleteOlderThanFunc != nil {
		return m.DeleteOlderThanFunc(ctx, cutoff)
	}
	return 0, nil
}

func newTestService(repo *mockHistoryRepo) *Service {
	return NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), repo)
}

func TestService_ListEntityHistory(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	var gotLimit int
	repo := &mockHistoryRepo{
		GetByEntityFunc: func(_ context.Context, et domain.EntityType, eid uuid.UUID, limit int) ([]domain.HistoryRecord, error) {
			gotLimit = limit
			return []domain.HistoryRecord{{EntityType: et, EntityID: eid}}, nil
		},
	}

	records, err := newTestService(repo).ListEntityHistory(context.Background(), domain.EntityLexeme, id, 0)
	require.NoError(t, err)

	assert.Len(t, records, 1)
	assert.Equal(t, defaultLimit, gotLimit)
}

func TestService_ListEntityHistory_Invalid(t *testing.T) {
	t.Parallel()

	_, err := newTestService(&mockHistoryRepo{}).ListEntityHistory(context.Background(), "card", uuid.Nil, 10)
	require.ErrorIs(t, err, domain.ErrValidation)

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Len(t, ve.Errors, 2)
}

func TestService_ListRecent_ClampsLimit(t *testing.T) {
	t.Parallel()

	var gotLimit, gotOffset int
	repo := &mockHistoryRepo{
		ListRecentFunc: func(_ context.Context, limit, offset int) ([]domain.HistoryRecord, error) {
			gotLimit, gotOffset = limit, offset
			return nil, nil
		},
	}

	_, err := newTestService(repo).ListRecent(context.Background(), 10000, 20)
	require.NoError(t, err)
	assert.Equal(t, maxLimit, gotLimit)
	assert.Equal(t, 20, gotOffset)
}

func TestService_PruneHistory(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	var gotCutoff time.Time
	repo := &mockHistoryRepo{
		DeleteOlderThanFunc: func(_ context.Context, cutoff time.Time) (int, error) {
			gotCutoff = cutoff
			return 7, nil
		},
	}
	svc := newTestService(repo)
	svc.now = func() time.Time { return now }

	n, err := svc.PruneHistory(context.Background(), 30*24*time.Hour)
	require.NoError(t, err)

	assert.Equal(t, 7, n)
	assert.Equal(t, now.Add(-30*24*time.Hour), gotCutoff)
}

func TestService_PruneHistory_RejectsNonPositive(t *testing.T) {
	t.Parallel()

	_, err := newTestService(&mockHistoryRepo{}).PruneHistory(context.Background(), 0)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
