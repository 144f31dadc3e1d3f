// Package history implements the change history repository using PostgreSQL.
// It provides append-only operations for history records plus pruning.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/verdd/verdd-backend/internal/adapter/postgres"
	"github.com/verdd/verdd-backend/internal/domain"
)

var columns = []string{"id", "user_id", "entity_type", "entity_id", "action", "changes", "created_at"}

type row struct {
	ID         uuid.UUID  `db:"id"`
	UserID     *uuid.UUID `db:"user_id"`
	EntityType string     `db:"entity_type"`
	EntityID   uuid.UUID  `db:"entity_id"`
	Action     string     `db:"action"`
	Changes    []byte     `db:"changes"`
	CreatedAt  time.Time  `db:"created_at"`
}

// Repo provides history persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new history repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Log inserts a history record. Inside RunInTx it joins the caller's
// transaction, so the record commits or rolls back with the change.
func (r *Repo) Log(ctx context.Context, record domain.HistoryRecord) error {
	changes := record.Changes
	if changes == nil {
		changes = map[string]any{}
	}
	changesJSON, err := json.Marshal(changes)
	if err != nil {
		return fmt.Errorf("history %s marshal changes: %w", record.ID, err)
	}

	_, err = postgres.QuerierFromCtx(ctx, r.db).Exec(ctx,
		`INSERT INTO history (id, user_id, entity_type, entity_id, action, changes, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		record.ID, record.UserID, string(record.EntityType), record.EntityID,
		string(record.Action), changesJSON, record.CreatedAt,
	)
	if err != nil {
		return postgres.MapError(err, "history", record.ID)
	}
	return nil
}

// DeleteOlderThan removes records created before cutoff and returns how many.
func (r *Repo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, `DELETE FROM history WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, postgres.MapError(err, "history", cutoff.Format(time.RFC3339))
	}
	return int(tag.RowsAffected()), nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByEntity returns the history of one entity, newest first.
func (r *Repo) GetByEntity(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID, limit int) ([]domain.HistoryRecord, error) {
	query := postgres.Builder().Select(columns...).From("history").
		Where(squirrel.Eq{"entity_type": string(entityType), "entity_id": entityID}).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit))
	return r.list(ctx, query, entityID)
}

// ListRecent returns the newest records across all entities.
func (r *Repo) ListRecent(ctx context.Context, limit, offset int) ([]domain.HistoryRecord, error) {
	query := postgres.Builder().Select(columns...).From("history").
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))
	return r.list(ctx, query, "recent")
}

func (r *Repo) list(ctx context.Context, query squirrel.SelectBuilder, ref any) ([]domain.HistoryRecord, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "history", ref)
	}

	records := make([]domain.HistoryRecord, len(rows))
	for i, rw := range rows {
		rec, err := toDomain(rw)
		if err != nil {
			return nil, err
		}
		records[i] = rec
	}
	return records, nil
}

func toDomain(r row) (domain.HistoryRecord, error) {
	record := domain.HistoryRecord{
		ID:         r.ID,
		UserID:     r.UserID,
		EntityType: domain.EntityType(r.EntityType),
		EntityID:   r.EntityID,
		Action:     domain.HistoryAction(r.Action),
		CreatedAt:  r.CreatedAt,
	}

	if len(r.Changes) > 0 {
		changes := make(map[string]any)
		if err := json.Unmarshal(r.Changes, &changes); err != nil {
			return domain.HistoryRecord{}, fmt.Errorf("history %s unmarshal changes: %w", r.ID, err)
		}
		record.Changes = changes
	}

	return record, nil
}
