package satellite

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/verdd/verdd-backend/internal/adapter/postgres"
)

// table describes one satellite table: R is its scan row, D the domain type.
type table[R interface{ toDomain() D }, D any] struct {
	name    string
	entity  string
	parent  string
	columns []string
	orderBy []string
}

func (t table[R, D]) returning() string {
	return "RETURNING " + strings.Join(t.columns, ", ")
}

func (t table[R, D]) insert(ctx context.Context, q postgres.Querier, values ...any) (D, error) {
	query := postgres.Builder().Insert(t.name).Columns(t.columns...).Values(values...).Suffix(t.returning())
	rows, err := t.scan(ctx, q, query)
	if err != nil {
		var zero D
		return zero, postgres.MapError(err, t.entity, values[0])
	}
	return rows[0], nil
}

// delete removes the row and returns it so callers can record history.
func (t table[R, D]) delete(ctx context.Context, q postgres.Querier, id uuid.UUID) (D, error) {
	query := postgres.Builder().Delete(t.name).Where(squirrel.Eq{"id": id}).Suffix(t.returning())
	rows, err := t.scan(ctx, q, query)
	if err != nil {
		var zero D
		return zero, postgres.MapError(err, t.entity, id)
	}
	if len(rows) == 0 {
		var zero D
		return zero, postgres.MapError(pgx.ErrNoRows, t.entity, id)
	}
	return rows[0], nil
}

func (t table[R, D]) listByParents(ctx context.Context, q postgres.Querier, parentIDs []uuid.UUID) ([]D, error) {
	if len(parentIDs) == 0 {
		return []D{}, nil
	}
	query := postgres.Builder().Select(t.columns...).From(t.name).
		Where(squirrel.Eq{t.parent: parentIDs}).
		OrderBy(t.orderBy...)
	rows, err := t.scan(ctx, q, query)
	if err != nil {
		return nil, postgres.MapError(err, t.entity, "list")
	}
	return rows, nil
}

func (t table[R, D]) scan(ctx context.Context, q postgres.Querier, query squirrel.Sqlizer) ([]D, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var rows []R
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, err
	}
	out := make([]D, len(rows))
	for i, r := range rows {
		out[i] = r.toDomain()
	}
	return out, nil
}
