// Package lexeme implements lexeme persistence on PostgreSQL.
package lexeme

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/verdd/verdd-backend/internal/adapter/postgres"
	"github.com/verdd/verdd-backend/internal/domain"
)

// Repo provides lexeme persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new lexeme repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a lexeme without its satellites.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.Lexeme, error) {
	query := postgres.Builder().Select(columns...).From(table).Where(squirrel.Eq{"id": id})

	rows, err := r.selectRows(ctx, query)
	if err != nil {
		return domain.Lexeme{}, postgres.MapError(err, "lexeme", id)
	}
	if len(rows) == 0 {
		return domain.Lexeme{}, fmt.Errorf("lexeme %s: %w", id, domain.ErrNotFound)
	}
	return rows[0].toDomain(), nil
}

// GetByIDs returns the lexemes with the given ids in no particular order.
// Missing ids are silently skipped.
func (r *Repo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Lexeme, error) {
	if len(ids) == 0 {
		return []domain.Lexeme{}, nil
	}
	query := postgres.Builder().Select(columns...).From(table).Where(squirrel.Eq{"id": ids})

	rows, err := r.selectRows(ctx, query)
	if err != nil {
		return nil, postgres.MapError(err, "lexeme", "batch")
	}
	return toDomain(rows), nil
}

// FindByKeys resolves natural keys to ids. Keys are matched exactly on the
// cleaned headword; absent keys are missing from the map.
func (r *Repo) FindByKeys(ctx context.Context, keys []domain.LexemeKey) (map[domain.LexemeKey]uuid.UUID, error) {
	result := make(map[domain.LexemeKey]uuid.UUID, len(keys))
	if len(keys) == 0 {
		return result, nil
	}

	texts := make([]string, len(keys))
	homonyms := make([]int32, len(keys))
	langs := make([]string, len(keys))
	poses := make([]string, len(keys))
	for i, k := range keys {
		texts[i] = k.Lexeme
		homonyms[i] = int32(k.HomonymID)
		langs[i] = k.Language
		poses[i] = string(k.POS)
	}

	q := postgres.QuerierFromCtx(ctx, r.db)
	rows, err := q.Query(ctx,
		`SELECT l.id, l.lexeme, l.homonym_id, l.language, l.pos
		 FROM lexemes l
		 JOIN unnest($1::text[], $2::int[], $3::text[], $4::text[]) AS k(lexeme, homonym_id, language, pos)
		   ON l.lexeme = k.lexeme AND l.homonym_id = k.homonym_id AND l.language = k.language AND l.pos = k.pos`,
		texts, homonyms, langs, poses,
	)
	if err != nil {
		return nil, postgres.MapError(err, "lexeme", "keys")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id  uuid.UUID
			key domain.LexemeKey
			pos string
		)
		if err := rows.Scan(&id, &key.Lexeme, &key.HomonymID, &key.Language, &pos); err != nil {
			return nil, fmt.Errorf("scan lexeme key: %w", err)
		}
		key.POS = domain.PartOfSpeech(pos)
		result[key] = id
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "lexeme", "keys")
	}

	return result, nil
}

// FindByNormalized returns lexemes of language whose lookup form equals
// one of texts.
func (r *Repo) FindByNormalized(ctx context.Context, language string, texts []string) ([]domain.Lexeme, error) {
	if len(texts) == 0 {
		return []domain.Lexeme{}, nil
	}
	normalized := make([]string, len(texts))
	for i, t := range texts {
		normalized[i] = domain.NormalizeText(t)
	}

	query := postgres.Builder().Select(columns...).From(table).
		Where(squirrel.Eq{"language": language, "lexeme_normalized": normalized}).
		OrderBy("lexeme_normalized ASC", "homonym_id ASC")

	rows, err := r.selectRows(ctx, query)
	if err != nil {
		return nil, postgres.MapError(err, "lexeme", language)
	}
	return toDomain(rows), nil
}

// Find returns a page of lexemes matching the filter and the total count.
func (r *Repo) Find(ctx context.Context, filter domain.LexemeFilter) ([]domain.Lexeme, int, error) {
	f := normalizeFilter(filter)
	where := conditions(f)

	countSQL, countArgs, err := postgres.Builder().Select("count(*)").From(table).Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	var total int
	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, postgres.MapError(err, "lexeme", "count")
	}
	if total == 0 {
		return []domain.Lexeme{}, 0, nil
	}

	query := postgres.Builder().Select(columns...).From(table).Where(where).
		OrderBy(sortColumn(f.SortBy)+" "+f.SortOrder, "homonym_id ASC", "id ASC").
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset))

	rows, err := r.selectRows(ctx, query)
	if err != nil {
		return nil, 0, postgres.MapError(err, "lexeme", "find")
	}
	return toDomain(rows), total, nil
}

// ListByLanguage returns every lexeme of a language ordered by headword.
func (r *Repo) ListByLanguage(ctx context.Context, language string) ([]domain.Lexeme, error) {
	query := postgres.Builder().Select(columns...).From(table).
		Where(squirrel.Eq{"language": language}).
		OrderBy("lexeme_normalized ASC", "homonym_id ASC", "pos ASC")

	rows, err := r.selectRows(ctx, query)
	if err != nil {
		return nil, postgres.MapError(err, "lexeme", language)
	}
	return toDomain(rows), nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a lexeme and returns the stored row.
func (r *Repo) Create(ctx context.Context, l domain.Lexeme) (domain.Lexeme, error) {
	query := postgres.Builder().Insert(table).
		Columns(insertColumns...).
		Values(insertValues(l)...).
		Suffix("RETURNING " + strings.Join(columns, ", "))

	rows, err := r.selectRows(ctx, query)
	if err != nil {
		return domain.Lexeme{}, postgres.MapError(err, "lexeme", l.Lexeme)
	}
	return rows[0].toDomain(), nil
}

// Update writes every mutable column of l and bumps updated_at.
func (r *Repo) Update(ctx context.Context, l domain.Lexeme) (domain.Lexeme, error) {
	query := postgres.Builder().Update(table).
		SetMap(map[string]any{
			"lexeme":            l.Lexeme,
			"lexeme_normalized": domain.NormalizeText(l.Lexeme),
			"homonym_id":        l.HomonymID,
			"language":          l.Language,
			"pos":               string(l.POS),
			"contlex":           l.Contlex,
			"type":              l.Type,
			"lemma_id":          l.LemmaID,
			"inflex_id":         l.InflexID,
			"inflex_type":       l.InflexType,
			"specification":     l.Specification,
			"notes":             l.Notes,
			"assonance":         l.Assonance,
			"assonance_rev":     l.AssonanceRev,
			"consonance":        l.Consonance,
			"consonance_rev":    l.ConsonanceRev,
			"checked":           l.Checked,
			"imported_from":     l.ImportedFrom,
			"updated_at":        squirrel.Expr("now()"),
		}).
		Where(squirrel.Eq{"id": l.ID}).
		Suffix("RETURNING " + strings.Join(columns, ", "))

	rows, err := r.selectRows(ctx, query)
	if err != nil {
		return domain.Lexeme{}, postgres.MapError(err, "lexeme", l.ID)
	}
	if len(rows) == 0 {
		return domain.Lexeme{}, fmt.Errorf("lexeme %s: %w", l.ID, domain.ErrNotFound)
	}
	return rows[0].toDomain(), nil
}

// Delete removes a lexeme. Relations and satellites cascade.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	sql, args, err := postgres.Builder().Delete(table).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "lexeme", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("lexeme %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// SetChecked marks lexemes as reviewed (or not) and returns the number changed.
func (r *Repo) SetChecked(ctx context.Context, ids []uuid.UUID, checked bool) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	sql, args, err := postgres.Builder().Update(table).
		Set("checked", checked).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": ids}).
		Where(squirrel.NotEq{"checked": checked}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		return 0, postgres.MapError(err, "lexeme", "checked")
	}
	return int(tag.RowsAffected()), nil
}

// BulkInsert inserts lexemes using pgx.Batch. Lexemes whose natural key
// already exists are skipped. Returns the number of inserted rows.
func (r *Repo) BulkInsert(ctx context.Context, lexemes []domain.Lexeme) (int, error) {
	if len(lexemes) == 0 {
		return 0, nil
	}

	placeholders := make([]string, len(insertColumns))
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	stmt := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT ON CONSTRAINT lexemes_natural_key DO NOTHING",
		table, strings.Join(insertColumns, ", "), strings.Join(placeholders, ", "),
	)

	batch := &pgx.Batch{}
	for _, l := range lexemes {
		batch.Queue(stmt, insertValues(l)...)
	}

	return postgres.SendBatchExec(ctx, postgres.QuerierFromCtx(ctx, r.db), batch)
}

func (r *Repo) selectRows(ctx context.Context, query squirrel.Sqlizer) ([]row, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, sql, args...); err != nil {
		return nil, err
	}
	return rows, nil
}
