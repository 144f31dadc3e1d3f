// Package relation implements relation persistence on PostgreSQL.
package relation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/verdd/verdd-backend/internal/adapter/postgres"
	"github.com/verdd/verdd-backend/internal/domain"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

var columns = []string{
	"id", "lexeme_from_id", "lexeme_to_id", "type", "notes", "checked",
	"created_by", "created_at", "updated_at",
}

// joinedColumns select a relation with the identifying columns of both ends.
var joinedColumns = []string{
	"r.id", "r.lexeme_from_id", "r.lexeme_to_id", "r.type", "r.notes", "r.checked",
	"r.created_by", "r.created_at", "r.updated_at",
	"lf.lexeme AS from_lexeme", "lf.homonym_id AS from_homonym_id", "lf.language AS from_language",
	"lf.pos AS from_pos", "lf.contlex AS from_contlex",
	"lt.lexeme AS to_lexeme", "lt.homonym_id AS to_homonym_id", "lt.language AS to_language",
	"lt.pos AS to_pos", "lt.contlex AS to_contlex",
}

const joinedFrom = "relations r JOIN lexemes lf ON lf.id = r.lexeme_from_id JOIN lexemes lt ON lt.id = r.lexeme_to_id"

type row struct {
	ID           uuid.UUID  `db:"id"`
	LexemeFromID uuid.UUID  `db:"lexeme_from_id"`
	LexemeToID   uuid.UUID  `db:"lexeme_to_id"`
	Type         string     `db:"type"`
	Notes        string     `db:"notes"`
	Checked      bool       `db:"checked"`
	CreatedBy    *uuid.UUID `db:"created_by"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

func (r row) toDomain() domain.Relation {
	return domain.Relation{
		ID:           r.ID,
		LexemeFromID: r.LexemeFromID,
		LexemeToID:   r.LexemeToID,
		Type:         domain.RelationType(r.Type),
		Notes:        r.Notes,
		Checked:      r.Checked,
		CreatedBy:    r.CreatedBy,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type joinedRow struct {
	row
	FromLexeme    string `db:"from_lexeme"`
	FromHomonymID int    `db:"from_homonym_id"`
	FromLanguage  string `db:"from_language"`
	FromPOS       string `db:"from_pos"`
	FromContlex   string `db:"from_contlex"`
	ToLexeme      string `db:"to_lexeme"`
	ToHomonymID   int    `db:"to_homonym_id"`
	ToLanguage    string `db:"to_language"`
	ToPOS         string `db:"to_pos"`
	ToContlex     string `db:"to_contlex"`
}

func (r joinedRow) toDomain() domain.Relation {
	rel := r.row.toDomain()
	rel.LexemeFrom = &domain.Lexeme{
		ID:        r.LexemeFromID,
		Lexeme:    r.FromLexeme,
		HomonymID: r.FromHomonymID,
		Language:  r.FromLanguage,
		POS:       domain.PartOfSpeech(r.FromPOS),
		Contlex:   r.FromContlex,
	}
	rel.LexemeTo = &domain.Lexeme{
		ID:        r.LexemeToID,
		Lexeme:    r.ToLexeme,
		HomonymID: r.ToHomonymID,
		Language:  r.ToLanguage,
		POS:       domain.PartOfSpeech(r.ToPOS),
		Contlex:   r.ToContlex,
	}
	return rel
}

// Repo provides relation persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new relation repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a relation with both ends loaded.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.Relation, error) {
	query := postgres.Builder().Select(joinedColumns...).From(joinedFrom).Where(squirrel.Eq{"r.id": id})

	rows, err := r.selectJoined(ctx, query)
	if err != nil {
		return domain.Relation{}, postgres.MapError(err, "relation", id)
	}
	if len(rows) == 0 {
		return domain.Relation{}, fmt.Errorf("relation %s: %w", id, domain.ErrNotFound)
	}
	return rows[0], nil
}

// ListByLexeme returns the relations starting at (outgoing) and ending at
// (incoming) the lexeme.
func (r *Repo) ListByLexeme(ctx context.Context, lexemeID uuid.UUID) (outgoing, incoming []domain.Relation, err error) {
	query := postgres.Builder().Select(joinedColumns...).From(joinedFrom).
		Where(squirrel.Or{squirrel.Eq{"r.lexeme_from_id": lexemeID}, squirrel.Eq{"r.lexeme_to_id": lexemeID}}).
		OrderBy("r.type ASC", "r.created_at ASC", "r.id ASC")

	rels, err := r.selectJoined(ctx, query)
	if err != nil {
		return nil, nil, postgres.MapError(err, "relation", lexemeID)
	}

	outgoing, incoming = []domain.Relation{}, []domain.Relation{}
	for _, rel := range rels {
		if rel.LexemeFromID == lexemeID {
			outgoing = append(outgoing, rel)
		} else {
			incoming = append(incoming, rel)
		}
	}
	return outgoing, incoming, nil
}

// Find returns a page of relations matching the filter and the total count.
func (r *Repo) Find(ctx context.Context, f domain.RelationFilter) ([]domain.Relation, int, error) {
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	where := squirrel.And{}
	if f.LexemeID != nil {
		where = append(where, squirrel.Or{
			squirrel.Eq{"r.lexeme_from_id": *f.LexemeID},
			squirrel.Eq{"r.lexeme_to_id": *f.LexemeID},
		})
	}
	if len(f.Types) > 0 {
		where = append(where, squirrel.Eq{"r.type": typeStrings(f.Types)})
	}
	if f.FromLanguage != nil {
		where = append(where, squirrel.Eq{"lf.language": *f.FromLanguage})
	}
	if f.ToLanguage != nil {
		where = append(where, squirrel.Eq{"lt.language": *f.ToLanguage})
	}
	if f.Checked != nil {
		where = append(where, squirrel.Eq{"r.checked": *f.Checked})
	}

	countSQL, countArgs, err := postgres.Builder().Select("count(*)").From(joinedFrom).Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}
	var total int
	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, postgres.MapError(err, "relation", "count")
	}
	if total == 0 {
		return []domain.Relation{}, 0, nil
	}

	query := postgres.Builder().Select(joinedColumns...).From(joinedFrom).Where(where).
		OrderBy("lf.lexeme ASC", "lt.lexeme ASC", "r.id ASC").
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset))

	rels, err := r.selectJoined(ctx, query)
	if err != nil {
		return nil, 0, postgres.MapError(err, "relation", "find")
	}
	return rels, total, nil
}

// ListBetweenLanguages returns every relation of the given types linking a
// lexeme of language a with one of language b, in either direction.
func (r *Repo) ListBetweenLanguages(ctx context.Context, a, b string, types []domain.RelationType) ([]domain.Relation, error) {
	where := squirrel.And{
		squirrel.Or{
			squirrel.Eq{"lf.language": a, "lt.language": b},
			squirrel.Eq{"lf.language": b, "lt.language": a},
		},
	}
	if len(types) > 0 {
		where = append(where, squirrel.Eq{"r.type": typeStrings(types)})
	}

	query := postgres.Builder().Select(joinedColumns...).From(joinedFrom).Where(where).
		OrderBy("r.created_at ASC", "r.id ASC")

	rels, err := r.selectJoined(ctx, query)
	if err != nil {
		return nil, postgres.MapError(err, "relation", a+"-"+b)
	}
	return rels, nil
}

// ListEdges returns every relation of the given types as graph edges with
// the identifying columns of both lexemes.
func (r *Repo) ListEdges(ctx context.Context, types []domain.RelationType) ([]domain.RelationEdge, error) {
	query := postgres.Builder().
		Select("r.id", "r.type",
			"lf.id", "lf.lexeme", "lf.language", "lf.pos",
			"lt.id", "lt.lexeme", "lt.language", "lt.pos").
		From(joinedFrom).
		OrderBy("r.id ASC")
	if len(types) > 0 {
		query = query.Where(squirrel.Eq{"r.type": typeStrings(types)})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "relation", "edges")
	}
	defer rows.Close()

	var edges []domain.RelationEdge
	for rows.Next() {
		var (
			e               domain.RelationEdge
			typ, fpos, tpos string
		)
		if err := rows.Scan(&e.RelationID, &typ,
			&e.From.ID, &e.From.Lexeme, &e.From.Language, &fpos,
			&e.To.ID, &e.To.Lexeme, &e.To.Language, &tpos,
		); err != nil {
			return nil, fmt.Errorf("scan edge: %w", err)
		}
		e.Type = domain.RelationType(typ)
		e.From.POS = domain.PartOfSpeech(fpos)
		e.To.POS = domain.PartOfSpeech(tpos)
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "relation", "edges")
	}
	return edges, nil
}

// Exists reports whether a relation of typ links from and to in either direction.
func (r *Repo) Exists(ctx context.Context, from, to uuid.UUID, typ domain.RelationType) (bool, error) {
	var exists bool
	err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx,
		`SELECT EXISTS (
		    SELECT 1 FROM relations
		    WHERE type = $3 AND ((lexeme_from_id = $1 AND lexeme_to_id = $2) OR (lexeme_from_id = $2 AND lexeme_to_id = $1))
		 )`,
		from, to, string(typ),
	).Scan(&exists)
	if err != nil {
		return false, postgres.MapError(err, "relation", from)
	}
	return exists, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a relation. A duplicate (from, to, type) yields ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, rel domain.Relation) (domain.Relation, error) {
	query := postgres.Builder().Insert("relations").
		Columns(columns...).
		Values(rel.ID, rel.LexemeFromID, rel.LexemeToID, string(rel.Type), rel.Notes, rel.Checked,
			rel.CreatedBy, rel.CreatedAt, rel.UpdatedAt).
		Suffix("RETURNING " + strings.Join(columns, ", "))

	rows, err := r.selectRows(ctx, query)
	if err != nil {
		return domain.Relation{}, postgres.MapError(err, "relation", rel.ID)
	}
	return rows[0].toDomain(), nil
}

// Update writes the mutable columns of rel.
func (r *Repo) Update(ctx context.Context, rel domain.Relation) (domain.Relation, error) {
	query := postgres.Builder().Update("relations").
		Set("type", string(rel.Type)).
		Set("notes", rel.Notes).
		Set("checked", rel.Checked).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": rel.ID}).
		Suffix("RETURNING " + strings.Join(columns, ", "))

	rows, err := r.selectRows(ctx, query)
	if err != nil {
		return domain.Relation{}, postgres.MapError(err, "relation", rel.ID)
	}
	if len(rows) == 0 {
		return domain.Relation{}, fmt.Errorf("relation %s: %w", rel.ID, domain.ErrNotFound)
	}
	return rows[0].toDomain(), nil
}

// Delete removes a relation with its examples and sources.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, `DELETE FROM relations WHERE id = $1`, id)
	if err != nil {
		return postgres.MapError(err, "relation", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("relation %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// SetChecked marks relations as reviewed (or not) and returns the number changed.
func (r *Repo) SetChecked(ctx context.Context, ids []uuid.UUID, checked bool) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	sql, args, err := postgres.Builder().Update("relations").
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
		return 0, postgres.MapError(err, "relation", "checked")
	}
	return int(tag.RowsAffected()), nil
}

// BulkInsert inserts relations using pgx.Batch. Existing (from, to, type)
// triples are skipped. Returns the number of inserted rows.
func (r *Repo) BulkInsert(ctx context.Context, rels []domain.Relation) (int, error) {
	if len(rels) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, rel := range rels {
		batch.Queue(
			`INSERT INTO relations (id, lexeme_from_id, lexeme_to_id, type, notes, checked, created_by, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			 ON CONFLICT ON CONSTRAINT relations_natural_key DO NOTHING`,
			rel.ID, rel.LexemeFromID, rel.LexemeToID, string(rel.Type), rel.Notes, rel.Checked,
			rel.CreatedBy, rel.CreatedAt, rel.UpdatedAt,
		)
	}

	return postgres.SendBatchExec(ctx, postgres.QuerierFromCtx(ctx, r.db), batch)
}

// FindIDs resolves natural keys to relation ids; absent keys are missing
// from the map.
func (r *Repo) FindIDs(ctx context.Context, keys []domain.RelationKey) (map[domain.RelationKey]uuid.UUID, error) {
	result := make(map[domain.RelationKey]uuid.UUID, len(keys))
	if len(keys) == 0 {
		return result, nil
	}

	froms := make([]uuid.UUID, len(keys))
	tos := make([]uuid.UUID, len(keys))
	types := make([]string, len(keys))
	for i, k := range keys {
		froms[i], tos[i], types[i] = k.From, k.To, string(k.Type)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx,
		`SELECT r.id, r.lexeme_from_id, r.lexeme_to_id, r.type
		 FROM relations r
		 JOIN unnest($1::uuid[], $2::uuid[], $3::text[]) AS k(from_id, to_id, type)
		   ON r.lexeme_from_id = k.from_id AND r.lexeme_to_id = k.to_id AND r.type = k.type`,
		froms, tos, types,
	)
	if err != nil {
		return nil, postgres.MapError(err, "relation", "keys")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id  uuid.UUID
			key domain.RelationKey
			typ string
		)
		if err := rows.Scan(&id, &key.From, &key.To, &typ); err != nil {
			return nil, fmt.Errorf("scan relation key: %w", err)
		}
		key.Type = domain.RelationType(typ)
		result[key] = id
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "relation", "keys")
	}
	return result, nil
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

func (r *Repo) selectJoined(ctx context.Context, query squirrel.Sqlizer) ([]domain.Relation, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var rows []joinedRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, sql, args...); err != nil {
		return nil, err
	}
	out := make([]domain.Relation, len(rows))
	for i, jr := range rows {
		out[i] = jr.toDomain()
	}
	return out, nil
}

func typeStrings(types []domain.RelationType) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}
