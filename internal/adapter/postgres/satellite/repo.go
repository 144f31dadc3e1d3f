// Package satellite implements persistence for the records hanging off
// lexemes and relations: examples, stems, mini paradigms, affiliations,
// relation examples and sources.
package satellite

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/verdd/verdd-backend/internal/adapter/postgres"
	"github.com/verdd/verdd-backend/internal/domain"
)

var (
	examples = table[exampleRow, domain.Example]{
		name: "examples", entity: "example", parent: "lexeme_id",
		columns: []string{"id", "lexeme_id", "text", "source", "created_at"},
		orderBy: []string{"created_at ASC", "id ASC"},
	}
	stems = table[stemRow, domain.Stem]{
		name: "stems", entity: "stem", parent: "lexeme_id",
		columns: []string{"id", "lexeme_id", "text", "homonym_id", "contlex", "notes", "position", "created_at"},
		orderBy: []string{"position ASC", "created_at ASC", "id ASC"},
	}
	paradigms = table[paradigmRow, domain.MiniParadigm]{
		name: "mini_paradigms", entity: "mini_paradigm", parent: "lexeme_id",
		columns: []string{"id", "lexeme_id", "msd", "wordform", "created_at"},
		orderBy: []string{"msd ASC", "wordform ASC", "id ASC"},
	}
	affiliations = table[affiliationRow, domain.Affiliation]{
		name: "affiliations", entity: "affiliation", parent: "lexeme_id",
		columns: []string{"id", "lexeme_id", "title", "link", "type", "checked", "created_at"},
		orderBy: []string{"type ASC", "title ASC", "id ASC"},
	}
	relationExamples = table[relationExampleRow, domain.RelationExample]{
		name: "relation_examples", entity: "relation_example", parent: "relation_id",
		columns: []string{"id", "relation_id", "text", "language", "created_at"},
		orderBy: []string{"created_at ASC", "id ASC"},
	}
	sources = table[sourceRow, domain.Source]{
		name: "sources", entity: "source", parent: "relation_id",
		columns: []string{"id", "relation_id", "name", "page_info", "type", "created_at"},
		orderBy: []string{"created_at ASC", "id ASC"},
	}
)

// Repo provides satellite persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new satellite repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

func (r *Repo) q(ctx context.Context) postgres.Querier {
	return postgres.QuerierFromCtx(ctx, r.db)
}

// ---------------------------------------------------------------------------
// Examples
// ---------------------------------------------------------------------------

func (r *Repo) CreateExample(ctx context.Context, e domain.Example) (domain.Example, error) {
	return examples.insert(ctx, r.q(ctx), e.ID, e.LexemeID, e.Text, e.Source, e.CreatedAt)
}

func (r *Repo) DeleteExample(ctx context.Context, id uuid.UUID) (domain.Example, error) {
	return examples.delete(ctx, r.q(ctx), id)
}

func (r *Repo) ListExamples(ctx context.Context, lexemeIDs []uuid.UUID) ([]domain.Example, error) {
	return examples.listByParents(ctx, r.q(ctx), lexemeIDs)
}

// ---------------------------------------------------------------------------
// Stems
// ---------------------------------------------------------------------------

func (r *Repo) CreateStem(ctx context.Context, s domain.Stem) (domain.Stem, error) {
	return stems.insert(ctx, r.q(ctx), s.ID, s.LexemeID, s.Text, s.HomonymID, s.Contlex, s.Notes, s.Order, s.CreatedAt)
}

func (r *Repo) DeleteStem(ctx context.Context, id uuid.UUID) (domain.Stem, error) {
	return stems.delete(ctx, r.q(ctx), id)
}

func (r *Repo) ListStems(ctx context.Context, lexemeIDs []uuid.UUID) ([]domain.Stem, error) {
	return stems.listByParents(ctx, r.q(ctx), lexemeIDs)
}

// ---------------------------------------------------------------------------
// Mini paradigms
// ---------------------------------------------------------------------------

func (r *Repo) CreateMiniParadigm(ctx context.Context, p domain.MiniParadigm) (domain.MiniParadigm, error) {
	return paradigms.insert(ctx, r.q(ctx), p.ID, p.LexemeID, p.MSD, p.Wordform, p.CreatedAt)
}

func (r *Repo) DeleteMiniParadigm(ctx context.Context, id uuid.UUID) (domain.MiniParadigm, error) {
	return paradigms.delete(ctx, r.q(ctx), id)
}

func (r *Repo) ListMiniParadigms(ctx context.Context, lexemeIDs []uuid.UUID) ([]domain.MiniParadigm, error) {
	return paradigms.listByParents(ctx, r.q(ctx), lexemeIDs)
}

// ---------------------------------------------------------------------------
// Affiliations
// ---------------------------------------------------------------------------

func (r *Repo) CreateAffiliation(ctx context.Context, a domain.Affiliation) (domain.Affiliation, error) {
	return affiliations.insert(ctx, r.q(ctx), a.ID, a.LexemeID, a.Title, a.Link, string(a.Type), a.Checked, a.CreatedAt)
}

func (r *Repo) DeleteAffiliation(ctx context.Context, id uuid.UUID) (domain.Affiliation, error) {
	return affiliations.delete(ctx, r.q(ctx), id)
}

func (r *Repo) ListAffiliations(ctx context.Context, lexemeIDs []uuid.UUID) ([]domain.Affiliation, error) {
	return affiliations.listByParents(ctx, r.q(ctx), lexemeIDs)
}

// ---------------------------------------------------------------------------
// Relation examples and sources
// ---------------------------------------------------------------------------

func (r *Repo) CreateRelationExample(ctx context.Context, e domain.RelationExample) (domain.RelationExample, error) {
	return relationExamples.insert(ctx, r.q(ctx), e.ID, e.RelationID, e.Text, e.Language, e.CreatedAt)
}

func (r *Repo) DeleteRelationExample(ctx context.Context, id uuid.UUID) (domain.RelationExample, error) {
	return relationExamples.delete(ctx, r.q(ctx), id)
}

func (r *Repo) ListRelationExamples(ctx context.Context, relationIDs []uuid.UUID) ([]domain.RelationExample, error) {
	return relationExamples.listByParents(ctx, r.q(ctx), relationIDs)
}

func (r *Repo) CreateSource(ctx context.Context, s domain.Source) (domain.Source, error) {
	return sources.insert(ctx, r.q(ctx), s.ID, s.RelationID, s.Name, s.PageInfo, string(s.Type), s.CreatedAt)
}

func (r *Repo) DeleteSource(ctx context.Context, id uuid.UUID) (domain.Source, error) {
	return sources.delete(ctx, r.q(ctx), id)
}

func (r *Repo) ListSources(ctx context.Context, relationIDs []uuid.UUID) ([]domain.Source, error) {
	return sources.listByParents(ctx, r.q(ctx), relationIDs)
}

// ---------------------------------------------------------------------------
// Batch insert methods (pgx.Batch API)
// ---------------------------------------------------------------------------

// BulkInsertStems inserts stems, skipping (lexeme, text, contlex) duplicates.
func (r *Repo) BulkInsertStems(ctx context.Context, items []domain.Stem) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	batch := &pgx.Batch{}
	for _, s := range items {
		batch.Queue(
			`INSERT INTO stems (id, lexeme_id, text, homonym_id, contlex, notes, position, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 ON CONFLICT (lexeme_id, text, contlex) DO NOTHING`,
			s.ID, s.LexemeID, s.Text, s.HomonymID, s.Contlex, s.Notes, s.Order, s.CreatedAt,
		)
	}
	return postgres.SendBatchExec(ctx, r.q(ctx), batch)
}

// BulkInsertExamples inserts examples, skipping (lexeme, text) duplicates.
func (r *Repo) BulkInsertExamples(ctx context.Context, items []domain.Example) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	batch := &pgx.Batch{}
	for _, e := range items {
		batch.Queue(
			`INSERT INTO examples (id, lexeme_id, text, source, created_at)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (lexeme_id, text) DO NOTHING`,
			e.ID, e.LexemeID, e.Text, e.Source, e.CreatedAt,
		)
	}
	return postgres.SendBatchExec(ctx, r.q(ctx), batch)
}

// BulkInsertAffiliations inserts affiliations, skipping (lexeme, title, type) duplicates.
func (r *Repo) BulkInsertAffiliations(ctx context.Context, items []domain.Affiliation) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	batch := &pgx.Batch{}
	for _, a := range items {
		batch.Queue(
			`INSERT INTO affiliations (id, lexeme_id, title, link, type, checked, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (lexeme_id, title, type) DO NOTHING`,
			a.ID, a.LexemeID, a.Title, a.Link, string(a.Type), a.Checked, a.CreatedAt,
		)
	}
	return postgres.SendBatchExec(ctx, r.q(ctx), batch)
}

// BulkInsertRelationExamples inserts relation examples whose text is not
// yet attached to the relation.
func (r *Repo) BulkInsertRelationExamples(ctx context.Context, items []domain.RelationExample) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	batch := &pgx.Batch{}
	for _, e := range items {
		batch.Queue(
			`INSERT INTO relation_examples (id, relation_id, text, language, created_at)
			 SELECT $1::uuid, $2::uuid, $3::text, $4::text, $5::timestamptz
			 WHERE NOT EXISTS (SELECT 1 FROM relation_examples WHERE relation_id = $2 AND text = $3)`,
			e.ID, e.RelationID, e.Text, e.Language, e.CreatedAt,
		)
	}
	return postgres.SendBatchExec(ctx, r.q(ctx), batch)
}
