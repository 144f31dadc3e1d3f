// Package exporter writes the dictionary of one language pair to a file
// format.
package exporter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/verdd/verdd-backend/internal/domain"
	"github.com/verdd/verdd-backend/internal/lexformat"
	"github.com/verdd/verdd-backend/internal/lexformat/codec"
)

// ---------------------------------------------------------------------------
// Consumer interfaces
// ---------------------------------------------------------------------------

type lexemeRepo interface {
	ListByLanguage(ctx context.Context, language string) ([]domain.Lexeme, error)
}

type relationRepo interface {
	ListBetweenLanguages(ctx context.Context, a, b string, types []domain.RelationType) ([]domain.Relation, error)
}

type satelliteRepo interface {
	ListStems(ctx context.Context, lexemeIDs []uuid.UUID) ([]domain.Stem, error)
	ListExamples(ctx context.Context, lexemeIDs []uuid.UUID) ([]domain.Example, error)
	ListRelationExamples(ctx context.Context, relationIDs []uuid.UUID) ([]domain.RelationExample, error)
}

// ObjectStore stores exported files.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
}

// Request selects what to export.
type Request struct {
	Language string
	Target   string
	Format   lexformat.Format
	// Types restricts relations; empty means every type.
	Types []domain.RelationType
	// TranslatedOnly drops lexemes without a relation to Target.
	TranslatedOnly bool
}

// Validate checks the request fields.
func (r Request) Validate() error {
	var errs []domain.FieldError
	if !domain.IsValidLanguage(r.Language) {
		errs = append(errs, domain.FieldError{Field: "language", Message: "invalid language code"})
	}
	if !domain.IsValidLanguage(r.Target) {
		errs = append(errs, domain.FieldError{Field: "target", Message: "invalid language code"})
	} else if r.Target == r.Language {
		errs = append(errs, domain.FieldError{Field: "target", Message: "must differ from language"})
	}
	if _, err := lexformat.ParseFormat(string(r.Format)); err != nil {
		errs = append(errs, domain.FieldError{Field: "format", Message: err.Error()})
	}
	for _, t := range r.Types {
		if !t.IsValid() {
			errs = append(errs, domain.FieldError{Field: "types", Message: fmt.Sprintf("unknown relation type %q", t)})
		}
	}
	return domain.Collect(errs)
}

// Exporter loads lexemes with their relations and satellites and encodes
// them.
type Exporter struct {
	log        *slog.Logger
	lexemes    lexemeRepo
	relations  relationRepo
	satellites satelliteRepo
}

// New creates an Exporter.
func New(logger *slog.Logger, lexemes lexemeRepo, relations relationRepo, satellites satelliteRepo) *Exporter {
	return &Exporter{
		log:        logger.With("component", "exporter"),
		lexemes:    lexemes,
		relations:  relations,
		satellites: satellites,
	}
}

// Export writes the records selected by req to w and returns how many
// records were written.
func (e *Exporter) Export(ctx context.Context, w io.Writer, req Request) (int, error) {
	records, err := e.Records(ctx, req)
	if err != nil {
		return 0, err
	}
	if err := codec.Write(req.Format, w, records); err != nil {
		return 0, fmt.Errorf("write %s: %w", req.Format, err)
	}
	e.log.InfoContext(ctx, "export written",
		slog.String("language", req.Language),
		slog.String("target", req.Target),
		slog.String("format", string(req.Format)),
		slog.Int("records", len(records)),
	)
	return len(records), nil
}

// Upload exports into memory and stores the result under ObjectKey. It
// returns the location reported by the store.
func (e *Exporter) Upload(ctx context.Context, store ObjectStore, req Request, now time.Time) (string, error) {
	var buf bytes.Buffer
	if _, err := e.Export(ctx, &buf, req); err != nil {
		return "", err
	}
	key := ObjectKey(req.Language, req.Target, req.Format, now)
	loc, err := store.Put(ctx, key, &buf, int64(buf.Len()), codec.ContentType(req.Format))
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return loc, nil
}

// ObjectKey names an uploaded export: exports/<lang>-<target>/<timestamp>.<ext>.
func ObjectKey(language, target string, f lexformat.Format, now time.Time) string {
	return fmt.Sprintf("exports/%s-%s/%s.%s", language, target, now.UTC().Format("20060102T150405Z"), f.Ext())
}

// Records loads and assembles the records selected by req.
func (e *Exporter) Records(ctx context.Context, req Request) ([]lexformat.Record, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var (
		lexemes []domain.Lexeme
		rels    []domain.Relation
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lexemes, err = e.lexemes.ListByLanguage(gctx, req.Language)
		if err != nil {
			return fmt.Errorf("list lexemes: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		rels, err = e.relations.ListBetweenLanguages(gctx, req.Language, req.Target, req.Types)
		if err != nil {
			return fmt.Errorf("list relations: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	lexemeIDs := make([]uuid.UUID, len(lexemes))
	for i := range lexemes {
		lexemeIDs[i] = lexemes[i].ID
	}
	relationIDs := make([]uuid.UUID, len(rels))
	for i := range rels {
		relationIDs[i] = rels[i].ID
	}

	var (
		stems       []domain.Stem
		examples    []domain.Example
		relExamples []domain.RelationExample
	)
	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stems, err = e.satellites.ListStems(gctx, lexemeIDs)
		return err
	})
	g.Go(func() error {
		var err error
		examples, err = e.satellites.ListExamples(gctx, lexemeIDs)
		return err
	})
	g.Go(func() error {
		var err error
		relExamples, err = e.satellites.ListRelationExamples(gctx, relationIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load satellites: %w", err)
	}

	return assemble(req, lexemes, rels, stems, examples, relExamples), nil
}

func entryOf(l *domain.Lexeme) lexformat.Entry {
	return lexformat.Entry{
		Text:      l.Lexeme,
		HomonymID: l.HomonymID,
		Language:  l.Language,
		POS:       l.POS,
		Contlex:   l.Contlex,
	}
}

// assemble builds one record per source lexeme. Relations stored in the
// target-to-source direction are exported from the source side.
func assemble(
	req Request,
	lexemes []domain.Lexeme,
	rels []domain.Relation,
	stems []domain.Stem,
	examples []domain.Example,
	relExamples []domain.RelationExample,
) []lexformat.Record {
	stemsBy := make(map[uuid.UUID][]lexformat.Stem)
	for _, s := range stems {
		stemsBy[s.LexemeID] = append(stemsBy[s.LexemeID], lexformat.Stem{Text: s.Text, Contlex: s.Contlex})
	}
	examplesBy := make(map[uuid.UUID][]lexformat.Example)
	for _, ex := range examples {
		examplesBy[ex.LexemeID] = append(examplesBy[ex.LexemeID], lexformat.Example{Text: ex.Text})
	}
	relExamplesBy := make(map[uuid.UUID][]domain.RelationExample)
	for _, ex := range relExamples {
		relExamplesBy[ex.RelationID] = append(relExamplesBy[ex.RelationID], ex)
	}

	translationsBy := make(map[uuid.UUID][]lexformat.Translation)
	for i := range rels {
		rel := &rels[i]
		if rel.LexemeFrom == nil || rel.LexemeTo == nil {
			continue
		}
		src, dst := rel.LexemeFrom, rel.LexemeTo
		if src.Language != req.Language {
			src, dst = dst, src
		}
		translationsBy[src.ID] = append(translationsBy[src.ID], lexformat.Translation{
			Entry:    entryOf(dst),
			Type:     rel.Type,
			Notes:    rel.Notes,
			Examples: pairExamples(relExamplesBy[rel.ID], req.Target),
		})
	}

	records := make([]lexformat.Record, 0, len(lexemes))
	for i := range lexemes {
		l := &lexemes[i]
		translations := translationsBy[l.ID]
		if req.TranslatedOnly && len(translations) == 0 {
			continue
		}
		records = append(records, lexformat.Record{
			Lexeme:       entryOf(l),
			Notes:        l.Notes,
			Stems:        stemsBy[l.ID],
			Examples:     examplesBy[l.ID],
			Translations: translations,
		})
	}
	return records
}

// pairExamples zips source-language and target-language relation examples
// by position. Examples in other languages are exported as source text.
func pairExamples(items []domain.RelationExample, target string) []lexformat.Example {
	var src, dst []string
	for _, ex := range items {
		if ex.Language == target {
			dst = append(dst, ex.Text)
		} else {
			src = append(src, ex.Text)
		}
	}

	var out []lexformat.Example
	for i := 0; i < max(len(src), len(dst)); i++ {
		var ex lexformat.Example
		if i < len(src) {
			ex.Text = src[i]
		}
		if i < len(dst) {
			ex.Translation = dst[i]
		}
		if ex.Text == "" {
			ex.Text, ex.Translation = ex.Translation, ""
		}
		out = append(out, ex)
	}
	return out
}
