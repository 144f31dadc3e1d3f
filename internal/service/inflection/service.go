// Package inflection builds inflection tables and word form analyses on
// top of the HFST transducers and the stored lexicon.
package inflection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/verdd/verdd-backend/internal/domain"
	hfst "github.com/verdd/verdd-backend/internal/inflection"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type lexemeRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Lexeme, error)
	FindByNormalized(ctx context.Context, language string, texts []string) ([]domain.Lexeme, error)
}

type paradigmRepo interface {
	ListMiniParadigms(ctx context.Context, lexemeIDs []uuid.UUID) ([]domain.MiniParadigm, error)
}

type transducers interface {
	Generate(ctx context.Context, lang string, queries []string) (map[string][]string, error)
	Analyze(ctx context.Context, lang, wordform string) ([]hfst.Analysis, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service produces inflection tables and analyses.
type Service struct {
	log       *slog.Logger
	lexemes   lexemeRepo
	paradigms paradigmRepo
	fst       transducers
}

// NewService creates an inflection service.
func NewService(logger *slog.Logger, lexemes lexemeRepo, paradigms paradigmRepo, fst transducers) *Service {
	return &Service{
		log:       logger.With("service", "inflection"),
		lexemes:   lexemes,
		paradigms: paradigms,
		fst:       fst,
	}
}

// Row sources.
const (
	SourceGenerated = "generated"
	SourceParadigm  = "paradigm"
)

// Row is one MSD of an inflection table.
type Row struct {
	MSD    string   `json:"msd"`
	Forms  []string `json:"forms"`
	Source string   `json:"source"`
}

// Table is the inflection table of a lexeme.
type Table struct {
	Lexeme   domain.Lexeme `json:"-"`
	Rows     []Row         `json:"rows"`
	TimedOut bool          `json:"timed_out"`
	// Generated is false when no transducer exists for the language.
	Generated bool `json:"generated"`
}

// InflectLexeme generates the forms of every MSD in the lexeme's paradigm
// template. Stored mini paradigm rows replace the generated forms of the
// same MSD; MSDs only found in stored rows are appended in stored order.
func (s *Service) InflectLexeme(ctx context.Context, id uuid.UUID) (Table, error) {
	lex, err := s.lexemes.GetByID(ctx, id)
	if err != nil {
		return Table{}, fmt.Errorf("get lexeme: %w", err)
	}

	stored, err := s.paradigms.ListMiniParadigms(ctx, []uuid.UUID{id})
	if err != nil {
		return Table{}, fmt.Errorf("list paradigms: %w", err)
	}

	table := Table{Lexeme: lex, Rows: []Row{}}
	template := hfst.Template(lex.Language, lex.POS)

	generated := map[string][]string{}
	if len(template) > 0 {
		queries := make([]string, len(template))
		for i, msd := range template {
			queries[i] = hfst.Query(lex.Lexeme, lex.POS, msd)
		}

		res, genErr := s.fst.Generate(ctx, lex.Language, queries)
		switch {
		case genErr == nil:
			table.Generated = true
		case errors.Is(genErr, hfst.ErrTimeout):
			table.Generated = true
			table.TimedOut = true
			s.log.WarnContext(ctx, "inflection timed out",
				slog.String("lexeme_id", id.String()),
				slog.Int("forms", len(res)),
			)
		case errors.Is(genErr, hfst.ErrNoModel):
			s.log.DebugContext(ctx, "no generator", slog.String("language", lex.Language))
		default:
			return Table{}, fmt.Errorf("generate: %w", genErr)
		}
		for i, msd := range template {
			if forms, ok := res[queries[i]]; ok {
				generated[msd] = forms
			}
		}
	}

	overrides, order := groupParadigms(lex.POS, stored)

	for _, msd := range template {
		if forms, ok := overrides[msd]; ok {
			table.Rows = append(table.Rows, Row{MSD: msd, Forms: forms, Source: SourceParadigm})
			continue
		}
		forms, ok := generated[msd]
		if !ok || len(forms) == 0 {
			continue
		}
		table.Rows = append(table.Rows, Row{MSD: msd, Forms: forms, Source: SourceGenerated})
	}

	inTemplate := make(map[string]struct{}, len(template))
	for _, msd := range template {
		inTemplate[msd] = struct{}{}
	}
	for _, msd := range order {
		if _, ok := inTemplate[msd]; ok {
			continue
		}
		table.Rows = append(table.Rows, Row{MSD: msd, Forms: overrides[msd], Source: SourceParadigm})
	}

	return table, nil
}

func groupParadigms(pos domain.PartOfSpeech, stored []domain.MiniParadigm) (map[string][]string, []string) {
	byMSD := make(map[string][]string, len(stored))
	var order []string
	for _, p := range stored {
		msd := hfst.NormalizeMSD(pos, p.MSD)
		if msd == "" || strings.TrimSpace(p.Wordform) == "" {
			continue
		}
		if _, ok := byMSD[msd]; !ok {
			order = append(order, msd)
		}
		byMSD[msd] = append(byMSD[msd], p.Wordform)
	}
	return byMSD, order
}

// Analysis is a reading of a word form with the lexemes it points to.
type Analysis struct {
	hfst.Analysis
	Lexemes []domain.Lexeme `json:"-"`
}

// AnalyzeWordform analyses form in lang and resolves each lemma against
// the lexicon. Lexemes are matched on lookup form and, when the analysis
// carries a POS tag, on POS.
func (s *Service) AnalyzeWordform(ctx context.Context, lang, form string) ([]Analysis, error) {
	var errs []domain.FieldError
	if !domain.IsValidLanguage(lang) {
		errs = append(errs, domain.FieldError{Field: "language", Message: "must be an ISO 639-3 code"})
	}
	form = domain.CleanText(form)
	if form == "" {
		errs = append(errs, domain.FieldError{Field: "wordform", Message: "required"})
	}
	if err := domain.Collect(errs); err != nil {
		return nil, err
	}

	readings, err := s.fst.Analyze(ctx, lang, form)
	if err != nil {
		if errors.Is(err, hfst.ErrNoModel) {
			return nil, domain.NewValidationError("language", "no analyser for "+lang)
		}
		return nil, fmt.Errorf("analyze: %w", err)
	}
	if len(readings) == 0 {
		return []Analysis{}, nil
	}

	lemmas := make([]string, 0, len(readings))
	seen := make(map[string]struct{}, len(readings))
	for _, r := range readings {
		if _, ok := seen[r.Lemma]; ok {
			continue
		}
		seen[r.Lemma] = struct{}{}
		lemmas = append(lemmas, r.Lemma)
	}

	found, err := s.lexemes.FindByNormalized(ctx, lang, lemmas)
	if err != nil {
		return nil, fmt.Errorf("find lexemes: %w", err)
	}

	out := make([]Analysis, len(readings))
	for i, r := range readings {
		out[i] = Analysis{Analysis: r, Lexemes: []domain.Lexeme{}}
		norm := domain.NormalizeText(r.Lemma)
		for _, l := range found {
			if domain.NormalizeText(l.Lexeme) != norm {
				continue
			}
			if pos := r.POS(); pos != "" && l.POS != "" && string(l.POS) != pos {
				continue
			}
			out[i].Lexemes = append(out[i].Lexemes, l)
		}
	}
	return out, nil
}
