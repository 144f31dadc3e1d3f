package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verdd/verdd-backend/internal/domain"
	"github.com/verdd/verdd-backend/internal/lexformat"
	"github.com/verdd/verdd-backend/internal/lexformat/codec"
	"github.com/verdd/verdd-backend/pkg/ctxutil"
)

// Stage names in execution order.
const (
	StageParse            = "parse"
	StageLexemes          = "lexemes"
	StageRelations        = "relations"
	StageStems            = "stems"
	StageExamples         = "examples"
	StageRelationExamples = "relation_examples"
	StageHistory          = "history"
)

// Stages lists every stage in execution order.
var Stages = []string{StageParse, StageLexemes, StageRelations, StageStems, StageExamples, StageRelationExamples, StageHistory}

// StageResult holds the outcome of a single pipeline stage.
type StageResult struct {
	Inserted int
	Skipped  int
	Duration time.Duration
	Err      error
}

// Pipeline parses one file and writes it stage by stage.
type Pipeline struct {
	log        *slog.Logger
	repos      Repos
	cfg        Config
	results    map[string]StageResult
	lineErrors []lexformat.LineError
}

// NewPipeline creates a new Pipeline.
func NewPipeline(log *slog.Logger, repos Repos, cfg Config) *Pipeline {
	return &Pipeline{
		log:     log.With("component", "importer"),
		repos:   repos,
		cfg:     cfg,
		results: make(map[string]StageResult),
	}
}

// Results returns stage results after Run completes.
func (p *Pipeline) Results() map[string]StageResult {
	return p.results
}

// LineErrors returns the rejected input lines.
func (p *Pipeline) LineErrors() []lexformat.LineError {
	return p.lineErrors
}

// HasErrors returns true if any stage failed or any line was rejected.
func (p *Pipeline) HasErrors() bool {
	if len(p.lineErrors) > 0 {
		return true
	}
	for _, r := range p.results {
		if r.Err != nil {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Plan
// ---------------------------------------------------------------------------

type plannedLexeme struct {
	entry lexformat.Entry
	notes string
}

type plannedRelation struct {
	from, to domain.LexemeKey
	typ      domain.RelationType
	notes    string
	examples []lexformat.Example
}

type plannedStem struct {
	owner domain.LexemeKey
	stem  lexformat.Stem
	order int
}

type plannedExample struct {
	owner   domain.LexemeKey
	example lexformat.Example
}

// plan is the deduplicated content of a parsed file.
type plan struct {
	keys      []domain.LexemeKey
	lexemes   map[domain.LexemeKey]plannedLexeme
	relations []plannedRelation
	stems     []plannedStem
	examples  []plannedExample

	ids         map[domain.LexemeKey]uuid.UUID
	relationIDs map[domain.RelationKey]uuid.UUID
}

func (pl *plan) addLexeme(e lexformat.Entry, notes string) domain.LexemeKey {
	key := e.Key()
	existing, ok := pl.lexemes[key]
	if !ok {
		pl.keys = append(pl.keys, key)
		pl.lexemes[key] = plannedLexeme{entry: e, notes: notes}
		return key
	}
	if existing.entry.Contlex == "" && e.Contlex != "" {
		existing.entry.Contlex = e.Contlex
	}
	if existing.notes == "" {
		existing.notes = notes
	}
	pl.lexemes[key] = existing
	return key
}

func checkEntry(e lexformat.Entry) string {
	switch {
	case domain.CleanText(e.Text) == "":
		return "empty lexeme"
	case e.Language == "":
		return "missing language"
	case !domain.IsValidLanguage(e.Language):
		return fmt.Sprintf("invalid language %q", e.Language)
	}
	return ""
}

// buildPlan turns records into a plan and reports records it cannot use.
func buildPlan(records []lexformat.Record) (*plan, []lexformat.LineError) {
	pl := &plan{lexemes: make(map[domain.LexemeKey]plannedLexeme)}
	var errs []lexformat.LineError
	seen := make(map[[2]domain.LexemeKey]map[domain.RelationType]int)

	for _, rec := range records {
		if reason := checkEntry(rec.Lexeme); reason != "" {
			errs = append(errs, lexformat.LineError{Line: rec.Line, Reason: reason})
			continue
		}
		from := pl.addLexeme(rec.Lexeme, rec.Notes)

		for i, st := range rec.Stems {
			if strings.TrimSpace(st.Text) == "" {
				continue
			}
			pl.stems = append(pl.stems, plannedStem{owner: from, stem: st, order: i})
		}
		for _, ex := range rec.Examples {
			if strings.TrimSpace(ex.Text) == "" {
				continue
			}
			pl.examples = append(pl.examples, plannedExample{owner: from, example: ex})
		}

		for _, tr := range rec.Translations {
			if reason := checkEntry(tr.Entry); reason != "" {
				errs = append(errs, lexformat.LineError{Line: rec.Line, Reason: "translation: " + reason})
				continue
			}
			to := tr.Key()
			if to == from {
				errs = append(errs, lexformat.LineError{Line: rec.Line, Reason: "translation equals lexeme"})
				continue
			}
			pl.addLexeme(tr.Entry, "")

			pair := [2]domain.LexemeKey{from, to}
			byType := seen[pair]
			if byType == nil {
				byType = make(map[domain.RelationType]int)
				seen[pair] = byType
			}
			if idx, dup := byType[tr.Type]; dup {
				pl.relations[idx].examples = append(pl.relations[idx].examples, tr.Examples...)
				continue
			}
			byType[tr.Type] = len(pl.relations)
			pl.relations = append(pl.relations, plannedRelation{
				from: from, to: to, typ: tr.Type, notes: tr.Notes, examples: tr.Examples,
			})
		}
	}
	return pl, errs
}

// ---------------------------------------------------------------------------
// Run
// ---------------------------------------------------------------------------

// Run parses r and writes its content. Line errors do not stop the import;
// a failing stage does, and inside a transaction it rolls back every write.
func (p *Pipeline) Run(ctx context.Context, r io.Reader) error {
	if err := p.cfg.Validate(); err != nil {
		return err
	}

	var res lexformat.Result
	err := p.runStage(StageParse, func() StageResult {
		var err error
		res, err = codec.Parse(p.cfg.Format, r, p.cfg.options())
		if err != nil {
			return StageResult{Err: err}
		}
		return StageResult{Inserted: len(res.Records), Skipped: len(res.Errors)}
	})
	if err != nil {
		return err
	}
	return p.load(ctx, res.Records, res.Errors)
}

// RunRecords writes records that were produced without a file, such as
// TermWiki concepts.
func (p *Pipeline) RunRecords(ctx context.Context, records []lexformat.Record) error {
	if err := p.cfg.Validate(); err != nil {
		return err
	}
	return p.load(ctx, records, nil)
}

func (p *Pipeline) load(ctx context.Context, records []lexformat.Record, parseErrs []lexformat.LineError) error {
	pl, planErrs := buildPlan(records)
	p.lineErrors = append(parseErrs, planErrs...)

	write := func(ctx context.Context) error {
		for _, st := range []struct {
			name string
			fn   func(context.Context, *plan) StageResult
		}{
			{StageLexemes, p.runLexemes},
			{StageRelations, p.runRelations},
			{StageStems, p.runStems},
			{StageExamples, p.runExamples},
			{StageRelationExamples, p.runRelationExamples},
			{StageHistory, p.runHistory},
		} {
			if err := p.runStage(st.name, func() StageResult { return st.fn(ctx, pl) }); err != nil {
				return err
			}
		}
		return nil
	}

	var err error
	if p.repos.Tx != nil && !p.cfg.DryRun {
		err = p.repos.Tx.RunInTx(ctx, write)
	} else {
		err = write(ctx)
	}
	if err != nil {
		return err
	}

	p.log.Info("import completed",
		slog.String("format", p.source()),
		slog.Int("records", len(records)),
		slog.Int("line_errors", len(p.lineErrors)),
		slog.Bool("dry_run", p.cfg.DryRun),
	)
	return nil
}

// source names the input in logs and history.
func (p *Pipeline) source() string {
	if p.cfg.Format != "" {
		return string(p.cfg.Format)
	}
	return p.cfg.ImportedFrom
}

func (p *Pipeline) runStage(name string, fn func() StageResult) error {
	start := time.Now()
	p.log.Info("starting stage", slog.String("stage", name))

	result := fn()
	result.Duration = time.Since(start)
	p.results[name] = result

	if result.Err != nil {
		p.log.Warn("stage failed",
			slog.String("stage", name),
			slog.String("error", result.Err.Error()),
			slog.Duration("duration", result.Duration),
		)
		return fmt.Errorf("%s: %w", name, result.Err)
	}
	p.log.Info("stage completed",
		slog.String("stage", name),
		slog.Int("inserted", result.Inserted),
		slog.Int("skipped", result.Skipped),
		slog.Duration("duration", result.Duration),
	)
	return nil
}

// runLexemes resolves every key and inserts the missing lexemes.
func (p *Pipeline) runLexemes(ctx context.Context, pl *plan) StageResult {
	ids, err := p.lookupLexemes(ctx, pl.keys)
	if err != nil {
		return StageResult{Err: err}
	}

	now := time.Now().UTC()
	var (
		missing    []domain.LexemeKey
		newLexemes []domain.Lexeme
	)
	for _, key := range pl.keys {
		if _, ok := ids[key]; ok {
			continue
		}
		planned := pl.lexemes[key]
		l := domain.Lexeme{
			ID:           uuid.New(),
			Lexeme:       key.Lexeme,
			HomonymID:    key.HomonymID,
			Language:     key.Language,
			POS:          key.POS,
			Contlex:      planned.entry.Contlex,
			Notes:        planned.notes,
			ImportedFrom: p.cfg.ImportedFrom,
			CreatedBy:    actor(ctx),
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		l.DerivePhonetics()
		missing = append(missing, key)
		newLexemes = append(newLexemes, l)
	}
	existing := len(pl.keys) - len(missing)

	if p.cfg.DryRun {
		for i, key := range missing {
			ids[key] = newLexemes[i].ID
		}
		pl.ids = ids
		return StageResult{Inserted: len(missing), Skipped: existing}
	}

	inserted, err := batchProcess(newLexemes, p.cfg.batchSize(), func(batch []domain.Lexeme) (int, error) {
		return p.repos.Lexemes.BulkInsert(ctx, batch)
	})
	if err != nil {
		return StageResult{Inserted: inserted, Err: err}
	}

	// Rows skipped on conflict were created concurrently; re-read their ids.
	resolved, err := p.lookupLexemes(ctx, missing)
	if err != nil {
		return StageResult{Inserted: inserted, Err: err}
	}
	maps.Copy(ids, resolved)
	if len(ids) != len(pl.keys) {
		return StageResult{Inserted: inserted, Err: fmt.Errorf("%d lexemes could not be resolved", len(pl.keys)-len(ids))}
	}
	pl.ids = ids

	return StageResult{Inserted: inserted, Skipped: len(pl.keys) - inserted}
}

func (p *Pipeline) runRelations(ctx context.Context, pl *plan) StageResult {
	now := time.Now().UTC()
	rels := make([]domain.Relation, 0, len(pl.relations))
	for _, pr := range pl.relations {
		rels = append(rels, domain.Relation{
			ID:           uuid.New(),
			LexemeFromID: pl.ids[pr.from],
			LexemeToID:   pl.ids[pr.to],
			Type:         pr.typ,
			Notes:        pr.notes,
			CreatedBy:    actor(ctx),
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}

	if p.cfg.DryRun {
		pl.relationIDs = make(map[domain.RelationKey]uuid.UUID, len(rels))
		for i := range rels {
			pl.relationIDs[rels[i].Key()] = rels[i].ID
		}
		return StageResult{Inserted: len(rels)}
	}

	inserted, err := batchProcess(rels, p.cfg.batchSize(), func(batch []domain.Relation) (int, error) {
		return p.repos.Relations.BulkInsert(ctx, batch)
	})
	if err != nil {
		return StageResult{Inserted: inserted, Err: err}
	}
	return StageResult{Inserted: inserted, Skipped: len(rels) - inserted}
}

func (p *Pipeline) runStems(ctx context.Context, pl *plan) StageResult {
	now := time.Now().UTC()
	stems := make([]domain.Stem, 0, len(pl.stems))
	for _, ps := range pl.stems {
		stems = append(stems, domain.Stem{
			ID:        uuid.New(),
			LexemeID:  pl.ids[ps.owner],
			Text:      strings.TrimSpace(ps.stem.Text),
			HomonymID: ps.owner.HomonymID,
			Contlex:   ps.stem.Contlex,
			Order:     ps.order,
			CreatedAt: now,
		})
	}
	if p.cfg.DryRun {
		return StageResult{Inserted: len(stems)}
	}

	inserted, err := batchProcess(stems, p.cfg.batchSize(), func(batch []domain.Stem) (int, error) {
		return p.repos.Satellites.BulkInsertStems(ctx, batch)
	})
	if err != nil {
		return StageResult{Inserted: inserted, Err: err}
	}
	return StageResult{Inserted: inserted, Skipped: len(stems) - inserted}
}

func (p *Pipeline) runExamples(ctx context.Context, pl *plan) StageResult {
	now := time.Now().UTC()
	examples := make([]domain.Example, 0, len(pl.examples))
	for _, pe := range pl.examples {
		examples = append(examples, domain.Example{
			ID:        uuid.New(),
			LexemeID:  pl.ids[pe.owner],
			Text:      strings.TrimSpace(pe.example.Text),
			Source:    p.cfg.ImportedFrom,
			CreatedAt: now,
		})
	}
	if p.cfg.DryRun {
		return StageResult{Inserted: len(examples)}
	}

	inserted, err := batchProcess(examples, p.cfg.batchSize(), func(batch []domain.Example) (int, error) {
		return p.repos.Satellites.BulkInsertExamples(ctx, batch)
	})
	if err != nil {
		return StageResult{Inserted: inserted, Err: err}
	}
	return StageResult{Inserted: inserted, Skipped: len(examples) - inserted}
}

// runRelationExamples attaches examples to relations. An example's text is
// stored in the source language and its translation in the target language.
func (p *Pipeline) runRelationExamples(ctx context.Context, pl *plan) StageResult {
	var keys []domain.RelationKey
	for _, pr := range pl.relations {
		if len(pr.examples) > 0 {
			keys = append(keys, relationKey(pl, pr))
		}
	}
	if len(keys) == 0 {
		return StageResult{}
	}

	ids := pl.relationIDs
	if !p.cfg.DryRun {
		var err error
		ids, err = p.lookupRelations(ctx, keys)
		if err != nil {
			return StageResult{Err: err}
		}
	}

	now := time.Now().UTC()
	var items []domain.RelationExample
	for _, pr := range pl.relations {
		relID, ok := ids[relationKey(pl, pr)]
		if !ok {
			continue
		}
		for _, ex := range pr.examples {
			if t := strings.TrimSpace(ex.Text); t != "" {
				items = append(items, domain.RelationExample{
					ID: uuid.New(), RelationID: relID, Text: t, Language: pr.from.Language, CreatedAt: now,
				})
			}
			if t := strings.TrimSpace(ex.Translation); t != "" {
				items = append(items, domain.RelationExample{
					ID: uuid.New(), RelationID: relID, Text: t, Language: pr.to.Language, CreatedAt: now,
				})
			}
		}
	}
	if p.cfg.DryRun {
		return StageResult{Inserted: len(items)}
	}

	inserted, err := batchProcess(items, p.cfg.batchSize(), func(batch []domain.RelationExample) (int, error) {
		return p.repos.Satellites.BulkInsertRelationExamples(ctx, batch)
	})
	if err != nil {
		return StageResult{Inserted: inserted, Err: err}
	}
	return StageResult{Inserted: inserted, Skipped: len(items) - inserted}
}

// runHistory writes one record summarising the import.
func (p *Pipeline) runHistory(ctx context.Context, _ *plan) StageResult {
	changes := map[string]any{
		"format":        p.source(),
		"imported_from": p.cfg.ImportedFrom,
		"line_errors":   len(p.lineErrors),
	}
	for _, name := range []string{StageLexemes, StageRelations, StageStems, StageExamples, StageRelationExamples} {
		changes[name] = p.results[name].Inserted
	}
	if p.cfg.DryRun {
		return StageResult{Skipped: 1}
	}

	rec := domain.NewHistoryRecord(actor(ctx), domain.EntityImport, uuid.New(), domain.ActionCreate, changes)
	if err := p.repos.History.Log(ctx, rec); err != nil {
		return StageResult{Err: err}
	}
	return StageResult{Inserted: 1}
}

func relationKey(pl *plan, pr plannedRelation) domain.RelationKey {
	return domain.RelationKey{From: pl.ids[pr.from], To: pl.ids[pr.to], Type: pr.typ}
}

func actor(ctx context.Context) *uuid.UUID {
	if id, ok := ctxutil.UserIDFromCtx(ctx); ok {
		return &id
	}
	return nil
}

// ---------------------------------------------------------------------------
// Batching
// ---------------------------------------------------------------------------

// batchProcess splits items into batches and processes each via fn.
func batchProcess[T any](items []T, batchSize int, fn func([]T) (int, error)) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	total := 0
	for i := 0; i < len(items); i += batchSize {
		end := min(i+batchSize, len(items))
		n, err := fn(items[i:end])
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// batchedLookup resolves keys in chunks of batchSize.
func batchedLookup[K comparable](keys []K, batchSize int, fn func([]K) (map[K]uuid.UUID, error)) (map[K]uuid.UUID, error) {
	result := make(map[K]uuid.UUID, len(keys))
	if len(keys) == 0 {
		return result, nil
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	for i := 0; i < len(keys); i += batchSize {
		end := min(i+batchSize, len(keys))
		batch, err := fn(keys[i:end])
		if err != nil {
			return nil, err
		}
		maps.Copy(result, batch)
	}
	return result, nil
}

func (p *Pipeline) lookupLexemes(ctx context.Context, keys []domain.LexemeKey) (map[domain.LexemeKey]uuid.UUID, error) {
	return batchedLookup(keys, p.cfg.batchSize(), func(batch []domain.LexemeKey) (map[domain.LexemeKey]uuid.UUID, error) {
		return p.repos.Lexemes.FindByKeys(ctx, batch)
	})
}

func (p *Pipeline) lookupRelations(ctx context.Context, keys []domain.RelationKey) (map[domain.RelationKey]uuid.UUID, error) {
	return batchedLookup(keys, p.cfg.batchSize(), func(batch []domain.RelationKey) (map[domain.RelationKey]uuid.UUID, error) {
		return p.repos.Relations.FindIDs(ctx, batch)
	})
}
