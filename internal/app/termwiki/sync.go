// Package termwiki mirrors TermWiki concept pages into the dictionary.
package termwiki

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	wiki "github.com/verdd/verdd-backend/internal/adapter/termwiki"
	"github.com/verdd/verdd-backend/internal/app/importer"
	"github.com/verdd/verdd-backend/internal/config"
	"github.com/verdd/verdd-backend/internal/domain"
	"github.com/verdd/verdd-backend/internal/lexformat"
)

// ImportedFrom labels lexemes created by a sync.
const ImportedFrom = "termwiki"

// ---------------------------------------------------------------------------
// Consumer interfaces
// ---------------------------------------------------------------------------

type wikiClient interface {
	CategoryMembers(ctx context.Context, category string) ([]string, error)
	FetchPages(ctx context.Context, titles []string) (map[string]string, error)
	PageURL(title string) string
}

type affiliationRepo interface {
	BulkInsertAffiliations(ctx context.Context, items []domain.Affiliation) (int, error)
}

// Report summarises one sync.
type Report struct {
	Pages        int
	Concepts     int
	Expressions  int
	Lexemes      int
	Relations    int
	Affiliations int
	LineErrors   []lexformat.LineError
	Duration     time.Duration
}

// Syncer pulls concepts from the wiki and writes them through the import
// pipeline.
type Syncer struct {
	log          *slog.Logger
	wiki         wikiClient
	repos        importer.Repos
	affiliations affiliationRepo
	cfg          config.TermWikiConfig
	batchSize    int
	dryRun       bool
}

// NewSyncer creates a Syncer. batchSize is passed to the import pipeline.
func NewSyncer(logger *slog.Logger, client wikiClient, repos importer.Repos, affiliations affiliationRepo, cfg config.TermWikiConfig, batchSize int, dryRun bool) *Syncer {
	return &Syncer{
		log:          logger.With("service", "termwiki"),
		wiki:         client,
		repos:        repos,
		affiliations: affiliations,
		cfg:          cfg,
		batchSize:    batchSize,
		dryRun:       dryRun,
	}
}

// Sync lists the configured category, fetches every page and stores the
// expressions as lexemes, translation relations and termwiki affiliations.
func (s *Syncer) Sync(ctx context.Context) (Report, error) {
	start := time.Now()
	var report Report

	titles, err := s.wiki.CategoryMembers(ctx, s.cfg.Category)
	if err != nil {
		return report, err
	}
	report.Pages = len(titles)
	s.log.InfoContext(ctx, "termwiki pages listed", slog.String("category", s.cfg.Category), slog.Int("pages", len(titles)))

	pages, err := s.fetchAll(ctx, titles)
	if err != nil {
		return report, err
	}

	var concepts []wiki.Concept
	for _, title := range titles {
		text, ok := pages[title]
		if !ok {
			continue
		}
		c := wiki.ParseConcept(title, text)
		if len(c.Expressions) == 0 {
			continue
		}
		concepts = append(concepts, c)
		report.Expressions += len(c.Expressions)
	}
	report.Concepts = len(concepts)

	records := ConceptRecords(concepts, s.cfg.SourceLanguage)
	pipeline := importer.NewPipeline(s.log, s.repos, importer.Config{
		SourceLanguage: s.cfg.SourceLanguage,
		RelationType:   domain.RelationTranslation,
		ImportedFrom:   ImportedFrom,
		BatchSize:      s.batchSize,
		DryRun:         s.dryRun,
	})

	write := func(ctx context.Context) error {
		if err := pipeline.RunRecords(ctx, records); err != nil {
			return err
		}
		if s.dryRun {
			return nil
		}
		n, err := s.linkPages(ctx, concepts)
		if err != nil {
			return fmt.Errorf("affiliations: %w", err)
		}
		report.Affiliations = n
		return nil
	}
	if s.repos.Tx != nil && !s.dryRun {
		err = s.repos.Tx.RunInTx(ctx, write)
	} else {
		err = write(ctx)
	}

	results := pipeline.Results()
	report.Lexemes = results[importer.StageLexemes].Inserted
	report.Relations = results[importer.StageRelations].Inserted
	report.LineErrors = pipeline.LineErrors()
	report.Duration = time.Since(start)
	if err != nil {
		return report, err
	}

	s.log.InfoContext(ctx, "termwiki sync completed",
		slog.Int("concepts", report.Concepts),
		slog.Int("lexemes", report.Lexemes),
		slog.Int("relations", report.Relations),
		slog.Int("affiliations", report.Affiliations),
		slog.Duration("duration", report.Duration),
	)
	return report, nil
}

// fetchAll downloads pages in batches of wiki.MaxTitlesPerRequest with at
// most cfg.Concurrency requests in flight.
func (s *Syncer) fetchAll(ctx context.Context, titles []string) (map[string]string, error) {
	var (
		mu  sync.Mutex
		out = make(map[string]string, len(titles))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.cfg.Concurrency, 1))

	for i := 0; i < len(titles); i += wiki.MaxTitlesPerRequest {
		batch := titles[i:min(i+wiki.MaxTitlesPerRequest, len(titles))]
		g.Go(func() error {
			pages, err := s.wiki.FetchPages(gctx, batch)
			if err != nil {
				return err
			}
			mu.Lock()
			maps.Copy(out, pages)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// linkPages attaches the concept page to every lexeme of the concept.
func (s *Syncer) linkPages(ctx context.Context, concepts []wiki.Concept) (int, error) {
	var keys []domain.LexemeKey
	seen := make(map[domain.LexemeKey]bool)
	for _, c := range concepts {
		for _, e := range c.Expressions {
			k := entryOf(e).Key()
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}

	ids := make(map[domain.LexemeKey]uuid.UUID, len(keys))
	size := s.batchSize
	if size <= 0 {
		size = 500
	}
	for i := 0; i < len(keys); i += size {
		found, err := s.repos.Lexemes.FindByKeys(ctx, keys[i:min(i+size, len(keys))])
		if err != nil {
			return 0, err
		}
		maps.Copy(ids, found)
	}

	now := time.Now().UTC()
	var items []domain.Affiliation
	for _, c := range concepts {
		link := s.wiki.PageURL(c.Title)
		done := make(map[uuid.UUID]bool)
		for _, e := range c.Expressions {
			id, ok := ids[entryOf(e).Key()]
			if !ok || done[id] {
				continue
			}
			done[id] = true
			items = append(items, domain.Affiliation{
				ID:        uuid.New(),
				LexemeID:  id,
				Title:     c.Title,
				Link:      link,
				Type:      domain.AffiliationTermWiki,
				CreatedAt: now,
			})
		}
	}

	total := 0
	for i := 0; i < len(items); i += size {
		n, err := s.affiliations.BulkInsertAffiliations(ctx, items[i:min(i+size, len(items))])
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func entryOf(e wiki.Expression) lexformat.Entry {
	return lexformat.Entry{
		Text:     e.Expression,
		Language: e.Language,
		POS:      domain.ParsePartOfSpeech(e.POS),
	}
}

// ConceptRecords turns concepts into import records: every source-language
// expression gets a translation to every expression in another language.
// Expressions of concepts without a source-language expression become
// records without translations. Line is the concept's position.
func ConceptRecords(concepts []wiki.Concept, source string) []lexformat.Record {
	var records []lexformat.Record
	for i, c := range concepts {
		var src, other []lexformat.Entry
		for _, e := range c.Expressions {
			if e.Language == source {
				src = append(src, entryOf(e))
			} else {
				other = append(other, entryOf(e))
			}
		}

		for _, s := range src {
			rec := lexformat.Record{Line: i + 1, Lexeme: s}
			for _, o := range other {
				rec.Translations = append(rec.Translations, lexformat.Translation{
					Entry: o,
					Type:  domain.RelationTranslation,
				})
			}
			records = append(records, rec)
		}
		if len(src) == 0 {
			for _, o := range other {
				records = append(records, lexformat.Record{Line: i + 1, Lexeme: o})
			}
		}
	}
	return records
}
