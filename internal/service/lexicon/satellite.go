package lexicon

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/verdd/verdd-backend/internal/domain"
)

// addSatellite validates, inserts and records one satellite row.
func addSatellite[T any](
	ctx context.Context,
	s *Service,
	entity domain.EntityType,
	validate func() error,
	create func(ctx context.Context) (T, error),
	idOf func(T) uuid.UUID,
	snapshot map[string]any,
) (T, error) {
	var zero T
	userID, err := requireEditor(ctx)
	if err != nil {
		return zero, err
	}
	if err := validate(); err != nil {
		return zero, err
	}

	var created T
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var createErr error
		created, createErr = create(txCtx)
		if createErr != nil {
			return fmt.Errorf("create %s: %w", entity, createErr)
		}
		return s.record(txCtx, userID, entity, idOf(created), domain.ActionCreate, snapshot)
	})
	if err != nil {
		return zero, err
	}
	return created, nil
}

// deleteSatellite removes one satellite row and records what was removed.
func deleteSatellite[T any](
	ctx context.Context,
	s *Service,
	entity domain.EntityType,
	id uuid.UUID,
	del func(ctx context.Context, id uuid.UUID) (T, error),
	snapshot func(T) map[string]any,
) error {
	userID, err := requireEditor(ctx)
	if err != nil {
		return err
	}

	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		deleted, delErr := del(txCtx, id)
		if delErr != nil {
			return fmt.Errorf("delete %s: %w", entity, delErr)
		}
		return s.record(txCtx, userID, entity, id, domain.ActionDelete, snapshot(deleted))
	})
}

// ---------------------------------------------------------------------------
// Examples
// ---------------------------------------------------------------------------

func (s *Service) AddExample(ctx context.Context, input AddExampleInput) (domain.Example, error) {
	e := domain.Example{
		ID:        uuid.New(),
		LexemeID:  input.LexemeID,
		Text:      domain.CleanText(input.Text),
		Source:    domain.CleanText(input.Source),
		CreatedAt: time.Now().UTC(),
	}
	return addSatellite(ctx, s, domain.EntityExample, input.Validate,
		func(ctx context.Context) (domain.Example, error) { return s.satellites.CreateExample(ctx, e) },
		func(e domain.Example) uuid.UUID { return e.ID },
		map[string]any{"lexeme_id": e.LexemeID.String(), "text": e.Text},
	)
}

func (s *Service) DeleteExample(ctx context.Context, id uuid.UUID) error {
	return deleteSatellite(ctx, s, domain.EntityExample, id, s.satellites.DeleteExample,
		func(e domain.Example) map[string]any {
			return map[string]any{"lexeme_id": e.LexemeID.String(), "text": e.Text}
		})
}

// ---------------------------------------------------------------------------
// Stems
// ---------------------------------------------------------------------------

func (s *Service) AddStem(ctx context.Context, input AddStemInput) (domain.Stem, error) {
	st := domain.Stem{
		ID:        uuid.New(),
		LexemeID:  input.LexemeID,
		Text:      domain.CleanText(input.Text),
		HomonymID: input.HomonymID,
		Contlex:   input.Contlex,
		Notes:     input.Notes,
		Order:     input.Order,
		CreatedAt: time.Now().UTC(),
	}
	return addSatellite(ctx, s, domain.EntityStem, input.Validate,
		func(ctx context.Context) (domain.Stem, error) { return s.satellites.CreateStem(ctx, st) },
		func(st domain.Stem) uuid.UUID { return st.ID },
		map[string]any{"lexeme_id": st.LexemeID.String(), "text": st.Text, "contlex": st.Contlex},
	)
}

func (s *Service) DeleteStem(ctx context.Context, id uuid.UUID) error {
	return deleteSatellite(ctx, s, domain.EntityStem, id, s.satellites.DeleteStem,
		func(st domain.Stem) map[string]any {
			return map[string]any{"lexeme_id": st.LexemeID.String(), "text": st.Text, "contlex": st.Contlex}
		})
}

// ---------------------------------------------------------------------------
// Mini paradigms
// ---------------------------------------------------------------------------

func (s *Service) AddMiniParadigm(ctx context.Context, input AddMiniParadigmInput) (domain.MiniParadigm, error) {
	p := domain.MiniParadigm{
		ID:        uuid.New(),
		LexemeID:  input.LexemeID,
		MSD:       domain.CleanText(input.MSD),
		Wordform:  domain.CleanText(input.Wordform),
		CreatedAt: time.Now().UTC(),
	}
	return addSatellite(ctx, s, domain.EntityMiniParadigm, input.Validate,
		func(ctx context.Context) (domain.MiniParadigm, error) { return s.satellites.CreateMiniParadigm(ctx, p) },
		func(p domain.MiniParadigm) uuid.UUID { return p.ID },
		map[string]any{"lexeme_id": p.LexemeID.String(), "msd": p.MSD, "wordform": p.Wordform},
	)
}

func (s *Service) DeleteMiniParadigm(ctx context.Context, id uuid.UUID) error {
	return deleteSatellite(ctx, s, domain.EntityMiniParadigm, id, s.satellites.DeleteMiniParadigm,
		func(p domain.MiniParadigm) map[string]any {
			return map[string]any{"lexeme_id": p.LexemeID.String(), "msd": p.MSD, "wordform": p.Wordform}
		})
}

// ---------------------------------------------------------------------------
// Affiliations
// ---------------------------------------------------------------------------

func (s *Service) AddAffiliation(ctx context.Context, input AddAffiliationInput) (domain.Affiliation, error) {
	a := domain.Affiliation{
		ID:        uuid.New(),
		LexemeID:  input.LexemeID,
		Title:     domain.CleanText(input.Title),
		Link:      input.Link,
		Type:      input.Type,
		Checked:   input.Checked,
		CreatedAt: time.Now().UTC(),
	}
	return addSatellite(ctx, s, domain.EntityAffiliation, input.Validate,
		func(ctx context.Context) (domain.Affiliation, error) { return s.satellites.CreateAffiliation(ctx, a) },
		func(a domain.Affiliation) uuid.UUID { return a.ID },
		map[string]any{"lexeme_id": a.LexemeID.String(), "title": a.Title, "type": string(a.Type)},
	)
}

func (s *Service) DeleteAffiliation(ctx context.Context, id uuid.UUID) error {
	return deleteSatellite(ctx, s, domain.EntityAffiliation, id, s.satellites.DeleteAffiliation,
		func(a domain.Affiliation) map[string]any {
			return map[string]any{"lexeme_id": a.LexemeID.String(), "title": a.Title, "type": string(a.Type)}
		})
}

// ---------------------------------------------------------------------------
// Relation examples
// ---------------------------------------------------------------------------

func (s *Service) AddRelationExample(ctx context.Context, input AddRelationExampleInput) (domain.RelationExample, error) {
	e := domain.RelationExample{
		ID:         uuid.New(),
		RelationID: input.RelationID,
		Text:       domain.CleanText(input.Text),
		Language:   input.Language,
		CreatedAt:  time.Now().UTC(),
	}
	return addSatellite(ctx, s, domain.EntityRelationExample, input.Validate,
		func(ctx context.Context) (domain.RelationExample, error) { return s.satellites.CreateRelationExample(ctx, e) },
		func(e domain.RelationExample) uuid.UUID { return e.ID },
		map[string]any{"relation_id": e.RelationID.String(), "text": e.Text, "language": e.Language},
	)
}

func (s *Service) DeleteRelationExample(ctx context.Context, id uuid.UUID) error {
	return deleteSatellite(ctx, s, domain.EntityRelationExample, id, s.satellites.DeleteRelationExample,
		func(e domain.RelationExample) map[string]any {
			return map[string]any{"relation_id": e.RelationID.String(), "text": e.Text, "language": e.Language}
		})
}

// ---------------------------------------------------------------------------
// Sources
// ---------------------------------------------------------------------------

func (s *Service) AddSource(ctx context.Context, input AddSourceInput) (domain.Source, error) {
	src := domain.Source{
		ID:         uuid.New(),
		RelationID: input.RelationID,
		Name:       domain.CleanText(input.Name),
		PageInfo:   domain.CleanText(input.PageInfo),
		Type:       input.Type,
		CreatedAt:  time.Now().UTC(),
	}
	return addSatellite(ctx, s, domain.EntitySource, input.Validate,
		func(ctx context.Context) (domain.Source, error) { return s.satellites.CreateSource(ctx, src) },
		func(src domain.Source) uuid.UUID { return src.ID },
		map[string]any{"relation_id": src.RelationID.String(), "name": src.Name, "type": string(src.Type)},
	)
}

func (s *Service) DeleteSource(ctx context.Context, id uuid.UUID) error {
	return deleteSatellite(ctx, s, domain.EntitySource, id, s.satellites.DeleteSource,
		func(src domain.Source) map[string]any {
			return map[string]any{"relation_id": src.RelationID.String(), "name": src.Name, "type": string(src.Type)}
		})
}
