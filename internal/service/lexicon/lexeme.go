package lexicon

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/verdd/verdd-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// CreateLexeme
// ---------------------------------------------------------------------------

// CreateLexeme stores a new lexeme with derived phonetic keys.
func (s *Service) CreateLexeme(ctx context.Context, input CreateLexemeInput) (domain.Lexeme, error) {
	userID, err := requireEditor(ctx)
	if err != nil {
		return domain.Lexeme{}, err
	}
	if err := input.Validate(); err != nil {
		return domain.Lexeme{}, err
	}

	now := time.Now().UTC()
	lex := domain.Lexeme{
		ID:            uuid.New(),
		Lexeme:        domain.CleanText(input.Lexeme),
		HomonymID:     input.HomonymID,
		Language:      input.Language,
		POS:           input.POS,
		Contlex:       input.Contlex,
		Type:          input.Type,
		LemmaID:       input.LemmaID,
		InflexID:      input.InflexID,
		InflexType:    input.InflexType,
		Specification: input.Specification,
		Notes:         input.Notes,
		Checked:       input.Checked,
		CreatedBy:     userID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	lex.DerivePhonetics()

	var created domain.Lexeme
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var createErr error
		created, createErr = s.lexemes.Create(txCtx, lex)
		if createErr != nil {
			return fmt.Errorf("create lexeme: %w", createErr)
		}
		return s.record(txCtx, userID, domain.EntityLexeme, created.ID, domain.ActionCreate, lexemeSnapshot(created))
	})
	if err != nil {
		return domain.Lexeme{}, err
	}

	s.log.InfoContext(ctx, "lexeme created",
		slog.String("lexeme_id", created.ID.String()),
		slog.String("language", created.Language),
	)
	return created, nil
}

// ---------------------------------------------------------------------------
// GetLexeme
// ---------------------------------------------------------------------------

// GetLexeme returns a lexeme with its relations in both directions and all
// satellite records.
func (s *Service) GetLexeme(ctx context.Context, id uuid.UUID) (domain.Lexeme, error) {
	lex, err := s.lexemes.GetByID(ctx, id)
	if err != nil {
		return domain.Lexeme{}, err
	}

	ids := []uuid.UUID{id}

	if lex.RelationsFrom, lex.RelationsTo, err = s.relations.ListByLexeme(ctx, id); err != nil {
		return domain.Lexeme{}, fmt.Errorf("list relations: %w", err)
	}
	if lex.Examples, err = s.satellites.ListExamples(ctx, ids); err != nil {
		return domain.Lexeme{}, fmt.Errorf("list examples: %w", err)
	}
	if lex.Stems, err = s.satellites.ListStems(ctx, ids); err != nil {
		return domain.Lexeme{}, fmt.Errorf("list stems: %w", err)
	}
	if lex.MiniParadigms, err = s.satellites.ListMiniParadigms(ctx, ids); err != nil {
		return domain.Lexeme{}, fmt.Errorf("list paradigms: %w", err)
	}
	if lex.Affiliations, err = s.satellites.ListAffiliations(ctx, ids); err != nil {
		return domain.Lexeme{}, fmt.Errorf("list affiliations: %w", err)
	}

	if err := s.attachRelationSatellites(ctx, lex.RelationsFrom, lex.RelationsTo); err != nil {
		return domain.Lexeme{}, err
	}
	return lex, nil
}

// attachRelationSatellites loads examples and sources for every relation in
// the given slices, in place.
func (s *Service) attachRelationSatellites(ctx context.Context, groups ...[]domain.Relation) error {
	var relIDs []uuid.UUID
	for _, g := range groups {
		for _, r := range g {
			relIDs = append(relIDs, r.ID)
		}
	}
	if len(relIDs) == 0 {
		return nil
	}

	examples, err := s.satellites.ListRelationExamples(ctx, relIDs)
	if err != nil {
		return fmt.Errorf("list relation examples: %w", err)
	}
	sources, err := s.satellites.ListSources(ctx, relIDs)
	if err != nil {
		return fmt.Errorf("list sources: %w", err)
	}

	exByRel := make(map[uuid.UUID][]domain.RelationExample, len(examples))
	for _, e := range examples {
		exByRel[e.RelationID] = append(exByRel[e.RelationID], e)
	}
	srcByRel := make(map[uuid.UUID][]domain.Source, len(sources))
	for _, src := range sources {
		srcByRel[src.RelationID] = append(srcByRel[src.RelationID], src)
	}

	for _, g := range groups {
		for i := range g {
			g[i].Examples = exByRel[g[i].ID]
			g[i].Sources = srcByRel[g[i].ID]
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// UpdateLexeme
// ---------------------------------------------------------------------------

// UpdateLexeme applies a partial update. Only changed fields are written to
// history; an update that changes nothing returns the current lexeme
// without touching the database.
func (s *Service) UpdateLexeme(ctx context.Context, input UpdateLexemeInput) (domain.Lexeme, error) {
	userID, err := requireEditor(ctx)
	if err != nil {
		return domain.Lexeme{}, err
	}
	if err := input.Validate(); err != nil {
		return domain.Lexeme{}, err
	}

	var result domain.Lexeme
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		current, getErr := s.lexemes.GetByID(txCtx, input.ID)
		if getErr != nil {
			return getErr
		}

		next := applyLexemeUpdate(current, input)
		changes := lexemeChanges(current, next)
		if len(changes) == 0 {
			result = current
			return nil
		}
		next.DerivePhonetics()

		updated, updErr := s.lexemes.Update(txCtx, next)
		if updErr != nil {
			return fmt.Errorf("update lexeme: %w", updErr)
		}
		result = updated
		return s.record(txCtx, userID, domain.EntityLexeme, updated.ID, domain.ActionUpdate, changes)
	})
	if err != nil {
		return domain.Lexeme{}, err
	}
	return result, nil
}

func applyLexemeUpdate(l domain.Lexeme, in UpdateLexemeInput) domain.Lexeme {
	if in.Lexeme != nil {
		l.Lexeme = domain.CleanText(*in.Lexeme)
	}
	if in.HomonymID != nil {
		l.HomonymID = *in.HomonymID
	}
	if in.Language != nil {
		l.Language = *in.Language
	}
	if in.POS != nil {
		l.POS = *in.POS
	}
	if in.Contlex != nil {
		l.Contlex = *in.Contlex
	}
	if in.Type != nil {
		l.Type = *in.Type
	}
	if in.LemmaID != nil {
		l.LemmaID = *in.LemmaID
	}
	if in.InflexID != nil {
		l.InflexID = *in.InflexID
	}
	if in.InflexType != nil {
		l.InflexType = *in.InflexType
	}
	if in.Specification != nil {
		l.Specification = *in.Specification
	}
	if in.Notes != nil {
		l.Notes = *in.Notes
	}
	if in.Checked != nil {
		l.Checked = *in.Checked
	}
	return l
}

// ---------------------------------------------------------------------------
// DeleteLexeme
// ---------------------------------------------------------------------------

// DeleteLexeme removes a lexeme. Its relations and satellites cascade.
func (s *Service) DeleteLexeme(ctx context.Context, id uuid.UUID) error {
	userID, err := requireEditor(ctx)
	if err != nil {
		return err
	}

	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		current, getErr := s.lexemes.GetByID(txCtx, id)
		if getErr != nil {
			return getErr
		}
		if delErr := s.lexemes.Delete(txCtx, id); delErr != nil {
			return fmt.Errorf("delete lexeme: %w", delErr)
		}
		return s.record(txCtx, userID, domain.EntityLexeme, id, domain.ActionDelete, lexemeSnapshot(current))
	})
}

// ---------------------------------------------------------------------------
// SearchLexemes
// ---------------------------------------------------------------------------

// SearchLexemes returns a page of lexemes matching the filter.
func (s *Service) SearchLexemes(ctx context.Context, filter domain.LexemeFilter) (domain.Page[domain.Lexeme], error) {
	if err := s.validateFilter(&filter); err != nil {
		return domain.Page[domain.Lexeme]{}, err
	}

	items, total, err := s.lexemes.Find(ctx, filter)
	if err != nil {
		return domain.Page[domain.Lexeme]{}, fmt.Errorf("find lexemes: %w", err)
	}
	return domain.Page[domain.Lexeme]{Items: items, Total: total, Limit: filter.Limit, Offset: filter.Offset}, nil
}

func (s *Service) validateFilter(f *domain.LexemeFilter) error {
	var errs []domain.FieldError

	if f.Language != nil && !domain.IsValidLanguage(*f.Language) {
		errs = append(errs, domain.FieldError{Field: "language", Message: "must be an ISO 639-3 code"})
	}
	if f.POS != nil && !f.POS.IsValid() {
		errs = append(errs, domain.FieldError{Field: "pos", Message: "invalid value"})
	}
	switch f.SortBy {
	case "", "lexeme", "created_at", "updated_at":
	default:
		errs = append(errs, domain.FieldError{Field: "sort_by", Message: "must be lexeme, created_at or updated_at"})
	}
	switch f.SortOrder {
	case "", "asc", "desc", "ASC", "DESC":
	default:
		errs = append(errs, domain.FieldError{Field: "sort_order", Message: "must be asc or desc"})
	}
	if f.Offset < 0 {
		errs = append(errs, domain.FieldError{Field: "offset", Message: "must be >= 0"})
	}
	if err := domain.Collect(errs); err != nil {
		return err
	}

	if f.Limit <= 0 {
		f.Limit = s.cfg.DefaultLimit
	}
	if f.Limit > s.cfg.MaxLimit {
		f.Limit = s.cfg.MaxLimit
	}
	return nil
}

// ---------------------------------------------------------------------------
// SetLexemesChecked
// ---------------------------------------------------------------------------

// SetLexemesChecked flags a batch of lexemes as reviewed and returns the
// number of rows that changed.
func (s *Service) SetLexemesChecked(ctx context.Context, input SetCheckedInput) (int, error) {
	userID, err := requireEditor(ctx)
	if err != nil {
		return 0, err
	}
	if err := input.Validate(); err != nil {
		return 0, err
	}

	var changed int
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		current, getErr := s.lexemes.GetByIDs(txCtx, input.IDs)
		if getErr != nil {
			return fmt.Errorf("get lexemes: %w", getErr)
		}
		n, setErr := s.lexemes.SetChecked(txCtx, input.IDs, input.Checked)
		if setErr != nil {
			return fmt.Errorf("set checked: %w", setErr)
		}
		changed = n
		for _, l := range current {
			if l.Checked == input.Checked {
				continue
			}
			if recErr := s.record(txCtx, userID, domain.EntityLexeme, l.ID, domain.ActionUpdate,
				changeSet{}.with("checked", l.Checked, input.Checked)); recErr != nil {
				return recErr
			}
		}
		return nil
	})
	return changed, err
}
