package lexicon

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/verdd/verdd-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// CreateRelation
// ---------------------------------------------------------------------------

// CreateRelation links two existing lexemes. A relation of the same type
// between the same pair in either direction yields ErrAlreadyExists.
func (s *Service) CreateRelation(ctx context.Context, input CreateRelationInput) (domain.Relation, error) {
	userID, err := requireEditor(ctx)
	if err != nil {
		return domain.Relation{}, err
	}
	if err := input.Validate(); err != nil {
		return domain.Relation{}, err
	}

	var created domain.Relation
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		ends, getErr := s.lexemes.GetByIDs(txCtx, []uuid.UUID{input.LexemeFromID, input.LexemeToID})
		if getErr != nil {
			return fmt.Errorf("get lexemes: %w", getErr)
		}
		if missing := missingID(ends, input.LexemeFromID, input.LexemeToID); missing != uuid.Nil {
			return fmt.Errorf("lexeme %s: %w", missing, domain.ErrNotFound)
		}

		exists, existsErr := s.relations.Exists(txCtx, input.LexemeFromID, input.LexemeToID, input.Type)
		if existsErr != nil {
			return fmt.Errorf("check relation: %w", existsErr)
		}
		if exists {
			return fmt.Errorf("relation %s: %w", input.Type, domain.ErrAlreadyExists)
		}

		now := time.Now().UTC()
		var createErr error
		created, createErr = s.relations.Create(txCtx, domain.Relation{
			ID:           uuid.New(),
			LexemeFromID: input.LexemeFromID,
			LexemeToID:   input.LexemeToID,
			Type:         input.Type,
			Notes:        input.Notes,
			Checked:      input.Checked,
			CreatedBy:    userID,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if createErr != nil {
			return fmt.Errorf("create relation: %w", createErr)
		}
		return s.record(txCtx, userID, domain.EntityRelation, created.ID, domain.ActionCreate, relationSnapshot(created))
	})
	if err != nil {
		return domain.Relation{}, err
	}
	return created, nil
}

func missingID(found []domain.Lexeme, ids ...uuid.UUID) uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(found))
	for _, l := range found {
		seen[l.ID] = true
	}
	for _, id := range ids {
		if !seen[id] {
			return id
		}
	}
	return uuid.Nil
}

// ---------------------------------------------------------------------------
// GetRelation / ListRelations
// ---------------------------------------------------------------------------

// GetRelation returns a relation with both lexemes, examples and sources.
func (s *Service) GetRelation(ctx context.Context, id uuid.UUID) (domain.Relation, error) {
	rel, err := s.relations.GetByID(ctx, id)
	if err != nil {
		return domain.Relation{}, err
	}
	rels := []domain.Relation{rel}
	if err := s.attachRelationSatellites(ctx, rels); err != nil {
		return domain.Relation{}, err
	}
	return rels[0], nil
}

// ListRelations returns a page of relations matching the filter.
func (s *Service) ListRelations(ctx context.Context, filter domain.RelationFilter) (domain.Page[domain.Relation], error) {
	var errs []domain.FieldError
	for _, t := range filter.Types {
		if !t.IsValid() {
			errs = append(errs, domain.FieldError{Field: "types", Message: fmt.Sprintf("invalid value %q", t)})
		}
	}
	if filter.FromLanguage != nil && !domain.IsValidLanguage(*filter.FromLanguage) {
		errs = append(errs, domain.FieldError{Field: "from_language", Message: "must be an ISO 639-3 code"})
	}
	if filter.ToLanguage != nil && !domain.IsValidLanguage(*filter.ToLanguage) {
		errs = append(errs, domain.FieldError{Field: "to_language", Message: "must be an ISO 639-3 code"})
	}
	if filter.Offset < 0 {
		errs = append(errs, domain.FieldError{Field: "offset", Message: "must be >= 0"})
	}
	if err := domain.Collect(errs); err != nil {
		return domain.Page[domain.Relation]{}, err
	}

	if filter.Limit <= 0 {
		filter.Limit = s.cfg.DefaultLimit
	}
	if filter.Limit > s.cfg.MaxLimit {
		filter.Limit = s.cfg.MaxLimit
	}

	items, total, err := s.relations.Find(ctx, filter)
	if err != nil {
		return domain.Page[domain.Relation]{}, fmt.Errorf("find relations: %w", err)
	}
	return domain.Page[domain.Relation]{Items: items, Total: total, Limit: filter.Limit, Offset: filter.Offset}, nil
}

// ---------------------------------------------------------------------------
// UpdateRelation
// ---------------------------------------------------------------------------

// UpdateRelation changes the type, notes or checked flag of a relation.
func (s *Service) UpdateRelation(ctx context.Context, input UpdateRelationInput) (domain.Relation, error) {
	userID, err := requireEditor(ctx)
	if err != nil {
		return domain.Relation{}, err
	}
	if err := input.Validate(); err != nil {
		return domain.Relation{}, err
	}

	var result domain.Relation
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		current, getErr := s.relations.GetByID(txCtx, input.ID)
		if getErr != nil {
			return getErr
		}

		next := current
		if input.Type != nil {
			next.Type = *input.Type
		}
		if input.Notes != nil {
			next.Notes = *input.Notes
		}
		if input.Checked != nil {
			next.Checked = *input.Checked
		}

		changes := relationChanges(current, next)
		if len(changes) == 0 {
			result = current
			return nil
		}

		updated, updErr := s.relations.Update(txCtx, next)
		if updErr != nil {
			return fmt.Errorf("update relation: %w", updErr)
		}
		result = updated
		return s.record(txCtx, userID, domain.EntityRelation, updated.ID, domain.ActionUpdate, changes)
	})
	if err != nil {
		return domain.Relation{}, err
	}
	return result, nil
}

// ---------------------------------------------------------------------------
// DeleteRelation
// ---------------------------------------------------------------------------

// DeleteRelation removes a relation with its examples and sources.
func (s *Service) DeleteRelation(ctx context.Context, id uuid.UUID) error {
	userID, err := requireEditor(ctx)
	if err != nil {
		return err
	}

	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		current, getErr := s.relations.GetByID(txCtx, id)
		if getErr != nil {
			return getErr
		}
		if delErr := s.relations.Delete(txCtx, id); delErr != nil {
			return fmt.Errorf("delete relation: %w", delErr)
		}
		return s.record(txCtx, userID, domain.EntityRelation, id, domain.ActionDelete, relationSnapshot(current))
	})
}

// ---------------------------------------------------------------------------
// SetRelationsChecked
// ---------------------------------------------------------------------------

// SetRelationsChecked flags a batch of relations as reviewed.
func (s *Service) SetRelationsChecked(ctx context.Context, input SetCheckedInput) (int, error) {
	userID, err := requireEditor(ctx)
	if err != nil {
		return 0, err
	}
	if err := input.Validate(); err != nil {
		return 0, err
	}

	var changed int
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		current := make([]domain.Relation, 0, len(input.IDs))
		for _, id := range input.IDs {
			rel, getErr := s.relations.GetByID(txCtx, id)
			if errors.Is(getErr, domain.ErrNotFound) {
				continue
			}
			if getErr != nil {
				return fmt.Errorf("get relation: %w", getErr)
			}
			current = append(current, rel)
		}
		n, setErr := s.relations.SetChecked(txCtx, input.IDs, input.Checked)
		if setErr != nil {
			return fmt.Errorf("set checked: %w", setErr)
		}
		changed = n
		for _, rel := range current {
			if rel.Checked == input.Checked {
				continue
			}
			if recErr := s.record(txCtx, userID, domain.EntityRelation, rel.ID, domain.ActionUpdate,
				changeSet{}.with("checked", rel.Checked, input.Checked)); recErr != nil {
				return recErr
			}
		}
		return nil
	})
	return changed, err
}
