// Package lexicon implements editing of lexemes, relations and their
// satellite records. Every write is recorded in the change history within
// the same transaction.
package lexicon

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/verdd/verdd-backend/internal/config"
	"github.com/verdd/verdd-backend/internal/domain"
	"github.com/verdd/verdd-backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type lexemeRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Lexeme, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Lexeme, error)
	Find(ctx context.Context, filter domain.LexemeFilter) ([]domain.Lexeme, int, error)
	Create(ctx context.Context, l domain.Lexeme) (domain.Lexeme, error)
	Update(ctx context.Context, l domain.Lexeme) (domain.Lexeme, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetChecked(ctx context.Context, ids []uuid.UUID, checked bool) (int, error)
}

type relationRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Relation, error)
	ListByLexeme(ctx context.Context, lexemeID uuid.UUID) (outgoing, incoming []domain.Relation, err error)
	Find(ctx context.Context, f domain.RelationFilter) ([]domain.Relation, int, error)
	Exists(ctx context.Context, from, to uuid.UUID, typ domain.RelationType) (bool, error)
	Create(ctx context.Context, rel domain.Relation) (domain.Relation, error)
	Update(ctx context.Context, rel domain.Relation) (domain.Relation, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetChecked(ctx context.Context, ids []uuid.UUID, checked bool) (int, error)
}

type satelliteRepo interface {
	CreateExample(ctx context.Context, e domain.Example) (domain.Example, error)
	DeleteExample(ctx context.Context, id uuid.UUID) (domain.Example, error)
	ListExamples(ctx context.Context, lexemeIDs []uuid.UUID) ([]domain.Example, error)

	CreateStem(ctx context.Context, s domain.Stem) (domain.Stem, error)
	DeleteStem(ctx context.Context, id uuid.UUID) (domain.Stem, error)
	ListStems(ctx context.Context, lexemeIDs []uuid.UUID) ([]domain.Stem, error)

	CreateMiniParadigm(ctx context.Context, p domain.MiniParadigm) (domain.MiniParadigm, error)
	DeleteMiniParadigm(ctx context.Context, id uuid.UUID) (domain.MiniParadigm, error)
	ListMiniParadigms(ctx context.Context, lexemeIDs []uuid.UUID) ([]domain.MiniParadigm, error)

	CreateAffiliation(ctx context.Context, a domain.Affiliation) (domain.Affiliation, error)
	DeleteAffiliation(ctx context.Context, id uuid.UUID) (domain.Affiliation, error)
	ListAffiliations(ctx context.Context, lexemeIDs []uuid.UUID) ([]domain.Affiliation, error)

	CreateRelationExample(ctx context.Context, e domain.RelationExample) (domain.RelationExample, error)
	DeleteRelationExample(ctx context.Context, id uuid.UUID) (domain.RelationExample, error)
	ListRelationExamples(ctx context.Context, relationIDs []uuid.UUID) ([]domain.RelationExample, error)

	CreateSource(ctx context.Context, s domain.Source) (domain.Source, error)
	DeleteSource(ctx context.Context, id uuid.UUID) (domain.Source, error)
	ListSources(ctx context.Context, relationIDs []uuid.UUID) ([]domain.Source, error)
}

type historyRepo interface {
	Log(ctx context.Context, record domain.HistoryRecord) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the lexicon business logic.
type Service struct {
	log        *slog.Logger
	lexemes    lexemeRepo
	relations  relationRepo
	satellites satelliteRepo
	history    historyRepo
	tx         txManager
	cfg        config.LexiconConfig
}

// NewService creates a new lexicon service.
func NewService(
	logger *slog.Logger,
	lexemes lexemeRepo,
	relations relationRepo,
	satellites satelliteRepo,
	history historyRepo,
	tx txManager,
	cfg config.LexiconConfig,
) *Service {
	return &Service{
		log:        logger.With("service", "lexicon"),
		lexemes:    lexemes,
		relations:  relations,
		satellites: satellites,
		history:    history,
		tx:         tx,
		cfg:        cfg,
	}
}

// requireEditor returns the acting user id when the caller may change data.
func requireEditor(ctx context.Context) (*uuid.UUID, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if !domain.Role(ctxutil.RoleFromCtx(ctx)).CanEdit() {
		return nil, domain.ErrForbidden
	}
	return &userID, nil
}

// record writes one history row. Must be called inside RunInTx.
func (s *Service) record(ctx context.Context, userID *uuid.UUID, entity domain.EntityType, id uuid.UUID, action domain.HistoryAction, changes map[string]any) error {
	if err := s.history.Log(ctx, domain.NewHistoryRecord(userID, entity, id, action, changes)); err != nil {
		return fmt.Errorf("history %s %s: %w", action, entity, err)
	}
	return nil
}
