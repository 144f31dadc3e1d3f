package lexicon

import (
	"context"

	"github.com/google/uuid"

	"github.com/verdd/verdd-backend/internal/domain"
)

// ===========================================================================
// Manual mocks (moq-style with func fields)
// ===========================================================================

type mockLexemeRepo struct {
	GetByIDFunc    func(ctx context.Context, id uuid.UUID) (domain.Lexeme, error)
	GetByIDsFunc   func(ctx context.Context, ids []uuid.UUID) ([]domain.Lexeme, error)
	FindFunc       func(ctx context.Context, filter domain.LexemeFilter) ([]domain.Lexeme, int, error)
	CreateFunc     func(ctx context.Context, l domain.Lexeme) (domain.Lexeme, error)
	UpdateFunc     func(ctx context.Context, l domain.Lexeme) (domain.Lexeme, error)
	DeleteFunc     func(ctx context.Context, id uuid.UUID) error
	SetCheckedFunc func(ctx context.Context, ids []uuid.UUID, checked bool) (int, error)

	updateCalls int
}

func (m *mockLexemeRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Lexeme, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return domain.Lexeme{}, domain.ErrNotFound
}

func (m *mockLexemeRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Lexeme, error) {
	if m.GetByIDsFunc != nil {
		return m.GetByIDsFunc(ctx, ids)
	}
	return nil, nil
}

func (m *mockLexemeRepo) Find(ctx context.Context, filter domain.LexemeFilter) ([]domain.Lexeme, int, error) {
	if m.FindFunc != nil {
		return m.FindFunc(ctx, filter)
	}
	return nil, 0, nil
}

func (m *mockLexemeRepo) Create(ctx context.Context, l domain.Lexeme) (domain.Lexeme, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, l)
	}
	return l, nil
}

func (m *mockLexemeRepo) Update(ctx context.Context, l domain.Lexeme) (domain.Lexeme, error) {
	m.updateCalls++
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, l)
	}
	return l, nil
}

func (m *mockLexemeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *mockLexemeRepo) SetChecked(ctx context.Context, ids []uuid.UUID, checked bool) (int, error) {
	if m.SetCheckedFunc != nil {
		return m.SetCheckedFunc(ctx, ids, checked)
	}
	return len(ids), nil
}

type mockRelationRepo struct {
	GetByIDFunc      func(ctx context.Context, id uuid.UUID) (domain.Relation, error)
	ListByLexemeFunc func(ctx context.Context, lexemeID uuid.UUID) ([]domain.Relation, []domain.Relation, error)
	FindFunc         func(ctx context.Context, f domain.RelationFilter) ([]domain.Relation, int, error)
	ExistsFunc       func(ctx context.Context, from, to uuid.UUID, typ domain.RelationType) (bool, error)
	CreateFunc       func(ctx context.Context, rel domain.Relation) (domain.Relation, error)
	UpdateFunc       func(ctx context.Context, rel domain.Relation) (domain.Relation, error)
	DeleteFunc       func(ctx context.Context, id uuid.UUID) error
	SetCheckedFunc   func(ctx context.Context, ids []uuid.UUID, checked bool) (int, error)

	createCalls int
}

func (m *mockRelationRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Relation, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return domain.Relation{}, domain.ErrNotFound
}

func (m *mockRelationRepo) ListByLexeme(ctx context.Context, lexemeID uuid.UUID) ([]domain.Relation, []domain.Relation, error) {
	if m.ListByLexemeFunc != nil {
		return m.ListByLexemeFunc(ctx, lexemeID)
	}
	return []domain.Relation{}, []domain.Relation{}, nil
}

func (m *mockRelationRepo) Find(ctx context.Context, f domain.RelationFilter) ([]domain.Relation, int, error) {
	if m.FindFunc != nil {
		return m.FindFunc(ctx, f)
	}
	return nil, 0, nil
}

func (m *mockRelationRepo) Exists(ctx context.Context, from, to uuid.UUID, typ domain.RelationType) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, from, to, typ)
	}
	return false, nil
}

func (m *mockRelationRepo) Create(ctx context.Context, rel domain.Relation) (domain.Relation, error) {
	m.createCalls++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, rel)
	}
	return rel, nil
}

func (m *mockRelationRepo) Update(ctx context.Context, rel domain.Relation) (domain.Relation, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, rel)
	}
	return rel, nil
}

func (m *mockRelationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *mockRelationRepo) SetChecked(ctx context.Context, ids []uuid.UUID, checked bool) (int, error) {
	if m.SetCheckedFunc != nil {
		return m.SetCheckedFunc(ctx, ids, checked)
	}
	return len(ids), nil
}

// mockSatelliteRepo echoes created rows back and returns empty lists.
type mockSatelliteRepo struct {
	ListExamplesFunc         func(ctx context.Context, lexemeIDs []uuid.UUID) ([]domain.Example, error)
	ListRelationExamplesFunc func(ctx context.Context, relationIDs []uuid.UUID) ([]domain.RelationExample, error)
	ListSourcesFunc          func(ctx context.Context, relationIDs []uuid.UUID) ([]domain.Source, error)
	CreateStemFunc           func(ctx context.Context, s domain.Stem) (domain.Stem, error)
	DeleteExampleFunc        func(ctx context.Context, id uuid.UUID) (domain.Example, error)
}

func (m *mockSatelliteRepo) CreateExample(_ context.Context, e domain.Example) (domain.Example, error) {
	return e, nil
}

func (m *mockSatelliteRepo) DeleteExample(ctx context.Context, id uuid.UUID) (domain.Example, error) {
	if m.DeleteExampleFunc != nil {
		return m.DeleteExampleFunc(ctx, id)
	}
	return domain.Example{ID: id}, nil
}

func (m *mockSatelliteRepo) ListExamples(ctx context.Context, lexemeIDs []uuid.UUID) ([]domain.Example, error) {
	if m.ListExamplesFunc != nil {
		return m.ListExamplesFunc(ctx, lexemeIDs)
	}
	return []domain.Example{}, nil
}

func (m *mockSatelliteRepo) CreateStem(ctx context.Context, s domain.Stem) (domain.Stem, error) {
	if m.CreateStemFunc != nil {
		return m.CreateStemFunc(ctx, s)
	}
	return s, nil
}

func (m *mockSatelliteRepo) DeleteStem(_ context.Context, id uuid.UUID) (domain.Stem, error) {
	return domain.Stem{ID: id}, nil
}

func (m *mockSatelliteRepo) ListStems(_ context.Context, _ []uuid.UUID) ([]domain.Stem, error) {
	return []domain.Stem{}, nil
}

func (m *mockSatelliteRepo) CreateMiniParadigm(_ context.Context, p domain.MiniParadigm) (domain.MiniParadigm, error) {
	return p, nil
}

func (m *mockSatelliteRepo) DeleteMiniParadigm(_ context.Context, id uuid.UUID) (domain.MiniParadigm, error) {
	return domain.MiniParadigm{ID: id}, nil
}

func (m *mockSatelliteRepo) ListMiniParadigms(_ context.Context, _ []uuid.UUID) ([]domain.MiniParadigm, error) {
	return []domain.MiniParadigm{}, nil
}

func (m *mockSatelliteRepo) CreateAffiliation(_ context.Context, a domain.Affiliation) (domain.Affiliation, error) {
	return a, nil
}

func (m *mockSatelliteRepo) DeleteAffiliation(_ context.Context, id uuid.UUID) (domain.Affiliation, error) {
	return domain.Affiliation{ID: id}, nil
}

func (m *mockSatelliteRepo) ListAffiliations(_ context.Context, _ []uuid.UUID) ([]domain.Affiliation, error) {
	return []domain.Affiliation{}, nil
}

func (m *mockSatelliteRepo) CreateRelationExample(_ context.Context, e domain.RelationExample) (domain.RelationExample, error) {
	return e, nil
}

func (m *mockSatelliteRepo) DeleteRelationExample(_ context.Context, id uuid.UUID) (domain.RelationExample, error) {
	return domain.RelationExample{ID: id}, nil
}

func (m *mockSatelliteRepo) ListRelationExamples(ctx context.Context, relationIDs []uuid.UUID) ([]domain.RelationExample, error) {
	if m.ListRelationExamplesFunc != nil {
		return m.ListRelationExamplesFunc(ctx, relationIDs)
	}
	return nil, nil
}

func (m *mockSatelliteRepo) CreateSource(_ context.Context, s domain.Source) (domain.Source, error) {
	return s, nil
}

func (m *mockSatelliteRepo) DeleteSource(_ context.Context, id uuid.UUID) (domain.Source, error) {
	return domain.Source{ID: id}, nil
}

func (m *mockSatelliteRepo) ListSources(ctx context.Context, relationIDs []uuid.UUID) ([]domain.Source, error) {
	if m.ListSourcesFunc != nil {
		return m.ListSourcesFunc(ctx, relationIDs)
	}
	return nil, nil
}

type mockHistoryRepo struct {
	LogFunc func(ctx context.Context, record domain.HistoryRecord) error
	records []domain.HistoryRecord
}

func (m *mockHistoryRepo) Log(ctx context.Context, record domain.HistoryRecord) error {
	if m.LogFunc != nil {
		return m.LogFunc(ctx, record)
	}
	m.records = append(m.records, record)
	return nil
}

type mockTxManager struct {
	calls int
}

func (m *mockTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}
