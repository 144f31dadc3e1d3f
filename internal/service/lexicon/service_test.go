package lexicon

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdd/verdd-backend/internal/config"
	"github.com/verdd/verdd-backend/internal/domain"
	"github.com/verdd/verdd-backend/pkg/ctxutil"
)

type testDeps struct {
	lexemes    *mockLexemeRepo
	relations  *mockRelationRepo
	satellites *mockSatelliteRepo
	history    *mockHistoryRepo
	tx         *mockTxManager
}

func newTestService() (*Service, *testDeps) {
	deps := &testDeps{
		lexemes:    &mockLexemeRepo{},
		relations:  &mockRelationRepo{},
		satellites: &mockSatelliteRepo{},
		history:    &mockHistoryRepo{},
		tx:         &mockTxManager{},
	}
	svc := NewService(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		deps.lexemes, deps.relations, deps.satellites, deps.history, deps.tx,
		config.LexiconConfig{DefaultLimit: 50, MaxLimit: 500},
	)
	return svc, deps
}

func editorCtx() context.Context {
	ctx := ctxutil.WithUserID(context.Background(), uuid.New())
	return ctxutil.WithRole(ctx, string(domain.RoleEditor))
}

func viewerCtx() context.Context {
	ctx := ctxutil.WithUserID(context.Background(), uuid.New())
	return ctxutil.WithRole(ctx, string(domain.RoleViewer))
}

func ptr[T any](v T) *T { return &v }

// ---------------------------------------------------------------------------
// Authorization
// ---------------------------------------------------------------------------

func TestService_Writes_RequireEditor(t *testing.T) {
	t.Parallel()

	svc, deps := newTestService()
	input := CreateLexemeInput{Lexeme: "kuõll", Language: "sms", POS: domain.PartOfSpeechNoun}

	_, err := svc.CreateLexeme(context.Background(), input)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.CreateLexeme(viewerCtx(), input)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = svc.DeleteRelation(viewerCtx(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrForbidden)

	assert.Zero(t, deps.tx.calls)
	assert.Empty(t, deps.history.records)
}

// ---------------------------------------------------------------------------
// CreateLexeme
// ---------------------------------------------------------------------------

func TestService_CreateLexeme_Success(t *testing.T) {
	t.Parallel()

	svc, deps := newTestService()
	var stored domain.Lexeme
	deps.lexemes.CreateFunc = func(_ context.Context, l domain.Lexeme) (domain.Lexeme, error) {
		stored = l
		return l, nil
	}

	got, err := svc.CreateLexeme(editorCtx(), CreateLexemeInput{
		Lexeme:   "  kuõll  ",
		Language: "sms",
		POS:      domain.PartOfSpeechNoun,
	})
	require.NoError(t, err)

	assert.Equal(t, "kuõll", got.Lexeme)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.NotNil(t, got.CreatedBy)
	assert.Equal(t, "uõ", stored.Assonance)
	assert.Equal(t, "kll", stored.Consonance)

	require.Len(t, deps.history.records, 1)
	rec := deps.history.records[0]
	assert.Equal(t, domain.EntityLexeme, rec.EntityType)
	assert.Equal(t, domain.ActionCreate, rec.Action)
	assert.Equal(t, got.ID, rec.EntityID)
	assert.Equal(t, "kuõll", rec.Changes["lexeme"])
}

func TestService_CreateLexeme_Validation(t *testing.T) {
	t.Parallel()

	svc, deps := newTestService()
	_, err := svc.CreateLexeme(editorCtx(), CreateLexemeInput{
		Lexeme:    " ",
		Language:  "Finnish",
		POS:       "Noun-ish",
		HomonymID: -1,
	})
	require.ErrorIs(t, err, domain.ErrValidation)

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	fields := make([]string, 0, len(ve.Errors))
	for _, fe := range ve.Errors {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"lexeme", "homonym_id", "language", "pos"}, fields)
	assert.Zero(t, deps.tx.calls)
}

func TestService_CreateLexeme_Duplicate(t *testing.T) {
	t.Parallel()

	svc, deps := newTestService()
	deps.lexemes.CreateFunc = func(context.Context, domain.Lexeme) (domain.Lexeme, error) {
		return domain.Lexeme{}, domain.ErrAlreadyExists
	}

	_, err := svc.CreateLexeme(editorCtx(), CreateLexemeInput{Lexeme: "talo", Language: "fin"})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	assert.Empty(t, deps.history.records)
}

func TestService_CreateLexeme_HistoryFailureAborts(t *testing.T) {
	t.Parallel()

	svc, deps := newTestService()
	deps.history.LogFunc = func(context.Context, domain.HistoryRecord) error {
		return errors.New("disk full")
	}

	_, err := svc.CreateLexeme(editorCtx(), CreateLexemeInput{Lexeme: "talo", Language: "fin"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "history create lexeme")
}

// ---------------------------------------------------------------------------
// GetLexeme
// ---------------------------------------------------------------------------

func TestService_GetLexeme_LoadsRelationsAndSatellites(t *testing.T) {
	t.Parallel()

	svc, deps := newTestService()
	lexID, relID := uuid.New(), uuid.New()

	deps.lexemes.GetByIDFunc = func(_ context.Context, id uuid.UUID) (domain.Lexeme, error) {
		return domain.Lexeme{ID: id, Lexeme: "kuõll", Language: "sms"}, nil
	}
	deps.relations.ListByLexemeFunc = func(context.Context, uuid.UUID) ([]domain.Relation, []domain.Relation, error) {
		return []domain.Relation{{ID: relID, LexemeFromID: lexID, Type: domain.RelationTranslation}}, []domain.Relation{}, nil
	}
	deps.satellites.ListExamplesFunc = func(context.Context, []uuid.UUID) ([]domain.Example, error) {
		return []domain.Example{{ID: uuid.New(), LexemeID: lexID, Text: "Kuõll lij čääʹcest."}}, nil
	}
	deps.satellites.ListSourcesFunc = func(_ context.Context, ids []uuid.UUID) ([]domain.Source, error) {
		assert.Equal(t, []uuid.UUID{relID}, ids)
		return []domain.Source{{ID: uuid.New(), RelationID: relID, Name: "Sääʹmǩiõll-lääʹddǩiõll sääʹnnǩeʹrjj"}}, nil
	}

	got, err := svc.GetLexeme(context.Background(), lexID)
	require.NoError(t, err)

	require.Len(t, got.RelationsFrom, 1)
	assert.Empty(t, got.RelationsTo)
	require.Len(t, got.RelationsFrom[0].Sources, 1)
	assert.Len(t, got.Examples, 1)
}

func TestService_GetLexeme_NotFound(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	_, err := svc.GetLexeme(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---------------------------------------------------------------------------
// UpdateLexeme
// ---------------------------------------------------------------------------

func TestService_UpdateLexeme_RecordsOnlyChangedFields(t *testing.T) {
	t.Parallel()

	svc, deps := newTestService()
	id := uuid.New()
	deps.lexemes.GetByIDFunc = func(context.Context, uuid.UUID) (domain.Lexeme, error) {
		return domain.Lexeme{ID: id, Lexeme: "kuõll", Language: "sms", POS: domain.PartOfSpeechNoun, Notes: "old"}, nil
	}
	var written domain.Lexeme
	deps.lexemes.UpdateFunc = func(_ context.Context, l domain.Lexeme) (domain.Lexeme, error) {
		written = l
		return l, nil
	}

	got, err := svc.UpdateLexeme(editorCtx(), UpdateLexemeInput{
		ID:       id,
		Lexeme:   ptr("kueʹll"),
		Language: ptr("sms"),
		Notes:    ptr("new"),
	})
	require.NoError(t, err)

	assert.Equal(t, "kueʹll", got.Lexeme)
	assert.Equal(t, "ue", written.Assonance)

	require.Len(t, deps.history.records, 1)
	changes := deps.history.records[0].Changes
	assert.Len(t, changes, 2)
	assert.Equal(t, domain.FieldChange{Old: "kuõll", New: "kueʹll"}, changes["lexeme"])
	assert.Equal(t, domain.FieldChange{Old: "old", New: "new"}, changes["notes"])
	assert.NotContains(t, changes, "language")
}

func TestService_UpdateLexeme_NoOp(t *testing.T) {
	t.Parallel()

	svc, deps := newTestService()
	id := uuid.New()
	deps.lexemes.GetByIDFunc = func(context.Context, uuid.UUID) (domain.Lexeme, error) {
		return domain.Lexeme{ID: id, Lexeme: "talo", Language: "fin"}, nil
	}

	got, err := svc.UpdateLexeme(editorCtx(), UpdateLexemeInput{ID: id, Lexeme: ptr("talo")})
	require.NoError(t, err)

	assert.Equal(t, "talo", got.Lexeme)
	assert.Zero(t, deps.lexemes.updateCalls)
	assert.Empty(t, deps.history.records)
}

func TestService_UpdateLexeme_NotFound(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	_, err := svc.UpdateLexeme(editorCtx(), UpdateLexemeInput{ID: uuid.New(), Notes: ptr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---------------------------------------------------------------------------
// DeleteLexeme
// ---------------------------------------------------------------------------

func TestService_DeleteLexeme_RecordsSnapshot(t *testing.T) {
	t.Parallel()

	svc, deps := newTestService()
	id := uuid.New()
	deps.lexemes.GetByIDFunc = func(context.Context, uuid.UUID) (domain.Lexeme, error) {
		return domain.Lexeme{ID: id, Lexeme: "talo", Language: "fin", POS: domain.PartOfSpeechNoun}, nil
	}

	require.NoError(t, svc.DeleteLexeme(editorCtx(), id))

	require.Len(t, deps.history.records, 1)
	rec := deps.history.records[0]
	assert.Equal(t, domain.ActionDelete, rec.Action)
	assert.Equal(t, "talo", rec.Changes["lexeme"])
	assert.Equal(t, "N", rec.Changes["pos"])
}

// ---------------------------------------------------------------------------
// SearchLexemes
// ---------------------------------------------------------------------------

func TestService_SearchLexemes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		filter    domain.LexemeFilter
		wantLimit int
		wantErr   error
	}{
		{name: "default limit", filter: domain.LexemeFilter{}, wantLimit: 50},
		{name: "clamped limit", filter: domain.LexemeFilter{Limit: 10000}, wantLimit: 500},
		{name: "explicit limit", filter: domain.LexemeFilter{Limit: 20}, wantLimit: 20},
		{name: "bad sort", filter: domain.LexemeFilter{SortBy: "pos"}, wantErr: domain.ErrValidation},
		{name: "bad language", filter: domain.LexemeFilter{Language: ptr("fi")}, wantErr: domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc, deps := newTestService()
			var seen domain.LexemeFilter
			deps.lexemes.FindFunc = func(_ context.Context, f domain.LexemeFilter) ([]domain.Lexeme, int, error) {
				seen = f
				return []domain.Lexeme{{Lexeme: "talo"}}, 1, nil
			}

			page, err := svc.SearchLexemes(context.Background(), tt.filter)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLimit, seen.Limit)
			assert.Equal(t, tt.wantLimit, page.Limit)
			assert.Equal(t, 1, page.Total)
		})
	}
}

// ---------------------------------------------------------------------------
// SetLexemesChecked
// ---------------------------------------------------------------------------

func TestService_SetLexemesChecked_RecordsChangedOnly(t *testing.T) {
	t.Parallel()

	svc, deps := newTestService()
	a, b := uuid.New(), uuid.New()
	deps.lexemes.GetByIDsFunc = func(context.Context, []uuid.UUID) ([]domain.Lexeme, error) {
		return []domain.Lexeme{{ID: a, Checked: false}, {ID: b, Checked: true}}, nil
	}
	deps.lexemes.SetCheckedFunc = func(context.Context, []uuid.UUID, bool) (int, error) { return 1, nil }

	n, err := svc.SetLexemesChecked(editorCtx(), SetCheckedInput{IDs: []uuid.UUID{a, b}, Checked: true})
	require.NoError(t, err)

	assert.Equal(t, 1, n)
	require.Len(t, deps.history.records, 1)
	assert.Equal(t, a, deps.history.records[0].EntityID)
}

func TestService_SetLexemesChecked_Empty(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	_, err := svc.SetLexemesChecked(editorCtx(), SetCheckedInput{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestService_SetRelationsChecked_RecordsEachChangedRelation(t *testing.T) {
	t.Parallel()

	svc, deps := newTestService()
	a, b, gone := uuid.New(), uuid.New(), uuid.New()
	deps.relations.GetByIDFunc = func(_ context.Context, id uuid.UUID) (domain.Relation, error) {
		switch id {
		case a:
			return domain.Relation{ID: a, Checked: false}, nil
		case b:
			return domain.Relation{ID: b, Checked: true}, nil
		}
		return domain.Relation{}, domain.ErrNotFound
	}
	deps.relations.SetCheckedFunc = func(context.Context, []uuid.UUID, bool) (int, error) { return 1, nil }

	n, err := svc.SetRelationsChecked(editorCtx(), SetCheckedInput{IDs: []uuid.UUID{a, b, gone}, Checked: true})
	require.NoError(t, err)

	assert.Equal(t, 1, n)
	require.Len(t, deps.history.records, 1)
	assert.Equal(t, domain.EntityRelation, deps.history.records[0].EntityType)
	assert.Equal(t, a, deps.history.records[0].EntityID)
}

// ---------------------------------------------------------------------------
// CreateRelation
// ---------------------------------------------------------------------------

func TestService_CreateRelation_Success(t *testing.T) {
	t.Parallel()

	svc, deps := newTestService()
	from, to := uuid.New(), uuid.New()
	deps.lexemes.GetByIDsFunc = func(_ context.Context, ids []uuid.UUID) ([]domain.Lexeme, error) {
		return []domain.Lexeme{{ID: from}, {ID: to}}, nil
	}

	rel, err := svc.CreateRelation(editorCtx(), CreateRelationInput{
		LexemeFromID: from, LexemeToID: to, Type: domain.RelationTranslation,
	})
	require.NoError(t, err)

	assert.Equal(t, from, rel.LexemeFromID)
	assert.Equal(t, to, rel.LexemeToID)
	require.Len(t, deps.history.records, 1)
	assert.Equal(t, domain.EntityRelation, deps.history.records[0].EntityType)
}

func TestService_CreateRelation_Errors(t *testing.T) {
	t.Parallel()

	from, to := uuid.New(), uuid.New()

	tests := []struct {
		name    string
		input   CreateRelationInput
		found   []domain.Lexeme
		exists  bool
		wantErr error
	}{
		{
			name:    "self relation",
			input:   CreateRelationInput{LexemeFromID: from, LexemeToID: from, Type: domain.RelationTranslation},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "invalid type",
			input:   CreateRelationInput{LexemeFromID: from, LexemeToID: to, Type: "cousin"},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "missing target",
			input:   CreateRelationInput{LexemeFromID: from, LexemeToID: to, Type: domain.RelationTranslation},
			found:   []domain.Lexeme{{ID: from}},
			wantErr: domain.ErrNotFound,
		},
		{
			name:    "duplicate",
			input:   CreateRelationInput{LexemeFromID: from, LexemeToID: to, Type: domain.RelationTranslation},
			found:   []domain.Lexeme{{ID: from}, {ID: to}},
			exists:  true,
			wantErr: domain.ErrAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc, deps := newTestService()
			deps.lexemes.GetByIDsFunc = func(context.Context, []uuid.UUID) ([]domain.Lexeme, error) {
				return tt.found, nil
			}
			deps.relations.ExistsFunc = func(context.Context, uuid.UUID, uuid.UUID, domain.RelationType) (bool, error) {
				return tt.exists, nil
			}

			_, err := svc.CreateRelation(editorCtx(), tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, deps.relations.createCalls)
			assert.Empty(t, deps.history.records)
		})
	}
}

// ---------------------------------------------------------------------------
// UpdateRelation / DeleteRelation
// ---------------------------------------------------------------------------

func TestService_UpdateRelation_ChangesType(t *testing.T) {
	t.Parallel()

	svc, deps := newTestService()
	id := uuid.New()
	deps.relations.GetByIDFunc = func(context.Context, uuid.UUID) (domain.Relation, error) {
		return domain.Relation{ID: id, Type: domain.RelationTranslation}, nil
	}

	got, err := svc.UpdateRelation(editorCtx(), UpdateRelationInput{
		ID:   id,
		Type: ptr(domain.RelationBroadTranslation),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.RelationBroadTranslation, got.Type)
	require.Len(t, deps.history.records, 1)
	assert.Equal(t,
		domain.FieldChange{Old: "translation", New: "broad_translation"},
		deps.history.records[0].Changes["type"],
	)
}

func TestService_DeleteRelation_NotFound(t *testing.T) {
	t.Parallel()

	svc, deps := newTestService()
	err := svc.DeleteRelation(editorCtx(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, deps.history.records)
}

// ---------------------------------------------------------------------------
// ListRelations
// ---------------------------------------------------------------------------

func TestService_ListRelations_InvalidType(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	_, err := svc.ListRelations(context.Background(), domain.RelationFilter{
		Types: []domain.RelationType{"hyponym"},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ---------------------------------------------------------------------------
// Satellites
// ---------------------------------------------------------------------------

func TestService_AddStem(t *testing.T) {
	t.Parallel()

	svc, deps := newTestService()
	lexID := uuid.New()

	stem, err := svc.AddStem(editorCtx(), AddStemInput{LexemeID: lexID, Text: "kuõll", Contlex: "N_KUÕLL"})
	require.NoError(t, err)

	assert.Equal(t, lexID, stem.LexemeID)
	require.Len(t, deps.history.records, 1)
	assert.Equal(t, domain.EntityStem, deps.history.records[0].EntityType)
	assert.Equal(t, stem.ID, deps.history.records[0].EntityID)
}

func TestService_AddStem_UnknownLexeme(t *testing.T) {
	t.Parallel()

	svc, deps := newTestService()
	deps.satellites.CreateStemFunc = func(context.Context, domain.Stem) (domain.Stem, error) {
		return domain.Stem{}, domain.ErrNotFound
	}

	_, err := svc.AddStem(editorCtx(), AddStemInput{LexemeID: uuid.New(), Text: "kuõll"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, deps.history.records)
}

func TestService_AddAffiliation_InvalidType(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	_, err := svc.AddAffiliation(editorCtx(), AddAffiliationInput{LexemeID: uuid.New(), Title: "Kuõll", Type: "wiki"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestService_DeleteExample_RecordsDeletedText(t *testing.T) {
	t.Parallel()

	svc, deps := newTestService()
	id := uuid.New()
	deps.satellites.DeleteExampleFunc = func(context.Context, uuid.UUID) (domain.Example, error) {
		return domain.Example{ID: id, Text: "Kuõll lij čääʹcest."}, nil
	}

	require.NoError(t, svc.DeleteExample(editorCtx(), id))

	require.Len(t, deps.history.records, 1)
	assert.Equal(t, "Kuõll lij čääʹcest.", deps.history.records[0].Changes["text"])
	assert.Equal(t, domain.ActionDelete, deps.history.records[0].Action)
}
