package rest

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/verdd/verdd-backend/internal/app/exporter"
	"github.com/verdd/verdd-backend/internal/domain"
	"github.com/verdd/verdd-backend/internal/service/auth"
	"github.com/verdd/verdd-backend/internal/service/inflection"
	"github.com/verdd/verdd-backend/internal/service/lexicon"
	"github.com/verdd/verdd-backend/internal/service/prediction"
	"github.com/verdd/verdd-backend/pkg/ctxutil"
)

// lexiconServiceMock implements lexiconService; calls to unset funcs panic.
type lexiconServiceMock struct {
	CreateLexemeFunc        func(ctx context.Context, input lexicon.CreateLexemeInput) (domain.Lexeme, error)
	GetLexemeFunc           func(ctx context.Context, id uuid.UUID) (domain.Lexeme, error)
	UpdateLexemeFunc        func(ctx context.Context, input lexicon.UpdateLexemeInput) (domain.Lexeme, error)
	DeleteLexemeFunc        func(ctx context.Context, id uuid.UUID) error
	SearchLexemesFunc       func(ctx context.Context, filter domain.LexemeFilter) (domain.Page[domain.Lexeme], error)
	SetLexemesCheckedFunc   func(ctx context.Context, input lexicon.SetCheckedInput) (int, error)
	CreateRelationFunc      func(ctx context.Context, input lexicon.CreateRelationInput) (domain.Relation, error)
	GetRelationFunc         func(ctx context.Context, id uuid.UUID) (domain.Relation, error)
	ListRelationsFunc       func(ctx context.Context, filter domain.RelationFilter) (domain.Page[domain.Relation], error)
	UpdateRelationFunc      func(ctx context.Context, input lexicon.UpdateRelationInput) (domain.Relation, error)
	DeleteRelationFunc      func(ctx context.Context, id uuid.UUID) error
	SetRelationsCheckedFunc func(ctx context.Context, input lexicon.SetCheckedInput) (int, error)
	AddExampleFunc          func(ctx context.Context, input lexicon.AddExampleInput) (domain.Example, error)
	AddStemFunc             func(ctx context.Context, input lexicon.AddStemInput) (domain.Stem, error)
	AddMiniParadigmFunc     func(ctx context.Context, input lexicon.AddMiniParadigmInput) (domain.MiniParadigm, error)
	AddAffiliationFunc      func(ctx context.Context, input lexicon.AddAffiliationInput) (domain.Affiliation, error)
	AddRelationExampleFunc  func(ctx context.Context, input lexicon.AddRelationExampleInput) (domain.RelationExample, error)
	AddSourceFunc           func(ctx context.Context, input lexicon.AddSourceInput) (domain.Source, error)
	DeleteSatelliteFunc     func(ctx context.Context, kind string, id uuid.UUID) error
}

var _ lexiconService = &lexiconServiceMock{}

func (m *lexiconServiceMock) CreateLexeme(ctx context.Context, in lexicon.CreateLexemeInput) (domain.Lexeme, error) {
	return m.CreateLexemeFunc(ctx, in)
}
func (m *lexiconServiceMock) GetLexeme(ctx context.Context, id uuid.UUID) (domain.Lexeme, error) {
	return m.GetLexemeFunc(ctx, id)
}
func (m *lexiconServiceMock) UpdateLexeme(ctx context.Context, in lexicon.UpdateLexemeInput) (domain.Lexeme, error) {
	return m.UpdateLexemeFunc(ctx, in)
}
func (m *lexiconServiceMock) DeleteLexeme(ctx context.Context, id uuid.UUID) error {
	return m.DeleteLexemeFunc(ctx, id)
}
func (m *lexiconServiceMock) SearchLexemes(ctx context.Context, f domain.LexemeFilter) (domain.Page[domain.Lexeme], error) {
	return m.SearchLexemesFunc(ctx, f)
}
func (m *lexiconServiceMock) SetLexemesChecked(ctx context.Context, in lexicon.SetCheckedInput) (int, error) {
	return m.SetLexemesCheckedFunc(ctx, in)
}
func (m *lexiconServiceMock) CreateRelation(ctx context.Context, in lexicon.CreateRelationInput) (domain.Relation, error) {
	return m.CreateRelationFunc(ctx, in)
}
func (m *lexiconServiceMock) GetRelation(ctx context.Context, id uuid.UUID) (domain.Relation, error) {
	return m.GetRelationFunc(ctx, id)
}
func (m *lexiconServiceMock) ListRelations(ctx context.Context, f domain.RelationFilter) (domain.Page[domain.Relation], error) {
	return m.ListRelationsFunc(ctx, f)
}
func (m *lexiconServiceMock) UpdateRelation(ctx context.Context, in lexicon.UpdateRelationInput) (domain.Relation, error) {
	return m.UpdateRelationFunc(ctx, in)
}
func (m *lexiconServiceMock) DeleteRelation(ctx context.Context, id uuid.UUID) error {
	return m.DeleteRelationFunc(ctx, id)
}
func (m *lexiconServiceMock) SetRelationsChecked(ctx context.Context, in lexicon.SetCheckedInput) (int, error) {
	return m.SetRelationsCheckedFunc(ctx, in)
}
func (m *lexiconServiceMock) AddExample(ctx context.Context, in lexicon.AddExampleInput) (domain.Example, error) {
	return m.AddExampleFunc(ctx, in)
}
func (m *lexiconServiceMock) AddStem(ctx context.Context, in lexicon.AddStemInput) (domain.Stem, error) {
	return m.AddStemFunc(ctx, in)
}
func (m *lexiconServiceMock) AddMiniParadigm(ctx context.Context, in lexicon.AddMiniParadigmInput) (domain.MiniParadigm, error) {
	return m.AddMiniParadigmFunc(ctx, in)
}
func (m *lexiconServiceMock) AddAffiliation(ctx context.Context, in lexicon.AddAffiliationInput) (domain.Affiliation, error) {
	return m.AddAffiliationFunc(ctx, in)
}
func (m *lexiconServiceMock) AddRelationExample(ctx context.Context, in lexicon.AddRelationExampleInput) (domain.RelationExample, error) {
	return m.AddRelationExampleFunc(ctx, in)
}
func (m *lexiconServiceMock) AddSource(ctx context.Context, in lexicon.AddSourceInput) (domain.Source, error) {
	return m.AddSourceFunc(ctx, in)
}
func (m *lexiconServiceMock) DeleteExample(ctx context.Context, id uuid.UUID) error {
	return m.DeleteSatelliteFunc(ctx, "example", id)
}
func (m *lexiconServiceMock) DeleteStem(ctx context.Context, id uuid.UUID) error {
	return m.DeleteSatelliteFunc(ctx, "stem", id)
}
func (m *lexiconServiceMock) DeleteMiniParadigm(ctx context.Context, id uuid.UUID) error {
	return m.DeleteSatelliteFunc(ctx, "paradigm", id)
}
func (m *lexiconServiceMock) DeleteAffiliation(ctx context.Context, id uuid.UUID) error {
	return m.DeleteSatelliteFunc(ctx, "affiliation", id)
}
func (m *lexiconServiceMock) DeleteRelationExample(ctx context.Context, id uuid.UUID) error {
	return m.DeleteSatelliteFunc(ctx, "relation-example", id)
}
func (m *lexiconServiceMock) DeleteSource(ctx context.Context, id uuid.UUID) error {
	return m.DeleteSatelliteFunc(ctx, "source", id)
}

type inflectionServiceMock struct {
	InflectLexemeFunc   func(ctx context.Context, id uuid.UUID) (inflection.Table, error)
	AnalyzeWordformFunc func(ctx context.Context, lang, form string) ([]inflection.Analysis, error)
}

func (m *inflectionServiceMock) InflectLexeme(ctx context.Context, id uuid.UUID) (inflection.Table, error) {
	return m.InflectLexemeFunc(ctx, id)
}
func (m *inflectionServiceMock) AnalyzeWordform(ctx context.Context, lang, form string) ([]inflection.Analysis, error) {
	return m.AnalyzeWordformFunc(ctx, lang, form)
}

type predictionServiceMock struct {
	PredictFunc func(ctx context.Context, input prediction.PredictInput) (prediction.Result, error)
}

func (m *predictionServiceMock) Predict(ctx context.Context, in prediction.PredictInput) (prediction.Result, error) {
	return m.PredictFunc(ctx, in)
}

type exportServiceMock struct {
	ExportFunc func(ctx context.Context, w io.Writer, req exporter.Request) (int, error)
}

func (m *exportServiceMock) Export(ctx context.Context, w io.Writer, req exporter.Request) (int, error) {
	return m.ExportFunc(ctx, w, req)
}

type historyServiceMock struct {
	ListEntityHistoryFunc func(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID, limit int) ([]domain.HistoryRecord, error)
	ListRecentFunc        func(ctx context.Context, limit, offset int) ([]domain.HistoryRecord, error)
}

func (m *historyServiceMock) ListEntityHistory(ctx context.Context, t domain.EntityType, id uuid.UUID, limit int) ([]domain.HistoryRecord, error) {
	return m.ListEntityHistoryFunc(ctx, t, id, limit)
}
func (m *historyServiceMock) ListRecent(ctx context.Context, limit, offset int) ([]domain.HistoryRecord, error) {
	return m.ListRecentFunc(ctx, limit, offset)
}

type authServiceMock struct {
	LoginFunc func(ctx context.Context, input auth.LoginInput) (auth.LoginResult, error)
}

func (m *authServiceMock) Login(ctx context.Context, in auth.LoginInput) (auth.LoginResult, error) {
	return m.LoginFunc(ctx, in)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type services struct {
	lexicon    *lexiconServiceMock
	inflection *inflectionServiceMock
	prediction *predictionServiceMock
	export     *exportServiceMock
	history    *historyServiceMock
	auth       *authServiceMock
}

func newServices() *services {
	return &services{
		lexicon:    &lexiconServiceMock{},
		inflection: &inflectionServiceMock{},
		prediction: &predictionServiceMock{},
		export:     &exportServiceMock{},
		history:    &historyServiceMock{},
		auth:       &authServiceMock{},
	}
}

func (s *services) router() http.Handler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(Handlers{
		Health:     NewHealthHandler(&dbPingerMock{}, "test"),
		Auth:       NewAuthHandler(s.auth, log),
		Lexicon:    NewLexiconHandler(s.lexicon, log),
		Inflection: NewInflectionHandler(s.inflection, log),
		Prediction: NewPredictionHandler(s.prediction, log),
		Export:     NewExportHandler(s.export, log, "sms", "fin"),
		History:    NewHistoryHandler(s.history, log),
	})
}

// do sends a request as an editor and returns the recorder.
func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	ctx := ctxutil.WithUserID(req.Context(), uuid.New())
	ctx = ctxutil.WithRole(ctx, domain.RoleEditor.String())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req.WithContext(ctx))
	return rec
}
