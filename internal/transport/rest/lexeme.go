package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/verdd/verdd-backend/internal/domain"
	"github.com/verdd/verdd-backend/internal/service/lexicon"
)

// lexiconService is the part of lexicon.Service the REST API calls.
type lexiconService interface {
	CreateLexeme(ctx context.Context, input lexicon.CreateLexemeInput) (domain.Lexeme, error)
	GetLexeme(ctx context.Context, id uuid.UUID) (domain.Lexeme, error)
	UpdateLexeme(ctx context.Context, input lexicon.UpdateLexemeInput) (domain.Lexeme, error)
	DeleteLexeme(ctx context.Context, id uuid.UUID) error
	SearchLexemes(ctx context.Context, filter domain.LexemeFilter) (domain.Page[domain.Lexeme], error)
	SetLexemesChecked(ctx context.Context, input lexicon.SetCheckedInput) (int, error)

	CreateRelation(ctx context.Context, input lexicon.CreateRelationInput) (domain.Relation, error)
	GetRelation(ctx context.Context, id uuid.UUID) (domain.Relation, error)
	ListRelations(ctx context.Context, filter domain.RelationFilter) (domain.Page[domain.Relation], error)
	UpdateRelation(ctx context.Context, input lexicon.UpdateRelationInput) (domain.Relation, error)
	DeleteRelation(ctx context.Context, id uuid.UUID) error
	SetRelationsChecked(ctx context.Context, input lexicon.SetCheckedInput) (int, error)

	AddExample(ctx context.Context, input lexicon.AddExampleInput) (domain.Example, error)
	DeleteExample(ctx context.Context, id uuid.UUID) error
	AddStem(ctx context.Context, input lexicon.AddStemInput) (domain.Stem, error)
	DeleteStem(ctx context.Context, id uuid.UUID) error
	AddMiniParadigm(ctx context.Context, input lexicon.AddMiniParadigmInput) (domain.MiniParadigm, error)
	DeleteMiniParadigm(ctx context.Context, id uuid.UUID) error
	AddAffiliation(ctx context.Context, input lexicon.AddAffiliationInput) (domain.Affiliation, error)
	DeleteAffiliation(ctx context.Context, id uuid.UUID) error
	AddRelationExample(ctx context.Context, input lexicon.AddRelationExampleInput) (domain.RelationExample, error)
	DeleteRelationExample(ctx context.Context, id uuid.UUID) error
	AddSource(ctx context.Context, input lexicon.AddSourceInput) (domain.Source, error)
	DeleteSource(ctx context.Context, id uuid.UUID) error
}

// LexiconHandler serves lexemes, relations and their satellites.
type LexiconHandler struct {
	svc lexiconService
	log *slog.Logger
}

// NewLexiconHandler creates a LexiconHandler.
func NewLexiconHandler(svc lexiconService, logger *slog.Logger) *LexiconHandler {
	return &LexiconHandler{svc: svc, log: logger.With("handler", "lexicon")}
}

type createLexemeRequest struct {
	Lexeme        string `json:"lexeme"`
	HomonymID     int    `json:"homonymId"`
	Language      string `json:"language"`
	POS           string `json:"pos"`
	Contlex       string `json:"contlex"`
	Type          string `json:"type"`
	LemmaID       string `json:"lemmaId"`
	InflexID      string `json:"inflexId"`
	InflexType    string `json:"inflexType"`
	Specification string `json:"specification"`
	Notes         string `json:"notes"`
	Checked       bool   `json:"checked"`
}

type updateLexemeRequest struct {
	Lexeme        *string `json:"lexeme"`
	HomonymID     *int    `json:"homonymId"`
	Language      *string `json:"language"`
	POS           *string `json:"pos"`
	Contlex       *string `json:"contlex"`
	Type          *string `json:"type"`
	LemmaID       *string `json:"lemmaId"`
	InflexID      *string `json:"inflexId"`
	InflexType    *string `json:"inflexType"`
	Specification *string `json:"specification"`
	Notes         *string `json:"notes"`
	Checked       *bool   `json:"checked"`
}

type setCheckedRequest struct {
	IDs     []uuid.UUID `json:"ids"`
	Checked bool        `json:"checked"`
}

type setCheckedResponse struct {
	Updated int `json:"updated"`
}

// ListLexemes handles GET /api/lexemes.
func (h *LexiconHandler) ListLexemes(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	filter := domain.LexemeFilter{
		Query:        q.optString("q"),
		Language:     q.optString("language"),
		ImportedFrom: q.optString("importedFrom"),
		Rhyme:        q.optString("rhyme"),
		Checked:      q.optBool("checked"),
		SortBy:       q.get("sort"),
		SortOrder:    q.get("order"),
		Limit:        q.intValue("limit", 0),
		Offset:       q.intValue("offset", 0),
	}
	if c := q.optBool("contains"); c != nil {
		filter.Contains = *c
	}
	if pos := q.optString("pos"); pos != nil {
		p := domain.PartOfSpeech(*pos)
		filter.POS = &p
	}
	if err := q.err(); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	page, err := h.svc.SearchLexemes(r.Context(), filter)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPageResponse(page, toLexemeResponse))
}

// CreateLexeme handles POST /api/lexemes.
func (h *LexiconHandler) CreateLexeme(w http.ResponseWriter, r *http.Request) {
	var req createLexemeRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	lex, err := h.svc.CreateLexeme(r.Context(), lexicon.CreateLexemeInput{
		Lexeme:        req.Lexeme,
		HomonymID:     req.HomonymID,
		Language:      req.Language,
		POS:           domain.PartOfSpeech(req.POS),
		Contlex:       req.Contlex,
		Type:          req.Type,
		LemmaID:       req.LemmaID,
		InflexID:      req.InflexID,
		InflexType:    req.InflexType,
		Specification: req.Specification,
		Notes:         req.Notes,
		Checked:       req.Checked,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toLexemeResponse(lex))
}

// GetLexeme handles GET /api/lexemes/{id}.
func (h *LexiconHandler) GetLexeme(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	lex, err := h.svc.GetLexeme(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toLexemeResponse(lex))
}

// UpdateLexeme handles PATCH /api/lexemes/{id}.
func (h *LexiconHandler) UpdateLexeme(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	var req updateLexemeRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	input := lexicon.UpdateLexemeInput{
		ID:            id,
		Lexeme:        req.Lexeme,
		HomonymID:     req.HomonymID,
		Language:      req.Language,
		Contlex:       req.Contlex,
		Type:          req.Type,
		LemmaID:       req.LemmaID,
		InflexID:      req.InflexID,
		InflexType:    req.InflexType,
		Specification: req.Specification,
		Notes:         req.Notes,
		Checked:       req.Checked,
	}
	if req.POS != nil {
		p := domain.PartOfSpeech(*req.POS)
		input.POS = &p
	}

	lex, err := h.svc.UpdateLexeme(r.Context(), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toLexemeResponse(lex))
}

// DeleteLexeme handles DELETE /api/lexemes/{id}.
func (h *LexiconHandler) DeleteLexeme(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.svc.DeleteLexeme)
}

// SetLexemesChecked handles POST /api/lexemes/checked.
func (h *LexiconHandler) SetLexemesChecked(w http.ResponseWriter, r *http.Request) {
	h.setChecked(w, r, h.svc.SetLexemesChecked)
}

func (h *LexiconHandler) setChecked(w http.ResponseWriter, r *http.Request, fn func(context.Context, lexicon.SetCheckedInput) (int, error)) {
	var req setCheckedRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	n, err := fn(r.Context(), lexicon.SetCheckedInput{IDs: req.IDs, Checked: req.Checked})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, setCheckedResponse{Updated: n})
}

func (h *LexiconHandler) deleteByID(w http.ResponseWriter, r *http.Request, fn func(context.Context, uuid.UUID) error) {
	id, err := pathID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if err := fn(r.Context(), id); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
