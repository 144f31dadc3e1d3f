package rest

import (
	"time"

	"github.com/google/uuid"

	"github.com/verdd/verdd-backend/internal/domain"
	"github.com/verdd/verdd-backend/internal/linkpred"
	"github.com/verdd/verdd-backend/internal/service/inflection"
)

// ---------------------------------------------------------------------------
// Lexemes
// ---------------------------------------------------------------------------

type lexemeResponse struct {
	ID            string  `json:"id"`
	Lexeme        string  `json:"lexeme"`
	HomonymID     int     `json:"homonymId"`
	Language      string  `json:"language"`
	POS           string  `json:"pos"`
	Contlex       string  `json:"contlex,omitempty"`
	Type          string  `json:"type,omitempty"`
	LemmaID       string  `json:"lemmaId,omitempty"`
	InflexID      string  `json:"inflexId,omitempty"`
	InflexType    string  `json:"inflexType,omitempty"`
	Specification string  `json:"specification,omitempty"`
	Notes         string  `json:"notes,omitempty"`
	Assonance     string  `json:"assonance,omitempty"`
	AssonanceRev  string  `json:"assonanceRev,omitempty"`
	Consonance    string  `json:"consonance,omitempty"`
	ConsonanceRev string  `json:"consonanceRev,omitempty"`
	Checked       bool    `json:"checked"`
	ImportedFrom  string  `json:"importedFrom,omitempty"`
	CreatedBy     *string `json:"createdBy,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	RelationsFrom []relationResponse     `json:"relationsFrom,omitempty"`
	RelationsTo   []relationResponse     `json:"relationsTo,omitempty"`
	Examples      []exampleResponse      `json:"examples,omitempty"`
	Stems         []stemResponse         `json:"stems,omitempty"`
	MiniParadigms []miniParadigmResponse `json:"miniParadigms,omitempty"`
	Affiliations  []affiliationResponse  `json:"affiliations,omitempty"`
}

type lexemeSummary struct {
	ID        string `json:"id"`
	Lexeme    string `json:"lexeme"`
	HomonymID int    `json:"homonymId"`
	Language  string `json:"language"`
	POS       string `json:"pos"`
}

type exampleResponse struct {
	ID        string    `json:"id"`
	LexemeID  string    `json:"lexemeId"`
	Text      string    `json:"text"`
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type stemResponse struct {
	ID        string    `json:"id"`
	LexemeID  string    `json:"lexemeId"`
	Text      string    `json:"text"`
	HomonymID int       `json:"homonymId"`
	Contlex   string    `json:"contlex,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
}

type miniParadigmResponse struct {
	ID        string    `json:"id"`
	LexemeID  string    `json:"lexemeId"`
	MSD       string    `json:"msd"`
	Wordform  string    `json:"wordform"`
	CreatedAt time.Time `json:"createdAt"`
}

type affiliationResponse struct {
	ID        string    `json:"id"`
	LexemeID  string    `json:"lexemeId"`
	Title     string    `json:"title"`
	Link      string    `json:"link,omitempty"`
	Type      string    `json:"type"`
	Checked   bool      `json:"checked"`
	CreatedAt time.Time `json:"createdAt"`
}

func toLexemeResponse(l domain.Lexeme) lexemeResponse {
	return lexemeResponse{
		ID:            l.ID.String(),
		Lexeme:        l.Lexeme,
		HomonymID:     l.HomonymID,
		Language:      l.Language,
		POS:           l.POS.String(),
		Contlex:       l.Contlex,
		Type:          l.Type,
		LemmaID:       l.LemmaID,
		InflexID:      l.InflexID,
		InflexType:    l.InflexType,
		Specification: l.Specification,
		Notes:         l.Notes,
		Assonance:     l.Assonance,
		AssonanceRev:  l.AssonanceRev,
		Consonance:    l.Consonance,
		ConsonanceRev: l.ConsonanceRev,
		Checked:       l.Checked,
		ImportedFrom:  l.ImportedFrom,
		CreatedBy:     optID(l.CreatedBy),
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
		RelationsFrom: mapSlice(l.RelationsFrom, toRelationResponse),
		RelationsTo:   mapSlice(l.RelationsTo, toRelationResponse),
		Examples:      mapSlice(l.Examples, toExampleResponse),
		Stems:         mapSlice(l.Stems, toStemResponse),
		MiniParadigms: mapSlice(l.MiniParadigms, toMiniParadigmResponse),
		Affiliations:  mapSlice(l.Affiliations, toAffiliationResponse),
	}
}

func toLexemeSummary(l domain.Lexeme) lexemeSummary {
	return lexemeSummary{
		ID:        l.ID.String(),
		Lexeme:    l.Lexeme,
		HomonymID: l.HomonymID,
		Language:  l.Language,
		POS:       l.POS.String(),
	}
}

func toExampleResponse(e domain.Example) exampleResponse {
	return exampleResponse{ID: e.ID.String(), LexemeID: e.LexemeID.String(), Text: e.Text, Source: e.Source, CreatedAt: e.CreatedAt}
}

func toStemResponse(s domain.Stem) stemResponse {
	return stemResponse{
		ID:        s.ID.String(),
		LexemeID:  s.LexemeID.String(),
		Text:      s.Text,
		HomonymID: s.HomonymID,
		Contlex:   s.Contlex,
		Notes:     s.Notes,
		Order:     s.Order,
		CreatedAt: s.CreatedAt,
	}
}

func toMiniParadigmResponse(p domain.MiniParadigm) miniParadigmResponse {
	return miniParadigmResponse{ID: p.ID.String(), LexemeID: p.LexemeID.String(), MSD: p.MSD, Wordform: p.Wordform, CreatedAt: p.CreatedAt}
}

func toAffiliationResponse(a domain.Affiliation) affiliationResponse {
	return affiliationResponse{
		ID:        a.ID.String(),
		LexemeID:  a.LexemeID.String(),
		Title:     a.Title,
		Link:      a.Link,
		Type:      string(a.Type),
		Checked:   a.Checked,
		CreatedAt: a.CreatedAt,
	}
}

// ---------------------------------------------------------------------------
// Relations
// ---------------------------------------------------------------------------

type relationResponse struct {
	ID           string    `json:"id"`
	LexemeFromID string    `json:"lexemeFromId"`
	LexemeToID   string    `json:"lexemeToId"`
	Type         string    `json:"type"`
	Notes        string    `json:"notes,omitempty"`
	Checked      bool      `json:"checked"`
	CreatedBy    *string   `json:"createdBy,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	LexemeFrom *lexemeSummary            `json:"lexemeFrom,omitempty"`
	LexemeTo   *lexemeSummary            `json:"lexemeTo,omitempty"`
	Examples   []relationExampleResponse `json:"examples,omitempty"`
	Sources    []sourceResponse          `json:"sources,omitempty"`
}

type relationExampleResponse struct {
	ID         string    `json:"id"`
	RelationID string    `json:"relationId"`
	Text       string    `json:"text"`
	Language   string    `json:"language"`
	CreatedAt  time.Time `json:"createdAt"`
}

type sourceResponse struct {
	ID         string    `json:"id"`
	RelationID string    `json:"relationId"`
	Name       string    `json:"name"`
	PageInfo   string    `json:"pageInfo,omitempty"`
	Type       string    `json:"type"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toRelationResponse(r domain.Relation) relationResponse {
	resp := relationResponse{
		ID:           r.ID.String(),
		LexemeFromID: r.LexemeFromID.String(),
		LexemeToID:   r.LexemeToID.String(),
		Type:         r.Type.String(),
		Notes:        r.Notes,
		Checked:      r.Checked,
		CreatedBy:    optID(r.CreatedBy),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		Examples:     mapSlice(r.Examples, toRelationExampleResponse),
		Sources:      mapSlice(r.Sources, toSourceResponse),
	}
	if r.LexemeFrom != nil {
		s := toLexemeSummary(*r.LexemeFrom)
		resp.LexemeFrom = &s
	}
	if r.LexemeTo != nil {
		s := toLexemeSummary(*r.LexemeTo)
		resp.LexemeTo = &s
	}
	return resp
}

func toRelationExampleResponse(e domain.RelationExample) relationExampleResponse {
	return relationExampleResponse{ID: e.ID.String(), RelationID: e.RelationID.String(), Text: e.Text, Language: e.Language, CreatedAt: e.CreatedAt}
}

func toSourceResponse(s domain.Source) sourceResponse {
	return sourceResponse{
		ID:         s.ID.String(),
		RelationID: s.RelationID.String(),
		Name:       s.Name,
		PageInfo:   s.PageInfo,
		Type:       string(s.Type),
		CreatedAt:  s.CreatedAt,
	}
}

// ---------------------------------------------------------------------------
// History, inflection, prediction
// ---------------------------------------------------------------------------

type historyResponse struct {
	ID         string         `json:"id"`
	UserID     *string        `json:"userId,omitempty"`
	EntityType string         `json:"entityType"`
	EntityID   string         `json:"entityId"`
	Action     string         `json:"action"`
	Changes    map[string]any `json:"changes,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
}

func toHistoryResponse(h domain.HistoryRecord) historyResponse {
	return historyResponse{
		ID:         h.ID.String(),
		UserID:     optID(h.UserID),
		EntityType: h.EntityType.String(),
		EntityID:   h.EntityID.String(),
		Action:     h.Action.String(),
		Changes:    h.Changes,
		CreatedAt:  h.CreatedAt,
	}
}

type inflectionRowResponse struct {
	MSD    string   `json:"msd"`
	Forms  []string `json:"forms"`
	Source string   `json:"source"`
}

type inflectionResponse struct {
	Lexeme    lexemeSummary           `json:"lexeme"`
	Generated bool                    `json:"generated"`
	TimedOut  bool                    `json:"timedOut"`
	Rows      []inflectionRowResponse `json:"rows"`
}

func toInflectionResponse(t inflection.Table) inflectionResponse {
	rows := make([]inflectionRowResponse, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = inflectionRowResponse{MSD: r.MSD, Forms: r.Forms, Source: r.Source}
	}
	return inflectionResponse{
		Lexeme:    toLexemeSummary(t.Lexeme),
		Generated: t.Generated,
		TimedOut:  t.TimedOut,
		Rows:      rows,
	}
}

type analysisResponse struct {
	Lemma   string          `json:"lemma"`
	Tags    []string        `json:"tags"`
	Raw     string          `json:"raw"`
	Lexemes []lexemeSummary `json:"lexemes"`
}

func toAnalysisResponse(a inflection.Analysis) analysisResponse {
	lexemes := mapSlice(a.Lexemes, toLexemeSummary)
	if lexemes == nil {
		lexemes = []lexemeSummary{}
	}
	return analysisResponse{Lemma: a.Lemma, Tags: a.Tags, Raw: a.Raw, Lexemes: lexemes}
}

type lexemeRefResponse struct {
	ID       string `json:"id"`
	Lexeme   string `json:"lexeme"`
	Language string `json:"language"`
	POS      string `json:"pos"`
}

type predictionResponse struct {
	Source lexemeRefResponse   `json:"source"`
	Target lexemeRefResponse   `json:"target"`
	Score  float64             `json:"score"`
	Pivots []lexemeRefResponse `json:"pivots"`
}

type predictResponse struct {
	Predictions []predictionResponse `json:"predictions"`
	Nodes       int                  `json:"nodes"`
	Edges       int                  `json:"edges"`
	Saved       int                  `json:"saved"`
	Skipped     int                  `json:"skipped"`
	DurationMS  int64                `json:"durationMs"`
}

func toLexemeRef(r domain.LexemeRef) lexemeRefResponse {
	return lexemeRefResponse{ID: r.ID.String(), Lexeme: r.Lexeme, Language: r.Language, POS: r.POS.String()}
}

func toPredictionResponse(p linkpred.Prediction) predictionResponse {
	pivots := mapSlice(p.Pivots, toLexemeRef)
	if pivots == nil {
		pivots = []lexemeRefResponse{}
	}
	return predictionResponse{
		Source: toLexemeRef(p.Source),
		Target: toLexemeRef(p.Target),
		Score:  p.Score,
		Pivots: pivots,
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type pageResponse[T any] struct {
	Items  []T `json:"items"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

func toPageResponse[S, T any](p domain.Page[S], fn func(S) T) pageResponse[T] {
	items := mapSlice(p.Items, fn)
	if items == nil {
		items = []T{}
	}
	return pageResponse[T]{Items: items, Total: p.Total, Limit: p.Limit, Offset: p.Offset}
}

func mapSlice[S, T any](in []S, fn func(S) T) []T {
	if len(in) == 0 {
		return nil
	}
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = fn(v)
	}
	return out
}

func optID(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
