package rest

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/verdd/verdd-backend/internal/domain"
	"github.com/verdd/verdd-backend/internal/service/lexicon"
)

type addExampleRequest struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

type addStemRequest struct {
	Text      string `json:"text"`
	HomonymID int    `json:"homonymId"`
	Contlex   string `json:"contlex"`
	Notes     string `json:"notes"`
	Order     int    `json:"order"`
}

type addMiniParadigmRequest struct {
	MSD      string `json:"msd"`
	Wordform string `json:"wordform"`
}

type addAffiliationRequest struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Type    string `json:"type"`
	Checked bool   `json:"checked"`
}

type addRelationExampleRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

type addSourceRequest struct {
	Name     string `json:"name"`
	PageInfo string `json:"pageInfo"`
	Type     string `json:"type"`
}

// parentAndBody reads the {id} path value and the JSON body shared by every
// satellite POST.
func parentAndBody(r *http.Request, dst any) (uuid.UUID, error) {
	id, err := pathID(r)
	if err != nil {
		return uuid.Nil, err
	}
	if err := decodeJSON(r, dst); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// AddExample handles POST /api/lexemes/{id}/examples.
func (h *LexiconHandler) AddExample(w http.ResponseWriter, r *http.Request) {
	var req addExampleRequest
	id, err := parentAndBody(r, &req)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	ex, err := h.svc.AddExample(r.Context(), lexicon.AddExampleInput{LexemeID: id, Text: req.Text, Source: req.Source})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toExampleResponse(ex))
}

// AddStem handles POST /api/lexemes/{id}/stems.
func (h *LexiconHandler) AddStem(w http.ResponseWriter, r *http.Request) {
	var req addStemRequest
	id, err := parentAndBody(r, &req)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	stem, err := h.svc.AddStem(r.Context(), lexicon.AddStemInput{
		LexemeID:  id,
		Text:      req.Text,
		HomonymID: req.HomonymID,
		Contlex:   req.Contlex,
		Notes:     req.Notes,
		Order:     req.Order,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toStemResponse(stem))
}

// AddMiniParadigm handles POST /api/lexemes/{id}/paradigms.
func (h *LexiconHandler) AddMiniParadigm(w http.ResponseWriter, r *http.Request) {
	var req addMiniParadigmRequest
	id, err := parentAndBody(r, &req)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	p, err := h.svc.AddMiniParadigm(r.Context(), lexicon.AddMiniParadigmInput{LexemeID: id, MSD: req.MSD, Wordform: req.Wordform})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMiniParadigmResponse(p))
}

// AddAffiliation handles POST /api/lexemes/{id}/affiliations.
func (h *LexiconHandler) AddAffiliation(w http.ResponseWriter, r *http.Request) {
	var req addAffiliationRequest
	id, err := parentAndBody(r, &req)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	affType := domain.AffiliationType(req.Type)
	if affType == "" {
		affType = domain.AffiliationOther
	}
	a, err := h.svc.AddAffiliation(r.Context(), lexicon.AddAffiliationInput{
		LexemeID: id,
		Title:    req.Title,
		Link:     req.Link,
		Type:     affType,
		Checked:  req.Checked,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAffiliationResponse(a))
}

// AddRelationExample handles POST /api/relations/{id}/examples.
func (h *LexiconHandler) AddRelationExample(w http.ResponseWriter, r *http.Request) {
	var req addRelationExampleRequest
	id, err := parentAndBody(r, &req)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	ex, err := h.svc.AddRelationExample(r.Context(), lexicon.AddRelationExampleInput{RelationID: id, Text: req.Text, Language: req.Language})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRelationExampleResponse(ex))
}

// AddSource handles POST /api/relations/{id}/sources.
func (h *LexiconHandler) AddSource(w http.ResponseWriter, r *http.Request) {
	var req addSourceRequest
	id, err := parentAndBody(r, &req)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	src, err := h.svc.AddSource(r.Context(), lexicon.AddSourceInput{
		RelationID: id,
		Name:       req.Name,
		PageInfo:   req.PageInfo,
		Type:       domain.SourceType(req.Type),
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSourceResponse(src))
}

// DeleteExample handles DELETE /api/examples/{id}.
func (h *LexiconHandler) DeleteExample(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.svc.DeleteExample)
}

// DeleteStem handles DELETE /api/stems/{id}.
func (h *LexiconHandler) DeleteStem(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.svc.DeleteStem)
}

// DeleteMiniParadigm handles DELETE /api/paradigms/{id}.
func (h *LexiconHandler) DeleteMiniParadigm(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.svc.DeleteMiniParadigm)
}

// DeleteAffiliation handles DELETE /api/affiliations/{id}.
func (h *LexiconHandler) DeleteAffiliation(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.svc.DeleteAffiliation)
}

// DeleteRelationExample handles DELETE /api/relation-examples/{id}.
func (h *LexiconHandler) DeleteRelationExample(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.svc.DeleteRelationExample)
}

// DeleteSource handles DELETE /api/sources/{id}.
func (h *LexiconHandler) DeleteSource(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.svc.DeleteSource)
}
