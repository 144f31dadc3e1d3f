package rest

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/verdd/verdd-backend/internal/domain"
	"github.com/verdd/verdd-backend/internal/service/lexicon"
)

type createRelationRequest struct {
	LexemeFromID uuid.UUID `json:"lexemeFromId"`
	LexemeToID   uuid.UUID `json:"lexemeToId"`
	Type         string    `json:"type"`
	Notes        string    `json:"notes"`
	Checked      bool      `json:"checked"`
}

type updateRelationRequest struct {
	Type    *string `json:"type"`
	Notes   *string `json:"notes"`
	Checked *bool   `json:"checked"`
}

// ListRelations handles GET /api/relations.
func (h *LexiconHandler) ListRelations(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	filter := domain.RelationFilter{
		LexemeID:     q.optUUID("lexemeId"),
		Types:        q.relationTypes("type"),
		FromLanguage: q.optString("from"),
		ToLanguage:   q.optString("to"),
		Checked:      q.optBool("checked"),
		Limit:        q.intValue("limit", 0),
		Offset:       q.intValue("offset", 0),
	}
	if err := q.err(); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	page, err := h.svc.ListRelations(r.Context(), filter)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPageResponse(page, toRelationResponse))
}

// CreateRelation handles POST /api/relations.
func (h *LexiconHandler) CreateRelation(w http.ResponseWriter, r *http.Request) {
	var req createRelationRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	relType := domain.RelationType(req.Type)
	if relType == "" {
		relType = domain.RelationTranslation
	}
	rel, err := h.svc.CreateRelation(r.Context(), lexicon.CreateRelationInput{
		LexemeFromID: req.LexemeFromID,
		LexemeToID:   req.LexemeToID,
		Type:         relType,
		Notes:        req.Notes,
		Checked:      req.Checked,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRelationResponse(rel))
}

// GetRelation handles GET /api/relations/{id}.
func (h *LexiconHandler) GetRelation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	rel, err := h.svc.GetRelation(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRelationResponse(rel))
}

// UpdateRelation handles PATCH /api/relations/{id}.
func (h *LexiconHandler) UpdateRelation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	var req updateRelationRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	input := lexicon.UpdateRelationInput{ID: id, Notes: req.Notes, Checked: req.Checked}
	if req.Type != nil {
		t := domain.RelationType(*req.Type)
		input.Type = &t
	}

	rel, err := h.svc.UpdateRelation(r.Context(), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRelationResponse(rel))
}

// DeleteRelation handles DELETE /api/relations/{id}.
func (h *LexiconHandler) DeleteRelation(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.svc.DeleteRelation)
}

// SetRelationsChecked handles POST /api/relations/checked.
func (h *LexiconHandler) SetRelationsChecked(w http.ResponseWriter, r *http.Request) {
	h.setChecked(w, r, h.svc.SetRelationsChecked)
}
