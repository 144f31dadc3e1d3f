package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/verdd/verdd-backend/internal/service/inflection"
)

type inflectionService interface {
	InflectLexeme(ctx context.Context, id uuid.UUID) (inflection.Table, error)
	AnalyzeWordform(ctx context.Context, lang, form string) ([]inflection.Analysis, error)
}

// InflectionHandler serves generated paradigms and word form analysis.
type InflectionHandler struct {
	svc inflectionService
	log *slog.Logger
}

// NewInflectionHandler creates an InflectionHandler.
func NewInflectionHandler(svc inflectionService, logger *slog.Logger) *InflectionHandler {
	return &InflectionHandler{svc: svc, log: logger.With("handler", "inflection")}
}

// Inflections handles GET /api/lexemes/{id}/inflections.
func (h *InflectionHandler) Inflections(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	table, err := h.svc.InflectLexeme(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toInflectionResponse(table))
}

// Analyze handles GET /api/analyze?language=sms&form=kuõlid.
func (h *InflectionHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	analyses, err := h.svc.AnalyzeWordform(r.Context(), q.get("language"), q.get("form"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	out := mapSlice(analyses, toAnalysisResponse)
	if out == nil {
		out = []analysisResponse{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"form": q.get("form"), "analyses": out})
}
