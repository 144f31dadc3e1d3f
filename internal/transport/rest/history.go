package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/verdd/verdd-backend/internal/domain"
)

type historyService interface {
	ListEntityHistory(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID, limit int) ([]domain.HistoryRecord, error)
	ListRecent(ctx context.Context, limit, offset int) ([]domain.HistoryRecord, error)
}

// HistoryHandler serves the change log.
type HistoryHandler struct {
	svc historyService
	log *slog.Logger
}

// NewHistoryHandler creates a HistoryHandler.
func NewHistoryHandler(svc historyService, logger *slog.Logger) *HistoryHandler {
	return &HistoryHandler{svc: svc, log: logger.With("handler", "history")}
}

// Recent handles GET /api/history.
func (h *HistoryHandler) Recent(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	limit, offset := q.intValue("limit", 0), q.intValue("offset", 0)
	if err := q.err(); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	records, err := h.svc.ListRecent(r.Context(), limit, offset)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	h.write(w, records)
}

// Lexeme handles GET /api/lexemes/{id}/history.
func (h *HistoryHandler) Lexeme(w http.ResponseWriter, r *http.Request) {
	h.entity(w, r, domain.EntityLexeme)
}

// Relation handles GET /api/relations/{id}/history.
func (h *HistoryHandler) Relation(w http.ResponseWriter, r *http.Request) {
	h.entity(w, r, domain.EntityRelation)
}

func (h *HistoryHandler) entity(w http.ResponseWriter, r *http.Request, entityType domain.EntityType) {
	id, err := pathID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	q := newQuery(r)
	limit := q.intValue("limit", 0)
	if err := q.err(); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	records, err := h.svc.ListEntityHistory(r.Context(), entityType, id, limit)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	h.write(w, records)
}

func (h *HistoryHandler) write(w http.ResponseWriter, records []domain.HistoryRecord) {
	items := mapSlice(records, toHistoryResponse)
	if items == nil {
		items = []historyResponse{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}
