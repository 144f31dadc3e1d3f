package rest

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/verdd/verdd-backend/internal/domain"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error  string              `json:"error"`
	Fields []domain.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// handleError maps domain errors to status codes. Unknown errors are logged
// and hidden behind a 500.
func handleError(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: verr.Errors})
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "already exists")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "conflict")
	default:
		log.ErrorContext(r.Context(), "internal error",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON reads a single JSON object from the request body. Unknown
// fields are rejected.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.NewValidationError("body", "invalid JSON: "+err.Error())
	}
	return nil
}

func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, domain.NewValidationError("id", "must be a UUID")
	}
	return id, nil
}

// query collects typed query parameters and their parse errors.
type query struct {
	values url.Values
	errs   []domain.FieldError
}

func newQuery(r *http.Request) *query {
	return &query{values: r.URL.Query()}
}

func (q *query) get(key string) string {
	if v := q.values[key]; len(v) > 0 {
		return strings.TrimSpace(v[0])
	}
	return ""
}

func (q *query) optString(key string) *string {
	if v := q.get(key); v != "" {
		return &v
	}
	return nil
}

// list accepts both repeated keys and comma-separated values.
func (q *query) list(key string) []string {
	var out []string
	for _, v := range q.values[key] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (q *query) intValue(key string, def int) int {
	v := q.get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		q.errs = append(q.errs, domain.FieldError{Field: key, Message: "must be an integer"})
		return def
	}
	return n
}

func (q *query) optBool(key string) *bool {
	v := q.get(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		q.errs = append(q.errs, domain.FieldError{Field: key, Message: "must be a boolean"})
		return nil
	}
	return &b
}

func (q *query) optUUID(key string) *uuid.UUID {
	v := q.get(key)
	if v == "" {
		return nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		q.errs = append(q.errs, domain.FieldError{Field: key, Message: "must be a UUID"})
		return nil
	}
	return &id
}

func (q *query) relationTypes(key string) []domain.RelationType {
	var out []domain.RelationType
	for _, v := range q.list(key) {
		out = append(out, domain.RelationType(v))
	}
	return out
}

func (q *query) err() error {
	return domain.Collect(q.errs)
}
