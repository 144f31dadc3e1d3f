package rest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/verdd/verdd-backend/internal/app/exporter"
	"github.com/verdd/verdd-backend/internal/domain"
	"github.com/verdd/verdd-backend/internal/lexformat"
	"github.com/verdd/verdd-backend/internal/lexformat/codec"
)

type exportService interface {
	Export(ctx context.Context, w io.Writer, req exporter.Request) (int, error)
}

// ExportHandler renders the dictionary in one of the file formats.
type ExportHandler struct {
	svc    exportService
	log    *slog.Logger
	source string
	target string
}

// NewExportHandler creates an ExportHandler. source and target are the
// language pair used when the query omits them.
func NewExportHandler(svc exportService, logger *slog.Logger, source, target string) *ExportHandler {
	return &ExportHandler{svc: svc, log: logger.With("handler", "export"), source: source, target: target}
}

// Export handles GET /api/export?language=sms&target=fin&format=tsv.
// The file is rendered in memory so a failure still yields a JSON error.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	req := exporter.Request{
		Language: orDefault(q.get("language"), h.source),
		Target:   orDefault(q.get("target"), h.target),
		Format:   lexformat.FormatTSV,
		Types:    q.relationTypes("type"),
	}
	if v := q.get("format"); v != "" {
		f, err := lexformat.ParseFormat(v)
		if err != nil {
			q.errs = append(q.errs, domain.FieldError{Field: "format", Message: err.Error()})
		}
		req.Format = f
	}
	if t := q.optBool("translatedOnly"); t != nil {
		req.TranslatedOnly = *t
	}
	if err := q.err(); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	var buf bytes.Buffer
	n, err := h.svc.Export(r.Context(), &buf, req)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	filename := fmt.Sprintf("%s-%s.%s", req.Language, req.Target, req.Format.Ext())
	w.Header().Set("Content-Type", codec.ContentType(req.Format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Record-Count", strconv.Itoa(n))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.log.WarnContext(r.Context(), "export write failed", slog.String("error", err.Error()))
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
