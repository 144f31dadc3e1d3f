package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/verdd/verdd-backend/internal/domain"
	"github.com/verdd/verdd-backend/internal/service/prediction"
)

type predictionService interface {
	Predict(ctx context.Context, input prediction.PredictInput) (prediction.Result, error)
}

// PredictionHandler serves translation prediction.
type PredictionHandler struct {
	svc predictionService
	log *slog.Logger
}

// NewPredictionHandler creates a PredictionHandler.
func NewPredictionHandler(svc predictionService, logger *slog.Logger) *PredictionHandler {
	return &PredictionHandler{svc: svc, log: logger.With("handler", "prediction")}
}

type predictRequest struct {
	Source        string   `json:"source"`
	Target        string   `json:"target"`
	Pivots        []string `json:"pivots"`
	TopK          *int     `json:"topK"`
	MinScore      *float64 `json:"minScore"`
	SamePOS       *bool    `json:"samePos"`
	RelationTypes []string `json:"relationTypes"`
	Save          bool     `json:"save"`
}

// Predict handles POST /api/predictions.
func (h *PredictionHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	input := prediction.PredictInput{
		Source:   req.Source,
		Target:   req.Target,
		Pivots:   req.Pivots,
		TopK:     req.TopK,
		MinScore: req.MinScore,
		SamePOS:  req.SamePOS,
		Save:     req.Save,
	}
	for _, t := range req.RelationTypes {
		input.RelationTypes = append(input.RelationTypes, domain.RelationType(t))
	}

	res, err := h.svc.Predict(r.Context(), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	preds := mapSlice(res.Predictions, toPredictionResponse)
	if preds == nil {
		preds = []predictionResponse{}
	}
	writeJSON(w, http.StatusOK, predictResponse{
		Predictions: preds,
		Nodes:       res.Nodes,
		Edges:       res.Edges,
		Saved:       res.Saved,
		Skipped:     res.Skipped,
		DurationMS:  res.Duration.Milliseconds(),
	})
}
