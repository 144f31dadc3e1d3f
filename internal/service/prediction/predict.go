package prediction

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/verdd/verdd-backend/internal/domain"
	"github.com/verdd/verdd-backend/internal/linkpred"
	"github.com/verdd/verdd-backend/pkg/ctxutil"
)

// Result is the outcome of one prediction run.
type Result struct {
	Predictions []linkpred.Prediction
	Nodes       int
	Edges       int
	Saved       int
	Skipped     int
	Duration    time.Duration
}

// NotePrefix marks relations created from predictions.
const NotePrefix = "predicted: jaccard="

// Predict builds the translation graph and ranks candidate translations
// from input.Source to input.Target. With Save set, candidates are stored
// as unchecked translation relations; this requires the editor role.
func (s *Service) Predict(ctx context.Context, input PredictInput) (Result, error) {
	if err := input.Validate(); err != nil {
		return Result{}, err
	}
	if input.Save && !domain.Role(ctxutil.RoleFromCtx(ctx)).CanEdit() {
		return Result{}, domain.ErrForbidden
	}

	start := time.Now()
	types := input.RelationTypes
	if len(types) == 0 {
		for _, t := range s.cfg.RelationTypeList() {
			types = append(types, domain.RelationType(t))
		}
	}

	edges, err := s.relations.ListEdges(ctx, types)
	if err != nil {
		return Result{}, fmt.Errorf("list edges: %w", err)
	}

	g := linkpred.Build(edges)
	preds := g.Predict(s.options(input))

	res := Result{Predictions: preds, Nodes: g.NodeCount(), Edges: g.EdgeCount()}
	if input.Save && len(preds) > 0 {
		if res.Saved, res.Skipped, err = s.save(ctx, preds); err != nil {
			return Result{}, err
		}
	}
	res.Duration = time.Since(start)

	s.log.InfoContext(ctx, "translations predicted",
		slog.String("source", input.Source),
		slog.String("target", input.Target),
		slog.Int("nodes", res.Nodes),
		slog.Int("edges", res.Edges),
		slog.Int("predictions", len(preds)),
		slog.Int("saved", res.Saved),
		slog.Int("skipped", res.Skipped),
		slog.Duration("duration", res.Duration),
	)
	return res, nil
}

func (s *Service) options(input PredictInput) linkpred.Options {
	opts := linkpred.Options{
		Source:   input.Source,
		Target:   input.Target,
		Pivots:   input.Pivots,
		TopK:     s.cfg.TopK,
		MinScore: s.cfg.MinScore,
		SamePOS:  s.cfg.SamePOS,
	}
	if input.TopK != nil {
		opts.TopK = *input.TopK
	}
	if input.MinScore != nil {
		opts.MinScore = *input.MinScore
	}
	if input.SamePOS != nil {
		opts.SamePOS = *input.SamePOS
	}
	return opts
}

// save stores predictions in one transaction. Pairs that already have a
// translation relation in either direction are skipped.
func (s *Service) save(ctx context.Context, preds []linkpred.Prediction) (saved, skipped int, err error) {
	var userID *uuid.UUID
	if id, ok := ctxutil.UserIDFromCtx(ctx); ok {
		userID = &id
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		saved, skipped = 0, 0
		for _, p := range preds {
			exists, existsErr := s.relations.Exists(txCtx, p.Source.ID, p.Target.ID, domain.RelationTranslation)
			if existsErr != nil {
				return fmt.Errorf("check relation: %w", existsErr)
			}
			if exists {
				skipped++
				continue
			}

			now := time.Now().UTC()
			rel, createErr := s.relations.Create(txCtx, domain.Relation{
				ID:           uuid.New(),
				LexemeFromID: p.Source.ID,
				LexemeToID:   p.Target.ID,
				Type:         domain.RelationTranslation,
				Notes:        Note(p.Score),
				CreatedBy:    userID,
				CreatedAt:    now,
				UpdatedAt:    now,
			})
			if createErr != nil {
				return fmt.Errorf("create relation: %w", createErr)
			}

			rec := domain.NewHistoryRecord(userID, domain.EntityRelation, rel.ID, domain.ActionCreate, map[string]any{
				"lexeme_from_id": rel.LexemeFromID.String(),
				"lexeme_to_id":   rel.LexemeToID.String(),
				"type":           string(rel.Type),
				"notes":          rel.Notes,
			})
			if logErr := s.history.Log(txCtx, rec); logErr != nil {
				return fmt.Errorf("history create relation: %w", logErr)
			}
			saved++
		}
		return nil
	})
	return saved, skipped, err
}

// Note formats the relation note stored with a saved prediction.
func Note(score float64) string {
	return NotePrefix + strconv.FormatFloat(score, 'f', 4, 64)
}
