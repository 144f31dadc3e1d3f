// Package prediction runs translation prediction over the stored relation
// graph and optionally saves the suggestions as unchecked relations.
package prediction

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/verdd/verdd-backend/internal/config"
	"github.com/verdd/verdd-backend/internal/domain"
)

type relationRepo interface {
	ListEdges(ctx context.Context, types []domain.RelationType) ([]domain.RelationEdge, error)
	Exists(ctx context.Context, from, to uuid.UUID, typ domain.RelationType) (bool, error)
	Create(ctx context.Context, rel domain.Relation) (domain.Relation, error)
}

type historyRepo interface {
	Log(ctx context.Context, record domain.HistoryRecord) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service implements predict_translations.
type Service struct {
	log       *slog.Logger
	relations relationRepo
	history   historyRepo
	tx        txManager
	cfg       config.PredictionConfig
}

// NewService creates a new prediction service.
func NewService(logger *slog.Logger, relations relationRepo, history historyRepo, tx txManager, cfg config.PredictionConfig) *Service {
	return &Service{
		log:       logger.With("service", "prediction"),
		relations: relations,
		history:   history,
		tx:        tx,
		cfg:       cfg,
	}
}
