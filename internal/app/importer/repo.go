// Package importer loads dictionary files into the database in batches.
package importer

import (
	"context"

	"github.com/google/uuid"

	"github.com/verdd/verdd-backend/internal/domain"
)

// LexemeRepo is implemented by lexeme.Repo.
type LexemeRepo interface {
	FindByKeys(ctx context.Context, keys []domain.LexemeKey) (map[domain.LexemeKey]uuid.UUID, error)
	// BulkInsert skips natural-key duplicates.
	BulkInsert(ctx context.Context, lexemes []domain.Lexeme) (int, error)
}

// RelationRepo is implemented by relation.Repo.
type RelationRepo interface {
	BulkInsert(ctx context.Context, rels []domain.Relation) (int, error)
	FindIDs(ctx context.Context, keys []domain.RelationKey) (map[domain.RelationKey]uuid.UUID, error)
}

// SatelliteRepo is implemented by satellite.Repo.
type SatelliteRepo interface {
	BulkInsertStems(ctx context.Context, items []domain.Stem) (int, error)
	BulkInsertExamples(ctx context.Context, items []domain.Example) (int, error)
	BulkInsertRelationExamples(ctx context.Context, items []domain.RelationExample) (int, error)
}

// HistoryRepo is implemented by history.Repo.
type HistoryRepo interface {
	Log(ctx context.Context, record domain.HistoryRecord) error
}

// TxManager runs the write stages in one transaction.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Repos bundles the stores the pipeline writes to.
type Repos struct {
	Lexemes    LexemeRepo
	Relations  RelationRepo
	Satellites SatelliteRepo
	History    HistoryRepo
	Tx         TxManager
}
