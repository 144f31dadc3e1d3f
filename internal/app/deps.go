package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verdd/verdd-backend/internal/adapter/postgres"
	historyrepo "github.com/verdd/verdd-backend/internal/adapter/postgres/history"
	lexemerepo "github.com/verdd/verdd-backend/internal/adapter/postgres/lexeme"
	relationrepo "github.com/verdd/verdd-backend/internal/adapter/postgres/relation"
	satelliterepo "github.com/verdd/verdd-backend/internal/adapter/postgres/satellite"
	userrepo "github.com/verdd/verdd-backend/internal/adapter/postgres/user"
	"github.com/verdd/verdd-backend/internal/app/exporter"
	"github.com/verdd/verdd-backend/internal/app/importer"
	"github.com/verdd/verdd-backend/internal/auth"
	"github.com/verdd/verdd-backend/internal/config"
	hfst "github.com/verdd/verdd-backend/internal/inflection"
	authsvc "github.com/verdd/verdd-backend/internal/service/auth"
	historysvc "github.com/verdd/verdd-backend/internal/service/history"
	"github.com/verdd/verdd-backend/internal/service/inflection"
	"github.com/verdd/verdd-backend/internal/service/lexicon"
	"github.com/verdd/verdd-backend/internal/service/prediction"
)

// Deps holds the database pool, repositories and services shared by the
// HTTP server and the CLI.
type Deps struct {
	Config *config.Config
	Log    *slog.Logger
	Pool   *pgxpool.Pool

	Tx         *postgres.TxManager
	Lexemes    *lexemerepo.Repo
	Relations  *relationrepo.Repo
	Satellites *satelliterepo.Repo
	History    *historyrepo.Repo
	Users      *userrepo.Repo

	Transducers *hfst.Transducers

	Lexicon    *lexicon.Service
	Inflection *inflection.Service
	Prediction *prediction.Service
	HistorySvc *historysvc.Service
	Auth       *authsvc.Service
	Exporter   *exporter.Exporter
}

// NewDeps connects to the database and builds every service.
func NewDeps(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Deps, error) {
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	d, err := Assemble(cfg, logger, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return d, nil
}

// Assemble builds the repositories and services on top of an open pool.
// Close on the result closes the pool.
func Assemble(cfg *config.Config, logger *slog.Logger, pool *pgxpool.Pool) (*Deps, error) {
	fst, err := hfst.NewTransducers(
		hfst.NewLookup(cfg.Inflection.LookupPath, cfg.Inflection.Timeout),
		cfg.Inflection.ModelsDir,
		cfg.Inflection.CacheSize,
	)
	if err != nil {
		return nil, fmt.Errorf("transducers: %w", err)
	}

	d := &Deps{
		Config:      cfg,
		Log:         logger,
		Pool:        pool,
		Tx:          postgres.NewTxManager(pool),
		Lexemes:     lexemerepo.New(pool),
		Relations:   relationrepo.New(pool),
		Satellites:  satelliterepo.New(pool),
		History:     historyrepo.New(pool),
		Users:       userrepo.New(pool),
		Transducers: fst,
	}

	d.Lexicon = lexicon.NewService(logger, d.Lexemes, d.Relations, d.Satellites, d.History, d.Tx, cfg.Lexicon)
	d.Inflection = inflection.NewService(logger, d.Lexemes, d.Satellites, fst)
	d.Prediction = prediction.NewService(logger, d.Relations, d.History, d.Tx, cfg.Prediction)
	d.HistorySvc = historysvc.NewService(logger, d.History)
	d.Auth = authsvc.NewService(logger, d.Users,
		auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL), cfg.Auth)
	d.Exporter = exporter.New(logger, d.Lexemes, d.Relations, d.Satellites)

	return d, nil
}

// ImportRepos returns the repositories used by the import pipeline.
func (d *Deps) ImportRepos() importer.Repos {
	return importer.Repos{
		Lexemes:    d.Lexemes,
		Relations:  d.Relations,
		Satellites: d.Satellites,
		History:    d.History,
		Tx:         d.Tx,
	}
}

// Close releases the database pool.
func (d *Deps) Close() {
	d.Pool.Close()
}
