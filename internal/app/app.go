package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/verdd/verdd-backend/internal/config"
	"github.com/verdd/verdd-backend/internal/transport/middleware"
	"github.com/verdd/verdd-backend/internal/transport/rest"
)

// Run is the server entry point. It loads configuration, connects to the
// database, serves the REST API and shuts down gracefully when ctx ends.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	deps, err := NewDeps(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)
		defer limiter.Stop()
	}

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      NewHandler(deps, limiter),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return serve(ctx, logger, srv, cfg.Server.ShutdownTimeout)
}

// NewHandler mounts the REST routes behind the middleware chain. limiter
// may be nil to disable rate limiting.
func NewHandler(d *Deps, limiter *middleware.RateLimiter) http.Handler {
	cfg := d.Config
	lang := cfg.Lexicon.SourceLanguage

	router := rest.NewRouter(rest.Handlers{
		Health: rest.NewHealthHandler(d.Pool, Version, rest.Check{
			Name: "hfst",
			Ping: func(context.Context) error {
				if !d.Transducers.HasModels(lang) {
					return fmt.Errorf("no generator for %s in %s", lang, cfg.Inflection.ModelsDir)
				}
				return nil
			},
		}),
		Auth:       rest.NewAuthHandler(d.Auth, d.Log),
		Lexicon:    rest.NewLexiconHandler(d.Lexicon, d.Log),
		Inflection: rest.NewInflectionHandler(d.Inflection, d.Log),
		Prediction: rest.NewPredictionHandler(d.Prediction, d.Log),
		Export:     rest.NewExportHandler(d.Exporter, d.Log, cfg.Lexicon.SourceLanguage, cfg.Lexicon.TargetLanguage),
		History:    rest.NewHistoryHandler(d.HistorySvc, d.Log),
	})

	chain := []middleware.Middleware{
		middleware.RequestID(),
		middleware.Recovery(d.Log),
		middleware.Logger(d.Log),
		middleware.CORS(cfg.CORS),
	}
	if limiter != nil {
		chain = append(chain, limiter.Limit(perMinute(cfg.RateLimit.Requests, cfg.RateLimit.Window)))
	}
	chain = append(chain, middleware.Auth(d.Auth))

	return middleware.Chain(chain...)(router)
}

// perMinute converts a requests-per-window limit into the per-minute rate
// the limiter expects. The result is at least 1.
func perMinute(requests int, window time.Duration) int {
	if window <= 0 {
		window = time.Minute
	}
	n := int(float64(requests) * float64(time.Minute) / float64(window))
	return max(n, 1)
}

// serve runs srv until ctx is cancelled, then drains connections within
// shutdownTimeout.
func serve(ctx context.Context, logger *slog.Logger, srv *http.Server, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", shutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
