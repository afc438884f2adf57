package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	handlers "github.com/kv-tools/value-atlas/pkg/handlers/scorecard"
	atlasmiddleware "github.com/kv-tools/value-atlas/pkg/server/middleware"
	scorecardstore "github.com/kv-tools/value-atlas/pkg/store/sqlite/scorecard"
)

// WebAPI serves computed scorecards read-only; all writes go through the
// CLI pipeline.
type WebAPI struct {
	router          *chi.Mux
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Scorecards scorecardstore.Store
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	scHandler := handlers.NewHandler(config.Dependencies.Scorecards)

	router := chi.NewRouter()

	router.Use(atlasmiddleware.Logger(&logger))
	router.Use(atlasmiddleware.Metrics())
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/scorecards", scHandler.ListScorecards)
		r.Get("/scorecards/{stockCode}", scHandler.GetScorecard)
		r.Get("/rankings", scHandler.GetRankings)
	})
	router.Handle("/metrics", promhttp.Handler())

	timeout := config.ShutdownTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:    config.Addr,
			Handler: router,
		},
		shutdownTimeout: timeout,
	}
}

// Start listens on the configured address and blocks until ctx is
// canceled, a termination signal arrives, or the listener fails.
// In-flight requests get shutdownTimeout to finish.
func (w *WebAPI) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("server listening")
		errCh <- w.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	w.logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
	defer cancel()
	if err := w.server.Shutdown(shutdownCtx); err != nil {
		w.logger.Error().Err(err).Msg("graceful shutdown failed")
		return w.server.Close()
	}
	return nil
}

// Handler exposes the router for tests.
func (w *WebAPI) Handler() http.Handler {
	return w.router
}
