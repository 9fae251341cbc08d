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
	"github.com/rs/zerolog"

	"github.com/freight-tools/loadsheet/pkg/handlers/exchange"
	loadsheetmiddleware "github.com/freight-tools/loadsheet/pkg/server/middleware"
)

type Dependencies struct {
	Imports exchange.ImportService
	Reports exchange.ReportService
	Queries exchange.QueryService
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

type WebAPI struct {
	router          *chi.Mux
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

// ConfigureRouter builds the API routes over the given dependencies.
func ConfigureRouter(logger *zerolog.Logger, deps Dependencies) *chi.Mux {
	handler := exchange.NewHandler(deps.Imports, deps.Reports, deps.Queries)

	router := chi.NewRouter()
	router.Use(loadsheetmiddleware.Logger(logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/imports/{kind}", handler.Import)
		r.Get("/templates/{kind}", handler.Template)
		r.Post("/reports/aggregate", handler.Aggregate)
		r.Post("/reports/export", handler.Export)
		r.Get("/orders", handler.ListOrders)
		r.Get("/prices", handler.ListPrices)
	})

	return router
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	router := ConfigureRouter(&logger, config.Dependencies)

	shutdownTimeout := config.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:    config.Addr,
			Handler: router,
		},
		shutdownTimeout: shutdownTimeout,
	}
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
