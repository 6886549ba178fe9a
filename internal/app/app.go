// Package app assembles the HTTP application: configuration, logging,
// services, router, and server lifecycle.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"tsclean/internal/config"
	apierrors "tsclean/internal/errors"
	"tsclean/internal/infrastructure"
	"tsclean/internal/middleware"
	"tsclean/internal/preset"
	"tsclean/internal/services"
	transport "tsclean/internal/transport/http"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// Application holds the wired components of the service.
type Application struct {
	Config *config.Config
	Logger *slog.Logger
	Server *http.Server

	cleanseService *services.CleanseService
	presetService  *services.PresetService
	healthService  *services.HealthService
	registry       *prometheus.Registry
}

// NewApplication builds the application from the given configuration.
func NewApplication(cfg *config.Config) (*Application, error) {
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := services.NewMetrics(registry)

	store, err := preset.NewStore(cfg.Paths.PresetsDir)
	if err != nil {
		return nil, fmt.Errorf("open preset store: %w", err)
	}

	a := &Application{
		Config:         cfg,
		Logger:         logger,
		cleanseService: services.NewCleanseService(logger, metrics),
		presetService:  services.NewPresetService(store, logger),
		healthService:  services.NewHealthService(Version),
		registry:       registry,
	}
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      a.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return a, nil
}

// Router builds the chi router with the full middleware chain and all
// mounted handlers.
func (a *Application) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.StructuredLogger(a.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(a.Config.Server.RequestTimeout))
	r.Use(middleware.RateLimit(a.Config.Security.RateLimit, a.Logger))

	errorHandler := apierrors.NewErrorHandler(a.Logger)

	cleanseHandler := transport.NewCleanseHandler(
		a.cleanseService, a.presetService, a.Config.Pipeline, a.Logger, errorHandler)
	r.Route("/api", func(r chi.Router) {
		r.Mount("/cleanse", cleanseHandler.Routes())
		r.Get("/columns", cleanseHandler.GetColumns)
		r.Mount("/presets", transport.NewPresetHandler(
			a.presetService, a.Logger, errorHandler).Routes())
	})
	r.Mount("/healthz", transport.NewHealthHandler(a.healthService).Routes())
	r.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))

	return r
}

// Run starts the server and blocks until the context is cancelled or an
// interrupt arrives, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfoContext(ctx, "server starting",
			slog.String("addr", a.Server.Addr),
			slog.String("version", Version))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		a.Logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout())
		defer cancel()
		if err := a.Server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	a.Logger.Info("server stopped")
	return nil
}

func (a *Application) shutdownTimeout() time.Duration {
	if a.Config.Server.ShutdownTimeout > 0 {
		return a.Config.Server.ShutdownTimeout
	}
	return 10 * time.Second
}
