package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	"salesreg/internal/config"
	apierrors "salesreg/internal/errors"
	"salesreg/internal/infrastructure"
	customMiddleware "salesreg/internal/middleware"
	"salesreg/internal/services"
	"salesreg/internal/store"
	handlers "salesreg/internal/transport/http"
	"salesreg/internal/websocket"
)

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.PipelineMetrics
	Store         *store.Store // nil when run history is disabled
	Hub           *websocket.Hub

	RegressionService *services.RegressionService
	HealthService     *services.HealthService

	Router *chi.Mux
	Server *http.Server
}

// NewApplication wires telemetry, storage, services and the HTTP router
func NewApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Application, error) {
	a := &Application{Config: cfg, Logger: logger}

	providers, err := infrastructure.InitializeOTel(infrastructure.NewOTelConfig(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}
	a.OTelProviders = providers

	metrics, err := infrastructure.CreatePipelineMetrics(providers.Meter)
	if err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}
	a.Metrics = metrics

	if cfg.Store.File != "" {
		s, err := store.Open(ctx, cfg.Store.File)
		if err != nil {
			a.Close(ctx)
			return nil, fmt.Errorf("failed to open run store: %w", err)
		}
		a.Store = s
		logger.InfoContext(ctx, "Run history enabled", slog.String("file", cfg.Store.File))
	}

	a.initializeServices()
	a.setupRouter()
	a.createServer()
	return a, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices() {
	a.Hub = websocket.NewHub(a.Logger)

	opts := []services.ServiceOption{
		services.WithEvents(a.Hub),
		services.WithMetrics(a.Metrics),
		services.WithTracer(a.OTelProviders.Tracer),
		services.WithDefaultSeed(a.Config.Pipeline.Seed),
		services.WithPreviewRows(a.Config.Pipeline.PreviewRows),
		services.WithMaxConcurrentRuns(a.Config.Pipeline.MaxConcurrentRuns),
	}
	// a typed nil *store.Store must not reach the RunStore interface
	var pinger services.Pinger
	if a.Store != nil {
		opts = append(opts, services.WithStore(a.Store))
		pinger = a.Store
	}

	a.RegressionService = services.NewRegressionService(a.Logger, opts...)
	a.HealthService = services.NewHealthService(config.AppVersion, pinger, a.Logger)
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()
	errorHandler := apierrors.NewErrorHandler(a.Logger, false)

	// RequestID → RealIP → OTel → error/log/recover → security headers
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders.Tracer, a.Metrics, a.Logger).Handler)
	r.Use(apierrors.NewErrorMiddleware(errorHandler, a.Logger).Handler)
	r.Use(customMiddleware.SecurityHeaders)

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
	r.Mount(config.HealthEndpoint, healthHandler.Routes())

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/version", healthHandler.Version)

		r.Route("/v1", func(r chi.Router) {
			r.Use(customMiddleware.Timeout(a.Config.Server.WriteTimeout))
			if rl := a.Config.Server.RateLimit; rl.Enabled {
				r.Use(customMiddleware.NewRateLimiter(rl.RPS, rl.Burst, errorHandler, a.Logger).Handler)
			}
			r.Use(customMiddleware.ContentTypeValidator(errorHandler,
				"text/csv",
				"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
				"application/octet-stream",
				"multipart/form-data",
			))

			regressionHandler := handlers.NewRegressionHandler(a.RegressionService, errorHandler,
				a.Config.Server.MaxUploadBytes, a.Logger)
			r.Mount("/regressions", regressionHandler.Routes())
			r.Method(http.MethodGet, "/events", handlers.NewEventsHandler(a.Hub, a.Logger))
		})
	})

	// outside /api so scrapers skip rate limiting
	r.Method(http.MethodGet, config.MetricsEndpoint,
		handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP, errorHandler))

	a.Router = r
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         a.Config.Server.Addr,
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully
func (a *Application) Run(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion),
		slog.String("addr", a.Config.Server.Addr),
		slog.String("level", a.Config.Logging.Level))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return a.Stop(context.WithoutCancel(ctx))
	})
	return g.Wait()
}

// Stop gracefully stops the HTTP server
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	return nil
}

// Close releases the run store and flushes telemetry
func (a *Application) Close(ctx context.Context) error {
	var errs []error
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close store: %w", err))
		}
	}
	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		a.Logger.ErrorContext(ctx, "Application close failed", slog.String("error", err.Error()))
		return err
	}
	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}
