package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/odyssey-erp/odyssey-admin/internal/api"
	"github.com/odyssey-erp/odyssey-admin/internal/auth"
	"github.com/odyssey-erp/odyssey-admin/internal/grid"
	"github.com/odyssey-erp/odyssey-admin/internal/lookup"
	"github.com/odyssey-erp/odyssey-admin/internal/observability"
	"github.com/odyssey-erp/odyssey-admin/internal/platform/cache"
	"github.com/odyssey-erp/odyssey-admin/internal/platform/db"
	"github.com/odyssey-erp/odyssey-admin/internal/rbac"
	"github.com/odyssey-erp/odyssey-admin/internal/shared"
	"github.com/odyssey-erp/odyssey-admin/internal/state"
	tradehttp "github.com/odyssey-erp/odyssey-admin/internal/trade/http"
	"github.com/odyssey-erp/odyssey-admin/internal/view"
	"github.com/odyssey-erp/odyssey-admin/jobs"
	"github.com/odyssey-erp/odyssey-admin/report"
)

// Console is the assembled web application with the resources it owns.
type Console struct {
	Handler http.Handler
	closers []func() error
	logger  *slog.Logger
}

// Close releases pools, clients and watchers in reverse order.
func (c *Console) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			c.logger.Warn("close", slog.Any("error", err))
		}
	}
}

// Build connects the backing services and wires every screen.
func Build(ctx context.Context, cfg *Config, logger *slog.Logger) (_ *Console, err error) {
	console := &Console{logger: logger}
	defer func() {
		if err != nil {
			console.Close()
		}
	}()

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		return nil, err
	}
	console.closers = append(console.closers, func() error { pool.Close(); return nil })

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		return nil, err
	}
	console.closers = append(console.closers, redisClient.Close)

	engine, err := view.NewEngine(view.Options{Dir: cfg.TemplateDir, Locale: cfg.Locale, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	console.closers = append(console.closers, engine.Close)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	console.closers = append(console.closers, inspector.Close)

	metrics := observability.NewMetrics()
	client := api.NewClient(cfg.APIBaseURL, cfg.APITimeout, api.WithObserver(metrics))
	sessions := shared.NewSessionManager(redisClient, cfg.SessionCookie, cfg.SessionTTL, cfg.IsProduction())
	csrf := shared.NewCSRFManager(cfg.CSRFSecret)
	renderer := view.Renderer{Engine: engine, CSRF: csrf, Logger: logger}
	states := state.NewStore(redisClient, cfg.SessionTTL, cfg.PageSize)
	activity := shared.NewActivityLog(pool)
	rbacMiddleware := rbac.Middleware{Logger: logger}
	pdf := report.NewClient(cfg.GotenbergURL, 0)

	gridDeps := grid.Deps{
		Logger:    logger,
		Renderer:  renderer,
		State:     states,
		Lookups:   lookup.NewService(redisClient, cfg.LookupTTL, logger),
		Activity:  activity,
		RBAC:      rbacMiddleware,
		Validator: grid.NewValidator(),
	}
	resources := NewResources(client)
	RegisterLookups(gridDeps, resources)
	screens := BuildScreens(client, resources, view.NewFormatter(cfg.Locale), tradehttp.Deps{
		Deps:      gridDeps,
		Guard:     shared.NewIdempotencyStore(pool),
		PDF:       pdf,
		Formatter: view.NewFormatter(cfg.Locale),
	})

	params := RouterParams{
		Logger:         logger,
		Config:         cfg,
		Renderer:       renderer,
		SessionManager: sessions,
		CSRFManager:    csrf,
		Metrics:        metrics,
		RBAC:           rbacMiddleware,
		AuthHandler:    auth.NewHandler(logger, auth.NewService(client), renderer, sessions, csrf, states),
		Screens:        screens,
		Activity:       activity,
		ReportHandler:  report.NewHandler(pdf, logger),
		JobHandler:     jobs.NewHandler(inspector, logger),
	}
	if cfg.TemplateDir != "" {
		params.Static = os.DirFS(filepath.Join(cfg.TemplateDir, "static"))
	}
	console.Handler = NewRouter(params)
	return console, nil
}

// Serve runs the HTTP server until ctx is cancelled, then drains it.
func Serve(ctx context.Context, cfg *Config, logger *slog.Logger, handler http.Handler) error {
	server := &http.Server{
		Addr:              cfg.AppAddr,
		Handler:           handler,
		ReadTimeout:       cfg.AppReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.AppWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// OpenPool connects to PostgreSQL; used by commands that only need the database.
func OpenPool(ctx context.Context, cfg *Config) (*pgxpool.Pool, error) {
	return db.New(ctx, cfg.PGDSN)
}

// OpenRedis connects to Redis.
func OpenRedis(ctx context.Context, cfg *Config) (*redis.Client, error) {
	return cache.New(ctx, cfg.RedisAddr)
}
