package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Lelo88/request-admin/internal/config"
	"github.com/Lelo88/request-admin/internal/db"
	"github.com/Lelo88/request-admin/internal/docs"
	"github.com/Lelo88/request-admin/internal/health"
	"github.com/Lelo88/request-admin/internal/httpx"
	"github.com/Lelo88/request-admin/internal/logger"
	"github.com/Lelo88/request-admin/internal/requests"
)

// appPool es lo que el binario necesita del pool: health, repositorio y schema.
type appPool interface {
	health.Pinger
	requests.DB
	Close()
}

type appDeps struct {
	loadConfig     func() (config.Config, error)
	newLogger      func(cfg config.LogConfig) (*zap.Logger, error)
	newPool        func(ctx context.Context, url string) (appPool, error)
	listenAndServe func(addr string, handler http.Handler) error
}

var (
	loadConfigFn = config.Load
	newLoggerFn  = logger.New
	newPoolFn    = func(ctx context.Context, url string) (appPool, error) {
		return db.NewPool(ctx, url)
	}
	listenAndServeFn = http.ListenAndServe
	fatalf           = log.Fatal
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, appDeps{
		loadConfig:     loadConfigFn,
		newLogger:      newLoggerFn,
		newPool:        newPoolFn,
		listenAndServe: listenAndServeFn,
	}); err != nil {
		fatalf(err)
	}
}

func run(ctx context.Context, deps appDeps) error {
	cfg, err := deps.loadConfig()
	if err != nil {
		return err
	}

	logg, err := deps.newLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logg.Sync() }()

	pool, err := deps.newPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		return err
	}

	addr := ":" + cfg.Port
	logg.Info("listening", zap.String("addr", addr))
	return deps.listenAndServe(addr, buildRouter(pool, logg))
}

func buildRouter(pool appPool, logg *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Middlewares base para trazabilidad y estabilidad.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httpx.AccessLog(logg))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	// Errores de routing se manejan a nivel router.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Fail(w, r, http.StatusNotFound, "not_found", "resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.Fail(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	healthHandler := health.New(pool)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	docs.RegisterRoutes(r)

	service := requests.NewService(requests.NewRepository(pool), logg)
	requests.RegisterRoutes(r, requests.NewHandler(service, logg))

	return r
}
