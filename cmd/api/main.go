package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/JaiCodes77/testing-CRUD/internal/config"
	"github.com/JaiCodes77/testing-CRUD/internal/db"
	"github.com/JaiCodes77/testing-CRUD/internal/docs"
	"github.com/JaiCodes77/testing-CRUD/internal/health"
	"github.com/JaiCodes77/testing-CRUD/internal/httpx"
	"github.com/JaiCodes77/testing-CRUD/internal/items"
	"github.com/JaiCodes77/testing-CRUD/internal/logger"
	"github.com/JaiCodes77/testing-CRUD/internal/metrics"
)

// shutdownTimeout es cuánto esperamos a que terminen los requests en curso.
const shutdownTimeout = 10 * time.Second

// appStore es el store que necesita la app: sesiones para items,
// ping para /ready y cierre al apagar.
type appStore interface {
	items.Gateway
	Ping(ctx context.Context) error
	Close()
}

// appDeps agrupa las dependencias externas de run para poder testearlo.
type appDeps struct {
	loadConfig func() (config.Config, error)
	newLogger  func(serviceName, level string) (*zap.Logger, error)
	openStore  func(ctx context.Context, cfg config.Config) (appStore, error)
	serve      func(ctx context.Context, server *http.Server) error
}

var (
	loadConfigFn = config.Load
	newLoggerFn  = logger.New
	openStoreFn  = openStore
	serveFn      = serve
	fatalf       = log.Fatal
)

func main() {
	// Contexto raíz del proceso: se cancela con SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, appDeps{
		loadConfig: loadConfigFn,
		newLogger:  newLoggerFn,
		openStore:  openStoreFn,
		serve:      serveFn,
	})
	if err != nil {
		fatalf(err)
	}
}

func run(ctx context.Context, deps appDeps) error {
	cfg, err := deps.loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	zlog, err := deps.newLogger(cfg.ServiceName, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = zlog.Sync() }()

	store, err := deps.openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	defer store.Close()

	router := buildRouter(cfg, store, zlog, metrics.New(metricsNamespace(cfg.ServiceName)))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	zlog.Info("listening", zap.String("addr", server.Addr), zap.String("store", cfg.StoreDriver))
	if err := deps.serve(ctx, server); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	zlog.Info("server stopped")
	return nil
}

// openStore abre el store configurado; ambos crean la tabla si falta.
func openStore(ctx context.Context, cfg config.Config) (appStore, error) {
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		database, err := db.OpenSQLite(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return items.NewSQLiteGateway(database), nil
	case config.DriverPostgres:
		pool, err := db.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return items.NewPostgresGateway(pool), nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}

// serve escucha hasta que ctx se cancele y después apaga ordenadamente.
func serve(ctx context.Context, server *http.Server) error {
	errs := make(chan error, 1)
	go func() {
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func buildRouter(cfg config.Config, store appStore, zlog *zap.Logger, appMetrics *metrics.Metrics) http.Handler {
	r := chi.NewRouter()

	// Middlewares base para trazabilidad y estabilidad.
	r.Use(httpx.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httpx.AccessLog(zlog))
	r.Use(appMetrics.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{cfg.CORSAllowedOrigin},
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
			http.MethodDelete, http.MethodHead, http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{httpx.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           600,
	}))

	// Errores de routing se manejan a nivel router.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Fail(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.Fail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	healthHandler := health.New(store)
	r.Get("/", healthHandler.Root)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	itemService := items.NewService(store, zlog)
	items.RegisterRoutes(r, items.NewHandler(itemService, zlog))

	docs.RegisterRoutes(r)
	r.Method(http.MethodGet, "/metrics", appMetrics.Handler())

	return r
}

// metricsNamespace adapta el nombre del servicio a un namespace válido
// de Prometheus (sin guiones).
func metricsNamespace(serviceName string) string {
	return strings.NewReplacer("-", "_", ".", "_", " ", "_").Replace(serviceName)
}
