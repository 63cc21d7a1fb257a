// main is the entry point of the student manager.
//
// STARTUP SEQUENCE:
//  1. Load configuration (.env, optional YAML, environment)
//  2. Initialise the logger
//  3. Open the configured record store and wrap it with metrics
//  4. Build the page controller and run its initial probe + load
//  5. Register all HTTP routes and start the server in a goroutine
//  6. Block until an OS signal (Ctrl+C / kill) arrives
//  7. Gracefully shut down: finish in-flight requests, then exit
//
// RUNNING THE SERVER:
//
//	SUPABASE_URL=https://xyz.supabase.co SUPABASE_ANON_KEY=... go run ./cmd/students-api
//
// or with a local file instead of the hosted store:
//
//	STORE_DRIVER=sqlite go run ./cmd/students-api --config=config/local.yaml
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/aanand-mishra/student-manager/internal/config"
	"github.com/aanand-mishra/student-manager/internal/http/handlers/web"
	"github.com/aanand-mishra/student-manager/internal/http/router"
	"github.com/aanand-mishra/student-manager/internal/manager"
	"github.com/aanand-mishra/student-manager/internal/metrics"
	"github.com/aanand-mishra/student-manager/internal/storage"
	"github.com/aanand-mishra/student-manager/internal/storage/instrumented"
	"github.com/aanand-mishra/student-manager/internal/storage/postgres"
	"github.com/aanand-mishra/student-manager/internal/storage/postgrest"
	"github.com/aanand-mishra/student-manager/internal/storage/sqlite"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	// MustLoad exits when the store credentials are missing.
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting student-manager",
		slog.String("env", cfg.Env),
		slog.String("version", "1.0.0"),
	)
	log.Info("store config status",
		slog.String("driver", cfg.Store.Driver),
		slog.Bool("url_set", cfg.Store.URL != ""),
		slog.String("api_key", cfg.Store.MaskedKey()),
	)

	// ── 3. Initialise Storage ─────────────────────────────────────────────
	// The rest of the program only sees storage.Storage, so the driver
	// is chosen here and nowhere else.
	backend, closeStore, err := newStorage(cfg, log)
	if err != nil {
		log.Error("failed to initialise storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Error("failed to close storage", slog.String("error", err.Error()))
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	store := instrumented.New(backend, m, log)

	// ── 4. Page Controller ────────────────────────────────────────────────
	toasts := manager.NewToasts(manager.WithNotifyHook(func(l manager.Level) {
		m.IncNotification(string(l))
	}))
	mgr, err := manager.New(store, toasts, manager.WithLogger(log))
	if err != nil {
		log.Error("failed to build manager", slog.String("error", err.Error()))
		os.Exit(1)
	}
	mgr.Initialize(context.Background())

	page, err := web.NewHandler(mgr, toasts, log)
	if err != nil {
		log.Error("failed to build page", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// ── 5. HTTP Server ────────────────────────────────────────────────────
	//   GET    /                    → the page
	//   GET    /api/students        → list all students
	//   POST   /api/students        → create a student
	//   PUT    /api/students/{id}   → update a student
	//   DELETE /api/students/{id}   → delete a student
	//   GET    /healthz             → store probe
	//   GET    /metrics             → Prometheus
	server := &http.Server{
		Addr: cfg.HTTPServer.Addr,
		Handler: router.New(router.Deps{
			Store:          store,
			Page:           page,
			Gatherer:       reg,
			AllowedOrigins: cfg.HTTPServer.AllowedOrigins,
			Logger:         log,
		}),

		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server encountered an error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// ── 6. Wait for Shutdown Signal ───────────────────────────────────────
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("shutdown signal received, stopping server...")

	// ── 7. Graceful Shutdown ──────────────────────────────────────────────
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server gracefully", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}

// newStorage opens the backend named by cfg.Store.Driver. The returned
// func releases its connections.
func newStorage(cfg *config.Config, log *slog.Logger) (storage.Storage, func() error, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgREST:
		client, err := postgrest.New(cfg.Store.URL, cfg.Store.APIKey, cfg.Store.Timeout, postgrest.WithLogger(log))
		if err != nil {
			return nil, nil, err
		}
		log.Info("storage initialised", slog.String("url", cfg.Store.URL))
		return client, func() error { return nil }, nil

	case config.DriverPostgres:
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Store.Timeout)
		defer cancel()
		store, err := postgres.Connect(ctx, cfg.Store.DSN)
		if err != nil {
			return nil, nil, err
		}
		log.Info("storage initialised", slog.String("driver", "postgres"))
		return store, store.Close, nil

	case config.DriverSQLite:
		store, err := sqlite.New(cfg.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		log.Info("storage initialised", slog.String("path", cfg.Store.Path))
		return store, store.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	case "staging":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
