// Package internal provides the main application initialization and runtime logic.
package internal

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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/operlabs/conexao/internal/admin"
	"github.com/operlabs/conexao/internal/api"
	"github.com/operlabs/conexao/internal/content"
	"github.com/operlabs/conexao/internal/mcpserver"
	"github.com/operlabs/conexao/internal/sse"
	"github.com/operlabs/conexao/internal/watch"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	store := content.NewStore(&content.FileLoader{Path: cfg.Content.DataFile})

	if app.mcpMode {
		// MCP stdio mode: no HTTP server, just the read-only tools.
		return mcpserver.New(store).ServeStdio()
	}

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("data_file", cfg.Content.DataFile),
		slog.String("site_dir", cfg.Content.SiteDir),
		slog.Bool("admin_enabled", cfg.Admin.Enabled()),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// SSE broker.
	broker := sse.NewBroker()
	defer broker.Close()

	// The editing session starts from the published collection when the
	// data file already exists.
	var session *admin.Session
	var gate *admin.Gate
	if cfg.Admin.Enabled() {
		session = admin.NewSession()
		if data, err := os.ReadFile(cfg.Content.DataFile); err == nil {
			if err := session.Import(data); err != nil {
				logger.Warn("could not seed editing session", slog.String("error", err.Error()))
			}
		}
		gate = admin.NewGate(cfg.Admin.Username, cfg.Admin.PasswordHash, admin.SHA256Hasher{}, admin.NewMemorySessionStore())
	}

	apiRouter := api.NewRouter(store, session, gate, broker, broker, cfg.Content.SiteDir)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	// Static site.
	if cfg.Content.SiteDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(cfg.Content.SiteDir)))
	}

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the collection document; a replaced file invalidates the cache
	// and tells connected readers to refetch.
	g.Go(func() error {
		err := watch.File(gCtx, cfg.Content.DataFile, logger, func() {
			store.Invalidate()
			broker.PublishCollectionReloaded()
		})
		if err != nil {
			logger.Warn("file watcher stopped", slog.String("error", err.Error()))
		}
		return nil
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
