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

	"github.com/raudvere/lectern/internal/api"
	"github.com/raudvere/lectern/internal/document"
	"github.com/raudvere/lectern/internal/loader"
	"github.com/raudvere/lectern/internal/mcpserver"
	"github.com/raudvere/lectern/internal/sse"
	"github.com/raudvere/lectern/internal/state"
	"github.com/raudvere/lectern/internal/watch"
	"github.com/raudvere/lectern/internal/workspace"
)

// Run starts the HTTP server with the given options.
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

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("state_db_path", cfg.StateDB.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	db, err := state.Open(cfg.StateDB.Path, logger)
	if err != nil {
		return fmt.Errorf("init state db: %w", err)
	}
	defer db.Close()

	// SSE broker.
	broker := sse.NewBroker()
	defer broker.Close()

	ctrl := buildWorkspace(cfg, db, broker, logger)
	defer ctrl.Close()

	openStartupDocument(cfg, ctrl, logger)

	// Build API router.
	apiRouter := api.NewRouter(ctrl, loader.New(), db, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

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

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

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

// RunMCP starts the MCP stdio server with the given options. Logs go to
// stderr because stdout carries the MCP transport.
func RunMCP(_ context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	db, err := state.Open(cfg.StateDB.Path, logger)
	if err != nil {
		return fmt.Errorf("init state db: %w", err)
	}
	defer db.Close()

	broker := sse.NewBroker()
	defer broker.Close()

	ctrl := buildWorkspace(cfg, db, broker, logger)
	defer ctrl.Close()

	srv := mcpserver.New(ctrl, loader.New())
	logger.Info("MCP server starting on stdio")
	return srv.ServeStdio()
}

// buildWorkspace wires the loader, watch controller, and persistence into a
// workspace controller. The watcher callback is late-bound because the
// controller does not exist yet when the watcher is constructed.
func buildWorkspace(cfg *Config, db *state.DB, broker *sse.Broker, logger *slog.Logger) *workspace.Controller {
	var ctrl *workspace.Controller

	quiet := time.Duration(cfg.Reader.ReloadQuietPeriodMs) * time.Millisecond
	watcher := watch.NewController(quiet, func(path string) {
		if ctrl != nil {
			ctrl.HandleFileChanged(path)
		}
	}, logger)

	settings := db.LoadSettings()
	prefs := document.RenderPreferences{
		PerformanceMode: cfg.Reader.PerformanceMode || settings.PerformanceMode,
		WordCountRules: document.WordCountRules{
			IncludeLinks:       cfg.Reader.CountLinkText,
			IncludeCode:        cfg.Reader.CountCodeBlocks,
			IncludeFrontMatter: cfg.Reader.CountFrontMatter,
		},
	}

	ctrl = workspace.New(workspace.Config{
		Loader:           loader.New(),
		Watcher:          watcher,
		Store:            db,
		Events:           broker,
		Logger:           logger,
		Preferences:      prefs,
		MaxRecentEntries: cfg.Workspace.MaxRecentEntries,
	})
	return ctrl
}

// openStartupDocument restores the persisted active tab, falling back to
// the configured initial document.
func openStartupDocument(cfg *Config, ctrl *workspace.Controller, logger *slog.Logger) {
	if ctrl.Tabs().ActivePath != "" {
		res := ctrl.ReopenActive()
		logger.Info("session restored", slog.String("result", res.String()))
		return
	}
	if cfg.Workspace.InitialDocument == "" {
		return
	}
	res := ctrl.OpenInTab(cfg.Workspace.InitialDocument, workspace.OpenOptions{
		ActivateTab:   true,
		RestartWatch:  true,
		RestoreScroll: true,
	})
	logger.Info("initial document opened",
		slog.String("path", cfg.Workspace.InitialDocument),
		slog.String("result", res.String()))
}
