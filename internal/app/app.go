package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/outstackhq/outstack/internal/campaign"
	"github.com/outstackhq/outstack/internal/config"
	"github.com/outstackhq/outstack/internal/mailbox"
	"github.com/outstackhq/outstack/internal/platform/lemlist"
	"github.com/outstackhq/outstack/internal/platform/router"
)

type App struct {
	server          *http.Server
	config          *config.Config
	middlewares     []func(http.Handler) http.Handler
	stop            context.CancelFunc
	shutdownTimeout time.Duration
	lemlist         *lemlist.Client
	router          router.Router
}

// New wires the application: middlewares, services and routes. The returned
// App only needs Start to begin serving.
func New(cfg *config.Config, provider *Provider, middlewares []func(http.Handler) http.Handler) *App {
	serverCtx, stop := context.WithCancel(context.Background())
	serverCfg := cfg.Server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", serverCfg.Port),
		Handler: provider.Router,
		BaseContext: func(_ net.Listener) context.Context {
			return serverCtx
		},
		ReadTimeout:  serverCfg.ReadTimeout.Duration,
		WriteTimeout: serverCfg.WriteTimeout.Duration,
		IdleTimeout:  serverCfg.IdleTimeout.Duration,
	}

	a := &App{
		config:          cfg,
		lemlist:         provider.Lemlist,
		router:          provider.Router,
		server:          server,
		middlewares:     middlewares,
		stop:            stop,
		shutdownTimeout: serverCfg.ShutdownTimeout.Duration,
	}
	a.registerMiddlewares()
	a.setupRoutes()
	return a
}

func (a *App) registerMiddlewares() {
	for _, mw := range a.middlewares {
		a.router.Use(mw)
	}
}

func (a *App) setupRoutes() {
	campaignSvc := campaign.NewService(a.lemlist, a.config.Dashboard)
	campaignHandler := campaign.NewHandler(campaignSvc)

	mailboxSvc := mailbox.NewService(a.lemlist, a.config.Dashboard)
	mailboxHandler := mailbox.NewHandler(mailboxSvc)

	mountRoutes(a.router, campaignHandler, mailboxHandler)
}

// Router exposes the fully wired handler for tests that drive the API
// through an httptest server.
func (a *App) Router() router.Router {
	return a.router
}

// Start serves until ctx is done or the listener fails.
func (a *App) Start(ctx context.Context) error {
	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server listening...", "address", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("listen and serve: %w", err)
			return
		}
		slog.Info("Server has stopped.")
		serverErr <- nil
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutdown signal received.")
		return nil
	case err := <-serverErr:
		return err
	}
}

func (a *App) Shutdown() error {
	slog.Info("Shutting down server...")
	a.stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	return nil
}
