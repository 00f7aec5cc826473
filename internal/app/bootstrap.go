package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ferdiebergado/goexpress"
	"github.com/ferdiebergado/gopherkit/env"

	"github.com/outstackhq/outstack/internal/config"
	"github.com/outstackhq/outstack/internal/middleware"
	"github.com/outstackhq/outstack/internal/pkg/logging"
	"github.com/outstackhq/outstack/internal/pkg/message"
	"github.com/outstackhq/outstack/internal/platform/validation"
)

func Run(baseCtx context.Context) error {
	slog.Info("Initializing...")

	signalCtx, stop := signal.NotifyContext(baseCtx, os.Interrupt, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	if os.Getenv("ENV") != "production" {
		if err := env.Load(".env"); err != nil {
			return fmt.Errorf("load env: %w", err)
		}
	}
	logging.SetupLogger(os.Getenv("ENV"), os.Getenv("LOG_LEVEL"), os.Stderr)

	cfg, err := config.Load("config.json")
	if err != nil {
		return err
	}
	if errs := validation.NewGoPlaygroundValidator().ValidateStruct(cfg); len(errs) > 0 {
		return fmt.Errorf("invalid config: %v", errs)
	}
	slog.Info("Configuration loaded.", "config", cfg)

	const envKey = "LEMLIST_API_KEY"
	apiKey, ok := os.LookupEnv(envKey)
	if !ok {
		return fmt.Errorf(message.EnvErrFmt, envKey)
	}

	provider, err := newProvider(cfg, apiKey)
	if err != nil {
		return err
	}

	middlewares := []func(http.Handler) http.Handler{
		middleware.InjectWriter,
		goexpress.RecoverFromPanic,
		middleware.RequestID,
		middleware.LogRequest,
		middleware.CORS,
	}
	api := New(cfg, provider, middlewares)

	if err := api.Start(signalCtx); err != nil {
		return fmt.Errorf("start server: %w", err)
	}
	return api.Shutdown()
}
