package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/ferdiebergado/goexpress"
	"github.com/ferdiebergado/gopherkit/env"

	"github.com/jpbalagtas/kusinakit/internal/config"
	"github.com/jpbalagtas/kusinakit/internal/middleware"
	"github.com/jpbalagtas/kusinakit/internal/pkg/logging"
)

func Run(signalCtx context.Context) error {
	slog.Info("Initializing...")

	appEnv := os.Getenv("ENV")
	if appEnv != "production" {
		if err := env.Load(".env"); err != nil {
			return fmt.Errorf("load env: %w", err)
		}
	}
	logging.SetupLogger(appEnv, os.Getenv("LOG_LEVEL"), os.Stderr)

	opts, err := config.New("config.json")
	if err != nil {
		return err
	}

	stores, err := setupStores(signalCtx, opts)
	if err != nil {
		return err
	}
	defer stores.Close()

	providers := setupProviders()

	middlewares := []func(http.Handler) http.Handler{
		middleware.InjectWriter,
		goexpress.RecoverFromPanic,
		middleware.LogRequest,
		middleware.Metrics,
		middleware.CORS,
	}

	apiServer := New(opts, stores, providers, middlewares)
	if err := apiServer.Start(signalCtx); err != nil {
		return fmt.Errorf("start server: %w", err)
	}

	return apiServer.Shutdown()
}
