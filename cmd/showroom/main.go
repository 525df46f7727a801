package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"showroom/internal/backend"
	"showroom/internal/carapi"
	"showroom/internal/carapi/memory"
	"showroom/internal/carapi/rest"
	"showroom/internal/config"
	apphttp "showroom/internal/http"
	applog "showroom/internal/log"
	"showroom/internal/services"
)

func main() {
	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	logger := applog.New(slog.LevelInfo, applog.ComponentApp)
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", applog.FieldError, err)
		os.Exit(1)
	}

	var (
		reader carapi.InstallmentReader
		writer carapi.InstallmentWriter
	)
	switch cfg.CarAPIBackend {
	case "memory":
		store := memory.NewSeeded()
		reader, writer = store, store
		logger.Info("Initialized in-memory car API backend", applog.FieldBackend, cfg.CarAPIBackend)
	default:
		client := rest.New(cfg.APIBaseURL, tokenSource(cfg))
		if !client.Configured() {
			logger.Warn("API base URL not set, the edit page will stay in its loading state")
		}
		reader, writer = client, client
		logger.Info("Initialized car API client",
			applog.FieldBackend, cfg.CarAPIBackend, "base_url", cfg.APIBaseURL)
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid session backend configuration", applog.FieldError, err)
		os.Exit(1)
	}

	factory := backend.NewFactory(logger.WithComponent(applog.ComponentBackend).Logger)
	result, err := factory.CreateStore(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize session store", applog.FieldError, err,
			applog.FieldBackend, backendCfg.Type.String())
		os.Exit(1)
	}
	defer func() {
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("Session store cleanup failed", applog.FieldError, err)
			}
		}
	}()

	svc := services.NewInstallmentService(reader, writer, result.Store)
	srv := apphttp.NewServer(":"+cfg.Port, svc)

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
		cancel()
	}()

	logger.Info("Starting showroom admin server",
		"port", cfg.Port,
		"car_api_backend", cfg.CarAPIBackend,
		"session_backend", cfg.SessionBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}

// tokenSource picks the bearer credential: an inline token wins over a
// token file, both absent means unauthenticated requests.
func tokenSource(cfg *config.Config) carapi.TokenSource {
	if cfg.APIToken != "" {
		return carapi.StaticToken(cfg.APIToken)
	}
	if cfg.APITokenFile != "" {
		return carapi.FileToken(cfg.APITokenFile)
	}
	return nil
}
