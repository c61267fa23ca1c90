package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/aide-studio/engine/internal/api"
	"github.com/aide-studio/engine/internal/api/handlers"
	"github.com/aide-studio/engine/internal/events"
	"github.com/aide-studio/engine/internal/openrouter"
	"github.com/aide-studio/engine/internal/repository"
	"github.com/aide-studio/engine/internal/services"
	"github.com/aide-studio/engine/pkg/config"
	"github.com/aide-studio/engine/pkg/logger"
	"github.com/aide-studio/engine/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.MustLoad()

	// Initialize logger
	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat, logger.Options{File: cfg.LogFile})
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	log.Info("Starting AIDE Studio engine",
		zap.String("env", cfg.AppEnv),
		zap.String("addr", cfg.HTTPAddr),
		zap.Bool("env_api_key", config.EnvAPIKey() != ""),
		zap.String("env_key_fingerprint", utils.Fingerprint(config.EnvAPIKey())),
	)

	// In-memory store; everything is lost on restart.
	store := repository.NewStore(repository.WithEnvAPIKey(config.EnvAPIKey))

	bus := events.NewBus(events.NewZapAdapter(log))
	defer func() {
		if err := bus.Close(); err != nil {
			log.Warn("event bus close error", zap.Error(err))
		}
	}()

	upstream := openrouter.New(openrouter.Config{
		BaseURL: cfg.OpenRouterBaseURL,
		Referer: cfg.OpenRouterReferer,
		Title:   cfg.OpenRouterTitle,
		Timeout: cfg.UpstreamTimeout,
	}, &http.Client{})

	// Initialize services and handlers
	projectSvc := services.NewProjectService(store.Projects, bus)
	fileSvc := services.NewFileService(store.Files, bus)
	chatSvc := services.NewChatService(store.Chat, bus)
	connectorSvc := services.NewConnectorService(store.Connector, upstream, bus)

	router := api.NewRouter(api.Dependencies{
		ProjectsHandler:   handlers.NewProjectsHandler(projectSvc),
		FilesHandler:      handlers.NewFilesHandler(fileSvc),
		ChatHandler:       handlers.NewChatHandler(chatSvc),
		OpenRouterHandler: handlers.NewOpenRouterHandler(connectorSvc),
		EventsHandler:     handlers.NewEventsHandler(bus),
		RateLimitRPS:      cfg.RateLimitRPS,
		RateLimitBurst:    cfg.RateLimitBurst,
	})

	// Create HTTP server. WriteTimeout leaves room for the upstream call.
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.UpstreamTimeout + 30*time.Second,
		IdleTimeout:       90 * time.Second,
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	} else {
		log.Info("server exited gracefully")
	}
}
