package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"art-gallery/internal/config"
	"art-gallery/internal/observability"
	"art-gallery/internal/platform/server"
	"art-gallery/internal/services"
	"art-gallery/internal/web/handlers"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	obsConfig := observability.LoadConfig()
	logger := observability.NewLogger(obsConfig)

	ctx := context.Background()

	otel.SetErrorHandler(otel.ErrorHandlerFunc(logger.OTELErrorHandler()))

	provider, err := observability.NewProvider(ctx, obsConfig)
	if err != nil {
		logger.Fatal(ctx).Err(err).Msg("Failed to initialize telemetry provider")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Error(shutdownCtx).Err(err).Msg("Failed to shut down telemetry provider")
		}
	}()

	container, err := services.NewContainer(cfg, logger)
	if err != nil {
		logger.Fatal(ctx).Err(err).Msg("Failed to initialize services container")
	}
	defer container.Close()

	// Warm the gallery before accepting traffic; a failed pass still leaves
	// the service up with an empty collection.
	container.Loader().EnsureLoaded(ctx)

	handler := handlers.New(container)

	srv := server.New(cfg, handler.Routes())

	go func() {
		logger.Info(ctx).
			Str("host", cfg.Host).
			Str("port", cfg.Port).
			Str("environment", cfg.Environment).
			Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal(ctx).Err(err).Msg("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx).Msg("Server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal(shutdownCtx).Err(err).Msg("Server forced to shutdown")
	}

	logger.Info(ctx).Msg("Server exited")
}
