// Package main provides the entrypoint for the TransitFlow API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/transitflow/transitflow/internal/api"
	"github.com/transitflow/transitflow/internal/dataset"
	"github.com/transitflow/transitflow/internal/prefs"
	"github.com/transitflow/transitflow/internal/render"
	"github.com/transitflow/transitflow/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "transitflow-api"

	// Local development convenience; a missing .env file is not an error.
	_ = godotenv.Load()

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting TransitFlow API")

	// Get configuration from environment
	port := envOr("APP_PORT", "8080")
	env := envOr("APP_ENV", "development")
	dataDir := envOr("DATA_DIR", "./data")
	otlpEndpoint := envOr("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Load the dataset
	loader := dataset.NewLoader(log)
	ds, err := loader.Load(os.DirFS(dataDir))
	if err != nil {
		log.Fatal().Err(err).Str("dir", dataDir).Msg("failed to load dataset")
	}

	// Initialize preferences
	prefService := prefs.NewService(prefs.ServiceConfig{
		Repository: prefs.NewInMemoryRepository(),
		Logger:     log,
		CacheTTL:   1 * time.Minute,
	})
	log.Info().Msg("preference service initialized")

	// Build the render stack
	renderService, err := render.NewService(ds, prefService, render.Config{
		Width:      envInt("VIEWPORT_WIDTH", 1024),
		Height:     envInt("VIEWPORT_HEIGHT", 768),
		PixelRatio: envFloat("PIXEL_RATIO", 1),
		Logger:     log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build render service")
	}
	log.Info().
		Int("routes", len(renderService.Routes())).
		Int("buckets", len(renderService.Buckets())).
		Msg("render service initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:        Version,
		BuildTime:      BuildTime,
		Logger:         log,
		ServiceName:    serviceName,
		AllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		RenderService:  renderService,
		PrefsService:   prefService,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	log.Info().Msg("server stopped")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := parts[:0]
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
