// Package api provides the HTTP API for TransitFlow.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/transitflow/transitflow/internal/api/handler"
	"github.com/transitflow/transitflow/internal/api/middleware"
	"github.com/transitflow/transitflow/internal/prefs"
	"github.com/transitflow/transitflow/internal/render"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version        string
	BuildTime      string
	Logger         zerolog.Logger
	ServiceName    string
	AllowedOrigins []string
	RenderService  *render.Service
	PrefsService   *prefs.Service
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "transitflow-api"
	}

	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if metrics, err := middleware.NewMetrics(); err == nil {
		r.Use(metrics.Middleware()) // Request metrics
	} else {
		cfg.Logger.Warn().Err(err).Msg("http metrics disabled")
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))
	r.Use(middleware.RequireJSON) // Reject non-JSON request bodies

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.RenderService)
	flowMapHandler := handler.NewFlowMapHandler(cfg.RenderService, cfg.PrefsService)
	framesHandler := handler.NewFramesHandler(cfg.RenderService, cfg.PrefsService)
	prefsHandler := handler.NewPrefsHandler(cfg.PrefsService)

	// Rate limits per endpoint category
	frameRateLimit := middleware.RateLimitByIP(middleware.FrameRateLimit)       // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit) // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public, unthrottled)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
		})

		// Route collection and interaction state
		r.Route("/routes", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/", flowMapHandler.ListRoutes)
			r.Route("/{routeId}", func(r chi.Router) {
				r.Post("/select", flowMapHandler.SelectRoute)
				r.Post("/hover", flowMapHandler.HoverRoute)
				r.Delete("/hover", flowMapHandler.UnhoverRoute)
			})
		})
		r.With(standardRateLimit).Delete("/selection", flowMapHandler.ClearSelection)

		// Time buckets and legend
		r.With(standardRateLimit).Get("/buckets", flowMapHandler.ListBuckets)
		r.With(standardRateLimit).Get("/legend", framesHandler.Legend)

		// Frame rendering - expensive compute, strict rate limiting
		r.Route("/frames", func(r chi.Router) {
			r.Use(frameRateLimit)
			r.Get("/routes.png", framesHandler.RoutesFrame)
			r.Get("/heatmap.png", framesHandler.HeatmapFrame)
		})

		// Display preferences
		r.Route("/prefs", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/", prefsHandler.ListPrefs)
			r.Put("/", prefsHandler.UpdatePrefs)
			r.Post("/invalidate", prefsHandler.InvalidateCache)
		})
	})

	return r
}
