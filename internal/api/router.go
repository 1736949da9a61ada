package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Property-Management-Dashboard-Backend/internal/api/middleware"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/cache"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/config"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/service"
)

// Dependencies are the services and shared infrastructure the routes are built on.
// RateLimiter may be nil to disable limiting.
type Dependencies struct {
	SystemService    *service.SystemService
	DatasetService   *service.DatasetService
	SessionService   *service.SessionService
	DashboardService *service.DashboardService
	Cache            cache.Cache
	RateLimiter      *custommiddleware.RateLimiter
	Logger           *zap.Logger
}

// NewRouter creates and configures the HTTP router
func NewRouter(deps Dependencies, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(deps.Logger))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	if deps.RateLimiter != nil {
		r.Use(deps.RateLimiter.Middleware)
	}

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(deps.SystemService)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/session", func(r chi.Router) {
			sessionHandler := handlers.NewSessionHandler(deps.SessionService)
			r.Post("/", sessionHandler.Create)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", sessionHandler.Get)
				r.Delete("/", sessionHandler.Delete)
				r.Post("/refresh", sessionHandler.Refresh)
			})
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Use(custommiddleware.SessionMiddleware(deps.SessionService))

			dashboardHandler := handlers.NewDashboardHandler(deps.DashboardService, deps.Logger)
			// Exports are binary and bypass the response cache.
			r.Get("/export/{metric}", dashboardHandler.Export)

			r.Group(func(r chi.Router) {
				r.Use(custommiddleware.ResponseCache(deps.Cache, cfg.Cache.TTL, deps.Logger))
				r.Get("/filters", dashboardHandler.Filters)
				r.Get("/periods", dashboardHandler.Periods)
				r.Get("/kpis", dashboardHandler.KPIs)
				r.Get("/breakdown/{metric}", dashboardHandler.Breakdown)
				r.Get("/arrears-ratio", dashboardHandler.ArrearsRatio)
				r.Get("/trend/{metric}", dashboardHandler.Trend)
				r.Get("/arrears", dashboardHandler.Arrears)
				r.Get("/revenue", dashboardHandler.Revenue)
			})
		})

		r.Route("/dataset", func(r chi.Router) {
			r.Use(custommiddleware.APIKeyMiddleware)
			datasetHandler := handlers.NewDatasetHandler(deps.DatasetService, deps.SessionService, deps.Cache, deps.Logger)
			r.Post("/reseed", datasetHandler.Reseed)
		})
	})

	return r
}
