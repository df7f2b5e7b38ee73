package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iho/rateengine/internal/adapter/http/handler"
	"github.com/iho/rateengine/internal/adapter/http/middleware"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccrualHandler   *handler.AccrualHandler
	QuoteHandler     *handler.QuoteHandler
	PoolHandler      *handler.PoolHandler
	PortfolioHandler *handler.PortfolioHandler
	HealthHandler    *handler.HealthHandler
	Logging          *middleware.LoggingMiddleware
	RateLimiter      *middleware.RateLimiter
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	if cfg.Logging != nil {
		r.Use(cfg.Logging.Wrap)
	}
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and observability endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Accrual jobs, triggered by the external scheduler
		r.Route("/accruals", func(r chi.Router) {
			r.Post("/positions", cfg.AccrualHandler.RunPositions)
			r.Post("/locks", cfg.AccrualHandler.RunLocks)
		})

		// Quotes and deposit volume
		r.Get("/quote", cfg.QuoteHandler.Get)
		r.Post("/deposits/volume", cfg.QuoteHandler.RecordDeposit)

		// Pool aggregates
		r.Get("/pools/{asset}/{chain}", cfg.PoolHandler.Get)

		// Owner-facing reads
		r.Get("/positions", cfg.PortfolioHandler.ListPositions)
		r.Get("/positions/{id}", cfg.PortfolioHandler.GetPosition)
		r.Get("/locks/{id}", cfg.PortfolioHandler.GetLock)
	})

	return r
}
