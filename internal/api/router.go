package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/voxgate/voxgate/internal/database"
	"github.com/voxgate/voxgate/internal/events"
	mw "github.com/voxgate/voxgate/internal/middleware"
)

// HandlerSet holds handler functions injected from main.go to avoid import cycles.
type HandlerSet struct {
	// Speech handlers
	Generate   http.HandlerFunc
	GetStatus  http.HandlerFunc
	GetQuota   http.HandlerFunc
	ListVoices http.HandlerFunc

	// Credential rotation (admin)
	RotateCredential http.HandlerFunc

	// Audit
	ListAudit http.HandlerFunc
}

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	CORSAllowedOrigins []string
	AdminToken         string
	AdminRateLimiter   func(http.Handler) http.Handler
}

func NewRouter(pool *pgxpool.Pool, eventsClient *events.Client, cfg RouterConfig, h HandlerSet) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.SecurityHeaders)
	r.Use(mw.Logging)
	r.Use(mw.Recovery)
	r.Use(mw.Metrics)
	r.Use(cors.Handler(mw.CORS(cfg.CORSAllowedOrigins)))

	// Liveness probe — always 200, no dependency checks
	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		JSON(w, http.StatusOK, map[string]string{"status": "alive"})
	})

	// Readiness probe — checks DB and NATS
	readinessHandler := func(w http.ResponseWriter, r *http.Request) {
		health := map[string]string{
			"status":   "healthy",
			"database": "healthy",
			"nats":     "healthy",
		}

		status := http.StatusOK

		if err := database.HealthCheck(r.Context(), pool); err != nil {
			health["database"] = "unhealthy"
			health["status"] = "degraded"
			status = http.StatusServiceUnavailable
		}

		if eventsClient != nil && !eventsClient.Healthy() {
			health["nats"] = "unhealthy"
			health["status"] = "degraded"
			status = http.StatusServiceUnavailable
		} else if eventsClient == nil {
			health["nats"] = "not configured"
		}

		JSON(w, status, health)
	}

	r.Get("/health/ready", readinessHandler)
	r.Get("/health", readinessHandler)

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/speech", func(r chi.Router) {
			r.Post("/", h.Generate)
			r.Get("/status", h.GetStatus)
		})

		r.Get("/quota", h.GetQuota)
		r.Get("/voices", h.ListVoices)
		r.Get("/audit", h.ListAudit)

		// Admin routes — bearer token, rate-limited
		r.Group(func(r chi.Router) {
			r.Use(mw.AdminAuth(cfg.AdminToken))
			if cfg.AdminRateLimiter != nil {
				r.Use(cfg.AdminRateLimiter)
			}
			r.Post("/credentials/rotate", h.RotateCredential)
		})
	})

	return r
}
