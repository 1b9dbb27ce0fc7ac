// Package api wires the chi HTTP control plane: sync-trigger endpoints, the
// SSE progress stream, and health checks. Route table replaces the teacher's
// stats/profile/news/twitter analytics surface (out of scope here) but the
// middleware stack, CORS handling, rate limiting, and swagger doc route are
// kept verbatim.
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/nadavbarak14/hoopsync/internal/adapter"
	"github.com/nadavbarak14/hoopsync/internal/api/handler"
	"github.com/nadavbarak14/hoopsync/internal/cache"
	"github.com/nadavbarak14/hoopsync/internal/config"
	"github.com/nadavbarak14/hoopsync/internal/syncmanager"
)

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(pool *pgxpool.Pool, appCache *cache.Cache, cfg *config.Config, manager *syncmanager.Manager, adapters map[string]adapter.LeagueAdapter) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "POST", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "If-None-Match", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "Link", "ETag"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	// --- Handler dependencies ---
	h := handler.New(pool, appCache, cfg, manager, adapters)

	// --- Routes ---

	// Root
	r.Get("/", h.Root)

	// Health checks
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
		r.Get("/cache", h.HealthCheckCache)
	})

	// Swagger UI
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
	))

	// API v1 routes — the sync control plane.
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/sync/seasons", h.GetAvailableSeasons)
		r.Post("/sync/season", h.PostSyncSeason)
		r.Get("/sync/season/stream", h.GetSyncSeasonStream)
		r.Post("/sync/game", h.PostSyncGame)
		r.Post("/sync/teams", h.PostSyncTeams)
		r.Post("/sync/recent", h.PostSyncRecent)
		r.Post("/sync/player-info", h.PostSyncPlayerInfo)
	})

	return r
}
