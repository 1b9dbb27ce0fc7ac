// Package handler provides HTTP handlers for the sync control plane: trigger
// a season/game/teams/recent/player-info sync, stream per-game progress over
// SSE, and the usual health checks. Sync-trigger handlers are thin — all the
// work happens in internal/syncmanager; handlers only decode the request,
// call the Manager, and serialize the resulting SyncLog.
package handler

import (
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nadavbarak14/hoopsync/internal/adapter"
	"github.com/nadavbarak14/hoopsync/internal/api/respond"
	"github.com/nadavbarak14/hoopsync/internal/cache"
	"github.com/nadavbarak14/hoopsync/internal/config"
	"github.com/nadavbarak14/hoopsync/internal/syncmanager"
)

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	pool     *pgxpool.Pool
	cache    *cache.Cache
	cfg      *config.Config
	manager  *syncmanager.Manager
	adapters map[string]adapter.LeagueAdapter
}

// New creates a Handler with shared dependencies.
func New(pool *pgxpool.Pool, c *cache.Cache, cfg *config.Config, manager *syncmanager.Manager, adapters map[string]adapter.LeagueAdapter) *Handler {
	return &Handler{pool: pool, cache: c, cfg: cfg, manager: manager, adapters: adapters}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, status, and configured sources.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	sources := make([]string, 0, len(h.cfg.Sources))
	for name, sc := range h.cfg.Sources {
		if sc.Enabled {
			sources = append(sources, name)
		}
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "hoopsync sync control plane",
		"version": "1.0.0",
		"status":  "running",
		"docs":    "/docs",
		"sources": sources,
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
// @Summary Database health check
// @Description Verifies Postgres connectivity.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	var n int
	err := h.pool.QueryRow(r.Context(), "health_check").Scan(&n)
	if err != nil {
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"error":     "Database connection check failed",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Description Returns in-memory cache statistics (active keys, expired keys).
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
