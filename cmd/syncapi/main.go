// Command syncapi is the sync control plane HTTP server: trigger a
// season/game/teams/recent/player-info sync over HTTP, stream a season
// sync's progress over SSE, and the usual health checks.
//
// Usage:
//
//	hoopsync-syncapi
//	API_PORT=8080 hoopsync-syncapi
//
// Run `swag init -g main.go -o ../../docs` from this directory to regenerate
// the doc.json the /docs/* route serves; it is not checked in.

// @title Hoopsync Sync Control Plane
// @version 1.0.0
// @description HTTP control plane for triggering and observing winner/euroleague data syncs.
// @host localhost:8000
// @BasePath /api/v1
// @schemes http https
// @license.name MIT
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/nadavbarak14/hoopsync/internal/adapter"
	"github.com/nadavbarak14/hoopsync/internal/api"
	"github.com/nadavbarak14/hoopsync/internal/cache"
	"github.com/nadavbarak14/hoopsync/internal/config"
	"github.com/nadavbarak14/hoopsync/internal/db"
	"github.com/nadavbarak14/hoopsync/internal/playerinfo"
	"github.com/nadavbarak14/hoopsync/internal/provider/euroleague"
	"github.com/nadavbarak14/hoopsync/internal/provider/winner"
	"github.com/nadavbarak14/hoopsync/internal/ratelimit"
	"github.com/nadavbarak14/hoopsync/internal/rawcache"
	"github.com/nadavbarak14/hoopsync/internal/syncmanager"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	logger.Info("Connecting to database...")
	pool, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("Database connected", "min_conns", cfg.DBPoolMinConns, "max_conns", cfg.DBPoolMaxConns)

	appCache := cache.New(cfg.CacheEnabled)
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled)

	rawStore := rawcache.New(pool.Pool)
	limiters := ratelimit.NewRegistry()

	adapters := buildAdapters(cfg, limiters, rawStore, logger)
	playerInfoSvc := buildPlayerInfoService(cfg, limiters, rawStore, logger)
	manager := syncmanager.New(pool.Pool, adapters, playerInfoSvc)

	router := api.NewRouter(pool.Pool, appCache, cfg, manager, adapters)

	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // the SSE stream route can run indefinitely
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting sync control plane",
			"addr", addr,
			"environment", cfg.Environment,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}

// buildAdapters constructs one long-lived LeagueAdapter per enabled source.
// Euroleague's adapter is season-scoped at construction (unlike Winner's,
// which discovers its current season from the games_all feed at call time),
// so the control plane seeds it with the current calendar year; per-season
// reads still pass an explicit seasonExternalID through GetTeams/GetSchedule.
func buildAdapters(cfg *config.Config, limiters *ratelimit.Registry, cache *rawcache.Store, logger *slog.Logger) map[string]adapter.LeagueAdapter {
	adapters := make(map[string]adapter.LeagueAdapter)

	if cfg.IsSourceEnabled(winner.SourceName) {
		sc := cfg.Sources[winner.SourceName]
		client := winner.NewClient(sc.BaseURL, limiters.Get(winner.SourceName, ratelimit.ClassAPI, sc.RequestsPerSecond, sc.BurstSize), cache, logger)
		scraper := winner.NewScraper(client)
		adapters[winner.SourceName] = adapter.NewWinnerAdapter(client, scraper, "")
	}
	if cfg.IsSourceEnabled(euroleague.SourceName) {
		sc := cfg.Sources[euroleague.SourceName]
		client := euroleague.NewClient(cfg.EuroleagueXMLBaseURL, cfg.EuroleagueJSONBaseURL, cfg.EuroleagueCompetition, limiters.Get(euroleague.SourceName, ratelimit.ClassAPI, sc.RequestsPerSecond, sc.BurstSize), cache, logger)
		adapters[euroleague.SourceName] = adapter.NewEuroleagueAdapter(client, time.Now().UTC().Year(), cfg.EuroleagueCompetition)
	}
	return adapters
}

func buildPlayerInfoService(cfg *config.Config, limiters *ratelimit.Registry, cache *rawcache.Store, logger *slog.Logger) *playerinfo.Service {
	var adapters []adapter.PlayerInfoAdapter
	if cfg.IsSourceEnabled(winner.SourceName) {
		sc := cfg.Sources[winner.SourceName]
		client := winner.NewClient(sc.BaseURL, limiters.Get(winner.SourceName, ratelimit.ClassAPI, sc.RequestsPerSecond, sc.BurstSize), cache, logger)
		scraper := winner.NewScraper(client)
		adapters = append(adapters, adapter.NewWinnerPlayerInfoAdapter(client, scraper))
	}
	if cfg.IsSourceEnabled(euroleague.SourceName) {
		sc := cfg.Sources[euroleague.SourceName]
		client := euroleague.NewClient(cfg.EuroleagueXMLBaseURL, cfg.EuroleagueJSONBaseURL, cfg.EuroleagueCompetition, limiters.Get(euroleague.SourceName, ratelimit.ClassAPI, sc.RequestsPerSecond, sc.BurstSize), cache, logger)
		adapters = append(adapters, adapter.NewEuroleaguePlayerInfoAdapter(client, time.Now().UTC().Year()))
	}
	return playerinfo.NewService(adapters)
}
