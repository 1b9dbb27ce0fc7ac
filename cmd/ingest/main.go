// Command ingest is the basketball data ingestion CLI.
//
// Usage:
//
//	hoopsync-ingest season winner --season 2024-25
//	hoopsync-ingest season euroleague --season 2024-25 --pbp
//	hoopsync-ingest game winner --id 12345
//	hoopsync-ingest teams euroleague --season 2024-25
//	hoopsync-ingest recent winner --days 3
//	hoopsync-ingest roster --team <uuid> --season <uuid>
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/nadavbarak14/hoopsync/internal/adapter"
	"github.com/nadavbarak14/hoopsync/internal/config"
	"github.com/nadavbarak14/hoopsync/internal/db"
	"github.com/nadavbarak14/hoopsync/internal/mapper"
	"github.com/nadavbarak14/hoopsync/internal/playerinfo"
	"github.com/nadavbarak14/hoopsync/internal/provider/euroleague"
	"github.com/nadavbarak14/hoopsync/internal/provider/winner"
	"github.com/nadavbarak14/hoopsync/internal/ratelimit"
	"github.com/nadavbarak14/hoopsync/internal/rawcache"
	"github.com/nadavbarak14/hoopsync/internal/syncmanager"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "hoopsync-ingest",
		Short: "Basketball data ingestion CLI",
	}

	root.AddCommand(seasonCmd())
	root.AddCommand(gameCmd())
	root.AddCommand(teamsCmd())
	root.AddCommand(recentCmd())
	root.AddCommand(rosterCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// season command
// --------------------------------------------------------------------------

func seasonCmd() *cobra.Command {
	var season string
	var includePBP bool
	cmd := &cobra.Command{
		Use:   "season <winner|euroleague>",
		Short: "Sync every final game of a season not already tracked",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := args[0]
			return runSync(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				mgr, err := buildManager(cfg, pool, source, season)
				if err != nil {
					return err
				}
				start := time.Now()
				result, err := mgr.SyncSeason(ctx, source, season, includePBP)
				logger.Info("season sync finished",
					"source", source, "season", season,
					"duration", time.Since(start).Round(time.Second),
					"processed", result.RecordsProcessed, "created", result.RecordsCreated,
					"skipped", result.RecordsSkipped, "status", result.Status)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&season, "season", "", "Season external id, e.g. 2024-25 (required)")
	cmd.Flags().BoolVar(&includePBP, "pbp", false, "Also sync play-by-play events for each game")
	_ = cmd.MarkFlagRequired("season")
	return cmd
}

// --------------------------------------------------------------------------
// game command
// --------------------------------------------------------------------------

func gameCmd() *cobra.Command {
	var gameID string
	var includePBP bool
	cmd := &cobra.Command{
		Use:   "game <winner|euroleague>",
		Short: "Sync a single game by its source external id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := args[0]
			return runSync(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				mgr, err := buildManager(cfg, pool, source, "")
				if err != nil {
					return err
				}
				start := time.Now()
				result, err := mgr.SyncGame(ctx, source, gameID, includePBP)
				logger.Info("game sync finished",
					"source", source, "game_id", gameID,
					"duration", time.Since(start).Round(time.Second),
					"status", result.Status)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&gameID, "id", "", "Game external id (required)")
	cmd.Flags().BoolVar(&includePBP, "pbp", true, "Also sync play-by-play events")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

// --------------------------------------------------------------------------
// teams command
// --------------------------------------------------------------------------

func teamsCmd() *cobra.Command {
	var season string
	cmd := &cobra.Command{
		Use:   "teams <winner|euroleague>",
		Short: "Sync team rosters for a season without touching games",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := args[0]
			return runSync(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				mgr, err := buildManager(cfg, pool, source, season)
				if err != nil {
					return err
				}
				start := time.Now()
				result, err := mgr.SyncTeams(ctx, source, season)
				logger.Info("teams sync finished",
					"source", source, "season", season,
					"duration", time.Since(start).Round(time.Second),
					"created", result.RecordsCreated, "updated", result.RecordsUpdated)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&season, "season", "", "Season external id (required)")
	_ = cmd.MarkFlagRequired("season")
	return cmd
}

// --------------------------------------------------------------------------
// recent command
// --------------------------------------------------------------------------

func recentCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "recent <winner|euroleague>",
		Short: "Sync final games from the last N days",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := args[0]
			return runSync(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				mgr, err := buildManager(cfg, pool, source, "")
				if err != nil {
					return err
				}
				start := time.Now()
				result, err := mgr.SyncRecent(ctx, source, days)
				logger.Info("recent sync finished",
					"source", source, "days", days,
					"duration", time.Since(start).Round(time.Second),
					"processed", result.RecordsProcessed, "created", result.RecordsCreated)
				return err
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", 3, "How many days back to scan for final games")
	return cmd
}

// --------------------------------------------------------------------------
// roster command (player-info refresh)
// --------------------------------------------------------------------------

func rosterCmd() *cobra.Command {
	var teamID, seasonID string
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Refresh biographical fields for a team's season roster from all configured player-info sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				team, err := uuid.Parse(teamID)
				if err != nil {
					return fmt.Errorf("--team: %w", err)
				}
				season, err := uuid.Parse(seasonID)
				if err != nil {
					return fmt.Errorf("--season: %w", err)
				}
				cache := rawcache.New(pool.Pool)
				mgr := syncmanager.New(pool.Pool, nil, buildPlayerInfoService(cfg, cache))
				start := time.Now()
				result, err := mgr.SyncPlayerInfo(ctx, team, season)
				logger.Info("roster sync finished",
					"team_id", teamID, "season_id", seasonID,
					"duration", time.Since(start).Round(time.Second),
					"updated", result.RecordsUpdated, "skipped", result.RecordsSkipped)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&teamID, "team", "", "Team UUID (required)")
	cmd.Flags().StringVar(&seasonID, "season", "", "Season UUID (required)")
	_ = cmd.MarkFlagRequired("team")
	_ = cmd.MarkFlagRequired("season")
	return cmd
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// buildManager wires a single-source Manager for the CLI's one-shot commands.
// seasonExternalID is only needed to scope a fresh EuroleagueAdapter (which,
// unlike WinnerAdapter, is constructed per-season rather than discovering the
// season from its feed); commands that don't need a season pass "".
func buildManager(cfg *config.Config, pool *db.Pool, source, seasonExternalID string) (*syncmanager.Manager, error) {
	if !cfg.IsSourceEnabled(source) {
		return nil, fmt.Errorf("source %q is not enabled (check SYNC_%s_ENABLED)", source, source)
	}

	limiters := ratelimit.NewRegistry()
	cache := rawcache.New(pool.Pool)

	a, err := buildAdapter(cfg, limiters, cache, source, seasonExternalID)
	if err != nil {
		return nil, err
	}

	adapters := map[string]adapter.LeagueAdapter{source: a}
	return syncmanager.New(pool.Pool, adapters, buildPlayerInfoService(cfg, cache)), nil
}

func buildAdapter(cfg *config.Config, limiters *ratelimit.Registry, cache *rawcache.Store, source, seasonExternalID string) (adapter.LeagueAdapter, error) {
	sc, ok := cfg.Sources[source]
	if !ok {
		return nil, fmt.Errorf("unknown source %q", source)
	}

	switch source {
	case winner.SourceName:
		apiLimiter := limiters.Get(source, ratelimit.ClassAPI, sc.RequestsPerSecond, sc.BurstSize)
		client := winner.NewClient(sc.BaseURL, apiLimiter, cache, logger)
		scraper := winner.NewScraper(client)
		return adapter.NewWinnerAdapter(client, scraper, seasonExternalID), nil

	case euroleague.SourceName:
		apiLimiter := limiters.Get(source, ratelimit.ClassAPI, sc.RequestsPerSecond, sc.BurstSize)
		client := euroleague.NewClient(cfg.EuroleagueXMLBaseURL, cfg.EuroleagueJSONBaseURL, cfg.EuroleagueCompetition, apiLimiter, cache, logger)
		year := time.Now().UTC().Year()
		if seasonExternalID != "" {
			year = mapper.ParseSeasonStartYear(seasonExternalID)
		}
		return adapter.NewEuroleagueAdapter(client, year, cfg.EuroleagueCompetition), nil

	default:
		return nil, fmt.Errorf("unknown source %q", source)
	}
}

func buildPlayerInfoService(cfg *config.Config, cache *rawcache.Store) *playerinfo.Service {
	limiters := ratelimit.NewRegistry()
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

// runSync handles config loading, DB connection, and context cancellation.
func runSync(fn func(ctx context.Context, cfg *config.Config, pool *db.Pool) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if err := fn(ctx, cfg, pool); err != nil {
		logger.Error("sync failed", "error", err)
		return err
	}
	return nil
}
