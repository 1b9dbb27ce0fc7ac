// Package db provides a pgxpool-based connection pool with prepared statement
// registration and health checking.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nadavbarak14/hoopsync/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// registerPreparedStatements registers all statements the ingestion pipeline
// uses. Prepared statements eliminate parse overhead on every sync.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Leagues / seasons
		"league_by_code":    "SELECT id, code, name, country FROM leagues WHERE code = $1",
		"insert_league":     "INSERT INTO leagues (id, code, name, country) VALUES ($1, $2, $3, $4) ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name RETURNING id",
		"season_by_name":    "SELECT id, league_id, name, start_date, end_date, is_current FROM seasons WHERE league_id = $1 AND name = $2",
		"insert_season":     "INSERT INTO seasons (id, league_id, name, start_date, end_date, is_current) VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT (league_id, name) DO UPDATE SET is_current = EXCLUDED.is_current RETURNING id",

		// Teams
		"team_by_external_id": "SELECT id, name, short_name, city, country, external_ids FROM teams WHERE external_ids ->> $1 = $2",
		"team_by_name_season": "SELECT t.id, t.name, t.short_name, t.city, t.country, t.external_ids FROM teams t JOIN team_seasons ts ON ts.team_id = t.id WHERE ts.season_id = $1 AND lower(t.name) = lower($2)",
		"upsert_team":         "INSERT INTO teams (id, name, short_name, city, country, external_ids) VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT (id) DO UPDATE SET name = COALESCE(EXCLUDED.name, teams.name), external_ids = teams.external_ids || EXCLUDED.external_ids RETURNING id",
		"ensure_team_season":  "INSERT INTO team_seasons (team_id, season_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",

		// Players
		"player_by_external_id": "SELECT id, first_name, last_name, birth_date, height_cm, position, nationality, external_ids FROM players WHERE external_ids ->> $1 = $2",
		"player_by_roster_name": "SELECT p.id, p.first_name, p.last_name, p.external_ids FROM players p JOIN player_team_histories pth ON pth.player_id = p.id WHERE pth.team_id = $1 AND pth.season_id = $2 AND lower(p.first_name || ' ' || p.last_name) = lower($3)",
		"player_by_name_birth":  "SELECT id, external_ids FROM players WHERE lower(first_name || ' ' || last_name) = lower($1) AND birth_date = $2",
		"players_by_team_season_jersey": "SELECT pth.player_id FROM player_team_histories pth WHERE pth.team_id = $1 AND pth.season_id = $2 AND pth.jersey_number = $3",
		"upsert_player":         "INSERT INTO players (id, first_name, last_name, birth_date, height_cm, position, nationality, external_ids) VALUES ($1, $2, $3, $4, $5, $6, $7, $8) ON CONFLICT (id) DO UPDATE SET birth_date = COALESCE(EXCLUDED.birth_date, players.birth_date), height_cm = COALESCE(EXCLUDED.height_cm, players.height_cm), position = COALESCE(EXCLUDED.position, players.position), nationality = COALESCE(EXCLUDED.nationality, players.nationality), external_ids = players.external_ids || EXCLUDED.external_ids RETURNING id",
		"ensure_player_history": "INSERT INTO player_team_histories (player_id, team_id, season_id, jersey_number, position) VALUES ($1, $2, $3, $4, $5) ON CONFLICT (player_id, team_id, season_id) DO UPDATE SET jersey_number = COALESCE(EXCLUDED.jersey_number, player_team_histories.jersey_number)",

		// Games
		"game_by_external_id": "SELECT id, season_id, home_team_id, away_team_id, status, home_score, away_score FROM games WHERE external_ids ->> $1 = $2",
		"upsert_game":         "INSERT INTO games (id, season_id, home_team_id, away_team_id, game_date, status, home_score, away_score, external_ids) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) ON CONFLICT (id) DO UPDATE SET game_date = EXCLUDED.game_date, status = EXCLUDED.status, home_score = EXCLUDED.home_score, away_score = EXCLUDED.away_score, external_ids = games.external_ids || EXCLUDED.external_ids RETURNING id",

		// Box score / PBP (delete-then-insert within one transaction, per game)
		"delete_player_game_stats": "DELETE FROM player_game_stats WHERE game_id = $1",
		"insert_player_game_stats": "INSERT INTO player_game_stats (game_id, player_id, team_id, points, two_pm, two_pa, three_pm, three_pa, ft_m, ft_a, oreb, dreb, treb, ast, stl, blk, to_count, pf, minutes_played, is_starter, plus_minus, efficiency) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)",
		"delete_pbp_events":       "DELETE FROM play_by_play_events WHERE game_id = $1",
		"insert_pbp_event":        "INSERT INTO play_by_play_events (game_id, event_number, period, clock, event_type, event_subtype, team_id, player_id, success, coord_x, coord_y, related_event_numbers) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)",
		"insert_unresolved_pbp":   "INSERT INTO pbp_unresolved_players (game_id, event_number, jersey_number, candidate_player_ids) VALUES ($1, $2, $3, $4)",

		// Raw fetch cache
		"sync_cache_get":    "SELECT id, raw_data, content_hash, fetched_at, http_status FROM sync_cache WHERE source = $1 AND resource_type = $2 AND resource_id = $3",
		"sync_cache_upsert": "INSERT INTO sync_cache (id, source, resource_type, resource_id, raw_data, content_hash, fetched_at, http_status) VALUES ($1, $2, $3, $4, $5, $6, $7, $8) ON CONFLICT (source, resource_type, resource_id) DO UPDATE SET raw_data = EXCLUDED.raw_data, content_hash = EXCLUDED.content_hash, fetched_at = EXCLUDED.fetched_at, http_status = EXCLUDED.http_status RETURNING id",
		"sync_cache_touch":  "UPDATE sync_cache SET fetched_at = $4 WHERE source = $1 AND resource_type = $2 AND resource_id = $3",

		// Sync tracker
		"tracker_get_unsynced": "SELECT external_id FROM unnest($2::text[]) AS external_id WHERE external_id NOT IN (SELECT game_external_id FROM sync_tracker WHERE source = $1)",
		"tracker_mark_synced":  "INSERT INTO sync_tracker (source, game_external_id, game_id, synced_at) VALUES ($1, $2, $3, $4) ON CONFLICT (source, game_external_id) DO NOTHING",
		"tracker_game_by_ext":  "SELECT game_id FROM sync_tracker WHERE source = $1 AND game_external_id = $2",

		// Sync log
		"synclog_running_exists": "SELECT id FROM sync_logs WHERE source = $1 AND entity_type = $2 AND season_id IS NOT DISTINCT FROM $3 AND status = 'RUNNING'",
		"synclog_start":          "INSERT INTO sync_logs (id, source, entity_type, season_id, game_id, status, started_at) VALUES ($1, $2, $3, $4, $5, 'RUNNING', $6) RETURNING id",
		"synclog_complete":       "UPDATE sync_logs SET status = 'COMPLETED', completed_at = $2, records_processed = $3, records_created = $4, records_updated = $5, records_skipped = $6 WHERE id = $1",
		"synclog_fail":           "UPDATE sync_logs SET status = 'FAILED', completed_at = $2, error_message = $3, error_details = $4, records_processed = $5, records_created = $6, records_updated = $7, records_skipped = $8 WHERE id = $1",
		"synclog_review_flag":    "INSERT INTO sync_logs (id, source, entity_type, status, started_at, completed_at, error_details) VALUES ($1, $2, 'team_match_review', 'COMPLETED', $3, $3, $4)",
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
