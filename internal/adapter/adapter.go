// Package adapter composes a source's client + mapper behind the uniform
// LeagueAdapter / PlayerInfoAdapter contracts, grounded on
// src/sync/adapters/base.py's BaseLeagueAdapter / BasePlayerInfoAdapter
// abstract classes.
package adapter

import (
	"context"
	"time"

	"github.com/nadavbarak14/hoopsync/internal/types"
)

// LeagueAdapter is implemented once per data source (winner, euroleague).
type LeagueAdapter interface {
	SourceName() string
	GetSeasons(ctx context.Context) ([]types.RawSeason, error)
	GetTeams(ctx context.Context, seasonID string) ([]types.RawTeam, error)
	GetSchedule(ctx context.Context, seasonID string) ([]types.RawGame, error)
	GetGameBoxscore(ctx context.Context, gameID string) (types.RawBoxScore, error)
	// GetGamePBP returns the ordered events plus a map from a source-internal
	// player id to jersey number, used by the fallback resolution path when a
	// source's PBP identifiers don't match its box-score identifiers.
	GetGamePBP(ctx context.Context, gameID string) ([]types.RawPBPEvent, map[string]int, error)
	IsGameFinal(g types.RawGame) bool
	// GetAvailableSeasons returns season names only.
	GetAvailableSeasons(ctx context.Context) ([]string, error)
}

// PlayerInfoAdapter is implemented once per biographical-data source.
type PlayerInfoAdapter interface {
	SourceName() string
	GetPlayerInfo(ctx context.Context, externalID string) (types.RawPlayerInfo, error)
	SearchPlayer(ctx context.Context, name, team string) ([]types.RawPlayerInfo, error)
}

// RosterEntry is one row of a GetTeamRoster result: a player reference with
// an optional fully-resolved bio (nil when fetchProfiles is false).
type RosterEntry struct {
	PlayerExternalID string
	PlayerName       string
	Info             *types.RawPlayerInfo
}

// TeamRosterAdapter is an optional extension a PlayerInfoAdapter may also
// implement; the default behavior is an empty roster.
type TeamRosterAdapter interface {
	GetTeamRoster(ctx context.Context, teamExternalID string, fetchProfiles bool) ([]RosterEntry, error)
}

// GetGamesSince implements the default LeagueAdapter.get_games_since:
// fetch the full schedule, then filter by game_date >= since && is_game_final.
func GetGamesSince(ctx context.Context, a LeagueAdapter, seasonID string, since time.Time) ([]types.RawGame, error) {
	games, err := a.GetSchedule(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	out := make([]types.RawGame, 0, len(games))
	for _, g := range games {
		if !g.GameDate.Before(since) && a.IsGameFinal(g) {
			out = append(out, g)
		}
	}
	return out, nil
}
