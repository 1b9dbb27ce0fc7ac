package entitysync

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/nadavbarak14/hoopsync/internal/match"
	"github.com/nadavbarak14/hoopsync/internal/synclog"
	"github.com/nadavbarak14/hoopsync/internal/types"
)

// GameSyncer upserts a game row and, within the same per-game transaction,
// replaces its box-score and play-by-play rows. Box-score and PBP rows are
// always deleted then reinserted for the game, never diffed in place, so a
// source-driven correction (re-fetch after a content-hash change) can never
// leave stale rows behind.
type GameSyncer struct {
	teams   *TeamSyncer
	players *match.PlayerDeduplicator
}

func NewGameSyncer(review *synclog.Log) *GameSyncer {
	return &GameSyncer{teams: NewTeamSyncer(review), players: match.NewPlayerDeduplicator()}
}

// SyncGame resolves the game's teams (creating them if this is the first
// time either has appeared for the season) and upserts the game row.
func (s *GameSyncer) SyncGame(ctx context.Context, tx pgx.Tx, raw types.RawGame, seasonID uuid.UUID, teams map[string]uuid.UUID, source string) (uuid.UUID, error) {
	homeID, err := s.resolveTeam(ctx, tx, raw.HomeExternal, seasonID, teams, source)
	if err != nil {
		return uuid.Nil, fmt.Errorf("entitysync: resolve home team for game %s: %w", raw.ExternalID, err)
	}
	awayID, err := s.resolveTeam(ctx, tx, raw.AwayExternal, seasonID, teams, source)
	if err != nil {
		return uuid.Nil, fmt.Errorf("entitysync: resolve away team for game %s: %w", raw.ExternalID, err)
	}

	id := uuid.New()
	externalIDs := map[string]string{source: raw.ExternalID}
	var returnedID uuid.UUID
	err = tx.QueryRow(ctx, "upsert_game", id, seasonID, homeID, awayID, raw.GameDate, raw.Status, raw.HomeScore, raw.AwayScore, externalIDs).
		Scan(&returnedID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("entitysync: upsert_game %s: %w", raw.ExternalID, err)
	}
	return returnedID, nil
}

// resolveTeam looks a team up in the already-synced teams map first (the
// common case: sync_teams_for_season ran first and populated every team
// that appears on the schedule); falls back to a fresh TeamMatcher.Resolve
// for teams the schedule mentions but the teams feed omitted.
func (s *GameSyncer) resolveTeam(ctx context.Context, tx pgx.Tx, externalID string, seasonID uuid.UUID, teams map[string]uuid.UUID, source string) (uuid.UUID, error) {
	if id, ok := teams[externalID]; ok {
		return id, nil
	}
	id, err := s.teams.SyncTeamSeason(ctx, tx, types.RawTeam{ExternalID: externalID, Name: externalID}, seasonID, source)
	if err != nil {
		return uuid.Nil, err
	}
	teams[externalID] = id
	return id, nil
}

// SyncBoxscore replaces a game's player_game_stats rows, resolving each
// player against the game's two rosters.
func (s *GameSyncer) SyncBoxscore(ctx context.Context, tx pgx.Tx, gameID uuid.UUID, box types.RawBoxScore, seasonID, homeTeamID, awayTeamID uuid.UUID, source string) error {
	if _, err := tx.Exec(ctx, "delete_player_game_stats", gameID); err != nil {
		return fmt.Errorf("entitysync: delete_player_game_stats for %s: %w", gameID, err)
	}

	if err := s.insertBoxscoreSide(ctx, tx, gameID, box.HomePlayers, homeTeamID, seasonID, source); err != nil {
		return err
	}
	if err := s.insertBoxscoreSide(ctx, tx, gameID, box.AwayPlayers, awayTeamID, seasonID, source); err != nil {
		return err
	}
	return nil
}

func (s *GameSyncer) insertBoxscoreSide(ctx context.Context, tx pgx.Tx, gameID uuid.UUID, players []types.RawPlayerStats, teamID, seasonID uuid.UUID, source string) error {
	for _, p := range players {
		pc := match.PlayerContext{TeamID: teamID, SeasonID: seasonID}
		playerID, err := s.players.Resolve(ctx, tx, p.PlayerExternalID, p.PlayerName, pc, source)
		if err != nil {
			return fmt.Errorf("entitysync: resolve box-score player %q: %w", p.PlayerName, err)
		}
		if _, err := tx.Exec(ctx, "ensure_player_history", playerID, teamID, seasonID, nil, nil); err != nil {
			return fmt.Errorf("entitysync: ensure_player_history for %s: %w", playerID, err)
		}
		_, err = tx.Exec(ctx, "insert_player_game_stats",
			gameID, playerID, teamID,
			p.Points, p.TwoPM, p.TwoPA, p.ThreePM, p.ThreePA, p.FTM, p.FTA,
			p.OREB, p.DREB, p.TREB, p.AST, p.STL, p.BLK, p.TO, p.PF,
			p.MinutesPlayed, p.IsStarter, p.PlusMinus, p.Efficiency,
		)
		if err != nil {
			return fmt.Errorf("entitysync: insert_player_game_stats for %s: %w", playerID, err)
		}
	}
	return nil
}

// SyncPBP replaces a game's play_by_play_events rows. jerseyByInternalID maps
// a source's PBP-internal player id to a jersey number, used as the fallback
// resolution path (see PlayerDeduplicator.ResolveByJersey) when an event has
// no player id from PlayerExternalID: the field is empty or its Resolve call
// failed. A non-empty PlayerExternalID with no existing player goes through
// PlayerDeduplicator.Resolve, which creates the player row.
// Team and player fields are left NULL rather than rejecting the event when
// they can't be resolved, and an ambiguous jersey match additionally records
// a pbp_unresolved_players row for manual follow-up.
func (s *GameSyncer) SyncPBP(ctx context.Context, tx pgx.Tx, gameID uuid.UUID, events []types.RawPBPEvent, jerseyByInternalID map[string]int, seasonID, homeTeamID, awayTeamID uuid.UUID, teamExternalIDs map[uuid.UUID]string, source string) error {
	if _, err := tx.Exec(ctx, "delete_pbp_events", gameID); err != nil {
		return fmt.Errorf("entitysync: delete_pbp_events for %s: %w", gameID, err)
	}

	for _, ev := range events {
		teamID := s.resolvePBPTeam(ev.TeamExternalID, homeTeamID, awayTeamID, teamExternalIDs)

		var playerID *uuid.UUID
		if ev.PlayerExternalID != "" {
			id, err := s.players.Resolve(ctx, tx, ev.PlayerExternalID, "", match.PlayerContext{}, source)
			if err == nil {
				playerID = &id
			}
		}
		if playerID == nil && teamID != nil && ev.PlayerInternalID != "" {
			if jersey, ok := jerseyByInternalID[ev.PlayerInternalID]; ok {
				id, matched, candidates, err := s.players.ResolveByJersey(ctx, tx, *teamID, seasonID, jersey)
				if err != nil {
					return fmt.Errorf("entitysync: resolve pbp player by jersey for game %s event %d: %w", gameID, ev.EventNumber, err)
				}
				if matched {
					playerID = &id
				} else if len(candidates) > 1 {
					if err := s.recordUnresolved(ctx, tx, gameID, ev.EventNumber, jersey, candidates); err != nil {
						return err
					}
				}
			}
		}

		_, err := tx.Exec(ctx, "insert_pbp_event",
			gameID, ev.EventNumber, ev.Period, ev.Clock, ev.EventType, ev.EventSubtype,
			teamID, playerID, ev.Success, ev.CoordX, ev.CoordY, ev.RelatedEventNumbers,
		)
		if err != nil {
			return fmt.Errorf("entitysync: insert_pbp_event for game %s event %d: %w", gameID, ev.EventNumber, err)
		}
	}
	return nil
}

func (s *GameSyncer) resolvePBPTeam(externalID string, homeTeamID, awayTeamID uuid.UUID, teamExternalIDs map[uuid.UUID]string) *uuid.UUID {
	if externalID == "" {
		return nil
	}
	if teamExternalIDs[homeTeamID] == externalID {
		return &homeTeamID
	}
	if teamExternalIDs[awayTeamID] == externalID {
		return &awayTeamID
	}
	return nil
}

func (s *GameSyncer) recordUnresolved(ctx context.Context, tx pgx.Tx, gameID uuid.UUID, eventNumber, jersey int, candidates []uuid.UUID) error {
	_, err := tx.Exec(ctx, "insert_unresolved_pbp", gameID, eventNumber, jersey, candidates)
	if err != nil {
		return fmt.Errorf("entitysync: insert_unresolved_pbp for game %s event %d: %w", gameID, eventNumber, err)
	}
	return nil
}
