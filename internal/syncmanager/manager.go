// Package syncmanager is the top-level orchestrator: it resolves/creates
// the canonical season, syncs teams, fetches the schedule, skips
// already-tracked games via the tracker, and runs one transaction per
// remaining game (sync_game, sync_boxscore, sync_pbp), recording outcomes
// to a SyncLog.
package syncmanager

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nadavbarak14/hoopsync/internal/adapter"
	"github.com/nadavbarak14/hoopsync/internal/entitysync"
	"github.com/nadavbarak14/hoopsync/internal/mapper"
	"github.com/nadavbarak14/hoopsync/internal/playerinfo"
	"github.com/nadavbarak14/hoopsync/internal/synclog"
	"github.com/nadavbarak14/hoopsync/internal/tracker"
	"github.com/nadavbarak14/hoopsync/internal/types"
)

// leagueCountries seeds a new League row's country the first time a source
// is seen; anything unlisted defaults to "Unknown".
var leagueCountries = map[string]string{
	"winner":     "Israel",
	"euroleague": "Europe",
}

var leagueNames = map[string]string{
	"winner":     "Winner League",
	"euroleague": "Euroleague",
}

type Manager struct {
	pool       *pgxpool.Pool
	adapters   map[string]adapter.LeagueAdapter
	teamSyncer *entitysync.TeamSyncer
	gameSyncer *entitysync.GameSyncer
	tracker    *tracker.Tracker
	synclog    *synclog.Log
	playerInfo *playerinfo.Service
}

func New(pool *pgxpool.Pool, adapters map[string]adapter.LeagueAdapter, playerInfo *playerinfo.Service) *Manager {
	log := synclog.New(pool)
	return &Manager{
		pool:       pool,
		adapters:   adapters,
		teamSyncer: entitysync.NewTeamSyncer(log),
		gameSyncer: entitysync.NewGameSyncer(log),
		tracker:    tracker.New(pool),
		synclog:    log,
		playerInfo: playerInfo,
	}
}

func (m *Manager) getAdapter(source string) (adapter.LeagueAdapter, error) {
	a, ok := m.adapters[source]
	if !ok {
		return nil, fmt.Errorf("syncmanager: unknown source %q", source)
	}
	return a, nil
}

// SyncSeason fetches every final game for a season not already tracked and
// syncs each one (game, box score, optionally PBP) in its own transaction.
func (m *Manager) SyncSeason(ctx context.Context, source, seasonExternalID string, includePBP bool) (types.SyncLog, error) {
	a, err := m.getAdapter(source)
	if err != nil {
		return types.SyncLog{}, err
	}

	season, err := m.resolveSeason(ctx, source, seasonExternalID)
	if err != nil {
		return types.SyncLog{}, err
	}

	running, err := m.synclog.AlreadyRunning(ctx, source, "season", &season.ID)
	if err != nil {
		return types.SyncLog{}, err
	}
	if running {
		return types.SyncLog{}, fmt.Errorf("syncmanager: a season sync is already running for %s/%s", source, seasonExternalID)
	}

	startedAt := time.Now().UTC()
	logID, err := m.synclog.Start(ctx, source, "season", &season.ID, nil, startedAt)
	if err != nil {
		return types.SyncLog{}, err
	}
	var counters synclog.Counters

	teamIDs, err := m.syncTeamsForSeason(ctx, a, season.ID, seasonExternalID, source)
	if err != nil {
		return m.fail(ctx, logID, source, "season", startedAt, err, counters)
	}

	unsyncedGames, skippedAlreadySynced, total, err := m.unsyncedFinalGames(ctx, a, source, seasonExternalID)
	if err != nil {
		return m.fail(ctx, logID, source, "season", startedAt, err, counters)
	}
	counters.Skipped = skippedAlreadySynced
	counters.Processed = total

	for _, g := range unsyncedGames {
		if err := m.syncOneGame(ctx, a, g, season.ID, teamIDs, source, includePBP); err != nil {
			counters.Skipped++
			continue
		}
		counters.Created++
	}

	return m.complete(ctx, logID, source, "season", startedAt, counters)
}

// SyncSeasonWithProgress is the streaming variant: identical algorithm, but
// emits a tagged event before/after each phase onto the returned channel.
// The channel is closed after the terminal "complete" event.
func (m *Manager) SyncSeasonWithProgress(ctx context.Context, source, seasonExternalID string, includePBP bool) (<-chan Event, error) {
	a, err := m.getAdapter(source)
	if err != nil {
		return nil, err
	}
	season, err := m.resolveSeason(ctx, source, seasonExternalID)
	if err != nil {
		return nil, err
	}
	running, err := m.synclog.AlreadyRunning(ctx, source, "season", &season.ID)
	if err != nil {
		return nil, err
	}
	if running {
		return nil, fmt.Errorf("syncmanager: a season sync is already running for %s/%s", source, seasonExternalID)
	}

	events := make(chan Event, 8)
	go m.runSeasonWithProgress(ctx, events, a, season, seasonExternalID, source, includePBP)
	return events, nil
}

func (m *Manager) runSeasonWithProgress(ctx context.Context, events chan<- Event, a adapter.LeagueAdapter, season types.Season, seasonExternalID, source string, includePBP bool) {
	defer close(events)

	startedAt := time.Now().UTC()
	logID, err := m.synclog.Start(ctx, source, "season", &season.ID, nil, startedAt)
	if err != nil {
		return
	}
	var counters synclog.Counters

	teamIDs, err := m.syncTeamsForSeason(ctx, a, season.ID, seasonExternalID, source)
	if err != nil {
		result, _ := m.fail(ctx, logID, source, "season", startedAt, err, counters)
		events <- completeEvent(result)
		return
	}

	unsyncedGames, skippedAlreadySynced, total, err := m.unsyncedFinalGames(ctx, a, source, seasonExternalID)
	if err != nil {
		result, _ := m.fail(ctx, logID, source, "season", startedAt, err, counters)
		events <- completeEvent(result)
		return
	}
	counters.Skipped = skippedAlreadySynced
	counters.Processed = total

	events <- startEvent("games", len(unsyncedGames), skippedAlreadySynced)

	for i, g := range unsyncedGames {
		select {
		case <-ctx.Done():
			result, _ := m.complete(ctx, logID, source, "season", startedAt, counters)
			events <- completeEvent(result)
			return
		default:
		}

		events <- progressEvent(i+1, len(unsyncedGames), g.ExternalID)

		if err := m.syncOneGame(ctx, a, g, season.ID, teamIDs, source, includePBP); err != nil {
			counters.Skipped++
			events <- errorEvent(g.ExternalID, err.Error())
			continue
		}
		counters.Created++
		events <- syncedEvent(g.ExternalID)
	}

	result, _ := m.complete(ctx, logID, source, "season", startedAt, counters)
	events <- completeEvent(result)
}

// SyncGame syncs a single game by external id, independent of any season
// sync run. A no-op (records_skipped=1) if the game is already tracked.
func (m *Manager) SyncGame(ctx context.Context, source, gameExternalID string, includePBP bool) (types.SyncLog, error) {
	a, err := m.getAdapter(source)
	if err != nil {
		return types.SyncLog{}, err
	}

	startedAt := time.Now().UTC()
	logID, err := m.synclog.Start(ctx, source, "game", nil, nil, startedAt)
	if err != nil {
		return types.SyncLog{}, err
	}

	existing, err := m.tracker.GetGameByExternalID(ctx, source, gameExternalID)
	if err != nil {
		return m.fail(ctx, logID, source, "game", startedAt, err, synclog.Counters{})
	}
	if existing != uuid.Nil {
		return m.complete(ctx, logID, source, "game", startedAt, synclog.Counters{Processed: 1, Skipped: 1})
	}

	box, err := a.GetGameBoxscore(ctx, gameExternalID)
	if err != nil {
		return m.fail(ctx, logID, source, "game", startedAt, err, synclog.Counters{})
	}

	seasons, err := a.GetSeasons(ctx)
	if err != nil || len(seasons) == 0 {
		return m.fail(ctx, logID, source, "game", startedAt, fmt.Errorf("syncmanager: no seasons available for %s: %w", source, err), synclog.Counters{})
	}
	season, err := m.resolveSeason(ctx, source, seasons[0].ExternalID)
	if err != nil {
		return m.fail(ctx, logID, source, "game", startedAt, err, synclog.Counters{})
	}

	homeTeam := types.RawTeam{ExternalID: box.Game.HomeExternal, Name: "Team " + box.Game.HomeExternal}
	awayTeam := types.RawTeam{ExternalID: box.Game.AwayExternal, Name: "Team " + box.Game.AwayExternal}

	var gameID uuid.UUID
	err = m.withTx(ctx, func(tx pgx.Tx) error {
		homeID, err := m.teamSyncer.SyncTeamSeason(ctx, tx, homeTeam, season.ID, source)
		if err != nil {
			return err
		}
		awayID, err := m.teamSyncer.SyncTeamSeason(ctx, tx, awayTeam, season.ID, source)
		if err != nil {
			return err
		}
		teamIDs := map[string]uuid.UUID{box.Game.HomeExternal: homeID, box.Game.AwayExternal: awayID}

		gameID, err = m.gameSyncer.SyncGame(ctx, tx, box.Game, season.ID, teamIDs, source)
		if err != nil {
			return err
		}
		if err := m.gameSyncer.SyncBoxscore(ctx, tx, gameID, box, season.ID, homeID, awayID, source); err != nil {
			return err
		}
		if includePBP {
			if events, jerseys, err := a.GetGamePBP(ctx, gameExternalID); err == nil {
				extByTeamID := map[uuid.UUID]string{homeID: box.Game.HomeExternal, awayID: box.Game.AwayExternal}
				_ = m.gameSyncer.SyncPBP(ctx, tx, gameID, events, jerseys, season.ID, homeID, awayID, extByTeamID, source)
			}
		}
		return nil
	})
	if err != nil {
		return m.fail(ctx, logID, source, "game", startedAt, err, synclog.Counters{})
	}

	if err := m.tracker.MarkGameSynced(ctx, source, gameExternalID, gameID, time.Now().UTC()); err != nil {
		return m.fail(ctx, logID, source, "game", startedAt, err, synclog.Counters{})
	}

	return m.complete(ctx, logID, source, "game", startedAt, synclog.Counters{Processed: 1, Created: 1})
}

// SyncTeams syncs only the team rosters for a season, without touching
// games.
func (m *Manager) SyncTeams(ctx context.Context, source, seasonExternalID string) (types.SyncLog, error) {
	a, err := m.getAdapter(source)
	if err != nil {
		return types.SyncLog{}, err
	}
	season, err := m.resolveSeason(ctx, source, seasonExternalID)
	if err != nil {
		return types.SyncLog{}, err
	}

	startedAt := time.Now().UTC()
	logID, err := m.synclog.Start(ctx, source, "teams", &season.ID, nil, startedAt)
	if err != nil {
		return types.SyncLog{}, err
	}

	teams, err := a.GetTeams(ctx, seasonExternalID)
	if err != nil {
		return m.fail(ctx, logID, source, "teams", startedAt, err, synclog.Counters{})
	}

	var created, updated int
	err = m.withTx(ctx, func(tx pgx.Tx) error {
		for _, raw := range teams {
			existed, err := m.teamExists(ctx, tx, source, raw.ExternalID)
			if err != nil {
				return err
			}
			if _, err := m.teamSyncer.SyncTeamSeason(ctx, tx, raw, season.ID, source); err != nil {
				return err
			}
			if existed {
				updated++
			} else {
				created++
			}
		}
		return nil
	})
	if err != nil {
		return m.fail(ctx, logID, source, "teams", startedAt, err, synclog.Counters{})
	}

	return m.complete(ctx, logID, source, "teams", startedAt, synclog.Counters{Processed: len(teams), Created: created, Updated: updated})
}

// SyncRecent syncs every final game from the last `days` days within the
// adapter's last available season; games of earlier seasons are not read.
func (m *Manager) SyncRecent(ctx context.Context, source string, days int) (types.SyncLog, error) {
	a, err := m.getAdapter(source)
	if err != nil {
		return types.SyncLog{}, err
	}

	seasons, err := a.GetAvailableSeasons(ctx)
	if err != nil || len(seasons) == 0 {
		return types.SyncLog{}, fmt.Errorf("syncmanager: no seasons available for %s: %w", source, err)
	}
	currentSeasonExternalID := seasons[len(seasons)-1]

	startedAt := time.Now().UTC()
	logID, err := m.synclog.Start(ctx, source, "recent", nil, nil, startedAt)
	if err != nil {
		return types.SyncLog{}, err
	}

	since := time.Now().UTC().AddDate(0, 0, -days)
	recentGames, err := adapter.GetGamesSince(ctx, a, currentSeasonExternalID, since)
	if err != nil {
		return m.fail(ctx, logID, source, "recent", startedAt, err, synclog.Counters{})
	}

	season, err := m.resolveSeason(ctx, source, currentSeasonExternalID)
	if err != nil {
		return m.fail(ctx, logID, source, "recent", startedAt, err, synclog.Counters{})
	}
	teamIDs, err := m.syncTeamsForSeason(ctx, a, season.ID, currentSeasonExternalID, source)
	if err != nil {
		return m.fail(ctx, logID, source, "recent", startedAt, err, synclog.Counters{})
	}

	externalIDs := make([]string, len(recentGames))
	for i, g := range recentGames {
		externalIDs[i] = g.ExternalID
	}
	unsyncedIDs, err := m.tracker.GetUnsyncedGames(ctx, source, externalIDs)
	if err != nil {
		return m.fail(ctx, logID, source, "recent", startedAt, err, synclog.Counters{})
	}
	unsyncedSet := toSet(unsyncedIDs)

	counters := synclog.Counters{Processed: len(recentGames)}
	for _, g := range recentGames {
		if !unsyncedSet[g.ExternalID] {
			counters.Skipped++
			continue
		}
		if err := m.syncOneGame(ctx, a, g, season.ID, teamIDs, source, true); err != nil {
			counters.Skipped++
			continue
		}
		counters.Created++
	}

	return m.complete(ctx, logID, source, "recent", startedAt, counters)
}

// SyncPlayerInfo updates biographical fields for every player on a team's
// roster for a season, using the configured PlayerInfoService.
func (m *Manager) SyncPlayerInfo(ctx context.Context, teamID, seasonID uuid.UUID) (types.SyncLog, error) {
	if m.playerInfo == nil {
		return types.SyncLog{}, fmt.Errorf("syncmanager: no PlayerInfoService configured")
	}

	startedAt := time.Now().UTC()
	logID, err := m.synclog.Start(ctx, "aggregated", "player_info", &seasonID, nil, startedAt)
	if err != nil {
		return types.SyncLog{}, err
	}

	players, err := m.rosterPlayers(ctx, teamID, seasonID)
	if err != nil {
		return m.fail(ctx, logID, "aggregated", "player_info", startedAt, err, synclog.Counters{})
	}

	var updated int
	for _, p := range players {
		changes, err := m.playerInfo.UpdateFromSources(ctx, p)
		if err != nil || len(changes) == 0 {
			continue
		}
		if err := m.applyPlayerUpdates(ctx, p.ID, changes); err != nil {
			continue
		}
		updated++
	}

	return m.complete(ctx, logID, "aggregated", "player_info", startedAt, synclog.Counters{
		Processed: len(players), Updated: updated, Skipped: len(players) - updated,
	})
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

func (m *Manager) withTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("syncmanager: begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("syncmanager: commit transaction: %w", err)
	}
	return nil
}

func (m *Manager) syncTeamsForSeason(ctx context.Context, a adapter.LeagueAdapter, seasonID uuid.UUID, seasonExternalID, source string) (map[string]uuid.UUID, error) {
	teams, err := a.GetTeams(ctx, seasonExternalID)
	if err != nil {
		return nil, fmt.Errorf("syncmanager: get_teams %s/%s: %w", source, seasonExternalID, err)
	}
	var resolved map[string]uuid.UUID
	err = m.withTx(ctx, func(tx pgx.Tx) error {
		var err error
		resolved, err = m.teamSyncer.SyncTeams(ctx, tx, teams, seasonID, source)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resolved, nil
}

func (m *Manager) unsyncedFinalGames(ctx context.Context, a adapter.LeagueAdapter, source, seasonExternalID string) (unsynced []types.RawGame, alreadySynced, total int, err error) {
	games, err := a.GetSchedule(ctx, seasonExternalID)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("syncmanager: get_schedule %s/%s: %w", source, seasonExternalID, err)
	}

	var final []types.RawGame
	for _, g := range games {
		if a.IsGameFinal(g) {
			final = append(final, g)
		}
	}

	externalIDs := make([]string, len(final))
	for i, g := range final {
		externalIDs[i] = g.ExternalID
	}
	unsyncedIDs, err := m.tracker.GetUnsyncedGames(ctx, source, externalIDs)
	if err != nil {
		return nil, 0, 0, err
	}
	unsyncedSet := toSet(unsyncedIDs)

	for _, g := range final {
		if unsyncedSet[g.ExternalID] {
			unsynced = append(unsynced, g)
		}
	}
	return unsynced, len(final) - len(unsynced), len(final), nil
}

// syncOneGame runs sync_game + sync_boxscore (+ optional sync_pbp, whose
// failure is non-fatal) in one transaction, then marks the game synced only
// after that transaction commits.
func (m *Manager) syncOneGame(ctx context.Context, a adapter.LeagueAdapter, g types.RawGame, seasonID uuid.UUID, teamIDs map[string]uuid.UUID, source string, includePBP bool) error {
	box, err := a.GetGameBoxscore(ctx, g.ExternalID)
	if err != nil {
		return fmt.Errorf("syncmanager: get_game_boxscore %s: %w", g.ExternalID, err)
	}

	homeID := teamIDs[g.HomeExternal]
	awayID := teamIDs[g.AwayExternal]

	var gameID uuid.UUID
	err = m.withTx(ctx, func(tx pgx.Tx) error {
		var err error
		gameID, err = m.gameSyncer.SyncGame(ctx, tx, g, seasonID, teamIDs, source)
		if err != nil {
			return err
		}
		if err := m.gameSyncer.SyncBoxscore(ctx, tx, gameID, box, seasonID, homeID, awayID, source); err != nil {
			return err
		}
		if includePBP {
			if events, jerseys, err := a.GetGamePBP(ctx, g.ExternalID); err == nil {
				extByTeamID := map[uuid.UUID]string{homeID: g.HomeExternal, awayID: g.AwayExternal}
				_ = m.gameSyncer.SyncPBP(ctx, tx, gameID, events, jerseys, seasonID, homeID, awayID, extByTeamID, source)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	return m.tracker.MarkGameSynced(ctx, source, g.ExternalID, gameID, time.Now().UTC())
}

func (m *Manager) resolveSeason(ctx context.Context, source, seasonExternalID string) (types.Season, error) {
	var season types.Season
	err := m.withTx(ctx, func(tx pgx.Tx) error {
		var err error
		season, err = m.getOrCreateSeason(ctx, tx, source, seasonExternalID)
		return err
	})
	return season, err
}

func (m *Manager) getOrCreateSeason(ctx context.Context, tx pgx.Tx, source, seasonExternalID string) (types.Season, error) {
	league, err := m.getOrCreateLeague(ctx, tx, source)
	if err != nil {
		return types.Season{}, err
	}

	var s types.Season
	err = tx.QueryRow(ctx, "season_by_name", league.ID, seasonExternalID).
		Scan(&s.ID, &s.LeagueID, &s.Name, &s.StartDate, &s.EndDate, &s.IsCurrent)
	if err == nil {
		return s, nil
	}
	if err != pgx.ErrNoRows {
		return types.Season{}, fmt.Errorf("syncmanager: season_by_name: %w", err)
	}

	startYear := mapper.ParseSeasonStartYear(seasonExternalID)
	start, end := mapper.SeasonDatesDefault(startYear)
	id := uuid.New()
	var returnedID uuid.UUID
	err = tx.QueryRow(ctx, "insert_season", id, league.ID, seasonExternalID, start, end, true).Scan(&returnedID)
	if err != nil {
		return types.Season{}, fmt.Errorf("syncmanager: insert_season %q: %w", seasonExternalID, err)
	}
	return types.Season{ID: returnedID, LeagueID: league.ID, Name: seasonExternalID, StartDate: start, EndDate: end, IsCurrent: true}, nil
}

func (m *Manager) getOrCreateLeague(ctx context.Context, tx pgx.Tx, source string) (types.League, error) {
	code := strings.ToUpper(source)
	var l types.League
	err := tx.QueryRow(ctx, "league_by_code", code).Scan(&l.ID, &l.Code, &l.Name, &l.Country)
	if err == nil {
		return l, nil
	}
	if err != pgx.ErrNoRows {
		return types.League{}, fmt.Errorf("syncmanager: league_by_code: %w", err)
	}

	country := leagueCountries[source]
	if country == "" {
		country = "Unknown"
	}
	name := leagueNames[source]
	if name == "" {
		name = source + " League"
	}

	id := uuid.New()
	var returnedID uuid.UUID
	err = tx.QueryRow(ctx, "insert_league", id, code, name, country).Scan(&returnedID)
	if err != nil {
		return types.League{}, fmt.Errorf("syncmanager: insert_league %q: %w", code, err)
	}
	return types.League{ID: returnedID, Code: code, Name: name, Country: country}, nil
}

func (m *Manager) teamExists(ctx context.Context, tx pgx.Tx, source, externalID string) (bool, error) {
	var id uuid.UUID
	var name, shortName, city, country string
	var externalIDs map[string]string
	err := tx.QueryRow(ctx, "team_by_external_id", source, externalID).Scan(&id, &name, &shortName, &city, &country, &externalIDs)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("syncmanager: team_by_external_id: %w", err)
	}
	return true, nil
}

func (m *Manager) fail(ctx context.Context, logID uuid.UUID, source, entityType string, startedAt time.Time, cause error, counters synclog.Counters) (types.SyncLog, error) {
	completedAt := time.Now().UTC()
	details := map[string]string{"error": cause.Error()}
	if err := m.synclog.Fail(ctx, logID, completedAt, cause.Error(), details, counters); err != nil {
		return types.SyncLog{}, err
	}
	return synclog.Result(logID, source, entityType, types.SyncLogFailed, startedAt, &completedAt, counters, cause.Error()), cause
}

func (m *Manager) complete(ctx context.Context, logID uuid.UUID, source, entityType string, startedAt time.Time, counters synclog.Counters) (types.SyncLog, error) {
	completedAt := time.Now().UTC()
	if err := m.synclog.Complete(ctx, logID, completedAt, counters); err != nil {
		return types.SyncLog{}, err
	}
	return synclog.Result(logID, source, entityType, types.SyncLogCompleted, startedAt, &completedAt, counters, ""), nil
}

func toSet(vs []string) map[string]bool {
	set := make(map[string]bool, len(vs))
	for _, v := range vs {
		set[v] = true
	}
	return set
}

func (m *Manager) rosterPlayers(ctx context.Context, teamID, seasonID uuid.UUID) ([]types.Player, error) {
	rows, err := m.pool.Query(ctx,
		`SELECT p.id, p.first_name, p.last_name, p.birth_date, p.height_cm, p.position, p.nationality, p.external_ids
		 FROM players p
		 JOIN player_team_histories pth ON pth.player_id = p.id
		 WHERE pth.team_id = $1 AND pth.season_id = $2`,
		teamID, seasonID)
	if err != nil {
		return nil, fmt.Errorf("syncmanager: roster query: %w", err)
	}
	defer rows.Close()

	var players []types.Player
	for rows.Next() {
		var p types.Player
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.BirthDate, &p.HeightCM, &p.Position, &p.Nationality, &p.ExternalIDs); err != nil {
			return nil, fmt.Errorf("syncmanager: scan roster player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (m *Manager) applyPlayerUpdates(ctx context.Context, playerID uuid.UUID, changes map[string]any) error {
	firstName, _ := changes["first_name"].(string)
	lastName, _ := changes["last_name"].(string)
	position, _ := changes["position"].(string)
	var birthDate any
	if bd, ok := changes["birth_date"].(time.Time); ok {
		birthDate = bd
	}
	var heightCM any
	if h, ok := changes["height_cm"].(int); ok {
		heightCM = h
	}

	_, err := m.pool.Exec(ctx, "upsert_player", playerID,
		nilIfEmpty(firstName), nilIfEmpty(lastName), birthDate, heightCM, nilIfEmpty(position), nil, map[string]string{})
	if err != nil {
		return fmt.Errorf("syncmanager: apply player updates for %s: %w", playerID, err)
	}
	return nil
}

func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
