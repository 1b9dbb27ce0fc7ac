package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/nadavbarak14/hoopsync/internal/mapper"
	"github.com/nadavbarak14/hoopsync/internal/provider/euroleague"
	"github.com/nadavbarak14/hoopsync/internal/types"
)

// EuroleagueAdapter composes the euroleague XML+JSON client behind the
// uniform LeagueAdapter contract for a single (season, competition) pair.
type EuroleagueAdapter struct {
	client      *euroleague.Client
	season      int
	competition string
}

func NewEuroleagueAdapter(client *euroleague.Client, season int, competition string) *EuroleagueAdapter {
	return &EuroleagueAdapter{client: client, season: season, competition: competition}
}

func (a *EuroleagueAdapter) SourceName() string { return euroleague.SourceName }

func (a *EuroleagueAdapter) GetSeasons(ctx context.Context) ([]types.RawSeason, error) {
	start, end := mapper.EuroleagueSeasonDates(a.season)
	name := mapper.NormalizeSeasonName(a.season)
	sourceID := mapper.EuroleagueSeasonExternalID(a.season, a.competition)
	return []types.RawSeason{{
		Name:       name,
		ExternalID: name,
		SourceID:   sourceID,
		StartDate:  start,
		EndDate:    end,
	}}, nil
}

func (a *EuroleagueAdapter) GetAvailableSeasons(ctx context.Context) ([]string, error) {
	seasons, err := a.GetSeasons(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(seasons))
	for i, s := range seasons {
		out[i] = s.Name
	}
	return out, nil
}

func (a *EuroleagueAdapter) GetTeams(ctx context.Context, seasonID string) ([]types.RawTeam, error) {
	result, err := a.client.FetchTeams(ctx, a.season, false)
	if err != nil {
		return nil, err
	}
	var doc struct {
		Teams []struct {
			Code   string `json:"Code"`
			TVCode string `json:"TVCode"`
			Name   string `json:"Name"`
		} `json:"Teams"`
	}
	if err := json.Unmarshal(result.Data, &doc); err != nil {
		return nil, fmt.Errorf("euroleague adapter: decode teams: %w", err)
	}
	out := make([]types.RawTeam, 0, len(doc.Teams))
	for _, t := range doc.Teams {
		externalID, name, shortName := mapper.MapEuroleagueTeam(t.Code, t.Name, t.TVCode)
		out = append(out, types.RawTeam{ExternalID: externalID, Name: name, ShortName: shortName})
	}
	return out, nil
}

func (a *EuroleagueAdapter) GetSchedule(ctx context.Context, seasonID string) ([]types.RawGame, error) {
	result, err := a.client.FetchSeasonGames(ctx, a.season, false)
	if err != nil {
		return nil, err
	}
	var games []map[string]any
	if err := json.Unmarshal(result.Data, &games); err != nil {
		return nil, fmt.Errorf("euroleague adapter: decode season games: %w", err)
	}
	out := make([]types.RawGame, 0, len(games))
	for _, g := range games {
		out = append(out, mapper.MapEuroleagueGame(g, a.season, a.competition))
	}
	return out, nil
}

// gamecodeFromExternalID extracts the trailing "_{gamecode}" suffix from a
// composite external id like "E2024_1".
func gamecodeFromExternalID(externalID string) (int, error) {
	parts := strings.Split(externalID, "_")
	if len(parts) < 2 {
		return 0, fmt.Errorf("euroleague adapter: malformed game external id %q", externalID)
	}
	return strconv.Atoi(parts[len(parts)-1])
}

func (a *EuroleagueAdapter) GetGameBoxscore(ctx context.Context, gameID string) (types.RawBoxScore, error) {
	gamecode, err := gamecodeFromExternalID(gameID)
	if err != nil {
		return types.RawBoxScore{}, err
	}
	result, err := a.client.FetchGameBoxscore(ctx, a.season, gamecode, false)
	if err != nil {
		return types.RawBoxScore{}, err
	}
	var data map[string]any
	if err := json.Unmarshal(result.Data, &data); err != nil {
		return types.RawBoxScore{}, fmt.Errorf("euroleague adapter: decode boxscore: %w", err)
	}
	return mapper.MapEuroleagueBoxscoreFromLive(data, a.season, a.competition, gamecode)
}

func (a *EuroleagueAdapter) GetGamePBP(ctx context.Context, gameID string) ([]types.RawPBPEvent, map[string]int, error) {
	gamecode, err := gamecodeFromExternalID(gameID)
	if err != nil {
		return nil, nil, err
	}
	result, err := a.client.FetchGamePBP(ctx, a.season, gamecode, false)
	if err != nil {
		return nil, nil, err
	}
	var data map[string]any
	if err := json.Unmarshal(result.Data, &data); err != nil {
		return nil, nil, fmt.Errorf("euroleague adapter: decode pbp: %w", err)
	}
	return mapper.MapEuroleaguePBPFromLive(data), nil, nil
}

func (a *EuroleagueAdapter) IsGameFinal(g types.RawGame) bool {
	return g.Status == "final" && g.HomeScore != nil && g.AwayScore != nil && (*g.HomeScore != 0 || *g.AwayScore != 0)
}

// EuroleaguePlayerInfoAdapter reads the XML player-profile feed.
type EuroleaguePlayerInfoAdapter struct {
	client *euroleague.Client
	season int
}

func NewEuroleaguePlayerInfoAdapter(client *euroleague.Client, season int) *EuroleaguePlayerInfoAdapter {
	return &EuroleaguePlayerInfoAdapter{client: client, season: season}
}

func (a *EuroleaguePlayerInfoAdapter) SourceName() string { return euroleague.SourceName }

func (a *EuroleaguePlayerInfoAdapter) GetPlayerInfo(ctx context.Context, externalID string) (types.RawPlayerInfo, error) {
	result, err := a.client.FetchPlayer(ctx, externalID, a.season, false)
	if err != nil {
		return types.RawPlayerInfo{}, err
	}
	var p struct {
		Name      string `json:"Name"`
		Height    string `json:"Height"`
		BirthDate string `json:"BirthDate"`
		Country   string `json:"Country"`
		Dorsal    string `json:"Dorsal"`
		Position  string `json:"Position"`
	}
	if err := json.Unmarshal(result.Data, &p); err != nil {
		return types.RawPlayerInfo{}, fmt.Errorf("euroleague adapter: decode player: %w", err)
	}
	return mapper.MapEuroleaguePlayerInfo(externalID, p.Name, p.Height, p.BirthDate, p.Country, p.Dorsal, p.Position), nil
}

// euroleagueRosterTeam is the team+roster shape FetchTeams' cached response
// decodes into; the Players array is the piece EuroleagueAdapter.GetTeams'
// own decode struct omits, since it has no use for roster data.
type euroleagueRosterTeam struct {
	Code    string `json:"Code"`
	TVCode  string `json:"TVCode"`
	Name    string `json:"Name"`
	Players []struct {
		Code string `json:"Code"`
		Name string `json:"Name"`
	} `json:"Players"`
}

func (a *EuroleaguePlayerInfoAdapter) teamsWithRosters(ctx context.Context) ([]euroleagueRosterTeam, error) {
	result, err := a.client.FetchTeams(ctx, a.season, false)
	if err != nil {
		return nil, err
	}
	var doc struct {
		Teams []euroleagueRosterTeam `json:"Teams"`
	}
	if err := json.Unmarshal(result.Data, &doc); err != nil {
		return nil, fmt.Errorf("euroleague adapter: decode teams: %w", err)
	}
	return doc.Teams, nil
}

// GetTeamRoster returns the roster of the team matching teamExternalID
// against either its code or TV code. When fetchProfiles is true, each
// entry's Info is filled in via GetPlayerInfo; a player whose profile fetch
// fails is still returned, with Info left nil.
func (a *EuroleaguePlayerInfoAdapter) GetTeamRoster(ctx context.Context, teamExternalID string, fetchProfiles bool) ([]RosterEntry, error) {
	teams, err := a.teamsWithRosters(ctx)
	if err != nil {
		return nil, err
	}
	var out []RosterEntry
	for _, t := range teams {
		if !strings.EqualFold(t.Code, teamExternalID) && !strings.EqualFold(t.TVCode, teamExternalID) {
			continue
		}
		for _, p := range t.Players {
			entry := RosterEntry{PlayerExternalID: p.Code, PlayerName: p.Name}
			if fetchProfiles {
				if info, err := a.GetPlayerInfo(ctx, p.Code); err == nil {
					entry.Info = &info
				}
			}
			out = append(out, entry)
		}
	}
	return out, nil
}

// SearchPlayer scans the season's team rosters (already present in the
// cached FetchTeams response) for a case-insensitive substring match on
// name, narrowed to a team code if one is given. A match fetches the full
// profile via GetPlayerInfo; if that fails, it falls back to a roster-only
// mapping built from the name and code alone.
func (a *EuroleaguePlayerInfoAdapter) SearchPlayer(ctx context.Context, name, team string) ([]types.RawPlayerInfo, error) {
	teams, err := a.teamsWithRosters(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(name)
	var out []types.RawPlayerInfo
	for _, t := range teams {
		if team != "" && !strings.EqualFold(t.Code, team) && !strings.EqualFold(t.TVCode, team) && !strings.EqualFold(t.Name, team) {
			continue
		}
		for _, p := range t.Players {
			if !strings.Contains(strings.ToLower(p.Name), needle) {
				continue
			}
			info, err := a.GetPlayerInfo(ctx, p.Code)
			if err != nil {
				info = mapper.MapEuroleaguePlayerInfo(p.Code, p.Name, "", "", "", "", "")
			}
			out = append(out, info)
		}
	}
	return out, nil
}
