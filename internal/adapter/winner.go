package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nadavbarak14/hoopsync/internal/mapper"
	"github.com/nadavbarak14/hoopsync/internal/provider/winner"
	"github.com/nadavbarak14/hoopsync/internal/types"
)

// WinnerAdapter composes the winner JSON client and HTML scraper behind the
// uniform LeagueAdapter contract (WinnerPlayerInfoAdapter below is the
// PlayerInfoAdapter for this source). A single
// games_all.json round-trip feeds GetSeasons, GetTeams, and GetSchedule —
// all three read from the same cached response.
type WinnerAdapter struct {
	client  *winner.Client
	scraper *winner.Scraper
	// seasonExternalID, when set, is forwarded to MapWinnerSeason instead of
	// letting it infer the season from game dates.
	seasonExternalID string
}

func NewWinnerAdapter(client *winner.Client, scraper *winner.Scraper, seasonExternalID string) *WinnerAdapter {
	return &WinnerAdapter{client: client, scraper: scraper, seasonExternalID: seasonExternalID}
}

func (a *WinnerAdapter) SourceName() string { return winner.SourceName }

func (a *WinnerAdapter) gamesAll(ctx context.Context) ([]map[string]any, error) {
	return fetchGamesAll(ctx, a.client)
}

func (a *WinnerAdapter) GetSeasons(ctx context.Context) ([]types.RawSeason, error) {
	games, err := a.gamesAll(ctx)
	if err != nil {
		return nil, err
	}
	season := mapper.MapWinnerSeason(a.seasonExternalID, games)
	return []types.RawSeason{season}, nil
}

func (a *WinnerAdapter) GetAvailableSeasons(ctx context.Context) ([]string, error) {
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

func (a *WinnerAdapter) GetTeams(ctx context.Context, seasonID string) ([]types.RawTeam, error) {
	games, err := a.gamesAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapper.ExtractWinnerTeamsFromGames(games), nil
}

func (a *WinnerAdapter) GetSchedule(ctx context.Context, seasonID string) ([]types.RawGame, error) {
	games, err := a.gamesAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]types.RawGame, 0, len(games))
	for _, g := range games {
		out = append(out, mapper.MapWinnerGame(g))
	}
	return out, nil
}

func (a *WinnerAdapter) GetGameBoxscore(ctx context.Context, gameID string) (types.RawBoxScore, error) {
	result, err := a.client.FetchBoxscore(ctx, gameID, false)
	if err != nil {
		return types.RawBoxScore{}, err
	}
	return mapper.MapWinnerBoxscore(result.Data)
}

func (a *WinnerAdapter) GetGamePBP(ctx context.Context, gameID string) ([]types.RawPBPEvent, map[string]int, error) {
	result, err := a.client.FetchPBP(ctx, gameID, false)
	if err != nil {
		return nil, nil, err
	}
	var data map[string]any
	if err := json.Unmarshal(result.Data, &data); err != nil {
		return nil, nil, fmt.Errorf("winner adapter: decode pbp: %w", err)
	}
	events := mapper.MapWinnerPBPEvents(data)
	return events, nil, nil
}

func (a *WinnerAdapter) IsGameFinal(g types.RawGame) bool {
	return g.Status == "final" && g.HomeScore != nil && g.AwayScore != nil && (*g.HomeScore != 0 || *g.AwayScore != 0)
}

// WinnerPlayerInfoAdapter scrapes player biographical profiles from the
// provider's HTML surface; there is no JSON player-info endpoint.
type WinnerPlayerInfoAdapter struct {
	client  *winner.Client
	scraper *winner.Scraper
}

func NewWinnerPlayerInfoAdapter(client *winner.Client, scraper *winner.Scraper) *WinnerPlayerInfoAdapter {
	return &WinnerPlayerInfoAdapter{client: client, scraper: scraper}
}

func (a *WinnerPlayerInfoAdapter) SourceName() string { return winner.SourceName }

func (a *WinnerPlayerInfoAdapter) GetPlayerInfo(ctx context.Context, externalID string) (types.RawPlayerInfo, error) {
	result, err := a.client.FetchPlayerPage(ctx, externalID, false)
	if err != nil {
		return types.RawPlayerInfo{}, err
	}
	return a.scraper.ParsePlayerProfile(ctx, externalID, result.Data)
}

// FetchAndParseProfile parses an already-fetched player profile page,
// bypassing the client's cache — useful when the caller obtained the HTML
// some other way (e.g. during a SearchPlayer pass that already fetched it).
func (a *WinnerPlayerInfoAdapter) FetchAndParseProfile(ctx context.Context, externalID string, pageHTML []byte) (types.RawPlayerInfo, error) {
	return a.scraper.ParsePlayerProfile(ctx, externalID, pageHTML)
}

func fetchGamesAll(ctx context.Context, client *winner.Client) ([]map[string]any, error) {
	result, err := client.FetchGamesAll(ctx, false)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Games []map[string]any `json:"games"`
	}
	if err := json.Unmarshal(result.Data, &payload); err != nil {
		return nil, fmt.Errorf("winner adapter: decode games_all: %w", err)
	}
	return payload.Games, nil
}

// GetTeamRoster fetches and parses a single team's roster page. When
// fetchProfiles is true, each entry's Info is filled in via GetPlayerInfo;
// a player whose profile fetch fails is still returned, with Info left nil.
func (a *WinnerPlayerInfoAdapter) GetTeamRoster(ctx context.Context, teamExternalID string, fetchProfiles bool) ([]RosterEntry, error) {
	page, err := a.client.FetchTeamRosterPage(ctx, teamExternalID, false)
	if err != nil {
		return nil, err
	}
	roster, err := a.scraper.ParseTeamRoster(ctx, teamExternalID, page.Data)
	if err != nil {
		return nil, err
	}

	out := make([]RosterEntry, 0, len(roster))
	for _, p := range roster {
		entry := RosterEntry{PlayerExternalID: p.ExternalID, PlayerName: p.Name}
		if fetchProfiles {
			if info, err := a.GetPlayerInfo(ctx, p.ExternalID); err == nil {
				entry.Info = &info
			}
		}
		out = append(out, entry)
	}
	return out, nil
}

// SearchPlayer finds teams from the current schedule, narrows to the given
// team (by name or external id) if one was supplied, then scans each
// matching team's roster for a case-insensitive substring match on name,
// fetching a full profile for each hit. A team whose roster page fails to
// fetch is skipped rather than failing the whole search.
func (a *WinnerPlayerInfoAdapter) SearchPlayer(ctx context.Context, name, team string) ([]types.RawPlayerInfo, error) {
	games, err := fetchGamesAll(ctx, a.client)
	if err != nil {
		return nil, err
	}
	teams := mapper.ExtractWinnerTeamsFromGames(games)

	needle := strings.ToLower(name)
	var out []types.RawPlayerInfo
	for _, t := range teams {
		if team != "" && !strings.EqualFold(t.Name, team) && t.ExternalID != team {
			continue
		}

		roster, err := a.GetTeamRoster(ctx, t.ExternalID, false)
		if err != nil {
			continue
		}
		for _, p := range roster {
			if !strings.Contains(strings.ToLower(p.PlayerName), needle) {
				continue
			}
			info, err := a.GetPlayerInfo(ctx, p.PlayerExternalID)
			if err != nil {
				first, last := splitSearchName(p.PlayerName)
				info = types.RawPlayerInfo{ExternalID: p.PlayerExternalID, FirstName: first, LastName: last}
			}
			out = append(out, info)
		}
	}
	return out, nil
}

func splitSearchName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
