// Winner-dialect mappers: the provider's JSON API responds in either a
// legacy flat shape or a segevstats JSON-RPC envelope. Selection between the
// two is structural — presence of a "playerId"/"result" key — never
// configured.
package mapper

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/nadavbarak14/hoopsync/internal/types"
)

// winnerEventTypeMap maps the PBP feed's EventType codes to canonical
// event types.
var winnerEventTypeMap = map[string]string{
	"MADE_2PT":     "shot",
	"MADE_3PT":     "shot",
	"MISS_2PT":     "shot",
	"MISS_3PT":     "shot",
	"MADE_FT":      "free_throw",
	"MISS_FT":      "free_throw",
	"REBOUND":      "rebound",
	"ASSIST":       "assist",
	"TURNOVER":     "turnover",
	"STEAL":        "steal",
	"BLOCK":        "block",
	"FOUL":         "foul",
	"JUMP_BALL":    "jump_ball",
	"TIMEOUT":      "timeout",
	"SUBSTITUTION": "substitution",
}

// MapWinnerPBPEvents maps a decoded {"Events": [...]} PBP response into an
// ordered, link-inferred RawPBPEvent slice.
func MapWinnerPBPEvents(data map[string]any) []types.RawPBPEvent {
	raw, _ := data["Events"].([]any)
	events := make([]types.RawPBPEvent, 0, len(raw))
	for i, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		events = append(events, mapWinnerPBPEvent(m, i+1))
	}
	return InferPBPLinks(events)
}

func mapWinnerPBPEvent(data map[string]any, eventNum int) types.RawPBPEvent {
	rawType := stringField(data, "EventType")
	eventType, ok := winnerEventTypeMap[rawType]
	if !ok {
		eventType = strings.ToLower(rawType)
	}

	var success *bool
	switch {
	case strings.HasPrefix(rawType, "MADE_"):
		v := true
		success = &v
	case strings.HasPrefix(rawType, "MISS_"):
		v := false
		success = &v
	}

	period := intField(data, "Quarter")
	if period == 0 {
		period = 1
	}

	var coordX, coordY *float64
	if v, ok := data["CoordX"].(float64); ok {
		coordX = &v
	}
	if v, ok := data["CoordY"].(float64); ok {
		coordY = &v
	}

	teamID := ""
	if v, ok := data["TeamId"]; ok && v != nil {
		teamID = stringField(data, "TeamId")
	}

	return types.RawPBPEvent{
		EventNumber:    eventNum,
		Period:         period,
		Clock:          stringField(data, "GameClock"),
		EventType:      eventType,
		TeamExternalID: teamID,
		PlayerExternalID: stringField(data, "PlayerId"),
		Success:        success,
		CoordX:         coordX,
		CoordY:         coordY,
	}
}

// MapWinnerSeason builds a RawSeason from the games_all response. When
// seasonExternalID is empty it is inferred: first from a game's "game_year"
// field (the end year of the season), else from the first game's date using
// the September-rollover rule.
func MapWinnerSeason(seasonExternalID string, games []map[string]any) types.RawSeason {
	if seasonExternalID == "" && len(games) > 0 {
		first := games[0]
		if gy, ok := first["game_year"]; ok {
			endYear := intAny(gy)
			seasonExternalID = NormalizeSeasonName(endYear - 1)
		} else {
			dateStr := stringField(first, "game_date_txt")
			if dateStr == "" {
				dateStr = stringField(first, "GameDate")
			}
			seasonExternalID = SeasonNameFromDate(ParseGameDate(dateStr))
		}
	}

	var start, end time.Time
	for i, g := range games {
		dateStr := stringField(g, "game_date_txt")
		if dateStr == "" {
			dateStr = stringField(g, "GameDate")
		}
		d := ParseGameDate(dateStr)
		if i == 0 || d.Before(start) {
			start = d
		}
		if i == 0 || d.After(end) {
			end = d
		}
	}

	return types.RawSeason{
		Name:       seasonExternalID,
		ExternalID: seasonExternalID,
		SourceID:   seasonExternalID,
		StartDate:  start,
		EndDate:    end,
	}
}

// ExtractWinnerTeamsFromGames extracts the unique teams referenced by a
// games_all response, tolerating both the legacy field names
// (HomeTeamId/HomeTeamName) and the real API's (team1/team_name_eng_1).
func ExtractWinnerTeamsFromGames(games []map[string]any) []types.RawTeam {
	seen := map[string]bool{}
	var out []types.RawTeam
	for _, g := range games {
		homeID := firstNonEmpty(stringField(g, "team1"), stringField(g, "HomeTeamId"))
		homeName := firstNonEmpty(stringField(g, "team_name_eng_1"), stringField(g, "team_name_1"), stringField(g, "HomeTeamName"))
		if homeID != "" && !seen[homeID] {
			seen[homeID] = true
			out = append(out, types.RawTeam{ExternalID: homeID, Name: homeName})
		}

		awayID := firstNonEmpty(stringField(g, "team2"), stringField(g, "AwayTeamId"))
		awayName := firstNonEmpty(stringField(g, "team_name_eng_2"), stringField(g, "team_name_2"), stringField(g, "AwayTeamName"))
		if awayID != "" && !seen[awayID] {
			seen[awayID] = true
			out = append(out, types.RawTeam{ExternalID: awayID, Name: awayName})
		}
	}
	return out
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if v != "" {
			return v
		}
	}
	return ""
}

// MapWinnerGame maps a single games_all entry to RawGame, tolerating both
// the legacy and real-API field name sets. Status always re-derives from
// scores via DeriveGameStatus rather than trusting an explicit status field,
// since a 0-0 score never counts as final regardless of what the source
// reports.
func MapWinnerGame(data map[string]any) types.RawGame {
	gameID := firstNonEmpty(stringField(data, "ExternalID"), stringField(data, "GameId"))

	homeID := firstNonEmpty(stringField(data, "team1"), stringField(data, "HomeTeamId"))
	awayID := firstNonEmpty(stringField(data, "team2"), stringField(data, "AwayTeamId"))

	dateStr := firstNonEmpty(stringField(data, "game_date_txt"), stringField(data, "GameDate"))

	var homeScore, awayScore *int
	if hs, ok := numField(data, "score_team1"); ok {
		homeScore = &hs
	} else if hs, ok := numField(data, "HomeScore"); ok {
		homeScore = &hs
	}
	if as, ok := numField(data, "score_team2"); ok {
		awayScore = &as
	} else if as, ok := numField(data, "AwayScore"); ok {
		awayScore = &as
	}

	return types.RawGame{
		ExternalID:   gameID,
		HomeExternal: homeID,
		AwayExternal: awayID,
		GameDate:     ParseGameDate(dateStr),
		Status:       DeriveGameStatus(homeScore, awayScore),
		HomeScore:    homeScore,
		AwayScore:    awayScore,
	}
}

// MapWinnerPlayerStats dispatches to the legacy or segevstats shape based on
// the presence of a lowercase "playerId" key.
func MapWinnerPlayerStats(data map[string]any, teamExternalID string) types.RawPlayerStats {
	if _, ok := data["playerId"]; ok {
		return mapSegevstatsPlayerStats(data, teamExternalID)
	}
	return mapLegacyPlayerStats(data, teamExternalID)
}

func mapLegacyPlayerStats(data map[string]any, teamExternalID string) types.RawPlayerStats {
	fgm := intField(data, "FGM")
	fga := intField(data, "FGA")
	threePM := intField(data, "ThreePM")
	threePA := intField(data, "ThreePA")
	twoPM := maxInt(0, fgm-threePM)
	twoPA := maxInt(0, fga-threePA)

	return types.RawPlayerStats{
		PlayerExternalID: stringField(data, "PlayerId"),
		PlayerName:       stringField(data, "Name"),
		TeamExternalID:   teamExternalID,
		MinutesPlayed:    ParseMinutesToSeconds(stringField(data, "Minutes")),
		IsStarter:        boolField(data, "IsStarter"),
		Points:           intField(data, "Points"),
		TwoPM:            twoPM,
		TwoPA:            twoPA,
		ThreePM:          threePM,
		ThreePA:          threePA,
		FTM:              intField(data, "FTM"),
		FTA:              intField(data, "FTA"),
		OREB:             intField(data, "OffReb"),
		DREB:             intField(data, "DefReb"),
		TREB:             intField(data, "Rebounds"),
		AST:              intField(data, "Assists"),
		TO:               intField(data, "Turnovers"),
		STL:              intField(data, "Steals"),
		BLK:              intField(data, "Blocks"),
		PF:               intField(data, "Fouls"),
		PlusMinus:        intField(data, "PlusMinus"),
		Efficiency:       intField(data, "Efficiency"),
	}
}

// mapSegevstatsPlayerStats ports _map_segevstats_player_stats. Player names
// are never available in this payload shape, so PlayerName is left empty;
// WinnerAdapter.GetGameBoxscore does not fill it in either.
func mapSegevstatsPlayerStats(data map[string]any, teamExternalID string) types.RawPlayerStats {
	fg2m := parseIntAny(data["fg_2m"])
	fg2mis := parseIntAny(data["fg_2mis"])
	fg3m := parseIntAny(data["fg_3m"])
	fg3mis := parseIntAny(data["fg_3mis"])
	ftm := parseIntAny(data["ft_m"])
	ftmis := parseIntAny(data["ft_mis"])
	rebD := parseIntAny(data["reb_d"])
	rebO := parseIntAny(data["reb_o"])

	twoPA := fg2m + fg2mis
	threePA := fg3m + fg3mis
	fta := ftm + ftmis

	return types.RawPlayerStats{
		PlayerExternalID: stringField(data, "playerId"),
		PlayerName:       "",
		TeamExternalID:   teamExternalID,
		MinutesPlayed:    ParseMinutesToSeconds(stringField(data, "minutes")),
		IsStarter:        boolField(data, "starter"),
		Points:           parseIntAny(data["points"]),
		TwoPM:            fg2m,
		TwoPA:            twoPA,
		ThreePM:          fg3m,
		ThreePA:          threePA,
		FTM:              ftm,
		FTA:              fta,
		OREB:             rebO,
		DREB:             rebD,
		TREB:             rebO + rebD,
		AST:              parseIntAny(data["ast"]),
		TO:               parseIntAny(data["to"]),
		STL:              parseIntAny(data["stl"]),
		BLK:              parseIntAny(data["blk"]),
		PF:               parseIntAny(data["f"]),
		PlusMinus:        parseIntAny(data["plusMinus"]),
		Efficiency:       parseIntAny(data["rate"]),
	}
}

// MapWinnerBoxscore dispatches on the presence of a "result" envelope key to
// the segevstats JSON-RPC shape, else the legacy flat shape.
func MapWinnerBoxscore(raw json.RawMessage) (types.RawBoxScore, error) {
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return types.RawBoxScore{}, err
	}

	if result, ok := data["result"].(map[string]any); ok {
		return mapSegevstatsBoxscore(result), nil
	}
	return mapLegacyBoxscore(data), nil
}

func mapLegacyBoxscore(data map[string]any) types.RawBoxScore {
	home, _ := data["HomeTeam"].(map[string]any)
	away, _ := data["AwayTeam"].(map[string]any)

	homeID := stringField(home, "TeamId")
	awayID := stringField(away, "TeamId")

	homeScore, homeOK := numField(home, "Score")
	awayScore, awayOK := numField(away, "Score")

	status := "final"
	if !homeOK || !awayOK {
		status = "scheduled"
	}

	var hs, as *int
	if homeOK {
		v := homeScore
		hs = &v
	}
	if awayOK {
		v := awayScore
		as = &v
	}

	game := types.RawGame{
		ExternalID:   stringField(data, "GameId"),
		HomeExternal: homeID,
		AwayExternal: awayID,
		GameDate:     ParseGameDate(stringField(data, "GameDate")),
		Status:       status,
		HomeScore:    hs,
		AwayScore:    as,
	}

	return types.RawBoxScore{
		Game:        game,
		HomePlayers: mapPlayerList(home, homeID),
		AwayPlayers: mapPlayerList(away, awayID),
	}
}

func mapSegevstatsBoxscore(result map[string]any) types.RawBoxScore {
	boxscore, _ := result["boxscore"].(map[string]any)
	gameInfo, _ := boxscore["gameInfo"].(map[string]any)
	homeTeam, _ := boxscore["homeTeam"].(map[string]any)
	awayTeam, _ := boxscore["awayTeam"].(map[string]any)

	homeID := stringField(gameInfo, "homeTeamId")
	awayID := stringField(gameInfo, "awayTeamId")

	homeScore := parseIntAny(gameInfo["homeScore"])
	awayScore := parseIntAny(gameInfo["awayScore"])

	status := "live"
	if boolField(gameInfo, "gameFinished") {
		status = "final"
	}

	game := types.RawGame{
		ExternalID:   stringField(gameInfo, "gameId"),
		HomeExternal: homeID,
		AwayExternal: awayID,
		GameDate:     time.Now().UTC(),
		Status:       status,
		HomeScore:    &homeScore,
		AwayScore:    &awayScore,
	}

	return types.RawBoxScore{
		Game:        game,
		HomePlayers: mapPlayerList(homeTeam, homeID),
		AwayPlayers: mapPlayerList(awayTeam, awayID),
	}
}

func mapPlayerList(team map[string]any, teamID string) []types.RawPlayerStats {
	if team == nil {
		return nil
	}
	raw, _ := team["players"].([]any)
	if raw == nil {
		raw, _ = team["Players"].([]any)
	}
	out := make([]types.RawPlayerStats, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, MapWinnerPlayerStats(m, teamID))
	}
	return out
}

// --------------------------------------------------------------------------
// field extraction helpers — tolerate both numeric and string-encoded
// values, matching the segevstats dialect's all-strings convention.
// --------------------------------------------------------------------------

func stringField(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

func intField(m map[string]any, key string) int {
	if m == nil {
		return 0
	}
	return parseIntAny(m[key])
}

func boolField(m map[string]any, key string) bool {
	if m == nil {
		return false
	}
	v, ok := m[key]
	if !ok || v == nil {
		return false
	}
	b, _ := v.(bool)
	return b
}

func numField(m map[string]any, key string) (int, bool) {
	if m == nil {
		return 0, false
	}
	v, ok := m[key]
	if !ok || v == nil {
		return 0, false
	}
	return parseIntAny(v), true
}

func parseIntAny(v any) int {
	switch t := v.(type) {
	case nil:
		return 0
	case float64:
		return int(t)
	case int:
		return t
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			f, ferr := strconv.ParseFloat(s, 64)
			if ferr != nil {
				return 0
			}
			return int(f)
		}
		return n
	default:
		return 0
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
