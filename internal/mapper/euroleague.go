// Euroleague-dialect mappers: XML feed teams/players/schedules plus a
// parallel live-JSON boxscore/PBP surface. Gamecodes compose into external
// ids as "{competition}{season}_{gamecode}", e.g. "E2024_1".
package mapper

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nadavbarak14/hoopsync/internal/types"
)

// euroleaguePlayTypeMap maps PLAYTYPE codes to canonical event types.
var euroleaguePlayTypeMap = map[string]string{
	"2FGM":  "shot",
	"2FGA":  "shot",
	"3FGM":  "shot",
	"3FGA":  "shot",
	"FTM":   "free_throw",
	"FTA":   "free_throw",
	"O":     "rebound",
	"D":     "rebound",
	"AS":    "assist",
	"TO":    "turnover",
	"ST":    "steal",
	"BLK":   "block",
	"FV":    "block",
	"AG":    "block_against",
	"CM":    "foul",
	"RV":    "foul_received",
	"BP":    "begin_period",
	"EP":    "end_period",
	"TPOFF": "tip_off",
	"OUT":   "substitution_out",
	"IN":    "substitution_in",
}

// EuroleagueSeasonExternalID builds the "{competition}{season}" composite id
// (spec glossary: "Gamecode / season code").
func EuroleagueSeasonExternalID(season int, competition string) string {
	return fmt.Sprintf("%s%d", competition, season)
}

// EuroleagueGameExternalID builds "{competition}{season}_{gamecode}".
func EuroleagueGameExternalID(season int, competition string, gamecode int) string {
	return fmt.Sprintf("%s%d_%d", competition, season, gamecode)
}

// MapEuroleagueTeam maps the code, name and TV code of a <team> XML element
// to the external id, name and short name of a RawTeam. short_name falls
// back to code when tv_code is absent.
func MapEuroleagueTeam(code, name, tvCode string) (externalID, teamName, shortName string) {
	shortName = tvCode
	if shortName == "" {
		shortName = code
	}
	return code, name, shortName
}

// ParseEuroleagueHeightToCM parses a height string like "2.06" (meters) to
// whole centimeters, or returns nil for an empty/malformed value.
func ParseEuroleagueHeightToCM(raw string) *int {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f <= 0 {
		return nil
	}
	cm := MetersToCM(f)
	return &cm
}

// euroleagueDateLayouts are tried in order when parsing a season_games
// "date" field: "Oct 03, 2024", ISO-8601, then "03/10/2024".
var euroleagueDateLayouts = []string{"Jan 02, 2006", time.RFC3339, "02/01/2006"}

func parseEuroleagueDate(raw string) time.Time {
	if raw == "" {
		return time.Now()
	}
	for _, layout := range euroleagueDateLayouts {
		if t, err := time.Parse(layout, strings.ReplaceAll(raw, "Z", "+00:00")); err == nil {
			return t
		}
	}
	return time.Now()
}

// MapEuroleagueGame maps one season_games entry to RawGame. Scores are set
// only when both are present, and status comes from DeriveGameStatus, so a
// 0-0 entry stays "scheduled".
func MapEuroleagueGame(data map[string]any, season int, competition string) types.RawGame {
	gamecode := intAny(firstNonNil(data["gamecode"], data["Gamecode"], data["gamenumber"]))
	dateStr := stringAny(firstNonNil(data["date"], data["Date"]))
	homeTeam := stringAny(firstNonNil(data["hometeam"], data["HomeTeam"]))
	awayTeam := stringAny(firstNonNil(data["awayteam"], data["AwayTeam"]))

	homeScoreRaw := firstNonNil(data["homescore"], data["homescorets"])
	awayScoreRaw := firstNonNil(data["awayscore"], data["awayscorets"])

	var homeScore, awayScore *int
	if homeScoreRaw != nil && awayScoreRaw != nil {
		v := intAny(homeScoreRaw)
		homeScore = &v
		v2 := intAny(awayScoreRaw)
		awayScore = &v2
	}
	status := DeriveGameStatus(homeScore, awayScore)

	return types.RawGame{
		ExternalID:   EuroleagueGameExternalID(season, competition, gamecode),
		HomeExternal: homeTeam,
		AwayExternal: awayTeam,
		GameDate:     parseEuroleagueDate(dateStr),
		Status:       status,
		HomeScore:    homeScore,
		AwayScore:    awayScore,
	}
}

func firstNonNil(vs ...any) any {
	for _, v := range vs {
		if v != nil {
			return v
		}
	}
	return nil
}

// MapEuroleaguePlayerStats maps one PlayersStats entry from the live
// boxscore feed to RawPlayerStats.
func MapEuroleaguePlayerStats(data map[string]any) types.RawPlayerStats {
	fg2m := intAny(data["FieldGoalsMade2"])
	fg2a := intAny(data["FieldGoalsAttempted2"])
	fg3m := intAny(data["FieldGoalsMade3"])
	fg3a := intAny(data["FieldGoalsAttempted3"])

	return types.RawPlayerStats{
		PlayerExternalID: stringAny(data["Player_ID"]),
		PlayerName:       stringAny(data["Player"]),
		TeamExternalID:   stringAny(data["Team"]),
		MinutesPlayed:    ParseMinutesToSeconds(stringAny(data["Minutes"])),
		IsStarter:        intAny(data["IsStarter"]) != 0,
		Points:           intAny(data["Points"]),
		TwoPM:            fg2m,
		TwoPA:            fg2a,
		ThreePM:          fg3m,
		ThreePA:          fg3a,
		FTM:              intAny(data["FreeThrowsMade"]),
		FTA:              intAny(data["FreeThrowsAttempted"]),
		OREB:             intAny(data["OffensiveRebounds"]),
		DREB:             intAny(data["DefensiveRebounds"]),
		TREB:             intAny(data["TotalRebounds"]),
		AST:              intAny(data["Assistances"]),
		STL:              intAny(data["Steals"]),
		BLK:              intAny(data["BlocksFavour"]),
		TO:               intAny(data["Turnovers"]),
		PF:               intAny(data["FoulsCommited"]),
		PlusMinus:        intAny(data["Plusminus"]),
		Efficiency:       intAny(data["Valuation"]),
	}
}

// MapEuroleagueBoxscoreFromLive maps the live boxscore feed's top-level
// {Stats: [homeTeam, awayTeam], ByQuarter: [...]} shape to RawBoxScore. The
// feed carries no game date; callers fill it in from the schedule feed
// separately.
func MapEuroleagueBoxscoreFromLive(liveData map[string]any, season int, competition string, gamecode int) (types.RawBoxScore, error) {
	statsList, _ := liveData["Stats"].([]any)
	if len(statsList) < 2 {
		return types.RawBoxScore{}, fmt.Errorf("euroleague live boxscore: expected 2 team entries, got %d", len(statsList))
	}

	homeTeamData, _ := statsList[0].(map[string]any)
	awayTeamData, _ := statsList[1].(map[string]any)

	homePlayersData := playerStatsList(homeTeamData["PlayersStats"])
	awayPlayersData := playerStatsList(awayTeamData["PlayersStats"])

	homeTeamCode, awayTeamCode := "", ""
	if len(homePlayersData) > 0 {
		homeTeamCode = stringAny(homePlayersData[0]["Team"])
	}
	if len(awayPlayersData) > 0 {
		awayTeamCode = stringAny(awayPlayersData[0]["Team"])
	}

	var homeScore, awayScore *int
	if byQuarter, ok := liveData["ByQuarter"].([]any); ok && len(byQuarter) >= 2 {
		if totals, ok := byQuarter[0].(map[string]any); ok {
			v := sumQuarters(totals)
			homeScore = &v
		}
		if totals, ok := byQuarter[1].(map[string]any); ok {
			v := sumQuarters(totals)
			awayScore = &v
		}
	}

	status := "live"
	if live, ok := liveData["Live"].(bool); !ok || !live {
		status = "final"
	}

	game := types.RawGame{
		ExternalID:   EuroleagueGameExternalID(season, competition, gamecode),
		HomeExternal: homeTeamCode,
		AwayExternal: awayTeamCode,
		Status:       status,
		HomeScore:    homeScore,
		AwayScore:    awayScore,
	}

	homePlayers := make([]types.RawPlayerStats, 0, len(homePlayersData))
	for _, p := range homePlayersData {
		homePlayers = append(homePlayers, MapEuroleaguePlayerStats(p))
	}
	awayPlayers := make([]types.RawPlayerStats, 0, len(awayPlayersData))
	for _, p := range awayPlayersData {
		awayPlayers = append(awayPlayers, MapEuroleaguePlayerStats(p))
	}

	return types.RawBoxScore{Game: game, HomePlayers: homePlayers, AwayPlayers: awayPlayers}, nil
}

func sumQuarters(totals map[string]any) int {
	sum := 0
	for i := 1; i <= 4; i++ {
		sum += intAny(totals[fmt.Sprintf("Quarter%d", i)])
	}
	return sum
}

func playerStatsList(v any) []map[string]any {
	raw, _ := v.([]any)
	out := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// quarterKeys lists the live PBP feed's period containers in order, the
// fifth covering all overtime periods.
var quarterKeys = []string{"FirstQuarter", "SecondQuarter", "ThirdQuarter", "FourthQuarter", "ExtraTime"}

// MapEuroleaguePBPFromLive maps the live PBP feed's per-quarter event lists
// into a single ordered RawPBPEvent slice, then runs link inference over it.
func MapEuroleaguePBPFromLive(livePBP map[string]any) []types.RawPBPEvent {
	var events []types.RawPBPEvent
	eventNum := 1
	for periodIdx, key := range quarterKeys {
		quarterEvents, _ := livePBP[key].([]any)
		period := periodIdx + 1
		for _, raw := range quarterEvents {
			data, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			events = append(events, mapEuroleaguePBPEvent(data, eventNum, period))
			eventNum++
		}
	}
	return InferPBPLinks(events)
}

func mapEuroleaguePBPEvent(data map[string]any, eventNum, period int) types.RawPBPEvent {
	playType := stringAny(data["PLAYTYPE"])
	eventType, ok := euroleaguePlayTypeMap[playType]
	if !ok {
		eventType = strings.ToLower(playType)
	}

	var success *bool
	switch playType {
	case "2FGM", "3FGM", "FTM":
		v := true
		success = &v
	case "2FGA", "3FGA", "FTA":
		v := false
		success = &v
	}

	var coordX, coordY *float64
	if v, ok := floatAny(data["COORD_X"]); ok {
		coordX = &v
	}
	if v, ok := floatAny(data["COORD_Y"]); ok {
		coordY = &v
	}

	return types.RawPBPEvent{
		EventNumber:      eventNum,
		Period:           period,
		Clock:            stringAny(data["MARKERTIME"]),
		EventType:        eventType,
		TeamExternalID:   stringAny(data["TEAM"]),
		PlayerExternalID: stringAny(data["PLAYER_ID"]),
		Success:          success,
		CoordX:           coordX,
		CoordY:           coordY,
	}
}

// MapEuroleaguePlayerInfo maps a parsed player-profile XML/JSON record to
// RawPlayerInfo. Name is "LAST, FIRST" per the feed's convention.
func MapEuroleaguePlayerInfo(externalID, name, height, birthdate, country, dorsal, position string) types.RawPlayerInfo {
	first, last := splitEuroleagueName(name)
	return types.RawPlayerInfo{
		ExternalID:  externalID,
		FirstName:   first,
		LastName:    last,
		BirthDate:   ParseBirthDate(birthdate),
		HeightCM:    ParseEuroleagueHeightToCM(height),
		Position:    position,
		Nationality: country,
	}
}

func splitEuroleagueName(name string) (first, last string) {
	parts := strings.SplitN(name, ",", 2)
	if len(parts) != 2 {
		return strings.TrimSpace(name), ""
	}
	return strings.TrimSpace(parts[1]), strings.TrimSpace(parts[0])
}

func stringAny(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

func intAny(v any) int {
	switch t := v.(type) {
	case int:
		return t
	case float64:
		return int(t)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

func floatAny(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
