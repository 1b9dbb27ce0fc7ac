package mapper

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapWinnerBoxscore_SegevstatsDialect(t *testing.T) {
	player := map[string]any{
		"playerId":  "1019",
		"minutes":   "27:06",
		"starter":   true,
		"points":    "22",
		"fg_2m":     "6",
		"fg_2mis":   "2",
		"fg_3m":     "1",
		"fg_3mis":   "3",
		"ft_m":      "7",
		"ft_mis":    "1",
		"reb_d":     "2",
		"reb_o":     "3",
		"ast":       "1",
		"stl":       "2",
		"blk":       "2",
		"to":        "1",
		"f":         "3",
		"plusMinus": "3",
	}
	// 11 other players whose points sum to 57, so the full 12-player roster
	// sums to 79 (22 + 57), matching the game's reported total.
	otherPoints := []int{6, 6, 6, 6, 5, 5, 5, 5, 5, 4, 4}
	others := make([]any, 0, len(otherPoints))
	for i, pts := range otherPoints {
		others = append(others, map[string]any{"playerId": "other", "minutes": "10:00", "points": pts, "_idx": i})
	}
	homePlayers := append([]any{player}, others...)

	payload := map[string]any{
		"result": map[string]any{
			"boxscore": map[string]any{
				"gameInfo": map[string]any{
					"gameId":        "24",
					"homeTeamId":    "2",
					"awayTeamId":    "4",
					"homeScore":     "79",
					"awayScore":     "84",
					"gameFinished":  true,
				},
				"homeTeam": map[string]any{"players": homePlayers},
				"awayTeam": map[string]any{"players": []any{}},
			},
		},
	}

	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	box, err := MapWinnerBoxscore(raw)
	require.NoError(t, err)

	assert.Equal(t, "24", box.Game.ExternalID)
	assert.Equal(t, "final", box.Game.Status)
	require.NotNil(t, box.Game.HomeScore)
	require.NotNil(t, box.Game.AwayScore)
	assert.Equal(t, 79, *box.Game.HomeScore)
	assert.Equal(t, 84, *box.Game.AwayScore)

	require.Len(t, box.HomePlayers, 12)
	p := box.HomePlayers[0]
	assert.Equal(t, "1019", p.PlayerExternalID)
	assert.Equal(t, 27*60+6, p.MinutesPlayed)
	assert.True(t, p.IsStarter)
	assert.Equal(t, 6, p.TwoPM)
	assert.Equal(t, 8, p.TwoPA)
	assert.Equal(t, 1, p.ThreePM)
	assert.Equal(t, 4, p.ThreePA)
	assert.Equal(t, 7, p.FTM)
	assert.Equal(t, 8, p.FTA)
	assert.Equal(t, 3, p.OREB)
	assert.Equal(t, 2, p.DREB)
	assert.Equal(t, 5, p.TREB)
	assert.Equal(t, 1, p.AST)
	assert.Equal(t, 2, p.STL)
	assert.Equal(t, 2, p.BLK)
	assert.Equal(t, 1, p.TO)
	assert.Equal(t, 3, p.PF)
	assert.Equal(t, 3, p.PlusMinus)
	assert.Equal(t, 22, p.Points)

	sum := 0
	for _, hp := range box.HomePlayers {
		sum += hp.Points
	}
	assert.Equal(t, 79, sum)
}

func TestMapWinnerSeason_NameEqualsExternalID(t *testing.T) {
	season := MapWinnerSeason("2024-25", nil)
	assert.Equal(t, "2024-25", season.Name)
	assert.Equal(t, season.Name, season.ExternalID)
	assert.Equal(t, "2024-25", season.SourceID)
}
