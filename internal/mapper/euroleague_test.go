package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEuroleagueSeasonExternalID(t *testing.T) {
	assert.Equal(t, "E2024", EuroleagueSeasonExternalID(2024, "E"))
	assert.Equal(t, "U2024", EuroleagueSeasonExternalID(2024, "U"))
}

func TestEuroleagueGameExternalID(t *testing.T) {
	assert.Equal(t, "E2024_1", EuroleagueGameExternalID(2024, "E", 1))
}

func TestMapEuroleagueGame_FinalWhenBothScoresPresent(t *testing.T) {
	data := map[string]any{
		"gamecode":  float64(1),
		"hometeam":  "BER",
		"awayteam":  "PAN",
		"date":      "Oct 03, 2024",
		"homescore": float64(77),
		"awayscore": float64(87),
	}
	game := MapEuroleagueGame(data, 2024, "E")
	assert.Equal(t, "E2024_1", game.ExternalID)
	assert.Equal(t, "final", game.Status)
	require.NotNil(t, game.HomeScore)
	require.NotNil(t, game.AwayScore)
	assert.Equal(t, 77, *game.HomeScore)
	assert.Equal(t, 87, *game.AwayScore)
	assert.Equal(t, 10, int(game.GameDate.Month()))
}

func TestMapEuroleagueGame_ScheduledWhenScoresMissing(t *testing.T) {
	data := map[string]any{"gamecode": float64(2), "hometeam": "BER", "awayteam": "PAN"}
	game := MapEuroleagueGame(data, 2024, "E")
	assert.Equal(t, "scheduled", game.Status)
	assert.Nil(t, game.HomeScore)
}

func TestMapEuroleaguePlayerStats_DerivesFieldGoalSplits(t *testing.T) {
	data := map[string]any{
		"Player_ID":            "P007025",
		"Player":               "MATTISSECK, JONAS",
		"Team":                 "BER",
		"Minutes":              "24:35",
		"Points":               float64(6),
		"IsStarter":            float64(1),
		"FieldGoalsMade2":      float64(1),
		"FieldGoalsAttempted2": float64(3),
		"FieldGoalsMade3":      float64(1),
		"FieldGoalsAttempted3": float64(2),
	}
	stats := MapEuroleaguePlayerStats(data)
	assert.Equal(t, "P007025", stats.PlayerExternalID)
	assert.Equal(t, 6, stats.Points)
	assert.True(t, stats.IsStarter)
	assert.Equal(t, 1, stats.TwoPM)
	assert.Equal(t, 3, stats.TwoPA)
	assert.Equal(t, 24*60+35, stats.MinutesPlayed)
}

func TestMapEuroleaguePBPFromLive_OrdersAcrossQuarters(t *testing.T) {
	live := map[string]any{
		"FirstQuarter": []any{
			map[string]any{"PLAYTYPE": "2FGM", "PERIOD": float64(1), "MARKERTIME": "09:45", "TEAM": "BER"},
		},
		"SecondQuarter": []any{
			map[string]any{"PLAYTYPE": "AS", "PERIOD": float64(2), "MARKERTIME": "05:00", "TEAM": "BER"},
		},
	}
	events := MapEuroleaguePBPFromLive(live)
	require.Len(t, events, 2)
	assert.Equal(t, 1, events[0].EventNumber)
	assert.Equal(t, "shot", events[0].EventType)
	assert.Equal(t, 2, events[1].Period)
	assert.Equal(t, "assist", events[1].EventType)
}

func TestMapEuroleaguePlayerInfo_SplitsLastFirstName(t *testing.T) {
	info := MapEuroleaguePlayerInfo("011987", "EDWARDS, CARSEN", "1.8", "12 March, 1998", "United States of America", "3", "Guard")
	assert.Equal(t, "CARSEN", info.FirstName)
	assert.Equal(t, "EDWARDS", info.LastName)
	require.NotNil(t, info.HeightCM)
	assert.Equal(t, 180, *info.HeightCM)
	require.NotNil(t, info.BirthDate)
	assert.Equal(t, 1998, info.BirthDate.Year())
}
