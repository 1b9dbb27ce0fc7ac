package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(i int) *int { return &i }

func TestDeriveGameStatus(t *testing.T) {
	assert.Equal(t, "final", DeriveGameStatus(intPtr(79), intPtr(84)))
	assert.Equal(t, "scheduled", DeriveGameStatus(intPtr(0), intPtr(0)))
	assert.Equal(t, "scheduled", DeriveGameStatus(nil, intPtr(10)))
	assert.Equal(t, "final", DeriveGameStatus(intPtr(10), intPtr(0)))
}

func TestExtractWinnerTeamsFromGames_BilingualSchedule(t *testing.T) {
	games := []map[string]any{
		{
			"team1": "1109", "team_name_1": `מכבי ת"א`, "team_name_eng_1": "Maccabi Tel-Aviv",
			"team2": "1112", "team_name_2": "Hapoel Jerusalem", "team_name_eng_2": "Hapoel Jerusalem",
		},
		{
			"team1": "1109", "team_name_1": `מכבי ת"א`, "team_name_eng_1": "Maccabi Tel-Aviv",
			"team2": "1112", "team_name_2": "Hapoel Jerusalem", "team_name_eng_2": "Hapoel Jerusalem",
		},
		{
			"team1": "1112", "team_name_1": "Hapoel Jerusalem", "team_name_eng_1": "",
			"team2": "1112", "team_name_2": "Hapoel Jerusalem", "team_name_eng_2": "Hapoel Jerusalem",
		},
	}

	teams := ExtractWinnerTeamsFromGames(games)

	assert.Len(t, teams, 2)
	byID := map[string]string{}
	for _, tm := range teams {
		byID[tm.ExternalID] = tm.Name
		for _, r := range []rune(tm.Name) {
			assert.False(t, r >= 0x0590 && r <= 0x05FF, "name %q must not contain Hebrew codepoints", tm.Name)
		}
	}
	assert.Equal(t, "Maccabi Tel-Aviv", byID["1109"])
	assert.Equal(t, "Hapoel Jerusalem", byID["1112"])
}
