package playerinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadavbarak14/hoopsync/internal/types"
)

func TestMerge_HigherPrioritySourceWinsHeightTies(t *testing.T) {
	winnerHeight := 206
	euroHeight := 205
	sources := []SourceInfo{
		{Source: "winner", Info: types.RawPlayerInfo{
			ExternalID: "w123", FirstName: "LeBron", LastName: "James", HeightCM: &winnerHeight,
		}},
		{Source: "euroleague", Info: types.RawPlayerInfo{
			ExternalID: "e456", FirstName: "Lebron", LastName: "James", HeightCM: &euroHeight, Position: "SF",
		}},
	}

	merged, err := Merge(sources)
	require.NoError(t, err)

	assert.Equal(t, "LeBron", merged.FirstName)
	assert.Equal(t, "James", merged.LastName)
	require.NotNil(t, merged.HeightCM)
	assert.Equal(t, 206, *merged.HeightCM)
	assert.Equal(t, "winner", merged.Sources["height_cm"])
	assert.Equal(t, "SF", merged.Position)
	assert.Equal(t, "euroleague", merged.Sources["position"])
}

func TestMerge_FallsBackToLowerPrioritySourceWhenFirstIsEmpty(t *testing.T) {
	sources := []SourceInfo{
		{Source: "winner", Info: types.RawPlayerInfo{ExternalID: "w1", FirstName: "", LastName: ""}},
		{Source: "euroleague", Info: types.RawPlayerInfo{ExternalID: "e1", FirstName: "Nikola", LastName: "Jokic"}},
	}

	merged, err := Merge(sources)
	require.NoError(t, err)

	assert.Equal(t, "Nikola", merged.FirstName)
	assert.Equal(t, "euroleague", merged.Sources["first_name"])
}

func TestMerge_EmptySourcesListErrors(t *testing.T) {
	_, err := Merge(nil)
	assert.Error(t, err)
}
