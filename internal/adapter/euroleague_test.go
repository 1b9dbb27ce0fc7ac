package adapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEuroleagueAdapter_GetSeasons_NameEqualsExternalID(t *testing.T) {
	a := NewEuroleagueAdapter(nil, 2024, "E")

	seasons, err := a.GetSeasons(context.Background())
	require.NoError(t, err)
	require.Len(t, seasons, 1)

	s := seasons[0]
	assert.Equal(t, "2024-25", s.Name)
	assert.Equal(t, s.Name, s.ExternalID)
	assert.Equal(t, "E2024", s.SourceID)
}

func TestEuroleagueAdapter_GetAvailableSeasons_ReturnsNormalizedName(t *testing.T) {
	a := NewEuroleagueAdapter(nil, 2024, "E")

	seasons, err := a.GetAvailableSeasons(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-25"}, seasons)
}
