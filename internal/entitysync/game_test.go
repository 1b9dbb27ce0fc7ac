package entitysync

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestResolvePBPTeam_MatchesHomeOrAway(t *testing.T) {
	s := &GameSyncer{}
	home := uuid.New()
	away := uuid.New()
	ids := map[uuid.UUID]string{home: "TLV", away: "MTA"}

	assert.Equal(t, &home, s.resolvePBPTeam("TLV", home, away, ids))
	assert.Equal(t, &away, s.resolvePBPTeam("MTA", home, away, ids))
}

func TestResolvePBPTeam_EmptyExternalIDReturnsNil(t *testing.T) {
	s := &GameSyncer{}
	home := uuid.New()
	away := uuid.New()
	ids := map[uuid.UUID]string{home: "TLV", away: "MTA"}

	assert.Nil(t, s.resolvePBPTeam("", home, away, ids))
}

func TestResolvePBPTeam_UnknownExternalIDReturnsNil(t *testing.T) {
	s := &GameSyncer{}
	home := uuid.New()
	away := uuid.New()
	ids := map[uuid.UUID]string{home: "TLV", away: "MTA"}

	assert.Nil(t, s.resolvePBPTeam("XYZ", home, away, ids))
}
