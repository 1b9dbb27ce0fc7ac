package syncmanager

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nadavbarak14/hoopsync/internal/types"
)

func TestStartEvent(t *testing.T) {
	ev := startEvent("games", 42, 7)
	assert.Equal(t, "start", ev.Kind)
	assert.Equal(t, "games", ev.Phase)
	assert.Equal(t, 42, ev.Total)
	assert.Equal(t, 7, ev.Skipped)
}

func TestProgressEvent(t *testing.T) {
	ev := progressEvent(3, 42, "ext-1")
	assert.Equal(t, "progress", ev.Kind)
	assert.Equal(t, 3, ev.Current)
	assert.Equal(t, 42, ev.Total)
	assert.Equal(t, "ext-1", ev.GameID)
	assert.Equal(t, "syncing", ev.Status)
}

func TestSyncedEvent(t *testing.T) {
	ev := syncedEvent("ext-2")
	assert.Equal(t, "synced", ev.Kind)
	assert.Equal(t, "ext-2", ev.GameID)
}

func TestErrorEvent(t *testing.T) {
	ev := errorEvent("ext-3", "boom")
	assert.Equal(t, "error", ev.Kind)
	assert.Equal(t, "ext-3", ev.GameID)
	assert.Equal(t, "boom", ev.Error)
}

func TestCompleteEvent(t *testing.T) {
	log := types.SyncLog{Source: "winner", EntityType: "season"}
	ev := completeEvent(log)
	assert.Equal(t, "complete", ev.Kind)
	assert.Equal(t, log, ev.SyncLog)
}
