package synclog

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/nadavbarak14/hoopsync/internal/types"
)

func TestResult_CompletedCarriesCounters(t *testing.T) {
	id := uuid.New()
	startedAt := time.Now().UTC()
	completedAt := startedAt.Add(time.Minute)
	c := Counters{Processed: 10, Created: 4, Updated: 6, Skipped: 0}

	got := Result(id, "winner", "season", types.SyncLogCompleted, startedAt, &completedAt, c, "")

	assert.Equal(t, id, got.ID)
	assert.Equal(t, "winner", got.Source)
	assert.Equal(t, "season", got.EntityType)
	assert.Equal(t, types.SyncLogCompleted, got.Status)
	assert.Equal(t, &completedAt, got.CompletedAt)
	assert.Equal(t, 10, got.RecordsProcessed)
	assert.Equal(t, 4, got.RecordsCreated)
	assert.Equal(t, 6, got.RecordsUpdated)
	assert.Empty(t, got.ErrorMessage)
}

func TestResult_FailedCarriesErrorMessageAndNilCompletedAt(t *testing.T) {
	id := uuid.New()
	startedAt := time.Now().UTC()
	c := Counters{Processed: 2}

	got := Result(id, "euroleague", "game", types.SyncLogFailed, startedAt, nil, c, "boom")

	assert.Equal(t, types.SyncLogFailed, got.Status)
	assert.Nil(t, got.CompletedAt)
	assert.Equal(t, "boom", got.ErrorMessage)
	assert.Equal(t, 2, got.RecordsProcessed)
}
