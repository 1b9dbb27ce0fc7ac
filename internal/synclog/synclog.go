// Package synclog records SyncLog rows: one per season/game sync run, used
// both to report counters to callers and to enforce the "at most one
// running sync per (source, season)" concurrency rule.
package synclog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nadavbarak14/hoopsync/internal/types"
)

type Log struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Log {
	return &Log{pool: pool}
}

// AlreadyRunning reports whether a sync is already RUNNING for this
// (source, entityType, seasonID) triple. The Manager refuses to start a
// second one when this returns true.
func (l *Log) AlreadyRunning(ctx context.Context, source, entityType string, seasonID *uuid.UUID) (bool, error) {
	var id uuid.UUID
	err := l.pool.QueryRow(ctx, "synclog_running_exists", source, entityType, seasonID).Scan(&id)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("synclog: synclog_running_exists: %w", err)
	}
	return true, nil
}

// Start opens a RUNNING SyncLog row and returns its id.
func (l *Log) Start(ctx context.Context, source, entityType string, seasonID, gameID *uuid.UUID, startedAt time.Time) (uuid.UUID, error) {
	id := uuid.New()
	var returnedID uuid.UUID
	err := l.pool.QueryRow(ctx, "synclog_start", id, source, entityType, seasonID, gameID, startedAt).Scan(&returnedID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("synclog: synclog_start: %w", err)
	}
	return returnedID, nil
}

// Counters accumulates per-game outcomes over the course of a sync run.
type Counters struct {
	Processed int
	Created   int
	Updated   int
	Skipped   int
}

// Complete closes a SyncLog row as COMPLETED with the final counters.
func (l *Log) Complete(ctx context.Context, id uuid.UUID, completedAt time.Time, c Counters) error {
	_, err := l.pool.Exec(ctx, "synclog_complete", id, completedAt, c.Processed, c.Created, c.Updated, c.Skipped)
	if err != nil {
		return fmt.Errorf("synclog: synclog_complete %s: %w", id, err)
	}
	return nil
}

// Fail closes a SyncLog row as FAILED with an error message/stack and
// whatever counters had accumulated before the fatal error.
func (l *Log) Fail(ctx context.Context, id uuid.UUID, completedAt time.Time, message string, details any, c Counters) error {
	raw, err := json.Marshal(details)
	if err != nil {
		raw = []byte("{}")
	}
	_, err = l.pool.Exec(ctx, "synclog_fail", id, completedAt, message, raw, c.Processed, c.Created, c.Updated, c.Skipped)
	if err != nil {
		return fmt.Errorf("synclog: synclog_fail %s: %w", id, err)
	}
	return nil
}

// FlagForReview records a completed-but-needs-attention event (e.g. an
// ambiguous team auto-match) as its own terminal SyncLog row, outside any
// season/game sync's own log.
func (l *Log) FlagForReview(ctx context.Context, source, reason string, details any) error {
	raw, err := json.Marshal(details)
	if err != nil {
		raw = []byte("{}")
	}
	now := time.Now().UTC()
	_, err = l.pool.Exec(ctx, "synclog_review_flag", uuid.New(), source, now, raw)
	if err != nil {
		return fmt.Errorf("synclog: synclog_review_flag %s (%s): %w", source, reason, err)
	}
	return nil
}

// Result mirrors the persisted SyncLog row for the terminal {complete:
// sync_log} progress event.
func Result(id uuid.UUID, source, entityType string, status types.SyncLogStatus, startedAt time.Time, completedAt *time.Time, c Counters, errMessage string) types.SyncLog {
	return types.SyncLog{
		ID:               id,
		Source:           source,
		EntityType:       entityType,
		Status:           status,
		StartedAt:        startedAt,
		CompletedAt:      completedAt,
		RecordsProcessed: c.Processed,
		RecordsCreated:   c.Created,
		RecordsUpdated:   c.Updated,
		RecordsSkipped:   c.Skipped,
		ErrorMessage:     errMessage,
	}
}
