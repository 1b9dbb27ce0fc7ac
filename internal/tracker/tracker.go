// Package tracker is the sole authority for "this game has been fully
// processed": the Manager consults it to skip already-synced games on
// re-runs. No sync entry point bypasses it.
package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Tracker records which (source, external game id) pairs have already been
// synced, independent of any transaction a caller is using to write the
// game's own rows — marking a game synced is a separate, final commit after
// its per-game transaction succeeds.
type Tracker struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Tracker {
	return &Tracker{pool: pool}
}

// GetUnsyncedGames returns the subset of externalIDs not yet marked synced
// for source.
func (t *Tracker) GetUnsyncedGames(ctx context.Context, source string, externalIDs []string) ([]string, error) {
	if len(externalIDs) == 0 {
		return nil, nil
	}
	rows, err := t.pool.Query(ctx, "tracker_get_unsynced", source, externalIDs)
	if err != nil {
		return nil, fmt.Errorf("tracker: get_unsynced_games: %w", err)
	}
	defer rows.Close()

	var unsynced []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("tracker: scan unsynced id: %w", err)
		}
		unsynced = append(unsynced, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("tracker: unsynced rows: %w", err)
	}
	return unsynced, nil
}

// MarkGameSynced records source/externalID as fully processed. Safe to call
// more than once for the same pair (insert-or-ignore).
func (t *Tracker) MarkGameSynced(ctx context.Context, source, externalID string, gameID uuid.UUID, syncedAt time.Time) error {
	_, err := t.pool.Exec(ctx, "tracker_mark_synced", source, externalID, gameID, syncedAt)
	if err != nil {
		return fmt.Errorf("tracker: mark_game_synced %s/%s: %w", source, externalID, err)
	}
	return nil
}

// GetGameByExternalID returns the canonical game id already synced for
// source/externalID, or uuid.Nil if none exists.
func (t *Tracker) GetGameByExternalID(ctx context.Context, source, externalID string) (uuid.UUID, error) {
	var id uuid.UUID
	err := t.pool.QueryRow(ctx, "tracker_game_by_ext", source, externalID).Scan(&id)
	if err == pgx.ErrNoRows {
		return uuid.Nil, nil
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("tracker: tracker_game_by_ext: %w", err)
	}
	return id, nil
}
