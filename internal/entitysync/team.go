// Package entitysync upserts mapper output (Raw* DTOs) into canonical rows,
// generalizing internal/seed/upsert.go's ON CONFLICT ... DO UPDATE ...
// COALESCE pattern to run against a pgx.Tx and to resolve identity through
// internal/match instead of trusting a caller-supplied canonical id.
package entitysync

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/nadavbarak14/hoopsync/internal/match"
	"github.com/nadavbarak14/hoopsync/internal/synclog"
	"github.com/nadavbarak14/hoopsync/internal/types"
)

// TeamSyncer resolves and upserts teams, and records their season
// participation via ensure_team_season.
type TeamSyncer struct {
	matcher *match.TeamMatcher
	review  *synclog.Log
}

func NewTeamSyncer(review *synclog.Log) *TeamSyncer {
	return &TeamSyncer{matcher: match.NewTeamMatcher(), review: review}
}

// SyncTeamSeason resolves raw against persisted teams, then ensures a
// team_seasons row exists linking it to seasonID. A name-only cross-source
// match is flagged for human review rather than trusted as a certain merge.
func (s *TeamSyncer) SyncTeamSeason(ctx context.Context, tx pgx.Tx, raw types.RawTeam, seasonID uuid.UUID, source string) (uuid.UUID, error) {
	teamID, matchedByName, err := s.matcher.Resolve(ctx, tx, raw, seasonID, source)
	if err != nil {
		return uuid.Nil, fmt.Errorf("entitysync: resolve team %q: %w", raw.Name, err)
	}
	if matchedByName {
		if err := s.review.FlagForReview(ctx, source, "team_match_review", map[string]any{
			"candidate_team_id": teamID,
			"raw_external_id":   raw.ExternalID,
			"raw_name":          raw.Name,
		}); err != nil {
			return uuid.Nil, fmt.Errorf("entitysync: flag team match for review %q: %w", raw.Name, err)
		}
	}
	if _, err := tx.Exec(ctx, "ensure_team_season", teamID, seasonID); err != nil {
		return uuid.Nil, fmt.Errorf("entitysync: ensure_team_season for %s: %w", teamID, err)
	}
	return teamID, nil
}

// SyncTeams resolves and links every team in teams to seasonID, returning a
// map from the raw external id to the resolved canonical team id.
func (s *TeamSyncer) SyncTeams(ctx context.Context, tx pgx.Tx, teams []types.RawTeam, seasonID uuid.UUID, source string) (map[string]uuid.UUID, error) {
	resolved := make(map[string]uuid.UUID, len(teams))
	for _, raw := range teams {
		id, err := s.SyncTeamSeason(ctx, tx, raw, seasonID, source)
		if err != nil {
			return nil, err
		}
		resolved[raw.ExternalID] = id
	}
	return resolved, nil
}
