package match

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/nadavbarak14/hoopsync/internal/types"
)

// TeamMatcher resolves a RawTeam against already-persisted Team rows.
type TeamMatcher struct{}

func NewTeamMatcher() *TeamMatcher { return &TeamMatcher{} }

// Resolve implements the 3-step resolution order: external-id lookup, then
// exact-normalized-name lookup within the season's participating teams,
// then create. When matched via name, the source's external id is merged
// into the existing row's external_ids map via the upsert_team statement's
// jsonb-concat ON CONFLICT clause, and matchedByName is true so the caller
// can flag the merge for human review — an exact-name match across sources
// is never treated as certain enough to merge silently.
func (m *TeamMatcher) Resolve(ctx context.Context, tx pgx.Tx, raw types.RawTeam, seasonID uuid.UUID, source string) (id uuid.UUID, matchedByName bool, err error) {
	if id, ok, err := m.lookupByExternalID(ctx, tx, source, raw.ExternalID); err != nil {
		return uuid.Nil, false, err
	} else if ok {
		return id, false, nil
	}

	if id, ok, err := m.lookupByNormalizedName(ctx, tx, seasonID, raw.Name); err != nil {
		return uuid.Nil, false, err
	} else if ok {
		if err := m.attachExternalID(ctx, tx, id, raw, source); err != nil {
			return uuid.Nil, false, err
		}
		return id, true, nil
	}

	id, err = m.create(ctx, tx, raw, source)
	return id, false, err
}

func (m *TeamMatcher) lookupByExternalID(ctx context.Context, tx pgx.Tx, source, externalID string) (uuid.UUID, bool, error) {
	if externalID == "" {
		return uuid.Nil, false, nil
	}
	var id uuid.UUID
	var name, shortName, city, country string
	var externalIDs map[string]string
	err := tx.QueryRow(ctx, "team_by_external_id", source, externalID).Scan(&id, &name, &shortName, &city, &country, &externalIDs)
	if err == pgx.ErrNoRows {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("match: team_by_external_id: %w", err)
	}
	return id, true, nil
}

func (m *TeamMatcher) lookupByNormalizedName(ctx context.Context, tx pgx.Tx, seasonID uuid.UUID, name string) (uuid.UUID, bool, error) {
	if name == "" {
		return uuid.Nil, false, nil
	}
	var id uuid.UUID
	var rowName, shortName, city, country string
	var externalIDs map[string]string
	err := tx.QueryRow(ctx, "team_by_name_season", seasonID, name).Scan(&id, &rowName, &shortName, &city, &country, &externalIDs)
	if err == pgx.ErrNoRows {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("match: team_by_name_season: %w", err)
	}
	if NormalizeName(rowName) != NormalizeName(name) {
		return uuid.Nil, false, nil
	}
	return id, true, nil
}

func (m *TeamMatcher) attachExternalID(ctx context.Context, tx pgx.Tx, id uuid.UUID, raw types.RawTeam, source string) error {
	externalIDs := map[string]string{source: raw.ExternalID}
	_, err := tx.Exec(ctx, "upsert_team", id, raw.Name, nullIfEmpty(raw.ShortName), nullIfEmpty(raw.City), nullIfEmpty(raw.Country), externalIDs)
	if err != nil {
		return fmt.Errorf("match: attach external id to team %s: %w", id, err)
	}
	return nil
}

func (m *TeamMatcher) create(ctx context.Context, tx pgx.Tx, raw types.RawTeam, source string) (uuid.UUID, error) {
	id := uuid.New()
	externalIDs := map[string]string{source: raw.ExternalID}
	var returnedID uuid.UUID
	err := tx.QueryRow(ctx, "upsert_team", id, raw.Name, nullIfEmpty(raw.ShortName), nullIfEmpty(raw.City), nullIfEmpty(raw.Country), externalIDs).Scan(&returnedID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("match: create team %q: %w", raw.Name, err)
	}
	return returnedID, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
