package match

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/nadavbarak14/hoopsync/internal/types"
)

// PlayerContext carries the optional resolution hints a caller may supply
// alongside a RawPlayerInfo/box-score player reference: the roster the
// player belongs to (for step 2) and a birth date (for step 3).
type PlayerContext struct {
	FirstName string
	LastName  string
	TeamID    uuid.UUID
	SeasonID  uuid.UUID
	BirthDate *time.Time
}

// PlayerDeduplicator resolves a player reference against already-persisted
// Player rows, in the 4-step order spec.md §4.6 specifies.
type PlayerDeduplicator struct{}

func NewPlayerDeduplicator() *PlayerDeduplicator { return &PlayerDeduplicator{} }

// Resolve returns the matched or newly-created player id. name is the
// provider's raw player name (used for roster/birth-date matching and as
// the fallback first/last name split on create when PlayerContext doesn't
// supply one).
func (d *PlayerDeduplicator) Resolve(ctx context.Context, tx pgx.Tx, externalID, name string, pc PlayerContext, source string) (uuid.UUID, error) {
	if id, ok, err := d.lookupByExternalID(ctx, tx, source, externalID); err != nil {
		return uuid.Nil, err
	} else if ok {
		return id, nil
	}

	if pc.TeamID != uuid.Nil && pc.SeasonID != uuid.Nil && name != "" {
		if id, ok, err := d.lookupByRosterName(ctx, tx, pc.TeamID, pc.SeasonID, name); err != nil {
			return uuid.Nil, err
		} else if ok {
			if err := d.attachExternalID(ctx, tx, id, externalID, source); err != nil {
				return uuid.Nil, err
			}
			return id, nil
		}
	}

	if name != "" && pc.BirthDate != nil {
		if id, ok, err := d.lookupByNameAndBirthDate(ctx, tx, name, *pc.BirthDate); err != nil {
			return uuid.Nil, err
		} else if ok {
			if err := d.attachExternalID(ctx, tx, id, externalID, source); err != nil {
				return uuid.Nil, err
			}
			return id, nil
		}
	}

	return d.create(ctx, tx, externalID, name, pc, source)
}

func (d *PlayerDeduplicator) lookupByExternalID(ctx context.Context, tx pgx.Tx, source, externalID string) (uuid.UUID, bool, error) {
	if externalID == "" {
		return uuid.Nil, false, nil
	}
	var id uuid.UUID
	var firstName, lastName string
	var birthDate *time.Time
	var heightCM *int
	var position, nationality string
	var externalIDs map[string]string
	err := tx.QueryRow(ctx, "player_by_external_id", source, externalID).
		Scan(&id, &firstName, &lastName, &birthDate, &heightCM, &position, &nationality, &externalIDs)
	if err == pgx.ErrNoRows {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("match: player_by_external_id: %w", err)
	}
	return id, true, nil
}

func (d *PlayerDeduplicator) lookupByRosterName(ctx context.Context, tx pgx.Tx, teamID, seasonID uuid.UUID, name string) (uuid.UUID, bool, error) {
	var id uuid.UUID
	var firstName, lastName string
	var externalIDs map[string]string
	err := tx.QueryRow(ctx, "player_by_roster_name", teamID, seasonID, name).Scan(&id, &firstName, &lastName, &externalIDs)
	if err == pgx.ErrNoRows {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("match: player_by_roster_name: %w", err)
	}
	if NormalizeName(firstName+" "+lastName) != NormalizeName(name) {
		return uuid.Nil, false, nil
	}
	return id, true, nil
}

func (d *PlayerDeduplicator) lookupByNameAndBirthDate(ctx context.Context, tx pgx.Tx, name string, birthDate time.Time) (uuid.UUID, bool, error) {
	var id uuid.UUID
	var externalIDs map[string]string
	err := tx.QueryRow(ctx, "player_by_name_birth", name, birthDate).Scan(&id, &externalIDs)
	if err == pgx.ErrNoRows {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("match: player_by_name_birth: %w", err)
	}
	return id, true, nil
}

func (d *PlayerDeduplicator) attachExternalID(ctx context.Context, tx pgx.Tx, id uuid.UUID, externalID, source string) error {
	externalIDs := map[string]string{source: externalID}
	_, err := tx.Exec(ctx, "upsert_player", id, nil, nil, nil, nil, nil, nil, externalIDs)
	if err != nil {
		return fmt.Errorf("match: attach external id to player %s: %w", id, err)
	}
	return nil
}

func (d *PlayerDeduplicator) create(ctx context.Context, tx pgx.Tx, externalID, name string, pc PlayerContext, source string) (uuid.UUID, error) {
	id := uuid.New()
	firstName, lastName := pc.FirstName, pc.LastName
	if firstName == "" && lastName == "" {
		firstName, lastName = splitFallbackName(name)
	}
	externalIDs := map[string]string{source: externalID}
	var returnedID uuid.UUID
	err := tx.QueryRow(ctx, "upsert_player", id, firstName, lastName, pc.BirthDate, nil, nil, nil, externalIDs).Scan(&returnedID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("match: create player %q: %w", name, err)
	}
	return returnedID, nil
}

// ResolvePlayerInfo resolves a player from a RawPlayerInfo record, using its
// own first/last/birth_date as context fields 2 and 3.
func (d *PlayerDeduplicator) ResolvePlayerInfo(ctx context.Context, tx pgx.Tx, info types.RawPlayerInfo, teamID, seasonID uuid.UUID, source string) (uuid.UUID, error) {
	name := info.FirstName + " " + info.LastName
	pc := PlayerContext{FirstName: info.FirstName, LastName: info.LastName, TeamID: teamID, SeasonID: seasonID, BirthDate: info.BirthDate}
	return d.Resolve(ctx, tx, info.ExternalID, name, pc, source)
}

// ResolveByJersey is the PBP fallback path for sources whose play-by-play
// player identifiers don't match their box-score identifiers: it resolves a
// player by jersey number within a team's roster for a season. Ambiguous
// when two roster players share a number; the caller must not guess in that
// case.
func (d *PlayerDeduplicator) ResolveByJersey(ctx context.Context, tx pgx.Tx, teamID, seasonID uuid.UUID, jersey int) (id uuid.UUID, matched bool, candidates []uuid.UUID, err error) {
	rows, err := tx.Query(ctx, "players_by_team_season_jersey", teamID, seasonID, jersey)
	if err != nil {
		return uuid.Nil, false, nil, fmt.Errorf("match: players_by_team_season_jersey: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var pid uuid.UUID
		if err := rows.Scan(&pid); err != nil {
			return uuid.Nil, false, nil, fmt.Errorf("match: scan jersey candidate: %w", err)
		}
		candidates = append(candidates, pid)
	}
	if err := rows.Err(); err != nil {
		return uuid.Nil, false, nil, fmt.Errorf("match: players_by_team_season_jersey rows: %w", err)
	}

	if len(candidates) == 1 {
		return candidates[0], true, candidates, nil
	}
	return uuid.Nil, false, candidates, nil
}

func splitFallbackName(name string) (first, last string) {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == ' ' {
			return name[:i], name[i+1:]
		}
	}
	return name, ""
}
