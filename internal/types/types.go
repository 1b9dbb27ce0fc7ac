// Package types defines the canonical entity structs persisted by the
// ingestion core, and the Raw* DTOs mappers produce from provider payloads.
// Mappers never import this package's persistence helpers — they only build
// these structs; the entitysync layer is the only writer of canonical rows.
package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// --------------------------------------------------------------------------
// Raw* DTOs — mapper output, provider-dialect-free.
// --------------------------------------------------------------------------

type RawSeason struct {
	Name      string // normalized YYYY-YY
	ExternalID string // equals Name
	SourceID  string // original source season identifier, preserved for API calls
	StartDate time.Time
	EndDate   time.Time
}

type RawTeam struct {
	ExternalID string
	Name       string
	ShortName  string
	City       string
	Country    string
}

type RawGame struct {
	ExternalID    string
	SeasonID      string // external season id
	HomeExternal  string
	AwayExternal  string
	GameDate      time.Time
	Status        string // scheduled | live | final
	HomeScore     *int
	AwayScore     *int
}

type RawPlayerStats struct {
	PlayerExternalID string
	PlayerName       string
	TeamExternalID   string
	Points           int
	TwoPM, TwoPA     int
	ThreePM, ThreePA int
	FTM, FTA         int
	OREB, DREB, TREB int
	AST, STL, BLK    int
	TO, PF           int
	MinutesPlayed    int // seconds
	IsStarter        bool
	PlusMinus        int
	Efficiency       int
}

type RawBoxScore struct {
	Game        RawGame
	HomePlayers []RawPlayerStats
	AwayPlayers []RawPlayerStats
}

type RawPBPEvent struct {
	EventNumber         int
	Period              int
	Clock                string // "MM:SS" remaining in period
	EventType            string
	EventSubtype         string
	TeamExternalID       string
	PlayerExternalID     string
	PlayerInternalID     string // source-internal id, may differ from PlayerExternalID
	Success              *bool
	CoordX, CoordY       *float64
	RelatedEventNumbers  []int
}

type RawPlayerInfo struct {
	ExternalID string
	FirstName  string
	LastName   string
	BirthDate  *time.Time
	HeightCM   *int
	Position   string
	Nationality string
}

// --------------------------------------------------------------------------
// Canonical persisted entities.
// --------------------------------------------------------------------------

type League struct {
	ID      uuid.UUID
	Code    string
	Name    string
	Country string
}

type Season struct {
	ID        uuid.UUID
	LeagueID  uuid.UUID
	Name      string
	StartDate time.Time
	EndDate   time.Time
	IsCurrent bool
}

type Team struct {
	ID          uuid.UUID
	Name        string
	ShortName   string
	City        string
	Country     string
	ExternalIDs map[string]string
}

type Player struct {
	ID          uuid.UUID
	FirstName   string
	LastName    string
	BirthDate   *time.Time
	HeightCM    *int
	Position    string
	Nationality string
	ExternalIDs map[string]string
}

type Game struct {
	ID          uuid.UUID
	SeasonID    uuid.UUID
	HomeTeamID  uuid.UUID
	AwayTeamID  uuid.UUID
	GameDate    time.Time
	Status      string
	HomeScore   *int
	AwayScore   *int
	ExternalIDs map[string]string
}

// IsFinal reports whether a game has been completed: both scores must be
// present, and at least one must be non-zero (0-0 never counts as final).
func (g Game) IsFinal() bool {
	if g.Status != "final" || g.HomeScore == nil || g.AwayScore == nil {
		return false
	}
	return *g.HomeScore != 0 || *g.AwayScore != 0
}

type PlayerGameStats struct {
	GameID        uuid.UUID
	PlayerID      uuid.UUID
	TeamID        uuid.UUID
	Points        int
	TwoPM, TwoPA  int
	ThreePM, ThreePA int
	FTM, FTA      int
	OREB, DREB, TREB int
	AST, STL, BLK int
	TO, PF        int
	MinutesPlayed int
	IsStarter     bool
	PlusMinus     int
	Efficiency    int
}

type PlayByPlayEvent struct {
	GameID              uuid.UUID
	EventNumber         int
	Period              int
	Clock               string
	EventType           string
	EventSubtype        string
	TeamID              *uuid.UUID
	PlayerID            *uuid.UUID
	Success             *bool
	CoordX, CoordY      *float64
	RelatedEventNumbers []int
}

type SyncCacheEntry struct {
	ID           uuid.UUID
	Source       string
	ResourceType string
	ResourceID   string
	RawData      []byte
	ContentHash  string
	FetchedAt    time.Time
	HTTPStatus   *int
}

type SyncLogStatus string

const (
	SyncLogRunning   SyncLogStatus = "RUNNING"
	SyncLogCompleted SyncLogStatus = "COMPLETED"
	SyncLogFailed    SyncLogStatus = "FAILED"
)

type SyncLog struct {
	ID               uuid.UUID
	Source           string
	EntityType       string
	SeasonID         *uuid.UUID
	GameID           *uuid.UUID
	Status           SyncLogStatus
	StartedAt        time.Time
	CompletedAt      *time.Time
	RecordsProcessed int
	RecordsCreated   int
	RecordsUpdated   int
	RecordsSkipped   int
	ErrorMessage     string
	ErrorDetails     json.RawMessage
}
