package syncmanager

import "github.com/nadavbarak14/hoopsync/internal/types"

// Event is one record of the progress stream sync_season_with_progress
// emits. Exactly one of the typed fields is set, matching which Kind it is.
type Event struct {
	Kind string // "start" | "progress" | "synced" | "error" | "complete"

	// start
	Phase   string
	Total   int
	Skipped int

	// progress
	Current int
	Status  string

	// progress / synced / error
	GameID string

	// error
	Error string

	// complete
	SyncLog types.SyncLog
}

func startEvent(phase string, total, skipped int) Event {
	return Event{Kind: "start", Phase: phase, Total: total, Skipped: skipped}
}

func progressEvent(current, total int, gameID string) Event {
	return Event{Kind: "progress", Current: current, Total: total, GameID: gameID, Status: "syncing"}
}

func syncedEvent(gameID string) Event {
	return Event{Kind: "synced", GameID: gameID}
}

func errorEvent(gameID, message string) Event {
	return Event{Kind: "error", GameID: gameID, Error: message}
}

func completeEvent(log types.SyncLog) Event {
	return Event{Kind: "complete", SyncLog: log}
}
