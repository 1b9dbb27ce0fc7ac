package mapper

import "github.com/nadavbarak14/hoopsync/internal/types"

// pbpLinkWindow bounds the backward scan to the last 10 prior events in the
// same period ("a heuristic bound; keep it
// configurable only for tests").
const pbpLinkWindow = 10

// InferPBPLinks populates RelatedEventNumbers on a pre-mapped, ordered event
// list by scanning each event backward over prior events in the same
// period, applying the first matching rule from a fixed table and
// stopping. Events crossing a period boundary never link. The input slice is
// mutated in place and also returned for convenience.
func InferPBPLinks(events []types.RawPBPEvent) []types.RawPBPEvent {
	for i := range events {
		e := &events[i]
		lo := i - pbpLinkWindow
		if lo < 0 {
			lo = 0
		}
		for j := i - 1; j >= lo; j-- {
			prev := events[j]
			if prev.Period != e.Period {
				break
			}
			if link := matchRule(*e, prev); link {
				e.RelatedEventNumbers = []int{prev.EventNumber}
				break
			}
		}
	}
	return events
}

// matchRule applies the first matching rule (A, R, S, B, F) for event e
// against a single candidate predecessor prev.
func matchRule(e, prev types.RawPBPEvent) bool {
	dt := ClockToSeconds(prev.Clock) - ClockToSeconds(e.Clock)

	switch e.EventType {
	case "assist": // Rule A
		if prev.EventType == "shot" && boolVal(prev.Success) && prev.TeamExternalID == e.TeamExternalID && inRange(dt, 0, 2) {
			return true
		}
	case "rebound": // Rule R
		if prev.EventType == "shot" && !boolVal(prev.Success) && inRange(dt, 0, 3) {
			return true
		}
	case "steal": // Rule S
		if prev.EventType == "turnover" && prev.TeamExternalID != e.TeamExternalID && inRange(dt, 0, 2) {
			return true
		}
	case "block": // Rule B
		if prev.EventType == "shot" && !boolVal(prev.Success) && absInRange(dt, 1) {
			return true
		}
	case "free_throw": // Rule F
		if prev.EventType == "foul" && inRange(dt, 0, 5) {
			return true
		}
	}
	return false
}

func boolVal(b *bool) bool { return b != nil && *b }

func inRange(v, lo, hi int) bool { return v >= lo && v <= hi }

func absInRange(v, bound int) bool {
	if v < 0 {
		v = -v
	}
	return v <= bound
}
