package mapper

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseMinutesToSeconds converts "MM:SS" to total seconds. Empty or
// malformed input returns 0.
func ParseMinutesToSeconds(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 {
		return 0
	}
	mm, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	ss, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil || mm < 0 || ss < 0 {
		return 0
	}
	return mm*60 + ss
}

// FormatSecondsToMinutes is the inverse of ParseMinutesToSeconds, valid for
// 0 <= seconds < 3600.
func FormatSecondsToMinutes(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	mm := seconds / 60
	ss := seconds % 60
	return fmt.Sprintf("%d:%02d", mm, ss)
}

// ClockToSeconds parses a period clock "MM:SS" (time remaining) to seconds,
// used by PBP link inference's Δt computation.
func ClockToSeconds(raw string) int {
	return ParseMinutesToSeconds(raw)
}
