package mapper

import (
	"strings"
	"time"
)

// dateLayouts tried in order: ISO, DD/MM/YYYY, "YYYY-MM-DD HH:MM:SS", then a
// long bilingual-friendly form like "12 March, 1998".
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006",
	"02.01.2006",
	"2006-01-02 15:04:05",
	"2 January, 2006",
	"2 January 2006",
}

// ParseGameDate tries each layout in order; on failure returns time.Now().
func ParseGameDate(raw string) time.Time {
	if t, ok := tryParseDate(raw); ok {
		return t
	}
	return time.Now().UTC()
}

// ParseBirthDate tries each layout in order; on failure returns nil.
func ParseBirthDate(raw string) *time.Time {
	if t, ok := tryParseDate(raw); ok {
		return &t
	}
	return nil
}

func tryParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
