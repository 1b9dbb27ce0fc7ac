package mapper

import (
	"fmt"
	"time"
)

// NormalizeSeasonName formats a season as "YYYY-YY" given its starting year,
// e.g. 2024 -> "2024-25", 1999 -> "1999-00". This format is
// used regardless of upstream representation.
func NormalizeSeasonName(startYear int) string {
	endYY := (startYear + 1) % 100
	return fmt.Sprintf("%04d-%02d", startYear, endYY)
}

// SeasonNameFromDate infers the season start year from a game date using the
// September-rollover rule: games in September or later belong to the season
// starting that year; games before September belong to the season that
// started the previous year.
func SeasonNameFromDate(d time.Time) string {
	year := d.Year()
	if d.Month() < time.September {
		year--
	}
	return NormalizeSeasonName(year)
}

// SeasonDatesDefault returns the Sept 1 - Jun 30 span the sync manager uses
// by default when creating a Season whose exact bounds aren't yet known.
func SeasonDatesDefault(startYear int) (start, end time.Time) {
	start = time.Date(startYear, time.September, 1, 0, 0, 0, 0, time.UTC)
	end = time.Date(startYear+1, time.June, 30, 0, 0, 0, 0, time.UTC)
	return
}

// EuroleagueSeasonDates returns the default Oct 1 - May 31 span for a season
// starting in startYear (year=2024 -> 2024-10-01 /
// 2025-05-31).
func EuroleagueSeasonDates(startYear int) (start, end time.Time) {
	start = time.Date(startYear, time.October, 1, 0, 0, 0, 0, time.UTC)
	end = time.Date(startYear+1, time.May, 31, 0, 0, 0, 0, time.UTC)
	return
}

// ParseSeasonStartYear extracts the starting year from a "YYYY-YY" (or
// bare "YYYY") season external id, e.g. "2024-25" -> 2024. Falls back to
// the current year when the id doesn't parse.
func ParseSeasonStartYear(seasonExternalID string) int {
	var startYear int
	n, _ := fmt.Sscanf(seasonExternalID, "%d-", &startYear)
	if n == 1 {
		return startYear
	}
	if n, _ := fmt.Sscanf(seasonExternalID, "%d", &startYear); n == 1 {
		return startYear
	}
	return time.Now().UTC().Year()
}
