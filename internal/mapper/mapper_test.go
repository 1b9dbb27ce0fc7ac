package mapper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMinutesRoundTrip(t *testing.T) {
	for s := 0; s < 3600; s += 37 {
		formatted := FormatSecondsToMinutes(s)
		assert.Equal(t, s, ParseMinutesToSeconds(formatted))
	}
}

func TestParseMinutesToSeconds_MalformedReturnsZero(t *testing.T) {
	assert.Equal(t, 0, ParseMinutesToSeconds(""))
	assert.Equal(t, 0, ParseMinutesToSeconds("garbage"))
	assert.Equal(t, 0, ParseMinutesToSeconds("27"))
}

func TestParseMinutesToSeconds_KnownValue(t *testing.T) {
	assert.Equal(t, 27*60+6, ParseMinutesToSeconds("27:06"))
}

func TestHeightMetersToCM_Monotonic(t *testing.T) {
	prev := -1
	for cm := 150; cm <= 230; cm++ {
		m := float64(cm) / 100.0
		got := MetersToCM(m)
		assert.GreaterOrEqual(t, got, prev)
		prev = got
	}
}

func TestNormalizeSeasonName(t *testing.T) {
	assert.Equal(t, "2024-25", NormalizeSeasonName(2024))
	assert.Equal(t, "1999-00", NormalizeSeasonName(1999))
}

func TestEuroleagueSeasonDates_KnownYear(t *testing.T) {
	start, end := EuroleagueSeasonDates(2024)
	assert.Equal(t, time.Date(2024, time.October, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, time.May, 31, 0, 0, 0, 0, time.UTC), end)
}

func TestParseGameDate_InvalidFallsBackToNow(t *testing.T) {
	before := time.Now().Add(-time.Second)
	got := ParseGameDate("")
	after := time.Now().Add(time.Second)
	assert.True(t, got.After(before) && got.Before(after))
}

func TestParseBirthDate_InvalidReturnsNil(t *testing.T) {
	assert.Nil(t, ParseBirthDate(""))
	assert.Nil(t, ParseBirthDate("not-a-date"))
}

func TestParseBirthDate_DDMMYYYY(t *testing.T) {
	got := ParseBirthDate("12/03/1998")
	if assert.NotNil(t, got) {
		assert.Equal(t, 1998, got.Year())
		assert.Equal(t, time.March, got.Month())
		assert.Equal(t, 12, got.Day())
	}
}
