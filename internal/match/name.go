// Package match resolves RawTeam/RawPlayerInfo records from any source
// against already-persisted canonical rows: external-id lookup first, then
// name/context fallback, then create.
package match

import (
	"strings"
	"unicode"
)

// positionTokens is data, not code: the set of trailing position-abbreviation
// suffixes stripped during name normalization. Provider-dependent, so this
// table (not a hard-coded branch) is what changes when a new source's
// convention is added.
var positionTokens = []string{
	"G-F", "F-C", "F-G", "C-F", "PG", "SG", "SF", "PF",
	"G-", "F-", "C-",
	"G", "F", "C",
}

// captainMarkers strips trailing captain annotations, localized variants
// included.
var captainMarkers = []string{
	"captain|", "Captain|", "(captain)", "(c)", "captain", "Captain", "קפטן",
}

// NormalizeName lowercases, collapses internal whitespace, trims, and strips
// trailing position tokens and captain markers. Hebrew characters survive
// unchanged — case folding on non-Latin scripts without case is a no-op.
func NormalizeName(raw string) string {
	s := strings.TrimSpace(raw)
	s = stripTrailingCaptainMarker(s)
	s = stripTrailingPositionToken(s)
	s = strings.ToLower(s)
	s = collapseWhitespace(s)
	return strings.TrimSpace(s)
}

// CompactName additionally removes punctuation and all whitespace, for
// high-precision comparisons where minor formatting differences (periods,
// hyphens) shouldn't block a match.
func CompactName(raw string) string {
	normalized := NormalizeName(raw)
	var b strings.Builder
	for _, r := range normalized {
		if unicode.IsSpace(r) || unicode.IsPunct(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func stripTrailingPositionToken(s string) string {
	trimmed := strings.TrimRight(s, " ")
	for _, tok := range positionTokens {
		if strings.HasSuffix(trimmed, " "+tok) {
			return strings.TrimRight(trimmed[:len(trimmed)-len(tok)-1], " ")
		}
		if strings.EqualFold(trimmed, tok) {
			return ""
		}
	}
	return s
}

func stripTrailingCaptainMarker(s string) string {
	trimmed := strings.TrimRight(s, " ")
	for _, marker := range captainMarkers {
		if strings.HasSuffix(trimmed, marker) {
			return strings.TrimRight(trimmed[:len(trimmed)-len(marker)], " ")
		}
	}
	return s
}

func collapseWhitespace(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
