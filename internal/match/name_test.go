package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName_StripsTrailingPositionToken(t *testing.T) {
	assert.Equal(t, "john smith", NormalizeName("John Smith PG"))
	assert.Equal(t, "jane doe", NormalizeName("Jane Doe G-F"))
}

func TestNormalizeName_StripsTrailingCaptainMarker(t *testing.T) {
	assert.Equal(t, "yossi cohen", NormalizeName("Yossi Cohen Captain|"))
	assert.Equal(t, "yossi cohen", NormalizeName("Yossi Cohen (c)"))
}

func TestNormalizeName_CollapsesWhitespaceAndTrims(t *testing.T) {
	assert.Equal(t, "john smith", NormalizeName("  John   Smith  "))
}

func TestNormalizeName_HebrewSurvivesUnchangedCaseFold(t *testing.T) {
	assert.Equal(t, "יוסי כהן", NormalizeName("יוסי כהן"))
}

func TestCompactName_RemovesPunctuationAndWhitespace(t *testing.T) {
	assert.Equal(t, "johnosmith", CompactName("John O'Smith"))
}

func TestNormalizeName_BareTokenAlone(t *testing.T) {
	assert.Equal(t, "", NormalizeName("PG"))
}
