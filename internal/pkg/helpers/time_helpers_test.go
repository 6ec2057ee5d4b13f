package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2026-03-14")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-14", FormatDate(parsed))

	_, err = ParseDate("03/14/2026")
	assert.Error(t, err)

	_, err = ParseDate("")
	assert.Error(t, err)
}

func TestParseClock(t *testing.T) {
	clock, err := ParseClock("18:30")
	require.NoError(t, err)
	assert.Equal(t, "18:30", clock)

	_, err = ParseClock("6:30 PM")
	assert.Error(t, err)

	_, err = ParseClock("25:00")
	assert.Error(t, err)
}

func TestFormatClock12h(t *testing.T) {
	assert.Equal(t, "6:30 PM", FormatClock12h("18:30"))
	assert.Equal(t, "12:00 AM", FormatClock12h("00:00"))
	assert.Equal(t, "12:15 PM", FormatClock12h("12:15"))
	// Unparseable input passes through unchanged
	assert.Equal(t, "whenever", FormatClock12h("whenever"))
}

func TestRounding(t *testing.T) {
	assert.Equal(t, 3.33, Round2(10.0/3))
	assert.Equal(t, 5.0, Round2(5.004))
	assert.Equal(t, 66.7, Round1(66.666))
	assert.Equal(t, 0.0, Round1(0))
}
