package time_parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ParseQueryTime_EmptyValue_ReturnsNil(t *testing.T) {
	parsed, err := ParseQueryTime("")

	assert.NoError(t, err)
	assert.Nil(t, parsed)
}

func Test_ParseQueryTime_RFC3339_Parses(t *testing.T) {
	parsed, err := ParseQueryTime("2026-03-01T10:30:00Z")

	require.NoError(t, err)
	require.NotNil(t, parsed)
	assert.Equal(t, time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC), *parsed)
}

func Test_ParseQueryTime_DateOnly_Parses(t *testing.T) {
	parsed, err := ParseQueryTime("2026-03-01")

	require.NoError(t, err)
	require.NotNil(t, parsed)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *parsed)
}

func Test_ParseQueryTime_OffsetTimezone_NormalizedToUTC(t *testing.T) {
	parsed, err := ParseQueryTime("2026-03-01T12:00:00+02:00")

	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), *parsed)
}

func Test_ParseQueryTime_Garbage_ReturnsError(t *testing.T) {
	parsed, err := ParseQueryTime("yesterday")

	assert.Error(t, err)
	assert.Nil(t, parsed)
}
