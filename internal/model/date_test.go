package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}

func TestWindowAt(t *testing.T) {
	w := WindowAt(mustTime(t, "2025-03-01T05:00:00Z"))
	assert.Equal(t, Date("2025-03-01"), w.Today)
	assert.Equal(t, Date("2025-02-28"), w.Yesterday)
	assert.Equal(t, Date("2025-02-27"), w.TwoDaysAgo)
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2025-06-12")
	require.NoError(t, err)
	assert.Equal(t, Date("2025-06-12"), got)

	for _, input := range []string{"banana", "2025-6-1", "12-06-2025", "2025-06-12T00:00:00Z", ""} {
		_, err := ParseDate(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestWindowAtCrossesMonthBoundary(t *testing.T) {
	w := WindowAt(mustTime(t, "2026-01-01T23:59:00Z"))
	assert.Equal(t, Date("2026-01-01"), w.Today)
	assert.Equal(t, Date("2025-12-31"), w.Yesterday)
	assert.Equal(t, Date("2025-12-30"), w.TwoDaysAgo)
}
