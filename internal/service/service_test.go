package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 12, 9, 30, 0, 0, time.UTC)}
}

func newTestDates(t *testing.T, clock Clock) *DateProvider {
	t.Helper()
	dates, err := NewDateProvider(clock, "UTC")
	require.NoError(t, err)
	return dates
}
