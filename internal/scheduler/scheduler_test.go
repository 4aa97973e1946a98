package scheduler

import (
	"testing"
	"time"

	"shardbot/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "valid", cfg: Config{Timezone: "UTC", ResetTime: "00:05"}},
		{name: "valid with offset zone", cfg: Config{Timezone: "Asia/Jakarta", ResetTime: "17:00"}},
		{name: "bad timezone", cfg: Config{Timezone: "Mars/Olympus", ResetTime: "00:05"}, wantErr: true},
		{name: "bad time format", cfg: Config{Timezone: "UTC", ResetTime: "midnight"}, wantErr: true},
		{name: "hour out of range", cfg: Config{Timezone: "UTC", ResetTime: "24:00"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(nil, tt.cfg, service.RealClock())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNextReset(t *testing.T) {
	s, err := New(nil, Config{Timezone: "UTC", ResetTime: "00:05"}, service.RealClock())
	require.NoError(t, err)

	now := time.Date(2025, 6, 12, 9, 30, 0, 0, time.UTC)
	next := s.NextReset(now)
	assert.Equal(t, time.Date(2025, 6, 13, 0, 5, 0, 0, time.UTC), next)

	beforeReset := time.Date(2025, 6, 12, 0, 4, 59, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 12, 0, 5, 0, 0, time.UTC), s.NextReset(beforeReset))

	atReset := time.Date(2025, 6, 12, 0, 5, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 13, 0, 5, 0, 0, time.UTC), s.NextReset(atReset))
}
