package scheduler

import (
	"context"
	"fmt"
	"time"

	"shardbot/internal/service"
	"shardbot/pkg/logger"

	"go.uber.org/zap"
)

type Config struct {
	Timezone  string `yaml:"timezone"`
	ResetTime string `yaml:"resetTime"`
}

// Scheduler fires the automatic daily reset at the configured local
// wall-clock time, every day, until the context is cancelled.
type Scheduler struct {
	cycle *service.CycleService
	clock service.Clock
	loc   *time.Location
	hour  int
	min   int
}

func New(cycle *service.CycleService, cfg Config, clock service.Clock) (*Scheduler, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}

	var hour, min int
	if _, err := fmt.Sscanf(cfg.ResetTime, "%d:%d", &hour, &min); err != nil {
		return nil, fmt.Errorf("invalid reset time %q, want HH:MM: %w", cfg.ResetTime, err)
	}
	if hour < 0 || hour > 23 || min < 0 || min > 59 {
		return nil, fmt.Errorf("reset time %q out of range", cfg.ResetTime)
	}

	return &Scheduler{
		cycle: cycle,
		clock: clock,
		loc:   loc,
		hour:  hour,
		min:   min,
	}, nil
}

// NextReset returns the first reset instant strictly after now.
func (s *Scheduler) NextReset(now time.Time) time.Time {
	local := now.In(s.loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), s.hour, s.min, 0, 0, s.loc)
	if !next.After(local) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func (s *Scheduler) Run(ctx context.Context) {
	log := logger.Logger()
	for {
		now := s.clock.Now()
		next := s.NextReset(now)
		log.Info("next automatic reset scheduled", zap.Time("at", next))

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			if err := s.cycle.AutoReset(ctx); err != nil {
				log.Error("automatic reset finished with errors", zap.Error(err))
			}
		}
	}
}
