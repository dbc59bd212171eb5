package matching

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Scheduler runs the recurring maintenance jobs: the daily picks
// precompute and the history-cache sweep.
type Scheduler struct {
	service Service
	logger  *zap.Logger
}

func NewScheduler(service Service, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{service: service, logger: logger}
}

func (s *Scheduler) Start(ctx context.Context) {
	// Daily picks generation at 6 AM
	go s.runDaily(ctx, 6, 0, s.service.GenerateDailyPicks)

	// History cache sweep every 6 hours
	go s.runEvery(ctx, 6*time.Hour, s.service.CleanupHistoryCache)
}

func (s *Scheduler) runDaily(ctx context.Context, hour, minute int, task func(context.Context) error) {
	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
		if now.After(next) {
			next = next.Add(24 * time.Hour)
		}

		timer := time.NewTimer(next.Sub(now))

		select {
		case <-timer.C:
			if err := task(ctx); err != nil {
				s.logger.Error("scheduled task failed", zap.Error(err))
			}
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}
}

func (s *Scheduler) runEvery(ctx context.Context, interval time.Duration, task func(context.Context) error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := task(ctx); err != nil {
				s.logger.Error("periodic task failed", zap.Error(err))
			}
		case <-ctx.Done():
			return
		}
	}
}
