package service

import (
	"context"
	"log/slog"
	"time"
)

// DefaultInterval is the recheck interval used when none is configured.
const DefaultInterval = time.Hour

// StartScheduler rechecks every configured season immediately and then
// every interval until ctx is done. Failures are logged by Recheck and do
// not stop the scheduler.
func (s *Service) StartScheduler(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	slog.Info("recheck scheduler started", "interval", interval.String())

	s.runScheduled(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("recheck scheduler stopped")
			return
		case <-ticker.C:
			s.runScheduled(ctx)
		}
	}
}

// runScheduled performs one recheck round.
func (s *Service) runScheduled(ctx context.Context) {
	start := time.Now()
	if err := s.RecheckAll(ctx); err != nil {
		slog.Warn("recheck round incomplete", "error", err)
	}
	slog.Info("recheck round completed", "duration_ms", time.Since(start).Milliseconds())
}
