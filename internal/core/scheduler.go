package core

import (
	"context"
	"log/slog"
	"time"
)

// Pruner drops cache rows older than a given age. *store.Store satisfies it.
type Pruner interface {
	PruneStale(ctx context.Context, olderThan time.Duration) (int64, error)
}

// SchedulerService prunes the company cache on an interval.
type SchedulerService struct {
	pruner   Pruner
	interval time.Duration
	maxAge   time.Duration
}

func NewSchedulerService(pruner Pruner, interval, maxAge time.Duration) *SchedulerService {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &SchedulerService{pruner: pruner, interval: interval, maxAge: maxAge}
}

// Run prunes once immediately and then on every tick until ctx is done.
func (s *SchedulerService) Run(ctx context.Context) error {
	if s.maxAge <= 0 {
		slog.Info("cache retention disabled")
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.cleanup(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.cleanup(ctx)
		}
	}
}

func (s *SchedulerService) cleanup(ctx context.Context) {
	count, err := s.pruner.PruneStale(ctx, s.maxAge)
	if err != nil {
		slog.Warn("cache retention failed", "error", err)
		return
	}
	slog.Info("cache retention", "deleted", count)
}
