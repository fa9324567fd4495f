package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/OlricBeyy/telegram-tracking-bot/internal/domain"
)

// Poller runs one polling cycle over all due tracked products.
type Poller interface {
	RunCycle(ctx context.Context) (*domain.CycleStats, error)
}

type Scheduler struct {
	poller   Poller
	interval time.Duration
	logger   *slog.Logger
}

func NewScheduler(poller Poller, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		poller:   poller,
		interval: interval,
		logger:   logger,
	}
}

// Start runs a cycle immediately, then on every tick until ctx is
// cancelled. Cycles have no deadline of their own: a slow host just
// stretches the cycle, and the per-product in-flight guard keeps an
// overlapping tick from polling the same product twice.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval)

	s.runCycle(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runCycle(ctx)
		}
	}
}

func (s *Scheduler) runCycle(ctx context.Context) {
	if _, err := s.poller.RunCycle(ctx); err != nil && ctx.Err() == nil {
		s.logger.Error("poll cycle failed", "error", err)
	}
}
