package simplecms

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper periodically reconciles pending blob intents.
type Sweeper struct {
	svc      Service
	interval time.Duration
	logger   *slog.Logger
}

// NewSweeper creates a sweeper that calls svc.SweepIntents every interval.
func NewSweeper(svc Service, interval time.Duration, logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{svc: svc, interval: interval, logger: logger}
}

// Run sweeps once immediately and then on every tick until ctx is done.
func (w *Sweeper) Run(ctx context.Context) {
	if w.interval <= 0 {
		return
	}
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if _, err := w.svc.SweepIntents(ctx); err != nil && ctx.Err() == nil {
			w.logger.Error("intent sweep failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
