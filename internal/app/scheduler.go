package app

import (
	"context"
	"log/slog"
	"time"
)

// StartReloadScheduler loads every source immediately, then again every
// interval until ctx is cancelled. A zero interval loads once and returns.
// Failed loads are recorded on the session and the schedule continues.
func (s *Session) StartReloadScheduler(ctx context.Context, interval time.Duration) {
	s.runReload(ctx)
	if interval <= 0 {
		return
	}

	slog.Info("reload scheduler started", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("reload scheduler stopped")
			return
		case <-ticker.C:
			s.runReload(ctx)
		}
	}
}

func (s *Session) runReload(ctx context.Context) {
	start := time.Now()
	if err := s.Load(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		slog.Error("scheduled load failed", "error", err)
		return
	}
	slog.Debug("scheduled load finished", "duration_ms", time.Since(start).Milliseconds())
}
