package core

// scheduler.go polls the archive inbox in the background.
//
// Extracts are delivered by file transfer at no fixed time, so the inbox is
// processed on start and then on every tick. Failures of a single pass are
// logged and do not stop the scheduler.

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// DefaultInboxInterval is the polling interval used when none is configured.
const DefaultInboxInterval = 5 * time.Minute

// StartInboxScheduler processes the inbox immediately, then every interval,
// until ctx is cancelled. It blocks; run it in its own goroutine.
func (s *Service) StartInboxScheduler(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInboxInterval
	}
	s.logger.Info("inbox scheduler started", "interval", interval)

	s.runInboxJob(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("inbox scheduler stopped")
			return
		case <-ticker.C:
			s.runInboxJob(ctx)
		}
	}
}

// runInboxJob performs one inbox pass.
func (s *Service) runInboxJob(ctx context.Context) {
	start := time.Now()
	results, err := s.ProcessInbox(ctx)
	if errors.Is(err, ErrInboxBusy) {
		s.logger.Info("inbox pass skipped, another pass is running")
		return
	}
	if err != nil {
		s.logger.Error("inbox pass failed", "error", err)
		return
	}

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
			s.logger.Warn("inbox file rejected", "file", r.File, "error", r.Error)
		}
	}
	level := slog.LevelInfo
	if len(results) == 0 {
		level = slog.LevelDebug
	}
	s.logger.Log(ctx, level, "inbox pass completed",
		"files", len(results),
		"failed", failed,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
