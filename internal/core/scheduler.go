package core

// scheduler.go runs the import on a fixed interval.
//
// The scheduler runs once immediately, then on every tick until ctx is
// cancelled. A failed or skipped run is logged and the loop continues; the
// next tick retries because the state row for the month is not completed.

import (
	"context"
	"errors"
	"time"

	"github.com/JonMunkholm/addresses/internal/logging"
)

// DefaultScheduleInterval is how often the scheduler triggers an import.
const DefaultScheduleInterval = 24 * time.Hour

// StartImportScheduler blocks, running runner through limiter every interval.
// A zero interval selects DefaultScheduleInterval.
func StartImportScheduler(ctx context.Context, runner Runner, limiter *ImportLimiter, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultScheduleInterval
	}
	log := logging.FromContext(ctx)
	log.Info("import scheduler started", "interval", interval.String())

	runScheduledImport(ctx, runner, limiter)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("import scheduler stopped")
			return
		case <-ticker.C:
			runScheduledImport(ctx, runner, limiter)
		}
	}
}

func runScheduledImport(ctx context.Context, runner Runner, limiter *ImportLimiter) {
	log := logging.FromContext(ctx)

	res, err := limiter.Run(ctx, runner)
	switch {
	case errors.Is(err, ErrImportRunning):
		log.Info("scheduled import skipped", "reason", "already running")
	case err != nil:
		log.Error("scheduled import failed", "error", err, "code", MapError(err).Code)
	case res.Skipped:
		log.Info("scheduled import skipped", "month", res.Month, "reason", res.SkipReason)
	default:
		log.Info("scheduled import completed",
			"month", res.Month,
			"inserted", res.Inserted,
			"duration_ms", res.Duration.Milliseconds(),
		)
	}
}
