package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Watch runs job on the cron schedule spec (with a seconds field) until ctx
// is done. A run still in progress when the next one is due is not
// overlapped; the due run is skipped.
func Watch(ctx context.Context, spec string, logger *slog.Logger, job func(context.Context)) error {
	if logger == nil {
		logger = slog.Default()
	}
	c := cron.New(
		cron.WithSeconds(),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	if _, err := c.AddFunc(spec, func() { job(ctx) }); err != nil {
		return fmt.Errorf("register schedule %q: %w", spec, err)
	}

	c.Start()
	logger.Info("watch started", "schedule", spec)

	<-ctx.Done()
	// Wait for a run in progress to return.
	<-c.Stop().Done()
	logger.Info("watch stopped")
	return nil
}
