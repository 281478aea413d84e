// Package cron schedules the periodic sweep over all slots.
package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/example/auction-scheduler/internal/application"
	"github.com/example/auction-scheduler/internal/logging"
)

// SweepRunner executes one sweep tick at the given instant.
type SweepRunner interface {
	Run(ctx context.Context, now time.Time) (application.SweepResult, error)
}

// Runner drives the sweep on a cron schedule.
type Runner struct {
	cron   *cron.Cron
	sweeps SweepRunner
	logger *slog.Logger
	now    func() time.Time
}

// NewRunner validates the cron spec and registers the sweep job. The spec
// uses the standard five field format with descriptors like @hourly allowed.
func NewRunner(spec string, sweeps SweepRunner, logger *slog.Logger, now func() time.Time) (*Runner, error) {
	if sweeps == nil {
		return nil, fmt.Errorf("cron: sweep runner is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}

	runner := &Runner{
		cron:   cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor))),
		sweeps: sweeps,
		logger: logger,
		now:    now,
	}
	if _, err := runner.cron.AddFunc(spec, runner.tick); err != nil {
		return nil, fmt.Errorf("cron: invalid spec %q: %w", spec, err)
	}
	return runner, nil
}

// Start begins ticking in a background goroutine.
func (r *Runner) Start() {
	r.cron.Start()
}

// Stop halts scheduling and waits for a running tick to finish or the context
// to expire.
func (r *Runner) Stop(ctx context.Context) error {
	done := r.cron.Stop().Done()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Runner) tick() {
	now := r.now().UTC()
	logger := r.logger.With("job", "sweep", "tick", now.Format(time.RFC3339))
	ctx := logging.ContextWithLogger(context.Background(), logger)

	result, err := r.sweeps.Run(ctx, now)
	if err != nil {
		logger.Error("sweep tick failed", "error", err)
		return
	}
	logger.Info("sweep tick finished", "created_notifications", result.CreatedNotifications)
}
