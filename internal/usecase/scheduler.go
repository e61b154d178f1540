package usecase

import (
	"context"
	"log/slog"
	"time"

	"TechBriefing/internal/ports"
)

// RunFunc performs one guarded pipeline execution.
type RunFunc func(ctx context.Context) (Report, error)

// Scheduler wires the cron driver with a pipeline run.
type Scheduler struct {
	driver ports.Scheduler
	run    RunFunc
	logger *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring runs.
func NewScheduler(driver ports.Scheduler, run RunFunc, log *slog.Logger) *Scheduler {
	return &Scheduler{driver: driver, run: run, logger: log}
}

// Start registers the run with the driver. Failed runs are logged and the
// schedule keeps going.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.run == nil {
		return nil
	}

	job := func(trigger time.Time) {
		report, err := s.run(ctx)
		if s.logger == nil {
			return
		}
		if err != nil {
			s.logger.Error("scheduled run failed", "trigger", trigger, "run_id", report.RunID, "error", err)
			return
		}
		s.logger.Info("scheduled run delivered", "trigger", trigger, "run_id", report.RunID)
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
