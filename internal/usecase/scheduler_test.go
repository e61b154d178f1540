package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"TechBriefing/internal/logging"
)

type manualDriver struct {
	job     func(time.Time)
	stopped bool
}

func (d *manualDriver) Start(_ context.Context, job func(time.Time)) error {
	d.job = job
	return nil
}

func (d *manualDriver) Stop(context.Context) error {
	d.stopped = true
	return nil
}

func TestSchedulerKeepsRunningAfterFailedRun(t *testing.T) {
	t.Parallel()

	driver := &manualDriver{}
	runs := 0
	run := func(context.Context) (Report, error) {
		runs++
		if runs == 1 {
			return Report{RunID: "first"}, ErrGeneration
		}
		return Report{RunID: "second"}, nil
	}

	s := NewScheduler(driver, run, logging.Discard())
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	driver.job(time.Now())
	driver.job(time.Now())

	if runs != 2 {
		t.Fatalf("expected 2 runs, got %d", runs)
	}
	if err := s.Stop(context.Background()); err != nil || !driver.stopped {
		t.Fatalf("expected driver stopped, err=%v", err)
	}
}

func TestSchedulerWithoutDriver(t *testing.T) {
	t.Parallel()

	s := NewScheduler(nil, func(context.Context) (Report, error) { return Report{}, errors.New("unused") }, nil)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}
