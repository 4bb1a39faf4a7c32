// Package worker runs the periodic maintenance jobs of the service.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/oggyb/swipe-core/internal/logger"
)

// Job is one periodic task. Run must be idempotent: jobs fire once at
// start and then every Every, and may overlap request traffic.
type Job struct {
	Name  string
	Every time.Duration
	Run   func(ctx context.Context) error
}

// Scheduler drives a set of jobs, one goroutine per job.
type Scheduler struct {
	jobs []Job
	log  *slog.Logger
}

func NewScheduler(log *slog.Logger, jobs ...Job) *Scheduler {
	return &Scheduler{jobs: jobs, log: log.With("component", "scheduler")}
}

// Run blocks until ctx is done. Jobs with a non-positive interval are
// skipped. A failing run is logged and retried on the next tick.
func (s *Scheduler) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, job := range s.jobs {
		if job.Every <= 0 {
			s.log.Info("job disabled", "job", job.Name)
			continue
		}
		job := job
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.loop(ctx, job)
		}()
	}
	wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, job Job) {
	s.runJob(ctx, job)

	t := time.NewTicker(job.Every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.runJob(ctx, job)
		}
	}
}

func (s *Scheduler) runJob(ctx context.Context, job Job) error {
	start := time.Now()
	err := job.Run(ctx)
	if err != nil && ctx.Err() == nil {
		s.log.Error("job failed", "job", job.Name, "err", err, logger.Since(start))
		return fmt.Errorf("%s: %w", job.Name, err)
	}
	s.log.Debug("job done", "job", job.Name, logger.Since(start))
	return err
}

// RunOnce runs every job a single time in order and joins their errors.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	var errs []error
	for _, job := range s.jobs {
		if err := s.runJob(ctx, job); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
