// Package scheduler runs background jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"trendscope/internal/monitoring"

	"github.com/robfig/cron/v3"
)

// Job is one schedulable unit of background work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Scheduler executes a job on a cron schedule, recording outcomes in the
// monitor. Overlapping runs are skipped.
type Scheduler struct {
	job     Job
	spec    string
	monitor *monitoring.Monitor
	logger  *log.Logger
	cron    *cron.Cron
}

func New(job Job, spec string, monitor *monitoring.Monitor, logger *log.Logger) *Scheduler {
	return &Scheduler{
		job:     job,
		spec:    spec,
		monitor: monitor,
		logger:  logger,
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
	}
}

// Start registers the cron entry and begins running. The job also runs once
// immediately so the first request does not wait a full schedule interval.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.RunOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	s.logger.Printf("Scheduler started for %s with schedule: %s", s.job.Name(), s.spec)
	s.cron.Start()

	go s.RunOnce(ctx)
	return nil
}

// RunOnce executes the job a single time and records the outcome.
func (s *Scheduler) RunOnce(ctx context.Context) {
	start := time.Now()
	s.logger.Printf("Starting %s run...", s.job.Name())

	if err := s.job.Run(ctx); err != nil {
		s.monitor.RecordFailure(fmt.Errorf("%s failed: %w", s.job.Name(), err), time.Since(start))
		return
	}
	s.monitor.RecordSuccess(s.job.Name(), time.Since(start))
}

// Stop halts the cron loop, waiting for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Printf("Scheduler stopped for %s", s.job.Name())
}
