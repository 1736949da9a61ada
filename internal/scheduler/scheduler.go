// Package scheduler runs the background jobs of the dashboard on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// JobTimeout bounds a single job run.
const JobTimeout = 2 * time.Minute

// Job is one unit of scheduled work.
type Job func(ctx context.Context) error

// Scheduler wraps a cron runner whose jobs log through zap.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a Scheduler. Jobs are skipped while a previous run of the same job is still going.
func New(logger *zap.Logger) *Scheduler {
	cl := cronLogger{logger.Sugar()}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cl),
			cron.SkipIfStillRunning(cl),
		)),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Add registers job under name with a cron spec such as "@every 1h" or "0 * * * *".
// An empty spec disables the job.
func (s *Scheduler) Add(name, spec string, job Job) error {
	if spec == "" {
		s.logger.Info("job disabled", zap.String("job", name))
		return nil
	}
	_, err := s.cron.AddFunc(spec, func() {
		s.run(name, job)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule %s (%q): %w", name, spec, err)
	}
	s.logger.Info("job scheduled", zap.String("job", name), zap.String("schedule", spec))
	return nil
}

func (s *Scheduler) run(name string, job Job) {
	ctx, cancel := context.WithTimeout(s.ctx, JobTimeout)
	defer cancel()

	start := time.Now()
	if err := job(ctx); err != nil {
		s.logger.Error("job failed",
			zap.String("job", name),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return
	}
	s.logger.Debug("job finished", zap.String("job", name), zap.Duration("duration", time.Since(start)))
}

// Run starts the scheduler and blocks until ctx is cancelled, then waits for
// running jobs to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	s.cron.Start()
	<-ctx.Done()

	s.cancel()
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
	return nil
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	l *zap.SugaredLogger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Errorw(msg, append(keysAndValues, "error", err)...)
}
