package scheduler

import (
	"context"

	"github.com/billforge/billforge/internal/config"
	"github.com/billforge/billforge/internal/logger"
	"github.com/billforge/billforge/internal/service"
	"github.com/billforge/billforge/internal/types"
	"github.com/gofrs/flock"
	"github.com/robfig/cron/v3"
)

// Scheduler runs the periodic reminder job. At most one instance per host
// acquires the job: the others lose the file lock, log it and keep serving.
type Scheduler struct {
	cron     *cron.Cron
	lock     *flock.Flock
	reminder service.ReminderService
	cfg      *config.Configuration
	logger   *logger.Logger
	acquired bool
}

func New(cfg *config.Configuration, reminder service.ReminderService, log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		lock:     flock.New(cfg.Scheduler.LockFile),
		reminder: reminder,
		cfg:      cfg,
		logger:   log,
	}
}

// Start tries to become the host's scheduler instance and, on success,
// registers and starts the cron job. Losing the lock is not an error.
func (s *Scheduler) Start(ctx context.Context) error {
	if !s.cfg.Scheduler.Enabled {
		s.logger.Infow("scheduler disabled by configuration")
		return nil
	}

	acquired, err := s.lock.TryLock()
	if err != nil {
		return err
	}
	if !acquired {
		s.logger.Infow("another scheduler instance holds the lock, standing down",
			"lock_file", s.cfg.Scheduler.LockFile,
		)
		return nil
	}
	s.acquired = true

	_, err = s.cron.AddFunc(s.cfg.Scheduler.CronSpec, func() {
		jobCtx := types.SetUserID(context.Background(), types.DefaultUserID)
		if err := s.reminder.Run(jobCtx); err != nil {
			s.logger.Errorw("reminder job failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Infow("scheduler started",
		"cron_spec", s.cfg.Scheduler.CronSpec,
		"lock_file", s.cfg.Scheduler.LockFile,
	)
	return nil
}

// Stop halts the cron loop and releases the lock
func (s *Scheduler) Stop(ctx context.Context) error {
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}

	if s.acquired {
		if err := s.lock.Unlock(); err != nil {
			s.logger.Warnw("failed to release scheduler lock", "error", err)
		}
		s.acquired = false
	}
	s.logger.Infow("scheduler stopped")
	return nil
}
