// Package scheduler runs the advisor's recurring jobs: the daily limit
// reset and the periodic snapshot flush.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/bet-advisor/internal/bankroll"
	"github.com/yourusername/bet-advisor/internal/feedback"
)

// Scheduler manages the advisor's cron jobs
type Scheduler struct {
	cron    *cron.Cron
	manager *bankroll.Manager
	tracker *feedback.Tracker
	logger  *logrus.Logger

	mu        sync.Mutex
	isRunning bool
	jobIDs    []cron.EntryID
}

// NewScheduler creates a scheduler whose jobs run in the given IANA
// timezone. Daily resets fire at wall-clock midnight there.
func NewScheduler(manager *bankroll.Manager, tracker *feedback.Tracker, timezone string, logger *logrus.Logger) (*Scheduler, error) {
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("loading reset timezone %q: %w", timezone, err)
	}

	return &Scheduler{
		cron:    cron.New(cron.WithLocation(location)),
		manager: manager,
		tracker: tracker,
		logger:  logger,
		jobIDs:  make([]cron.EntryID, 0),
	}, nil
}

// ScheduleDailyReset zeroes the bankroll's daily-used counter at midnight.
func (s *Scheduler) ScheduleDailyReset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	entryID, err := s.cron.AddFunc("0 0 * * *", func() {
		s.logger.Info("Running scheduled daily limit reset")
		s.manager.ResetDaily()
	})
	if err != nil {
		return fmt.Errorf("failed to add daily reset job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	return nil
}

// SchedulePeriodicFlush persists the tracker's full state at the given
// interval, as a safety net behind the write-through saves.
func (s *Scheduler) SchedulePeriodicFlush(intervalSeconds int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}
	if intervalSeconds < 30 {
		intervalSeconds = 30
	}

	entryID, err := s.cron.AddFunc(fmt.Sprintf("@every %ds", intervalSeconds), func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.tracker.Flush(ctx); err != nil {
			s.logger.WithError(err).Error("Periodic snapshot flush failed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to add flush job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")
	return nil
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.isRunning = false
	s.logger.Info("Scheduler stopped")
}
