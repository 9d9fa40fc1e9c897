package scheduler

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/bet-advisor/internal/bankroll"
	"github.com/yourusername/bet-advisor/internal/config"
	"github.com/yourusername/bet-advisor/internal/feedback"
	"github.com/yourusername/bet-advisor/internal/logger"
	"github.com/yourusername/bet-advisor/internal/store"
)

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	manager := bankroll.NewManager(&config.TradingConfig{
		InitialBalance: 1000, DailyLimit: 100, KellyFraction: 0.25,
		MaxBetFraction: 0.05, MinBet: 5, ConfidenceThreshold: 0.7, TopN: 5,
	}, log)

	fs, err := store.NewFileStore(filepath.Join(t.TempDir(), "outcomes.json"), log)
	require.NoError(t, err)
	tracker, err := feedback.NewTracker(context.Background(), fs, &config.FeedbackConfig{
		Backend: "file", MinSamplesImportance: 10, MinSamplesAdvice: 20, CalibrationCacheTTL: 300,
	}, logger.NewAdvisoryLogger(log))
	require.NoError(t, err)

	s, err := NewScheduler(manager, tracker, "UTC", log)
	require.NoError(t, err)
	return s
}

func TestNewSchedulerInvalidTimezone(t *testing.T) {
	log := logrus.New()
	_, err := NewScheduler(nil, nil, "Not/AZone", log)
	assert.Error(t, err)
}

func TestStartWithoutJobsFails(t *testing.T) {
	s := newTestScheduler(t)
	assert.Error(t, s.Start())
}

func TestStartAndStop(t *testing.T) {
	s := newTestScheduler(t)

	require.NoError(t, s.ScheduleDailyReset())
	require.NoError(t, s.SchedulePeriodicFlush(60))
	require.NoError(t, s.Start())

	// Double start is rejected, scheduling while running too.
	assert.Error(t, s.Start())
	assert.Error(t, s.ScheduleDailyReset())

	s.Stop()
	s.Stop() // idempotent
}
