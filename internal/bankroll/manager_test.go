package bankroll

import (
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/bet-advisor/internal/config"
	"github.com/yourusername/bet-advisor/internal/models"
)

func testConfig() *config.TradingConfig {
	return &config.TradingConfig{
		InitialBalance:      1000.0,
		DailyLimit:          200.0,
		KellyFraction:       0.25,
		MaxBetFraction:      0.05,
		MinBet:              5.0,
		ConfidenceThreshold: 0.70,
		TopN:                5,
	}
}

func newTestManager() *Manager {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return NewManager(testConfig(), logger)
}

func TestStatusSnapshot(t *testing.T) {
	m := newTestManager()
	status := m.Status()

	assert.Equal(t, 1000.0, status.Balance)
	assert.Equal(t, 200.0, status.DailyLimit)
	assert.Equal(t, 0.0, status.DailyUsed)
	assert.Equal(t, 0.25, status.KellyFraction)
	// Suggested default stake is 2% of balance
	assert.Equal(t, 20.0, status.SuggestedStake)
	assert.Equal(t, 200.0, status.DailyRemaining())
}

func TestUpdateBalance(t *testing.T) {
	m := newTestManager()

	require.NoError(t, m.UpdateBalance(1500.0))
	assert.Equal(t, 1500.0, m.Status().Balance)
}

func TestUpdateBalanceRejectsNegative(t *testing.T) {
	m := newTestManager()

	err := m.UpdateBalance(-5.0)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	// Balance unchanged after rejection
	assert.Equal(t, 1000.0, m.Status().Balance)
}

func TestRecordOutcomeWin(t *testing.T) {
	m := newTestManager()

	// Stake 10 at +150 pays 25: profit = 15
	require.NoError(t, m.RecordOutcome(10.0, true, 25.0))

	status := m.Status()
	assert.Equal(t, 10.0, status.DailyUsed)
	assert.Equal(t, 15.0, status.TotalProfitLoss)
	assert.Equal(t, 1015.0, status.Balance)
	assert.Equal(t, 1, status.RecommendationsMade)
	assert.Equal(t, 1, status.SuccessfulRecommendations)
}

func TestRecordOutcomeLoss(t *testing.T) {
	m := newTestManager()

	require.NoError(t, m.RecordOutcome(25.0, false, 0))

	status := m.Status()
	assert.Equal(t, 25.0, status.DailyUsed)
	assert.Equal(t, -25.0, status.TotalProfitLoss)
	assert.Equal(t, 975.0, status.Balance)
	assert.Equal(t, 1, status.RecommendationsMade)
	assert.Equal(t, 0, status.SuccessfulRecommendations)
}

func TestRecordOutcomeRejectsNonPositiveStake(t *testing.T) {
	m := newTestManager()

	err := m.RecordOutcome(0, true, 10.0)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestResetDaily(t *testing.T) {
	m := newTestManager()

	require.NoError(t, m.RecordOutcome(50.0, false, 0))
	assert.Equal(t, 50.0, m.Status().DailyUsed)

	m.ResetDaily()
	assert.Equal(t, 0.0, m.Status().DailyUsed)
	// Cumulative counters survive the reset
	assert.Equal(t, -50.0, m.Status().TotalProfitLoss)
}

func TestConcurrentOutcomesDoNotLoseUpdates(t *testing.T) {
	m := newTestManager()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.RecordOutcome(1.0, false, 0)
		}()
	}
	wg.Wait()

	status := m.Status()
	assert.Equal(t, 50.0, status.DailyUsed)
	assert.Equal(t, -50.0, status.TotalProfitLoss)
	assert.Equal(t, 50, status.RecommendationsMade)
}

func TestCentsExactAccumulation(t *testing.T) {
	m := newTestManager()

	// 0.1 + 0.2-style float drift must not appear in money totals
	for i := 0; i < 10; i++ {
		require.NoError(t, m.RecordOutcome(0.1, false, 0))
	}
	assert.Equal(t, 1.0, m.Status().DailyUsed)
	assert.Equal(t, -1.0, m.Status().TotalProfitLoss)
}
