// Package bankroll holds the mutable bankroll state consumed by the
// recommendation engine.
package bankroll

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/bet-advisor/internal/config"
	"github.com/yourusername/bet-advisor/internal/metrics"
	"github.com/yourusername/bet-advisor/internal/models"
)

// suggestedStakeFraction is the flat default stake exposed in status
// snapshots for callers that don't want Kelly sizing.
const suggestedStakeFraction = 0.02

// Manager guards the single shared bankroll instance. All mutation goes
// through the mutex; concurrent request handlers must share one Manager.
type Manager struct {
	mu sync.RWMutex

	// Money is tracked as decimals so repeated outcome arithmetic stays
	// cents-exact.
	balance   decimal.Decimal
	dailyUsed decimal.Decimal
	totalPL   decimal.Decimal

	dailyLimit     float64
	kellyFraction  float64
	maxBetFraction float64

	recommendationsMade       int
	successfulRecommendations int

	logger *logrus.Logger
}

// NewManager creates a bankroll manager seeded from trading configuration
func NewManager(cfg *config.TradingConfig, logger *logrus.Logger) *Manager {
	m := &Manager{
		balance:        decimal.NewFromFloat(cfg.InitialBalance),
		dailyLimit:     cfg.DailyLimit,
		kellyFraction:  cfg.KellyFraction,
		maxBetFraction: cfg.MaxBetFraction,
		logger:         logger,
	}
	m.publishGauges()
	return m
}

// Status returns a read-only snapshot of the current bankroll state,
// including the derived 2%-of-balance suggested default stake
func (m *Manager) Status() models.BankrollState {
	m.mu.RLock()
	defer m.mu.RUnlock()

	balance, _ := m.balance.Float64()
	dailyUsed, _ := m.dailyUsed.Float64()
	totalPL, _ := m.totalPL.Float64()

	return models.BankrollState{
		Balance:                   balance,
		DailyLimit:                m.dailyLimit,
		DailyUsed:                 dailyUsed,
		KellyFraction:             m.kellyFraction,
		MaxBetFraction:            m.maxBetFraction,
		SuggestedStake:            roundCurrency(balance * suggestedStakeFraction),
		RecommendationsMade:       m.recommendationsMade,
		SuccessfulRecommendations: m.successfulRecommendations,
		TotalProfitLoss:           totalPL,
		UpdatedAt:                 time.Now(),
	}
}

// UpdateBalance replaces the current balance. A negative balance is
// rejected and leaves the state unchanged.
func (m *Manager) UpdateBalance(newBalance float64) error {
	if newBalance < 0 {
		return fmt.Errorf("%w: balance cannot be negative, got %.2f", models.ErrInvalidInput, newBalance)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	oldBalance, _ := m.balance.Float64()
	m.balance = decimal.NewFromFloat(newBalance)

	m.logger.WithFields(logrus.Fields{
		"old_balance": oldBalance,
		"new_balance": newBalance,
	}).Info("Bankroll balance updated")

	m.publishGauges()
	return nil
}

// RecordOutcome applies a settled bet to the bankroll: stake counts
// against the daily limit, and profit or loss moves the cumulative
// performance counters. This is the only path that mutates them.
func (m *Manager) RecordOutcome(stake float64, won bool, payout float64) error {
	if stake <= 0 {
		return fmt.Errorf("%w: stake must be positive, got %.2f", models.ErrInvalidInput, stake)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stakeDec := decimal.NewFromFloat(stake)
	m.dailyUsed = m.dailyUsed.Add(stakeDec)
	m.recommendationsMade++

	var delta decimal.Decimal
	if won {
		delta = decimal.NewFromFloat(payout).Sub(stakeDec)
		m.successfulRecommendations++
	} else {
		delta = stakeDec.Neg()
	}
	m.totalPL = m.totalPL.Add(delta)
	m.balance = m.balance.Add(delta)
	if m.balance.IsNegative() {
		m.balance = decimal.Zero
	}

	deltaF, _ := delta.Float64()
	m.logger.WithFields(logrus.Fields{
		"stake":  stake,
		"won":    won,
		"payout": payout,
		"delta":  deltaF,
	}).Info("Outcome applied to bankroll")

	m.publishGauges()
	return nil
}

// ResetDaily zeroes the daily-used counter. Invoked by the scheduler at
// midnight in the configured timezone.
func (m *Manager) ResetDaily() {
	m.mu.Lock()
	defer m.mu.Unlock()

	used, _ := m.dailyUsed.Float64()
	m.dailyUsed = decimal.Zero

	m.logger.WithField("daily_used", used).Info("Daily limit reset")
	metrics.RecordDailyReset()
	m.publishGauges()
}

// publishGauges pushes the current state to Prometheus. Caller holds the lock.
func (m *Manager) publishGauges() {
	balance, _ := m.balance.Float64()
	dailyUsed, _ := m.dailyUsed.Float64()
	totalPL, _ := m.totalPL.Float64()
	metrics.UpdateBankroll(balance, dailyUsed, totalPL)
}

func roundCurrency(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
