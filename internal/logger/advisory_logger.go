// Package logger provides advisory-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// AdvisoryLogger provides dedicated logging for recommendation and
// settlement events.
type AdvisoryLogger struct {
	*logrus.Entry
}

// NewAdvisoryLogger creates a new advisory logger.
func NewAdvisoryLogger(baseLogger *logrus.Logger) *AdvisoryLogger {
	return &AdvisoryLogger{
		Entry: baseLogger.WithField("component", "advisory"),
	}
}

// LogRecommendation logs an emitted recommendation.
func (al *AdvisoryLogger) LogRecommendation(gameID, sport, pick string, confidence, expectedValue, stake, kellyFraction float64, riskTier string) {
	al.WithFields(logrus.Fields{
		"game_id":        gameID,
		"sport":          sport,
		"pick":           pick,
		"confidence":     confidence,
		"expected_value": expectedValue,
		"stake":          stake,
		"kelly_fraction": kellyFraction,
		"risk_tier":      riskTier,
	}).Info("Recommendation emitted")
}

// LogFiltered logs a game filtered out below the confidence threshold.
func (al *AdvisoryLogger) LogFiltered(gameID, sport string, confidence, threshold float64) {
	al.WithFields(logrus.Fields{
		"game_id":    gameID,
		"sport":      sport,
		"confidence": confidence,
		"threshold":  threshold,
	}).Debug("Game below confidence threshold, no recommendation")
}

// LogOutcome logs a recorded bet outcome.
func (al *AdvisoryLogger) LogOutcome(outcomeID, sport, betType string, won bool, stake, profitLoss float64) {
	al.WithFields(logrus.Fields{
		"outcome_id":  outcomeID,
		"sport":       sport,
		"bet_type":    betType,
		"won":         won,
		"stake":       stake,
		"profit_loss": profitLoss,
		"event_type":  "settlement",
	}).Info("Bet outcome recorded")
}

// LogCalibration logs a calibration adjustment applied to raw confidence.
func (al *AdvisoryLogger) LogCalibration(sport, betType string, rawConfidence, calibrated, factor float64) {
	al.WithFields(logrus.Fields{
		"sport":          sport,
		"bet_type":       betType,
		"raw_confidence": rawConfidence,
		"calibrated":     calibrated,
		"factor":         factor,
	}).Debug("Calibration applied")
}

// LogBankrollChange logs a bankroll balance mutation.
func (al *AdvisoryLogger) LogBankrollChange(oldBalance, newBalance float64, reason string) {
	al.WithFields(logrus.Fields{
		"old_balance": oldBalance,
		"new_balance": newBalance,
		"reason":      reason,
	}).Info("Bankroll updated")
}
