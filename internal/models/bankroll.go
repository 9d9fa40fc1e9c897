package models

import "time"

// BankrollState is a point-in-time snapshot of the bankroll manager.
// The manager itself holds the mutable state; snapshots are read-only.
type BankrollState struct {
	Balance                   float64   `json:"balance"`
	DailyLimit                float64   `json:"daily_limit"`
	DailyUsed                 float64   `json:"daily_used"`
	KellyFraction             float64   `json:"kelly_fraction"`
	MaxBetFraction            float64   `json:"max_bet_fraction"`
	SuggestedStake            float64   `json:"suggested_stake"` // 2% of balance
	RecommendationsMade       int       `json:"recommendations_made"`
	SuccessfulRecommendations int       `json:"successful_recommendations"`
	TotalProfitLoss           float64   `json:"total_profit_loss"`
	UpdatedAt                 time.Time `json:"updated_at"`
}

// DailyRemaining returns the unused portion of the daily limit
func (s *BankrollState) DailyRemaining() float64 {
	remaining := s.DailyLimit - s.DailyUsed
	if remaining < 0 {
		return 0
	}
	return remaining
}
