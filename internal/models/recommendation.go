package models

import (
	"time"

	"github.com/google/uuid"
)

// RiskTier classifies a recommendation by confidence level
type RiskTier string

const (
	RiskTierLow    RiskTier = "low"
	RiskTierMedium RiskTier = "medium"
	RiskTierHigh   RiskTier = "high"
)

// Recommendation represents one proposed bet for a game. It is immutable
// once returned by the engine; persisting it is the caller's responsibility.
type Recommendation struct {
	ID            uuid.UUID      `json:"id" validate:"required"`
	GameID        string         `json:"game_id" validate:"required"`
	Sport         string         `json:"sport" validate:"required"`
	HomeTeam      string         `json:"home_team"`
	AwayTeam      string         `json:"away_team"`
	StartTime     time.Time      `json:"start_time"`
	Pick          string         `json:"pick" validate:"required"`
	Confidence    float64        `json:"confidence" validate:"required,gt=0,lte=1"`
	ExpectedValue float64        `json:"expected_value"`
	Stake         float64        `json:"stake" validate:"gte=0"`
	Odds          map[string]int `json:"odds" validate:"required,min=1"`
	Reasoning     string         `json:"reasoning"`
	RiskTier      RiskTier       `json:"risk_tier" validate:"required,oneof=low medium high"`
	KellyFraction float64        `json:"kelly_fraction" validate:"gte=0"`
	CreatedAt     time.Time      `json:"created_at"`
}

// TierForConfidence maps a win probability to a risk tier
func TierForConfidence(confidence float64) RiskTier {
	switch {
	case confidence > 0.80:
		return RiskTierLow
	case confidence > 0.70:
		return RiskTierMedium
	default:
		return RiskTierHigh
	}
}
