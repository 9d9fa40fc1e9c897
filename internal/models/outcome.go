package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BetOutcome represents a completed, settled bet. Outcomes are append-only;
// they are never mutated or deleted after being recorded.
type BetOutcome struct {
	ID         uuid.UUID          `json:"id" validate:"required"`
	Sport      string             `json:"sport" validate:"required"`
	Matchup    string             `json:"matchup" validate:"required"`
	BetType    string             `json:"bet_type" validate:"required"`
	Predicted  string             `json:"predicted" validate:"required"`
	Actual     string             `json:"actual" validate:"required"`
	Confidence float64            `json:"confidence" validate:"required,gt=0,lte=100"` // percentage scale at prediction time
	Odds       int                `json:"odds" validate:"required"`
	Stake      float64            `json:"stake" validate:"required,gt=0"`
	ProfitLoss float64            `json:"profit_loss"`
	SettledAt  time.Time          `json:"settled_at" validate:"required"`
	Features   map[string]float64 `json:"features,omitempty"`
}

// Won reports whether the predicted selection matched the actual outcome
func (o *BetOutcome) Won() bool {
	return strings.EqualFold(strings.TrimSpace(o.Predicted), strings.TrimSpace(o.Actual))
}

// ROI returns the return on stake as a fraction
func (o *BetOutcome) ROI() float64 {
	if o.Stake == 0 {
		return 0
	}
	return o.ProfitLoss / o.Stake
}

// BucketKey returns the (sport, bet type) aggregation key
func (o *BetOutcome) BucketKey() string {
	return BucketKey(o.Sport, o.BetType)
}

// BucketKey builds the aggregation key for a (sport, bet type) pair
func BucketKey(sport, betType string) string {
	return fmt.Sprintf("%s|%s", strings.ToLower(sport), strings.ToLower(betType))
}
