// Package odds provides American odds conversion and bet valuation math.
package odds

import (
	"fmt"
	"math"

	"github.com/yourusername/bet-advisor/internal/models"
)

// MinAmericanMagnitude is the smallest legal magnitude for American odds.
// By convention quotes are always +100 or longer, or -100 or shorter.
const MinAmericanMagnitude = 100

// Validate checks that an American odds quote is well-formed
func Validate(american int) error {
	if american == 0 {
		return fmt.Errorf("%w: American odds cannot be 0", models.ErrInvalidInput)
	}
	if american > -MinAmericanMagnitude && american < MinAmericanMagnitude {
		return fmt.Errorf("%w: American odds magnitude must be >= %d, got %d", models.ErrInvalidInput, MinAmericanMagnitude, american)
	}
	return nil
}

// AmericanToDecimal converts American odds to decimal odds
// American +150 → Decimal 2.50
// American -150 → Decimal 1.67
func AmericanToDecimal(american int) (float64, error) {
	if err := Validate(american); err != nil {
		return 0, err
	}
	if american > 0 {
		return (float64(american) / 100.0) + 1.0, nil
	}
	return (100.0 / float64(-american)) + 1.0, nil
}

// ImpliedProbability returns the break-even win probability for an
// American odds quote
func ImpliedProbability(american int) (float64, error) {
	decimal, err := AmericanToDecimal(american)
	if err != nil {
		return 0, err
	}
	return 1.0 / decimal, nil
}

// ExpectedValue computes per-unit expected value for a bet at the given
// decimal odds, rounded to 3 decimal places.
// EV = p*(decimal-1) - (1-p)
func ExpectedValue(confidence, decimal float64) float64 {
	ev := confidence*(decimal-1.0) - (1.0 - confidence)
	return math.Round(ev*1000) / 1000
}

// KellyFraction returns the raw Kelly criterion bankroll fraction
// f = (b*p - q) / b with b = decimal - 1. At pick'em odds (b = 0) the
// edge is undefined and the fraction is 0.
func KellyFraction(confidence, decimal float64) float64 {
	b := decimal - 1.0
	if b == 0 {
		return 0
	}
	p := confidence
	q := 1.0 - p
	return (b*p - q) / b
}
