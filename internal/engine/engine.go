// Package engine turns raw confidence estimates into risk-bounded bet
// recommendations.
package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yourusername/bet-advisor/internal/config"
	"github.com/yourusername/bet-advisor/internal/logger"
	"github.com/yourusername/bet-advisor/internal/metrics"
	"github.com/yourusername/bet-advisor/internal/models"
	"github.com/yourusername/bet-advisor/internal/odds"
)

// BankrollReader is the read-only view of the bankroll the engine sizes
// stakes against. Analysis never mutates bankroll state.
type BankrollReader interface {
	Status() models.BankrollState
}

// AnalysisInput is one game plus the caller-supplied confidence estimate.
// How the confidence was produced (model, heuristic, human) is not the
// engine's concern.
type AnalysisInput struct {
	Game          models.Game
	Pick          string
	RawConfidence float64
	Odds          map[string]int
}

// Engine computes EV and fractional-Kelly stake sizing for single games
// and ranked slates.
type Engine struct {
	bankroll BankrollReader
	cfg      *config.TradingConfig
	logger   *logger.AdvisoryLogger
}

// NewEngine creates a recommendation engine
func NewEngine(bankroll BankrollReader, cfg *config.TradingConfig, advisoryLogger *logger.AdvisoryLogger) *Engine {
	return &Engine{
		bankroll: bankroll,
		cfg:      cfg,
		logger:   advisoryLogger,
	}
}

// Analyze evaluates one game. Below the confidence threshold it returns
// (nil, nil): a filtered game is not an error. Malformed input returns a
// wrapped ErrInvalidInput.
func (e *Engine) Analyze(input AnalysisInput) (*models.Recommendation, error) {
	if err := e.validateInput(input); err != nil {
		return nil, err
	}

	if input.RawConfidence < e.cfg.ConfidenceThreshold {
		e.logger.LogFiltered(input.Game.ID, input.Game.Sport, input.RawConfidence, e.cfg.ConfidenceThreshold)
		metrics.RecordFiltered()
		return nil, nil
	}

	pickOdds := input.Odds[input.Pick]
	decimalOdds, err := odds.AmericanToDecimal(pickOdds)
	if err != nil {
		return nil, err
	}

	ev := odds.ExpectedValue(input.RawConfidence, decimalOdds)
	rawKelly := odds.KellyFraction(input.RawConfidence, decimalOdds)
	safeKelly := rawKelly * e.cfg.KellyFraction

	state := e.bankroll.Status()
	stake := e.sizeStake(safeKelly, &state)

	tier := models.TierForConfidence(input.RawConfidence)
	rec := &models.Recommendation{
		ID:            uuid.New(),
		GameID:        input.Game.ID,
		Sport:         input.Game.Sport,
		HomeTeam:      input.Game.HomeTeam,
		AwayTeam:      input.Game.AwayTeam,
		StartTime:     input.Game.StartTime,
		Pick:          input.Pick,
		Confidence:    input.RawConfidence,
		ExpectedValue: ev,
		Stake:         stake,
		Odds:          input.Odds,
		Reasoning:     buildReasoning(input.RawConfidence, ev, pickOdds, safeKelly),
		RiskTier:      tier,
		KellyFraction: maxFloat(safeKelly, 0),
		CreatedAt:     time.Now(),
	}

	e.logger.LogRecommendation(rec.GameID, rec.Sport, rec.Pick, rec.Confidence, rec.ExpectedValue, rec.Stake, rec.KellyFraction, string(rec.RiskTier))
	metrics.RecordRecommendation()
	return rec, nil
}

// AnalyzeSlate evaluates a batch of games and returns the top N
// recommendations ranked by expected value, descending. Filtered games
// are skipped; invalid inputs abort the slate.
func (e *Engine) AnalyzeSlate(inputs []AnalysisInput) ([]*models.Recommendation, error) {
	start := time.Now()
	defer func() {
		metrics.RecordAnalysisDuration(time.Since(start).Seconds())
	}()

	recommendations := make([]*models.Recommendation, 0, len(inputs))
	for _, input := range inputs {
		rec, err := e.Analyze(input)
		if err != nil {
			return nil, fmt.Errorf("analyzing game %s: %w", input.Game.ID, err)
		}
		if rec != nil {
			recommendations = append(recommendations, rec)
		}
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].ExpectedValue > recommendations[j].ExpectedValue
	})

	if len(recommendations) > e.cfg.TopN {
		recommendations = recommendations[:e.cfg.TopN]
	}
	return recommendations, nil
}

func (e *Engine) validateInput(input AnalysisInput) error {
	if input.RawConfidence <= 0 || input.RawConfidence >= 1 {
		return fmt.Errorf("%w: confidence must be in (0,1), got %v", models.ErrInvalidInput, input.RawConfidence)
	}
	if input.Game.ID == "" {
		return fmt.Errorf("%w: game id is required", models.ErrInvalidInput)
	}
	if len(input.Odds) == 0 {
		return fmt.Errorf("%w: odds map is empty", models.ErrInvalidInput)
	}
	if _, ok := input.Odds[input.Pick]; !ok {
		return fmt.Errorf("%w: pick %q has no odds quote", models.ErrInvalidInput, input.Pick)
	}
	for side, quote := range input.Odds {
		if err := odds.Validate(quote); err != nil {
			return fmt.Errorf("side %q: %w", side, err)
		}
	}
	return nil
}

// sizeStake clamps the Kelly stake candidate into the configured bounds:
// [minBet, balance*maxBetFraction], then no more than what remains of the
// daily limit. A non-positive Kelly fraction floors at minBet when
// alwaysSuggestMinimum is on, otherwise sizes to zero.
func (e *Engine) sizeStake(safeKelly float64, state *models.BankrollState) float64 {
	if safeKelly <= 0 && !e.cfg.AlwaysSuggestMinimum {
		return 0
	}

	stake := state.Balance * safeKelly
	maxBet := state.Balance * state.MaxBetFraction

	if stake < e.cfg.MinBet {
		stake = e.cfg.MinBet
	}
	if stake > maxBet {
		stake = maxBet
	}
	if remaining := state.DailyRemaining(); stake > remaining {
		stake = remaining
	}
	if stake < 0 {
		stake = 0
	}
	return roundCurrency(stake)
}

func buildReasoning(confidence, ev float64, americanOdds int, safeKelly float64) string {
	sign := "+"
	if americanOdds < 0 {
		sign = ""
	}
	if safeKelly <= 0 {
		return fmt.Sprintf("Confidence %.0f%% at %s%d gives EV %.3f with no Kelly edge; stake floored at the configured minimum", confidence*100, sign, americanOdds, ev)
	}
	return fmt.Sprintf("Confidence %.0f%% at %s%d gives EV %.3f; fractional Kelly suggests %.2f%% of bankroll", confidence*100, sign, americanOdds, ev, safeKelly*100)
}

func roundCurrency(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
