// Package feedback maintains the durable record of settled bets and the
// calibration signal derived from it.
package feedback

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	gocache "github.com/patrickmn/go-cache"

	"github.com/yourusername/bet-advisor/internal/config"
	"github.com/yourusername/bet-advisor/internal/logger"
	"github.com/yourusername/bet-advisor/internal/metrics"
	"github.com/yourusername/bet-advisor/internal/models"
	"github.com/yourusername/bet-advisor/internal/odds"
	"github.com/yourusername/bet-advisor/internal/store"
)

// Calibrated confidence bounds on the percentage scale. The clamp stops
// small samples from amplifying or suppressing confidence without limit.
const (
	calibrationFloor   = 50.0
	calibrationCeiling = 99.0
)

// Tracker records settled outcomes, keeps per-bucket accuracy metrics and
// serves calibration factors. In-memory state is authoritative; storage is
// write-through and best effort.
type Tracker struct {
	mu                sync.RWMutex
	outcomes          []models.BetOutcome
	metricsByBucket   map[string]*models.AccuracyMetrics
	featureImportance map[string]float64

	backend  store.OutcomeStore
	cache    *gocache.Cache
	cfg      *config.FeedbackConfig
	logger   *logger.AdvisoryLogger
	validate *validator.Validate
}

// NewTracker builds a tracker seeded from the persisted snapshot. All
// bucket metrics are recomputed from the loaded outcomes, not read from
// storage, so derived state can never drift from the log.
func NewTracker(ctx context.Context, backend store.OutcomeStore, cfg *config.FeedbackConfig, advisoryLogger *logger.AdvisoryLogger) (*Tracker, error) {
	snapshot, err := backend.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading outcome snapshot: %w", err)
	}

	ttl := time.Duration(cfg.CalibrationCacheTTL) * time.Second
	t := &Tracker{
		outcomes:          snapshot.Outcomes,
		metricsByBucket:   make(map[string]*models.AccuracyMetrics),
		featureImportance: snapshot.FeatureImportance,
		backend:           backend,
		cache:             gocache.New(ttl, 2*ttl),
		cfg:               cfg,
		logger:            advisoryLogger,
		validate:          validator.New(),
	}

	for key := range t.bucketKeys() {
		t.recomputeBucket(key)
	}
	return t, nil
}

// RecordOutcome appends a settled bet, recomputes its bucket's metrics
// from scratch, refreshes feature importance and persists the full state.
// A storage failure is logged and counted but does not roll back the
// in-memory append.
func (t *Tracker) RecordOutcome(ctx context.Context, outcome *models.BetOutcome) error {
	if err := t.validate.Struct(outcome); err != nil {
		return fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}
	if err := odds.Validate(outcome.Odds); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.outcomes = append(t.outcomes, *outcome)
	t.recomputeBucket(outcome.BucketKey())
	t.refreshFeatureImportance()

	// Stale factors must not survive a settlement.
	t.cache.Flush()

	start := time.Now()
	if err := t.persist(ctx); err != nil {
		t.logger.WithError(err).Error("Outcome store write failed, in-memory state remains authoritative")
		metrics.RecordStorageWriteFailure()
	}
	metrics.RecordStoreSaveDuration(time.Since(start).Seconds())

	m := t.metricsByBucket[outcome.BucketKey()]
	metrics.UpdateBucket(m.Sport, m.BetType, m.WinRate, m.CalibrationError)
	metrics.RecordOutcome()
	t.logger.LogOutcome(outcome.ID.String(), outcome.Sport, outcome.BetType, outcome.Won(), outcome.Stake, outcome.ProfitLoss)
	return nil
}

// CalibratedConfidence adjusts a raw confidence (percentage scale) by the
// bucket's realized-vs-predicted factor. Unknown buckets pass the value
// through unchanged; known buckets clamp the result to [50, 99].
func (t *Tracker) CalibratedConfidence(sport, betType string, rawConfidence float64) float64 {
	key := models.BucketKey(sport, betType)

	factor, known := t.calibrationFactor(key)
	if !known {
		return rawConfidence
	}

	calibrated := rawConfidence * factor
	if calibrated < calibrationFloor {
		calibrated = calibrationFloor
	}
	if calibrated > calibrationCeiling {
		calibrated = calibrationCeiling
	}

	t.logger.LogCalibration(sport, betType, rawConfidence, calibrated, factor)
	return calibrated
}

// calibrationFactor returns the cached factor for a bucket, computing and
// caching it on a miss. The second return is false for unknown buckets.
func (t *Tracker) calibrationFactor(key string) (float64, bool) {
	if cached, ok := t.cache.Get(key); ok {
		return cached.(float64), true
	}

	t.mu.RLock()
	m, ok := t.metricsByBucket[key]
	if !ok {
		t.mu.RUnlock()
		return 0, false
	}
	factor := m.MeanRealizedConfidence / math.Max(m.MeanPredictedConfidence, 1)
	t.mu.RUnlock()

	t.cache.SetDefault(key, factor)
	return factor, true
}

// Metrics returns the accuracy metrics for one (sport, bet type) bucket.
func (t *Tracker) Metrics(sport, betType string) (*models.AccuracyMetrics, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	m, ok := t.metricsByBucket[models.BucketKey(sport, betType)]
	if !ok {
		return nil, fmt.Errorf("%w: no outcomes for %s/%s", models.ErrNotFound, sport, betType)
	}
	copied := *m
	return &copied, nil
}

// AllMetrics returns every bucket's metrics, ordered by bucket key.
func (t *Tracker) AllMetrics() []models.AccuracyMetrics {
	t.mu.RLock()
	defer t.mu.RUnlock()

	keys := make([]string, 0, len(t.metricsByBucket))
	for key := range t.metricsByBucket {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	all := make([]models.AccuracyMetrics, 0, len(keys))
	for _, key := range keys {
		all = append(all, *t.metricsByBucket[key])
	}
	return all
}

// OutcomeCount returns the number of recorded outcomes.
func (t *Tracker) OutcomeCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.outcomes)
}

// Flush persists the current state. Used by the scheduler as a periodic
// safety net behind the write-through saves.
func (t *Tracker) Flush(ctx context.Context) error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.persist(ctx)
}

// persist writes the full snapshot. Caller holds at least a read lock.
func (t *Tracker) persist(ctx context.Context) error {
	snapshot := &store.Snapshot{
		Version:           store.SnapshotVersion,
		Outcomes:          t.outcomes,
		FeatureImportance: t.featureImportance,
	}
	return t.backend.Save(ctx, snapshot)
}

// bucketKeys returns the set of bucket keys present in the outcome log.
func (t *Tracker) bucketKeys() map[string]struct{} {
	keys := make(map[string]struct{})
	for i := range t.outcomes {
		keys[t.outcomes[i].BucketKey()] = struct{}{}
	}
	return keys
}

// recomputeBucket rebuilds one bucket's metrics from every matching
// outcome. Full recomputation avoids incremental averaging drift; volume
// is human-paced so O(n) per insert is fine. Caller holds the write lock
// (or is the constructor).
func (t *Tracker) recomputeBucket(key string) {
	var bucket []*models.BetOutcome
	for i := range t.outcomes {
		if t.outcomes[i].BucketKey() == key {
			bucket = append(bucket, &t.outcomes[i])
		}
	}
	if len(bucket) == 0 {
		delete(t.metricsByBucket, key)
		return
	}

	m := &models.AccuracyMetrics{
		Sport:   bucket[0].Sport,
		BetType: bucket[0].BetType,
		Total:   len(bucket),
	}

	var sumConfidence, sumStake, sumProfitLoss, sumExpectedEV float64
	for _, outcome := range bucket {
		if outcome.Won() {
			m.Wins++
		} else {
			m.Losses++
		}
		sumConfidence += outcome.Confidence
		sumStake += outcome.Stake
		sumProfitLoss += outcome.ProfitLoss

		if decimalOdds, err := odds.AmericanToDecimal(outcome.Odds); err == nil {
			sumExpectedEV += odds.ExpectedValue(outcome.Confidence/100, decimalOdds)
		}
	}

	total := float64(m.Total)
	m.WinRate = float64(m.Wins) / math.Max(total, 1)
	m.MeanPredictedConfidence = sumConfidence / math.Max(total, 1)
	m.MeanRealizedConfidence = m.WinRate * 100
	m.ROI = sumProfitLoss / math.Max(sumStake, 1)
	m.CalibrationError = math.Abs(m.MeanPredictedConfidence/100 - m.WinRate)
	m.KellyEfficiency = kellyEfficiency(sumProfitLoss, sumStake, sumExpectedEV, total)
	m.UpdatedAt = time.Now()

	t.metricsByBucket[key] = m
}

// kellyEfficiency compares the realized per-bet return against the
// expected per-bet EV at the stated confidences. A score of 1 means the
// bucket earned exactly what its confidence promised; below 0.7 flags
// sizing inefficiency. Clamped to [0, 2] so outlier buckets stay readable.
func kellyEfficiency(sumProfitLoss, sumStake, sumExpectedEV, total float64) float64 {
	meanExpected := sumExpectedEV / math.Max(total, 1)
	if meanExpected <= 0 {
		// No promised edge to measure against.
		return 1
	}
	realized := sumProfitLoss / math.Max(sumStake, 1)
	efficiency := realized / meanExpected
	if efficiency < 0 {
		return 0
	}
	if efficiency > 2 {
		return 2
	}
	return efficiency
}
