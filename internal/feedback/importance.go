package feedback

import (
	"math"
	"sort"
)

// Minimum observations per feature before its correlation is meaningful.
const minObservationsPerFeature = 5

// FeatureScore pairs a feature name with its importance for ranked output.
type FeatureScore struct {
	Feature string  `json:"feature"`
	Score   float64 `json:"score"`
}

// FeatureImportance returns the current feature-importance map. Below the
// configured sample minimum the map is empty; that is a defined result,
// not an error.
func (t *Tracker) FeatureImportance() map[string]float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	copied := make(map[string]float64, len(t.featureImportance))
	for feature, score := range t.featureImportance {
		copied[feature] = score
	}
	return copied
}

// RankedFeatures returns feature importance sorted descending by score.
// The ranking is advisory input for human strategy review.
func (t *Tracker) RankedFeatures() []FeatureScore {
	scores := t.FeatureImportance()

	ranked := make([]FeatureScore, 0, len(scores))
	for feature, score := range scores {
		ranked = append(ranked, FeatureScore{Feature: feature, Score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score == ranked[j].Score {
			return ranked[i].Feature < ranked[j].Feature
		}
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// refreshFeatureImportance recomputes |Pearson r| between each feature's
// values and the binary win indicator. Features with too few observations
// or no variance are skipped. Caller holds the write lock.
func (t *Tracker) refreshFeatureImportance() {
	scores := make(map[string]float64)
	if len(t.outcomes) < t.cfg.MinSamplesImportance {
		t.featureImportance = scores
		return
	}

	type observations struct {
		values []float64
		wins   []float64
	}
	byFeature := make(map[string]*observations)
	for i := range t.outcomes {
		outcome := &t.outcomes[i]
		win := 0.0
		if outcome.Won() {
			win = 1.0
		}
		for feature, value := range outcome.Features {
			obs, ok := byFeature[feature]
			if !ok {
				obs = &observations{}
				byFeature[feature] = obs
			}
			obs.values = append(obs.values, value)
			obs.wins = append(obs.wins, win)
		}
	}

	for feature, obs := range byFeature {
		if len(obs.values) < minObservationsPerFeature {
			continue
		}
		r, ok := pearson(obs.values, obs.wins)
		if !ok {
			continue
		}
		scores[feature] = math.Abs(r)
	}
	t.featureImportance = scores
}

// pearson computes the Pearson correlation coefficient between two equal
// length series. Returns ok=false when either series has no variance,
// where correlation is undefined.
func pearson(xs, ys []float64) (float64, bool) {
	n := float64(len(xs))
	if n == 0 || len(xs) != len(ys) {
		return 0, false
	}

	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX := sumX / n
	meanY := sumY / n

	var cov, varX, varY float64
	for i := range xs {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0, false
	}
	return cov / math.Sqrt(varX*varY), true
}
