package feedback

import (
	"fmt"
	"sort"
)

// Thresholds for the improvement rule set. Calibration error is on the
// fractional scale, ROI is a fraction of total stake.
const (
	calibrationErrorThreshold = 0.15
	breakevenWinRate          = 0.52
	roiPauseThreshold         = -0.05
	kellyEfficiencyThreshold  = 0.7
)

// Improvements evaluates the deterministic advice rules per bucket.
// Below the configured sample minimum it returns a single insufficient
// data message instead of noisy small-sample advice.
func (t *Tracker) Improvements() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if len(t.outcomes) < t.cfg.MinSamplesAdvice {
		return []string{fmt.Sprintf(
			"Insufficient data: %d outcomes recorded, %d needed before advice is meaningful",
			len(t.outcomes), t.cfg.MinSamplesAdvice,
		)}
	}

	keys := make([]string, 0, len(t.metricsByBucket))
	for key := range t.metricsByBucket {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var advice []string
	for _, key := range keys {
		m := t.metricsByBucket[key]
		label := fmt.Sprintf("%s/%s", m.Sport, m.BetType)

		if m.CalibrationError > calibrationErrorThreshold {
			advice = append(advice, fmt.Sprintf(
				"%s: confidence is miscalibrated (predicted %.1f%% vs realized %.1f%%); review the confidence source",
				label, m.MeanPredictedConfidence, m.MeanRealizedConfidence,
			))
		}
		if m.WinRate < breakevenWinRate {
			advice = append(advice, fmt.Sprintf(
				"%s: win rate %.1f%% is below the %.0f%% breakeven threshold after vigorish; tighten pick selection",
				label, m.WinRate*100, breakevenWinRate*100,
			))
		}
		if m.ROI < roiPauseThreshold {
			advice = append(advice, fmt.Sprintf(
				"%s: ROI %.1f%% is below %.0f%%; pause this bucket and review before continuing",
				label, m.ROI*100, roiPauseThreshold*100,
			))
		}
		if m.KellyEfficiency < kellyEfficiencyThreshold {
			advice = append(advice, fmt.Sprintf(
				"%s: Kelly efficiency %.2f is below %.1f; stakes are not capturing the stated edge",
				label, m.KellyEfficiency, kellyEfficiencyThreshold,
			))
		}
	}

	if len(advice) == 0 {
		advice = append(advice, "All buckets within tolerance; no changes recommended")
	}
	return advice
}
