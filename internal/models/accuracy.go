package models

import "time"

// AccuracyMetrics holds derived statistics for all outcomes sharing a
// (sport, bet type) bucket. Recomputed in full on every new outcome,
// never incrementally updated.
type AccuracyMetrics struct {
	Sport                   string    `json:"sport"`
	BetType                 string    `json:"bet_type"`
	Total                   int       `json:"total"`
	Wins                    int       `json:"wins"`
	Losses                  int       `json:"losses"`
	WinRate                 float64   `json:"win_rate"`
	MeanPredictedConfidence float64   `json:"mean_predicted_confidence"` // percentage scale
	MeanRealizedConfidence  float64   `json:"mean_realized_confidence"`  // win rate x 100
	ROI                     float64   `json:"roi"`
	KellyEfficiency         float64   `json:"kelly_efficiency"`
	CalibrationError        float64   `json:"calibration_error"`
	UpdatedAt               time.Time `json:"updated_at"`
}

// IsCalibrated reports whether predicted confidence tracks realized accuracy
// within the given tolerance (fractional scale, e.g. 0.15)
func (m *AccuracyMetrics) IsCalibrated(tolerance float64) bool {
	return m.CalibrationError <= tolerance
}
