// Package metrics provides the centralized Prometheus metrics registry for the advisor.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	RecommendationsEmittedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bet_advisor",
		Name:      "recommendations_emitted_total",
		Help:      "Total number of recommendations emitted",
	})
	RecommendationsFilteredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bet_advisor",
		Name:      "recommendations_filtered_total",
		Help:      "Total number of games filtered below the confidence threshold",
	})
	OutcomesRecordedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bet_advisor",
		Name:      "outcomes_recorded_total",
		Help:      "Total number of settled bet outcomes recorded",
	})
	StorageWriteFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bet_advisor",
		Name:      "storage_write_failures_total",
		Help:      "Total number of outcome store write failures",
	})
	DailyResetsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bet_advisor",
		Name:      "daily_resets_total",
		Help:      "Total number of daily-limit resets performed",
	})
)

// Gauge metrics
var (
	BankrollBalance = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "bet_advisor",
		Name:      "bankroll_balance",
		Help:      "Current bankroll balance in currency units",
	})
	DailyUsed = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "bet_advisor",
		Name:      "daily_used",
		Help:      "Amount of the daily limit consumed today",
	})
	TotalProfitLoss = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "bet_advisor",
		Name:      "total_profit_loss",
		Help:      "Cumulative profit and loss across recorded outcomes",
	})
	BucketWinRate = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "bet_advisor",
		Name:      "bucket_win_rate",
		Help:      "Win rate per (sport, bet type) bucket",
	}, []string{"sport", "bet_type"})
	BucketCalibrationError = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "bet_advisor",
		Name:      "bucket_calibration_error",
		Help:      "Calibration error per (sport, bet type) bucket",
	}, []string{"sport", "bet_type"})
)

// Histogram metrics
var (
	AnalysisDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "bet_advisor",
		Name:      "analysis_duration_seconds",
		Help:      "Duration of slate analysis in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	StoreSaveDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "bet_advisor",
		Name:      "store_save_duration_seconds",
		Help:      "Duration of outcome store writes in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(RecommendationsEmittedTotal)
		registry.MustRegister(RecommendationsFilteredTotal)
		registry.MustRegister(OutcomesRecordedTotal)
		registry.MustRegister(StorageWriteFailuresTotal)
		registry.MustRegister(DailyResetsTotal)

		registry.MustRegister(BankrollBalance)
		registry.MustRegister(DailyUsed)
		registry.MustRegister(TotalProfitLoss)
		registry.MustRegister(BucketWinRate)
		registry.MustRegister(BucketCalibrationError)

		registry.MustRegister(AnalysisDuration)
		registry.MustRegister(StoreSaveDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordRecommendation records an emitted recommendation.
func RecordRecommendation() {
	RecommendationsEmittedTotal.Inc()
}

// RecordFiltered records a game filtered below the confidence threshold.
func RecordFiltered() {
	RecommendationsFilteredTotal.Inc()
}

// RecordOutcome records a settled outcome event.
func RecordOutcome() {
	OutcomesRecordedTotal.Inc()
}

// RecordStorageWriteFailure records a failed store write.
func RecordStorageWriteFailure() {
	StorageWriteFailuresTotal.Inc()
}

// RecordDailyReset records a daily-limit reset.
func RecordDailyReset() {
	DailyResetsTotal.Inc()
}

// UpdateBankroll updates the bankroll gauges.
func UpdateBankroll(balance, dailyUsed, totalPL float64) {
	BankrollBalance.Set(balance)
	DailyUsed.Set(dailyUsed)
	TotalProfitLoss.Set(totalPL)
}

// UpdateBucket updates the per-bucket accuracy gauges.
func UpdateBucket(sport, betType string, winRate, calibrationError float64) {
	BucketWinRate.WithLabelValues(sport, betType).Set(winRate)
	BucketCalibrationError.WithLabelValues(sport, betType).Set(calibrationError)
}

// RecordAnalysisDuration records slate analysis latency.
func RecordAnalysisDuration(durationSeconds float64) {
	AnalysisDuration.Observe(durationSeconds)
}

// RecordStoreSaveDuration records store write latency.
func RecordStoreSaveDuration(durationSeconds float64) {
	StoreSaveDuration.Observe(durationSeconds)
}
