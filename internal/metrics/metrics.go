// Package metrics defines the Prometheus collectors for analyses and the
// model lifecycle.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "citescope_platform_analyses_total",
			Help: "Platform analyses by outcome",
		},
		[]string{"platform", "status"},
	)

	AnalysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "citescope_analysis_duration_seconds",
			Help:    "Duration of a full multi-platform analysis",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"mode"},
	)

	MLFallbackTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "citescope_ml_fallback_total",
			Help: "Predictions served by the heuristic fallback",
		},
		[]string{"platform"},
	)

	ModelDegradedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "citescope_model_degraded_total",
			Help: "Platforms switched to fallback mode, by reason",
		},
		[]string{"platform", "reason"},
	)

	ModelTrainingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "citescope_model_trainings_total",
			Help: "Model trainings by trigger (initial, rebuild, retrain)",
		},
		[]string{"platform", "trigger"},
	)

	ModelTrainingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "citescope_model_training_duration_seconds",
			Help:    "Duration of model fits",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"platform"},
	)

	RetrainRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "citescope_retrain_rejected_total",
			Help: "Retrain requests rejected for too few examples",
		},
		[]string{"platform"},
	)

	ReportCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "citescope_report_cache_hits_total",
			Help: "Analyze requests served from the report cache",
		},
	)

	ReportCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "citescope_report_cache_misses_total",
			Help: "Analyze requests that missed the report cache",
		},
	)
)
