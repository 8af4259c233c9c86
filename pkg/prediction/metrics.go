package prediction

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the prediction orchestrator. Updated exclusively
// by the Service; the two liveness gauges are set once at startup.
var (
	predictionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "predictions_total",
		Help: "Total number of served predictions",
	})

	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total number of predictions answered from cache",
	})

	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total number of predictions that ran inference",
	})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "errors_total",
		Help: "Total number of prediction errors by category",
	}, []string{"error_type"}) // "model_not_loaded", "prediction_error"

	predictionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "prediction_duration_seconds",
		Help:    "Prediction latency from fingerprint to response",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
	})

	// ModelLoaded reports whether the model artifact loaded at startup.
	ModelLoaded = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "model_loaded",
		Help: "Model loaded (1) or not (0)",
	})

	// RedisConnected reports whether the cache backend was reachable at startup.
	RedisConnected = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "redis_connected",
		Help: "Cache backend reachable (1) or not (0)",
	})
)

// Error type labels for errors_total.
const (
	errTypeModelNotLoaded = "model_not_loaded"
	errTypePrediction     = "prediction_error"
)
