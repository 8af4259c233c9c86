// Package metrics provides the centralized Prometheus registry and the
// pull-based exposition handler. The metrics themselves are defined in
// their owning packages (prediction, cache, api) via promauto to keep
// modularity and avoid circular dependencies.
//
// This package documents the full metric inventory.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the default Prometheus registerer used by the service.
// All metrics are automatically registered via promauto in their
// respective packages.
var Registry = prometheus.DefaultRegisterer

// Handler returns the Prometheus exposition handler backing the
// /metrics endpoint. Pull-based only; the service never pushes.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Metrics Documentation
//
// Prediction Metrics (pkg/prediction):
//   - predictions_total (Counter): Served predictions, hits and misses
//   - cache_hits_total (Counter): Predictions answered from cache
//   - cache_misses_total (Counter): Predictions that ran inference
//   - errors_total{error_type} (Counter): Errors by category
//     (model_not_loaded, prediction_error)
//   - prediction_duration_seconds (Histogram): Latency from fingerprint
//     to response
//   - model_loaded (Gauge): Model loaded at startup (1) or not (0)
//   - redis_connected (Gauge): Cache backend reachable at startup
//
// Cache Metrics (pkg/cache):
//   - cache_errors_total{operation} (Counter): Store operation errors
//     (get, set, put_log, get_log)
//
// HTTP Metrics (internal/api):
//   - http_requests_total{method, path, status} (Counter)
//   - http_request_duration_seconds{method, path} (Histogram)
//   - http_requests_in_flight (Gauge)
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(cache_hits_total[5m])) /
//   (sum(rate(cache_hits_total[5m])) + sum(rate(cache_misses_total[5m])))
//
//   # Error Rate by Category
//   rate(errors_total[5m])
//
//   # P95 Prediction Latency
//   histogram_quantile(0.95, rate(prediction_duration_seconds_bucket[5m]))
//
//   # Liveness
//   model_loaded == 0 or redis_connected == 0
