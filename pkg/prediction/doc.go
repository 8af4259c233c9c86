// Package prediction implements the prediction-serving core: request
// fingerprinting, the cache-aside orchestration protocol, the audit log
// accessor, and the Prometheus instrumentation around all of it.
//
// The orchestrator treats the cache as a pure performance optimization.
// Every store write is best-effort and every store read degrades to a
// cache miss on any ambiguity, so prediction correctness never depends
// on Redis availability.
//
// # Basic Usage
//
//	svc := prediction.New(prediction.Config{
//		Provider:     mdl,     // *model.Model, nil if loading failed
//		Store:        manager, // *cache.Manager
//		Audit:        manager,
//		ModelVersion: "v1.0",
//	})
//
//	rec, err := svc.Predict(ctx, prediction.FeatureSet{
//		Year:        2014,
//		MaxPowerBHP: 74,
//		TorqueNM:    190,
//		EngineCC:    1248,
//	})
//
// # Metrics
//
// The package exports Prometheus metrics:
//
//   - predictions_total - Served predictions (hits and misses)
//   - cache_hits_total - Predictions answered from cache
//   - cache_misses_total - Predictions that ran inference
//   - errors_total{error_type} - Errors by category
//   - prediction_duration_seconds - Latency from fingerprint to response
//   - model_loaded - Model liveness gauge, set once at startup
//   - redis_connected - Cache backend liveness gauge, set once at startup
package prediction
