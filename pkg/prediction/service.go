package prediction

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Provider wraps the loaded regression model. Predict is synchronous,
// CPU-bound and side-effect-free.
type Provider interface {
	Predict(v FeatureVector) (float64, error)
}

// Store is the short-lived prediction cache keyed by fingerprint.
// Get reports found=false on a miss; the TTL is fixed at construction.
type Store interface {
	Get(ctx context.Context, fingerprint string) (rec *Record, found bool, err error)
	Set(ctx context.Context, fingerprint string, rec *Record) error
}

// AuditLog is the longer-lived record store keyed by prediction
// identifier, independent of the cache's lifetime.
type AuditLog interface {
	PutLog(ctx context.Context, id string, rec *Record) error
	GetLog(ctx context.Context, id string) (rec *Record, found bool, err error)
}

// Config holds the orchestrator dependencies, built once at startup.
type Config struct {
	// Provider is nil when the model artifact failed to load; the
	// service then consistently reports unavailability.
	Provider Provider

	Store Store
	Audit AuditLog

	// ModelVersion is the tag stamped into every record.
	ModelVersion string
}

// Service orchestrates the cache-aside prediction protocol. Safe for
// concurrent use; all collaborators are shared and thread-safe. There
// is no guard around the read/compute/write sequence, so concurrent
// identical requests may both miss and both run inference (last write
// wins, redundant work only).
type Service struct {
	provider Provider
	store    Store
	audit    AuditLog
	version  string
	logger   zerolog.Logger
	now      func() time.Time
}

// New creates the orchestrator.
func New(cfg Config) *Service {
	if cfg.Store == nil {
		panic("prediction store cannot be nil")
	}
	if cfg.Audit == nil {
		panic("audit log cannot be nil")
	}
	return &Service{
		provider: cfg.Provider,
		store:    cfg.Store,
		audit:    cfg.Audit,
		version:  cfg.ModelVersion,
		logger:   log.With().Str("component", "prediction").Logger(),
		now:      time.Now,
	}
}

// ModelLoaded reports whether the inference provider is available.
func (s *Service) ModelLoaded() bool {
	return s.provider != nil
}

// ModelVersion returns the active model version tag.
func (s *Service) ModelVersion() string {
	return s.version
}

// Predict serves one prediction for an already validated feature set.
//
// Protocol: preflight provider check, fingerprint, cache read (failures
// downgrade to a miss), then on miss: inference, record assembly,
// best-effort cache and audit writes. Returns ErrModelNotLoaded without
// touching any store when the provider is absent.
func (s *Service) Predict(ctx context.Context, features FeatureSet) (*Record, error) {
	if s.provider == nil {
		errorsTotal.WithLabelValues(errTypeModelNotLoaded).Inc()
		return nil, ErrModelNotLoaded
	}

	start := s.now()
	fingerprint := Fingerprint(features)

	if rec, ok := s.cacheLookup(ctx, fingerprint); ok {
		// Presentation-only overrides, never re-persisted: the stored
		// copy keeps Cached=false and its original identifier. Each
		// response carries its own prediction id; the audit log remains
		// addressed by the id minted when the record was created.
		rec.Cached = true
		rec.PredictionID = NewPredictionID(s.now())
		cacheHits.Inc()
		s.served(start)
		s.logger.Info().
			Str("fingerprint", fingerprint).
			Str("prediction_id", rec.PredictionID).
			Msg("cache hit")
		return rec, nil
	}

	cacheMisses.Inc()

	price, err := s.provider.Predict(features.Vector())
	if err != nil {
		errorsTotal.WithLabelValues(errTypePrediction).Inc()
		s.logger.Error().Err(err).Int("year", features.Year).Msg("inference failed")
		return nil, fmt.Errorf("predict: %w", err)
	}

	now := s.now()
	rec := &Record{
		PredictedPrice: RoundPrice(price),
		Currency:       CurrencyMAD,
		InputFeatures:  features,
		ModelVersion:   s.version,
		Cached:         false,
		PredictionID:   NewPredictionID(now),
		Timestamp:      now.Format(time.RFC3339Nano),
	}

	// Both writes are best-effort: a store failure must never fail the
	// request.
	if err := s.store.Set(ctx, fingerprint, rec); err != nil {
		s.logger.Warn().Err(err).Str("fingerprint", fingerprint).Msg("cache write failed")
	}
	if err := s.audit.PutLog(ctx, rec.PredictionID, rec); err != nil {
		s.logger.Warn().Err(err).Str("prediction_id", rec.PredictionID).Msg("audit write failed")
	}

	s.served(start)
	s.logger.Info().
		Float64("price", rec.PredictedPrice).
		Int("year", features.Year).
		Str("prediction_id", rec.PredictionID).
		Bool("cache_hit", false).
		Msg("prediction served")
	return rec, nil
}

// GetLog retrieves an audit record by prediction identifier. Returns
// ErrLogNotFound once the audit TTL has elapsed or if the record was
// never written, and ErrStoreUnavailable when the store is unreachable.
func (s *Service) GetLog(ctx context.Context, id string) (*Record, error) {
	rec, found, err := s.audit.GetLog(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrLogNotFound, id)
	}
	return rec, nil
}

// cacheLookup reads the cache and downgrades every failure to a miss.
func (s *Service) cacheLookup(ctx context.Context, fingerprint string) (*Record, bool) {
	rec, found, err := s.store.Get(ctx, fingerprint)
	if err != nil {
		s.logger.Warn().Err(err).Str("fingerprint", fingerprint).Msg("cache read failed, treating as miss")
		return nil, false
	}
	if !found || rec == nil {
		return nil, false
	}
	return rec, true
}

func (s *Service) served(start time.Time) {
	predictionsTotal.Inc()
	predictionDuration.Observe(s.now().Sub(start).Seconds())
}
