package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"github.com/atlasml/carprice-api/pkg/prediction"
)

const (
	predictionKeyPrefix = "prediction:"
	logKeyPrefix        = "log:"

	// auditTTLFactor extends the audit window past the cache window so
	// a record stays retrievable by id after its cache entry expired.
	auditTTLFactor = 24
)

var cacheErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "cache_errors_total",
	Help: "Total number of cache store operation errors",
}, []string{"operation"}) // "get", "set", "put_log", "get_log"

// Manager implements the prediction cache and the audit log on a shared
// Redis backend. Safe for concurrent use.
type Manager struct {
	redis *redis.Client
	ttl   time.Duration
}

var (
	_ prediction.Store    = (*Manager)(nil)
	_ prediction.AuditLog = (*Manager)(nil)
)

// NewManager creates a store with the given cache TTL. The audit TTL is
// fixed at 24x the cache TTL.
func NewManager(redisClient *redis.Client, ttl time.Duration) *Manager {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	if ttl <= 0 {
		panic("cache ttl must be positive")
	}
	return &Manager{
		redis: redisClient,
		ttl:   ttl,
	}
}

// TTL returns the configured cache TTL.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// AuditTTL returns the audit log TTL.
func (m *Manager) AuditTTL() time.Duration {
	return m.ttl * auditTTLFactor
}

// Get retrieves a cached record by fingerprint. A missing key and an
// expired key both report found=false without error.
func (m *Manager) Get(ctx context.Context, fingerprint string) (*prediction.Record, bool, error) {
	rec, found, err := m.get(ctx, predictionKeyPrefix+fingerprint)
	if err != nil {
		cacheErrors.WithLabelValues("get").Inc()
	}
	return rec, found, err
}

// Set stores a record under its fingerprint with the cache TTL.
func (m *Manager) Set(ctx context.Context, fingerprint string, rec *prediction.Record) error {
	if err := m.set(ctx, predictionKeyPrefix+fingerprint, rec, m.ttl); err != nil {
		cacheErrors.WithLabelValues("set").Inc()
		return err
	}
	return nil
}

// PutLog stores a record under its prediction identifier with the audit TTL.
func (m *Manager) PutLog(ctx context.Context, id string, rec *prediction.Record) error {
	if err := m.set(ctx, logKeyPrefix+id, rec, m.AuditTTL()); err != nil {
		cacheErrors.WithLabelValues("put_log").Inc()
		return err
	}
	return nil
}

// GetLog retrieves an audit record by prediction identifier.
func (m *Manager) GetLog(ctx context.Context, id string) (*prediction.Record, bool, error) {
	rec, found, err := m.get(ctx, logKeyPrefix+id)
	if err != nil {
		cacheErrors.WithLabelValues("get_log").Inc()
	}
	return rec, found, err
}

func (m *Manager) get(ctx context.Context, key string) (*prediction.Record, bool, error) {
	data, err := m.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var rec prediction.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, false, fmt.Errorf("unmarshal record: %w", err)
	}
	return &rec, true, nil
}

func (m *Manager) set(ctx context.Context, key string, rec *prediction.Record, ttl time.Duration) error {
	if rec == nil {
		return fmt.Errorf("record cannot be nil")
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	if err := m.redis.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
