// Package testutil provides in-memory fakes for the prediction service's
// collaborators: stores with TTL bookkeeping and call tracking, failing
// store variants, and a stub inference provider.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/atlasml/carprice-api/pkg/prediction"
)

const auditTTLFactor = 24

type entry struct {
	rec     prediction.Record
	expires time.Time
}

// MemoryStore implements prediction.Store and prediction.AuditLog in
// memory, with the same TTL relationship as the Redis manager (audit
// entries live 24x longer). The clock can be overridden to test expiry
// without sleeping.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	records map[string]entry
	logs    map[string]entry

	// Call counters
	GetCalls    int
	SetCalls    int
	PutLogCalls int
	GetLogCalls int
}

var (
	_ prediction.Store    = (*MemoryStore)(nil)
	_ prediction.AuditLog = (*MemoryStore)(nil)
)

// NewMemoryStore creates a store with the given cache TTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		records: make(map[string]entry),
		logs:    make(map[string]entry),
	}
}

// SetClock overrides the store's clock.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Get returns a copy of the stored record, mirroring the deserialization
// a real backend performs: callers mutating the result must not affect
// the stored copy.
func (s *MemoryStore) Get(_ context.Context, fingerprint string) (*prediction.Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.GetCalls++
	return s.lookup(s.records, fingerprint)
}

// Set stores a record under its fingerprint with the cache TTL.
func (s *MemoryStore) Set(_ context.Context, fingerprint string, rec *prediction.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SetCalls++
	s.records[fingerprint] = entry{rec: *rec, expires: s.now().Add(s.ttl)}
	return nil
}

// PutLog stores a record under its id with the audit TTL.
func (s *MemoryStore) PutLog(_ context.Context, id string, rec *prediction.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.PutLogCalls++
	s.logs[id] = entry{rec: *rec, expires: s.now().Add(s.ttl * auditTTLFactor)}
	return nil
}

// GetLog returns a copy of the stored audit record.
func (s *MemoryStore) GetLog(_ context.Context, id string) (*prediction.Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.GetLogCalls++
	return s.lookup(s.logs, id)
}

func (s *MemoryStore) lookup(m map[string]entry, key string) (*prediction.Record, bool, error) {
	e, ok := m[key]
	if !ok || s.now().After(e.expires) {
		return nil, false, nil
	}
	rec := e.rec
	return &rec, true, nil
}

// FailingStore implements prediction.Store and prediction.AuditLog with
// every operation returning Err, simulating an unreachable backend.
type FailingStore struct {
	Err error

	mu          sync.Mutex
	GetCalls    int
	SetCalls    int
	PutLogCalls int
	GetLogCalls int
}

var (
	_ prediction.Store    = (*FailingStore)(nil)
	_ prediction.AuditLog = (*FailingStore)(nil)
)

func (s *FailingStore) Get(context.Context, string) (*prediction.Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.GetCalls++
	return nil, false, s.Err
}

func (s *FailingStore) Set(context.Context, string, *prediction.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SetCalls++
	return s.Err
}

func (s *FailingStore) PutLog(context.Context, string, *prediction.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.PutLogCalls++
	return s.Err
}

func (s *FailingStore) GetLog(context.Context, string) (*prediction.Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.GetLogCalls++
	return nil, false, s.Err
}

// StubProvider is a fixed-output inference provider.
type StubProvider struct {
	Price float64
	Err   error

	mu    sync.Mutex
	Calls int
}

var _ prediction.Provider = (*StubProvider)(nil)

func (p *StubProvider) Predict(prediction.FeatureVector) (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Calls++
	if p.Err != nil {
		return 0, p.Err
	}
	return p.Price, nil
}

// PredictCalls returns how many times Predict ran.
func (p *StubProvider) PredictCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Calls
}
