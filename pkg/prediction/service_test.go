package prediction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/atlasml/carprice-api/internal/testutil"
	"github.com/atlasml/carprice-api/pkg/prediction"
)

var exampleFeatures = prediction.FeatureSet{
	Year:        2014,
	MaxPowerBHP: 74,
	TorqueNM:    190,
	EngineCC:    1248,
}

func newService(provider prediction.Provider, store *testutil.MemoryStore) *prediction.Service {
	return prediction.New(prediction.Config{
		Provider:     provider,
		Store:        store,
		Audit:        store,
		ModelVersion: "v1.0",
	})
}

func TestService_CacheAside(t *testing.T) {
	store := testutil.NewMemoryStore(5 * time.Minute)
	provider := &testutil.StubProvider{Price: 52347.129}
	svc := newService(provider, store)
	ctx := context.Background()

	first, err := svc.Predict(ctx, exampleFeatures)
	if err != nil {
		t.Fatalf("first Predict failed: %v", err)
	}
	if first.Cached {
		t.Error("first prediction reported cached=true")
	}
	if first.PredictedPrice != 52347.13 {
		t.Errorf("first PredictedPrice = %v, want 52347.13", first.PredictedPrice)
	}
	if first.Currency != "MAD" {
		t.Errorf("Currency = %q, want MAD", first.Currency)
	}
	if first.ModelVersion != "v1.0" {
		t.Errorf("ModelVersion = %q, want v1.0", first.ModelVersion)
	}
	if first.PredictionID == "" {
		t.Error("first prediction has empty id")
	}
	if first.InputFeatures != exampleFeatures {
		t.Errorf("InputFeatures = %+v, want %+v", first.InputFeatures, exampleFeatures)
	}

	second, err := svc.Predict(ctx, exampleFeatures)
	if err != nil {
		t.Fatalf("second Predict failed: %v", err)
	}
	if !second.Cached {
		t.Error("second prediction reported cached=false")
	}
	if second.PredictedPrice != first.PredictedPrice {
		t.Errorf("prices differ: %v != %v", second.PredictedPrice, first.PredictedPrice)
	}
	if second.Currency != "MAD" {
		t.Errorf("second Currency = %q, want MAD", second.Currency)
	}
	if second.PredictionID == first.PredictionID {
		t.Error("cache hit reused the stored prediction id")
	}

	if got := provider.PredictCalls(); got != 1 {
		t.Errorf("provider ran %d times, want 1", got)
	}
	if store.SetCalls != 1 {
		t.Errorf("cache writes = %d, want 1", store.SetCalls)
	}
	if store.PutLogCalls != 1 {
		t.Errorf("audit writes = %d, want 1", store.PutLogCalls)
	}
}

func TestService_CacheHitDoesNotMutateStore(t *testing.T) {
	store := testutil.NewMemoryStore(5 * time.Minute)
	svc := newService(&testutil.StubProvider{Price: 40000}, store)
	ctx := context.Background()

	first, err := svc.Predict(ctx, exampleFeatures)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	// Two hits in a row: the stored record must keep cached=false and
	// its original id, so every hit serves a fresh override.
	for i := 0; i < 2; i++ {
		hit, err := svc.Predict(ctx, exampleFeatures)
		if err != nil {
			t.Fatalf("hit %d failed: %v", i, err)
		}
		if !hit.Cached {
			t.Errorf("hit %d reported cached=false", i)
		}
	}

	// The audit copy is still the creation-time record.
	logged, err := svc.GetLog(ctx, first.PredictionID)
	if err != nil {
		t.Fatalf("GetLog failed: %v", err)
	}
	if logged.Cached {
		t.Error("audit record has cached=true")
	}
	if logged.PredictionID != first.PredictionID {
		t.Errorf("audit record id = %s, want %s", logged.PredictionID, first.PredictionID)
	}
}

func TestService_DegradesWithoutStore(t *testing.T) {
	failing := &testutil.FailingStore{Err: errors.New("connection refused")}
	provider := &testutil.StubProvider{Price: 61000}
	svc := prediction.New(prediction.Config{
		Provider:     provider,
		Store:        failing,
		Audit:        failing,
		ModelVersion: "v1.0",
	})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		rec, err := svc.Predict(ctx, exampleFeatures)
		if err != nil {
			t.Fatalf("Predict %d failed with unreachable store: %v", i, err)
		}
		if rec.Cached {
			t.Errorf("Predict %d reported cached=true with unreachable store", i)
		}
		if rec.PredictedPrice != 61000 {
			t.Errorf("Predict %d price = %v, want 61000", i, rec.PredictedPrice)
		}
	}

	// Every request attempted the full read/write cycle
	if failing.GetCalls != 3 || failing.SetCalls != 3 || failing.PutLogCalls != 3 {
		t.Errorf("store calls get=%d set=%d putlog=%d, want 3 each",
			failing.GetCalls, failing.SetCalls, failing.PutLogCalls)
	}
}

func TestService_ModelNotLoaded(t *testing.T) {
	store := testutil.NewMemoryStore(5 * time.Minute)
	svc := newService(nil, store)

	_, err := svc.Predict(context.Background(), exampleFeatures)
	if !errors.Is(err, prediction.ErrModelNotLoaded) {
		t.Fatalf("Predict error = %v, want ErrModelNotLoaded", err)
	}

	// Preflight failure: no store interaction at all
	if store.GetCalls != 0 || store.SetCalls != 0 || store.PutLogCalls != 0 {
		t.Errorf("store touched without model: get=%d set=%d putlog=%d",
			store.GetCalls, store.SetCalls, store.PutLogCalls)
	}

	if loaded := svc.ModelLoaded(); loaded {
		t.Error("ModelLoaded() = true with nil provider")
	}
}

func TestService_InferenceFailure(t *testing.T) {
	store := testutil.NewMemoryStore(5 * time.Minute)
	provider := &testutil.StubProvider{Err: errors.New("artifact corrupted")}
	svc := newService(provider, store)

	_, err := svc.Predict(context.Background(), exampleFeatures)
	if err == nil {
		t.Fatal("Predict succeeded with failing provider")
	}
	if errors.Is(err, prediction.ErrModelNotLoaded) {
		t.Errorf("inference failure classified as model-not-loaded: %v", err)
	}

	// No record, so no writes
	if store.SetCalls != 0 || store.PutLogCalls != 0 {
		t.Errorf("writes after failed inference: set=%d putlog=%d", store.SetCalls, store.PutLogCalls)
	}
}

func TestService_AuditIndependentOfCacheTTL(t *testing.T) {
	ttl := time.Minute
	store := testutil.NewMemoryStore(ttl)
	svc := newService(&testutil.StubProvider{Price: 45000}, store)
	ctx := context.Background()

	base := time.Now()
	clock := base
	store.SetClock(func() time.Time { return clock })

	rec, err := svc.Predict(ctx, exampleFeatures)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	// Advance past the cache window but well inside the 24x audit window
	clock = base.Add(2 * ttl)

	miss, err := svc.Predict(ctx, exampleFeatures)
	if err != nil {
		t.Fatalf("Predict after expiry failed: %v", err)
	}
	if miss.Cached {
		t.Error("prediction after cache expiry reported cached=true")
	}

	logged, err := svc.GetLog(ctx, rec.PredictionID)
	if err != nil {
		t.Fatalf("GetLog after cache expiry failed: %v", err)
	}
	if logged.PredictedPrice != rec.PredictedPrice {
		t.Errorf("audit price = %v, want %v", logged.PredictedPrice, rec.PredictedPrice)
	}

	// Past the audit window the record is gone
	clock = base.Add(25 * ttl)
	if _, err := svc.GetLog(ctx, rec.PredictionID); !errors.Is(err, prediction.ErrLogNotFound) {
		t.Errorf("GetLog after audit expiry = %v, want ErrLogNotFound", err)
	}
}

func TestService_GetLog(t *testing.T) {
	store := testutil.NewMemoryStore(time.Minute)
	svc := newService(&testutil.StubProvider{Price: 39000}, store)
	ctx := context.Background()

	if _, err := svc.GetLog(ctx, "deadbeef00000000"); !errors.Is(err, prediction.ErrLogNotFound) {
		t.Errorf("GetLog unknown id = %v, want ErrLogNotFound", err)
	}

	rec, err := svc.Predict(ctx, exampleFeatures)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	logged, err := svc.GetLog(ctx, rec.PredictionID)
	if err != nil {
		t.Fatalf("GetLog failed: %v", err)
	}
	if logged.InputFeatures != exampleFeatures {
		t.Errorf("logged features = %+v, want %+v", logged.InputFeatures, exampleFeatures)
	}
}

func TestService_GetLog_StoreUnavailable(t *testing.T) {
	failing := &testutil.FailingStore{Err: errors.New("connection refused")}
	svc := prediction.New(prediction.Config{
		Provider:     &testutil.StubProvider{Price: 1},
		Store:        failing,
		Audit:        failing,
		ModelVersion: "v1.0",
	})

	_, err := svc.GetLog(context.Background(), "deadbeef00000000")
	if !errors.Is(err, prediction.ErrStoreUnavailable) {
		t.Errorf("GetLog = %v, want ErrStoreUnavailable", err)
	}
}
