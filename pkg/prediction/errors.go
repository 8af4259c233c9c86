package prediction

import "errors"

// Errors surfaced by the orchestrator. Cache store failures are never
// among them: reads degrade to a miss and writes are swallowed.
var (
	// ErrModelNotLoaded indicates the inference provider is unavailable.
	// No cache or audit access happens when this is returned.
	ErrModelNotLoaded = errors.New("model not loaded")

	// ErrInvalidFeature indicates a feature value outside its declared range.
	ErrInvalidFeature = errors.New("invalid feature")

	// ErrLogNotFound indicates the audit identifier is unknown or its
	// record has expired.
	ErrLogNotFound = errors.New("prediction log not found")

	// ErrStoreUnavailable indicates the audit log store is unreachable.
	ErrStoreUnavailable = errors.New("store unavailable")
)
