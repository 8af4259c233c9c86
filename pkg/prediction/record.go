package prediction

import "math"

// CurrencyMAD is the currency tag attached to every predicted price.
const CurrencyMAD = "MAD"

// Record is one completed prediction. A record is created exactly once
// per cache miss; cache hits return the stored record with Cached
// overridden to true and a fresh response-scoped PredictionID. Both
// overrides are presentation-only and never re-persisted: the stored
// copy keeps Cached=false and the identifier minted at creation, which
// is the one the audit log is addressed by.
type Record struct {
	PredictedPrice float64    `json:"predicted_price"`
	Currency       string     `json:"currency"`
	InputFeatures  FeatureSet `json:"input_features"`
	ModelVersion   string     `json:"model_version"`
	Cached         bool       `json:"cached"`
	PredictionID   string     `json:"prediction_id"`
	Timestamp      string     `json:"timestamp"`
}

// RoundPrice rounds a predicted price to two decimal places.
// Re-rounding an already rounded price is a no-op.
func RoundPrice(price float64) float64 {
	return math.Round(price*100) / 100
}
