package prediction

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// predictionIDLength is the number of hex characters kept from the
// hashed instant.
const predictionIDLength = 16

// canonicalFeatures fixes the serialized key order of a feature set.
// The field order is the sorted key order and must not change:
// fingerprints are persisted cache addresses.
type canonicalFeatures struct {
	EngineCC    int `json:"engine_cc"`
	MaxPowerBHP int `json:"max_power_bhp"`
	TorqueNM    int `json:"torque_nm"`
	Year        int `json:"year"`
}

// Fingerprint returns the cache address for a feature set: the hex MD5
// digest of its canonical key-sorted JSON serialization. Identical
// feature values always produce the same fingerprint regardless of how
// the set was constructed. Pure, total, deterministic.
func Fingerprint(f FeatureSet) string {
	canonical, _ := json.Marshal(canonicalFeatures{
		EngineCC:    f.EngineCC,
		MaxPowerBHP: f.MaxPowerBHP,
		TorqueNM:    f.TorqueNM,
		Year:        f.Year,
	})
	sum := md5.Sum(canonical)
	return hex.EncodeToString(sum[:])
}

// NewPredictionID derives an opaque audit token from an instant:
// the SHA-256 digest of the sub-second timestamp, truncated to 16 hex
// characters. Used only for audit lookup, never for cache addressing;
// collisions under high request rates are audit-visible only.
func NewPredictionID(t time.Time) string {
	sum := sha256.Sum256([]byte(t.Format(time.RFC3339Nano)))
	return hex.EncodeToString(sum[:])[:predictionIDLength]
}
