package prediction

import "fmt"

const (
	// ReferenceYear anchors vehicle age derivation. It is the year the
	// training pipeline used and is part of the model contract; deriving
	// age from wall-clock time would make re-derivation non-deterministic.
	ReferenceYear = 2025

	// MinYear is the oldest fabrication year the model was trained on.
	MinYear = 1990
)

// FeatureSet is the validated request payload for one prediction.
// Immutable once received; embedded in the resulting Record.
type FeatureSet struct {
	Year        int `json:"year"`
	MaxPowerBHP int `json:"max_power_bhp"`
	TorqueNM    int `json:"torque_nm"`
	EngineCC    int `json:"engine_cc"`
}

// Validate checks all fields against their declared ranges.
// Violations wrap ErrInvalidFeature.
func (f FeatureSet) Validate() error {
	if f.Year < MinYear || f.Year > ReferenceYear {
		return fmt.Errorf("%w: year %d must be between %d and %d",
			ErrInvalidFeature, f.Year, MinYear, ReferenceYear)
	}
	if f.MaxPowerBHP < 0 {
		return fmt.Errorf("%w: max_power_bhp %d must not be negative",
			ErrInvalidFeature, f.MaxPowerBHP)
	}
	if f.TorqueNM < 0 {
		return fmt.Errorf("%w: torque_nm %d must not be negative",
			ErrInvalidFeature, f.TorqueNM)
	}
	if f.EngineCC < 0 {
		return fmt.Errorf("%w: engine_cc %d must not be negative",
			ErrInvalidFeature, f.EngineCC)
	}
	return nil
}

// FeatureVector is the model input: the feature set plus the derived
// vehicle age. It lives only for the duration of one request and is
// never cached or persisted.
type FeatureVector struct {
	VehicleAge  float64
	Year        float64
	MaxPowerBHP float64
	TorqueNM    float64
	EngineCC    float64
}

// Vector derives the model input from the feature set. Derivation is
// deterministic and idempotent, so the vector can be rebuilt from a
// persisted FeatureSet at any time.
func (f FeatureSet) Vector() FeatureVector {
	return FeatureVector{
		VehicleAge:  float64(ReferenceYear - f.Year),
		Year:        float64(f.Year),
		MaxPowerBHP: float64(f.MaxPowerBHP),
		TorqueNM:    float64(f.TorqueNM),
		EngineCC:    float64(f.EngineCC),
	}
}
