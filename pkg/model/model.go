// Package model loads a serialized regression artifact and evaluates it.
//
// The artifact is the JSON export of the training pipeline's fitted
// random-forest: a standard scaler over the canonical feature columns,
// the forest's decision trees, and the target transform applied during
// training. Evaluation is pure and CPU-bound; the loaded model is
// immutable process-wide state, initialized once at startup.
package model

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/atlasml/carprice-api/pkg/prediction"
)

// Target transforms the training pipeline may have applied.
const (
	transformNone  = "none"
	transformLog1p = "log1p"
)

// artifact is the on-disk JSON layout of a trained model.
type artifact struct {
	ModelVersion    string   `json:"model_version"`
	TargetTransform string   `json:"target_transform"`
	Columns         []string `json:"columns"`
	Scaler          scaler   `json:"scaler"`
	Trees           []tree   `json:"trees"`
}

// scaler holds the standard-scaler parameters, indexed like Columns.
type scaler struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// node is one decision-tree node. Leaves carry Feature == -1 and a
// Value; inner nodes route on Feature <= Threshold.
type node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

type tree struct {
	Nodes []node `json:"nodes"`
}

// Model is a loaded, validated regression artifact.
type Model struct {
	version   string
	logTarget bool
	columns   []string
	scaler    scaler
	trees     []tree
}

var _ prediction.Provider = (*Model)(nil)

// Load reads and validates a model artifact from disk.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}

	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parse model artifact: %w", err)
	}

	m, err := fromArtifact(a)
	if err != nil {
		return nil, fmt.Errorf("invalid model artifact %s: %w", path, err)
	}
	return m, nil
}

func fromArtifact(a artifact) (*Model, error) {
	if len(a.Columns) == 0 {
		return nil, fmt.Errorf("no feature columns")
	}
	if len(a.Scaler.Mean) != len(a.Columns) || len(a.Scaler.Std) != len(a.Columns) {
		return nil, fmt.Errorf("scaler dimensions do not match %d columns", len(a.Columns))
	}
	for i, std := range a.Scaler.Std {
		if std == 0 {
			return nil, fmt.Errorf("scaler std for column %q is zero", a.Columns[i])
		}
	}
	if len(a.Trees) == 0 {
		return nil, fmt.Errorf("forest has no trees")
	}
	for ti, t := range a.Trees {
		if len(t.Nodes) == 0 {
			return nil, fmt.Errorf("tree %d has no nodes", ti)
		}
		for ni, n := range t.Nodes {
			if n.Feature >= len(a.Columns) {
				return nil, fmt.Errorf("tree %d node %d references feature %d", ti, ni, n.Feature)
			}
			if n.Feature >= 0 && (n.Left < 0 || n.Left >= len(t.Nodes) || n.Right < 0 || n.Right >= len(t.Nodes)) {
				return nil, fmt.Errorf("tree %d node %d has out-of-range children", ti, ni)
			}
		}
	}

	var logTarget bool
	switch a.TargetTransform {
	case transformNone, "":
		logTarget = false
	case transformLog1p:
		logTarget = true
	default:
		return nil, fmt.Errorf("unknown target transform %q", a.TargetTransform)
	}

	return &Model{
		version:   a.ModelVersion,
		logTarget: logTarget,
		columns:   a.Columns,
		scaler:    a.Scaler,
		trees:     a.Trees,
	}, nil
}

// Version returns the version tag embedded in the artifact.
func (m *Model) Version() string {
	return m.version
}

// Predict evaluates the forest for one feature vector: scale the inputs,
// average the tree outputs, invert the target transform.
func (m *Model) Predict(v prediction.FeatureVector) (float64, error) {
	x := make([]float64, len(m.columns))
	for i, col := range m.columns {
		val, ok := featureValue(v, col)
		if !ok {
			return 0, fmt.Errorf("model requires unknown feature column %q", col)
		}
		x[i] = (val - m.scaler.Mean[i]) / m.scaler.Std[i]
	}

	var sum float64
	for i := range m.trees {
		y, err := m.trees[i].eval(x)
		if err != nil {
			return 0, fmt.Errorf("tree %d: %w", i, err)
		}
		sum += y
	}
	out := sum / float64(len(m.trees))

	if m.logTarget {
		out = math.Expm1(out)
	}
	return out, nil
}

// eval walks the tree from the root. The step bound catches malformed
// artifacts with node cycles.
func (t *tree) eval(x []float64) (float64, error) {
	idx := 0
	for steps := 0; steps <= len(t.Nodes); steps++ {
		n := t.Nodes[idx]
		if n.Feature < 0 {
			return n.Value, nil
		}
		if x[n.Feature] <= n.Threshold {
			idx = n.Left
		} else {
			idx = n.Right
		}
	}
	return 0, fmt.Errorf("node cycle detected")
}

// featureValue maps an artifact column name to its vector field.
func featureValue(v prediction.FeatureVector, column string) (float64, bool) {
	switch column {
	case "vehicle_age":
		return v.VehicleAge, true
	case "year":
		return v.Year, true
	case "max_power_bhp":
		return v.MaxPowerBHP, true
	case "torque_nm":
		return v.TorqueNM, true
	case "engine_cc":
		return v.EngineCC, true
	default:
		return 0, false
	}
}
