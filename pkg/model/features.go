package model

import (
	"encoding/json"
	"fmt"
	"os"
)

// FeatureInfo is the feature-metadata artifact written next to the model
// by the training pipeline: the canonical column order and the value
// range observed per column during training. Loaded once at startup and
// never mutated.
type FeatureInfo struct {
	Columns []string              `json:"columns"`
	Ranges  map[string][2]float64 `json:"ranges"`
}

// LoadFeatureInfo reads the feature-metadata artifact from disk.
func LoadFeatureInfo(path string) (*FeatureInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read feature info: %w", err)
	}

	var info FeatureInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("parse feature info: %w", err)
	}
	if len(info.Columns) == 0 {
		return nil, fmt.Errorf("feature info %s has no columns", path)
	}
	return &info, nil
}

// Covers reports whether the metadata describes every column the model
// evaluates. Used as a startup consistency check between the two
// artifacts.
func (fi *FeatureInfo) Covers(m *Model) bool {
	known := make(map[string]bool, len(fi.Columns))
	for _, col := range fi.Columns {
		known[col] = true
	}
	for _, col := range m.columns {
		if !known[col] {
			return false
		}
	}
	return true
}
