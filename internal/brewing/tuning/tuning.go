// Package tuning holds the constants that drive the brewing heuristic and planner.
package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	// MeanPrice normalizes recipe prices in the cast score.
	MeanPrice float64 `yaml:"mean_price"`
	// RestInventoryThreshold is the inventory size at which a negative best
	// cast score turns into a rest.
	RestInventoryThreshold uint32 `yaml:"rest_inventory_threshold"`

	Planner Planner `yaml:"planner"`
}

type Planner struct {
	InventoryCapacity uint32 `yaml:"inventory_capacity"`
	MaxDepth          int    `yaml:"max_depth"`
	CacheSize         int    `yaml:"cache_size"`
}

// Default returns the tuning the contest agent plays with.
func Default() Tuning {
	return Tuning{
		MeanPrice:              10.0,
		RestInventoryThreshold: 8,
		Planner: Planner{
			InventoryCapacity: 10,
			MaxDepth:          6,
			CacheSize:         4096,
		},
	}
}

// Load reads a YAML tuning file. Fields absent from the file keep their defaults.
func Load(path string) (Tuning, error) {
	t := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

// Validate rejects values the engine or planner cannot work with.
func (t Tuning) Validate() error {
	if t.MeanPrice <= 0 {
		return fmt.Errorf("mean_price must be positive, got %v", t.MeanPrice)
	}
	if t.Planner.InventoryCapacity == 0 {
		return fmt.Errorf("planner.inventory_capacity must be positive")
	}
	if t.Planner.MaxDepth < 0 {
		return fmt.Errorf("planner.max_depth must not be negative, got %d", t.Planner.MaxDepth)
	}
	if t.Planner.CacheSize <= 0 {
		return fmt.Errorf("planner.cache_size must be positive, got %d", t.Planner.CacheSize)
	}
	return nil
}
