package models

// Universe is a named set of tradable symbols, e.g. an index's constituents.
//
// Fields:
//   - Key: case-normalized identifier (e.g., "SPY").
//   - Members: ordered, deduplicated constituent symbols.
//   - Weights: optional per-member weight; nil when the source has none.
type Universe struct {
	Key     string             `json:"key" yaml:"key"`
	Members []string           `json:"members" yaml:"members"`
	Weights map[string]float64 `json:"weights,omitempty" yaml:"weights,omitempty"`
}
