// internal/models/criteria.go
package models

// Criterion is one allocation criterion with its importance weight.
type Criterion struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Weight      float64 `json:"weight"`
	Description string  `json:"description,omitempty"`
}

// PairwiseComparison says A is Value times as important as B (Saaty 1..9).
// The reverse pair is implied as 1/Value.
type PairwiseComparison struct {
	A     string  `json:"a"`
	B     string  `json:"b"`
	Value float64 `json:"value"`
}

type WeightingMethod string

const (
	WeightingDirect   WeightingMethod = "direct"
	WeightingRanking  WeightingMethod = "ranking"
	WeightingPairwise WeightingMethod = "pairwise"
)
