// internal/workers/prioritization/calculate-weights/models.go
package calculateweights

import (
	"data-workers/internal/ahp"
	"data-workers/internal/models"
)

type Input struct {
	Method      models.WeightingMethod      `json:"method"`
	Criteria    []models.Criterion          `json:"criteria,omitempty"`
	Comparisons []models.PairwiseComparison `json:"comparisons,omitempty"`
	Ranking     []string                    `json:"ranking,omitempty"`
	// RejectInconsistent fails the job when a pairwise matrix is not
	// consistent enough.
	RejectInconsistent bool `json:"rejectInconsistent,omitempty"`
}

type Output struct {
	Method           models.WeightingMethod `json:"method"`
	Weights          map[string]float64     `json:"weights"`
	Criteria         []models.Criterion     `json:"criteria"`
	Matrix           ahp.Matrix             `json:"matrix,omitempty"`
	ConsistencyRatio float64                `json:"consistencyRatio"`
	Consistent       bool                   `json:"consistent"`
	Balanced         bool                   `json:"balanced"`
}
