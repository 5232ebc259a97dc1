// internal/workers/rules/recommend-rules/models.go
package recommendrules

import (
	"data-workers/internal/models"
	"data-workers/internal/nlrules"
)

type Input struct {
	ClientsDatasetID string `json:"clientsDatasetId,omitempty"`
	WorkersDatasetID string `json:"workersDatasetId,omitempty"`
	TasksDatasetID   string `json:"tasksDatasetId,omitempty"`
	// MinConfidence drops weaker recommendations.
	MinConfidence float64 `json:"minConfidence,omitempty"`
	// Persist stores every applicable recommendation as an enabled rule.
	Persist bool `json:"persist,omitempty"`
}

type Output struct {
	Recommendations []nlrules.ParsedRule  `json:"recommendations"`
	Count           int                   `json:"count"`
	Stored          []models.BusinessRule `json:"stored,omitempty"`
}
