// internal/workers/dataset/validate-dataset/models.go
package validatedataset

import "data-workers/internal/models"

// Input names the dataset to validate. The companion ids feed the
// cross-entity checks; the dataset itself fills its own kind's slot.
type Input struct {
	DatasetID        string `json:"datasetId"`
	ClientsDatasetID string `json:"clientsDatasetId,omitempty"`
	WorkersDatasetID string `json:"workersDatasetId,omitempty"`
	TasksDatasetID   string `json:"tasksDatasetId,omitempty"`
}

type Output struct {
	DatasetID string                   `json:"datasetId"`
	Kind      models.EntityKind        `json:"kind"`
	Valid     bool                     `json:"valid"`
	Findings  []models.Finding         `json:"findings"`
	Summary   models.ValidationSummary `json:"summary"`
}
