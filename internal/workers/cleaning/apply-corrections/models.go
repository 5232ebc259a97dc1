// internal/workers/cleaning/apply-corrections/models.go
package applycorrections

import "data-workers/internal/models"

// Input carries the suggestions to merge. When Suggestions is omitted the
// dataset is scanned and every accepted suggestion is applied.
type Input struct {
	DatasetID   string              `json:"datasetId"`
	Suggestions []models.Suggestion `json:"suggestions,omitempty"`
	Threshold   *float64            `json:"threshold,omitempty"`
	// Companion datasets enable the cross-entity checks of the re-validation.
	// Without them only field checks run.
	ClientsDatasetID string `json:"clientsDatasetId,omitempty"`
	WorkersDatasetID string `json:"workersDatasetId,omitempty"`
	TasksDatasetID   string `json:"tasksDatasetId,omitempty"`
}

type Output struct {
	DatasetID       string                   `json:"datasetId"`
	PreviousVersion int                      `json:"previousVersion"`
	Version         int                      `json:"version"`
	AppliedCount    int                      `json:"appliedCount"`
	SkippedCount    int                      `json:"skippedCount"`
	Applied         []models.Suggestion      `json:"applied"`
	Summary         models.ValidationSummary `json:"summary"`
	Valid           bool                     `json:"valid"`
}
