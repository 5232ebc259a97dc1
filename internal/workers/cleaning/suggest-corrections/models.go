// internal/workers/cleaning/suggest-corrections/models.go
package suggestcorrections

import "data-workers/internal/models"

type Input struct {
	DatasetID string `json:"datasetId"`
	// Categories restricts the result; empty means all.
	Categories []models.SuggestionCategory `json:"categories,omitempty"`
}

type Output struct {
	DatasetID      string                            `json:"datasetId"`
	Version        int                               `json:"version"`
	Suggestions    []models.Suggestion               `json:"suggestions"`
	Count          int                               `json:"count"`
	AutoApplicable int                               `json:"autoApplicable"`
	ByCategory     map[models.SuggestionCategory]int `json:"byCategory"`
}
