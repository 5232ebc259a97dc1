// internal/workers/rules/parse-rule/models.go
package parserule

import (
	"data-workers/internal/models"
	"data-workers/internal/nlrules"
)

// Input is one free-text rule. The dataset ids resolve task ids, task names
// and group names mentioned in the sentence.
type Input struct {
	Text             string `json:"text"`
	ClientsDatasetID string `json:"clientsDatasetId,omitempty"`
	WorkersDatasetID string `json:"workersDatasetId,omitempty"`
	TasksDatasetID   string `json:"tasksDatasetId,omitempty"`
	Persist          bool   `json:"persist,omitempty"`
	Priority         int    `json:"priority,omitempty"`
}

type Output struct {
	Matched   bool                 `json:"matched"`
	Rule      *nlrules.ParsedRule  `json:"rule,omitempty"`
	Persisted bool                 `json:"persisted"`
	Stored    *models.BusinessRule `json:"stored,omitempty"`
}
