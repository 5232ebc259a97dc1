// internal/workers/dataset/filter-records/models.go
package filterrecords

import (
	"data-workers/internal/models"
	"data-workers/internal/nlquery"
)

type Input struct {
	DatasetID      string `json:"datasetId"`
	Query          string `json:"query"`
	IncludeRecords bool   `json:"includeRecords,omitempty"`
}

type Output struct {
	DatasetID   string              `json:"datasetId"`
	Indices     []int               `json:"indices"`
	Conditions  []nlquery.Condition `json:"conditions"`
	Explanation string              `json:"explanation"`
	Records     []models.Record     `json:"records,omitempty"`
	Truncated   bool                `json:"truncated,omitempty"`
}
