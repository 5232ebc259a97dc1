// internal/workers/export/export-dataset/models.go
package exportdataset

import "data-workers/internal/store"

// Input selects a dataset and output format. Weights, when present, add a
// prioritization file scored with them.
type Input struct {
	DatasetID string             `json:"datasetId"`
	Format    string             `json:"format,omitempty"`
	Weights   map[string]float64 `json:"weights,omitempty"`
	// SkipIndex turns off search indexing for this export.
	SkipIndex bool `json:"skipIndex,omitempty"`
}

type Artifact struct {
	Kind  string `json:"kind"`
	Path  string `json:"path"`
	Bytes int64  `json:"bytes"`
}

type Output struct {
	ExportID  string             `json:"exportId"`
	DatasetID string             `json:"datasetId"`
	Version   int                `json:"version"`
	Format    string             `json:"format"`
	RowCount  int                `json:"rowCount"`
	Artifacts []Artifact         `json:"artifacts"`
	Index     *store.IndexResult `json:"index,omitempty"`
}
