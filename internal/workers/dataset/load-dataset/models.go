// internal/workers/dataset/load-dataset/models.go
package loaddataset

import "data-workers/internal/models"

type Input struct {
	FileName string `json:"fileName"`
	// Kind is optional; the sheet's headers decide when it is empty.
	Kind string `json:"kind,omitempty"`
	Name string `json:"name,omitempty"`
}

type Output struct {
	DatasetID     string            `json:"datasetId"`
	Kind          models.EntityKind `json:"kind"`
	Version       int               `json:"version"`
	RowCount      int               `json:"rowCount"`
	Headers       []string          `json:"headers"`
	HeaderMapping map[string]string `json:"headerMapping"`
}
