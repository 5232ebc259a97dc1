// internal/export/prioritization.go
package export

import (
	"io"

	"data-workers/internal/ahp"
	"data-workers/internal/dataset"
	"data-workers/internal/models"
)

// Prioritization writes ds with its calculated score column appended.
func Prioritization(w io.Writer, f Format, ds *models.Dataset, weights map[string]float64) error {
	headers, rows, err := ahp.ScoreDataset(ds, weights)
	if err != nil {
		return err
	}
	return Write(w, f, headers, rows)
}

// Dataset writes ds in its original column order.
func Dataset(w io.Writer, f Format, ds *models.Dataset) error {
	return Write(w, f, dataset.Columns(ds), ds.Rows)
}
