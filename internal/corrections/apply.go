// internal/corrections/apply.go
package corrections

import "data-workers/internal/models"

// DefaultThreshold is the confidence above which a suggestion is merged even
// when it is not marked for automatic application.
const DefaultThreshold = 0.8

// Accepted reports whether s is merged at threshold.
func Accepted(s models.Suggestion, threshold float64) bool {
	return s.AutoApply || s.Confidence > threshold
}

// Apply merges accepted suggestions into a copy of rows. Each merge
// overwrites exactly one cell; suggestions on the same cell are not
// reconciled and the last one wins. Suggestions pointing outside rows are
// skipped. The applied suggestions are returned in order as the cleaning log.
func Apply(rows []models.Record, suggestions []models.Suggestion, threshold float64) ([]models.Record, []models.Suggestion) {
	out := make([]models.Record, len(rows))
	copy(out, rows)
	cloned := make([]bool, len(rows))

	applied := make([]models.Suggestion, 0, len(suggestions))
	for _, s := range suggestions {
		if !Accepted(s, threshold) || s.RowIndex < 0 || s.RowIndex >= len(rows) || s.Column == "" {
			continue
		}
		if !cloned[s.RowIndex] {
			out[s.RowIndex] = rows[s.RowIndex].Clone()
			cloned[s.RowIndex] = true
		}
		out[s.RowIndex][s.Column] = s.SuggestedValue
		applied = append(applied, s)
	}
	return out, applied
}

// ApplyDataset applies suggestions to ds and returns the next dataset version.
// Headers gain any column a suggestion introduced.
func ApplyDataset(ds *models.Dataset, suggestions []models.Suggestion, threshold float64) (*models.Dataset, []models.Suggestion) {
	rows, applied := Apply(ds.Rows, suggestions, threshold)
	next := ds.WithRows(rows)

	known := make(map[string]bool, len(next.Headers))
	for _, h := range next.Headers {
		known[h] = true
	}
	for _, s := range applied {
		if !known[s.Column] {
			next.Headers = append(next.Headers, s.Column)
			known[s.Column] = true
		}
	}
	return next, applied
}
