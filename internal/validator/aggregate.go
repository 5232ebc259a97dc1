// internal/validator/aggregate.go
package validator

import (
	"data-workers/internal/dataset"
	"data-workers/internal/models"
)

// Validate runs the field checks for kind, then its cross-entity checks, and
// summarizes the findings. The result is recomputed from scratch on every call.
func Validate(kind models.EntityKind, ds *models.Dataset, companions Companions) models.ValidationResult {
	var rows []models.Record
	if ds != nil {
		rows = ds.Rows
	}
	headers := dataset.Columns(ds)

	findings := make([]models.Finding, 0)
	for _, check := range FieldChecks(kind) {
		findings = append(findings, check(rows, headers)...)
	}
	for _, check := range CrossChecks(kind) {
		findings = append(findings, check(rows, headers, companions)...)
	}

	return models.ValidationResult{
		Findings: findings,
		Summary:  Summarize(findings),
	}
}

// Summarize counts errors and warnings, tallies messages and collects the
// sorted distinct row indices referenced by any finding.
func Summarize(findings []models.Finding) models.ValidationSummary {
	summary := models.ValidationSummary{
		MessageCounts: make(map[string]int),
	}
	rows := map[int]bool{}

	for _, f := range findings {
		switch f.Kind {
		case models.FindingError:
			summary.ErrorCount++
		case models.FindingWarning:
			summary.WarningCount++
		}
		summary.MessageCounts[f.Message]++
		if f.RowIndex != nil {
			rows[*f.RowIndex] = true
		}
	}

	summary.AffectedRows = sortedInts(rows)
	return summary
}
