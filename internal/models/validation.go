// internal/models/validation.go
package models

// FindingKind classifies a validation finding.
type FindingKind string

const (
	FindingError   FindingKind = "error"
	FindingWarning FindingKind = "warning"
	FindingInfo    FindingKind = "info"
)

type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Finding is a single validation result. Findings are data and are never
// returned as Go errors.
type Finding struct {
	Kind     FindingKind `json:"type"`
	Message  string      `json:"message"`
	RowIndex *int        `json:"rowIndex,omitempty"`
	Column   string      `json:"column,omitempty"`
	Value    interface{} `json:"value,omitempty"`
	Severity Severity    `json:"severity"`
}

// Row returns a pointer to a copy of i for Finding.RowIndex.
func Row(i int) *int {
	return &i
}

type ValidationSummary struct {
	ErrorCount    int            `json:"errorCount"`
	WarningCount  int            `json:"warningCount"`
	MessageCounts map[string]int `json:"messageCounts"`
	AffectedRows  []int          `json:"affectedRows"`
}

type ValidationResult struct {
	Findings []Finding         `json:"findings"`
	Summary  ValidationSummary `json:"summary"`
}

// Valid reports whether the result carries no error-kind findings.
func (r ValidationResult) Valid() bool {
	return r.Summary.ErrorCount == 0
}
