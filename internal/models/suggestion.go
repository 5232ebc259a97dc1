// internal/models/suggestion.go
package models

type SuggestionCategory string

const (
	SuggestionEmail    SuggestionCategory = "email"
	SuggestionPhone    SuggestionCategory = "phone"
	SuggestionSkills   SuggestionCategory = "skills"
	SuggestionDuration SuggestionCategory = "duration"
)

// Suggestion proposes a single cell edit.
type Suggestion struct {
	ID             string             `json:"id"`
	Category       SuggestionCategory `json:"category"`
	RowIndex       int                `json:"rowIndex"`
	Column         string             `json:"column"`
	CurrentValue   interface{}        `json:"currentValue"`
	SuggestedValue interface{}        `json:"suggestedValue"`
	Confidence     float64            `json:"confidence"`
	Reason         string             `json:"reason"`
	AutoApply      bool               `json:"autoApply"`
}
