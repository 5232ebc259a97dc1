// internal/workers/export/export-rules-config/models.go
package exportrulesconfig

import (
	"time"

	"data-workers/internal/export"
)

type Input struct {
	Version string `json:"version,omitempty"`
	// Inline returns the document in the job result as well.
	Inline bool `json:"inline,omitempty"`
}

type Output struct {
	Path        string              `json:"path"`
	Version     string              `json:"version"`
	GeneratedAt time.Time           `json:"generatedAt"`
	RuleCount   int                 `json:"ruleCount"`
	Config      *export.RulesConfig `json:"config,omitempty"`
}
