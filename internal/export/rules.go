// internal/export/rules.go
package export

import (
	_ "embed"
	"encoding/json"
	"io"
	"sort"
	"time"

	"data-workers/internal/common/validation"
	"data-workers/internal/models"
)

//go:embed rules_config.schema.json
var rulesConfigSchemaJSON []byte

var rulesConfigSchema = validation.MustCompile(rulesConfigSchemaJSON)

// RuleEntry is one rule as written to the configuration file.
type RuleEntry struct {
	ID          string            `json:"id"`
	Type        models.RuleType   `json:"type"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Priority    int               `json:"priority"`
	Parameters  models.Parameters `json:"parameters"`
}

// RulesConfig is the exported rules document.
type RulesConfig struct {
	Version     string      `json:"version"`
	GeneratedAt time.Time   `json:"generatedAt"`
	Rules       []RuleEntry `json:"rules"`
}

// BuildRulesConfig keeps enabled rules only, ordered by descending priority
// with ties in input order, and validates the result against the embedded
// schema.
func BuildRulesConfig(rules []models.BusinessRule, version string, now time.Time) (*RulesConfig, error) {
	enabled := make([]models.BusinessRule, 0, len(rules))
	for _, r := range rules {
		if r.Enabled {
			enabled = append(enabled, r)
		}
	}
	sort.SliceStable(enabled, func(i, j int) bool {
		return enabled[i].Priority > enabled[j].Priority
	})

	cfg := &RulesConfig{
		Version:     version,
		GeneratedAt: now.UTC(),
		Rules:       make([]RuleEntry, len(enabled)),
	}
	for i, r := range enabled {
		cfg.Rules[i] = RuleEntry{
			ID:          r.ID,
			Type:        r.Type(),
			Name:        r.Name,
			Description: r.Description,
			Priority:    r.Priority,
			Parameters:  r.Parameters,
		}
	}

	if err := ValidateRulesConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ValidateRulesConfig checks cfg against the rules config schema.
func ValidateRulesConfig(cfg *RulesConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}
	return rulesConfigSchema.Validate(doc)
}

// WriteRulesConfig encodes cfg as indented JSON.
func WriteRulesConfig(w io.Writer, cfg *RulesConfig) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(cfg)
}
