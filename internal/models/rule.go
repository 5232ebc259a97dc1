// internal/models/rule.go
package models

import (
	"encoding/json"
	"fmt"
	"time"
)

type RuleType string

const (
	RuleCoRun              RuleType = "coRun"
	RuleSlotRestriction    RuleType = "slotRestriction"
	RuleLoadLimit          RuleType = "loadLimit"
	RulePhaseWindow        RuleType = "phaseWindow"
	RulePatternMatch       RuleType = "patternMatch"
	RulePrecedenceOverride RuleType = "precedenceOverride"
)

// RuleTypes lists every variant in evaluation order.
var RuleTypes = []RuleType{
	RuleCoRun,
	RuleSlotRestriction,
	RuleLoadLimit,
	RulePhaseWindow,
	RulePatternMatch,
	RulePrecedenceOverride,
}

// Parameters is the variant part of a BusinessRule. The set of
// implementations is closed; switch on the concrete type.
type Parameters interface {
	RuleType() RuleType
	isParameters()
}

// CoRunParams: the listed tasks must run in the same phase.
type CoRunParams struct {
	Tasks []string `json:"tasks"`
}

// SlotRestrictionParams: members of a client or worker group must share
// at least MinCommonSlots phases.
type SlotRestrictionParams struct {
	GroupType      string `json:"groupType"`
	Group          string `json:"group"`
	MinCommonSlots int    `json:"minCommonSlots"`
}

// LoadLimitParams caps slots per phase for a worker group.
type LoadLimitParams struct {
	WorkerGroup      string `json:"workerGroup"`
	MaxSlotsPerPhase int    `json:"maxSlotsPerPhase"`
}

// PhaseWindowParams restricts a task to the allowed phases.
type PhaseWindowParams struct {
	TaskID        string `json:"taskId"`
	AllowedPhases []int  `json:"allowedPhases"`
}

// PatternMatchParams applies Template to entities whose id matches Regex.
type PatternMatchParams struct {
	Regex    string                 `json:"regex"`
	Template string                 `json:"template"`
	Params   map[string]interface{} `json:"params,omitempty"`
}

// PrecedenceOverrideParams orders global against specific rules.
type PrecedenceOverrideParams struct {
	Global        []string `json:"global"`
	Specific      []string `json:"specific"`
	PriorityOrder []string `json:"priorityOrder"`
}

func (CoRunParams) RuleType() RuleType              { return RuleCoRun }
func (SlotRestrictionParams) RuleType() RuleType    { return RuleSlotRestriction }
func (LoadLimitParams) RuleType() RuleType          { return RuleLoadLimit }
func (PhaseWindowParams) RuleType() RuleType        { return RulePhaseWindow }
func (PatternMatchParams) RuleType() RuleType       { return RulePatternMatch }
func (PrecedenceOverrideParams) RuleType() RuleType { return RulePrecedenceOverride }

func (CoRunParams) isParameters()              {}
func (SlotRestrictionParams) isParameters()    {}
func (LoadLimitParams) isParameters()          {}
func (PhaseWindowParams) isParameters()        {}
func (PatternMatchParams) isParameters()       {}
func (PrecedenceOverrideParams) isParameters() {}

// DecodeParameters decodes raw into the variant named by t.
func DecodeParameters(t RuleType, raw json.RawMessage) (Parameters, error) {
	var (
		p   Parameters
		err error
	)
	switch t {
	case RuleCoRun:
		var v CoRunParams
		err = json.Unmarshal(raw, &v)
		p = v
	case RuleSlotRestriction:
		var v SlotRestrictionParams
		err = json.Unmarshal(raw, &v)
		p = v
	case RuleLoadLimit:
		var v LoadLimitParams
		err = json.Unmarshal(raw, &v)
		p = v
	case RulePhaseWindow:
		var v PhaseWindowParams
		err = json.Unmarshal(raw, &v)
		p = v
	case RulePatternMatch:
		var v PatternMatchParams
		err = json.Unmarshal(raw, &v)
		p = v
	case RulePrecedenceOverride:
		var v PrecedenceOverrideParams
		err = json.Unmarshal(raw, &v)
		p = v
	default:
		return nil, fmt.Errorf("unknown rule type %q", t)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s parameters: %w", t, err)
	}
	return p, nil
}

// BusinessRule is a scheduling constraint authored by a user or proposed by
// the rule parser and recommender.
type BusinessRule struct {
	ID          string
	Name        string
	Description string
	Priority    int
	Enabled     bool
	Parameters  Parameters
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Type is derived from the parameters variant.
func (r BusinessRule) Type() RuleType {
	if r.Parameters == nil {
		return ""
	}
	return r.Parameters.RuleType()
}

type businessRuleJSON struct {
	ID          string          `json:"id"`
	Type        RuleType        `json:"type"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Priority    int             `json:"priority"`
	Enabled     bool            `json:"enabled"`
	Parameters  json.RawMessage `json:"parameters"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (r BusinessRule) MarshalJSON() ([]byte, error) {
	params, err := json.Marshal(r.Parameters)
	if err != nil {
		return nil, err
	}
	return json.Marshal(businessRuleJSON{
		ID:          r.ID,
		Type:        r.Type(),
		Name:        r.Name,
		Description: r.Description,
		Priority:    r.Priority,
		Enabled:     r.Enabled,
		Parameters:  params,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	})
}

func (r *BusinessRule) UnmarshalJSON(data []byte) error {
	var raw businessRuleJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	params, err := DecodeParameters(raw.Type, raw.Parameters)
	if err != nil {
		return err
	}
	*r = BusinessRule{
		ID:          raw.ID,
		Name:        raw.Name,
		Description: raw.Description,
		Priority:    raw.Priority,
		Enabled:     raw.Enabled,
		Parameters:  params,
		CreatedAt:   raw.CreatedAt,
		UpdatedAt:   raw.UpdatedAt,
	}
	return nil
}

// ClampPriority keeps a priority within 1..5.
func ClampPriority(p int) int {
	if p < 1 {
		return 1
	}
	if p > 5 {
		return 5
	}
	return p
}
