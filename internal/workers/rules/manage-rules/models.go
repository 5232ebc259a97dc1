// internal/workers/rules/manage-rules/models.go
package managerules

import "data-workers/internal/models"

type Action string

const (
	ActionList        Action = "list"
	ActionGet         Action = "get"
	ActionEnable      Action = "enable"
	ActionDisable     Action = "disable"
	ActionSetPriority Action = "setPriority"
	ActionDelete      Action = "delete"
)

type Input struct {
	Action      Action `json:"action"`
	RuleID      string `json:"ruleId,omitempty"`
	Priority    int    `json:"priority,omitempty"`
	EnabledOnly bool   `json:"enabledOnly,omitempty"`
}

type Output struct {
	Action Action                `json:"action"`
	RuleID string                `json:"ruleId,omitempty"`
	Rule   *models.BusinessRule  `json:"rule,omitempty"`
	Rules  []models.BusinessRule `json:"rules,omitempty"`
	Count  int                   `json:"count"`
}
