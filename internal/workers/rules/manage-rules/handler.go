// internal/workers/rules/manage-rules/handler.go
package managerules

import (
	"context"
	"errors"
	"fmt"

	"data-workers/internal/common/camunda"
	apperrors "data-workers/internal/common/errors"
	"data-workers/internal/common/logger"
	"data-workers/internal/models"
	"data-workers/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "manage-rules"

type RuleStore interface {
	Get(ctx context.Context, id string) (models.BusinessRule, error)
	List(ctx context.Context, enabledOnly bool) ([]models.BusinessRule, error)
	SetEnabled(ctx context.Context, id string, enabled bool) error
	SetPriority(ctx context.Context, id string, p int) error
	Delete(ctx context.Context, id string) error
}

type Handler struct {
	config    *Config
	rules     RuleStore
	logger    logger.Logger
	responder *camunda.Responder
}

func NewHandler(config *Config, rules RuleStore, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		rules:     rules,
		logger:    scoped,
		responder: camunda.NewResponder(scoped),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":             job.Key,
		"processInstanceKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := camunda.DecodeVariables(job, &input); err != nil {
		return h.responder.Fail(client, job, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.Execute(ctx, &input)
	if err != nil {
		return h.responder.Fail(client, job, err)
	}
	return h.responder.Complete(client, job, output)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Action == ActionList {
		rules, err := h.rules.List(ctx, input.EnabledOnly)
		if err != nil {
			return nil, apperrors.NewRuleStoreFailedError(err)
		}
		return &Output{Action: ActionList, Rules: rules, Count: len(rules)}, nil
	}

	if input.RuleID == "" {
		return nil, apperrors.NewInvalidInputError("ruleId is required")
	}

	var err error
	switch input.Action {
	case ActionGet:
	case ActionEnable:
		err = h.rules.SetEnabled(ctx, input.RuleID, true)
	case ActionDisable:
		err = h.rules.SetEnabled(ctx, input.RuleID, false)
	case ActionSetPriority:
		if input.Priority == 0 {
			return nil, apperrors.NewInvalidInputError("priority is required for setPriority")
		}
		err = h.rules.SetPriority(ctx, input.RuleID, models.ClampPriority(input.Priority))
	case ActionDelete:
		if err := h.rules.Delete(ctx, input.RuleID); err != nil {
			return nil, h.mapError(input.RuleID, err)
		}
		h.logger.Info("rule deleted", map[string]interface{}{"ruleId": input.RuleID})
		return &Output{Action: ActionDelete, RuleID: input.RuleID}, nil
	default:
		return nil, apperrors.NewInvalidInputError(fmt.Sprintf("unknown action %q", input.Action))
	}
	if err != nil {
		return nil, h.mapError(input.RuleID, err)
	}

	rule, err := h.rules.Get(ctx, input.RuleID)
	if err != nil {
		return nil, h.mapError(input.RuleID, err)
	}

	h.logger.Info("rule updated", map[string]interface{}{
		"ruleId":   rule.ID,
		"action":   string(input.Action),
		"enabled":  rule.Enabled,
		"priority": rule.Priority,
	})
	return &Output{Action: input.Action, RuleID: rule.ID, Rule: &rule, Count: 1}, nil
}

func (h *Handler) mapError(id string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.NewRuleNotFoundError(id)
	}
	return apperrors.NewRuleStoreFailedError(err)
}
