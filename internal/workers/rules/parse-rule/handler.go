// internal/workers/rules/parse-rule/handler.go
package parserule

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"data-workers/internal/common/camunda"
	apperrors "data-workers/internal/common/errors"
	"data-workers/internal/common/logger"
	"data-workers/internal/common/metrics"
	"data-workers/internal/models"
	"data-workers/internal/nlrules"
	"data-workers/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "parse-rule"

type DatasetStore interface {
	GetMany(ctx context.Context, ids ...string) ([]*models.Dataset, error)
}

type RuleStore interface {
	Save(ctx context.Context, r models.BusinessRule) (models.BusinessRule, error)
}

type Handler struct {
	config    *Config
	datasets  DatasetStore
	rules     RuleStore
	logger    logger.Logger
	responder *camunda.Responder
}

func NewHandler(config *Config, datasets DatasetStore, rules RuleStore, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		datasets:  datasets,
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

// Execute converts the sentence. An unrecognized sentence is not an error;
// the output reports Matched false. A rule is stored only when requested
// and applicable to the data.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if strings.TrimSpace(input.Text) == "" {
		return nil, apperrors.NewInvalidInputError("text is required")
	}

	data, err := h.loadData(ctx, input.ClientsDatasetID, input.WorkersDatasetID, input.TasksDatasetID)
	if err != nil {
		return nil, err
	}

	parsed := nlrules.Convert(input.Text, data)
	if parsed == nil {
		metrics.RulesParsed.WithLabelValues("none", "false").Inc()
		h.logger.Info("no rule recognized", map[string]interface{}{"text": input.Text})
		return &Output{Matched: false}, nil
	}
	metrics.RulesParsed.WithLabelValues(string(parsed.Type), strconv.FormatBool(parsed.CanApply)).Inc()

	out := &Output{Matched: true, Rule: parsed}
	if !input.Persist || !parsed.CanApply {
		return out, nil
	}

	rule := nlrules.ToRule(parsed)
	if input.Priority != 0 {
		rule.Priority = models.ClampPriority(input.Priority)
	}
	saved, err := h.rules.Save(ctx, rule)
	if err != nil {
		return nil, apperrors.NewRuleStoreFailedError(err)
	}
	out.Persisted = true
	out.Stored = &saved

	h.logger.Info("rule stored", map[string]interface{}{
		"ruleId":   saved.ID,
		"ruleType": string(parsed.Type),
		"priority": saved.Priority,
	})
	return out, nil
}

func (h *Handler) loadData(ctx context.Context, clientsID, workersID, tasksID string) (nlrules.Data, error) {
	if clientsID == "" && workersID == "" && tasksID == "" {
		return nlrules.Data{}, nil
	}
	found, err := h.datasets.GetMany(ctx, clientsID, workersID, tasksID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nlrules.Data{}, apperrors.NewDatasetNotFoundError(strings.Join(nonEmpty(clientsID, workersID, tasksID), ", "))
		}
		return nlrules.Data{}, apperrors.NewDatasetStoreFailedError(err)
	}
	return nlrules.FromDatasets(found[0], found[1], found[2]), nil
}

func nonEmpty(ids ...string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}
