// internal/workers/rules/recommend-rules/handler.go
package recommendrules

import (
	"context"
	"errors"

	"data-workers/internal/common/camunda"
	apperrors "data-workers/internal/common/errors"
	"data-workers/internal/common/logger"
	"data-workers/internal/models"
	"data-workers/internal/nlrules"
	"data-workers/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "recommend-rules"

type DatasetStore interface {
	GetMany(ctx context.Context, ids ...string) ([]*models.Dataset, error)
}

type RuleStore interface {
	SaveAll(ctx context.Context, rules []models.BusinessRule) ([]models.BusinessRule, error)
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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.ClientsDatasetID == "" && input.WorkersDatasetID == "" && input.TasksDatasetID == "" {
		return nil, apperrors.NewInvalidInputError("at least one dataset id is required")
	}

	found, err := h.datasets.GetMany(ctx, input.ClientsDatasetID, input.WorkersDatasetID, input.TasksDatasetID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NewDatasetNotFoundError(err.Error())
		}
		return nil, apperrors.NewDatasetStoreFailedError(err)
	}
	data := nlrules.FromDatasets(found[0], found[1], found[2])

	recs := make([]nlrules.ParsedRule, 0)
	for _, r := range nlrules.Recommend(data) {
		if r.Confidence >= input.MinConfidence {
			recs = append(recs, r)
		}
	}
	out := &Output{Recommendations: recs, Count: len(recs)}

	if input.Persist {
		toSave := make([]models.BusinessRule, 0, len(recs))
		for i := range recs {
			if recs[i].CanApply {
				toSave = append(toSave, nlrules.ToRule(&recs[i]))
			}
		}
		if len(toSave) > 0 {
			saved, err := h.rules.SaveAll(ctx, toSave)
			if err != nil {
				return nil, apperrors.NewRuleStoreFailedError(err)
			}
			out.Stored = saved
		}
	}

	h.logger.Info("rules recommended", map[string]interface{}{
		"count":  out.Count,
		"stored": len(out.Stored),
	})
	return out, nil
}
