// internal/workers/prioritization/calculate-weights/handler.go
package calculateweights

import (
	"context"
	"fmt"

	"data-workers/internal/ahp"
	"data-workers/internal/common/camunda"
	apperrors "data-workers/internal/common/errors"
	"data-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "calculate-weights"

type Handler struct {
	config    *Config
	logger    logger.Logger
	responder *camunda.Responder
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
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

func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	res, err := ahp.Calculate(ahp.Request{
		Method:      input.Method,
		Criteria:    input.Criteria,
		Comparisons: input.Comparisons,
		Ranking:     input.Ranking,
	})
	if err != nil {
		return nil, apperrors.NewWeightsInvalidError(err.Error())
	}

	consistent := res.ConsistencyRatio < h.config.ConsistencyThreshold
	if !consistent && input.RejectInconsistent {
		return nil, apperrors.NewWeightsInvalidError(fmt.Sprintf(
			"consistency ratio %.3f exceeds %.2f", res.ConsistencyRatio, h.config.ConsistencyThreshold))
	}
	if !consistent {
		h.logger.Warn("pairwise comparisons are inconsistent", map[string]interface{}{
			"consistencyRatio": res.ConsistencyRatio,
			"threshold":        h.config.ConsistencyThreshold,
		})
	}

	h.logger.Info("weights calculated", map[string]interface{}{
		"method":   string(res.Method),
		"criteria": len(res.Criteria),
		"balanced": res.Balanced,
	})

	return &Output{
		Method:           res.Method,
		Weights:          res.Weights,
		Criteria:         res.Criteria,
		Matrix:           res.Matrix,
		ConsistencyRatio: res.ConsistencyRatio,
		Consistent:       consistent,
		Balanced:         res.Balanced,
	}, nil
}
