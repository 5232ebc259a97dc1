// internal/workers/dataset/filter-records/handler.go
package filterrecords

import (
	"context"
	"errors"

	"data-workers/internal/common/camunda"
	apperrors "data-workers/internal/common/errors"
	"data-workers/internal/common/logger"
	"data-workers/internal/models"
	"data-workers/internal/nlquery"
	"data-workers/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "filter-records"

type DatasetStore interface {
	Get(ctx context.Context, id string) (*models.Dataset, error)
}

type Handler struct {
	config    *Config
	store     DatasetStore
	logger    logger.Logger
	responder *camunda.Responder
}

func NewHandler(config *Config, store DatasetStore, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		store:     store,
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

// Execute runs the query over the stored rows. An empty or unrecognized
// query matches every row.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.DatasetID == "" {
		return nil, apperrors.NewInvalidInputError("datasetId is required")
	}

	ds, err := h.store.Get(ctx, input.DatasetID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NewDatasetNotFoundError(input.DatasetID)
		}
		return nil, apperrors.NewDatasetStoreFailedError(err)
	}

	result := nlquery.FilterDataset(ds, input.Query)

	out := &Output{
		DatasetID:   ds.ID,
		Indices:     result.Indices,
		Conditions:  result.Conditions,
		Explanation: result.Explanation,
	}
	if input.IncludeRecords {
		indices := result.Indices
		if h.config.MaxRecords > 0 && len(indices) > h.config.MaxRecords {
			indices = indices[:h.config.MaxRecords]
			out.Truncated = true
		}
		out.Records = make([]models.Record, len(indices))
		for i, idx := range indices {
			out.Records[i] = ds.Rows[idx]
		}
	}

	h.logger.Debug("records filtered", map[string]interface{}{
		"datasetId":  ds.ID,
		"conditions": len(result.Conditions),
		"matched":    len(result.Indices),
	})
	return out, nil
}
