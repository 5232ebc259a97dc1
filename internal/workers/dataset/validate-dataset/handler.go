// internal/workers/dataset/validate-dataset/handler.go
package validatedataset

import (
	"context"
	"errors"

	"data-workers/internal/common/camunda"
	apperrors "data-workers/internal/common/errors"
	"data-workers/internal/common/logger"
	"data-workers/internal/common/metrics"
	"data-workers/internal/models"
	"data-workers/internal/store"
	"data-workers/internal/validator"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "validate-dataset"

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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.DatasetID == "" {
		return nil, apperrors.NewInvalidInputError("datasetId is required")
	}

	ds, err := h.load(ctx, input.DatasetID)
	if err != nil {
		return nil, err
	}

	var companions validator.Companions
	for _, ref := range []struct {
		id   string
		slot **models.Dataset
	}{
		{input.ClientsDatasetID, &companions.Clients},
		{input.WorkersDatasetID, &companions.Workers},
		{input.TasksDatasetID, &companions.Tasks},
	} {
		if ref.id == "" {
			continue
		}
		if ref.id == ds.ID {
			*ref.slot = ds
			continue
		}
		if *ref.slot, err = h.load(ctx, ref.id); err != nil {
			return nil, err
		}
	}
	switch ds.Kind {
	case models.KindClient:
		companions.Clients = ds
	case models.KindWorker:
		companions.Workers = ds
	case models.KindTask:
		companions.Tasks = ds
	}

	result := validator.Validate(ds.Kind, ds, companions)
	for _, f := range result.Findings {
		metrics.ValidationFindings.WithLabelValues(string(ds.Kind), string(f.Kind), string(f.Severity)).Inc()
	}

	h.logger.Info("dataset validated", map[string]interface{}{
		"datasetId": ds.ID,
		"kind":      string(ds.Kind),
		"errors":    result.Summary.ErrorCount,
		"warnings":  result.Summary.WarningCount,
	})

	return &Output{
		DatasetID: ds.ID,
		Kind:      ds.Kind,
		Valid:     result.Valid(),
		Findings:  result.Findings,
		Summary:   result.Summary,
	}, nil
}

func (h *Handler) load(ctx context.Context, id string) (*models.Dataset, error) {
	ds, err := h.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NewDatasetNotFoundError(id)
		}
		return nil, apperrors.NewDatasetStoreFailedError(err)
	}
	return ds, nil
}
