// internal/workers/cleaning/apply-corrections/handler.go
package applycorrections

import (
	"context"
	"errors"
	"fmt"

	"data-workers/internal/common/camunda"
	apperrors "data-workers/internal/common/errors"
	"data-workers/internal/common/logger"
	"data-workers/internal/common/metrics"
	"data-workers/internal/corrections"
	"data-workers/internal/models"
	"data-workers/internal/store"
	"data-workers/internal/validator"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "apply-corrections"

type DatasetStore interface {
	Get(ctx context.Context, id string) (*models.Dataset, error)
	Save(ctx context.Context, ds *models.Dataset) error
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

// Execute merges the accepted suggestions and stores the result as the next
// version of the dataset. Nothing is written when no suggestion is accepted.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.DatasetID == "" {
		return nil, apperrors.NewInvalidInputError("datasetId is required")
	}
	threshold := h.config.ApplyThreshold
	if input.Threshold != nil {
		if *input.Threshold < 0 || *input.Threshold > 1 {
			return nil, apperrors.NewInvalidInputError(
				fmt.Sprintf("threshold must be between 0 and 1, got %v", *input.Threshold))
		}
		threshold = *input.Threshold
	}

	ds, err := h.load(ctx, input.DatasetID)
	if err != nil {
		return nil, err
	}
	companions, err := h.loadCompanions(ctx, input, ds.ID)
	if err != nil {
		return nil, err
	}

	suggestions := input.Suggestions
	if suggestions == nil {
		suggestions = corrections.SuggestDataset(ds)
	}

	next, applied := corrections.ApplyDataset(ds, suggestions, threshold)
	if len(applied) == 0 {
		next = ds
	} else if err := h.store.Save(ctx, next); err != nil {
		return nil, apperrors.NewDatasetStoreFailedError(err)
	}

	for _, s := range applied {
		metrics.CorrectionsApplied.WithLabelValues(string(s.Category)).Inc()
	}

	switch next.Kind {
	case models.KindClient:
		companions.Clients = next
	case models.KindWorker:
		companions.Workers = next
	case models.KindTask:
		companions.Tasks = next
	}
	result := validator.Validate(next.Kind, next, companions)

	h.logger.Info("corrections applied", map[string]interface{}{
		"datasetId": next.ID,
		"version":   next.Version,
		"applied":   len(applied),
		"skipped":   len(suggestions) - len(applied),
	})

	return &Output{
		DatasetID:       next.ID,
		PreviousVersion: ds.Version,
		Version:         next.Version,
		AppliedCount:    len(applied),
		SkippedCount:    len(suggestions) - len(applied),
		Applied:         applied,
		Summary:         result.Summary,
		Valid:           result.Valid(),
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

// loadCompanions resolves the companion ids. A reference to the corrected
// dataset itself is skipped; the new version takes that slot.
func (h *Handler) loadCompanions(ctx context.Context, input *Input, self string) (validator.Companions, error) {
	var companions validator.Companions
	for _, ref := range []struct {
		id   string
		slot **models.Dataset
	}{
		{input.ClientsDatasetID, &companions.Clients},
		{input.WorkersDatasetID, &companions.Workers},
		{input.TasksDatasetID, &companions.Tasks},
	} {
		if ref.id == "" || ref.id == self {
			continue
		}
		ds, err := h.load(ctx, ref.id)
		if err != nil {
			return companions, err
		}
		*ref.slot = ds
	}
	return companions, nil
}
