// internal/workers/cleaning/suggest-corrections/handler.go
package suggestcorrections

import (
	"context"
	"errors"

	"data-workers/internal/common/camunda"
	apperrors "data-workers/internal/common/errors"
	"data-workers/internal/common/logger"
	"data-workers/internal/common/metrics"
	"data-workers/internal/corrections"
	"data-workers/internal/models"
	"data-workers/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "suggest-corrections"

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

	ds, err := h.store.Get(ctx, input.DatasetID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NewDatasetNotFoundError(input.DatasetID)
		}
		return nil, apperrors.NewDatasetStoreFailedError(err)
	}

	wanted := make(map[models.SuggestionCategory]bool, len(input.Categories))
	for _, c := range input.Categories {
		wanted[c] = true
	}

	out := &Output{
		DatasetID:   ds.ID,
		Version:     ds.Version,
		Suggestions: make([]models.Suggestion, 0),
		ByCategory:  make(map[models.SuggestionCategory]int),
	}
	for _, s := range corrections.SuggestDataset(ds) {
		if len(wanted) > 0 && !wanted[s.Category] {
			continue
		}
		out.Suggestions = append(out.Suggestions, s)
		out.ByCategory[s.Category]++
		if corrections.Accepted(s, h.config.ApplyThreshold) {
			out.AutoApplicable++
		}
		metrics.SuggestionsGenerated.WithLabelValues(string(s.Category)).Inc()
	}
	out.Count = len(out.Suggestions)

	h.logger.Info("suggestions generated", map[string]interface{}{
		"datasetId":      ds.ID,
		"count":          out.Count,
		"autoApplicable": out.AutoApplicable,
	})
	return out, nil
}
