// internal/workers/dataset/load-dataset/handler.go
package loaddataset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"data-workers/internal/common/camunda"
	apperrors "data-workers/internal/common/errors"
	"data-workers/internal/common/logger"
	"data-workers/internal/dataset"
	"data-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "load-dataset"

// DatasetStore persists the canonicalized sheet.
type DatasetStore interface {
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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if strings.TrimSpace(input.FileName) == "" {
		return nil, apperrors.NewInvalidInputError("fileName is required")
	}

	// uploads are addressed by base name only
	name := filepath.Base(input.FileName)
	path := filepath.Join(h.config.InputDir, name)

	info, err := os.Stat(path)
	if err != nil {
		return nil, apperrors.NewDatasetLoadFailedError(name, err)
	}
	if h.config.MaxFileSize > 0 && info.Size() > h.config.MaxFileSize {
		return nil, apperrors.NewInvalidInputError(
			fmt.Sprintf("%s is %d bytes, limit is %d", name, info.Size(), h.config.MaxFileSize))
	}

	sheet, err := dataset.LoadFile(path)
	if err != nil {
		if errors.Is(err, dataset.ErrUnsupportedFileType) {
			return nil, apperrors.NewUnsupportedFileTypeError(name)
		}
		if errors.Is(err, dataset.ErrEmptySheet) {
			return nil, apperrors.NewInvalidInputError(fmt.Sprintf("%s: %v", name, err))
		}
		return nil, apperrors.NewDatasetLoadFailedError(name, err)
	}

	kind, err := h.resolveKind(input.Kind, sheet.Headers)
	if err != nil {
		return nil, err
	}

	mapping := dataset.MapHeaders(sheet.Headers, kind)
	headers, rows := dataset.RemapRows(sheet.Headers, sheet.Rows, mapping)

	ds := &models.Dataset{
		Kind:    kind,
		Name:    input.Name,
		Headers: headers,
		Rows:    rows,
	}
	if ds.Name == "" {
		ds.Name = name
	}
	if err := h.store.Save(ctx, ds); err != nil {
		return nil, apperrors.NewDatasetStoreFailedError(err)
	}

	h.logger.Info("dataset loaded", map[string]interface{}{
		"datasetId": ds.ID,
		"kind":      string(kind),
		"rows":      len(rows),
		"file":      name,
	})

	return &Output{
		DatasetID:     ds.ID,
		Kind:          kind,
		Version:       ds.Version,
		RowCount:      len(rows),
		Headers:       headers,
		HeaderMapping: mapping,
	}, nil
}

func (h *Handler) resolveKind(requested string, headers []string) (models.EntityKind, error) {
	if requested != "" {
		kind, err := models.ParseEntityKind(requested)
		if err != nil {
			return "", apperrors.NewInvalidInputError(err.Error())
		}
		return kind, nil
	}
	kind, ok := dataset.DetectKind(headers)
	if !ok {
		return "", apperrors.NewInvalidInputError(
			fmt.Sprintf("could not detect entity kind from headers %v", headers))
	}
	return kind, nil
}
